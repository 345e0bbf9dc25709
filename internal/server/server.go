package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"fitbook/internal/auth"
	"fitbook/internal/cache"
	"fitbook/internal/clock"
	"fitbook/internal/config"
	"fitbook/internal/equipment"
	"fitbook/internal/member"
	"fitbook/internal/program"
	"fitbook/internal/reservation"
	"fitbook/internal/timeslot"
	"fitbook/internal/workout"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, avail *cache.AvailabilityCache) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	clk := clock.NewSystem()

	memberRepo := member.NewRepository(db)
	equipmentRepo := equipment.NewRepository(db)
	slotRepo := timeslot.NewRepository(db)
	reservationRepo := reservation.NewRepository(db)

	index := reservation.NewCachedIndex(reservationRepo, avail)
	validator := reservation.NewValidator(memberRepo, equipmentRepo, slotRepo, index, clk)
	reservationService := reservation.NewService(reservationRepo, validator, equipmentRepo, slotRepo, avail, clk)

	memberHandler := member.NewHandler(db, cfg.JWTSecret)
	equipmentHandler := equipment.NewHandler(db)
	slotHandler := timeslot.NewHandler(db)
	workoutHandler := workout.NewHandler(db)
	programHandler := program.NewHandler(db)
	reservationHandler := reservation.NewHandler(reservationService)

	public := router.Group("/auth")
	{
		public.POST("/register", memberHandler.Register)
		public.POST("/login", memberHandler.Login)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", memberHandler.GetMe)
		protected.PUT("/me", memberHandler.UpdateMe)
		protected.GET("/me/programs", programHandler.ListMyPrograms)

		protected.GET("/slots", slotHandler.ListSlots)
		protected.GET("/equipment", equipmentHandler.ListEquipment)
		protected.GET("/equipment/:equipmentID", equipmentHandler.GetEquipment)

		protected.POST("/reservations", reservationHandler.CreateReservation)
		protected.GET("/reservations", reservationHandler.ListMyReservations)
		protected.GET("/reservations/:reservationID", reservationHandler.GetReservation)
		protected.DELETE("/reservations/:reservationID", reservationHandler.CancelReservation)

		protected.POST("/sessions/cycling", workoutHandler.LogCyclingSession)
		protected.GET("/sessions/cycling", workoutHandler.ListCyclingSessions)
		protected.POST("/sessions/running", workoutHandler.LogRunningSession)
		protected.GET("/sessions/running", workoutHandler.ListRunningSessions)
		protected.GET("/statistics", workoutHandler.GetStatistics)

		protected.GET("/programs", programHandler.ListPrograms)
		protected.POST("/programs/:code/enroll", programHandler.EnrollInProgram)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/equipment", equipmentHandler.CreateEquipment)
		admin.GET("/members", memberHandler.ListMembers)
		admin.GET("/equipment/:equipmentID/reservations", reservationHandler.ListFutureByEquipment)
		admin.POST("/programs", programHandler.CreateProgram)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
