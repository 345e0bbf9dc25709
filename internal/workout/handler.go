package workout

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"fitbook/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{service: NewService(NewRepository(db))}
}

// LogCyclingSession godoc
// @Summary      Log cycling session
// @Tags         sessions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateCyclingSessionRequest  true  "Session data"
// @Success      201      {object}  CyclingSession
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /sessions/cycling [post]
func (h *Handler) LogCyclingSession(c *gin.Context) {
	memberID, exists := auth.GetMemberID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Member not authenticated"})
		return
	}

	var req CreateCyclingSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.service.LogCyclingSession(c.Request.Context(), memberID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidSession) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session data"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log session"})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// LogRunningSession godoc
// @Summary      Log running session
// @Tags         sessions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateRunningSessionRequest  true  "Session data"
// @Success      201      {object}  RunningSession
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /sessions/running [post]
func (h *Handler) LogRunningSession(c *gin.Context) {
	memberID, exists := auth.GetMemberID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Member not authenticated"})
		return
	}

	var req CreateRunningSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.service.LogRunningSession(c.Request.Context(), memberID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidSession) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session data"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log session"})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListCyclingSessions godoc
// @Summary      List my cycling sessions
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   CyclingSession
// @Failure      500  {object}  gin.H
// @Router       /sessions/cycling [get]
func (h *Handler) ListCyclingSessions(c *gin.Context) {
	memberID, exists := auth.GetMemberID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Member not authenticated"})
		return
	}

	sessions, err := h.service.ListCyclingSessions(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// ListRunningSessions godoc
// @Summary      List my running sessions
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   RunningSession
// @Failure      500  {object}  gin.H
// @Router       /sessions/running [get]
func (h *Handler) ListRunningSessions(c *gin.Context) {
	memberID, exists := auth.GetMemberID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Member not authenticated"})
		return
	}

	sessions, err := h.service.ListRunningSessions(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// GetStatistics godoc
// @Summary      Training statistics
// @Description  Returns overall statistics, or one month when year and month query params are given.
// @Tags         statistics
// @Security     BearerAuth
// @Produce      json
// @Param        year   query     int  false  "Year"
// @Param        month  query     int  false  "Month (1-12)"
// @Success      200    {object}  TrainingStatistics
// @Failure      400    {object}  gin.H
// @Failure      500    {object}  gin.H
// @Router       /statistics [get]
func (h *Handler) GetStatistics(c *gin.Context) {
	memberID, exists := auth.GetMemberID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Member not authenticated"})
		return
	}

	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" && monthStr == "" {
		stats, err := h.service.TrainingStatistics(c.Request.Context(), memberID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
		return
	}

	stats, err := h.service.MonthlyStatistics(c.Request.Context(), memberID, year, month)
	if err != nil {
		if errors.Is(err, ErrInvalidSession) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Month must be between 1 and 12"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
