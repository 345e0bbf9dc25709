package program

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"fitbook/internal/auth"
	"fitbook/internal/metrics"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// ListPrograms godoc
// @Summary      List training programs
// @Description  Returns all programs with their current enrollment counts.
// @Tags         programs
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   ProgramWithEnrollment
// @Failure      500  {object}  gin.H
// @Router       /programs [get]
func (h *Handler) ListPrograms(c *gin.Context) {
	list, err := h.repo.GetAllWithEnrollment(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch programs"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// EnrollInProgram godoc
// @Summary      Enroll in a program
// @Description  Enrolls the authenticated member. Fails when the program is full or the member is already enrolled.
// @Tags         programs
// @Security     BearerAuth
// @Produce      json
// @Param        code  path      string  true  "Program code"
// @Success      200   {object}  api.MessageResponse
// @Failure      404   {object}  gin.H
// @Failure      409   {object}  gin.H
// @Router       /programs/{code}/enroll [post]
func (h *Handler) EnrollInProgram(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	code := c.Param("code")

	err := h.repo.Enroll(c.Request.Context(), memberID, code)
	if err != nil {
		switch {
		case errors.Is(err, ErrProgramNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		case errors.Is(err, ErrProgramFull):
			c.JSON(http.StatusConflict, gin.H{"error": "Program is full"})
		case errors.Is(err, ErrAlreadyEnrolled):
			c.JSON(http.StatusConflict, gin.H{"error": "Already enrolled in this program"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enroll"})
		}
		return
	}

	metrics.RecordEnrollment()
	c.JSON(http.StatusOK, gin.H{"message": "Enrolled successfully"})
}

// ListMyPrograms godoc
// @Summary      List my programs
// @Tags         programs
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Program
// @Failure      500  {object}  gin.H
// @Router       /me/programs [get]
func (h *Handler) ListMyPrograms(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	list, err := h.repo.GetByMember(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch programs"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// CreateProgram godoc
// @Summary      Create a program
// @Description  Adds a training program. Admin only.
// @Tags         programs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateProgramRequest  true  "Program data"
// @Success      201      {object}  Program
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/programs [post]
func (h *Handler) CreateProgram(c *gin.Context) {
	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date, expected YYYY-MM-DD"})
		return
	}

	p, err := h.repo.Create(c.Request.Context(), req.Code, req.Name, req.Target, startDate, req.MaxMembers)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create program"})
		return
	}

	c.JSON(http.StatusCreated, p)
}
