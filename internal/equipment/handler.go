package equipment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// ListEquipment godoc
// @Summary      List equipment
// @Description  Returns the equipment catalog.
// @Tags         equipment
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Equipment
// @Failure      500  {object}  gin.H
// @Router       /equipment [get]
func (h *Handler) ListEquipment(c *gin.Context) {
	list, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch equipment"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetEquipment godoc
// @Summary      Get equipment by id
// @Tags         equipment
// @Security     BearerAuth
// @Produce      json
// @Param        equipmentID  path      int  true  "Equipment ID"
// @Success      200          {object}  Equipment
// @Failure      400          {object}  gin.H
// @Failure      404          {object}  gin.H
// @Router       /equipment/{equipmentID} [get]
func (h *Handler) GetEquipment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("equipmentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment ID"})
		return
	}

	eq, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrEquipmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, eq)
}

// CreateEquipment godoc
// @Summary      Create equipment
// @Description  Adds a device to the equipment catalog. Admin only.
// @Tags         equipment
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateEquipmentRequest  true  "Equipment data"
// @Success      201      {object}  Equipment
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/equipment [post]
func (h *Handler) CreateEquipment(c *gin.Context) {
	var req CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eq, err := h.repo.Create(c.Request.Context(), req.DeviceType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create equipment"})
		return
	}

	c.JSON(http.StatusCreated, eq)
}
