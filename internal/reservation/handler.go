package reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fitbook/internal/api"
	"fitbook/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateReservation godoc
// @Summary      Create reservation
// @Description  Books equipment for one or two contiguous time slots on a date. All-or-nothing: a two-slot request either commits both slots or nothing.
// @Tags         reservations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateReservationRequest  true  "Reservation request"
// @Success      201      {object}  Summary
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /reservations [post]
func (h *Handler) CreateReservation(c *gin.Context) {
	memberID, exists := auth.GetMemberID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Member not authenticated"})
		return
	}

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.service.CreateReservation(c.Request.Context(), memberID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, summary)
}

// CancelReservation godoc
// @Summary      Cancel reservation
// @Description  Deletes the reservation and releases all its slot claims.
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        reservationID  path      int  true  "Reservation ID"
// @Success      200            {object}  api.MessageResponse
// @Failure      400            {object}  api.ErrorResponse
// @Failure      403            {object}  api.ErrorResponse
// @Failure      404            {object}  api.ErrorResponse
// @Failure      500            {object}  api.ErrorResponse
// @Router       /reservations/{reservationID} [delete]
func (h *Handler) CancelReservation(c *gin.Context) {
	memberID, exists := auth.GetMemberID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Member not authenticated"})
		return
	}

	reservationID, err := strconv.Atoi(c.Param("reservationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	admin := c.GetString("member_role") == "admin"
	if err := h.service.CancelReservation(c.Request.Context(), memberID, reservationID, admin); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Reservation cancelled successfully"})
}

// GetReservation godoc
// @Summary      Get reservation
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        reservationID  path      int  true  "Reservation ID"
// @Success      200            {object}  Summary
// @Failure      400            {object}  api.ErrorResponse
// @Failure      404            {object}  api.ErrorResponse
// @Router       /reservations/{reservationID} [get]
func (h *Handler) GetReservation(c *gin.Context) {
	reservationID, err := strconv.Atoi(c.Param("reservationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	summary, err := h.service.GetReservation(c.Request.Context(), reservationID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListMyReservations godoc
// @Summary      List my reservations
// @Description  Returns the authenticated member's reservations ordered by date then slot start.
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Summary
// @Failure      500  {object}  api.ErrorResponse
// @Router       /reservations [get]
func (h *Handler) ListMyReservations(c *gin.Context) {
	memberID, exists := auth.GetMemberID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Member not authenticated"})
		return
	}

	summaries, err := h.service.ListMemberReservations(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reservations"})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// ListFutureByEquipment godoc
// @Summary      List future reservations for equipment
// @Description  Returns reservations for the equipment with date >= today. Admin only.
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        equipmentID  path      int  true  "Equipment ID"
// @Success      200          {array}   Summary
// @Failure      400          {object}  api.ErrorResponse
// @Failure      500          {object}  api.ErrorResponse
// @Router       /admin/equipment/{equipmentID}/reservations [get]
func (h *Handler) ListFutureByEquipment(c *gin.Context) {
	equipmentID, err := strconv.Atoi(c.Param("equipmentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment ID"})
		return
	}

	summaries, err := h.service.ListFutureReservations(c.Request.Context(), equipmentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reservations"})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if r, ok := AsRejection(err); ok {
		status := http.StatusBadRequest
		switch r.Code {
		case CodeEquipmentUnavailable, CodeConflict, CodeDailyLimitExceeded, CodeConsecutiveLimitExceeded:
			status = http.StatusConflict
		}
		c.JSON(status, api.ErrorResponse{Error: r.Detail, Code: r.Code})
		return
	}

	switch {
	case errors.Is(err, ErrReservationNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Reservation not found"})
	case errors.Is(err, ErrNotOwner):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "You can only cancel your own reservations"})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal error"})
	}
}
