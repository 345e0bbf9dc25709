package timeslot

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		service: NewService(NewRepository(db)),
	}
}

// ListSlots godoc
// @Summary      List time slots
// @Description  Returns the full slot catalog ordered by start time. Optionally filtered by part of day.
// @Tags         slots
// @Security     BearerAuth
// @Produce      json
// @Param        part_of_day  query     string  false  "Part of day filter (morning, afternoon, evening)"
// @Success      200          {array}   TimeSlot
// @Failure      500          {object}  gin.H
// @Router       /slots [get]
func (h *Handler) ListSlots(c *gin.Context) {
	partOfDay := c.Query("part_of_day")

	var (
		slots []TimeSlot
		err   error
	)
	if partOfDay != "" {
		slots, err = h.service.SlotsForPartOfDay(c.Request.Context(), partOfDay)
	} else {
		slots, err = h.service.AllSlots(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch time slots"})
		return
	}

	c.JSON(http.StatusOK, slots)
}
