package handlers

import (
	"net/http"

	"fuelq/services/reminder"

	"github.com/gin-gonic/gin"
)

// ReminderHandler exposes reminder response endpoints.
type ReminderHandler struct {
	Service reminder.ReminderService
}

func NewReminderHandler(svc reminder.ReminderService) *ReminderHandler {
	return &ReminderHandler{Service: svc}
}

// Respond records the user's coming / not coming answer to a reminder.
func (h *ReminderHandler) Respond(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Service.Respond(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to record response", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "response recorded"})
}

// ListForBooking lists a booking's reminders.
func (h *ReminderHandler) ListForBooking(c *gin.Context) {
	reminders, err := h.Service.GetByBookingID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reminders", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reminders)
}
