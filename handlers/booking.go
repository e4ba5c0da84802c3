package handlers

import (
	"context"
	"errors"
	"net/http"

	"fuelq/models"
	"fuelq/services/booking"
	"fuelq/services/token"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// BookingHandler exposes the booking lifecycle endpoints.
type BookingHandler struct {
	Service booking.BookingService
	Tokens  token.TokenService
}

func NewBookingHandler(svc booking.BookingService, tokens token.TokenService) *BookingHandler {
	return &BookingHandler{Service: svc, Tokens: tokens}
}

// Create books a slot for the authenticated user and returns the booking
// together with its e-token.
func (h *BookingHandler) Create(c *gin.Context) {
	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	req.UserID = c.GetString("userID")

	res, err := h.Service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrSlotUnavailable):
			c.JSON(http.StatusConflict, gin.H{"error": "slot unavailable"})
		case errors.Is(err, booking.ErrInvalidSlot):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot"})
		case errors.Is(err, booking.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "fuel quantity out of range"})
		case errors.Is(err, booking.ErrPumpClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "pump is closed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "booking failed", "details": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.loadOwned(c)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListMine lists the caller's bookings.
func (h *BookingHandler) ListMine(c *gin.Context) {
	bookings, err := h.Service.GetByUser(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ListByPump lists a pump's bookings. Admin routes only.
func (h *BookingHandler) ListByPump(c *gin.Context) {
	bookings, err := h.Service.GetByPump(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// AvailableSlots lists the free slots of a pump on a date.
func (h *BookingHandler) AvailableSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	slots, err := h.Service.AvailableSlots(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to list slots", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pump_id": c.Param("id"), "date": date, "slots": slots})
}

func (h *BookingHandler) Confirm(c *gin.Context) {
	if _, err := h.loadOwned(c); err != nil {
		return
	}
	h.applyTransition(c, h.Service.Confirm)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	if _, err := h.loadOwned(c); err != nil {
		return
	}
	h.applyTransition(c, h.Service.Cancel)
}

// Complete marks a booking served without a token scan. Pump admin routes only.
func (h *BookingHandler) Complete(c *gin.Context) {
	err := h.Service.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, booking.ErrNotConfirmed) {
			c.JSON(http.StatusConflict, gin.H{"error": "user has not confirmed they are coming"})
			return
		}
		h.transitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking completed"})
}

// SetConfirmation records the coming / not coming answer directly.
func (h *BookingHandler) SetConfirmation(c *gin.Context) {
	if _, err := h.loadOwned(c); err != nil {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Service.SetConfirmation(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confirmation failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "confirmation recorded"})
}

// GetToken returns the booking's current token.
func (h *BookingHandler) GetToken(c *gin.Context) {
	if _, err := h.loadOwned(c); err != nil {
		return
	}
	tok, err := h.Tokens.GetByBookingID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no token for booking"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load token", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tok)
}

// ReissueToken mints a fresh token, invalidating the previous one.
func (h *BookingHandler) ReissueToken(c *gin.Context) {
	if _, err := h.loadOwned(c); err != nil {
		return
	}
	tok, payload, err := h.Tokens.IssueToken(c.Request.Context(), c.Param("id"), 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": tok, "payload": payload})
}

// loadOwned fetches the booking and enforces that the caller owns it. Admin
// roles pass regardless. Writes the error response itself.
func (h *BookingHandler) loadOwned(c *gin.Context) (*models.Booking, error) {
	b, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return nil, err
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load booking", "details": err.Error()})
		return nil, err
	}

	role := models.Role(c.GetString("role"))
	if b.UserID != c.GetString("userID") && role != models.RoleSuperAdmin && role != models.RolePumpAdmin {
		err := errors.New("forbidden")
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not your booking"})
		return nil, err
	}
	return b, nil
}

func (h *BookingHandler) applyTransition(c *gin.Context, fn func(ctx context.Context, id string) error) {
	if err := fn(c.Request.Context(), c.Param("id")); err != nil {
		h.transitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking updated"})
}

func (h *BookingHandler) transitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid state transition"})
	case errors.Is(err, mongo.ErrNoDocuments):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transition failed", "details": err.Error()})
	}
}
