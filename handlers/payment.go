package handlers

import (
	"errors"
	"net/http"

	"fuelq/services/payment"

	"github.com/gin-gonic/gin"
)

// PaymentHandler exposes payment endpoints.
type PaymentHandler struct {
	Service payment.PaymentService
}

func NewPaymentHandler(svc payment.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: svc}
}

// CreateIntent opens a Stripe payment intent for a booking.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	res, err := h.Service.CreateIntent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, payment.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment amount"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create payment intent", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, res)
}

// RecordCash records an offline payment as settled. Pump admin routes only.
func (h *PaymentHandler) RecordCash(c *gin.Context) {
	p, err := h.Service.RecordCash(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record payment", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Settle resolves a pending payment.
func (h *PaymentHandler) Settle(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Service.Settle(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "settlement failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment settled"})
}

// ListForBooking lists a booking's payments.
func (h *PaymentHandler) ListForBooking(c *gin.Context) {
	payments, err := h.Service.GetByBookingID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list payments", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, payments)
}
