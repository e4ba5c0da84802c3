package handlers

import (
	"net/http"

	"fuelq/models"
	"fuelq/services/pump"
	"fuelq/services/token"

	"github.com/gin-gonic/gin"
)

// TokenHandler exposes validation, redeem and scan audit endpoints. Used by
// pump-side scanner clients.
type TokenHandler struct {
	Service token.TokenService
	Pumps   pump.PumpService
}

func NewTokenHandler(svc token.TokenService, pumps pump.PumpService) *TokenHandler {
	return &TokenHandler{Service: svc, Pumps: pumps}
}

// Validate classifies a token code without consuming it.
func (h *TokenHandler) Validate(c *gin.Context) {
	res, err := h.Service.Validate(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed", "details": err.Error()})
		return
	}
	if !res.Valid {
		c.JSON(http.StatusOK, gin.H{"valid": false, "reason": res.Reason})
		return
	}
	c.JSON(http.StatusOK, res)
}

// Redeem consumes a token and completes its booking. Pump admins only; the
// caller must administer the pump it scans for.
func (h *TokenHandler) Redeem(c *gin.Context) {
	var req struct {
		Code   string `json:"code" binding:"required"`
		PumpID string `json:"pump_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	userID := c.GetString("userID")
	if !h.authorizedForPump(c, userID, req.PumpID) {
		return
	}

	res, err := h.Service.RedeemAndComplete(c.Request.Context(), req.Code, token.ScanMeta{
		PumpID:    req.PumpID,
		ScannedBy: userID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "redeem failed", "details": err.Error()})
		return
	}
	if !res.Success {
		c.JSON(http.StatusConflict, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListScans returns a pump's scan audit trail.
func (h *TokenHandler) ListScans(c *gin.Context) {
	pumpID := c.Param("id")
	if !h.authorizedForPump(c, c.GetString("userID"), pumpID) {
		return
	}

	scans, err := h.Service.ListScans(c.Request.Context(), pumpID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list scans", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, scans)
}

// authorizedForPump checks the caller administers the pump. Super admins
// always pass. Writes the error response itself.
func (h *TokenHandler) authorizedForPump(c *gin.Context, userID, pumpID string) bool {
	if models.Role(c.GetString("role")) == models.RoleSuperAdmin {
		return true
	}
	ok, err := h.Pumps.IsAdminOf(c.Request.Context(), userID, pumpID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authorization check failed", "details": err.Error()})
		return false
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not an admin of this pump"})
		return false
	}
	return true
}
