package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"fuelq/models"
	"fuelq/services/pump"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// PumpHandler exposes station endpoints.
type PumpHandler struct {
	Service pump.PumpService
}

func NewPumpHandler(svc pump.PumpService) *PumpHandler {
	return &PumpHandler{Service: svc}
}

func (h *PumpHandler) Register(c *gin.Context) {
	var p models.Pump
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Service.Register(c.Request.Context(), &p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "registration failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PumpHandler) Get(c *gin.Context) {
	p, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pump not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pump", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// List returns pumps, filtered by city when a city query is present.
func (h *PumpHandler) List(c *gin.Context) {
	if city := c.Query("city"); city != "" {
		pumps, err := h.Service.ListByCity(c.Request.Context(), city)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list pumps", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, pumps)
		return
	}

	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	pumps, err := h.Service.List(c.Request.Context(), skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list pumps", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pumps)
}

// Nearby returns open pumps around a coordinate, nearest first.
func (h *PumpHandler) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters are required"})
		return
	}
	radius, err := strconv.ParseFloat(c.DefaultQuery("radius_km", "10"), 64)
	if err != nil || radius <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius_km"})
		return
	}

	pumps, err := h.Service.Nearby(c.Request.Context(), lat, lng, radius)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search pumps", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pumps)
}

func (h *PumpHandler) Update(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Service.Update(c.Request.Context(), c.Param("id"), fields); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pump updated"})
}

func (h *PumpHandler) SetOpen(c *gin.Context) {
	var req struct {
		IsOpen *bool `json:"is_open" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Service.SetOpen(c.Request.Context(), c.Param("id"), *req.IsOpen); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pump availability updated"})
}

func (h *PumpHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pump deleted"})
}

// AssignAdmin binds a user to a pump as its administrator.
func (h *PumpHandler) AssignAdmin(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	assignment, err := h.Service.AssignAdmin(c.Request.Context(), req.UserID, c.Param("id"))
	if err != nil {
		if errors.Is(err, pump.ErrPumpNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pump not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assignment failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// MyPumps lists the pumps administered by the caller.
func (h *PumpHandler) MyPumps(c *gin.Context) {
	pumps, err := h.Service.PumpsForAdmin(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list pumps", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pumps)
}
