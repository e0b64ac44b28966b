package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/snapcal/backend/internal/model"
	"github.com/snapcal/backend/internal/service"
)

type WeightHandler struct {
	weights *service.WeightService
	profile *service.ProfileService
}

func NewWeightHandler(weights *service.WeightService, profile *service.ProfileService) *WeightHandler {
	return &WeightHandler{weights: weights, profile: profile}
}

func (h *WeightHandler) RegisterRoutes(router *gin.RouterGroup) {
	weights := router.Group("/weights")
	{
		weights.GET("", h.ListMonth)
		weights.GET("/series", h.MonthSeries)
		weights.GET("/latest", h.Latest)
		weights.POST("", h.AddEntry)
	}
}

// AddEntry logs a weight sample, replacing any entry already on that date.
func (h *WeightHandler) AddEntry(c *gin.Context) {
	var req AddWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Date != "" {
		if _, err := time.Parse(model.DateKeyFormat, req.Date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
	}

	h.weights.AddEntry(req.Weight, req.Date)
	c.JSON(http.StatusCreated, gin.H{"message": "weight recorded"})
}

// ListMonth returns the explicit entries within a calendar month.
func (h *WeightHandler) ListMonth(c *gin.Context) {
	year, month, ok := monthParams(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": h.weights.EntriesForMonth(year, month)})
}

// MonthSeries returns the forward-filled charting series for a month.
func (h *WeightHandler) MonthSeries(c *gin.Context) {
	year, month, ok := monthParams(c)
	if !ok {
		return
	}

	current := h.profile.Profile().Weight
	c.JSON(http.StatusOK, gin.H{"series": h.weights.MonthSeries(year, month, current)})
}

// Latest returns the most recent weight sample.
func (h *WeightHandler) Latest(c *gin.Context) {
	weight, ok := h.weights.LatestWeight()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"weight": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"weight": weight})
}

func monthParams(c *gin.Context) (int, time.Month, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be 1-12"})
		return 0, 0, false
	}
	return year, time.Month(month), true
}
