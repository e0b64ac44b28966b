package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snapcal/backend/internal/service"
)

type ProfileHandler struct {
	profile *service.ProfileService
}

func NewProfileHandler(profile *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profile: profile}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/targets", h.GetTargets)
	}
}

// GetProfile returns the stored biometrics and the derived targets.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"profile": h.profile.Profile(),
		"targets": h.profile.Targets(),
	})
}

// UpdateProfile merges any subset of biometric fields and recomputes the
// targets. The update is all-or-nothing: one invalid field rejects the whole
// request without touching the profile.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.profile.UpdateProfile(service.ProfileUpdate{
		Weight:        req.Weight,
		Height:        req.Height,
		Age:           req.Age,
		GoalWeight:    req.GoalWeight,
		ActivityLevel: req.ActivityLevel,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": h.profile.Profile(),
		"targets": h.profile.Targets(),
	})
}

// GetTargets returns only the daily nutrition targets.
func (h *ProfileHandler) GetTargets(c *gin.Context) {
	c.JSON(http.StatusOK, h.profile.Targets())
}
