package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/snapcal/backend/internal/nutrition"
	"github.com/snapcal/backend/internal/service"
)

type MealHandler struct {
	meals    *service.MealService
	analysis *service.AnalysisService
	profile  *service.ProfileService
}

func NewMealHandler(meals *service.MealService, analysis *service.AnalysisService, profile *service.ProfileService) *MealHandler {
	return &MealHandler{meals: meals, analysis: analysis, profile: profile}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	{
		meals.GET("", h.ListMeals)
		meals.GET("/daily-totals", h.DailyTotals)
		meals.POST("", h.CreateMeal)
		meals.PUT("/:id", h.UpdateMeal)
		meals.DELETE("/:id", h.DeleteMeal)
		meals.POST("/:id/ingredients/:index/toggle", h.ToggleIngredient)
		meals.POST("/:id/correct", h.CorrectMeal)
	}
}

// ListMeals returns the meals logged on one local calendar day.
func (h *MealHandler) ListMeals(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	meals := h.meals.MealsByDate(date)
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

// DailyTotals returns the summed stored totals for one day, plus how far
// along each of the day's targets that consumption is.
func (h *MealHandler) DailyTotals(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	totals := h.meals.DailyTotals(date)
	targets := h.profile.Targets()
	c.JSON(http.StatusOK, gin.H{
		"totals": totals,
		"progress": gin.H{
			"calories": nutrition.Progress(totals.TotalCalories, float64(targets.Calories)),
			"proteins": nutrition.Progress(totals.TotalProteins, float64(targets.Proteins)),
			"carbs":    nutrition.Progress(totals.TotalCarbs, float64(targets.Carbs)),
			"fats":     nutrition.Progress(totals.TotalFats, float64(targets.Fats)),
		},
	})
}

// CreateMeal logs a meal from an analysis result the client already holds.
func (h *MealHandler) CreateMeal(c *gin.Context) {
	var req AddMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := h.meals.AddMeal(req.Title, req.Health, req.Ingredients, req.ImageURI)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, meal)
}

// UpdateMeal merges the provided fields; totals are recomputed whenever
// ingredients or servings change.
func (h *MealHandler) UpdateMeal(c *gin.Context) {
	var req UpdateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, ok := h.meals.UpdateMeal(c.Param("id"), service.MealUpdate{
		Title:       req.Title,
		Health:      req.Health,
		Ingredients: req.Ingredients,
		Servings:    req.Servings,
	})
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
		return
	}

	c.JSON(http.StatusOK, meal)
}

// DeleteMeal removes a meal; unknown ids are fine.
func (h *MealHandler) DeleteMeal(c *gin.Context) {
	h.meals.RemoveMeal(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "meal deleted"})
}

// ToggleIngredient flips one ingredient's excluded flag.
func (h *MealHandler) ToggleIngredient(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient index"})
		return
	}

	meal, ok, err := h.meals.ToggleIngredient(c.Param("id"), index)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, meal)
}

// CorrectMeal re-analyzes a logged meal against the user's free-text edit
// and overwrites title, health and ingredients wholesale. The record's id,
// creation time and date key never change.
func (h *MealHandler) CorrectMeal(c *gin.Context) {
	var req CorrectMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	meal, ok := h.meals.Meal(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
		return
	}

	previous := &service.AnalysisResult{
		Title:       meal.Title,
		Health:      meal.Health,
		Ingredients: meal.Ingredients,
	}
	result, err := h.analysis.Correct(c.Request.Context(), req.Text, req.Locale, previous)
	if err != nil {
		writeAnalysisError(c, err)
		return
	}

	updated, ok := h.meals.UpdateMeal(id, service.MealUpdate{
		Title:       &result.Title,
		Health:      &result.Health,
		Ingredients: result.Ingredients,
	})
	if !ok {
		// Removed while the analysis round-trip was in flight.
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func writeAnalysisError(c *gin.Context, err error) {
	var notFood *service.NotFoodError
	switch {
	case errors.As(err, &notFood):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": notFood.Error()})
	case errors.Is(err, service.ErrAnalysisDecode):
		c.JSON(http.StatusBadGateway, gin.H{"error": "analysis service returned an invalid response"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "analysis request failed"})
	}
}
