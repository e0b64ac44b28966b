package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snapcal/backend/internal/service"
)

type AnalysisHandler struct {
	analysis *service.AnalysisService
	meals    *service.MealService
}

func NewAnalysisHandler(analysis *service.AnalysisService, meals *service.MealService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis, meals: meals}
}

func (h *AnalysisHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/analyze", h.Analyze)
	drafts := router.Group("/analyze/drafts")
	{
		drafts.POST("/:id/confirm", h.ConfirmDraft)
		drafts.DELETE("/:id", h.DiscardDraft)
	}
}

// Analyze sends a description or photo to the inference endpoint. On
// success the result is parked as a draft; nothing is logged until the
// draft is confirmed, so an abandoned analysis leaves no state behind.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if (req.Text == "") == (req.Image == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide exactly one of text or image"})
		return
	}

	ctx := c.Request.Context()
	var (
		result *service.AnalysisResult
		err    error
	)
	if req.Text != "" {
		result, err = h.analysis.AnalyzeText(ctx, req.Text, req.Locale)
	} else {
		result, err = h.analysis.AnalyzeImage(ctx, req.Image, req.Locale)
	}
	if err != nil {
		writeAnalysisError(c, err)
		return
	}

	drafts := h.analysis.Drafts()
	if drafts == nil {
		c.JSON(http.StatusOK, gin.H{"result": result})
		return
	}

	draft := &service.MealDraft{Result: *result, ImageURI: req.ImageURI}
	if err := drafts.SaveDraft(ctx, draft); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result, "draft_id": draft.ID})
}

// ConfirmDraft turns a parked analysis result into a logged meal record and
// removes the draft.
func (h *AnalysisHandler) ConfirmDraft(c *gin.Context) {
	drafts := h.analysis.Drafts()
	if drafts == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "drafts are not enabled"})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	draft, err := drafts.GetDraft(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load draft"})
		return
	}

	meal, err := h.meals.AddMeal(draft.Result.Title, draft.Result.Health, draft.Result.Ingredients, draft.ImageURI)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := drafts.DeleteDraft(ctx, id); err != nil {
		// The meal is already logged; an expired draft cleans itself up.
		c.JSON(http.StatusCreated, meal)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// DiscardDraft drops a parked analysis result without logging anything.
func (h *AnalysisHandler) DiscardDraft(c *gin.Context) {
	drafts := h.analysis.Drafts()
	if drafts == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "drafts are not enabled"})
		return
	}

	if err := drafts.DeleteDraft(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete draft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "draft discarded"})
}
