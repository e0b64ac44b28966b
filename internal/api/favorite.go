package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snapcal/backend/internal/model"
	"github.com/snapcal/backend/internal/service"
)

type FavoriteHandler struct {
	favorites *service.FavoriteService
}

func NewFavoriteHandler(favorites *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

func (h *FavoriteHandler) RegisterRoutes(router *gin.RouterGroup) {
	favorites := router.Group("/favorites")
	{
		favorites.GET("", h.ListFavorites)
		favorites.POST("", h.AddFavorite)
		favorites.POST("/toggle", h.ToggleFavorite)
		favorites.GET("/:id", h.IsFavorite)
		favorites.DELETE("/:id", h.RemoveFavorite)
	}
}

// ListFavorites returns all favorited meal snapshots, newest first.
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"favorites": h.favorites.List()})
}

// AddFavorite stores a snapshot of the posted meal. The body is the full
// record: favorites stay intact even after the original meal is deleted.
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	var meal model.MealRecord
	if err := c.ShouldBindJSON(&meal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if meal.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meal id required"})
		return
	}

	h.favorites.AddFavorite(meal)
	c.JSON(http.StatusCreated, gin.H{"message": "meal favorited"})
}

// ToggleFavorite adds or removes the posted meal and reports the resulting
// state.
func (h *FavoriteHandler) ToggleFavorite(c *gin.Context) {
	var meal model.MealRecord
	if err := c.ShouldBindJSON(&meal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if meal.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meal id required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorited": h.favorites.ToggleFavorite(meal)})
}

// IsFavorite reports membership for one meal id.
func (h *FavoriteHandler) IsFavorite(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"favorited": h.favorites.IsFavorite(c.Param("id"))})
}

// RemoveFavorite drops one favorite; unknown ids are fine.
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	h.favorites.RemoveFavorite(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "favorite removed"})
}
