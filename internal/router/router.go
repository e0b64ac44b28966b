package router

import (
	"github.com/gin-gonic/gin"

	"github.com/snapcal/backend/internal/api"
	"github.com/snapcal/backend/internal/middleware"
)

// Handlers collects the API handlers the router wires up. Photo may be nil
// when S3 storage is not configured.
type Handlers struct {
	Auth     *api.AuthHandler
	Meal     *api.MealHandler
	Analysis *api.AnalysisHandler
	Weight   *api.WeightHandler
	Profile  *api.ProfileHandler
	Favorite *api.FavoriteHandler
	Settings *api.SettingsHandler
	Photo    *api.PhotoHandler
}

// Setup configures the application routes. Everything except device pairing
// sits behind the token middleware.
func Setup(h Handlers, validator middleware.TokenValidator) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CORS())

	v1 := router.Group("/api/v1")
	h.Auth.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))
	{
		h.Meal.RegisterRoutes(protected)
		h.Analysis.RegisterRoutes(protected)
		h.Weight.RegisterRoutes(protected)
		h.Profile.RegisterRoutes(protected)
		h.Favorite.RegisterRoutes(protected)
		h.Settings.RegisterRoutes(protected)
		if h.Photo != nil {
			h.Photo.RegisterRoutes(protected)
		}
	}

	return router
}
