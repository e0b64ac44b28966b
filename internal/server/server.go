package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/snapcal/backend/config"
	"github.com/snapcal/backend/internal/api"
	"github.com/snapcal/backend/internal/database"
	"github.com/snapcal/backend/internal/router"
	"github.com/snapcal/backend/internal/service"
	"github.com/snapcal/backend/internal/storage"
)

// Server wires the stores, services and HTTP surface together.
type Server struct {
	http *http.Server

	meals     *service.MealService
	weights   *service.WeightService
	favorites *service.FavoriteService
	profile   *service.ProfileService
	settings  *service.SettingsService
}

// New builds a fully wired server from configuration.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(db)
	if err != nil {
		return nil, err
	}

	meals, err := service.NewMealService(store)
	if err != nil {
		return nil, err
	}
	weights, err := service.NewWeightService(store)
	if err != nil {
		return nil, err
	}
	favorites, err := service.NewFavoriteService(store)
	if err != nil {
		return nil, err
	}
	profile, err := service.NewProfileService(store)
	if err != nil {
		return nil, err
	}
	settings, err := service.NewSettingsService(store)
	if err != nil {
		return nil, err
	}

	var drafts service.DraftStore
	if cfg.RedisAddr() != "" {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		drafts = service.NewRedisDraftStore(redisClient)
	} else {
		log.Println("[Server] redis not configured, analysis drafts disabled")
	}
	analysis := service.NewAnalysisService(cfg.AnalysisURL, cfg.AnalysisKey, drafts)

	var photo *api.PhotoHandler
	if cfg.S3Bucket != "" {
		s3Cfg, err := config.NewS3Config(ctx, cfg.S3Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to configure S3: %w", err)
		}
		photo = api.NewPhotoHandler(service.NewImageService(s3Cfg))
	} else {
		log.Println("[Server] S3 not configured, photo uploads disabled")
	}

	auth := service.NewAuthService(cfg.JWTSecret)

	engine := router.Setup(router.Handlers{
		Auth:     api.NewAuthHandler(auth),
		Meal:     api.NewMealHandler(meals, analysis, profile),
		Analysis: api.NewAnalysisHandler(analysis, meals),
		Weight:   api.NewWeightHandler(weights, profile),
		Profile:  api.NewProfileHandler(profile),
		Favorite: api.NewFavoriteHandler(favorites),
		Settings: api.NewSettingsHandler(settings),
		Photo:    photo,
	}, auth)

	return &Server{
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
		meals:     meals,
		weights:   weights,
		favorites: favorites,
		profile:   profile,
		settings:  settings,
	}, nil
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	log.Printf("[Server] listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server and flushes every store's pending writes.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)

	s.meals.Close()
	s.weights.Close()
	s.favorites.Close()
	s.profile.Close()
	s.settings.Close()

	return err
}
