package service

import (
	"fmt"
	"sync"

	"github.com/snapcal/backend/internal/model"
	"github.com/snapcal/backend/internal/storage"
)

const favoriteStoreName = "favorite-storage"

// FavoriteService keeps full snapshots of liked meals, decoupled from the
// live meal history: deleting or editing the original record never touches
// the favorite, and vice versa.
type FavoriteService struct {
	mu        sync.Mutex
	favorites []model.MealRecord
	writer    *storage.Writer
}

// NewFavoriteService loads the persisted favorites and starts its writer.
func NewFavoriteService(store *storage.Store) (*FavoriteService, error) {
	s := &FavoriteService{}
	if _, err := store.Load(favoriteStoreName, &s.favorites); err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	s.writer = storage.NewWriter(favoriteStoreName, store, nil)
	return s, nil
}

// AddFavorite stores a snapshot of the meal. Adding an id that is already
// favorited is a no-op, so no duplicates accumulate.
func (s *FavoriteService) AddFavorite(meal model.MealRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(meal.ID) >= 0 {
		return
	}
	s.favorites = append([]model.MealRecord{cloneMeal(meal)}, s.favorites...)
	s.writer.Save(s.favorites)
}

// RemoveFavorite deletes the favorite with the matching id, if present.
func (s *FavoriteService) RemoveFavorite(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return
	}
	s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
	s.writer.Save(s.favorites)
}

// IsFavorite reports whether the id is currently favorited.
func (s *FavoriteService) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(id) >= 0
}

// ToggleFavorite adds the meal if absent or removes it if present, and
// returns the resulting membership state.
func (s *FavoriteService) ToggleFavorite(meal model.MealRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(meal.ID); i >= 0 {
		s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
		s.writer.Save(s.favorites)
		return false
	}
	s.favorites = append([]model.MealRecord{cloneMeal(meal)}, s.favorites...)
	s.writer.Save(s.favorites)
	return true
}

// List returns all favorites, newest first.
func (s *FavoriteService) List() []model.MealRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.MealRecord, 0, len(s.favorites))
	for _, f := range s.favorites {
		out = append(out, cloneMeal(f))
	}
	return out
}

// ClearAll wipes the favorites collection.
func (s *FavoriteService) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites = nil
	s.writer.Save([]model.MealRecord{})
}

// SaveErr reports the most recent persistence failure, if any.
func (s *FavoriteService) SaveErr() error {
	return s.writer.LastErr()
}

// Close flushes pending writes and stops the background writer.
func (s *FavoriteService) Close() {
	s.writer.Close()
}

func (s *FavoriteService) indexLocked(id string) int {
	for i := range s.favorites {
		if s.favorites[i].ID == id {
			return i
		}
	}
	return -1
}
