package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/snapcal/backend/internal/model"
	"github.com/snapcal/backend/internal/nutrition"
	"github.com/snapcal/backend/internal/storage"
)

const mealStoreName = "meal-storage"

var (
	// ErrInvalidMeal rejects records missing the fields every analysis
	// response is required to carry.
	ErrInvalidMeal = errors.New("meal requires a title and an ingredient list")
	// ErrIngredientIndex marks an exclusion toggle outside the meal's
	// ingredient list.
	ErrIngredientIndex = errors.New("ingredient index out of range")
)

// MealUpdate carries the fields updateMeal may merge into an existing
// record. Nil fields are left unchanged.
type MealUpdate struct {
	Title       *string
	Health      *int
	Ingredients []model.Ingredient
	Servings    *float64
}

// MealService owns the logged meal history: an insertion-ordered collection,
// newest first, persisted as one snapshot. All mutations land in memory
// under the lock before the asynchronous write is queued, so reads within
// the process always see the latest state.
type MealService struct {
	mu     sync.Mutex
	meals  []model.MealRecord
	writer *storage.Writer
	now    func() time.Time
}

// NewMealService loads the persisted meal history and starts its writer.
func NewMealService(store *storage.Store) (*MealService, error) {
	s := &MealService{now: time.Now}
	if _, err := store.Load(mealStoreName, &s.meals); err != nil {
		return nil, fmt.Errorf("failed to load meal history: %w", err)
	}
	s.writer = storage.NewWriter(mealStoreName, store, nil)
	return s, nil
}

// AddMeal creates a record from a successful analysis result: fresh id,
// creation time and local date key, totals computed at one serving. The new
// record is prepended so the history stays newest first.
func (s *MealService) AddMeal(title string, health int, ingredients []model.Ingredient, imageURI string) (model.MealRecord, error) {
	if title == "" || ingredients == nil {
		return model.MealRecord{}, ErrInvalidMeal
	}

	now := s.now()
	meal := model.MealRecord{
		ID:          model.NewMealID(),
		Title:       title,
		Health:      health,
		Ingredients: cloneIngredients(ingredients),
		Totals:      nutrition.ComputeTotals(ingredients, 1),
		Servings:    1,
		ImageURI:    imageURI,
		CreatedAt:   now,
		Date:        model.DateKey(now),
	}

	s.mu.Lock()
	s.meals = append([]model.MealRecord{meal}, s.meals...)
	s.persistLocked()
	s.mu.Unlock()

	return cloneMeal(meal), nil
}

// UpdateMeal merges the given fields into the record with the matching id
// and recomputes totals whenever ingredients or servings were touched, using
// the merged values. Unknown ids are a no-op; the second return reports
// whether a record was found.
func (s *MealService) UpdateMeal(id string, upd MealUpdate) (model.MealRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.MealRecord{}, false
	}

	meal := &s.meals[i]
	if upd.Title != nil {
		meal.Title = *upd.Title
	}
	if upd.Health != nil {
		meal.Health = *upd.Health
	}
	if upd.Ingredients != nil {
		meal.Ingredients = cloneIngredients(upd.Ingredients)
	}
	if upd.Servings != nil {
		meal.Servings = *upd.Servings
	}
	if upd.Ingredients != nil || upd.Servings != nil {
		meal.Totals = nutrition.ComputeTotals(meal.Ingredients, meal.Servings)
	}

	s.persistLocked()
	return cloneMeal(*meal), true
}

// ToggleIngredient flips one ingredient's excluded flag and recomputes the
// meal's totals. Toggling twice restores the original totals.
func (s *MealService) ToggleIngredient(id string, index int) (model.MealRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.MealRecord{}, false, nil
	}

	meal := &s.meals[i]
	if index < 0 || index >= len(meal.Ingredients) {
		return model.MealRecord{}, true, ErrIngredientIndex
	}

	meal.Ingredients[index].Excluded = !meal.Ingredients[index].Excluded
	meal.Totals = nutrition.ComputeTotals(meal.Ingredients, meal.Servings)

	s.persistLocked()
	return cloneMeal(*meal), true, nil
}

// RemoveMeal deletes the record with the matching id. Removing an unknown id
// is not an error, so callers can retry safely.
func (s *MealService) RemoveMeal(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.meals = append(s.meals[:i], s.meals[i+1:]...)
	s.persistLocked()
	return true
}

// Meal returns the record with the matching id.
func (s *MealService) Meal(id string) (model.MealRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.MealRecord{}, false
	}
	return cloneMeal(s.meals[i]), true
}

// MealsByDate returns all records keyed under the given local calendar day,
// in store order.
func (s *MealService) MealsByDate(date string) []model.MealRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.MealRecord
	for _, m := range s.meals {
		if m.Date == date {
			out = append(out, cloneMeal(m))
		}
	}
	return out
}

// DailyTotals sums the stored totals of every meal on the given day. This is
// a sum of per-meal totals, not a re-derivation from raw ingredients, so
// each meal's exclusions and servings stay reflected.
func (s *MealService) DailyTotals(date string) model.MealTotals {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum model.MealTotals
	for _, m := range s.meals {
		if m.Date == date {
			sum = nutrition.SumTotals(sum, m.Totals)
		}
	}
	return sum
}

// ClearAll wipes the meal history.
func (s *MealService) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meals = nil
	s.persistLocked()
}

// SaveErr reports the most recent persistence failure, if any. In-memory
// state stays authoritative for the session either way.
func (s *MealService) SaveErr() error {
	return s.writer.LastErr()
}

// Close flushes pending writes and stops the background writer.
func (s *MealService) Close() {
	s.writer.Close()
}

func (s *MealService) indexLocked(id string) int {
	for i := range s.meals {
		if s.meals[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MealService) persistLocked() {
	if s.meals == nil {
		s.writer.Save([]model.MealRecord{})
		return
	}
	s.writer.Save(s.meals)
}

func cloneIngredients(in []model.Ingredient) []model.Ingredient {
	out := make([]model.Ingredient, len(in))
	copy(out, in)
	return out
}

func cloneMeal(m model.MealRecord) model.MealRecord {
	m.Ingredients = cloneIngredients(m.Ingredients)
	return m
}
