package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapcal/backend/internal/model"
)

func newFavoriteService(t *testing.T) *FavoriteService {
	t.Helper()
	s, err := NewFavoriteService(newTestStore(t))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestAddFavoriteDeduplicates(t *testing.T) {
	s := newFavoriteService(t)
	meal := model.MealRecord{ID: "meal_1_abc", Title: "Pasta", Ingredients: pastaIngredients()}

	s.AddFavorite(meal)
	s.AddFavorite(meal)

	assert.Len(t, s.List(), 1)
	assert.True(t, s.IsFavorite(meal.ID))
}

func TestToggleFavoriteReportsMembership(t *testing.T) {
	s := newFavoriteService(t)
	meal := model.MealRecord{ID: "meal_1_abc", Title: "Pasta"}

	assert.True(t, s.ToggleFavorite(meal))
	assert.True(t, s.IsFavorite(meal.ID))

	assert.False(t, s.ToggleFavorite(meal))
	assert.False(t, s.IsFavorite(meal.ID))
	assert.Empty(t, s.List())
}

func TestFavoritesListNewestFirst(t *testing.T) {
	s := newFavoriteService(t)

	s.AddFavorite(model.MealRecord{ID: "meal_1_abc", Title: "First"})
	s.AddFavorite(model.MealRecord{ID: "meal_2_def", Title: "Second"})

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Title)
	assert.Equal(t, "First", list[1].Title)
}

func TestRemoveFavoriteUnknownIDIsNoOp(t *testing.T) {
	s := newFavoriteService(t)
	s.AddFavorite(model.MealRecord{ID: "meal_1_abc"})

	s.RemoveFavorite("meal_9_zzz")
	assert.Len(t, s.List(), 1)

	s.RemoveFavorite("meal_1_abc")
	assert.Empty(t, s.List())
}

func TestFavoriteSnapshotDecoupledFromMealHistory(t *testing.T) {
	store := newTestStore(t)
	meals, err := NewMealService(store)
	require.NoError(t, err)
	t.Cleanup(meals.Close)
	favorites, err := NewFavoriteService(store)
	require.NoError(t, err)
	t.Cleanup(favorites.Close)

	meal, err := meals.AddMeal("Pasta", 6, pastaIngredients(), "")
	require.NoError(t, err)
	favorites.AddFavorite(meal)

	// Editing and deleting the logged meal leaves the snapshot untouched.
	servings := 3.0
	_, ok := meals.UpdateMeal(meal.ID, MealUpdate{Servings: &servings})
	require.True(t, ok)
	require.True(t, meals.RemoveMeal(meal.ID))

	list := favorites.List()
	require.Len(t, list, 1)
	assert.Equal(t, meal.Totals, list[0].Totals)
	assert.Equal(t, 1.0, list[0].Servings)
}

func TestFavoritesSurviveReload(t *testing.T) {
	store := newTestStore(t)

	s, err := NewFavoriteService(store)
	require.NoError(t, err)
	s.AddFavorite(model.MealRecord{ID: "meal_1_abc", Title: "Pasta", Ingredients: pastaIngredients()})
	s.Close()

	reloaded, err := NewFavoriteService(store)
	require.NoError(t, err)
	defer reloaded.Close()

	list := reloaded.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Pasta", list[0].Title)
	assert.True(t, reloaded.IsFavorite("meal_1_abc"))
}

func TestFavoritesClearAll(t *testing.T) {
	store := newTestStore(t)

	s, err := NewFavoriteService(store)
	require.NoError(t, err)
	s.AddFavorite(model.MealRecord{ID: "meal_1_abc"})
	s.ClearAll()
	s.Close()

	reloaded, err := NewFavoriteService(store)
	require.NoError(t, err)
	defer reloaded.Close()
	assert.Empty(t, reloaded.List())
}
