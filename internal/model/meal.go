package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ingredient is one food component of a meal as returned by the analysis
// service. Nutrition values are absolute for the stored weight, not per-gram
// rates. Excluded ingredients stay in the record so the original analysis
// response is always recoverable.
type Ingredient struct {
	Title    string  `json:"title"`
	Weight   float64 `json:"weight"`
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Excluded bool    `json:"excluded,omitempty"`
}

// MealTotals holds the derived nutrition sums for a meal. Totals are always
// recomputed from the ingredient list and servings multiplier, never edited
// in place.
type MealTotals struct {
	TotalCalories float64 `json:"totalCalories"`
	TotalProteins float64 `json:"totalProteins"`
	TotalCarbs    float64 `json:"totalCarbs"`
	TotalFats     float64 `json:"totalFats"`
	TotalWeight   float64 `json:"totalWeight"`
}

// MealRecord is one logged meal. ID, CreatedAt and Date are fixed at
// creation; Title, Health and Ingredients may be overwritten wholesale by
// the correction flow.
type MealRecord struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Health      int          `json:"health"`
	Ingredients []Ingredient `json:"ingredients"`
	Totals      MealTotals   `json:"totals"`
	Servings    float64      `json:"servings"`
	ImageURI    string       `json:"imageUri,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	Date        string       `json:"date"`
}

// DateKeyFormat is the calendar-day key layout used to group records by
// local day.
const DateKeyFormat = "2006-01-02"

// DateKey returns the YYYY-MM-DD key for t in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyFormat)
}

// NewMealID generates a meal record identifier from the current wall clock
// plus a random suffix, unique for any realistic single-device history.
func NewMealID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("meal_%d_%s", time.Now().UnixMilli(), suffix)
}
