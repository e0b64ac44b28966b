package nutrition

import (
	"math"

	"github.com/snapcal/backend/internal/model"
)

// Energy share of each macro and its energy density (kcal per gram).
const (
	proteinShare = 0.25
	carbShare    = 0.45
	fatShare     = 0.30

	kcalPerGramProtein = 4
	kcalPerGramCarb    = 4
	kcalPerGramFat     = 9
)

// minCalories is the floor applied to the daily calorie target.
const minCalories = 1200

var activityMultipliers = map[model.ActivityLevel]float64{
	model.ActivityMinimum:  1.2,
	model.ActivityLight:    1.375,
	model.ActivityModerate: 1.55,
	model.ActivityHigh:     1.725,
}

// DefaultTargets is used before any profile has been entered.
var DefaultTargets = model.NutritionTargets{
	Calories: 2000,
	Proteins: 120,
	Carbs:    250,
	Fats:     65,
}

// CalculateTargets derives daily calorie and macro targets from a profile.
//
// BMR uses the Mifflin-St Jeor formula averaged across its male and female
// variants. The profile intentionally carries no gender field, so the
// average is a documented approximation, not an omission to fix.
func CalculateTargets(p model.UserProfile) model.NutritionTargets {
	maleBMR := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age) + 5
	femaleBMR := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age) - 161
	bmr := (maleBMR + femaleBMR) / 2

	multiplier, ok := activityMultipliers[p.ActivityLevel]
	if !ok {
		multiplier = activityMultipliers[model.ActivityLight]
	}
	tdee := bmr * multiplier

	switch diff := p.GoalWeight - p.Weight; {
	case diff < -1:
		tdee -= 500 // losing
	case diff > 1:
		tdee += 300 // gaining
	}

	calories := math.Max(math.Round(tdee), minCalories)

	return model.NutritionTargets{
		Calories: int(calories),
		Proteins: int(math.Round(calories * proteinShare / kcalPerGramProtein)),
		Carbs:    int(math.Round(calories * carbShare / kcalPerGramCarb)),
		Fats:     int(math.Round(calories * fatShare / kcalPerGramFat)),
	}
}

// Progress returns consumed/target as a ratio clamped to [0, 1]. A zero or
// negative target reads as no progress rather than a NaN.
func Progress(consumed, target float64) float64 {
	if target <= 0 {
		return 0
	}
	ratio := consumed / target
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}
