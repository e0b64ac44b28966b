// Package nutrition holds the pure calorie math: the meal aggregate engine,
// the daily target calculator and metric/imperial display conversion.
package nutrition

import (
	"math"

	"github.com/snapcal/backend/internal/model"
)

// ComputeTotals derives meal totals from an ingredient list and a servings
// multiplier. Ingredients flagged excluded are skipped, the remaining fields
// are summed, scaled by servings, then rounded: calories and weight to whole
// numbers, macros to one decimal.
//
// This is the only code allowed to produce a MealTotals. Every mutation of
// ingredients or servings must call it again rather than patch totals
// incrementally, so stored totals can never drift from their source data.
func ComputeTotals(ingredients []model.Ingredient, servings float64) model.MealTotals {
	var calories, proteins, carbs, fats, weight float64
	for _, ing := range ingredients {
		if ing.Excluded {
			continue
		}
		calories += ing.Calories
		proteins += ing.Proteins
		carbs += ing.Carbs
		fats += ing.Fats
		weight += ing.Weight
	}

	return model.MealTotals{
		TotalCalories: math.Round(calories * servings),
		TotalProteins: round1(proteins * servings),
		TotalCarbs:    round1(carbs * servings),
		TotalFats:     round1(fats * servings),
		TotalWeight:   math.Round(weight * servings),
	}
}

// SumTotals adds already-derived meal totals together, field by field. Daily
// rollups deliberately sum the stored per-meal totals instead of re-deriving
// from raw ingredients, so each meal's exclusions and servings stay baked in.
func SumTotals(totals ...model.MealTotals) model.MealTotals {
	var sum model.MealTotals
	for _, t := range totals {
		sum.TotalCalories += t.TotalCalories
		sum.TotalProteins += t.TotalProteins
		sum.TotalCarbs += t.TotalCarbs
		sum.TotalFats += t.TotalFats
		sum.TotalWeight += t.TotalWeight
	}
	return sum
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
