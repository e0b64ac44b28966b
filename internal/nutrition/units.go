package nutrition

import (
	"fmt"
	"math"
)

// Stored values are always metric (kg, cm). These helpers convert for
// display only and never feed back into storage.
const (
	kgToLbs       = 2.20462
	lbsToKg       = 0.453592
	cmPerInch     = 2.54
	inchesPerFoot = 12
)

// KgToLbs converts kilograms to pounds, rounded to one decimal.
func KgToLbs(kg float64) float64 {
	return round1(kg * kgToLbs)
}

// LbsToKg converts pounds to kilograms, rounded to one decimal.
func LbsToKg(lbs float64) float64 {
	return round1(lbs * lbsToKg)
}

// CmToFtIn converts centimeters to whole feet and inches. When the inch
// remainder rounds up to 12 it carries into feet, so 152.3 cm reads as 5'0"
// rather than 4'12".
func CmToFtIn(cm float64) (feet, inches int) {
	totalInches := cm / cmPerInch
	feet = int(math.Floor(totalInches / inchesPerFoot))
	inches = int(math.Round(totalInches - float64(feet)*inchesPerFoot))
	if inches == inchesPerFoot {
		feet++
		inches = 0
	}
	return feet, inches
}

// FtInToCm converts feet and inches to centimeters, rounded to the nearest
// whole centimeter.
func FtInToCm(feet, inches int) float64 {
	totalInches := float64(feet*inchesPerFoot + inches)
	return math.Round(totalInches * cmPerInch)
}

// FormatWeight renders a stored kg value in the user's preferred unit.
func FormatWeight(weightKg float64, imperial bool) string {
	if imperial {
		return fmt.Sprintf("%.1f lbs", KgToLbs(weightKg))
	}
	return fmt.Sprintf("%d kg", int(math.Round(weightKg)))
}

// FormatHeight renders a stored cm value in the user's preferred unit.
func FormatHeight(heightCm float64, imperial bool) string {
	if imperial {
		feet, inches := CmToFtIn(heightCm)
		return fmt.Sprintf("%d'%d\"", feet, inches)
	}
	return fmt.Sprintf("%d cm", int(math.Round(heightCm)))
}

// WeightToMetric converts a user-entered weight to the stored kg value.
func WeightToMetric(displayValue float64, imperial bool) float64 {
	if imperial {
		return LbsToKg(displayValue)
	}
	return displayValue
}

// WeightFromMetric converts a stored kg value to the user's display unit.
func WeightFromMetric(metricValue float64, imperial bool) float64 {
	if imperial {
		return KgToLbs(metricValue)
	}
	return metricValue
}

// WeightUnit returns the display suffix for weights.
func WeightUnit(imperial bool) string {
	if imperial {
		return "lbs"
	}
	return "kg"
}

// HeightUnit returns the display suffix for heights.
func HeightUnit(imperial bool) string {
	if imperial {
		return "ft/in"
	}
	return "cm"
}
