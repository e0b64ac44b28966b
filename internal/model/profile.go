package model

// ActivityLevel describes how much the user exercises.
type ActivityLevel string

const (
	ActivityMinimum  ActivityLevel = "minimum"  // sedentary
	ActivityLight    ActivityLevel = "light"    // light exercise 1-2 times/week
	ActivityModerate ActivityLevel = "moderate" // moderate exercise 3-4 times/week
	ActivityHigh     ActivityLevel = "high"     // intense training 5+ times/week
)

// Valid reports whether l is one of the known activity levels.
func (l ActivityLevel) Valid() bool {
	switch l {
	case ActivityMinimum, ActivityLight, ActivityModerate, ActivityHigh:
		return true
	}
	return false
}

// UserProfile holds the biometrics the target calculator works from.
// Weight, height and goal weight are metric (kg, cm); display conversion is
// handled separately.
type UserProfile struct {
	Weight        float64       `json:"weight"`
	Height        float64       `json:"height"`
	Age           int           `json:"age"`
	GoalWeight    float64       `json:"goalWeight"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
}

// NutritionTargets are the daily calorie and macro goals derived from a
// UserProfile. Macros are grams.
type NutritionTargets struct {
	Calories int `json:"calories"`
	Proteins int `json:"proteins"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fats"`
}
