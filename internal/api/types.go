package api

import "github.com/snapcal/backend/internal/model"

// DeviceAuthRequest pairs an app install with the API.
type DeviceAuthRequest struct {
	DeviceID string `json:"device_id" binding:"required"`
}

// AddMealRequest creates a meal record from an already-validated analysis
// result.
type AddMealRequest struct {
	Title       string             `json:"title" binding:"required"`
	Health      int                `json:"health" binding:"required,min=1,max=10"`
	Ingredients []model.Ingredient `json:"ingredients" binding:"required"`
	ImageURI    string             `json:"imageUri"`
}

// UpdateMealRequest merges any subset of the editable fields into a record.
type UpdateMealRequest struct {
	Title       *string            `json:"title"`
	Health      *int               `json:"health"`
	Ingredients []model.Ingredient `json:"ingredients"`
	Servings    *float64           `json:"servings"`
}

// AnalyzeRequest describes a meal by text or base64 image, never both.
// ImageURI is the stored photo URL from POST /photos; it rides along so a
// confirmed draft keeps its photo.
type AnalyzeRequest struct {
	Text     string `json:"text"`
	Image    string `json:"image"`
	Locale   string `json:"locale"`
	ImageURI string `json:"imageUri"`
}

// CorrectMealRequest re-analyzes a meal against a free-text correction.
type CorrectMealRequest struct {
	Text   string `json:"text" binding:"required"`
	Locale string `json:"locale"`
}

// AddWeightRequest logs a weight sample; Date defaults to today.
type AddWeightRequest struct {
	Weight float64 `json:"weight" binding:"required,gt=0"`
	Date   string  `json:"date"`
}

// UpdateProfileRequest merges any subset of biometric fields.
type UpdateProfileRequest struct {
	Weight        *float64             `json:"weight"`
	Height        *float64             `json:"height"`
	Age           *int                 `json:"age"`
	GoalWeight    *float64             `json:"goalWeight"`
	ActivityLevel *model.ActivityLevel `json:"activityLevel"`
}

// UploadPhotoRequest carries a base64-encoded meal photo.
type UploadPhotoRequest struct {
	Image       string `json:"image" binding:"required"`
	ContentType string `json:"content_type"`
}
