package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/snapcal/backend/internal/model"
	"github.com/snapcal/backend/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store, err := storage.NewStore(db)
	require.NoError(t, err)
	return store
}

func fixedNow(value string) func() time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func pastaIngredients() []model.Ingredient {
	return []model.Ingredient{
		{Title: "Spaghetti", Weight: 200, Calories: 310, Proteins: 11, Carbs: 62, Fats: 1.8},
		{Title: "Tomato sauce", Weight: 120, Calories: 50, Proteins: 1.5, Carbs: 8, Fats: 1.5},
		{Title: "Parmesan", Weight: 20, Calories: 78, Proteins: 7, Carbs: 0.7, Fats: 5.2},
	}
}
