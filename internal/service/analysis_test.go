package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapcal/backend/internal/model"
)

// memDraftStore is an in-memory DraftStore for tests.
type memDraftStore struct {
	mu     sync.Mutex
	drafts map[string]*MealDraft
}

func newMemDraftStore() *memDraftStore {
	return &memDraftStore{drafts: make(map[string]*MealDraft)}
}

func (s *memDraftStore) SaveDraft(_ context.Context, draft *MealDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft.ID = uuid.New().String()
	copied := *draft
	s.drafts[draft.ID] = &copied
	return nil
}

func (s *memDraftStore) GetDraft(_ context.Context, id string) (*MealDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	copied := *draft
	return &copied, nil
}

func (s *memDraftStore) DeleteDraft(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}

func analysisServer(t *testing.T, handler func(w http.ResponseWriter, req AnalysisRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req AnalysisRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, req)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnalyzeTextSuccess(t *testing.T) {
	srv := analysisServer(t, func(w http.ResponseWriter, req AnalysisRequest) {
		require.NotNil(t, req.Text)
		assert.Equal(t, "pasta with tomato sauce", *req.Text)
		assert.Nil(t, req.Image)
		assert.Nil(t, req.Previous)
		assert.Equal(t, "en", req.Locale)

		json.NewEncoder(w).Encode(AnalysisResult{
			Title:  "Pasta",
			Health: 6,
			Ingredients: []model.Ingredient{
				{Title: "Spaghetti", Weight: 200, Calories: 310, Proteins: 11, Carbs: 62, Fats: 1.8},
			},
		})
	})

	s := NewAnalysisService(srv.URL, "", nil)
	result, err := s.AnalyzeText(context.Background(), "pasta with tomato sauce", "en")
	require.NoError(t, err)
	assert.Equal(t, "Pasta", result.Title)
	assert.Equal(t, 6, result.Health)
	require.Len(t, result.Ingredients, 1)
	assert.Equal(t, "Spaghetti", result.Ingredients[0].Title)
}

func TestAnalyzeSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(AnalysisResult{Title: "Pasta", Ingredients: []model.Ingredient{}})
	}))
	defer srv.Close()

	s := NewAnalysisService(srv.URL, "secret-key", nil)
	_, err := s.AnalyzeText(context.Background(), "pasta", "en")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-key", gotAuth)
}

func TestAnalyzeImageSendsImageField(t *testing.T) {
	srv := analysisServer(t, func(w http.ResponseWriter, req AnalysisRequest) {
		require.NotNil(t, req.Image)
		assert.Equal(t, "aGVsbG8=", *req.Image)
		assert.Nil(t, req.Text)

		json.NewEncoder(w).Encode(AnalysisResult{Title: "Pasta", Ingredients: []model.Ingredient{}})
	})

	s := NewAnalysisService(srv.URL, "", nil)
	_, err := s.AnalyzeImage(context.Background(), "aGVsbG8=", "en")
	require.NoError(t, err)
}

func TestAnalyzeNotFood(t *testing.T) {
	isFood := false
	srv := analysisServer(t, func(w http.ResponseWriter, _ AnalysisRequest) {
		json.NewEncoder(w).Encode(AnalysisResult{
			Title:           "Cardboard box",
			Ingredients:     []model.Ingredient{},
			IsFood:          &isFood,
			ValidationError: "this looks like packaging, not a meal",
		})
	})

	s := NewAnalysisService(srv.URL, "", nil)
	_, err := s.AnalyzeImage(context.Background(), "aGVsbG8=", "en")

	var notFood *NotFoodError
	require.ErrorAs(t, err, &notFood)
	assert.Equal(t, "this looks like packaging, not a meal", notFood.Reason)
}

func TestAnalyzeMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	s := NewAnalysisService(srv.URL, "", nil)
	_, err := s.AnalyzeText(context.Background(), "pasta", "en")
	assert.ErrorIs(t, err, ErrAnalysisDecode)
}

func TestAnalyzeMissingTitleOrIngredients(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"health": 5}`))
	}))
	defer srv.Close()

	s := NewAnalysisService(srv.URL, "", nil)
	_, err := s.AnalyzeText(context.Background(), "pasta", "en")
	assert.ErrorIs(t, err, ErrAnalysisDecode)
}

func TestAnalyzeEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewAnalysisService(srv.URL, "", nil)
	_, err := s.AnalyzeText(context.Background(), "pasta", "en")
	assert.ErrorIs(t, err, ErrAnalysisDecode)
}

func TestAnalyzeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewAnalysisService(srv.URL, "", nil)
	_, err := s.AnalyzeText(context.Background(), "pasta", "en")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAnalysisDecode)
	assert.Contains(t, err.Error(), "503")
}

func TestCorrectCarriesPreviousResult(t *testing.T) {
	srv := analysisServer(t, func(w http.ResponseWriter, req AnalysisRequest) {
		require.NotNil(t, req.Previous)
		assert.Equal(t, "Pasta", req.Previous.Title)
		require.NotNil(t, req.Text)
		assert.Equal(t, "it was a whole plate, not half", *req.Text)

		json.NewEncoder(w).Encode(AnalysisResult{
			Title:       "Pasta (full plate)",
			Health:      6,
			Ingredients: []model.Ingredient{{Title: "Spaghetti", Weight: 400, Calories: 620}},
		})
	})

	s := NewAnalysisService(srv.URL, "", nil)
	previous := &AnalysisResult{Title: "Pasta", Health: 6, Ingredients: []model.Ingredient{}}
	result, err := s.Correct(context.Background(), "it was a whole plate, not half", "en", previous)
	require.NoError(t, err)
	assert.Equal(t, "Pasta (full plate)", result.Title)
}

func TestDraftStoreRoundTrip(t *testing.T) {
	drafts := newMemDraftStore()
	ctx := context.Background()

	draft := &MealDraft{Result: AnalysisResult{Title: "Pasta"}, ImageURI: "photo.jpg"}
	require.NoError(t, drafts.SaveDraft(ctx, draft))
	require.NotEmpty(t, draft.ID)

	got, err := drafts.GetDraft(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pasta", got.Result.Title)
	assert.Equal(t, "photo.jpg", got.ImageURI)

	require.NoError(t, drafts.DeleteDraft(ctx, draft.ID))
	_, err = drafts.GetDraft(ctx, draft.ID)
	assert.True(t, errors.Is(err, ErrDraftNotFound))
}
