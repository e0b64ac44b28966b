package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/snapcal/backend/internal/model"
)

// AnalysisRequest is the payload sent to the remote inference endpoint.
// Exactly one of Text or Image is set; Previous carries the prior result
// during a correction round-trip.
type AnalysisRequest struct {
	Text     *string         `json:"text"`
	Image    *string         `json:"image"`
	Previous *AnalysisResult `json:"previous"`
	Locale   string          `json:"locale"`
}

// AnalysisResult is the structured breakdown the inference endpoint returns.
// A nil IsFood is treated as true.
type AnalysisResult struct {
	Title           string             `json:"title"`
	Health          int                `json:"health"`
	Ingredients     []model.Ingredient `json:"ingredients"`
	IsFood          *bool              `json:"isFood,omitempty"`
	ValidationError string             `json:"validationError,omitempty"`
}

// NotFoodError reports that the analyzed input was not a meal. No store
// mutation happens in that case; Reason is surfaced to the user verbatim.
type NotFoodError struct {
	Reason string
}

func (e *NotFoodError) Error() string {
	if e.Reason == "" {
		return "this is not food"
	}
	return e.Reason
}

var (
	// ErrAnalysisDecode marks a malformed inference response, rejected
	// before it can reach any store.
	ErrAnalysisDecode = errors.New("invalid analysis response")
	// ErrDraftNotFound is returned for unknown or expired draft ids.
	ErrDraftNotFound = errors.New("draft not found")
)

// MealDraft is an analysis result parked between the inference call and the
// user confirming it into a meal record. Abandoned drafts simply expire.
type MealDraft struct {
	ID        string         `json:"id"`
	Result    AnalysisResult `json:"result"`
	ImageURI  string         `json:"imageUri,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// DraftStore parks analysis drafts until they are confirmed or expire.
type DraftStore interface {
	SaveDraft(ctx context.Context, draft *MealDraft) error
	GetDraft(ctx context.Context, id string) (*MealDraft, error)
	DeleteDraft(ctx context.Context, id string) error
}

const draftTTL = 24 * time.Hour

// RedisDraftStore keeps drafts in redis with a TTL.
type RedisDraftStore struct {
	client *redis.Client
}

// NewRedisDraftStore wraps an existing redis client.
func NewRedisDraftStore(client *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{client: client}
}

func draftKey(id string) string {
	return fmt.Sprintf("meal:draft:%s", id)
}

// SaveDraft stores the draft under a fresh id.
func (s *RedisDraftStore) SaveDraft(ctx context.Context, draft *MealDraft) error {
	draft.ID = uuid.New().String()
	draft.CreatedAt = time.Now()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(draft.ID), data, draftTTL).Err(); err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}
	return nil
}

// GetDraft retrieves a draft by id.
func (s *RedisDraftStore) GetDraft(ctx context.Context, id string) (*MealDraft, error) {
	data, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft MealDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

// DeleteDraft removes a draft by id.
func (s *RedisDraftStore) DeleteDraft(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}
	return nil
}

// AnalysisService calls the remote meal-analysis endpoint and validates its
// responses before anything reaches the meal store.
type AnalysisService struct {
	apiURL string
	apiKey string
	client *http.Client
	drafts DraftStore
}

// NewAnalysisService creates an analysis client. apiKey may be empty when
// the endpoint is unauthenticated.
func NewAnalysisService(apiURL, apiKey string, drafts DraftStore) *AnalysisService {
	return &AnalysisService{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: 60 * time.Second},
		drafts: drafts,
	}
}

// AnalyzeText analyzes a typed or transcribed meal description.
func (s *AnalysisService) AnalyzeText(ctx context.Context, text, locale string) (*AnalysisResult, error) {
	return s.analyze(ctx, AnalysisRequest{Text: &text, Locale: locale})
}

// AnalyzeImage analyzes a base64-encoded meal photo.
func (s *AnalysisService) AnalyzeImage(ctx context.Context, imageBase64, locale string) (*AnalysisResult, error) {
	return s.analyze(ctx, AnalysisRequest{Image: &imageBase64, Locale: locale})
}

// Correct re-analyzes a meal against the user's free-text edit, passing the
// previous result along so the endpoint can amend rather than start over.
func (s *AnalysisService) Correct(ctx context.Context, text, locale string, previous *AnalysisResult) (*AnalysisResult, error) {
	return s.analyze(ctx, AnalysisRequest{Text: &text, Locale: locale, Previous: previous})
}

// Drafts exposes the draft store, nil when drafts are disabled.
func (s *AnalysisService) Drafts() DraftStore {
	return s.drafts
}

func (s *AnalysisService) analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analysis request failed with status %d: %s", resp.StatusCode, string(body))
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrAnalysisDecode)
	}

	var result AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisDecode, err)
	}

	// Structural validation happens here, at the boundary; the meal store
	// never sees a record without a title or ingredient list.
	if result.Title == "" || result.Ingredients == nil {
		return nil, fmt.Errorf("%w: missing title or ingredients", ErrAnalysisDecode)
	}

	if result.IsFood != nil && !*result.IsFood {
		return nil, &NotFoodError{Reason: result.ValidationError}
	}

	return &result, nil
}
