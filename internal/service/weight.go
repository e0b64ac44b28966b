package service

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/snapcal/backend/internal/model"
	"github.com/snapcal/backend/internal/storage"
)

const weightStoreName = "weight-storage"

// WeightService owns the body-weight time series: at most one entry per
// local calendar day, kept sorted ascending by date and persisted as one
// snapshot.
type WeightService struct {
	mu      sync.Mutex
	entries []model.WeightEntry
	writer  *storage.Writer
	now     func() time.Time
}

// NewWeightService loads the persisted weight series and starts its writer.
func NewWeightService(store *storage.Store) (*WeightService, error) {
	s := &WeightService{now: time.Now}
	if _, err := store.Load(weightStoreName, &s.entries); err != nil {
		return nil, fmt.Errorf("failed to load weight history: %w", err)
	}
	s.writer = storage.NewWriter(weightStoreName, store, nil)
	return s, nil
}

// AddEntry records a weight for the given date key, defaulting to today.
// An existing entry for that date is replaced, last write wins.
func (s *WeightService) AddEntry(weight float64, date string) {
	if date == "" {
		date = model.DateKey(s.now())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.entries[:0:0]
	for _, e := range s.entries {
		if e.Date != date {
			filtered = append(filtered, e)
		}
	}
	filtered = append(filtered, model.WeightEntry{Date: date, Weight: weight})
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Date < filtered[j].Date })
	s.entries = filtered

	s.writer.Save(s.entries)
}

// EntriesForMonth returns the entries falling inside the given calendar
// month, in date order.
func (s *WeightService) EntriesForMonth(year int, month time.Month) []model.WeightEntry {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.WeightEntry
	for _, e := range s.entries {
		if len(e.Date) >= len(prefix) && e.Date[:len(prefix)] == prefix {
			out = append(out, e)
		}
	}
	return out
}

// LatestWeight returns the most recent entry's weight, or false when no
// entry exists yet.
func (s *WeightService) LatestWeight() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return 0, false
	}
	return s.entries[len(s.entries)-1].Weight, true
}

// MonthSeries builds the charting series for a month: one value per day from
// the 1st through today (never a future day). Days without an explicit entry
// inherit the most recent prior entry's weight; if nothing precedes the
// month, currentWeight fills in. A month with no representable history still
// yields today's point at currentWeight.
func (s *WeightService) MonthSeries(year int, month time.Month, currentWeight float64) []model.WeightEntry {
	s.mu.Lock()
	entries := make([]model.WeightEntry, len(s.entries))
	copy(entries, s.entries)
	now := s.now()
	s.mu.Unlock()

	byDate := make(map[string]float64, len(entries))
	for _, e := range entries {
		byDate[e.Date] = e.Weight
	}

	firstDay := fmt.Sprintf("%04d-%02d-01", year, month)
	lastKnown := currentWeight
	for _, e := range entries {
		if e.Date >= firstDay {
			break
		}
		lastKnown = e.Weight
	}

	today := model.DateKey(now)
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, now.Location()).Day()

	var series []model.WeightEntry
	for day := 1; day <= daysInMonth; day++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		if date > today {
			break
		}
		if w, ok := byDate[date]; ok {
			lastKnown = w
		}
		series = append(series, model.WeightEntry{Date: date, Weight: lastKnown})
	}

	if len(series) == 0 {
		series = append(series, model.WeightEntry{Date: today, Weight: currentWeight})
	}
	return series
}

// SaveErr reports the most recent persistence failure, if any.
func (s *WeightService) SaveErr() error {
	return s.writer.LastErr()
}

// Close flushes pending writes and stops the background writer.
func (s *WeightService) Close() {
	s.writer.Close()
}
