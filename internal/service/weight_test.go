package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapcal/backend/internal/model"
)

func newWeightService(t *testing.T) *WeightService {
	t.Helper()
	s, err := NewWeightService(newTestStore(t))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestAddEntryReplacesSameDate(t *testing.T) {
	s := newWeightService(t)

	s.AddEntry(80, "2026-09-01")
	s.AddEntry(79.5, "2026-09-01")

	entries := s.EntriesForMonth(2026, time.September)
	require.Len(t, entries, 1)
	assert.Equal(t, model.WeightEntry{Date: "2026-09-01", Weight: 79.5}, entries[0])
}

func TestEntriesStaySortedByDate(t *testing.T) {
	s := newWeightService(t)

	s.AddEntry(80, "2026-09-10")
	s.AddEntry(81, "2026-09-02")
	s.AddEntry(79, "2026-09-25")

	entries := s.EntriesForMonth(2026, time.September)
	require.Len(t, entries, 3)
	assert.Equal(t, "2026-09-02", entries[0].Date)
	assert.Equal(t, "2026-09-10", entries[1].Date)
	assert.Equal(t, "2026-09-25", entries[2].Date)
}

func TestAddEntryDefaultsToToday(t *testing.T) {
	s := newWeightService(t)
	s.now = fixedNow("2026-09-01 23:55")

	s.AddEntry(80, "")

	entries := s.EntriesForMonth(2026, time.September)
	require.Len(t, entries, 1)
	assert.Equal(t, "2026-09-01", entries[0].Date)
}

func TestEntriesForMonthFiltersOtherMonths(t *testing.T) {
	s := newWeightService(t)

	s.AddEntry(82, "2026-08-31")
	s.AddEntry(81, "2026-09-01")
	s.AddEntry(80, "2026-10-01")

	entries := s.EntriesForMonth(2026, time.September)
	require.Len(t, entries, 1)
	assert.Equal(t, "2026-09-01", entries[0].Date)
}

func TestLatestWeight(t *testing.T) {
	s := newWeightService(t)

	_, ok := s.LatestWeight()
	assert.False(t, ok)

	s.AddEntry(81, "2026-09-02")
	s.AddEntry(80, "2026-09-10")
	s.AddEntry(82, "2026-09-05") // inserted out of order

	latest, ok := s.LatestWeight()
	require.True(t, ok)
	assert.Equal(t, 80.0, latest)
}

func TestMonthSeriesForwardFills(t *testing.T) {
	s := newWeightService(t)
	s.now = fixedNow("2026-09-10 12:00")

	s.AddEntry(80, "2026-09-02")
	s.AddEntry(78, "2026-09-05")

	series := s.MonthSeries(2026, time.September, 82)
	require.Len(t, series, 10)

	// Day 1 precedes any entry, so the fallback weight fills in.
	assert.Equal(t, model.WeightEntry{Date: "2026-09-01", Weight: 82}, series[0])
	assert.Equal(t, model.WeightEntry{Date: "2026-09-02", Weight: 80}, series[1])
	assert.Equal(t, model.WeightEntry{Date: "2026-09-04", Weight: 80}, series[3])
	assert.Equal(t, model.WeightEntry{Date: "2026-09-05", Weight: 78}, series[4])
	assert.Equal(t, model.WeightEntry{Date: "2026-09-10", Weight: 78}, series[9])
}

func TestMonthSeriesInheritsFromPriorMonth(t *testing.T) {
	s := newWeightService(t)
	s.now = fixedNow("2026-09-10 12:00")

	s.AddEntry(75, "2026-08-20")

	series := s.MonthSeries(2026, time.September, 82)
	require.Len(t, series, 10)
	assert.Equal(t, model.WeightEntry{Date: "2026-09-01", Weight: 75}, series[0])
	assert.Equal(t, model.WeightEntry{Date: "2026-09-10", Weight: 75}, series[9])
}

func TestMonthSeriesCoversFullPastMonth(t *testing.T) {
	s := newWeightService(t)
	s.now = fixedNow("2026-09-10 12:00")

	s.AddEntry(75, "2026-08-20")

	series := s.MonthSeries(2026, time.August, 82)
	require.Len(t, series, 31)
	assert.Equal(t, model.WeightEntry{Date: "2026-08-01", Weight: 82}, series[0])
	assert.Equal(t, model.WeightEntry{Date: "2026-08-19", Weight: 82}, series[18])
	assert.Equal(t, model.WeightEntry{Date: "2026-08-20", Weight: 75}, series[19])
	assert.Equal(t, model.WeightEntry{Date: "2026-08-31", Weight: 75}, series[30])
}

func TestMonthSeriesFutureMonthYieldsTodayOnly(t *testing.T) {
	s := newWeightService(t)
	s.now = fixedNow("2026-09-10 12:00")

	series := s.MonthSeries(2026, time.October, 82)
	require.Len(t, series, 1)
	assert.Equal(t, model.WeightEntry{Date: "2026-09-10", Weight: 82}, series[0])
}

func TestWeightHistorySurvivesReload(t *testing.T) {
	store := newTestStore(t)

	s, err := NewWeightService(store)
	require.NoError(t, err)
	s.AddEntry(80, "2026-09-01")
	s.AddEntry(79, "2026-09-02")
	s.Close()

	reloaded, err := NewWeightService(store)
	require.NoError(t, err)
	defer reloaded.Close()

	entries := reloaded.EntriesForMonth(2026, time.September)
	require.Len(t, entries, 2)
	assert.Equal(t, 80.0, entries[0].Weight)
	assert.Equal(t, 79.0, entries[1].Weight)
}
