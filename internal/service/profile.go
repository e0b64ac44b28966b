package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/snapcal/backend/internal/model"
	"github.com/snapcal/backend/internal/nutrition"
	"github.com/snapcal/backend/internal/storage"
)

const profileStoreName = "profile-storage"

// ErrInvalidProfile rejects biometric values the calculator is not defined
// for.
var ErrInvalidProfile = errors.New("profile values must be positive")

// profileSnapshot is the persisted shape: the biometrics plus the derived
// targets, recomputed on every change and again on load.
type profileSnapshot struct {
	Profile model.UserProfile      `json:"profile"`
	Targets model.NutritionTargets `json:"targets"`
}

// ProfileService owns the user's biometrics and keeps the derived daily
// nutrition targets in sync: every field write recomputes them, they are
// never edited directly.
type ProfileService struct {
	mu      sync.Mutex
	profile model.UserProfile
	targets model.NutritionTargets
	writer  *storage.Writer
}

// NewProfileService loads the persisted profile, recomputes targets and
// starts its writer. Before any profile is saved the defaults apply: 70 kg,
// 170 cm, 30 years, goal 70 kg, light activity.
func NewProfileService(store *storage.Store) (*ProfileService, error) {
	s := &ProfileService{
		profile: model.UserProfile{
			Weight:        70,
			Height:        170,
			Age:           30,
			GoalWeight:    70,
			ActivityLevel: model.ActivityLight,
		},
		targets: nutrition.DefaultTargets,
	}

	var snap profileSnapshot
	found, err := store.Load(profileStoreName, &snap)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if found {
		s.profile = snap.Profile
		// Stored targets may predate a formula change; recompute.
		s.targets = nutrition.CalculateTargets(s.profile)
	}

	s.writer = storage.NewWriter(profileStoreName, store, nil)
	return s, nil
}

// Profile returns the current biometrics.
func (s *ProfileService) Profile() model.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Targets returns the current daily nutrition targets.
func (s *ProfileService) Targets() model.NutritionTargets {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.targets
}

// SetWeight updates the current weight (kg) and recomputes targets.
func (s *ProfileService) SetWeight(weight float64) error {
	if weight <= 0 {
		return ErrInvalidProfile
	}
	s.update(func(p *model.UserProfile) { p.Weight = weight })
	return nil
}

// SetHeight updates the height (cm) and recomputes targets.
func (s *ProfileService) SetHeight(height float64) error {
	if height <= 0 {
		return ErrInvalidProfile
	}
	s.update(func(p *model.UserProfile) { p.Height = height })
	return nil
}

// SetAge updates the age (years) and recomputes targets.
func (s *ProfileService) SetAge(age int) error {
	if age <= 0 {
		return ErrInvalidProfile
	}
	s.update(func(p *model.UserProfile) { p.Age = age })
	return nil
}

// SetGoalWeight updates the goal weight (kg) and recomputes targets.
func (s *ProfileService) SetGoalWeight(goalWeight float64) error {
	if goalWeight <= 0 {
		return ErrInvalidProfile
	}
	s.update(func(p *model.UserProfile) { p.GoalWeight = goalWeight })
	return nil
}

// SetActivityLevel updates the activity level and recomputes targets.
func (s *ProfileService) SetActivityLevel(level model.ActivityLevel) error {
	if !level.Valid() {
		return ErrInvalidProfile
	}
	s.update(func(p *model.UserProfile) { p.ActivityLevel = level })
	return nil
}

// ProfileUpdate carries the fields UpdateProfile may merge into the profile.
// Nil fields are left unchanged.
type ProfileUpdate struct {
	Weight        *float64
	Height        *float64
	Age           *int
	GoalWeight    *float64
	ActivityLevel *model.ActivityLevel
}

// UpdateProfile merges the given fields in one step. Every present field is
// validated before any of them is applied, so a rejected update leaves the
// profile and targets untouched.
func (s *ProfileService) UpdateProfile(upd ProfileUpdate) error {
	if upd.Weight != nil && *upd.Weight <= 0 {
		return ErrInvalidProfile
	}
	if upd.Height != nil && *upd.Height <= 0 {
		return ErrInvalidProfile
	}
	if upd.Age != nil && *upd.Age <= 0 {
		return ErrInvalidProfile
	}
	if upd.GoalWeight != nil && *upd.GoalWeight <= 0 {
		return ErrInvalidProfile
	}
	if upd.ActivityLevel != nil && !upd.ActivityLevel.Valid() {
		return ErrInvalidProfile
	}

	s.update(func(p *model.UserProfile) {
		if upd.Weight != nil {
			p.Weight = *upd.Weight
		}
		if upd.Height != nil {
			p.Height = *upd.Height
		}
		if upd.Age != nil {
			p.Age = *upd.Age
		}
		if upd.GoalWeight != nil {
			p.GoalWeight = *upd.GoalWeight
		}
		if upd.ActivityLevel != nil {
			p.ActivityLevel = *upd.ActivityLevel
		}
	})
	return nil
}

// SaveErr reports the most recent persistence failure, if any.
func (s *ProfileService) SaveErr() error {
	return s.writer.LastErr()
}

// Close flushes pending writes and stops the background writer.
func (s *ProfileService) Close() {
	s.writer.Close()
}

func (s *ProfileService) update(apply func(*model.UserProfile)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apply(&s.profile)
	s.targets = nutrition.CalculateTargets(s.profile)
	s.writer.Save(profileSnapshot{Profile: s.profile, Targets: s.targets})
}
