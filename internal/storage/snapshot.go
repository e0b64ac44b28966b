// Package storage persists each in-memory store as a single versioned JSON
// blob, one row per store name. Mutations are applied in memory first and
// written out asynchronously through a per-store serialized writer.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SnapshotVersion tags every persisted blob so a future schema change can
// migrate old data instead of guessing.
const SnapshotVersion = 1

// Snapshot is one persisted store collection.
type Snapshot struct {
	Name      string `gorm:"primaryKey;size:64"`
	Version   int    `gorm:"not null"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (Snapshot) TableName() string {
	return "snapshots"
}

// ErrVersionMismatch is returned when a stored blob carries an unknown
// snapshot version.
var ErrVersionMismatch = errors.New("unsupported snapshot version")

// Store reads and writes snapshot blobs.
type Store struct {
	db *gorm.DB
}

// NewStore creates a snapshot store and ensures the snapshots table exists.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Snapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshots table: %w", err)
	}
	return &Store{db: db}, nil
}

// Load unmarshals the blob stored under name into v. It returns false when
// no snapshot exists yet, which is not an error.
func (s *Store) Load(name string, v any) (bool, error) {
	var snap Snapshot
	if err := s.db.First(&snap, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load snapshot %q: %w", name, err)
	}
	if snap.Version != SnapshotVersion {
		return false, fmt.Errorf("snapshot %q: %w: got %d", name, ErrVersionMismatch, snap.Version)
	}
	if err := json.Unmarshal(snap.Data, v); err != nil {
		return false, fmt.Errorf("failed to decode snapshot %q: %w", name, err)
	}
	return true, nil
}

// SaveRaw upserts pre-marshaled data under name.
func (s *Store) SaveRaw(name string, data []byte) error {
	snap := Snapshot{Name: name, Version: SnapshotVersion, Data: data, UpdatedAt: time.Now()}
	if err := s.db.Save(&snap).Error; err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", name, err)
	}
	return nil
}

// Delete removes the snapshot stored under name, if any.
func (s *Store) Delete(name string) error {
	if err := s.db.Delete(&Snapshot{}, "name = ?", name).Error; err != nil {
		return fmt.Errorf("failed to delete snapshot %q: %w", name, err)
	}
	return nil
}
