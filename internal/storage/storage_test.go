package storage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store, err := NewStore(db)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Exec("DELETE FROM snapshots")
	})
	return store
}

type payload struct {
	Items []string `json:"items"`
}

func TestLoadMissingSnapshot(t *testing.T) {
	store := newTestStore(t)

	var got payload
	found, err := store.Load("nothing-here", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveRawAndLoad(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveRaw("meal-storage", []byte(`{"items":["a","b"]}`)))

	var got payload
	found, err := store.Load("meal-storage", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, got.Items)
}

func TestSaveRawOverwrites(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveRaw("weight-storage", []byte(`{"items":["old"]}`)))
	require.NoError(t, store.SaveRaw("weight-storage", []byte(`{"items":["new"]}`)))

	var got payload
	found, err := store.Load("weight-storage", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"new"}, got.Items)
}

func TestLoadVersionMismatch(t *testing.T) {
	store := newTestStore(t)

	snap := Snapshot{Name: "favorite-storage", Version: 99, Data: []byte(`{}`)}
	require.NoError(t, store.db.Save(&snap).Error)

	var got payload
	_, err := store.Load("favorite-storage", &got)
	assert.ErrorIs(t, err, ErrVersionMismatch)
}

func TestDeleteSnapshot(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveRaw("settings-storage", []byte(`{}`)))
	require.NoError(t, store.Delete("settings-storage"))

	var got payload
	found, err := store.Load("settings-storage", &got)
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting an absent snapshot is a no-op.
	require.NoError(t, store.Delete("settings-storage"))
}

func TestWriterPersistsAfterFlush(t *testing.T) {
	store := newTestStore(t)
	w := NewWriter("meal-storage", store, nil)
	defer w.Close()

	w.Save(payload{Items: []string{"first"}})
	w.Flush()

	var got payload
	found, err := store.Load("meal-storage", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"first"}, got.Items)
	assert.NoError(t, w.LastErr())
}

func TestWriterCoalescesToLastWrite(t *testing.T) {
	store := newTestStore(t)
	w := NewWriter("weight-storage", store, nil)
	defer w.Close()

	for i := 0; i < 50; i++ {
		w.Save(payload{Items: []string{"stale"}})
	}
	w.Save(payload{Items: []string{"latest"}})
	w.Flush()

	var got payload
	found, err := store.Load("weight-storage", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"latest"}, got.Items)
}

func TestWriterCloseFlushesPending(t *testing.T) {
	store := newTestStore(t)
	w := NewWriter("favorite-storage", store, nil)

	w.Save(payload{Items: []string{"kept"}})
	w.Close()

	var got payload
	found, err := store.Load("favorite-storage", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"kept"}, got.Items)
}

func TestWriterSaveAfterCloseIsIgnored(t *testing.T) {
	store := newTestStore(t)
	w := NewWriter("profile-storage", store, nil)
	w.Close()

	w.Save(payload{Items: []string{"late"}})
	w.Flush()

	var got payload
	found, err := store.Load("profile-storage", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestWriterReportsMarshalFailure(t *testing.T) {
	store := newTestStore(t)

	var mu sync.Mutex
	var reported error
	w := NewWriter("meal-storage", store, func(name string, err error) {
		mu.Lock()
		reported = err
		mu.Unlock()
	})
	defer w.Close()

	w.Save(make(chan int)) // not JSON-marshalable

	mu.Lock()
	assert.Error(t, reported)
	mu.Unlock()
	assert.Error(t, w.LastErr())

	// A successful write clears the failure.
	w.Save(payload{Items: []string{"ok"}})
	w.Flush()
	assert.NoError(t, w.LastErr())
}

func TestWriterConcurrentSaves(t *testing.T) {
	store := newTestStore(t)
	w := NewWriter("meal-storage", store, nil)
	defer w.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				w.Save(payload{Items: []string{"x"}})
			}
		}()
	}
	wg.Wait()
	w.Flush()

	var got payload
	found, err := store.Load("meal-storage", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"x"}, got.Items)
	assert.NoError(t, w.LastErr())
}
