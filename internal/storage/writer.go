package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Writer flushes one store's snapshots in the background. Saves are
// fire-and-forget for the caller: the snapshot is marshaled synchronously
// (so it captures the state at call time) and handed to a single goroutine
// that writes serially. Queued snapshots coalesce, last write wins.
type Writer struct {
	name  string
	store *Store
	errFn func(name string, err error)

	mu      sync.Mutex
	flushMu sync.Mutex
	pending []byte
	lastErr error
	kick    chan struct{}
	quit    chan struct{}
	done    chan struct{}
	closed  bool
}

// NewWriter starts a background writer for the named store. errFn is called
// for every failed write; nil means log and keep going. In either case the
// failure stays readable via LastErr, so callers can warn that data may not
// survive a restart.
func NewWriter(name string, store *Store, errFn func(name string, err error)) *Writer {
	if errFn == nil {
		errFn = func(name string, err error) {
			log.Printf("[Storage] write for %q failed: %v", name, err)
		}
	}
	w := &Writer{
		name:  name,
		store: store,
		errFn: errFn,
		kick:  make(chan struct{}, 1),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

// Save queues the current state of v for persistence. Marshaling happens
// before Save returns; the disk write happens later.
func (w *Writer) Save(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.fail(fmt.Errorf("failed to marshal snapshot %q: %w", w.name, err))
		return
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pending = data
	w.mu.Unlock()

	select {
	case w.kick <- struct{}{}:
	default:
	}
}

// LastErr returns the most recent write failure, cleared by the next
// successful write.
func (w *Writer) LastErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Close flushes any pending snapshot and stops the writer.
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	close(w.quit)
	<-w.done
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.kick:
			w.flush()
		case <-w.quit:
			// Final flush on close.
			w.flush()
			return
		}
	}
}

// Flush writes any pending snapshot before returning. Used by tests and
// shutdown paths that need the durable write to have happened.
func (w *Writer) Flush() {
	w.flush()
}

func (w *Writer) flush() {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	w.mu.Lock()
	data := w.pending
	w.pending = nil
	w.mu.Unlock()

	if data == nil {
		return
	}
	if err := w.store.SaveRaw(w.name, data); err != nil {
		w.fail(err)
		return
	}
	w.mu.Lock()
	w.lastErr = nil
	w.mu.Unlock()
}

func (w *Writer) fail(err error) {
	w.mu.Lock()
	w.lastErr = err
	w.mu.Unlock()
	w.errFn(w.name, err)
}
