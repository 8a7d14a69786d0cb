// Package journal persists submission receipts in a local pebble store.
// Every submitted envelope is recorded by hash so ambiguous outcomes
// (poll ceiling reached while still pending) can be reconciled after the
// fact instead of being lost with the UI session.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/decentpay/escrowkit/internal/chain/soroban"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// Entry is one journaled submission.
type Entry struct {
	Hash        string          `json:"hash"`
	Method      string          `json:"method"`
	Source      string          `json:"source"`
	Sequence    uint64          `json:"sequence"`
	Status      soroban.Status  `json:"status"`
	Error       string          `json:"error,omitempty"`
	Attempts    int             `json:"attempts"`
	SubmittedAt time.Time       `json:"submitted_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Receipt     json.RawMessage `json:"receipt,omitempty"`
}

// Journal is a pebble-backed receipt store.
type Journal struct {
	mu sync.Mutex
	db *pebble.DB
}

// Open opens (or creates) the journal at path.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, errors.New("journal: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("journal: mkdir: %w", err)
	}

	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("journal: open: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the journal.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

func receiptKey(hash string) []byte {
	return []byte("receipt/" + hash)
}

// Record writes or updates the journal entry for a submission.
func (j *Journal) Record(entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return ekerr.ErrJournalClosed
	}
	if entry.Hash == "" {
		return errors.New("journal: entry hash is required")
	}

	entry.UpdatedAt = time.Now().UTC()
	if entry.SubmittedAt.IsZero() {
		entry.SubmittedAt = entry.UpdatedAt
	}

	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("journal: marshal: %w", err)
	}
	if err := j.db.Set(receiptKey(entry.Hash), value, pebble.Sync); err != nil {
		return fmt.Errorf("journal: set: %w", err)
	}
	return nil
}

// Get returns the journal entry for a hash.
func (j *Journal) Get(hash string) (*Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil, ekerr.ErrJournalClosed
	}

	value, closer, err := j.db.Get(receiptKey(hash))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ekerr.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("journal: get: %w", err)
	}
	defer func() { _ = closer.Close() }()

	var entry Entry
	if err := json.Unmarshal(value, &entry); err != nil {
		return nil, fmt.Errorf("journal: unmarshal: %w", err)
	}
	return &entry, nil
}

// Unresolved lists entries whose outcome is still ambiguous: pending
// submissions and those that hit the poll ceiling.
func (j *Journal) Unresolved() ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil, ekerr.ErrJournalClosed
	}

	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("receipt/"),
		UpperBound: []byte("receipt0"), // '0' sorts immediately after '/'
	})
	if err != nil {
		return nil, fmt.Errorf("journal: iter: %w", err)
	}
	defer func() { _ = iter.Close() }()

	var entries []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		var entry Entry
		if err := json.Unmarshal(iter.Value(), &entry); err != nil {
			continue
		}
		if entry.Status == soroban.StatusPending || entry.Status == soroban.StatusUnknown {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
