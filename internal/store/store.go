package store

import (
	"context"
	"errors"
	"fmt"
)

// Kind names a record table.
type Kind string

const (
	KindAccount   Kind = "account"
	KindPet       Kind = "pet"
	KindInventory Kind = "inventory"
	KindEquipment Kind = "equipment"
	KindEffects   Kind = "effects"
	KindBattle    Kind = "battle"
	KindListing   Kind = "listing"
	KindMeta      Kind = "meta"
)

// Sequence names.
const (
	SeqJournal = "journal"
	SeqBattle  = "battle"
	SeqListing = "listing"
)

// ErrReadOnly is returned by Put, NextSeq and AppendJournal inside View.
var ErrReadOnly = errors.New("store: read-only transaction")

// ErrDuplicateEntry is returned when a journal entry's seq or id already
// exists.
var ErrDuplicateEntry = errors.New("store: duplicate journal entry")

// JournalEntry records one successful mutating operation.
type JournalEntry struct {
	Seq       int64  `json:"seq"`
	ID        string `json:"id"`
	RequestID string `json:"request_id"`
	Op        string `json:"op"`
	Caller    string `json:"caller"`
	At        int64  `json:"at"`
	Args      string `json:"args"`
	Result    string `json:"result"`
}

// JournalQuery filters Journal reads. Zero values mean no filter.
type JournalQuery struct {
	// After excludes entries with seq <= After.
	After int64
	// Caller restricts to one account's operations.
	Caller string
	// Limit caps the number of entries returned.
	Limit int
}

// Tx is a transaction over the record tables and journal.
type Tx interface {
	// Get returns the raw value for (kind, key) and whether it exists.
	Get(ctx context.Context, kind Kind, key string) ([]byte, bool, error)
	// Put upserts the value for (kind, key).
	Put(ctx context.Context, kind Kind, key string, value []byte) error
	// Keys lists the keys of kind in byte order.
	Keys(ctx context.Context, kind Kind) ([]string, error)
	// NextSeq increments and returns the named sequence. Sequences start
	// at 1.
	NextSeq(ctx context.Context, name string) (int64, error)
	// AppendJournal appends an entry.
	AppendJournal(ctx context.Context, e JournalEntry) error
}

// Store is transactional record storage with an operation journal.
type Store interface {
	// Update runs fn in a read-write transaction, committing when fn
	// returns nil and rolling back otherwise.
	Update(ctx context.Context, fn func(Tx) error) error
	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(Tx) error) error
	// Journal returns entries matching q in seq order.
	Journal(ctx context.Context, q JournalQuery) ([]JournalEntry, error)
	Close() error
}

func filterJournal(entries []JournalEntry, q JournalQuery) []JournalEntry {
	out := []JournalEntry{}
	for _, e := range entries {
		if e.Seq <= q.After {
			continue
		}
		if q.Caller != "" && e.Caller != q.Caller {
			continue
		}
		out = append(out, e)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out
}

func validateEntry(e JournalEntry) error {
	if e.Seq <= 0 {
		return fmt.Errorf("append journal: seq must be positive, got %d", e.Seq)
	}
	if e.ID == "" || e.Op == "" {
		return fmt.Errorf("append journal: id and op are required")
	}
	return nil
}
