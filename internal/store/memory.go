package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Memory is an in-process Store. Update transactions are serialized and
// stage their writes, which are applied only when the callback succeeds.
type Memory struct {
	mu        sync.RWMutex
	records   map[Kind]map[string][]byte
	sequences map[string]int64
	journal   []JournalEntry
	ids       map[string]bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		records:   map[Kind]map[string][]byte{},
		sequences: map[string]int64{},
		ids:       map[string]bool{},
	}
}

// Update implements Store.
func (m *Memory) Update(ctx context.Context, fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{
		m:         m,
		writes:    map[Kind]map[string][]byte{},
		sequences: map[string]int64{},
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	for kind, kv := range tx.writes {
		if m.records[kind] == nil {
			m.records[kind] = map[string][]byte{}
		}
		maps.Copy(m.records[kind], kv)
	}
	maps.Copy(m.sequences, tx.sequences)
	for _, e := range tx.journal {
		m.journal = append(m.journal, e)
		m.ids[e.ID] = true
	}
	return nil
}

// View implements Store.
func (m *Memory) View(ctx context.Context, fn func(Tx) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(&memoryTx{m: m, readOnly: true})
}

// Journal implements Store.
func (m *Memory) Journal(ctx context.Context, q JournalQuery) ([]JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterJournal(m.journal, q), nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }

type memoryTx struct {
	m         *Memory
	readOnly  bool
	writes    map[Kind]map[string][]byte
	sequences map[string]int64
	journal   []JournalEntry
}

func (t *memoryTx) Get(ctx context.Context, kind Kind, key string) ([]byte, bool, error) {
	if v, ok := t.writes[kind][key]; ok {
		return slices.Clone(v), true, nil
	}
	v, ok := t.m.records[kind][key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (t *memoryTx) Put(ctx context.Context, kind Kind, key string, value []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if t.writes[kind] == nil {
		t.writes[kind] = map[string][]byte{}
	}
	t.writes[kind][key] = slices.Clone(value)
	return nil
}

func (t *memoryTx) Keys(ctx context.Context, kind Kind) ([]string, error) {
	set := map[string]bool{}
	for k := range t.m.records[kind] {
		set[k] = true
	}
	for k := range t.writes[kind] {
		set[k] = true
	}
	return slices.Sorted(maps.Keys(set)), nil
}

func (t *memoryTx) NextSeq(ctx context.Context, name string) (int64, error) {
	if t.readOnly {
		return 0, ErrReadOnly
	}
	v, ok := t.sequences[name]
	if !ok {
		v = t.m.sequences[name]
	}
	v++
	t.sequences[name] = v
	return v, nil
}

func (t *memoryTx) AppendJournal(ctx context.Context, e JournalEntry) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if err := validateEntry(e); err != nil {
		return err
	}
	dup := t.m.ids[e.ID]
	for _, prev := range t.m.journal {
		dup = dup || prev.Seq == e.Seq
	}
	for _, staged := range t.journal {
		dup = dup || staged.Seq == e.Seq || staged.ID == e.ID
	}
	if dup {
		return fmt.Errorf("append journal seq %d: %w", e.Seq, ErrDuplicateEntry)
	}
	t.journal = append(t.journal, e)
	return nil
}

var _ Store = (*Memory)(nil)
