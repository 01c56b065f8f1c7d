// Package testutil provides deterministic collaborators for tests: request
// id generators and a fixed epoch for scripted timelines.
package testutil

import (
	"fmt"
	"sync"
	"time"
)

// Epoch is the start of every scripted timeline in tests and scenarios.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// At returns Epoch shifted by d.
func At(d time.Duration) time.Time { return Epoch.Add(d) }

// SequentialIDs generates "prefix-1", "prefix-2", ... request ids.
//
// This enables deterministic test execution and golden snapshot comparison:
// the same scenario with a fresh SequentialIDs produces byte-identical
// journals.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator. An empty prefix defaults to "req".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "req"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Reset restarts the sequence at 1.
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
