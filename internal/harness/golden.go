package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/critterkeep/internal/canon"
)

// TraceLines renders a trace as canonical JSON lines, one per step.
func TraceLines(trace []TraceEvent) ([]byte, error) {
	var buf bytes.Buffer
	for _, ev := range trace {
		line, err := canon.Marshal(ev)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", ev.Step, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// AssertGolden compares a result's trace with testdata/golden/<name>.golden.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	lines, err := TraceLines(result.Trace)
	if err != nil {
		t.Fatalf("failed to render trace: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, lines)
}
