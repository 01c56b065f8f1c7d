package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/engine"
)

// AssertionError describes a failed assertion with the trace that led to it.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %s at %s: %s\n", ev.Step, ev.Caller, ev.Op, ev.At, ev.Code)
	}
	return buf.String()
}

// assertTraceCount checks how many steps invoked the op, optionally
// restricted to one outcome code.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Op == a.Op && (a.Code == "" || ev.Code == a.Code) {
			count++
		}
	}
	if count == a.Count {
		return nil
	}

	what := a.Op
	if a.Code != "" {
		what = fmt.Sprintf("%s with code %s", a.Op, a.Code)
	}
	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("%s %d time(s)", what, a.Count),
		Actual:   fmt.Sprintf("%d time(s)", count),
		Trace:    trace,
	}
}

// assertTraceOrder checks that each op's first success comes after the
// previous op's first success. Other steps may appear in between.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, ev := range trace {
		if ev.Code != CodeOK {
			continue
		}
		if _, seen := positions[ev.Op]; !seen {
			positions[ev.Op] = i
		}
	}

	for _, op := range a.Ops {
		if _, ok := positions[op]; !ok {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all ops succeed: %v", a.Ops),
				Actual:   fmt.Sprintf("no successful %s", op),
				Trace:    trace,
			}
		}
	}
	for i := 1; i < len(a.Ops); i++ {
		prev, curr := a.Ops[i-1], a.Ops[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("ops in order: %v", a.Ops),
				Actual: fmt.Sprintf("%s (step %d) should be before %s (step %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertFinalState reads a view from the engine as of now and matches the
// expected subset against it.
func assertFinalState(ctx context.Context, e *engine.Engine, now time.Time, trace []TraceEvent, a Assertion) error {
	view, err := readView(ctx, e, now, a)
	if err != nil {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("readable %s view", a.View),
			Actual:   err.Error(),
			Trace:    trace,
		}
	}

	actual, err := jsonValue(view)
	if err != nil {
		return err
	}
	expected, err := jsonValue(a.Expect)
	if err != nil {
		return fmt.Errorf("final_state %s: %w", a.View, err)
	}
	if path, ok := matchSubset(actual, expected, a.View); !ok {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s matches %v", path, lookup(expected, path, a.View)),
			Actual:   fmt.Sprintf("%s is %v", path, lookup(actual, path, a.View)),
			Trace:    trace,
		}
	}
	return nil
}

func readView(ctx context.Context, e *engine.Engine, now time.Time, a Assertion) (any, error) {
	account := domain.AccountID(a.Account)
	switch a.View {
	case ViewPet:
		return e.PetStats(ctx, account, now)
	case ViewInventory:
		return e.Inventory(ctx, account)
	case ViewAccount:
		return e.Account(ctx, account)
	case ViewEquipment:
		return e.EquippedItems(ctx, account)
	case ViewEffects:
		return e.ActiveEffects(ctx, account, now)
	case ViewBattle:
		return e.Battle(ctx, a.ID)
	case ViewListings:
		return e.ActiveListings(ctx)
	default:
		return nil, fmt.Errorf("unknown view %q", a.View)
	}
}

// jsonValue converts v to the generic form encoding/json decodes into, so
// YAML literals and engine results compare on equal terms.
func jsonValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	return out, nil
}

// matchSubset reports whether every field in expected is present in
// actual with the same value. Objects match as subsets; arrays must have
// the same length and match element-wise. On mismatch it returns the
// dotted path of the first differing field.
func matchSubset(actual, expected any, path string) (string, bool) {
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return path, false
		}
		for key, want := range exp {
			got, present := act[key]
			if !present {
				return path + "." + key, false
			}
			if p, ok := matchSubset(got, want, path+"."+key); !ok {
				return p, false
			}
		}
		return "", true
	case []any:
		act, ok := actual.([]any)
		if !ok || len(act) != len(exp) {
			return path, false
		}
		for i := range exp {
			if p, ok := matchSubset(act[i], exp[i], fmt.Sprintf("%s[%d]", path, i)); !ok {
				return p, false
			}
		}
		return "", true
	default:
		if reflect.DeepEqual(actual, expected) {
			return "", true
		}
		return path, false
	}
}

// lookup follows a path produced by matchSubset. Missing fields yield nil.
func lookup(v any, path, root string) any {
	rest := strings.TrimPrefix(path, root)
	for rest != "" {
		switch {
		case strings.HasPrefix(rest, "."):
			rest = rest[1:]
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			m, ok := v.(map[string]any)
			if !ok {
				return nil
			}
			v, rest = m[rest[:end]], rest[end:]
		case strings.HasPrefix(rest, "["):
			end := strings.IndexByte(rest, ']')
			var i int
			if _, err := fmt.Sscanf(rest[1:end], "%d", &i); err != nil {
				return nil
			}
			arr, ok := v.([]any)
			if !ok || i >= len(arr) {
				return nil
			}
			v, rest = arr[i], rest[end+1:]
		default:
			return nil
		}
	}
	return v
}
