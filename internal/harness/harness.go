package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/engine"
	"github.com/roach88/critterkeep/internal/random"
	"github.com/roach88/critterkeep/internal/store"
	"github.com/roach88/critterkeep/internal/testutil"
)

// Harness runs scenarios. It is safe for concurrent use; every run gets
// its own store and engine.
type Harness struct {
	logger     *slog.Logger
	engineOpts []engine.Option
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger handed to each engine.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithEngineOptions adds engine options, e.g. alternative rules or
// catalog. They are applied after the harness defaults, so a random
// factory given here replaces the scenario seed.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(h *Harness) { h.engineOpts = append(h.engineOpts, opts...) }
}

// New creates a harness.
func New(opts ...Option) *Harness {
	h := &Harness{logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes the scenario against a fresh in-memory engine.
//
// Expectation and assertion failures are recorded in the Result; the
// returned error is reserved for failures to run at all (bad arguments
// that cannot be encoded, storage errors).
func (h *Harness) Run(ctx context.Context, s *Scenario) (*Result, error) {
	opts := append([]engine.Option{
		engine.WithRandom(random.NewSeeded(s.Seed)),
		engine.WithRequestIDs(testutil.NewSequentialIDs(s.Name)),
		engine.WithLogger(h.logger),
	}, h.engineOpts...)

	e, err := engine.New(store.NewMemory(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	result := NewResult()
	for i, step := range s.Steps {
		if err := h.runStep(ctx, e, i, step, result); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}

	end := testutil.At(s.Steps[len(s.Steps)-1].At)
	for _, a := range s.Assertions {
		var err error
		switch a.Type {
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertFinalState:
			err = assertFinalState(ctx, e, end, result.Trace, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			result.AddError(err.Error())
		}
	}

	h.logger.Info("scenario completed",
		"scenario", s.Name,
		"steps", len(s.Steps),
		"pass", result.Pass,
	)
	return result, nil
}

func (h *Harness) runStep(ctx context.Context, e *engine.Engine, i int, step Step, result *Result) error {
	args, err := json.Marshal(step.Args)
	if err != nil {
		return fmt.Errorf("failed to encode args: %w", err)
	}

	out, err := e.Invoke(ctx, step.Op, domain.AccountID(step.Caller), testutil.At(step.At), args)
	ev := TraceEvent{
		Step:   i,
		Op:     step.Op,
		Caller: step.Caller,
		At:     step.At.String(),
		Code:   CodeOK,
	}
	switch {
	case err == nil:
		if ev.Result, err = jsonValue(out); err != nil {
			return err
		}
	case domain.IsRejection(err):
		ev.Code = string(domain.CodeOf(err))
	default:
		return err
	}
	result.AddTrace(ev)

	want := CodeOK
	if step.Expect != nil {
		want = step.Expect.Code
	}
	if ev.Code != want {
		result.AddError(fmt.Sprintf("step %d (%s as %s): expected %s, got %s", i, step.Op, step.Caller, want, ev.Code))
		return nil
	}
	if step.Expect == nil || step.Expect.Result == nil {
		return nil
	}

	expected, err := jsonValue(step.Expect.Result)
	if err != nil {
		return fmt.Errorf("failed to encode expected result: %w", err)
	}
	if path, ok := matchSubset(ev.Result, expected, "result"); !ok {
		result.AddError(fmt.Sprintf("step %d (%s as %s): %s is %v, expected %v",
			i, step.Op, step.Caller, path, lookup(ev.Result, path, "result"), lookup(expected, path, "result")))
	}
	return nil
}

// FileResult pairs a scenario file with its outcome.
type FileResult struct {
	Path     string
	Scenario *Scenario
	Result   *Result
	Err      error
}

// RunFiles loads and runs scenario files concurrently. Results are in the
// order of paths. Load and run failures are reported per file.
func (h *Harness) RunFiles(ctx context.Context, paths []string) []FileResult {
	results := make([]FileResult, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			fr := FileResult{Path: path}
			fr.Scenario, fr.Err = LoadScenario(path)
			if fr.Err == nil {
				fr.Result, fr.Err = h.Run(ctx, fr.Scenario)
			}
			results[i] = fr
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Discover expands a path into scenario files. A directory yields its
// .yaml and .yml files in lexical order; a file yields itself.
func Discover(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if !entry.IsDir() && (ext == ".yaml" || ext == ".yml") {
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no scenario files in %s", path)
	}
	return files, nil
}
