package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/critterkeep/internal/canon"
	"github.com/roach88/critterkeep/internal/catalog"
	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/random"
	"github.com/roach88/critterkeep/internal/rules"
	"github.com/roach88/critterkeep/internal/store"
)

// maxRelock bounds how often a cross-account operation re-peeks its
// counterpart after finding it changed under the lock. Past that the
// operation is rejected with CONTENDED.
const maxRelock = 3

// Engine executes game operations against a store.
//
// Engine is safe for concurrent use. Operations on disjoint accounts only
// contend on the store; operations sharing an account are serialized by
// the per-account lock table.
type Engine struct {
	store   store.Store
	rules   *rules.Rules
	catalog *catalog.Catalog
	rng     random.Factory
	ids     RequestIDGenerator
	log     *slog.Logger
	locks   *lockTable
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the embedded balance rules.
func WithRules(r *rules.Rules) Option {
	return func(e *Engine) { e.rules = r }
}

// WithCatalog replaces the embedded item catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithRandom sets the randomness factory. The default is a crypto-seeded
// PCG, which is replayable only by a process that knows the seed.
func WithRandom(f random.Factory) Option {
	return func(e *Engine) { e.rng = f }
}

// WithRequestIDs sets the request id generator. Defaults to UUIDv7.
func WithRequestIDs(g RequestIDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an engine over st. The catalog must define every item the
// rules reference.
func New(st store.Store, opts ...Option) (*Engine, error) {
	if st == nil {
		return nil, errors.New("engine: store is required")
	}
	e := &Engine{
		store: st,
		ids:   UUIDv7Generator{},
		locks: newLockTable(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rules == nil {
		e.rules = rules.Default()
	}
	if e.catalog == nil {
		e.catalog = catalog.Default()
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	if e.rng == nil {
		seeded, err := random.NewCryptoSeeded()
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		e.rng = seeded
	}
	if err := e.catalog.Require(e.rules.ItemRefs()...); err != nil {
		return nil, fmt.Errorf("engine: rules reference %w", err)
	}
	return e, nil
}

// Rules returns the balance rules in use.
func (e *Engine) Rules() *rules.Rules { return e.rules }

// Catalog returns the item catalog in use.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Store returns the underlying store.
func (e *Engine) Store() store.Store { return e.store }

// errRelock signals that a counterpart changed between peek and lock.
var errRelock = errors.New("engine: counterpart changed, relock")

// peekFunc returns the accounts besides the caller an operation must lock.
type peekFunc func(ctx context.Context) ([]domain.AccountID, error)

// normalizeTime truncates to the second precision the journal records, so a
// replay sees exactly the time the original operation saw.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// mutate runs fn as one journaled operation. args is the canonical argument
// record of op; fn's result is journaled as the operation result.
func mutate[T any](ctx context.Context, e *Engine, op string, caller domain.AccountID, now time.Time, args any, peek peekFunc, fn func(*session) (T, error)) (T, error) {
	var zero T
	if !caller.Valid() {
		return zero, e.reject(op, caller, domain.ErrInvalidAccount.With("caller", string(caller)))
	}
	now = normalizeTime(now)

	var (
		result T
		seq    int64
		err    error
	)
	for attempt := 0; attempt < maxRelock; attempt++ {
		lockIDs := []domain.AccountID{caller}
		if peek != nil {
			others, perr := peek(ctx)
			if perr != nil {
				return zero, e.fail(op, caller, perr)
			}
			lockIDs = append(lockIDs, others...)
		}

		unlock := e.locks.lock(lockIDs...)
		err = e.store.Update(ctx, func(tx store.Tx) error {
			var terr error
			seq, terr = tx.NextSeq(ctx, store.SeqJournal)
			if terr != nil {
				return fmt.Errorf("%s: %w", op, terr)
			}
			s := newSession(ctx, tx, e, now, lockIDs)
			s.rng = e.rng.Stream(seq)

			result, terr = fn(s)
			if terr != nil {
				return terr
			}
			if terr = s.flush(); terr != nil {
				return fmt.Errorf("%s: %w", op, terr)
			}
			return e.appendJournal(ctx, tx, seq, op, caller, now, args, result)
		})
		unlock()

		if !errors.Is(err, errRelock) {
			break
		}
		e.log.Debug("counterpart changed, retrying", "op", op, "caller", caller, "attempt", attempt+1)
	}
	if errors.Is(err, errRelock) {
		err = domain.ErrContended.Withf("attempts", "%d", maxRelock)
	}
	if err != nil {
		return zero, e.fail(op, caller, err)
	}

	e.log.Debug("operation applied", "op", op, "caller", caller, "seq", seq)
	return result, nil
}

// view runs fn in a read-only session.
func view[T any](ctx context.Context, e *Engine, now time.Time, fn func(*session) (T, error)) (T, error) {
	var result T
	err := e.store.View(ctx, func(tx store.Tx) error {
		var terr error
		result, terr = fn(newSession(ctx, tx, e, normalizeTime(now), nil))
		return terr
	})
	return result, err
}

func (e *Engine) appendJournal(ctx context.Context, tx store.Tx, seq int64, op string, caller domain.AccountID, now time.Time, args, result any) error {
	argsJSON, err := canon.Marshal(args)
	if err != nil {
		return fmt.Errorf("%s: args: %w", op, err)
	}
	resultJSON, err := canon.Marshal(result)
	if err != nil {
		return fmt.Errorf("%s: result: %w", op, err)
	}
	id, err := canon.EntryID(seq, op, string(caller), now.Unix(), argsJSON, resultJSON)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	entry := store.JournalEntry{
		Seq:       seq,
		ID:        id,
		RequestID: e.ids.Generate(),
		Op:        op,
		Caller:    string(caller),
		At:        now.Unix(),
		Args:      string(argsJSON),
		Result:    string(resultJSON),
	}
	if err := tx.AppendJournal(ctx, entry); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// fail logs err at the level its kind deserves and returns it unchanged.
func (e *Engine) fail(op string, caller domain.AccountID, err error) error {
	if domain.IsRejection(err) {
		return e.reject(op, caller, err)
	}
	e.log.Error("operation failed", "op", op, "caller", caller, "error", err)
	return err
}

func (e *Engine) reject(op string, caller domain.AccountID, err error) error {
	e.log.Info("operation rejected", "op", op, "caller", caller, "code", domain.CodeOf(err))
	return err
}
