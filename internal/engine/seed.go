package engine

import (
	"context"
	"fmt"

	"github.com/roach88/critterkeep/internal/store"
)

const seedKey = "rng_seed"

type seedRecord struct {
	Seed int64 `json:"seed"`
}

// SeedFrom returns the random seed persisted in st, persisting fallback's
// seed first if there is none. A database keeps one seed for its whole
// life so its journal can always be replayed.
func SeedFrom(ctx context.Context, st store.Store, fallback func() (int64, error)) (int64, error) {
	var seed int64
	err := st.Update(ctx, func(tx store.Tx) error {
		rec, ok, err := store.GetJSON[seedRecord](ctx, tx, store.KindMeta, seedKey)
		if err != nil {
			return err
		}
		if ok {
			seed = rec.Seed
			return nil
		}
		if seed, err = fallback(); err != nil {
			return err
		}
		return store.PutJSON(ctx, tx, store.KindMeta, seedKey, seedRecord{Seed: seed})
	})
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	return seed, nil
}
