package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/effect"
	"github.com/roach88/critterkeep/internal/store"
)

// PetStats returns account's pet with time folded in as of now. Nothing is
// written: a pet that has died of neglect reads as dead but is persisted
// as dead only by the next mutation.
func (e *Engine) PetStats(ctx context.Context, account domain.AccountID, now time.Time) (*PetStats, error) {
	return view(ctx, e, now, func(s *session) (*PetStats, error) {
		p, err := s.pet(account)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNoPet
		}
		stats, err := s.petStats(p)
		if err != nil {
			return nil, err
		}
		return &stats, nil
	})
}

// TotalStats returns the pet's battle stats with equipment and active
// effects applied.
func (e *Engine) TotalStats(ctx context.Context, account domain.AccountID, now time.Time) (domain.TotalStats, error) {
	stats, err := e.PetStats(ctx, account, now)
	if err != nil {
		return domain.TotalStats{}, err
	}
	return stats.Total, nil
}

// Inventory returns account's coins and items. An account that never
// created a pet has an empty inventory.
func (e *Engine) Inventory(ctx context.Context, account domain.AccountID) (*domain.Inventory, error) {
	return view(ctx, e, time.Time{}, func(s *session) (*domain.Inventory, error) {
		return s.inventory(account)
	})
}

func (e *Engine) EquippedItems(ctx context.Context, account domain.AccountID) (*domain.Equipment, error) {
	return view(ctx, e, time.Time{}, func(s *session) (*domain.Equipment, error) {
		return s.equipment(account)
	})
}

// ActiveEffects returns account's unexpired effects at now in the order
// they were applied.
func (e *Engine) ActiveEffects(ctx context.Context, account domain.AccountID, now time.Time) ([]domain.ActiveEffect, error) {
	return view(ctx, e, now, func(s *session) ([]domain.ActiveEffect, error) {
		list, err := s.effects(account)
		if err != nil {
			return nil, err
		}
		return effect.Active(*list, s.now), nil
	})
}

func (e *Engine) Battle(ctx context.Context, id int64) (*domain.Battle, error) {
	return view(ctx, e, time.Time{}, func(s *session) (*domain.Battle, error) {
		return s.battle(id)
	})
}

// ActiveListings returns every open listing in id order.
func (e *Engine) ActiveListings(ctx context.Context) ([]domain.Listing, error) {
	return view(ctx, e, time.Time{}, func(s *session) ([]domain.Listing, error) {
		keys, err := s.tx.Keys(s.ctx, store.KindListing)
		if err != nil {
			return nil, err
		}
		out := []domain.Listing{}
		for _, k := range keys {
			id, err := store.ParseIDKey(k)
			if err != nil {
				return nil, err
			}
			l, ok, err := load[domain.Listing](s, store.KindListing, k)
			if err != nil {
				return nil, err
			}
			if ok && l.ID != id {
				return nil, fmt.Errorf("listing %s holds id %d", k, l.ID)
			}
			if ok && l.Active {
				out = append(out, *l)
			}
		}
		return out, nil
	})
}

// Account returns the account record. Accounts come into existence with
// their first pet, so an unknown account reports NO_PET.
func (e *Engine) Account(ctx context.Context, id domain.AccountID) (*domain.Account, error) {
	return view(ctx, e, time.Time{}, func(s *session) (*domain.Account, error) {
		acct, ok, err := s.account(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrNoPet.With("account", string(id))
		}
		return acct, nil
	})
}
