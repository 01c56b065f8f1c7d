package engine

import (
	"context"
	"time"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/inventory"
	"github.com/roach88/critterkeep/internal/reward"
)

// ClaimDailyReward pays caller's daily reward, scaled by the pet's level.
// The pet must exist but need not be alive.
func (e *Engine) ClaimDailyReward(ctx context.Context, caller domain.AccountID, now time.Time) (*reward.Daily, error) {
	return e.claimDailyReward(ctx, caller, now, NoArgs{})
}

func (e *Engine) claimDailyReward(ctx context.Context, caller domain.AccountID, now time.Time, args NoArgs) (*reward.Daily, error) {
	return mutate(ctx, e, OpClaimDailyReward, caller, now, args, nil, func(s *session) (*reward.Daily, error) {
		p, err := s.pet(caller)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNoPet
		}
		acct, _, err := s.ensureAccount(caller)
		if err != nil {
			return nil, err
		}
		daily, err := reward.ClaimDaily(acct, p.Level, s.rng, e.rules.Daily, s.now)
		if err != nil {
			return nil, err
		}

		inv, err := s.inventory(caller)
		if err != nil {
			return nil, err
		}
		inventory.Credit(inv, daily.Coins)
		if daily.Item != "" {
			if err := inventory.Add(inv, daily.Item, 1); err != nil {
				return nil, err
			}
		}
		s.saveAccount(acct)
		s.saveInventory(caller, inv)
		return &daily, nil
	})
}
