// Package reward issues daily rewards and rolls weighted loot tables.
package reward

import (
	"time"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/random"
	"github.com/roach88/critterkeep/internal/rules"
)

// Roll picks one entry of table with probability proportional to its
// weight. An empty table, or the empty entry, yields "".
func Roll(src random.Source, table []rules.Weighted) domain.ItemID {
	var total int64
	for _, w := range table {
		if w.Weight > 0 {
			total += w.Weight
		}
	}
	if total == 0 {
		return ""
	}

	roll := src.NextUniform(total)
	var current int64
	for _, w := range table {
		if w.Weight <= 0 {
			continue
		}
		current += w.Weight
		if roll < current {
			return w.Item
		}
	}
	return ""
}

// Chance draws once and reports whether it landed under percent.
func Chance(src random.Source, percent int64) bool {
	if percent <= 0 {
		return false
	}
	return src.NextUniform(100) < percent
}

// Daily is a claimed daily reward. The caller credits it.
type Daily struct {
	Coins     int64         `json:"coins"`
	Item      domain.ItemID `json:"item,omitempty"`
	NextClaim time.Time     `json:"next_claim"`
}

// NextClaim returns when acct may claim again. The zero time means now.
func NextClaim(acct *domain.Account, d rules.Daily) time.Time {
	if acct.LastDailyClaim.IsZero() {
		return time.Time{}
	}
	return acct.LastDailyClaim.Add(d.Cooldown())
}

// ClaimDaily stamps acct's claim time and computes the reward for a pet at
// level. The first claim always succeeds.
func ClaimDaily(acct *domain.Account, level int, src random.Source, d rules.Daily, now time.Time) (Daily, error) {
	if next := NextClaim(acct, d); !next.IsZero() && now.Before(next) {
		return Daily{}, domain.ErrAlreadyClaimed.
			With("next_claim", next.UTC().Format(time.RFC3339)).
			With("remaining", next.Sub(now).String())
	}
	acct.LastDailyClaim = now
	return Daily{
		Coins:     d.BaseCoins + int64(level)*d.CoinsPerLevel,
		Item:      Roll(src, d.Grants),
		NextClaim: now.Add(d.Cooldown()),
	}, nil
}
