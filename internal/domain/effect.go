package domain

import "time"

// MaxActiveEffects caps an account's active effect list.
const MaxActiveEffects = 10

// ActiveEffect is an effect attached to an account. A zero ExpiresAt means
// permanent.
type ActiveEffect struct {
	Source    ItemID     `json:"source"`
	Type      EffectType `json:"type"`
	Magnitude int        `json:"magnitude"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Expired reports whether the effect has lapsed at now. Expiry is
// inclusive: an effect expiring exactly at now is gone.
func (a ActiveEffect) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && !a.ExpiresAt.After(now)
}
