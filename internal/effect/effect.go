// Package effect tracks an account's active effects.
//
// Expired entries are excluded from every read as soon as their expiry
// passes and physically removed by the next Apply or Sweep.
package effect

import (
	"slices"
	"strconv"
	"time"

	"github.com/roach88/critterkeep/internal/domain"
)

// Active returns the unexpired entries of list at now, in insertion order.
// list is not modified.
func Active(list []domain.ActiveEffect, now time.Time) []domain.ActiveEffect {
	out := make([]domain.ActiveEffect, 0, len(list))
	for _, e := range list {
		if !e.Expired(now) {
			out = append(out, e)
		}
	}
	return out
}

// Sweep drops expired entries.
func Sweep(list []domain.ActiveEffect, now time.Time) []domain.ActiveEffect {
	return Active(list, now)
}

// Apply sweeps list, then attaches eff from source. Instant effects are
// never tracked.
func Apply(list []domain.ActiveEffect, source domain.ItemID, eff domain.Effect, now time.Time) ([]domain.ActiveEffect, error) {
	if !eff.Type.Valid() || eff.Type.Instant() {
		return list, domain.ErrInvalidArgument.With("effect", eff.Type.String())
	}
	list = Sweep(list, now)
	if len(list) >= domain.MaxActiveEffects {
		return list, domain.ErrEffectsFull.With("max", strconv.Itoa(domain.MaxActiveEffects))
	}
	ae := domain.ActiveEffect{Source: source, Type: eff.Type, Magnitude: eff.Magnitude}
	if !eff.Permanent() {
		ae.ExpiresAt = now.Add(eff.Duration)
	}
	return append(list, ae), nil
}

// Room reports whether n more effects fit after sweeping.
func Room(list []domain.ActiveEffect, now time.Time, n int) error {
	if len(Active(list, now))+n > domain.MaxActiveEffects {
		return domain.ErrEffectsFull.With("max", strconv.Itoa(domain.MaxActiveEffects))
	}
	return nil
}

// RemoveSource drops every entry granted by source.
func RemoveSource(list []domain.ActiveEffect, source domain.ItemID) []domain.ActiveEffect {
	return slices.DeleteFunc(slices.Clone(list), func(e domain.ActiveEffect) bool {
		return e.Source == source
	})
}

// Modifiers is the sum of all unexpired stat effects.
type Modifiers struct {
	Attack  int
	Defense int
	Speed   int
	Health  int
	Crit    int
	Dodge   int
}

// Sum totals the unexpired effects of list at now.
func Sum(list []domain.ActiveEffect, now time.Time) Modifiers {
	var m Modifiers
	for _, e := range Active(list, now) {
		switch e.Type {
		case domain.EffectAttackBoost:
			m.Attack += e.Magnitude
		case domain.EffectDefenseBoost:
			m.Defense += e.Magnitude
		case domain.EffectSpeedBoost:
			m.Speed += e.Magnitude
		case domain.EffectHealthBoost:
			m.Health += e.Magnitude
		case domain.EffectCritChance:
			m.Crit += e.Magnitude
		case domain.EffectDodgeChance:
			m.Dodge += e.Magnitude
		case domain.EffectHeal, domain.EffectNourish, domain.EffectCheer,
			domain.EffectExperience, domain.EffectUnknown:
		}
	}
	return m
}
