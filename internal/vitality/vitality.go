// Package vitality folds elapsed time into a pet's hunger and happiness.
//
// Fold is the only place decay is computed. Reads call it and discard the
// result; mutations call it once, Apply the result to the pet, and persist,
// so an interval is never decayed twice.
package vitality

import (
	"time"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/rules"
)

// Bounds of hunger and happiness.
const (
	Min = 0
	Max = 100
)

// Folded is a pet's vitality at a point in time.
type Folded struct {
	Hunger    int  `json:"hunger"`
	Happiness int  `json:"happiness"`
	Alive     bool `json:"alive"`

	// Re-based snapshot times. Whole decay periods are moved from the
	// elapsed interval into the snapshot; the sub-period remainder stays.
	LastFed    time.Time `json:"-"`
	LastPlayed time.Time `json:"-"`
}

// Fold computes p's vitality at now without touching p.
func Fold(p *domain.Pet, now time.Time, v rules.Vitality) Folded {
	hungerPeriods, fed := periods(p.LastFed, now, v.HungerPeriod())
	happyPeriods, played := periods(p.LastPlayed, now, v.HappinessPeriod())

	hunger := addClamped(p.Hunger, hungerPeriods, int64(v.HungerStep))
	happiness := addClamped(p.Happiness, happyPeriods, -int64(v.HappinessStep))

	return Folded{
		Hunger:     hunger,
		Happiness:  happiness,
		Alive:      p.Alive && hunger < Max && happiness > Min && p.Health > 0,
		LastFed:    fed,
		LastPlayed: played,
	}
}

// Apply writes f into p. Once Alive folds to false the pet is marked dead
// for good.
func (f Folded) Apply(p *domain.Pet) {
	p.Hunger = f.Hunger
	p.Happiness = f.Happiness
	p.LastFed = f.LastFed
	p.LastPlayed = f.LastPlayed
	if !f.Alive {
		p.Alive = false
	}
}

// periods returns how many whole periods separate since and now, and since
// advanced by that many periods. Negative elapsed time counts as zero.
func periods(since, now time.Time, period time.Duration) (int64, time.Time) {
	if period <= 0 || !now.After(since) {
		return 0, since
	}
	n := int64(now.Sub(since) / period)
	return n, since.Add(time.Duration(n) * period)
}

func addClamped(v int, n, step int64) int {
	// n*step can overflow for absurd gaps; any gap past the full range
	// saturates anyway.
	if n > Max {
		n = Max
	}
	return clamp(int64(v) + n*step)
}

func clamp(v int64) int {
	switch {
	case v < Min:
		return Min
	case v > Max:
		return Max
	}
	return int(v)
}

// Clamp bounds a hunger or happiness value to [Min, Max].
func Clamp(v int) int { return clamp(int64(v)) }
