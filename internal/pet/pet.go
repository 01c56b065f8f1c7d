// Package pet implements pet creation, care, leveling and evolution.
//
// Functions here operate on an already folded pet (see vitality.Fold) and
// validate before mutating. Persistence and time folding are the caller's
// job.
package pet

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/rules"
	"github.com/roach88/critterkeep/internal/vitality"
)

// MaxNameLength is the longest pet name, in runes after NFC normalization.
const MaxNameLength = 20

// NormalizeName trims and NFC-normalizes a pet name and checks its length.
func NormalizeName(name string) (string, error) {
	n := norm.NFC.String(strings.TrimSpace(name))
	if n == "" || !utf8.ValidString(n) {
		return "", domain.ErrInvalidName
	}
	if utf8.RuneCountInString(n) > MaxNameLength {
		return "", domain.ErrInvalidName.With("length", strconv.Itoa(utf8.RuneCountInString(n)))
	}
	for _, r := range n {
		if r < 0x20 || r == 0x7f {
			return "", domain.ErrInvalidName.With("reason", "control character")
		}
	}
	return n, nil
}

// New creates a level 1 pet. generation is 1 for an account's first pet and
// grows with each replacement.
func New(owner domain.AccountID, name string, typ domain.ElementType, generation int, r *rules.Rules, now time.Time) (*domain.Pet, error) {
	n, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	if !typ.Valid() {
		return nil, domain.ErrInvalidType.With("type", typ.String())
	}
	base, ok := r.Base(typ)
	if !ok {
		return nil, domain.ErrInvalidType.With("type", typ.String())
	}
	return &domain.Pet{
		Owner:      owner,
		Name:       n,
		Type:       typ,
		Generation: generation,
		Level:      1,
		Attack:     base.Attack,
		Defense:    base.Defense,
		Speed:      base.Speed,
		Health:     base.MaxHealth,
		MaxHealth:  base.MaxHealth,
		Happiness:  r.Vitality.InitialHappiness,
		Hunger:     r.Vitality.InitialHunger,
		LastFed:    now,
		LastPlayed: now,
		BornAt:     now,
		Alive:      true,
	}, nil
}

// Replaceable reports whether an account's current pet may be replaced by
// a new one: only a dead pet can be.
func Replaceable(p *domain.Pet, now time.Time, v rules.Vitality) bool {
	return p == nil || !vitality.Fold(p, now, v).Alive
}

// Play raises happiness, costs some hunger and grants experience.
func Play(p *domain.Pet, now time.Time, r *rules.Rules) LevelUp {
	p.Happiness = vitality.Clamp(p.Happiness + r.Care.PlayHappiness)
	p.Hunger = vitality.Clamp(p.Hunger + r.Care.PlayHunger)
	p.LastPlayed = now
	return GainExperience(p, r.Care.PlayExperience, r.Leveling)
}

// CheckTrain reports whether p is fit to train.
func CheckTrain(p *domain.Pet, c rules.Care) error {
	if p.Hunger >= c.TrainMaxHunger {
		return domain.ErrTooHungry.With("hunger", strconv.Itoa(p.Hunger))
	}
	if p.Happiness <= c.TrainMinHappiness {
		return domain.ErrTooUnhappy.With("happiness", strconv.Itoa(p.Happiness))
	}
	return nil
}

// Train grants training experience at a hunger and happiness cost.
func Train(p *domain.Pet, r *rules.Rules) (LevelUp, error) {
	if err := CheckTrain(p, r.Care); err != nil {
		return LevelUp{}, err
	}
	p.Hunger = vitality.Clamp(p.Hunger + r.Care.TrainHunger)
	p.Happiness = vitality.Clamp(p.Happiness - r.Care.TrainHappinessCost)
	return GainExperience(p, r.Care.TrainExperience, r.Leveling), nil
}

// Feed lowers hunger by nourishment and stamps LastFed.
func Feed(p *domain.Pet, nourishment int, now time.Time, c rules.Care) {
	p.Hunger = vitality.Clamp(p.Hunger - nourishment)
	p.Happiness = vitality.Clamp(p.Happiness + c.FeedHappiness)
	p.LastFed = now
}

// Cheer raises happiness without touching LastPlayed.
func Cheer(p *domain.Pet, amount int) {
	p.Happiness = vitality.Clamp(p.Happiness + amount)
}

// Heal restores health up to MaxHealth.
func Heal(p *domain.Pet, amount int) {
	p.Health = min(p.Health+max(amount, 0), p.MaxHealth)
}

// Damage lowers health, flooring at 0. A pet at 0 health is dead for good.
func Damage(p *domain.Pet, amount int) {
	p.Health = max(p.Health-max(amount, 0), 0)
	if p.Health == 0 {
		p.Alive = false
	}
}
