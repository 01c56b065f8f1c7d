package engine

import (
	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/effect"
	"github.com/roach88/critterkeep/internal/pet"
	"github.com/roach88/critterkeep/internal/vitality"
)

// PetStats is a pet as of the time it was read: hunger, happiness and
// liveness are folded, and Total carries equipment and effect bonuses.
type PetStats struct {
	Pet           domain.Pet        `json:"pet"`
	Total         domain.TotalStats `json:"total"`
	NextLevelAt   int               `json:"next_level_at"`
	CanEvolve     bool              `json:"can_evolve"`
	ActiveEffects int               `json:"active_effects"`
	EquippedItems []domain.ItemID   `json:"equipped_items"`
}

// CareResult is returned by operations that may level a pet up.
type CareResult struct {
	Stats   PetStats    `json:"stats"`
	LevelUp pet.LevelUp `json:"level_up"`
}

// EquipResult is the account's equipment after an equip or unequip.
// Displaced is the item an equip pushed back into the inventory.
type EquipResult struct {
	Equipment domain.Equipment `json:"equipment"`
	Displaced domain.ItemID    `json:"displaced,omitempty"`
}

// petStats builds the read view of p. p is copied; the fold is applied to
// the copy only.
func (s *session) petStats(p *domain.Pet) (PetStats, error) {
	cp := *p
	vitality.Fold(&cp, s.now, s.e.rules.Vitality).Apply(&cp)

	total, err := s.totalStats(&cp)
	if err != nil {
		return PetStats{}, err
	}
	eq, err := s.equipment(p.Owner)
	if err != nil {
		return PetStats{}, err
	}
	list, err := s.effects(p.Owner)
	if err != nil {
		return PetStats{}, err
	}
	return PetStats{
		Pet:           cp,
		Total:         total,
		NextLevelAt:   pet.Threshold(cp.Level, s.e.rules.Leveling),
		CanEvolve:     cp.Alive && pet.CanEvolve(&cp, s.e.rules.Evolution),
		ActiveEffects: len(effect.Active(*list, s.now)),
		EquippedItems: nonNil(eq.Slotted()),
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
