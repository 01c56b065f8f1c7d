package engine

import (
	"context"
	"time"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/effect"
	"github.com/roach88/critterkeep/internal/equipment"
	"github.com/roach88/critterkeep/internal/inventory"
	"github.com/roach88/critterkeep/internal/pet"
)

type ItemArgs struct {
	Item domain.ItemID `json:"item"`
}

// EquipItem moves an item from caller's inventory into its slot. A weapon
// or armor already in the slot goes back to the inventory.
func (e *Engine) EquipItem(ctx context.Context, caller domain.AccountID, now time.Time, item domain.ItemID) (*EquipResult, error) {
	return e.equipItem(ctx, caller, now, ItemArgs{Item: item})
}

func (e *Engine) equipItem(ctx context.Context, caller domain.AccountID, now time.Time, args ItemArgs) (*EquipResult, error) {
	return mutate(ctx, e, OpEquipItem, caller, now, args, nil, func(s *session) (*EquipResult, error) {
		item, err := e.catalog.Lookup(args.Item)
		if err != nil {
			return nil, err
		}
		p, err := s.livingPet(caller, domain.ErrNoPet, domain.ErrPetNotAlive)
		if err != nil {
			return nil, err
		}
		l, err := s.loadout(caller)
		if err != nil {
			return nil, err
		}
		displaced, err := equipment.Equip(l, item, p.Level, s.now)
		if err != nil {
			return nil, err
		}
		s.saveLoadout(caller, l)
		return &EquipResult{Equipment: *l.Equipment, Displaced: displaced}, nil
	})
}

// UnequipItem returns an equipped item to caller's inventory and drops the
// effects it granted.
func (e *Engine) UnequipItem(ctx context.Context, caller domain.AccountID, now time.Time, item domain.ItemID) (*EquipResult, error) {
	return e.unequipItem(ctx, caller, now, ItemArgs{Item: item})
}

func (e *Engine) unequipItem(ctx context.Context, caller domain.AccountID, now time.Time, args ItemArgs) (*EquipResult, error) {
	return mutate(ctx, e, OpUnequipItem, caller, now, args, nil, func(s *session) (*EquipResult, error) {
		l, err := s.loadout(caller)
		if err != nil {
			return nil, err
		}
		if err := equipment.Unequip(l, args.Item); err != nil {
			return nil, err
		}
		s.saveLoadout(caller, l)
		return &EquipResult{Equipment: *l.Equipment}, nil
	})
}

// UseItem consumes one consumable or evolution item. Instant effects apply
// to the pet at once; stat effects are attached to the account.
func (e *Engine) UseItem(ctx context.Context, caller domain.AccountID, now time.Time, item domain.ItemID) (*CareResult, error) {
	return e.useItem(ctx, caller, now, ItemArgs{Item: item})
}

func (e *Engine) useItem(ctx context.Context, caller domain.AccountID, now time.Time, args ItemArgs) (*CareResult, error) {
	return mutate(ctx, e, OpUseItem, caller, now, args, nil, func(s *session) (*CareResult, error) {
		item, err := e.catalog.Lookup(args.Item)
		if err != nil {
			return nil, err
		}
		if !item.Category.Usable() {
			return nil, domain.ErrNotUsable.With("item", string(item.ID))
		}
		p, err := s.livingPet(caller, domain.ErrNoPet, domain.ErrPetNotAlive)
		if err != nil {
			return nil, err
		}
		inv, err := s.inventory(caller)
		if err != nil {
			return nil, err
		}
		if err := inventory.Check(inv, item.ID, 1); err != nil {
			return nil, err
		}
		list, err := s.effects(caller)
		if err != nil {
			return nil, err
		}

		tracked := 0
		for _, eff := range item.Effects {
			if !eff.Type.Instant() {
				tracked++
			}
		}
		if tracked > 0 {
			if err := effect.Room(*list, s.now, tracked); err != nil {
				return nil, err
			}
		}

		var up pet.LevelUp
		next := *list
		for _, eff := range item.Effects {
			switch eff.Type {
			case domain.EffectHeal:
				pet.Heal(p, eff.Magnitude)
			case domain.EffectNourish:
				pet.Feed(p, eff.Magnitude, s.now, e.rules.Care)
			case domain.EffectCheer:
				pet.Cheer(p, eff.Magnitude)
			case domain.EffectExperience:
				gained := pet.GainExperience(p, eff.Magnitude, e.rules.Leveling)
				up.Levels += gained.Levels
				up.Coins += gained.Coins
			case domain.EffectAttackBoost, domain.EffectDefenseBoost, domain.EffectSpeedBoost,
				domain.EffectHealthBoost, domain.EffectCritChance, domain.EffectDodgeChance:
				if next, err = effect.Apply(next, item.ID, eff, s.now); err != nil {
					return nil, err
				}
			case domain.EffectUnknown:
				return nil, domain.ErrInvalidArgument.With("effect", eff.Type.String())
			}
		}

		if err := inventory.Remove(inv, item.ID, 1); err != nil {
			return nil, err
		}
		inventory.Credit(inv, up.Coins)
		s.saveInventory(caller, inv)
		if tracked > 0 {
			s.saveEffects(caller, &next)
		}
		s.savePet(p)
		return s.careResult(p, up)
	})
}
