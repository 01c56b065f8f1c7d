// Package equipment manages equipped item slots and aggregate stats.
//
// Equipping moves one unit out of the inventory into a slot and registers
// the item's effects with the item as their source. Unequipping reverses
// both. A weapon or armor equipped over an occupied slot sends the previous
// item back to the inventory first.
package equipment

import (
	"strconv"
	"time"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/effect"
	"github.com/roach88/critterkeep/internal/inventory"
)

// Catalog resolves item definitions.
type Catalog interface {
	Get(id domain.ItemID) (domain.Item, bool)
}

// Loadout is the account state an equip or unequip touches.
type Loadout struct {
	Equipment *domain.Equipment
	Inventory *domain.Inventory
	Effects   []domain.ActiveEffect
}

// Equip places item into its slot. level is the owning pet's level. It
// returns the id of the item it displaced, if any.
func Equip(l *Loadout, item domain.Item, level int, now time.Time) (domain.ItemID, error) {
	if !item.Category.Equippable() {
		return "", domain.ErrNotEquippable.
			With("item", string(item.ID)).
			With("category", item.Category.String())
	}
	if err := inventory.Check(l.Inventory, item.ID, 1); err != nil {
		return "", err
	}
	if l.Equipment.Holds(item.ID) {
		return "", domain.ErrAlreadyEquipped.With("item", string(item.ID))
	}
	if level < item.LevelReq {
		return "", domain.ErrLevelTooLow.
			With("item", string(item.ID)).
			With("required", strconv.Itoa(item.LevelReq)).
			With("level", strconv.Itoa(level))
	}

	slot := -1
	var displaced domain.ItemID
	switch item.Category {
	case domain.CategoryWeapon:
		displaced = l.Equipment.Weapon
	case domain.CategoryArmor:
		displaced = l.Equipment.Armor
	case domain.CategoryAccessory:
		for i, a := range l.Equipment.Accessories {
			if a == "" {
				slot = i
				break
			}
		}
		if slot < 0 {
			return "", domain.ErrSlotsFull.With("slots", strconv.Itoa(domain.AccessorySlots))
		}
	case domain.CategoryConsumable, domain.CategoryEvolution, domain.CategoryUnknown:
		return "", domain.ErrNotEquippable.With("item", string(item.ID))
	}

	remaining := l.Effects
	if displaced != "" {
		remaining = effect.RemoveSource(remaining, displaced)
	}
	if err := effect.Room(remaining, now, len(item.Effects)); err != nil {
		return "", err
	}

	// Validated; mutate.
	if err := inventory.Remove(l.Inventory, item.ID, 1); err != nil {
		return "", err
	}
	if displaced != "" {
		if err := inventory.Add(l.Inventory, displaced, 1); err != nil {
			return "", err
		}
	}
	switch item.Category {
	case domain.CategoryWeapon:
		l.Equipment.Weapon = item.ID
	case domain.CategoryArmor:
		l.Equipment.Armor = item.ID
	case domain.CategoryAccessory:
		l.Equipment.Accessories[slot] = item.ID
	case domain.CategoryConsumable, domain.CategoryEvolution, domain.CategoryUnknown:
	}
	for _, e := range item.Effects {
		var err error
		if remaining, err = effect.Apply(remaining, item.ID, e, now); err != nil {
			return "", err
		}
	}
	l.Effects = remaining
	return displaced, nil
}

// Unequip clears the slot holding id, returns the item to the inventory and
// drops the effects it granted.
func Unequip(l *Loadout, id domain.ItemID) error {
	eq := l.Equipment
	switch {
	case id == "":
		return domain.ErrNotEquipped
	case eq.Weapon == id:
		eq.Weapon = ""
	case eq.Armor == id:
		eq.Armor = ""
	default:
		found := false
		for i, a := range eq.Accessories {
			if a == id {
				eq.Accessories[i] = ""
				found = true
				break
			}
		}
		if !found {
			return domain.ErrNotEquipped.With("item", string(id))
		}
	}
	if err := inventory.Add(l.Inventory, id, 1); err != nil {
		return err
	}
	l.Effects = effect.RemoveSource(l.Effects, id)
	return nil
}

// Total computes the pet's effective stats: base stats, every slotted
// item's deltas and every unexpired effect. Crit and dodge are clamped to
// [0,100]; other stats floor at 0.
func Total(p *domain.Pet, eq *domain.Equipment, effects []domain.ActiveEffect, cat Catalog, now time.Time) domain.TotalStats {
	gear := domain.Stats{}
	for _, id := range eq.Slotted() {
		if it, ok := cat.Get(id); ok {
			gear = gear.Add(it.Stats)
		}
	}
	mods := effect.Sum(effects, now)

	return domain.TotalStats{
		Attack:    floor(p.Attack + gear.Attack + mods.Attack),
		Defense:   floor(p.Defense + gear.Defense + mods.Defense),
		Speed:     floor(p.Speed + gear.Speed + mods.Speed),
		MaxHealth: floor(p.MaxHealth + gear.Health + mods.Health),
		Crit:      percent(mods.Crit),
		Dodge:     percent(mods.Dodge),
	}
}

func floor(v int) int { return max(v, 0) }

func percent(v int) int { return min(max(v, 0), 100) }
