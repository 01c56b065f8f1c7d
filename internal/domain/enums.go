package domain

import (
	"fmt"
	"strings"
)

// ElementType is a pet's elemental type.
type ElementType uint8

const (
	TypeUnknown ElementType = iota
	TypeFire
	TypeWater
	TypeGrass
	TypeDragon
)

var elementNames = []string{"unknown", "fire", "water", "grass", "dragon"}

// ElementTypes lists every valid element type in declaration order.
var ElementTypes = []ElementType{TypeFire, TypeWater, TypeGrass, TypeDragon}

func (t ElementType) String() string { return enumString(elementNames, t) }

// Valid reports whether t is a known, non-zero element type.
func (t ElementType) Valid() bool { return t > TypeUnknown && t <= TypeDragon }

// ParseElementType parses a lower-case element name.
func ParseElementType(s string) (ElementType, error) {
	return parseEnum[ElementType]("element type", elementNames, s)
}

func (t ElementType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *ElementType) UnmarshalText(b []byte) error {
	v, err := ParseElementType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Move is a battle move. MoveUnset is the null move: a recorded battle
// slot holds it until the party submits.
type Move uint8

const (
	MoveUnset Move = iota
	MoveAttack
	MoveDefend
	MoveSpecial
)

var moveNames = []string{"unset", "attack", "defend", "special"}

func (m Move) String() string { return enumString(moveNames, m) }

// Valid reports whether m is a submittable move (anything but Unset).
func (m Move) Valid() bool { return m > MoveUnset && m <= MoveSpecial }

// ParseMove parses a lower-case move name.
func ParseMove(s string) (Move, error) {
	return parseEnum[Move]("move", moveNames, s)
}

func (m Move) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Move) UnmarshalText(b []byte) error {
	v, err := ParseMove(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Category classifies catalog items.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryWeapon
	CategoryArmor
	CategoryConsumable
	CategoryAccessory
	CategoryEvolution
)

var categoryNames = []string{"unknown", "weapon", "armor", "consumable", "accessory", "evolution"}

func (c Category) String() string { return enumString(categoryNames, c) }

func (c Category) Valid() bool { return c > CategoryUnknown && c <= CategoryEvolution }

// Equippable reports whether items of this category may occupy a slot.
func (c Category) Equippable() bool {
	switch c {
	case CategoryWeapon, CategoryArmor, CategoryAccessory:
		return true
	case CategoryConsumable, CategoryEvolution, CategoryUnknown:
		return false
	}
	return false
}

// Usable reports whether items of this category are consumed by use.
func (c Category) Usable() bool {
	switch c {
	case CategoryConsumable, CategoryEvolution:
		return true
	case CategoryWeapon, CategoryArmor, CategoryAccessory, CategoryUnknown:
		return false
	}
	return false
}

func ParseCategory(s string) (Category, error) {
	return parseEnum[Category]("category", categoryNames, s)
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Category) UnmarshalText(b []byte) error {
	v, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Rarity grades catalog items.
type Rarity uint8

const (
	RarityUnknown Rarity = iota
	RarityCommon
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityNames = []string{"unknown", "common", "uncommon", "rare", "epic", "legendary"}

func (r Rarity) String() string { return enumString(rarityNames, r) }

func (r Rarity) Valid() bool { return r > RarityUnknown && r <= RarityLegendary }

func ParseRarity(s string) (Rarity, error) {
	return parseEnum[Rarity]("rarity", rarityNames, s)
}

func (r Rarity) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Rarity) UnmarshalText(b []byte) error {
	v, err := ParseRarity(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// EffectType is what an item effect does.
//
// Instant effects (heal, nourish, cheer, experience) resolve the moment an
// item is used and are never tracked. Every other effect is a stat modifier
// held in the account's active effect list.
type EffectType uint8

const (
	EffectUnknown EffectType = iota
	EffectAttackBoost
	EffectDefenseBoost
	EffectSpeedBoost
	EffectHealthBoost
	EffectCritChance
	EffectDodgeChance
	EffectHeal
	EffectNourish
	EffectCheer
	EffectExperience
)

var effectNames = []string{
	"unknown",
	"attack_boost",
	"defense_boost",
	"speed_boost",
	"health_boost",
	"crit_chance",
	"dodge_chance",
	"heal",
	"nourish",
	"cheer",
	"experience",
}

func (e EffectType) String() string { return enumString(effectNames, e) }

func (e EffectType) Valid() bool { return e > EffectUnknown && e <= EffectExperience }

// Instant reports whether the effect resolves immediately on use.
func (e EffectType) Instant() bool {
	switch e {
	case EffectHeal, EffectNourish, EffectCheer, EffectExperience:
		return true
	case EffectAttackBoost, EffectDefenseBoost, EffectSpeedBoost, EffectHealthBoost,
		EffectCritChance, EffectDodgeChance, EffectUnknown:
		return false
	}
	return false
}

func ParseEffectType(s string) (EffectType, error) {
	return parseEnum[EffectType]("effect type", effectNames, s)
}

func (e EffectType) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *EffectType) UnmarshalText(b []byte) error {
	v, err := ParseEffectType(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

func enumString[T ~uint8](names []string, v T) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("invalid(%d)", uint8(v))
}

func parseEnum[T ~uint8](kind string, names []string, s string) (T, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if name == s {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}
