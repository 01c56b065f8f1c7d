package domain

import (
	"maps"
	"slices"
)

// Inventory is an account's coin balance and item quantities. Items never
// holds a zero or negative quantity; depleted entries are removed.
type Inventory struct {
	Coins int64          `json:"coins"`
	Items map[ItemID]int `json:"items"`
}

// NewInventory returns an empty inventory with a non-nil item map.
func NewInventory() *Inventory {
	return &Inventory{Items: map[ItemID]int{}}
}

// Quantity returns how many of id the account holds.
func (inv *Inventory) Quantity(id ItemID) int { return inv.Items[id] }

// ItemIDs returns held item ids in sorted order.
func (inv *Inventory) ItemIDs() []ItemID {
	return slices.Sorted(maps.Keys(inv.Items))
}

// Clone returns a deep copy.
func (inv *Inventory) Clone() *Inventory {
	return &Inventory{Coins: inv.Coins, Items: maps.Clone(inv.Items)}
}
