// Package inventory implements the per-account item and coin ledger.
//
// Every function validates before it mutates: a rejected call leaves the
// inventory untouched.
package inventory

import (
	"strconv"

	"github.com/roach88/critterkeep/internal/domain"
)

// Add credits n units of id.
func Add(inv *domain.Inventory, id domain.ItemID, n int) error {
	if n <= 0 {
		return domain.ErrInvalidQuantity.With("quantity", strconv.Itoa(n))
	}
	if inv.Items == nil {
		inv.Items = map[domain.ItemID]int{}
	}
	inv.Items[id] += n
	return nil
}

// Remove debits n units of id. Depleted entries are deleted.
func Remove(inv *domain.Inventory, id domain.ItemID, n int) error {
	if err := Check(inv, id, n); err != nil {
		return err
	}
	left := inv.Items[id] - n
	if left == 0 {
		delete(inv.Items, id)
	} else {
		inv.Items[id] = left
	}
	return nil
}

// Check verifies that inv holds at least n units of id.
func Check(inv *domain.Inventory, id domain.ItemID, n int) error {
	if n <= 0 {
		return domain.ErrInvalidQuantity.With("quantity", strconv.Itoa(n))
	}
	have := inv.Quantity(id)
	if have == 0 {
		return domain.ErrItemNotOwned.With("item", string(id))
	}
	if have < n {
		return domain.ErrInsufficientItems.
			With("item", string(id)).
			With("have", strconv.Itoa(have)).
			With("need", strconv.Itoa(n))
	}
	return nil
}

// Credit adds coins. Negative amounts are ignored.
func Credit(inv *domain.Inventory, coins int64) {
	if coins > 0 {
		inv.Coins += coins
	}
}

// Debit removes coins, failing when the balance is short.
func Debit(inv *domain.Inventory, coins int64) error {
	if coins < 0 {
		return domain.ErrInvalidArgument.With("coins", strconv.FormatInt(coins, 10))
	}
	if inv.Coins < coins {
		return domain.ErrInsufficientCoins.
			With("have", strconv.FormatInt(inv.Coins, 10)).
			With("need", strconv.FormatInt(coins, 10))
	}
	inv.Coins -= coins
	return nil
}

// Grant applies a starting grant to a fresh inventory.
func Grant(coins int64, items map[domain.ItemID]int) *domain.Inventory {
	inv := domain.NewInventory()
	Credit(inv, coins)
	for id, n := range items {
		if n > 0 {
			inv.Items[id] = n
		}
	}
	return inv
}
