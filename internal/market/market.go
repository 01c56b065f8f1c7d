// Package market implements the peer-to-peer marketplace.
//
// Listing escrows the items: they leave the seller's inventory when the
// listing is created and either go to the buyer or back to the seller when
// it closes.
package market

import (
	"math"
	"strconv"
	"time"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/inventory"
)

// List escrows qty units of item from the seller's inventory into a new
// active listing with the given id.
func List(id int64, seller domain.AccountID, inv *domain.Inventory, item domain.Item, qty int, unitPrice int64, now time.Time) (*domain.Listing, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity.With("quantity", strconv.Itoa(qty))
	}
	if unitPrice <= 0 || unitPrice > math.MaxInt64/int64(qty) {
		return nil, domain.ErrInvalidPrice.With("price", strconv.FormatInt(unitPrice, 10))
	}
	if !item.Tradeable {
		return nil, domain.ErrNotTradeable.With("item", string(item.ID))
	}
	if err := inventory.Remove(inv, item.ID, qty); err != nil {
		return nil, err
	}
	return &domain.Listing{
		ID:        id,
		Seller:    seller,
		ItemID:    item.ID,
		Quantity:  qty,
		UnitPrice: unitPrice,
		Active:    true,
		CreatedAt: now,
	}, nil
}

// CheckPurchase validates a purchase without mutating anything.
func CheckPurchase(l *domain.Listing, buyer domain.AccountID, buyerInv *domain.Inventory) error {
	if !l.Active {
		return domain.ErrListingInactive.With("listing", strconv.FormatInt(l.ID, 10))
	}
	if buyer == l.Seller {
		return domain.ErrOwnListing.With("listing", strconv.FormatInt(l.ID, 10))
	}
	if buyerInv.Coins < l.Total() {
		return domain.ErrInsufficientCoins.
			With("have", strconv.FormatInt(buyerInv.Coins, 10)).
			With("need", strconv.FormatInt(l.Total(), 10))
	}
	return nil
}

// Purchase moves the listing's price from buyer to seller and its items to
// the buyer, then closes it.
func Purchase(l *domain.Listing, buyer domain.AccountID, buyerInv, sellerInv *domain.Inventory, now time.Time) error {
	if err := CheckPurchase(l, buyer, buyerInv); err != nil {
		return err
	}
	if err := inventory.Debit(buyerInv, l.Total()); err != nil {
		return err
	}
	inventory.Credit(sellerInv, l.Total())
	if err := inventory.Add(buyerInv, l.ItemID, l.Quantity); err != nil {
		return err
	}
	l.Active = false
	l.Buyer = buyer
	l.ClosedAt = now
	return nil
}

// CheckCancel validates a cancellation without mutating anything.
func CheckCancel(l *domain.Listing, caller domain.AccountID) error {
	if caller != l.Seller {
		return domain.ErrNotSeller.With("listing", strconv.FormatInt(l.ID, 10))
	}
	if !l.Active {
		return domain.ErrListingInactive.With("listing", strconv.FormatInt(l.ID, 10))
	}
	return nil
}

// Cancel returns the escrowed items to the seller and closes the listing.
func Cancel(l *domain.Listing, caller domain.AccountID, sellerInv *domain.Inventory, now time.Time) error {
	if err := CheckCancel(l, caller); err != nil {
		return err
	}
	if err := inventory.Add(sellerInv, l.ItemID, l.Quantity); err != nil {
		return err
	}
	l.Active = false
	l.ClosedAt = now
	return nil
}
