package engine

import (
	"context"
	"time"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/market"
	"github.com/roach88/critterkeep/internal/store"
)

type ListItemForSaleArgs struct {
	Item      domain.ItemID `json:"item"`
	Quantity  int           `json:"quantity"`
	UnitPrice int64         `json:"unit_price"`
}

type ListingArgs struct {
	Listing int64 `json:"listing"`
}

// ListItemForSale escrows quantity units of item from caller's inventory
// into a new listing.
func (e *Engine) ListItemForSale(ctx context.Context, caller domain.AccountID, now time.Time, item domain.ItemID, quantity int, unitPrice int64) (*domain.Listing, error) {
	return e.listItemForSale(ctx, caller, now, ListItemForSaleArgs{Item: item, Quantity: quantity, UnitPrice: unitPrice})
}

func (e *Engine) listItemForSale(ctx context.Context, caller domain.AccountID, now time.Time, args ListItemForSaleArgs) (*domain.Listing, error) {
	return mutate(ctx, e, OpListItemForSale, caller, now, args, nil, func(s *session) (*domain.Listing, error) {
		item, err := e.catalog.Lookup(args.Item)
		if err != nil {
			return nil, err
		}
		inv, err := s.inventory(caller)
		if err != nil {
			return nil, err
		}
		id, err := s.tx.NextSeq(s.ctx, store.SeqListing)
		if err != nil {
			return nil, err
		}
		l, err := market.List(id, caller, inv, item, args.Quantity, args.UnitPrice, s.now)
		if err != nil {
			return nil, err
		}
		s.saveInventory(caller, inv)
		s.saveListing(l)
		return l, nil
	})
}

// PurchaseFromMarketplace buys a whole listing.
func (e *Engine) PurchaseFromMarketplace(ctx context.Context, caller domain.AccountID, now time.Time, listing int64) (*domain.Listing, error) {
	return e.purchaseFromMarketplace(ctx, caller, now, ListingArgs{Listing: listing})
}

func (e *Engine) purchaseFromMarketplace(ctx context.Context, caller domain.AccountID, now time.Time, args ListingArgs) (*domain.Listing, error) {
	peek := func(ctx context.Context) ([]domain.AccountID, error) {
		return view(ctx, e, time.Time{}, func(s *session) ([]domain.AccountID, error) {
			l, ok, err := load[domain.Listing](s, store.KindListing, store.IDKey(args.Listing))
			if err != nil || !ok {
				return nil, err
			}
			return []domain.AccountID{l.Seller}, nil
		})
	}
	return mutate(ctx, e, OpPurchaseFromMarketplace, caller, now, args, peek, func(s *session) (*domain.Listing, error) {
		l, err := s.listing(args.Listing)
		if err != nil {
			return nil, err
		}
		buyerInv, err := s.inventory(caller)
		if err != nil {
			return nil, err
		}
		if err := market.CheckPurchase(l, caller, buyerInv); err != nil {
			return nil, err
		}
		if err := s.requireLocked(l.Seller); err != nil {
			return nil, err
		}
		sellerInv, err := s.inventory(l.Seller)
		if err != nil {
			return nil, err
		}
		if err := market.Purchase(l, caller, buyerInv, sellerInv, s.now); err != nil {
			return nil, err
		}
		s.saveInventory(caller, buyerInv)
		s.saveInventory(l.Seller, sellerInv)
		s.saveListing(l)
		return l, nil
	})
}

// CancelListing closes caller's listing and returns the escrowed items.
func (e *Engine) CancelListing(ctx context.Context, caller domain.AccountID, now time.Time, listing int64) (*domain.Listing, error) {
	return e.cancelListing(ctx, caller, now, ListingArgs{Listing: listing})
}

func (e *Engine) cancelListing(ctx context.Context, caller domain.AccountID, now time.Time, args ListingArgs) (*domain.Listing, error) {
	return mutate(ctx, e, OpCancelListing, caller, now, args, nil, func(s *session) (*domain.Listing, error) {
		l, err := s.listing(args.Listing)
		if err != nil {
			return nil, err
		}
		if err := market.CheckCancel(l, caller); err != nil {
			return nil, err
		}
		inv, err := s.inventory(caller)
		if err != nil {
			return nil, err
		}
		if err := market.Cancel(l, caller, inv, s.now); err != nil {
			return nil, err
		}
		s.saveInventory(caller, inv)
		s.saveListing(l)
		return l, nil
	})
}
