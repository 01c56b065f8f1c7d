package domain

import "time"

// Listing is a marketplace offer. Quantity units left the seller's
// inventory when the listing was created.
type Listing struct {
	ID        int64     `json:"id"`
	Seller    AccountID `json:"seller"`
	ItemID    ItemID    `json:"item_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	Buyer     AccountID `json:"buyer,omitempty"`
	ClosedAt  time.Time `json:"closed_at"`
}

// Total is the full purchase price.
func (l *Listing) Total() int64 { return int64(l.Quantity) * l.UnitPrice }
