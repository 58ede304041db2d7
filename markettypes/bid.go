package markettypes

import "time"

// Bid is an immutable record of a single bid event. Construction is the
// only mutator; degenerate inputs (zero bidder, zero price, zero time)
// are accepted here and validated upstream.
type Bid struct {
	bidder    string
	startTime time.Time
	item      *Item
	price     uint64
}

func NewBid(bidder string, startTime time.Time, item *Item, price uint64) *Bid {
	return &Bid{
		bidder:    bidder,
		startTime: startTime,
		item:      item,
		price:     price,
	}
}

func (b *Bid) Bidder() string {
	return b.bidder
}

func (b *Bid) StartTime() time.Time {
	return b.startTime
}

func (b *Bid) Item() *Item {
	return b.item
}

func (b *Bid) Price() uint64 {
	return b.price
}
