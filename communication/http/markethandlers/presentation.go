package markethandlers

import (
	"time"

	"github.com/orangestand/marketplace/auction"
	"github.com/orangestand/marketplace/markettypes"
)

type auctionPresentation struct {
	ID                    uint64                     `json:"id"`
	OriginalOwner         string                     `json:"original_owner"`
	CurrentCycleStartTime time.Time                  `json:"current_cycle_start_time"`
	CurrentCycleEndTime   time.Time                  `json:"current_cycle_end_time"`
	CycleDurationMinutes  uint64                     `json:"cycle_duration_minutes"`
	InitialPrice          uint64                     `json:"initial_price"`
	PriceIncrease         uint64                     `json:"price_increase"`
	CurrentPrice          uint64                     `json:"current_price"`
	ActivePrice           uint64                     `json:"active_price"`
	Finished              bool                       `json:"finished"`
	TicketAsset           string                     `json:"ticket_asset"`
	ActiveBid             *bidPresentation           `json:"active_bid,omitempty"`
	FungibleEntries       []markettypes.FungibleEntry `json:"fungible_entries,omitempty"`
	UniqueEntries         []markettypes.UniqueEntry   `json:"unique_entries,omitempty"`
}

type bidPresentation struct {
	Bidder    string    `json:"bidder"`
	StartTime time.Time `json:"start_time"`
	Price     uint64    `json:"price"`
}

func presentAuction(a *auction.Auction) auctionPresentation {
	p := auctionPresentation{
		ID:                    a.ID(),
		OriginalOwner:         a.OriginalOwner(),
		CurrentCycleStartTime: a.CurrentCycleStartTime(),
		CurrentCycleEndTime:   a.CurrentCycleEndTime(),
		CycleDurationMinutes:  a.CycleDuration(),
		InitialPrice:          a.InitialPrice(),
		PriceIncrease:         a.PriceIncrease(),
		CurrentPrice:          a.CurrentPrice(),
		ActivePrice:           a.ActivePrice(),
		Finished:              a.IsFinished(),
		TicketAsset:           a.TicketAsset(),
		FungibleEntries:       a.Item().FungibleEntries(),
		UniqueEntries:         a.Item().UniqueEntries(),
	}

	if bid := a.ActiveBid(); bid != nil {
		p.ActiveBid = &bidPresentation{
			Bidder:    bid.Bidder(),
			StartTime: bid.StartTime(),
			Price:     bid.Price(),
		}
	}
	return p
}
