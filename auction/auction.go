package auction

import (
	"sync"
	"time"

	"code.cloudfoundry.org/clock"

	"github.com/orangestand/marketplace/markettypes"
)

// Auction is the per-listing state machine. Cycle advancement is lazy:
// nothing here runs on a timer, the current cycle is derived from the
// clock at each call. Privileged transitions are restricted to the
// coordinator guid the auction was created with.
type Auction struct {
	lock  *sync.Mutex
	clock clock.Clock

	id            uint64
	item          *markettypes.Item
	cycleStart    time.Time
	cycleDuration time.Duration
	initialPrice  uint64
	priceIncrease uint64
	originalOwner string
	coordinator   string
	ticketAsset   string

	activeBid *markettypes.Bid
	finished  bool
}

func New(
	clock clock.Clock,
	id uint64,
	item *markettypes.Item,
	originalOwner string,
	coordinator string,
	cycleDurationMinutes uint64,
	initialPrice uint64,
	priceIncreasePerCycle uint64,
	ticketAsset string,
) *Auction {
	if cycleDurationMinutes == 0 {
		panic("auction cycle duration must be positive")
	}

	return &Auction{
		lock:          &sync.Mutex{},
		clock:         clock,
		id:            id,
		item:          item,
		cycleStart:    clock.Now(),
		cycleDuration: time.Duration(cycleDurationMinutes) * time.Minute,
		initialPrice:  initialPrice,
		priceIncrease: priceIncreasePerCycle,
		originalOwner: originalOwner,
		coordinator:   coordinator,
		ticketAsset:   ticketAsset,
	}
}

func (a *Auction) ID() uint64 {
	return a.id
}

func (a *Auction) Item() *markettypes.Item {
	return a.item
}

func (a *Auction) OriginalOwner() string {
	return a.originalOwner
}

func (a *Auction) TicketAsset() string {
	return a.ticketAsset
}

func (a *Auction) CurrentCycleStartTime() time.Time {
	return a.cycleStart
}

// CycleDuration reports the configured cycle length in minutes.
func (a *Auction) CycleDuration() uint64 {
	return uint64(a.cycleDuration / time.Minute)
}

func (a *Auction) InitialPrice() uint64 {
	return a.initialPrice
}

func (a *Auction) PriceIncrease() uint64 {
	return a.priceIncrease
}

func (a *Auction) ActiveBid() *markettypes.Bid {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.activeBid
}

func (a *Auction) IsFinished() bool {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.finished
}

// CurrentCycleEndTime is the boundary that closes the cycle in
// progress: start + duration for cycle 0, repeating at that interval.
func (a *Auction) CurrentCycleEndTime() time.Time {
	return a.cycleStart.Add(time.Duration(a.currentCycle()+1) * a.cycleDuration)
}

// CurrentPrice is the price a bid placed right now must pay: the
// initial price raised once per cycle reached, including the current
// one. It is constant within a cycle no matter how many bids land.
func (a *Auction) CurrentPrice() uint64 {
	return a.initialPrice + a.priceIncrease*(a.currentCycle()+1)
}

// ActivePrice is the threshold the most recent bid paid, or the initial
// price when no bid has been placed yet.
func (a *Auction) ActivePrice() uint64 {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.activeBid != nil {
		return a.activeBid.Price()
	}
	return a.initialPrice
}

// PlaceBid records a bid for bidder at the current cycle's price and
// makes it the active bid, superseding any previous one. The superseded
// bid remains a valid historical record but is no longer referenced.
func (a *Auction) PlaceBid(caller, bidder string) (*markettypes.Bid, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	if caller != a.coordinator {
		return nil, markettypes.ErrNotAuthorized
	}
	if a.finished {
		return nil, markettypes.ErrAlreadyFinished
	}

	bid := markettypes.NewBid(bidder, a.clock.Now(), a.item, a.currentPrice())
	a.activeBid = bid
	return bid, nil
}

// Settle finalizes the auction exactly once and reports the winner: the
// active bidder, or the original owner when no bid was ever placed.
// Elapsed time alone never finishes an auction; someone must settle.
func (a *Auction) Settle(caller string) (string, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	if caller != a.coordinator {
		return "", markettypes.ErrNotAuthorized
	}
	if a.finished {
		return "", markettypes.ErrAlreadyFinished
	}

	a.finished = true
	if a.activeBid != nil {
		return a.activeBid.Bidder(), nil
	}
	return a.originalOwner, nil
}

// HasLapsedBid reports whether the active bid survived its whole
// cycle without being outbid, i.e. the auction is ready to settle in
// the bidder's favor. False when unsettled time keeps the same cycle
// open, when there is no bid, or when the auction is finished.
func (a *Auction) HasLapsedBid() bool {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.finished || a.activeBid == nil {
		return false
	}

	bidElapsed := a.activeBid.StartTime().Sub(a.cycleStart)
	if bidElapsed < 0 {
		bidElapsed = 0
	}
	bidCycle := uint64(bidElapsed / a.cycleDuration)
	return a.currentCycle() > bidCycle
}

// TransferAddress is who would receive the item right now: the active
// bidder if there is one, otherwise the original owner.
func (a *Auction) TransferAddress() string {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.activeBid != nil {
		return a.activeBid.Bidder()
	}
	return a.originalOwner
}

func (a *Auction) currentCycle() uint64 {
	elapsed := a.clock.Now().Sub(a.cycleStart)
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed / a.cycleDuration)
}

func (a *Auction) currentPrice() uint64 {
	return a.initialPrice + a.priceIncrease*(a.currentCycle()+1)
}
