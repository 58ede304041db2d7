package coordinator

import (
	"errors"
	"sync"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager/v3"

	"github.com/orangestand/marketplace/auction"
	"github.com/orangestand/marketplace/config"
	"github.com/orangestand/marketplace/markettypes"
	"github.com/orangestand/marketplace/tracker"
)

var ErrInvalidCycleDuration = errors.New("cycle duration must be positive")
var ErrEmptyItem = errors.New("item has no entries")

// Coordinator is the single entry point of the marketplace engine: it
// mints and burns bidding tickets, creates auctions, brokers bids and
// settles listings. Every external call runs to completion under one
// lock, so state transitions are atomic with respect to other callers.
type Coordinator struct {
	lock   *sync.Mutex
	logger lager.Logger
	clock  clock.Clock

	guid  string
	owner string

	ledger       markettypes.AssetLedger
	tickets      markettypes.TicketAsset
	ticketAsset  string
	backingAsset string
	policy       config.TicketConfig

	tracker *tracker.Tracker
	nextID  uint64
}

func New(
	logger lager.Logger,
	clock clock.Clock,
	guid string,
	owner string,
	ledger markettypes.AssetLedger,
	tickets markettypes.TicketAsset,
	ticketAsset string,
	backingAsset string,
	policy config.TicketConfig,
) *Coordinator {
	return &Coordinator{
		lock:         &sync.Mutex{},
		logger:       logger.Session("auction-coordinator", lager.Data{"guid": guid}),
		clock:        clock,
		guid:         guid,
		owner:        owner,
		ledger:       ledger,
		tickets:      tickets,
		ticketAsset:  ticketAsset,
		backingAsset: backingAsset,
		policy:       policy,
		tracker:      tracker.New(logger, clock, guid, ledger),
		nextID:       1,
	}
}

func (c *Coordinator) Guid() string {
	return c.guid
}

// Tracker exposes the read side of the active-auction registry.
func (c *Coordinator) Tracker() *tracker.Tracker {
	return c.tracker
}

// AssumeTicketIssuance moves ownership of the ticket asset to the
// coordinator so it can mint and burn. The caller must be the asset's
// current owner.
func (c *Coordinator) AssumeTicketIssuance(caller string) error {
	return c.tickets.TransferOwnership(caller, c.guid)
}

// SetUpAuction escrows the item's assets from originalOwner, creates
// the auction and registers it with the tracker under the item's
// category. The seller must have approved the coordinator for every
// entry beforehand; a failed escrow rolls back any entries already
// taken.
func (c *Coordinator) SetUpAuction(
	caller string,
	item *markettypes.Item,
	originalOwner string,
	cycleDurationMinutes uint64,
	priceIncreasePerCycle uint64,
	initialPrice uint64,
) (uint64, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if caller != c.owner {
		return 0, markettypes.ErrNotAuthorized
	}
	if cycleDurationMinutes == 0 {
		return 0, ErrInvalidCycleDuration
	}
	if item == nil || (item.FungibleCount() == 0 && item.UniqueCount() == 0) {
		return 0, ErrEmptyItem
	}

	logger := c.logger.Session("set-up-auction", lager.Data{"original-owner": originalOwner})

	if err := c.escrowItem(item, originalOwner); err != nil {
		logger.Error("failed-to-escrow-item", err)
		return 0, err
	}

	id := c.nextID
	c.nextID++

	a := auction.New(c.clock, id, item, originalOwner, c.guid, cycleDurationMinutes, initialPrice, priceIncreasePerCycle, c.ticketAsset)
	if err := c.tracker.AddActiveAuction(c.guid, id, a); err != nil {
		logger.Error("failed-to-register", err)
		c.releaseItem(item, originalOwner)
		return 0, err
	}

	logger.Info("created", lager.Data{"auction-id": id})
	return id, nil
}

// CreateFungibleAuction sets up an auction over a single fungible
// asset entry.
func (c *Coordinator) CreateFungibleAuction(
	caller string,
	seller string,
	asset string,
	quantity uint64,
	cycleDurationMinutes uint64,
	priceIncreasePerCycle uint64,
	initialPrice uint64,
) (uint64, error) {
	item := markettypes.NewItem()
	item.AddFungible(asset, quantity)
	return c.SetUpAuction(caller, item, seller, cycleDurationMinutes, priceIncreasePerCycle, initialPrice)
}

// CreateUniqueAuction sets up an auction over a single unique asset
// instance.
func (c *Coordinator) CreateUniqueAuction(
	caller string,
	seller string,
	asset string,
	instance uint64,
	cycleDurationMinutes uint64,
	priceIncreasePerCycle uint64,
	initialPrice uint64,
) (uint64, error) {
	item := markettypes.NewItem()
	item.AddUnique(asset, instance)
	return c.SetUpAuction(caller, item, seller, cycleDurationMinutes, priceIncreasePerCycle, initialPrice)
}

// MakeBid places a bid on bidder's behalf at the auction's current
// cycle price. The bidder's tickets move into escrow and the previous
// active bidder's stake is returned in full. Any failure aborts the
// whole call with no state change.
func (c *Coordinator) MakeBid(caller string, auctionID uint64, bidder string) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if caller != c.owner {
		return markettypes.ErrNotAuthorized
	}

	logger := c.logger.Session("make-bid", lager.Data{"auction-id": auctionID, "bidder": bidder})

	a := c.tracker.Auction(auctionID)
	if a == nil {
		return markettypes.ErrUnknownAuction
	}
	if a.IsFinished() {
		return markettypes.ErrAlreadyFinished
	}

	price := a.CurrentPrice()
	if c.tickets.BalanceOf(bidder) < price {
		logger.Info("insufficient-funds", lager.Data{"price": price})
		return markettypes.ErrInsufficientFunds
	}
	if c.tickets.Allowance(bidder, c.guid) < price {
		logger.Info("insufficient-allowance", lager.Data{"price": price})
		return markettypes.ErrInsufficientAllowance
	}

	previous := a.ActiveBid()

	if err := c.tickets.TransferFrom(c.guid, bidder, c.guid, price); err != nil {
		logger.Error("failed-to-stake", err)
		return err
	}

	if _, err := a.PlaceBid(c.guid, bidder); err != nil {
		c.tickets.Transfer(c.guid, bidder, price)
		logger.Error("failed-to-place-bid", err)
		return err
	}

	if previous != nil {
		if err := c.tickets.Transfer(c.guid, previous.Bidder(), previous.Price()); err != nil {
			logger.Error("failed-to-release-stake", err, lager.Data{"previous-bidder": previous.Bidder()})
		}
	}

	c.tracker.UpdateOccurrence(c.guid, auctionID)

	logger.Info("placed", lager.Data{"price": price})
	return nil
}

// SettleAuction finalizes the auction, hands the item to the winner
// (or back to the seller when no bid was placed), disposes of the
// winning stake per policy, and drops the auction from the active
// index.
func (c *Coordinator) SettleAuction(caller string, auctionID uint64) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if caller != c.owner {
		return markettypes.ErrNotAuthorized
	}

	logger := c.logger.Session("settle-auction", lager.Data{"auction-id": auctionID})

	a := c.tracker.Auction(auctionID)
	if a == nil {
		return markettypes.ErrUnknownAuction
	}

	winningBid := a.ActiveBid()

	winner, err := a.Settle(c.guid)
	if err != nil {
		return err
	}

	if err := c.releaseItem(a.Item(), winner); err != nil {
		logger.Error("failed-to-transfer-item", err, lager.Data{"winner": winner})
	}

	if winningBid != nil {
		switch c.policy.StakeDisposition {
		case config.StakeForward:
			if err := c.tickets.Transfer(c.guid, a.OriginalOwner(), winningBid.Price()); err != nil {
				logger.Error("failed-to-forward-stake", err)
			}
		default:
			if err := c.tickets.Burn(c.guid, c.guid, winningBid.Price()); err != nil {
				logger.Error("failed-to-burn-stake", err)
			}
		}
	}

	if err := c.tracker.RemoveAuction(c.guid, auctionID); err != nil {
		logger.Error("failed-to-deregister", err)
	}

	logger.Info("settled", lager.Data{"winner": winner})
	return nil
}

// Auction returns the auction registered under id, nil when unknown.
func (c *Coordinator) Auction(id uint64) *auction.Auction {
	return c.tracker.Auction(id)
}

// AllActiveAuctions lists active auction ids under symbol, ascending.
func (c *Coordinator) AllActiveAuctions(symbol string) []uint64 {
	return c.tracker.AllActiveAuctions(symbol)
}

// ActiveAuctionIDs lists every active auction id across categories.
func (c *Coordinator) ActiveAuctionIDs() []uint64 {
	ids := []uint64{}
	for _, symbol := range c.tracker.AllCategories() {
		ids = append(ids, c.tracker.AllActiveAuctions(symbol)...)
	}
	return ids
}

// CreateTickets buys tickets for account: the backing asset moves into
// the coordinator's reserve and tickets mint at the policy exchange
// rate. The account must have approved the coordinator for the backing
// amount.
func (c *Coordinator) CreateTickets(caller, account string, backingAmount uint64) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if caller != c.owner {
		return markettypes.ErrNotAuthorized
	}

	logger := c.logger.Session("create-tickets", lager.Data{"account": account, "amount": backingAmount})

	if err := c.ledger.TransferFrom(c.guid, c.backingAsset, account, c.guid, backingAmount); err != nil {
		logger.Error("failed-to-collect-backing", err)
		return err
	}

	if err := c.tickets.Mint(c.guid, account, backingAmount*c.policy.ExchangeRate); err != nil {
		c.ledger.Transfer(c.guid, c.backingAsset, account, backingAmount)
		logger.Error("failed-to-mint", err)
		return err
	}

	logger.Info("minted")
	return nil
}

// RedeemTickets burns backingAmount*rate of account's tickets and
// returns backingAmount of the backing asset from the reserve.
// Redemption is denominated in backing units so the rate never leaves
// a remainder.
func (c *Coordinator) RedeemTickets(caller, account string, backingAmount uint64) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if caller != c.owner {
		return markettypes.ErrNotAuthorized
	}

	logger := c.logger.Session("redeem-tickets", lager.Data{"account": account, "amount": backingAmount})

	if err := c.tickets.Burn(c.guid, account, backingAmount*c.policy.ExchangeRate); err != nil {
		logger.Error("failed-to-burn", err)
		return err
	}

	if err := c.ledger.Transfer(c.guid, c.backingAsset, account, backingAmount); err != nil {
		c.tickets.Mint(c.guid, account, backingAmount*c.policy.ExchangeRate)
		logger.Error("failed-to-return-backing", err)
		return err
	}

	logger.Info("redeemed")
	return nil
}

func (c *Coordinator) escrowItem(item *markettypes.Item, from string) error {
	taken := markettypes.NewItem()

	for _, entry := range item.FungibleEntries() {
		if err := c.ledger.TransferFrom(c.guid, entry.Asset, from, c.guid, entry.Quantity); err != nil {
			c.releaseItem(taken, from)
			return err
		}
		taken.AddFungible(entry.Asset, entry.Quantity)
	}
	for _, entry := range item.UniqueEntries() {
		if err := c.ledger.TransferInstanceFrom(c.guid, entry.Asset, from, c.guid, entry.Instance); err != nil {
			c.releaseItem(taken, from)
			return err
		}
		taken.AddUnique(entry.Asset, entry.Instance)
	}
	return nil
}

func (c *Coordinator) releaseItem(item *markettypes.Item, to string) error {
	var firstErr error
	for _, entry := range item.FungibleEntries() {
		if err := c.ledger.Transfer(c.guid, entry.Asset, to, entry.Quantity); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, entry := range item.UniqueEntries() {
		if err := c.ledger.TransferInstanceFrom(c.guid, entry.Asset, c.guid, to, entry.Instance); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
