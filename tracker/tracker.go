package tracker

import (
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager/v3"

	"github.com/orangestand/marketplace/auction"
	"github.com/orangestand/marketplace/markettypes"
	"github.com/orangestand/marketplace/registrylist"
)

// Occurrence blending weights. A fresh observation outweighs the stale
// average so a burst of activity pulls the score up quickly; removal
// blends the lost category toward zero while the rest decay more
// gently, so the category that just lost an auction always lands below
// the others.
const (
	freshWeight  = 0.7
	staleWeight  = 0.3
	removalDecay = 0.9
)

type SymbolResolver interface {
	SymbolOf(asset string) string
}

// Tracker maintains the categorized, rank-ordered view of active
// auctions: an id-to-auction arena, a per-category sorted id list, and
// a decaying popularity score per category. Mutators are restricted to
// the owning coordinator; readers never mutate and never fail.
type Tracker struct {
	lock    *sync.Mutex
	logger  lager.Logger
	clock   clock.Clock
	owner   string
	symbols SymbolResolver

	auctions      map[uint64]*auction.Auction
	categoryOf    map[uint64]string
	lists         map[string]*registrylist.List
	occurrences   map[string]*markettypes.Occurrence
	categoryOrder []string
}

func New(logger lager.Logger, clock clock.Clock, owner string, symbols SymbolResolver) *Tracker {
	return &Tracker{
		lock:        &sync.Mutex{},
		logger:      logger.Session("auction-tracker"),
		clock:       clock,
		owner:       owner,
		symbols:     symbols,
		auctions:    map[uint64]*auction.Auction{},
		categoryOf:  map[uint64]string{},
		lists:       map[string]*registrylist.List{},
		occurrences: map[string]*markettypes.Occurrence{},
	}
}

// AddActiveAuction registers a under id. Re-adding an id replaces the
// prior reference without error; if the replacement lives under a
// different category the id migrates, so it is listed in at most one
// category at a time.
func (t *Tracker) AddActiveAuction(caller string, id uint64, a *auction.Auction) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if caller != t.owner {
		return markettypes.ErrNotAuthorized
	}

	category := t.categoryFor(a)
	logger := t.logger.Session("add-active-auction", lager.Data{"auction-id": id, "category": category})

	if previous, ok := t.categoryOf[id]; ok && previous != category {
		t.lists[previous].Remove(id)
	}

	t.auctions[id] = a
	t.categoryOf[id] = category

	list, ok := t.lists[category]
	if !ok {
		list = registrylist.New()
		t.lists[category] = list
		t.categoryOrder = append(t.categoryOrder, category)
	}
	if !list.Exists(id) {
		if err := list.Insert(id); err != nil {
			logger.Error("failed-to-index", err)
			return err
		}
	}

	occ, ok := t.occurrences[category]
	if !ok {
		occ = &markettypes.Occurrence{Symbol: category}
		t.occurrences[category] = occ
	}
	occ.LastUpdateTime = t.clock.Now()

	logger.Debug("registered")
	return nil
}

// UpdateOccurrence folds a fresh activity observation into the moving
// average of id's category.
func (t *Tracker) UpdateOccurrence(caller string, id uint64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if caller != t.owner {
		return markettypes.ErrNotAuthorized
	}

	category, ok := t.categoryOf[id]
	if !ok {
		return markettypes.ErrUnknownAuction
	}

	occ := t.occurrences[category]
	occ.PastUsageMovingAverage = staleWeight*occ.PastUsageMovingAverage + freshWeight
	occ.LastUpdateTime = t.clock.Now()
	return nil
}

// RemoveAuction drops id from its category's active list and applies a
// decay step to every tracked category. The auction record itself stays
// in the arena; only the active index forgets it.
func (t *Tracker) RemoveAuction(caller string, id uint64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if caller != t.owner {
		return markettypes.ErrNotAuthorized
	}

	category, ok := t.categoryOf[id]
	if !ok {
		return markettypes.ErrUnknownAuction
	}

	t.lists[category].Remove(id)
	delete(t.categoryOf, id)

	now := t.clock.Now()
	for symbol, occ := range t.occurrences {
		if symbol == category {
			occ.PastUsageMovingAverage *= staleWeight
		} else {
			occ.PastUsageMovingAverage *= removalDecay
		}
		occ.LastUpdateTime = now
	}

	t.logger.Debug("removed-auction", lager.Data{"auction-id": id, "category": category})
	return nil
}

// Auction returns the current reference for id, nil when unknown.
func (t *Tracker) Auction(id uint64) *auction.Auction {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.auctions[id]
}

// AllActiveAuctions lists the active auction ids under symbol in
// ascending order.
func (t *Tracker) AllActiveAuctions(symbol string) []uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	list, ok := t.lists[symbol]
	if !ok {
		return nil
	}
	return list.Values()
}

// RecentActiveAuctions pages through symbol's active ids largest-first,
// surfacing the most recently created auctions without materializing
// the whole list.
func (t *Tracker) RecentActiveAuctions(symbol string, page int) []uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	list, ok := t.lists[symbol]
	if !ok {
		return nil
	}
	return list.Page(page)
}

// AllCategories lists category symbols in first-seen order.
func (t *Tracker) AllCategories() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	out := make([]string, len(t.categoryOrder))
	copy(out, t.categoryOrder)
	return out
}

// TokenOccurrence snapshots every category's popularity record in
// first-seen order.
func (t *Tracker) TokenOccurrence() []markettypes.Occurrence {
	t.lock.Lock()
	defer t.lock.Unlock()

	out := make([]markettypes.Occurrence, 0, len(t.categoryOrder))
	for _, symbol := range t.categoryOrder {
		out = append(out, *t.occurrences[symbol])
	}
	return out
}

// AuctionTransferAddress is who would receive id's item right now:
// the active bidder, else the original owner, else empty for unknown
// ids.
func (t *Tracker) AuctionTransferAddress(id uint64) string {
	t.lock.Lock()
	a, ok := t.auctions[id]
	t.lock.Unlock()

	if !ok {
		return ""
	}
	return a.TransferAddress()
}

// GenerateBid builds a bid record without placing it anywhere.
func (t *Tracker) GenerateBid(bidder string, startTime time.Time, item *markettypes.Item, price uint64) *markettypes.Bid {
	return markettypes.NewBid(bidder, startTime, item, price)
}

func (t *Tracker) categoryFor(a *auction.Auction) string {
	asset, ok := a.Item().PrimaryAsset()
	if !ok {
		return ""
	}
	if symbol := t.symbols.SymbolOf(asset); symbol != "" {
		return symbol
	}
	return asset
}
