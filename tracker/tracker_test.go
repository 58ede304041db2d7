package tracker_test

import (
	"time"

	"code.cloudfoundry.org/clock/fakeclock"

	"github.com/orangestand/marketplace/auction"
	"github.com/orangestand/marketplace/markettypes"
	"github.com/orangestand/marketplace/memledger"
	"github.com/orangestand/marketplace/tracker"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const coordinatorGuid = "coordinator-1"

var _ = Describe("Tracker", func() {
	var (
		fakeClock *fakeclock.FakeClock
		ledger    *memledger.Ledger
		trk       *tracker.Tracker
	)

	newAuction := func(id uint64, asset string) *auction.Auction {
		item := markettypes.NewItem()
		item.AddFungible(asset, 10)
		return auction.New(fakeClock, id, item, "seller-1", coordinatorGuid, 30, 16, 5, "ticket-asset")
	}

	BeforeEach(func() {
		fakeClock = fakeclock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
		ledger = memledger.NewLedger()
		ledger.RegisterAsset("asset-gold", "GLD")
		ledger.RegisterAsset("asset-silver", "SLV")
		trk = tracker.New(logger, fakeClock, coordinatorGuid, ledger)
	})

	Describe("authorization", func() {
		It("rejects mutations from anyone but the owning coordinator", func() {
			a := newAuction(1, "asset-gold")
			Expect(trk.AddActiveAuction("interloper", 1, a)).To(MatchError(markettypes.ErrNotAuthorized))
			Expect(trk.UpdateOccurrence("interloper", 1)).To(MatchError(markettypes.ErrNotAuthorized))
			Expect(trk.RemoveAuction("interloper", 1)).To(MatchError(markettypes.ErrNotAuthorized))
			Expect(trk.AllCategories()).To(BeEmpty())
		})
	})

	Describe("AddActiveAuction", func() {
		It("indexes the auction under its item's symbol", func() {
			Expect(trk.AddActiveAuction(coordinatorGuid, 1, newAuction(1, "asset-gold"))).To(Succeed())

			Expect(trk.AllActiveAuctions("GLD")).To(Equal([]uint64{1}))
			Expect(trk.AllCategories()).To(Equal([]string{"GLD"}))
			Expect(trk.Auction(1)).NotTo(BeNil())
		})

		It("replaces the reference without error when re-adding the same id", func() {
			first := newAuction(1, "asset-gold")
			second := newAuction(1, "asset-gold")

			Expect(trk.AddActiveAuction(coordinatorGuid, 1, first)).To(Succeed())
			Expect(trk.AddActiveAuction(coordinatorGuid, 1, second)).To(Succeed())

			Expect(trk.Auction(1)).To(BeIdenticalTo(second))
			Expect(trk.AllActiveAuctions("GLD")).To(Equal([]uint64{1}))
		})

		It("migrates an id that is re-added under a different category", func() {
			Expect(trk.AddActiveAuction(coordinatorGuid, 1, newAuction(1, "asset-gold"))).To(Succeed())
			Expect(trk.AddActiveAuction(coordinatorGuid, 1, newAuction(1, "asset-silver"))).To(Succeed())

			Expect(trk.AllActiveAuctions("GLD")).To(BeEmpty())
			Expect(trk.AllActiveAuctions("SLV")).To(Equal([]uint64{1}))
		})

		It("keeps first-seen category order", func() {
			Expect(trk.AddActiveAuction(coordinatorGuid, 1, newAuction(1, "asset-silver"))).To(Succeed())
			Expect(trk.AddActiveAuction(coordinatorGuid, 2, newAuction(2, "asset-gold"))).To(Succeed())
			Expect(trk.AddActiveAuction(coordinatorGuid, 3, newAuction(3, "asset-silver"))).To(Succeed())

			Expect(trk.AllCategories()).To(Equal([]string{"SLV", "GLD"}))
		})

		It("falls back to the asset id when the ledger has no symbol", func() {
			Expect(trk.AddActiveAuction(coordinatorGuid, 1, newAuction(1, "asset-mystery"))).To(Succeed())
			Expect(trk.AllActiveAuctions("asset-mystery")).To(Equal([]uint64{1}))
		})
	})

	Describe("active auction queries", func() {
		BeforeEach(func() {
			for _, id := range []uint64{4, 1, 3} {
				Expect(trk.AddActiveAuction(coordinatorGuid, id, newAuction(id, "asset-gold"))).To(Succeed())
			}
		})

		It("lists ids in ascending order", func() {
			Expect(trk.AllActiveAuctions("GLD")).To(Equal([]uint64{1, 3, 4}))
		})

		It("pages most-recent ids first", func() {
			Expect(trk.RecentActiveAuctions("GLD", 0)).To(Equal([]uint64{4, 3, 1}))
			Expect(trk.RecentActiveAuctions("GLD", 1)).To(BeEmpty())
		})

		It("returns empty results for unknown symbols", func() {
			Expect(trk.AllActiveAuctions("XYZ")).To(BeEmpty())
			Expect(trk.RecentActiveAuctions("XYZ", 0)).To(BeEmpty())
		})
	})

	Describe("occurrence scoring", func() {
		It("starts a fresh category at zero", func() {
			Expect(trk.AddActiveAuction(coordinatorGuid, 1, newAuction(1, "asset-gold"))).To(Succeed())

			occ := trk.TokenOccurrence()
			Expect(occ).To(HaveLen(1))
			Expect(occ[0].Symbol).To(Equal("GLD"))
			Expect(occ[0].PastUsageMovingAverage).To(BeZero())
			Expect(occ[0].LastUpdateTime).To(Equal(fakeClock.Now()))
		})

		It("rises on each update, weighting fresh activity over the stale average", func() {
			Expect(trk.AddActiveAuction(coordinatorGuid, 1, newAuction(1, "asset-gold"))).To(Succeed())

			Expect(trk.UpdateOccurrence(coordinatorGuid, 1)).To(Succeed())
			first := trk.TokenOccurrence()[0].PastUsageMovingAverage

			Expect(trk.UpdateOccurrence(coordinatorGuid, 1)).To(Succeed())
			second := trk.TokenOccurrence()[0].PastUsageMovingAverage

			Expect(first).To(BeNumerically(">", 0))
			Expect(second).To(BeNumerically(">", first))
			Expect(second).To(BeNumerically("<", 1))
		})

		It("rejects updates for ids that are not actively tracked", func() {
			Expect(trk.UpdateOccurrence(coordinatorGuid, 99)).To(MatchError(markettypes.ErrUnknownAuction))
		})

		It("gives equal averages to two categories with identical activity", func() {
			Expect(trk.AddActiveAuction(coordinatorGuid, 1, newAuction(1, "asset-gold"))).To(Succeed())
			Expect(trk.AddActiveAuction(coordinatorGuid, 2, newAuction(2, "asset-silver"))).To(Succeed())
			Expect(trk.UpdateOccurrence(coordinatorGuid, 1)).To(Succeed())
			Expect(trk.UpdateOccurrence(coordinatorGuid, 2)).To(Succeed())

			occ := trk.TokenOccurrence()
			Expect(occ).To(HaveLen(2))
			Expect(occ[0].PastUsageMovingAverage).To(Equal(occ[1].PastUsageMovingAverage))
		})
	})

	Describe("RemoveAuction", func() {
		BeforeEach(func() {
			Expect(trk.AddActiveAuction(coordinatorGuid, 1, newAuction(1, "asset-gold"))).To(Succeed())
			Expect(trk.AddActiveAuction(coordinatorGuid, 2, newAuction(2, "asset-silver"))).To(Succeed())
			Expect(trk.UpdateOccurrence(coordinatorGuid, 1)).To(Succeed())
			Expect(trk.UpdateOccurrence(coordinatorGuid, 2)).To(Succeed())
		})

		It("drops the id from its category's active list", func() {
			Expect(trk.RemoveAuction(coordinatorGuid, 1)).To(Succeed())
			Expect(trk.AllActiveAuctions("GLD")).To(BeEmpty())
			Expect(trk.AllActiveAuctions("SLV")).To(Equal([]uint64{2}))
		})

		It("keeps the auction reference in the arena", func() {
			Expect(trk.RemoveAuction(coordinatorGuid, 1)).To(Succeed())
			Expect(trk.Auction(1)).NotTo(BeNil())
		})

		It("decays every category, with the removed one landing strictly lowest", func() {
			before := trk.TokenOccurrence()
			Expect(trk.RemoveAuction(coordinatorGuid, 1)).To(Succeed())
			after := trk.TokenOccurrence()

			Expect(after).To(HaveLen(2))
			Expect(after[0].PastUsageMovingAverage).To(BeNumerically("<", before[0].PastUsageMovingAverage))
			Expect(after[1].PastUsageMovingAverage).To(BeNumerically("<", before[1].PastUsageMovingAverage))
			Expect(after[0].PastUsageMovingAverage).To(BeNumerically("<", after[1].PastUsageMovingAverage))
		})

		It("rejects removing an id that is not actively tracked", func() {
			Expect(trk.RemoveAuction(coordinatorGuid, 99)).To(MatchError(markettypes.ErrUnknownAuction))
		})
	})

	Describe("AuctionTransferAddress", func() {
		It("returns the original owner, then the active bidder, and empty for unknown ids", func() {
			a := newAuction(1, "asset-gold")
			Expect(trk.AddActiveAuction(coordinatorGuid, 1, a)).To(Succeed())

			Expect(trk.AuctionTransferAddress(1)).To(Equal("seller-1"))

			_, err := a.PlaceBid(coordinatorGuid, "bidder-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(trk.AuctionTransferAddress(1)).To(Equal("bidder-1"))

			Expect(trk.AuctionTransferAddress(99)).To(BeEmpty())
		})
	})

	Describe("GenerateBid", func() {
		It("builds a bid record without touching tracker state", func() {
			item := markettypes.NewItem()
			item.AddFungible("asset-gold", 1)

			bid := trk.GenerateBid("bidder-1", fakeClock.Now(), item, 21)
			Expect(bid.Bidder()).To(Equal("bidder-1"))
			Expect(bid.Price()).To(Equal(uint64(21)))
			Expect(trk.AllCategories()).To(BeEmpty())
		})
	})
})
