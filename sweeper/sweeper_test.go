package sweeper_test

import (
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"code.cloudfoundry.org/workpool"
	"github.com/tedsuo/ifrit"

	"github.com/orangestand/marketplace/config"
	"github.com/orangestand/marketplace/coordinator"
	"github.com/orangestand/marketplace/memledger"
	"github.com/orangestand/marketplace/sweeper"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const (
	coordGuid = "coordinator-1"
	appOwner  = "marketplace-owner"
	seller    = "seller-1"
)

var _ = Describe("Sweeper", func() {
	var (
		fakeClock *fakeclock.FakeClock
		ledger    *memledger.Ledger
		tickets   *memledger.TicketAsset
		coord     *coordinator.Coordinator
		pool      *workpool.WorkPool
		process   ifrit.Process
	)

	BeforeEach(func() {
		fakeClock = fakeclock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

		ledger = memledger.NewLedger()
		ledger.RegisterAsset("asset-gold", "GLD")
		ledger.RegisterAsset("asset-backing", "BCK")
		ledger.Credit("asset-gold", seller, 1000)
		ledger.Credit("asset-backing", "bidder-1", 1000)

		tickets = memledger.NewTicketAsset("TKT", "deployer")
		coord = coordinator.New(logger, fakeClock, coordGuid, appOwner, ledger, tickets, "ticket-tkt", "asset-backing", config.Default().Ticket)
		Expect(coord.AssumeTicketIssuance("deployer")).To(Succeed())

		var err error
		pool, err = workpool.NewWorkPool(4)
		Expect(err).NotTo(HaveOccurred())

		process = ifrit.Invoke(sweeper.New(logger, fakeClock, 30*time.Second, coord, appOwner, pool))
	})

	AfterEach(func() {
		process.Signal(nil)
		Eventually(process.Wait()).Should(Receive(BeNil()))
		pool.Stop()
	})

	listAndBid := func() uint64 {
		Expect(ledger.Approve(seller, "asset-gold", coordGuid, 10)).To(Succeed())
		id, err := coord.CreateFungibleAuction(appOwner, seller, "asset-gold", 10, 30, 5, 16)
		Expect(err).NotTo(HaveOccurred())

		Expect(tickets.Approve("bidder-1", coordGuid, 1000)).To(Succeed())
		Expect(ledger.Approve("bidder-1", "asset-backing", coordGuid, 100)).To(Succeed())
		Expect(coord.CreateTickets(appOwner, "bidder-1", 100)).To(Succeed())
		Expect(coord.MakeBid(appOwner, id, "bidder-1")).To(Succeed())
		return id
	}

	It("settles an auction once its active bid survives the cycle", func() {
		id := listAndBid()

		fakeClock.WaitForWatcherAndIncrement(31 * time.Minute)

		Eventually(func() bool {
			return coord.Auction(id).IsFinished()
		}).Should(BeTrue())

		Eventually(func() uint64 {
			return ledger.BalanceOf("asset-gold", "bidder-1")
		}).Should(Equal(uint64(10)))
	})

	It("leaves auctions alone while their bid's cycle is still open", func() {
		id := listAndBid()

		fakeClock.WaitForWatcherAndIncrement(29 * time.Minute)

		Consistently(func() bool {
			return coord.Auction(id).IsFinished()
		}).Should(BeFalse())
	})

	It("never settles a bidless auction", func() {
		Expect(ledger.Approve(seller, "asset-gold", coordGuid, 10)).To(Succeed())
		id, err := coord.CreateFungibleAuction(appOwner, seller, "asset-gold", 10, 30, 5, 16)
		Expect(err).NotTo(HaveOccurred())

		fakeClock.WaitForWatcherAndIncrement(24 * time.Hour)

		Consistently(func() bool {
			return coord.Auction(id).IsFinished()
		}).Should(BeFalse())
	})
})
