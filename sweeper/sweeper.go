package sweeper

import (
	"os"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager/v3"
	"code.cloudfoundry.org/workpool"

	"github.com/orangestand/marketplace/coordinator"
)

// Sweeper periodically settles auctions whose active bid has survived
// its cycle. The engine never finishes an auction on its own; the
// sweeper is the caller that notices lapsed bids and triggers
// settlement, fanning the settle calls out over a work pool.
type Sweeper struct {
	logger      lager.Logger
	clock       clock.Clock
	interval    time.Duration
	coordinator *coordinator.Coordinator
	caller      string
	pool        *workpool.WorkPool
}

func New(
	logger lager.Logger,
	clock clock.Clock,
	interval time.Duration,
	coordinator *coordinator.Coordinator,
	caller string,
	pool *workpool.WorkPool,
) *Sweeper {
	return &Sweeper{
		logger:      logger.Session("settlement-sweeper"),
		clock:       clock,
		interval:    interval,
		coordinator: coordinator,
		caller:      caller,
		pool:        pool,
	}
}

func (s *Sweeper) Run(signals <-chan os.Signal, ready chan<- struct{}) error {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	close(ready)
	s.logger.Info("started", lager.Data{"interval": s.interval.String()})

	for {
		select {
		case <-ticker.C():
			s.sweep()
		case <-signals:
			s.logger.Info("stopped")
			return nil
		}
	}
}

func (s *Sweeper) sweep() {
	logger := s.logger.Session("sweep")

	settled := 0
	wg := &sync.WaitGroup{}
	for _, id := range s.coordinator.ActiveAuctionIDs() {
		a := s.coordinator.Auction(id)
		if a == nil || !a.HasLapsedBid() {
			continue
		}

		id := id
		settled++
		wg.Add(1)
		s.pool.Submit(func() {
			defer wg.Done()
			if err := s.coordinator.SettleAuction(s.caller, id); err != nil {
				logger.Error("failed-to-settle", err, lager.Data{"auction-id": id})
			}
		})
	}
	wg.Wait()

	if settled > 0 {
		logger.Info("settled-lapsed-auctions", lager.Data{"count": settled})
	}
}
