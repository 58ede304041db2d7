package visualization

import (
	"fmt"
	"strings"
	"time"

	"github.com/GaryBoone/GoStats/stats"

	"github.com/orangestand/marketplace/markettypes"
)

type Stat struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Total  float64
}

func NewStat(data []float64) Stat {
	if len(data) == 0 {
		return Stat{}
	}
	return Stat{
		Min:    stats.StatsMin(data),
		Max:    stats.StatsMax(data),
		Mean:   stats.StatsMean(data),
		StdDev: stats.StatsPopulationStandardDeviation(data),
		Total:  stats.StatsSum(data),
	}
}

// AuctionOutcome is one settled listing's worth of simulation data.
type AuctionOutcome struct {
	ID         uint64
	Category   string
	Winner     string
	SellerKept bool
	FinalPrice uint64
	NumBids    int
}

// Report aggregates a simulation run for inspection and rendering.
type Report struct {
	Outcomes    []AuctionOutcome
	Occurrences []markettypes.Occurrence
	RunDuration time.Duration
}

func NewReport(outcomes []AuctionOutcome, occurrences []markettypes.Occurrence, runDuration time.Duration) *Report {
	return &Report{
		Outcomes:    outcomes,
		Occurrences: occurrences,
		RunDuration: runDuration,
	}
}

func (r *Report) PriceStats() Stat {
	prices := []float64{}
	for _, outcome := range r.Outcomes {
		if !outcome.SellerKept {
			prices = append(prices, float64(outcome.FinalPrice))
		}
	}
	return NewStat(prices)
}

func (r *Report) BidStats() Stat {
	bids := make([]float64, 0, len(r.Outcomes))
	for _, outcome := range r.Outcomes {
		bids = append(bids, float64(outcome.NumBids))
	}
	return NewStat(bids)
}

func (r *Report) AuctionsWon() int {
	won := 0
	for _, outcome := range r.Outcomes {
		if !outcome.SellerKept {
			won++
		}
	}
	return won
}

func (r *Report) OutcomesByCategory() map[string][]AuctionOutcome {
	byCategory := map[string][]AuctionOutcome{}
	for _, outcome := range r.Outcomes {
		byCategory[outcome.Category] = append(byCategory[outcome.Category], outcome)
	}
	return byCategory
}

func (r *Report) String() string {
	out := &strings.Builder{}

	fmt.Fprintf(out, "%d auctions settled in %s (%d won, %d returned to sellers)\n",
		len(r.Outcomes), r.RunDuration, r.AuctionsWon(), len(r.Outcomes)-r.AuctionsWon())

	priceStats := r.PriceStats()
	fmt.Fprintf(out, "  winning price: mean %.1f (min %.0f, max %.0f, stddev %.1f)\n",
		priceStats.Mean, priceStats.Min, priceStats.Max, priceStats.StdDev)

	bidStats := r.BidStats()
	fmt.Fprintf(out, "  bids/auction:  mean %.1f (total %.0f)\n", bidStats.Mean, bidStats.Total)

	for _, occ := range r.Occurrences {
		fmt.Fprintf(out, "  category %-8s popularity %.3f\n", occ.Symbol, occ.PastUsageMovingAverage)
	}

	return out.String()
}
