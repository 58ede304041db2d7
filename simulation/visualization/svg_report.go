package visualization

import (
	"fmt"
	"io"
	"sort"

	svg "github.com/ajstarks/svgo"
)

const (
	svgWidth     = 800
	barHeight    = 28
	barGap       = 12
	svgMargin    = 120
	labelPadding = 8
)

// SaveSVGReport renders a horizontal bar chart of bids per category,
// annotated with each category's popularity score.
func SaveSVGReport(w io.Writer, report *Report) {
	byCategory := report.OutcomesByCategory()

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	popularity := map[string]float64{}
	for _, occ := range report.Occurrences {
		popularity[occ.Symbol] = occ.PastUsageMovingAverage
	}

	maxBids := 1
	for _, outcomes := range byCategory {
		total := 0
		for _, outcome := range outcomes {
			total += outcome.NumBids
		}
		if total > maxBids {
			maxBids = total
		}
	}

	height := svgMargin + len(categories)*(barHeight+barGap)
	canvas := svg.New(w)
	canvas.Start(svgWidth, height)
	canvas.Title("Marketplace activity by category")
	canvas.Text(svgMargin, barHeight, fmt.Sprintf("%d auctions, %d won", len(report.Outcomes), report.AuctionsWon()),
		"font-family:Helvetica;font-size:16px")

	y := svgMargin
	for _, category := range categories {
		total := 0
		for _, outcome := range byCategory[category] {
			total += outcome.NumBids
		}

		width := (svgWidth - 2*svgMargin) * total / maxBids
		canvas.Text(svgMargin-labelPadding, y+barHeight/2, category,
			"font-family:Helvetica;font-size:12px;text-anchor:end;dominant-baseline:middle")
		canvas.Rect(svgMargin, y, width, barHeight, "fill:rgb(120,120,200)")
		canvas.Text(svgMargin+width+labelPadding, y+barHeight/2,
			fmt.Sprintf("%d bids, popularity %.3f", total, popularity[category]),
			"font-family:Helvetica;font-size:12px;dominant-baseline:middle")

		y += barHeight + barGap
	}

	canvas.End()
}
