package export

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/owenm/car-deal-finder/internal/models"
)

// RenderTopDeals prints the top-ranked listings as a console table.
// horizonYears labels the TCO column with the ownership window being costed.
func RenderTopDeals(out io.Writer, listings []models.ScoredListing, limit, horizonYears int) {
	if limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	tcoHeader := "TCO"
	if horizonYears > 0 {
		tcoHeader = fmt.Sprintf("TCO (%dy)", horizonYears)
	}
	t.AppendHeader(table.Row{"#", "Vehicle", "Price", "Mileage", tcoHeader, "$/km", "Score", "Reliability", "URL"})

	for _, l := range listings {
		vehicle := fmt.Sprintf("%d %s %s", l.Year, l.Make, l.Model)

		mileage := "?"
		if l.MileageKM != models.MileageUnknown {
			mileage = fmt.Sprintf("%d km", l.MileageKM)
		}

		tcoTotal, costPerKM := "-", "-"
		if l.TCO != nil {
			tcoTotal = fmt.Sprintf("$%.0f", l.TCO.Total)
			if l.TCO.Partial {
				tcoTotal += " (partial)"
			}
			costPerKM = fmt.Sprintf("%.3f", l.TCO.CostPerKM)
		}

		reliability := "unmatched"
		if l.Reliability != nil {
			reliability = fmt.Sprintf("QIR %.0f / def %.1f", l.Reliability.QIRRate, l.Reliability.DefectRate)
			if l.ReliabilityStatus == models.JoinMatchedFuzzy {
				reliability += " ~"
			}
		}

		t.AppendRow(table.Row{
			l.Rank, vehicle, fmt.Sprintf("$%.0f", l.Price), mileage,
			tcoTotal, costPerKM, fmt.Sprintf("%.1f", l.ValueScore), reliability, l.URL,
		})
	}
	t.Render()
}
