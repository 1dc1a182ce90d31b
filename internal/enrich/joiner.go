// Package enrich joins normalized listings against the static reference
// tables. Reliability and fuel are independent tables, so a listing may
// match one and not the other.
package enrich

import (
	"github.com/owenm/car-deal-finder/internal/models"
	"github.com/owenm/car-deal-finder/internal/refdata"
)

// Join attaches reference data to one listing. Pure function of the listing
// and the loaded indices; unmatched lookups leave the entries nil.
func Join(listing models.Listing, tables *refdata.Tables) models.EnrichedListing {
	enriched := models.EnrichedListing{Listing: listing}

	enriched.Reliability, enriched.ReliabilityStatus =
		tables.LookupReliability(listing.Make, listing.Model, listing.Year)
	enriched.Fuel, enriched.FuelStatus =
		tables.LookupFuel(listing.Make, listing.Model, listing.Year)

	return enriched
}

// JoinAll enriches a whole batch, preserving order.
func JoinAll(listings []models.Listing, tables *refdata.Tables) []models.EnrichedListing {
	out := make([]models.EnrichedListing, 0, len(listings))
	for _, l := range listings {
		out = append(out, Join(l, tables))
	}
	return out
}
