package models

import "time"

// Source identifies which marketplace a listing was scraped from.
type Source string

const (
	SourceMarketplaceSocial Source = "marketplace-social" // Facebook Marketplace dumps
	SourceMarketplaceAutoA  Source = "marketplace-auto-a" // AutoTrader
	SourceMarketplaceAutoB  Source = "marketplace-auto-b" // CarGurus
)

// BodyStyle is the canonical body classification for a vehicle.
type BodyStyle string

const (
	BodySedan     BodyStyle = "sedan"
	BodyCoupe     BodyStyle = "coupe"
	BodyHatchback BodyStyle = "hatchback"
	BodySUV       BodyStyle = "suv"
	BodyTruck     BodyStyle = "truck"
	BodyOther     BodyStyle = "other"
)

// JoinStatus records how a listing matched against a reference table.
type JoinStatus string

const (
	JoinMatched      JoinStatus = "matched"
	JoinMatchedFuzzy JoinStatus = "matched-fuzzy"
	JoinUnmatched    JoinStatus = "unmatched"
)

// MileageUnknown is the sentinel for listings where no mileage could be
// determined. A real mileage is always >= 0.
const MileageUnknown = -1

// Listing is one normalized vehicle offer. It is created once by the
// normalizer and treated as read-only by every downstream stage.
type Listing struct {
	Source    Source
	SourceID  string
	Make      string // canonical casing, e.g. "Chevrolet"
	Model     string
	Year      int
	Trim      string
	MileageKM int     // MileageUnknown when absent
	Price     float64 // 0 when absent or free; <= 0 is unusable for TCO
	BodyStyle BodyStyle
	Location  string
	URL       string

	// ScrapeIndex preserves original scrape order across all sources.
	// It is the final ranking tie-break.
	ScrapeIndex int
	ScrapedAt   time.Time
}

// ReliabilityEntry is one row of the static reliability reference table.
type ReliabilityEntry struct {
	Make       string
	Model      string
	Year       int
	QIRRate    float64 // 0-100, higher is better
	DefectRate float64 // 0-100, lower is better
}

// FuelEntry is one row of the static fuel-consumption reference table.
// Rows for different trims of the same make/model/year are averaged at load.
type FuelEntry struct {
	Make              string
	Model             string
	Year              int
	CombinedLPer100KM float64
}

// EnrichedListing is a Listing joined against both reference tables.
// When a status is JoinUnmatched the corresponding entry is nil; reference
// figures are never defaulted to numbers that could bias ranking.
type EnrichedListing struct {
	Listing

	Reliability       *ReliabilityEntry
	ReliabilityStatus JoinStatus
	Fuel              *FuelEntry
	FuelStatus        JoinStatus
}

// TCOEstimate is the ownership-cost breakdown over the configured horizon.
// Components for which the inputs were missing are zero and listed in
// MissingInputs, and the whole estimate is flagged Partial.
type TCOEstimate struct {
	Depreciation float64
	Fuel         float64
	Maintenance  float64
	Insurance    float64
	Total        float64
	CostPerKM    float64

	Partial       bool
	MissingInputs []string
}

// ScoredListing is the terminal entity consumed by the exporter.
type ScoredListing struct {
	EnrichedListing

	TCO        *TCOEstimate // nil when no estimate could be produced at all
	ValueScore float64      // higher is better
	Rank       int          // 1-based, assigned after the final sort
}

// Complete reports whether the listing carries a full (non-partial) TCO
// estimate. Completeness is the primary ranking key.
func (s ScoredListing) Complete() bool {
	return s.TCO != nil && !s.TCO.Partial
}
