package ingest

import (
	"time"

	"github.com/owenm/car-deal-finder/internal/models"
)

// RawRecord is one untrusted listing as a scraping backend produced it:
// a loose string-keyed mapping plus the source it came from. Backends make
// no guarantee about which fields are present or how they are named.
type RawRecord struct {
	Source models.Source
	Fields map[string]string

	// ScrapeIndex is assigned in arrival order across the whole batch.
	ScrapeIndex int
	ScrapedAt   time.Time
}

// Field returns a trimmed field value, or "" when absent.
func (r RawRecord) Field(name string) string {
	return trimField(r.Fields[name])
}

// RejectReason classifies why a raw record could not be normalized.
// Rejections are expected, recoverable outcomes of noisy scraped input;
// they are counted and logged, never raised as errors.
type RejectReason string

const (
	RejectUnknownSource RejectReason = "unknown-source"
	RejectMissingMake   RejectReason = "missing-make"
	RejectMissingModel  RejectReason = "missing-model"
	RejectMissingYear   RejectReason = "missing-year"
	RejectBadPrice      RejectReason = "bad-price"
	RejectJunkListing   RejectReason = "junk-listing"
)

// Rejection pairs a skipped record with the reason it was skipped, so skip
// causes stay attributable for debugging.
type Rejection struct {
	Record RawRecord
	Reason RejectReason
}
