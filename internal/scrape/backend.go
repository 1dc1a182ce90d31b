// Package scrape collects raw listing records from the supported
// marketplaces. Backends only gather fields; all interpretation happens in
// the ingest normalizer.
package scrape

import (
	"context"

	"github.com/owenm/car-deal-finder/internal/ingest"
	"github.com/owenm/car-deal-finder/internal/models"
)

// Backend gathers raw records from one marketplace.
type Backend interface {
	Source() models.Source
	Collect(ctx context.Context) ([]ingest.RawRecord, error)
}

// Options are shared scrape limits applied to every backend.
type Options struct {
	MaxPages int
	DelayMs  int
}
