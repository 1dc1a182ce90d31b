// Package export writes ranked results to their output destinations.
package export

import "github.com/owenm/car-deal-finder/internal/models"

// ResultWriter is the interface any output backend must satisfy.
type ResultWriter interface {
	Write(run models.RunSummary, listings []models.ScoredListing) error
	Close() error
}
