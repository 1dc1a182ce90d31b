// Package pipeline runs the full listing flow: normalize, enrich, estimate,
// rank, summarize.
package pipeline

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/owenm/car-deal-finder/internal/enrich"
	"github.com/owenm/car-deal-finder/internal/ingest"
	"github.com/owenm/car-deal-finder/internal/models"
	"github.com/owenm/car-deal-finder/internal/rank"
	"github.com/owenm/car-deal-finder/internal/refdata"
	"github.com/owenm/car-deal-finder/internal/tco"
)

type Pipeline struct {
	normalizer *ingest.Normalizer
	tables     *refdata.Tables
	calc       *tco.Calculator
	engine     *rank.Engine

	now func() time.Time
}

func New(normalizer *ingest.Normalizer, tables *refdata.Tables, calc *tco.Calculator, engine *rank.Engine) *Pipeline {
	return &Pipeline{
		normalizer: normalizer,
		tables:     tables,
		calc:       calc,
		engine:     engine,
		now:        time.Now,
	}
}

// Run processes one scrape batch end to end and returns the ranked listings
// with the run summary. The same input always produces the same output.
func (p *Pipeline) Run(records []ingest.RawRecord) ([]models.ScoredListing, models.RunSummary) {
	run := models.RunSummary{
		ID:        uuid.NewString(),
		StartedAt: p.now(),
		Scraped:   len(records),
	}

	listings, rejections := p.normalizer.NormalizeBatch(records)
	run.Rejected = len(rejections)

	enriched := enrich.JoinAll(listings, p.tables)
	candidates := make([]models.ScoredListing, 0, len(enriched))
	for _, e := range enriched {
		switch joinOutcome(e) {
		case models.JoinMatched:
			run.Matched++
		case models.JoinMatchedFuzzy:
			run.MatchedFuzzy++
		default:
			run.Unmatched++
		}

		estimate := p.calc.Estimate(e)
		if estimate != nil && estimate.Partial {
			run.PartialEstimates++
		}
		candidates = append(candidates, models.ScoredListing{
			EnrichedListing: e,
			TCO:             estimate,
		})
	}

	result := p.engine.Rank(candidates)
	run.Filtered = len(result.Excluded)
	run.Ranked = len(result.Ranked)
	run.FinishedAt = p.now()

	log.Printf("[pipeline] run %s: %d scraped, %d rejected, %d ranked, %d filtered",
		run.ID, run.Scraped, run.Rejected, run.Ranked, run.Filtered)
	return result.Ranked, run
}

// joinOutcome collapses the two join statuses into one bucket for the run
// summary. Any unmatched table dominates, then any fuzzy match.
func joinOutcome(e models.EnrichedListing) models.JoinStatus {
	if e.ReliabilityStatus == models.JoinUnmatched || e.FuelStatus == models.JoinUnmatched {
		return models.JoinUnmatched
	}
	if e.ReliabilityStatus == models.JoinMatchedFuzzy || e.FuelStatus == models.JoinMatchedFuzzy {
		return models.JoinMatchedFuzzy
	}
	return models.JoinMatched
}
