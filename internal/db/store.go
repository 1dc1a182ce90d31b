package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/owenm/car-deal-finder/internal/models"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// SaveRun records the summary of one pipeline run.
func (s *Store) SaveRun(ctx context.Context, run models.RunSummary) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO process_runs
			(id, started_at, finished_at, scraped, rejected, matched,
			 matched_fuzzy, unmatched, partial_estimates, filtered, ranked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, run.ID, run.StartedAt, run.FinishedAt, run.Scraped, run.Rejected,
		run.Matched, run.MatchedFuzzy, run.Unmatched, run.PartialEstimates,
		run.Filtered, run.Ranked)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

// SaveListings writes the ranked output of one run in a single batch.
func (s *Store) SaveListings(ctx context.Context, runID string, listings []models.ScoredListing) error {
	batch := &pgx.Batch{}
	for _, l := range listings {
		var mileage *int
		if l.MileageKM != models.MileageUnknown {
			m := l.MileageKM
			mileage = &m
		}
		var qir, defect *float64
		if l.Reliability != nil {
			qir, defect = &l.Reliability.QIRRate, &l.Reliability.DefectRate
		}
		var total, costPerKM *float64
		partial := false
		if l.TCO != nil {
			total, costPerKM = &l.TCO.Total, &l.TCO.CostPerKM
			partial = l.TCO.Partial
		}

		batch.Queue(`
			INSERT INTO scored_listings
				(run_id, rank, source, source_id, make, model, year, trim,
				 price, mileage_km, body_style, location, url,
				 reliability_status, fuel_status, qir_rate, defect_rate,
				 tco_total, tco_cost_per_km, tco_partial, value_score, scraped_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
				$14, $15, $16, $17, $18, $19, $20, $21, $22)
			ON CONFLICT (run_id, source, source_id) DO NOTHING
		`, runID, l.Rank, string(l.Source), l.SourceID, l.Make, l.Model, l.Year, l.Trim,
			l.Price, mileage, string(l.BodyStyle), l.Location, l.URL,
			string(l.ReliabilityStatus), string(l.FuelStatus), qir, defect,
			total, costPerKM, partial, l.ValueScore, l.ScrapedAt)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range listings {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save listings for run %s: %w", runID, err)
		}
	}
	return nil
}

// RecentRuns returns the latest run summaries, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]models.RunSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, started_at, finished_at, scraped, rejected, matched,
			matched_fuzzy, unmatched, partial_estimates, filtered, ranked
		FROM process_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var runs []models.RunSummary
	for rows.Next() {
		var r models.RunSummary
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Scraped,
			&r.Rejected, &r.Matched, &r.MatchedFuzzy, &r.Unmatched,
			&r.PartialEstimates, &r.Filtered, &r.Ranked); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
