package export

import (
	"context"

	"github.com/owenm/car-deal-finder/internal/db"
	"github.com/owenm/car-deal-finder/internal/models"
)

// PostgresWriter persists each run's summary and ranked listings through the
// db store.
type PostgresWriter struct {
	ctx   context.Context
	store *db.Store
	close func()
}

func NewPostgresWriter(ctx context.Context, store *db.Store, closeFn func()) *PostgresWriter {
	return &PostgresWriter{ctx: ctx, store: store, close: closeFn}
}

func (p *PostgresWriter) Write(run models.RunSummary, listings []models.ScoredListing) error {
	if err := p.store.SaveRun(p.ctx, run); err != nil {
		return err
	}
	return p.store.SaveListings(p.ctx, run.ID, listings)
}

func (p *PostgresWriter) Close() error {
	if p.close != nil {
		p.close()
	}
	return nil
}
