package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/owenm/car-deal-finder/internal/config"
	"github.com/owenm/car-deal-finder/internal/db"
	"github.com/owenm/car-deal-finder/internal/export"
	"github.com/owenm/car-deal-finder/internal/ingest"
	"github.com/owenm/car-deal-finder/internal/models"
	"github.com/owenm/car-deal-finder/internal/pipeline"
	"github.com/owenm/car-deal-finder/internal/rank"
	"github.com/owenm/car-deal-finder/internal/refdata"
	"github.com/owenm/car-deal-finder/internal/scrape"
	"github.com/owenm/car-deal-finder/internal/tco"
)

func main() {
	live := flag.Bool("live", false, "scrape the marketplace sites in addition to reading local dumps")
	flag.Parse()

	ctx := context.Background()
	cfg := config.Load()

	params, err := config.LoadParams(cfg.ParamsPath)
	if err != nil {
		log.Fatal(err)
	}
	tables, err := refdata.Load(cfg.ReliabilityPath, cfg.FuelPath)
	if err != nil {
		log.Fatal(err)
	}
	registry, err := ingest.LoadRegistry("")
	if err != nil {
		log.Fatal(err)
	}
	calc, err := tco.NewCalculator(params.TCOParams())
	if err != nil {
		log.Fatal(err)
	}
	engine, err := rank.NewEngine(params.RankConfig())
	if err != nil {
		log.Fatal(err)
	}

	backends := []scrape.Backend{scrape.NewDumpBackend(cfg.DumpDir)}
	if *live {
		opts := scrape.Options{MaxPages: cfg.ScrapeMaxPages, DelayMs: cfg.ScrapeDelayMs}
		for _, source := range []models.Source{models.SourceMarketplaceAutoA, models.SourceMarketplaceAutoB} {
			if site, ok := scrape.SiteFor(source); ok {
				backends = append(backends, scrape.NewSiteBackend(site, opts))
			}
		}
	}

	var records []ingest.RawRecord
	for _, b := range backends {
		collected, err := b.Collect(ctx)
		if err != nil {
			log.Printf("[finder] %s collection failed: %v", b.Source(), err)
			continue
		}
		for _, rec := range collected {
			rec.ScrapeIndex = len(records)
			records = append(records, rec)
		}
	}

	p := pipeline.New(ingest.NewNormalizer(registry), tables, calc, engine)
	ranked, run := p.Run(records)

	writers := []export.ResultWriter{export.NewCSVWriter(cfg.CSVOutputPath)}
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx)
		if err != nil {
			log.Fatal(err)
		}
		if err := db.ApplyMigrations(ctx, pool); err != nil {
			log.Fatal(err)
		}
		writers = append(writers, export.NewPostgresWriter(ctx, db.NewStore(pool), pool.Close))
	}

	for _, w := range writers {
		if err := w.Write(run, ranked); err != nil {
			log.Fatalf("export failed: %v", err)
		}
		if err := w.Close(); err != nil {
			log.Printf("close writer: %v", err)
		}
	}

	export.RenderTopDeals(os.Stdout, ranked, cfg.TopDeals, params.Ownership.HorizonYears)
}
