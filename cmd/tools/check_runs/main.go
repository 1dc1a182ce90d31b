package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/owenm/car-deal-finder/internal/db"
)

func main() {
	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	runs, err := db.NewStore(pool).RecentRuns(ctx, 10)
	if err != nil {
		log.Fatal(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Run", "Started", "Duration", "Scraped", "Rejected", "Matched", "Fuzzy", "Unmatched", "Partial", "Filtered", "Ranked"})

	for _, r := range runs {
		duration := r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		t.AppendRow(table.Row{
			r.ID[:8], r.StartedAt.Format("2006-01-02 15:04:05"), duration,
			r.Scraped, r.Rejected, r.Matched, r.MatchedFuzzy, r.Unmatched,
			r.PartialEstimates, r.Filtered, r.Ranked,
		})
	}
	t.Render()
}
