// Command process_dump runs the normalizer over one marketplace dump and
// reports what would be accepted or rejected, without ranking or exporting.
// Useful when debugging a new dump format.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/owenm/car-deal-finder/internal/ingest"
	"github.com/owenm/car-deal-finder/internal/scrape"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("usage: process_dump <dump.csv>")
	}
	path := flag.Arg(0)

	registry, err := ingest.LoadRegistry("")
	if err != nil {
		log.Fatal(err)
	}

	backend := scrape.NewDumpBackendFile(path)
	records, err := backend.Collect(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	listings, rejections := ingest.NewNormalizer(registry).NormalizeBatch(records)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Make", "Model", "Year", "Price", "Mileage", "Body"})
	for _, l := range listings {
		t.AppendRow(table.Row{l.Make, l.Model, l.Year, l.Price, l.MileageKM, l.BodyStyle})
	}
	t.Render()

	reasons := map[ingest.RejectReason]int{}
	for _, r := range rejections {
		reasons[r.Reason]++
	}
	log.Printf("%d accepted, %d rejected", len(listings), len(rejections))
	for reason, count := range reasons {
		log.Printf("  %s: %d", reason, count)
	}
}
