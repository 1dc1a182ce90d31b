package scrape

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/owenm/car-deal-finder/internal/ingest"
	"github.com/owenm/car-deal-finder/internal/models"
)

// DumpBackend reads previously exported marketplace dumps from a directory.
// The social marketplace cannot be scraped directly, so its listings arrive
// as CSV files whose header row names the raw fields.
type DumpBackend struct {
	dir     string
	pattern string
	source  models.Source
	now     func() time.Time
}

func NewDumpBackend(dir string) *DumpBackend {
	return &DumpBackend{
		dir:     dir,
		pattern: "facebook-*.csv",
		source:  models.SourceMarketplaceSocial,
		now:     time.Now,
	}
}

// NewDumpBackendFile reads a single dump file instead of a whole directory.
func NewDumpBackendFile(path string) *DumpBackend {
	b := NewDumpBackend(filepath.Dir(path))
	b.pattern = filepath.Base(path)
	return b
}

func (b *DumpBackend) Source() models.Source {
	return b.source
}

// Collect reads every matching dump file in lexical order, so re-running
// over the same directory yields the same scrape indices.
func (b *DumpBackend) Collect(ctx context.Context) ([]ingest.RawRecord, error) {
	paths, err := filepath.Glob(filepath.Join(b.dir, b.pattern))
	if err != nil {
		return nil, fmt.Errorf("dump: bad pattern: %w", err)
	}
	sort.Strings(paths)

	var records []ingest.RawRecord
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		fileRecords, err := b.readDump(path, len(records))
		if err != nil {
			return nil, err
		}
		log.Printf("[scrape] %s: %d rows from %s", b.source, len(fileRecords), filepath.Base(path))
		records = append(records, fileRecords...)
	}
	return records, nil
}

func (b *DumpBackend) readDump(path string, baseIndex int) ([]ingest.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dump: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dump: read %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	records := make([]ingest.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) && name != "" {
				fields[name] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, ingest.RawRecord{
			Source:      b.source,
			Fields:      fields,
			ScrapeIndex: baseIndex + len(records),
			ScrapedAt:   b.now(),
		})
	}
	return records, nil
}
