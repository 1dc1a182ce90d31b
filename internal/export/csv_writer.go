package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/owenm/car-deal-finder/internal/models"
)

// staleAfter is how long a previously exported row survives without being
// seen again before the merge drops it.
const staleAfter = 7 * 24 * time.Hour

var csvHeader = []string{
	"rank", "make", "model", "year", "trim",
	"price", "mileage_km",
	"tco_total", "cost_per_km", "tco_status", "value_score",
	"qir_rate", "defect_rate", "reliability_status", "fuel_status",
	"source", "url",
	"body_style", "location", "scraped_at",
}

const (
	colRank      = 0
	colURL       = 16
	colScrapedAt = 19
)

// CSVWriter merges each run's ranked results into a CSV file. Rows from
// earlier runs are kept when their listing did not reappear, keyed by URL,
// until they go stale.
type CSVWriter struct {
	path string
	now  func() time.Time
}

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path, now: time.Now}
}

func formatRow(l models.ScoredListing) []string {
	mileage := ""
	if l.MileageKM != models.MileageUnknown {
		mileage = strconv.Itoa(l.MileageKM)
	}

	total, costPerKM, tcoStatus := "", "", ""
	if l.TCO != nil {
		total = strconv.FormatFloat(l.TCO.Total, 'f', 2, 64)
		costPerKM = strconv.FormatFloat(l.TCO.CostPerKM, 'f', 4, 64)
		tcoStatus = "complete"
		if l.TCO.Partial {
			tcoStatus = "partial"
		}
	}

	qir, defect := "", ""
	if l.Reliability != nil {
		qir = strconv.FormatFloat(l.Reliability.QIRRate, 'f', 1, 64)
		defect = strconv.FormatFloat(l.Reliability.DefectRate, 'f', 1, 64)
	}

	return []string{
		strconv.Itoa(l.Rank),
		l.Make,
		l.Model,
		strconv.Itoa(l.Year),
		l.Trim,
		strconv.FormatFloat(l.Price, 'f', 2, 64),
		mileage,
		total,
		costPerKM,
		tcoStatus,
		strconv.FormatFloat(l.ValueScore, 'f', 2, 64),
		qir,
		defect,
		string(l.ReliabilityStatus),
		string(l.FuelStatus),
		string(l.Source),
		l.URL,
		string(l.BodyStyle),
		l.Location,
		l.ScrapedAt.Format(time.RFC3339),
	}
}

// Write merges the new results over the existing file. New rows win on URL
// collisions; surviving old rows keep their relative order after the new
// ones, and every row is renumbered so rank stays sequential.
func (c *CSVWriter) Write(run models.RunSummary, listings []models.ScoredListing) error {
	kept, err := c.surviving(listings)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}
	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", c.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	rank := 0
	for _, l := range listings {
		rank++
		row := formatRow(l)
		row[colRank] = strconv.Itoa(rank)
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	for _, row := range kept {
		rank++
		row[colRank] = strconv.Itoa(rank)
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// surviving reads the previous export and returns the rows to carry forward:
// listings not in the new result set and last seen within the stale window.
func (c *CSVWriter) surviving(fresh []models.ScoredListing) ([][]string, error) {
	f, err := os.Open(c.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: open previous export: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read previous export: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	freshURLs := make(map[string]bool, len(fresh))
	for _, l := range fresh {
		if l.URL != "" {
			freshURLs[l.URL] = true
		}
	}

	cutoff := c.now().Add(-staleAfter)
	var kept [][]string
	for _, row := range records[1:] {
		if len(row) != len(csvHeader) {
			continue
		}
		url := row[colURL]
		if url == "" || freshURLs[url] {
			continue
		}
		seen, err := time.Parse(time.RFC3339, row[colScrapedAt])
		if err != nil || seen.Before(cutoff) {
			continue
		}
		kept = append(kept, row)
	}
	return kept, nil
}

func (c *CSVWriter) Close() error { return nil }
