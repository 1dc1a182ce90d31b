package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/owenm/car-deal-finder/internal/models"
)

// DataIntegrityError reports a duplicate key inside a single reference table.
// Reference data is assumed curated; the loader refuses to pick a winner.
type DataIntegrityError struct {
	Table string
	Make  string
	Model string
	Year  int
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("refdata: duplicate key in %s table: %s %s %d", e.Table, e.Make, e.Model, e.Year)
}

// key indexes both tables by normalized make, model and year.
type key struct {
	Make  string
	Model string
	Year  int
}

func makeKey(make, model string, year int) key {
	return key{
		Make:  strings.ToLower(strings.TrimSpace(make)),
		Model: modelKey(model),
		Year:  year,
	}
}

// Tables is the in-memory index over both reference tables. Built once at
// startup and safe for concurrent reads afterwards.
type Tables struct {
	reliability map[key]models.ReliabilityEntry
	fuel        map[key]models.FuelEntry

	// per-make candidate lists for the fuzzy fallback
	reliabilityByMake map[string][]candidate
	fuelByMake        map[string][]candidate
}

// Load reads both reference CSV files. Either file missing or malformed is a
// fatal startup error: the engine cannot rank without reference data.
func Load(reliabilityPath, fuelPath string) (*Tables, error) {
	rf, err := os.Open(reliabilityPath)
	if err != nil {
		return nil, fmt.Errorf("refdata: open reliability table: %w", err)
	}
	defer rf.Close()

	ff, err := os.Open(fuelPath)
	if err != nil {
		return nil, fmt.Errorf("refdata: open fuel table: %w", err)
	}
	defer ff.Close()

	return LoadFromReaders(rf, ff)
}

// LoadFromReaders builds the index from already-open CSV streams.
func LoadFromReaders(reliability, fuel io.Reader) (*Tables, error) {
	t := &Tables{
		reliability:       make(map[key]models.ReliabilityEntry),
		fuel:              make(map[key]models.FuelEntry),
		reliabilityByMake: make(map[string][]candidate),
		fuelByMake:        make(map[string][]candidate),
	}

	if err := t.loadReliability(reliability); err != nil {
		return nil, err
	}
	if err := t.loadFuel(fuel); err != nil {
		return nil, err
	}

	log.Printf("[refdata] Loaded %d reliability and %d fuel reference entries", len(t.reliability), len(t.fuel))
	return t, nil
}

func (t *Tables) loadReliability(r io.Reader) error {
	rows, header, err := readTable(r, "reliability")
	if err != nil {
		return err
	}

	makeIdx, err := columnIndex(header, "make")
	if err != nil {
		return err
	}
	modelIdx, err := columnIndex(header, "model")
	if err != nil {
		return err
	}
	yearIdx, err := columnIndex(header, "year", "model year")
	if err != nil {
		return err
	}
	qirIdx, err := columnIndex(header, "qirrate", "qir rate")
	if err != nil {
		return err
	}
	defectIdx, err := columnIndex(header, "defectrate", "defect rate")
	if err != nil {
		return err
	}

	for i, row := range rows {
		if len(row) <= maxIndex(makeIdx, modelIdx, yearIdx, qirIdx, defectIdx) {
			return fmt.Errorf("refdata: reliability row %d: too few columns", i+2)
		}
		year, err := strconv.Atoi(strings.TrimSpace(row[yearIdx]))
		if err != nil {
			return fmt.Errorf("refdata: reliability row %d: bad year %q", i+2, row[yearIdx])
		}
		qir, err := strconv.ParseFloat(strings.TrimSpace(row[qirIdx]), 64)
		if err != nil {
			return fmt.Errorf("refdata: reliability row %d: bad QIRRate %q", i+2, row[qirIdx])
		}
		defect, err := strconv.ParseFloat(strings.TrimSpace(row[defectIdx]), 64)
		if err != nil {
			return fmt.Errorf("refdata: reliability row %d: bad DefectRate %q", i+2, row[defectIdx])
		}

		entry := models.ReliabilityEntry{
			Make:       strings.TrimSpace(row[makeIdx]),
			Model:      strings.TrimSpace(row[modelIdx]),
			Year:       year,
			QIRRate:    qir,
			DefectRate: defect,
		}
		k := makeKey(entry.Make, entry.Model, entry.Year)
		if _, dup := t.reliability[k]; dup {
			return &DataIntegrityError{Table: "reliability", Make: entry.Make, Model: entry.Model, Year: entry.Year}
		}
		t.reliability[k] = entry
		t.reliabilityByMake[k.Make] = append(t.reliabilityByMake[k.Make], candidate{Model: entry.Model, Year: entry.Year})
	}

	return nil
}

// loadFuel tolerates multiple rows per make/model/year: the table is keyed
// down to trim level, so ratings for different trims are averaged. An exact
// duplicate including trim is still a data-integrity failure.
func (t *Tables) loadFuel(r io.Reader) error {
	rows, header, err := readTable(r, "fuel")
	if err != nil {
		return err
	}

	makeIdx, err := columnIndex(header, "make")
	if err != nil {
		return err
	}
	modelIdx, err := columnIndex(header, "model")
	if err != nil {
		return err
	}
	yearIdx, err := columnIndex(header, "year", "model year")
	if err != nil {
		return err
	}
	combIdx, err := columnIndex(header, "combined_l_100km", "combined (l/100 km)")
	if err != nil {
		return err
	}
	trimIdx, _ := columnIndex(header, "trim") // optional column

	type trimKey struct {
		key
		Trim string
	}
	seenTrims := make(map[trimKey]bool)
	sums := make(map[key]float64)
	counts := make(map[key]int)
	entries := make(map[key]models.FuelEntry)

	for i, row := range rows {
		if len(row) <= maxIndex(makeIdx, modelIdx, yearIdx, combIdx, trimIdx) {
			return fmt.Errorf("refdata: fuel row %d: too few columns", i+2)
		}
		year, err := strconv.Atoi(strings.TrimSpace(row[yearIdx]))
		if err != nil {
			return fmt.Errorf("refdata: fuel row %d: bad year %q", i+2, row[yearIdx])
		}
		combined, err := strconv.ParseFloat(strings.TrimSpace(row[combIdx]), 64)
		if err != nil || combined <= 0 {
			return fmt.Errorf("refdata: fuel row %d: bad consumption %q", i+2, row[combIdx])
		}

		entry := models.FuelEntry{
			Make:              strings.TrimSpace(row[makeIdx]),
			Model:             strings.TrimSpace(row[modelIdx]),
			Year:              year,
			CombinedLPer100KM: combined,
		}
		k := makeKey(entry.Make, entry.Model, entry.Year)

		trim := ""
		if trimIdx >= 0 {
			trim = strings.ToLower(strings.TrimSpace(row[trimIdx]))
		}
		tk := trimKey{key: k, Trim: trim}
		if seenTrims[tk] {
			return &DataIntegrityError{Table: "fuel", Make: entry.Make, Model: entry.Model, Year: entry.Year}
		}
		seenTrims[tk] = true

		if counts[k] == 0 {
			entries[k] = entry
			t.fuelByMake[k.Make] = append(t.fuelByMake[k.Make], candidate{Model: entry.Model, Year: entry.Year})
		}
		sums[k] += combined
		counts[k]++
	}

	for k, entry := range entries {
		entry.CombinedLPer100KM = sums[k] / float64(counts[k])
		t.fuel[k] = entry
	}

	return nil
}

// LookupReliability resolves a reliability entry for (make, model, year):
// exact match first, then the year ±1 / edit-distance fuzzy fallback.
func (t *Tables) LookupReliability(make, model string, year int) (*models.ReliabilityEntry, models.JoinStatus) {
	k := makeKey(make, model, year)
	if entry, ok := t.reliability[k]; ok {
		e := entry
		return &e, models.JoinMatched
	}

	if best, ok := bestFuzzyMatch(model, year, t.reliabilityByMake[k.Make]); ok {
		entry := t.reliability[makeKey(make, best.Model, best.Year)]
		return &entry, models.JoinMatchedFuzzy
	}

	return nil, models.JoinUnmatched
}

// LookupFuel resolves a fuel-consumption entry, with the same fallback rules.
func (t *Tables) LookupFuel(make, model string, year int) (*models.FuelEntry, models.JoinStatus) {
	k := makeKey(make, model, year)
	if entry, ok := t.fuel[k]; ok {
		e := entry
		return &e, models.JoinMatched
	}

	if best, ok := bestFuzzyMatch(model, year, t.fuelByMake[k.Make]); ok {
		entry := t.fuel[makeKey(make, best.Model, best.Year)]
		return &entry, models.JoinMatchedFuzzy
	}

	return nil, models.JoinUnmatched
}

func readTable(r io.Reader, name string) ([][]string, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("refdata: read %s table: %w", name, err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("refdata: %s table has no data rows", name)
	}
	return records[1:], records[0], nil
}

func maxIndex(indices ...int) int {
	max := 0
	for _, i := range indices {
		if i > max {
			max = i
		}
	}
	return max
}

// columnIndex finds a header column by any of its accepted names
// (case-insensitive). Returns -1 and an error when none is present.
func columnIndex(header []string, names ...string) (int, error) {
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		for _, name := range names {
			if col == name {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("refdata: missing column %q", names[0])
}
