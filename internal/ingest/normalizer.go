package ingest

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/owenm/car-deal-finder/internal/models"
)

// Normalizer reconciles source-specific raw records into canonical Listings.
// It is stateless apart from its registry and safe for concurrent use.
type Normalizer struct {
	registry *Registry

	// now is injectable so the year bound is stable under test.
	now func() time.Time
}

func NewNormalizer(registry *Registry) *Normalizer {
	return &Normalizer{registry: registry, now: time.Now}
}

// Normalize converts one raw record into a Listing. A nil Rejection means
// success; otherwise the record is skipped for the returned reason. A
// rejected record never yields a partially-populated Listing.
func (n *Normalizer) Normalize(rec RawRecord) (models.Listing, *Rejection) {
	cfg := n.registry.Lookup(string(rec.Source))
	if cfg == nil {
		return models.Listing{}, &Rejection{Record: rec, Reason: RejectUnknownSource}
	}

	if isJunkListing(rec.Field("title")) {
		return models.Listing{}, &Rejection{Record: rec, Reason: RejectJunkListing}
	}

	resolve := func(canonical string) string {
		for _, name := range cfg.Fields[canonical] {
			if v := rec.Field(name); v != "" {
				return v
			}
		}
		// Sources may omit a mapping for fields they emit canonically.
		return rec.Field(canonical)
	}

	currentYear := n.now().Year()

	vehicleMake := canonicalMake(resolve("make"))
	model := canonicalModel(resolve("model"))
	year, yearOK := parseYear(resolve("year"), currentYear)

	// Fall back to the free-text title when structured fields are missing.
	if vehicleMake == "" || model == "" || !yearOK {
		titleYear, titleMake, titleModel := parseTitle(resolve("title"), currentYear)
		if vehicleMake == "" {
			vehicleMake = canonicalMake(titleMake)
		}
		if model == "" {
			model = canonicalModel(titleModel)
		}
		if !yearOK && titleYear != 0 {
			year, yearOK = titleYear, true
		}
	}

	if vehicleMake == "" {
		return models.Listing{}, &Rejection{Record: rec, Reason: RejectMissingMake}
	}
	if model == "" {
		return models.Listing{}, &Rejection{Record: rec, Reason: RejectMissingModel}
	}
	if !yearOK {
		return models.Listing{}, &Rejection{Record: rec, Reason: RejectMissingYear}
	}

	price := 0.0
	if raw := resolve("price"); raw != "" {
		parsed, ok := parsePrice(raw)
		if !ok {
			return models.Listing{}, &Rejection{Record: rec, Reason: RejectBadPrice}
		}
		price = parsed
	}

	mileage := models.MileageUnknown
	if raw := resolve("mileage"); raw != "" {
		if parsed, ok := parseMileage(raw); ok {
			mileage = parsed
		}
	}

	url := resolve("url")
	sourceID := resolve("id")
	if sourceID == "" {
		sourceID = synthesizeID(url, rec)
	}

	listing := models.Listing{
		Source:      rec.Source,
		SourceID:    sourceID,
		Make:        vehicleMake,
		Model:       model,
		Year:        year,
		Trim:        cleanText(resolve("trim")),
		MileageKM:   mileage,
		Price:       price,
		BodyStyle:   parseBodyStyle(resolve("body_style")),
		Location:    cleanText(resolve("location")),
		URL:         url,
		ScrapeIndex: rec.ScrapeIndex,
		ScrapedAt:   rec.ScrapedAt,
	}
	return listing, nil
}

// NormalizeBatch runs Normalize over a whole scrape batch, logging and
// collecting rejections instead of aborting.
func (n *Normalizer) NormalizeBatch(records []RawRecord) ([]models.Listing, []Rejection) {
	listings := make([]models.Listing, 0, len(records))
	var rejections []Rejection

	for _, rec := range records {
		listing, rej := n.Normalize(rec)
		if rej != nil {
			log.Printf("[normalize] Skipping record from %s (%s): %q",
				rec.Source, rej.Reason, rec.Field("title"))
			rejections = append(rejections, *rej)
			continue
		}
		listings = append(listings, listing)
	}

	return listings, rejections
}

// synthesizeID derives a stable listing ID for records whose source supplied
// none: a short hash of the URL, or of the record's identity fields when the
// URL itself is missing.
func synthesizeID(url string, rec RawRecord) string {
	basis := url
	if basis == "" {
		basis = fmt.Sprintf("%s|%s|%s|%d",
			rec.Source, rec.Field("title"), rec.Field("price"), rec.ScrapeIndex)
	}
	sum := sha1.Sum([]byte(basis))
	return hex.EncodeToString(sum[:])[:12]
}
