package ingest

import (
	"testing"
	"time"

	"github.com/owenm/car-deal-finder/internal/models"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	reg, err := LoadRegistry("")
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	n := NewNormalizer(reg)
	n.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return n
}

func record(source models.Source, fields map[string]string) RawRecord {
	return RawRecord{Source: source, Fields: fields, ScrapedAt: time.Now()}
}

func TestNormalizeFullRecord(t *testing.T) {
	n := newTestNormalizer(t)

	listing, rej := n.Normalize(record(models.SourceMarketplaceAutoA, map[string]string{
		"make":      "chevy",
		"model":     "Cruze",
		"year":      "2016",
		"trim":      "LT",
		"price":     "$11,499",
		"kilometres": "88,000 km",
		"body_type": "Sedan",
		"dealer_city": "Ottawa, ON",
		"vdp_url":   "https://example.com/a/123",
		"ad_id":     "123",
	}))
	if rej != nil {
		t.Fatalf("unexpected rejection: %s", rej.Reason)
	}

	if listing.Make != "Chevrolet" {
		t.Errorf("Make = %q; want Chevrolet (synonym table)", listing.Make)
	}
	if listing.Model != "Cruze" || listing.Year != 2016 || listing.Trim != "LT" {
		t.Errorf("identity = %q %d %q", listing.Model, listing.Year, listing.Trim)
	}
	if listing.Price != 11499 {
		t.Errorf("Price = %.2f; want 11499", listing.Price)
	}
	if listing.MileageKM != 88000 {
		t.Errorf("MileageKM = %d; want 88000", listing.MileageKM)
	}
	if listing.BodyStyle != models.BodySedan {
		t.Errorf("BodyStyle = %s; want sedan", listing.BodyStyle)
	}
	if listing.SourceID != "123" {
		t.Errorf("SourceID = %q; want 123", listing.SourceID)
	}
}

func TestNormalizeFieldPriority(t *testing.T) {
	n := newTestNormalizer(t)

	// "price" is absent; the next candidate "alt_price" must win for the
	// social marketplace mapping.
	listing, rej := n.Normalize(record(models.SourceMarketplaceSocial, map[string]string{
		"title":     "2014 Mazda 3 GS",
		"alt_price": "CA$8,999",
		"mileage":   "120k km",
		"url":       "https://example.com/m/1",
	}))
	if rej != nil {
		t.Fatalf("unexpected rejection: %s", rej.Reason)
	}
	if listing.Price != 8999 {
		t.Errorf("Price = %.2f; want 8999 via alt_price", listing.Price)
	}
	if listing.MileageKM != 120000 {
		t.Errorf("MileageKM = %d; want 120000", listing.MileageKM)
	}
}

func TestNormalizeTitleFallback(t *testing.T) {
	n := newTestNormalizer(t)

	listing, rej := n.Normalize(record(models.SourceMarketplaceSocial, map[string]string{
		"title": "2010 Honda civic",
		"price": "$6,000",
		"url":   "https://example.com/m/2",
	}))
	if rej != nil {
		t.Fatalf("unexpected rejection: %s", rej.Reason)
	}
	if listing.Make != "Honda" || listing.Model != "civic" || listing.Year != 2010 {
		t.Errorf("identity = %q %q %d; want Honda civic 2010", listing.Make, listing.Model, listing.Year)
	}
}

func TestNormalizeRejectsMissingIdentity(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name   string
		fields map[string]string
		want   RejectReason
	}{
		{
			name:   "no make or model anywhere",
			fields: map[string]string{"title": "runs great, must sell", "price": "$3,000"},
			want:   RejectMissingMake,
		},
		{
			name:   "year absent",
			fields: map[string]string{"make": "Honda", "model": "Civic", "price": "$6,000"},
			want:   RejectMissingYear,
		},
		{
			name:   "year out of range",
			fields: map[string]string{"make": "Honda", "model": "Civic", "year": "1903"},
			want:   RejectMissingYear,
		},
		{
			name:   "unparsable price",
			fields: map[string]string{"make": "Honda", "model": "Civic", "year": "2015", "price": "best offer"},
			want:   RejectBadPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rej := n.Normalize(record(models.SourceMarketplaceSocial, tt.fields))
			if rej == nil {
				t.Fatal("expected rejection, got listing")
			}
			if rej.Reason != tt.want {
				t.Errorf("Reason = %s; want %s", rej.Reason, tt.want)
			}
		})
	}
}

func TestNormalizeUnknownSourceRejected(t *testing.T) {
	n := newTestNormalizer(t)

	_, rej := n.Normalize(record(models.Source("marketplace-mystery"), map[string]string{
		"make": "Honda", "model": "Civic", "year": "2015",
	}))
	if rej == nil || rej.Reason != RejectUnknownSource {
		t.Fatalf("rejection = %v; want unknown-source", rej)
	}
}

func TestNormalizeSynthesizesIDFromURL(t *testing.T) {
	n := newTestNormalizer(t)

	fields := map[string]string{
		"make": "Honda", "model": "Civic", "year": "2015",
		"url": "https://example.com/m/77",
	}

	first, rej := n.Normalize(record(models.SourceMarketplaceSocial, fields))
	if rej != nil {
		t.Fatalf("unexpected rejection: %s", rej.Reason)
	}
	if first.SourceID == "" {
		t.Fatal("SourceID not synthesized")
	}

	second, _ := n.Normalize(record(models.SourceMarketplaceSocial, fields))
	if first.SourceID != second.SourceID {
		t.Errorf("synthesized IDs differ for same URL: %q vs %q", first.SourceID, second.SourceID)
	}
}

func TestNormalizeMissingMileageUsesSentinel(t *testing.T) {
	n := newTestNormalizer(t)

	listing, rej := n.Normalize(record(models.SourceMarketplaceSocial, map[string]string{
		"make": "Honda", "model": "Civic", "year": "2015", "price": "$7,500",
	}))
	if rej != nil {
		t.Fatalf("unexpected rejection: %s", rej.Reason)
	}
	if listing.MileageKM != models.MileageUnknown {
		t.Errorf("MileageKM = %d; want sentinel %d", listing.MileageKM, models.MileageUnknown)
	}
}

func TestNormalizeBatchCountsRejections(t *testing.T) {
	n := newTestNormalizer(t)

	records := []RawRecord{
		record(models.SourceMarketplaceSocial, map[string]string{
			"title": "2015 Honda Civic", "price": "$9,000", "url": "https://example.com/1",
		}),
		record(models.SourceMarketplaceSocial, map[string]string{
			"title": "free scrap removal",
		}),
	}

	listings, rejections := n.NormalizeBatch(records)
	if len(listings) != 1 || len(rejections) != 1 {
		t.Errorf("batch = %d listings, %d rejections; want 1 and 1", len(listings), len(rejections))
	}
}

func TestNormalizeRejectsJunkListings(t *testing.T) {
	n := newTestNormalizer(t)

	junk := []string{
		"2012 Honda Civic for parts",
		"Parting out 2008 Mazda 3",
		"WANTED: looking for Toyota Corolla",
		"2010 Ford Focus salvage title",
	}
	for _, title := range junk {
		_, rej := n.Normalize(record(models.SourceMarketplaceSocial, map[string]string{
			"title": title, "price": "$500",
		}))
		if rej == nil || rej.Reason != RejectJunkListing {
			t.Errorf("%q: rejection = %v; want junk-listing", title, rej)
		}
	}

	// A clean title with the same shape passes.
	_, rej := n.Normalize(record(models.SourceMarketplaceSocial, map[string]string{
		"title": "2012 Honda Civic LX", "price": "$8,500",
	}))
	if rej != nil {
		t.Errorf("clean title rejected: %s", rej.Reason)
	}
}
