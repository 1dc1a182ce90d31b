package scrape

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/owenm/car-deal-finder/internal/models"
)

const resultPageHTML = `
<html><body>
<div class="result-item">
  <a class="inner-link" href="/a/vehicles/123"></a>
  <span class="title-with-trim">2016 Chevrolet Cruze LT</span>
  <span class="price-amount">$11,499</span>
  <span class="odometer-proximity">88,000 km</span>
  <span class="proximity-text">Ottawa, ON</span>
</div>
<div class="result-item">
  <a class="inner-link" href="https://www.autotrader.ca/a/vehicles/456"></a>
  <span class="title-with-trim">2014 Honda Civic</span>
  <span class="price-amount">$9,200</span>
</div>
<div class="result-item">
  <span class="price-amount">$1</span>
</div>
</body></html>`

func TestParseCards(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resultPageHTML))
	if err != nil {
		t.Fatal(err)
	}
	cfg, ok := SiteFor(models.SourceMarketplaceAutoA)
	if !ok {
		t.Fatal("no built-in config for auto-a")
	}

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	records := parseCards(doc, cfg, "https://www.autotrader.ca/cars/on/ottawa/", 10, now)

	// The titleless card is dropped at parse time.
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.Source != models.SourceMarketplaceAutoA {
		t.Errorf("source = %s", first.Source)
	}
	if got := first.Field("title"); got != "2016 Chevrolet Cruze LT" {
		t.Errorf("title = %q", got)
	}
	if got := first.Field("price"); got != "$11,499" {
		t.Errorf("price = %q", got)
	}
	if got := first.Field("mileage"); got != "88,000 km" {
		t.Errorf("mileage = %q", got)
	}
	if got := first.Field("url"); got != "https://www.autotrader.ca/a/vehicles/123" {
		t.Errorf("relative url not resolved: %q", got)
	}
	if first.ScrapeIndex != 10 || records[1].ScrapeIndex != 11 {
		t.Errorf("scrape indices = %d, %d; want 10, 11", first.ScrapeIndex, records[1].ScrapeIndex)
	}

	if got := records[1].Field("url"); got != "https://www.autotrader.ca/a/vehicles/456" {
		t.Errorf("absolute url changed: %q", got)
	}
	if records[1].Field("mileage") != "" {
		t.Errorf("missing mileage should stay empty, got %q", records[1].Field("mileage"))
	}
}

func TestSiteForUnknownSource(t *testing.T) {
	if _, ok := SiteFor(models.SourceMarketplaceSocial); ok {
		t.Fatal("social marketplace must not have a site scraper")
	}
}
