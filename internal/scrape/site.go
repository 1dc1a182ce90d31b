package scrape

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/owenm/car-deal-finder/internal/ingest"
	"github.com/owenm/car-deal-finder/internal/models"
)

// Selectors locates the listing fields inside one result card.
type Selectors struct {
	Card     string
	Title    string
	Price    string
	Mileage  string
	Location string
	Link     string
	LinkAttr string // defaults to href
	NextPage string
}

// SiteConfig describes one selector-driven marketplace site.
type SiteConfig struct {
	Source        models.Source
	StartURL      string
	AllowedDomain string
	Selectors     Selectors
}

// builtinSites are the marketplace sites the scraper knows out of the box.
var builtinSites = map[models.Source]SiteConfig{
	models.SourceMarketplaceAutoA: {
		Source:        models.SourceMarketplaceAutoA,
		StartURL:      "https://www.autotrader.ca/cars/on/ottawa/",
		AllowedDomain: "www.autotrader.ca",
		Selectors: Selectors{
			Card:     "div.result-item",
			Title:    "span.title-with-trim",
			Price:    "span.price-amount",
			Mileage:  "span.odometer-proximity",
			Location: "span.proximity-text",
			Link:     "a.inner-link",
			NextPage: "a.last-page-link",
		},
	},
	models.SourceMarketplaceAutoB: {
		Source:        models.SourceMarketplaceAutoB,
		StartURL:      "https://www.cargurus.ca/Cars/l-Used-Ottawa",
		AllowedDomain: "www.cargurus.ca",
		Selectors: Selectors{
			Card:     "div[data-testid=srp-tile]",
			Title:    "h4",
			Price:    "h4 + span",
			Mileage:  "p[data-testid=srp-tile-mileage]",
			Location: "div[data-testid=srp-tile-distance]",
			Link:     "a[data-testid=car-blade-link]",
			NextPage: "button[aria-label='Next page']",
		},
	},
}

// SiteFor returns the built-in config for a source, if one exists.
func SiteFor(source models.Source) (SiteConfig, bool) {
	cfg, ok := builtinSites[source]
	return cfg, ok
}

// parseCards extracts one raw record per result card from a parsed page.
// baseIndex keeps scrape order monotonic across pages.
func parseCards(doc *goquery.Document, cfg SiteConfig, baseURL string, baseIndex int, now time.Time) []ingest.RawRecord {
	sel := cfg.Selectors
	linkAttr := sel.LinkAttr
	if linkAttr == "" {
		linkAttr = "href"
	}

	var records []ingest.RawRecord
	doc.Find(sel.Card).Each(func(i int, card *goquery.Selection) {
		fields := map[string]string{
			"title": strings.TrimSpace(card.Find(sel.Title).Text()),
		}
		if sel.Price != "" {
			fields["price"] = strings.TrimSpace(card.Find(sel.Price).Text())
		}
		if sel.Mileage != "" {
			fields["mileage"] = strings.TrimSpace(card.Find(sel.Mileage).Text())
		}
		if sel.Location != "" {
			fields["location"] = strings.TrimSpace(card.Find(sel.Location).Text())
		}
		if sel.Link != "" {
			if link := strings.TrimSpace(card.Find(sel.Link).AttrOr(linkAttr, "")); link != "" {
				fields["url"] = absoluteURL(baseURL, link)
			}
		}

		if fields["title"] == "" {
			return
		}
		records = append(records, ingest.RawRecord{
			Source:      cfg.Source,
			Fields:      fields,
			ScrapeIndex: baseIndex + len(records),
			ScrapedAt:   now,
		})
	})
	return records
}

func absoluteURL(base, link string) string {
	if strings.HasPrefix(link, "http") {
		return link
	}
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(link, "/") {
		// Scheme-relative or odd fragments are left alone.
		return link
	}
	// Keep only scheme://host from the base.
	if idx := strings.Index(base, "://"); idx >= 0 {
		if slash := strings.Index(base[idx+3:], "/"); slash >= 0 {
			base = base[:idx+3+slash]
		}
	}
	return base + link
}
