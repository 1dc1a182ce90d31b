package scrape

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/owenm/car-deal-finder/internal/ingest"
	"github.com/owenm/car-deal-finder/internal/models"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// SiteBackend scrapes a selector-driven marketplace site with Colly,
// following pagination up to Options.MaxPages.
type SiteBackend struct {
	cfg  SiteConfig
	opts Options
	now  func() time.Time
}

func NewSiteBackend(cfg SiteConfig, opts Options) *SiteBackend {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 1
	}
	return &SiteBackend{cfg: cfg, opts: opts, now: time.Now}
}

func (b *SiteBackend) Source() models.Source {
	return b.cfg.Source
}

func (b *SiteBackend) collector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(defaultUserAgent),
		colly.AllowedDomains(b.cfg.AllowedDomain),
		colly.DetectCharset(),
		colly.AllowURLRevisit(),
	)
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       time.Duration(b.opts.DelayMs) * time.Millisecond,
	})
	c.SetRequestTimeout(30 * time.Second)
	return c
}

// Collect visits the result pages and extracts one raw record per card.
func (b *SiteBackend) Collect(ctx context.Context) ([]ingest.RawRecord, error) {
	c := b.collector()

	var (
		records   []ingest.RawRecord
		pages     int
		scrapeErr error
	)

	c.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			scrapeErr = fmt.Errorf("parse %s: %w", r.Request.URL, err)
			return
		}

		pageRecords := parseCards(doc, b.cfg, r.Request.URL.String(), len(records), b.now())
		records = append(records, pageRecords...)
		pages++
		log.Printf("[scrape] %s page %d: %d cards", b.cfg.Source, pages, len(pageRecords))

		if ctx.Err() != nil || pages >= b.opts.MaxPages {
			return
		}
		next := doc.Find(b.cfg.Selectors.NextPage).AttrOr("href", "")
		if next == "" {
			return
		}
		if err := r.Request.Visit(next); err != nil {
			log.Printf("[scrape] %s pagination stopped: %v", b.cfg.Source, err)
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		scrapeErr = fmt.Errorf("fetch %s: %w", r.Request.URL, err)
	})

	if err := c.Visit(b.cfg.StartURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", b.cfg.StartURL, err)
	}
	c.Wait()

	if scrapeErr != nil && len(records) == 0 {
		return nil, scrapeErr
	}
	if err := ctx.Err(); err != nil {
		return records, err
	}
	return records, nil
}
