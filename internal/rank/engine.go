// Package rank applies hard exclusion filters, scores the survivors and
// orders them into a final ranked list.
package rank

import (
	"fmt"
	"sort"

	"github.com/owenm/car-deal-finder/internal/models"
)

// ExclusionReason identifies which hard filter removed a listing.
type ExclusionReason string

const (
	ExcludeNoEstimate     ExclusionReason = "no-estimate"
	ExcludeLowReliability ExclusionReason = "low-reliability"
	ExcludeHighDefectRate ExclusionReason = "high-defect-rate"
	ExcludeYearOutOfRange ExclusionReason = "year-out-of-range"
	ExcludeOverMaxPrice   ExclusionReason = "over-max-price"
)

// Exclusion records a filtered-out listing and the first filter that hit it.
type Exclusion struct {
	Listing models.ScoredListing
	Reason  ExclusionReason
}

// Config holds the filter thresholds and scoring weights. Reliability filters
// only apply when the listing actually joined against the reliability table:
// an unmatched listing is kept (and ranked below complete ones), not silently
// dropped for data it never had.
type Config struct {
	MinQIRRate    float64
	MaxDefectRate float64
	MinYear       int
	MaxYear       int
	MaxPrice      float64 // 0 disables the price ceiling

	CostWeight        float64
	ReliabilityWeight float64

	// PreferredBodyStyles earn a flat bonus on top of the weighted score.
	PreferredBodyStyles  []models.BodyStyle
	BodyStyleBonusPoints float64

	// CostPerKMBest and CostPerKMWorst bound the cost-score normalization:
	// at or below Best scores 100, at or above Worst scores 0.
	CostPerKMBest  float64
	CostPerKMWorst float64
}

func (c Config) Validate() error {
	if c.MinYear <= 0 || c.MaxYear < c.MinYear {
		return fmt.Errorf("rank: invalid year range %d..%d", c.MinYear, c.MaxYear)
	}
	if c.CostWeight < 0 || c.ReliabilityWeight < 0 {
		return fmt.Errorf("rank: weights must be non-negative")
	}
	if c.CostWeight+c.ReliabilityWeight <= 0 {
		return fmt.Errorf("rank: at least one score weight must be positive")
	}
	if c.CostPerKMWorst <= c.CostPerKMBest {
		return fmt.Errorf("rank: cost-per-km bounds inverted: best %.2f, worst %.2f",
			c.CostPerKMBest, c.CostPerKMWorst)
	}
	return nil
}

// Result is the outcome of one ranking pass.
type Result struct {
	Ranked   []models.ScoredListing
	Excluded []Exclusion
}

type Engine struct {
	cfg       Config
	preferred map[models.BodyStyle]bool
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	preferred := make(map[models.BodyStyle]bool, len(cfg.PreferredBodyStyles))
	for _, s := range cfg.PreferredBodyStyles {
		preferred[s] = true
	}
	return &Engine{cfg: cfg, preferred: preferred}, nil
}

// exclude returns the first hard filter that removes the listing, or "".
func (e *Engine) exclude(l models.ScoredListing) ExclusionReason {
	if l.TCO == nil {
		return ExcludeNoEstimate
	}
	if l.Year < e.cfg.MinYear || l.Year > e.cfg.MaxYear {
		return ExcludeYearOutOfRange
	}
	if e.cfg.MaxPrice > 0 && l.Price > e.cfg.MaxPrice {
		return ExcludeOverMaxPrice
	}
	if l.Reliability != nil {
		if l.Reliability.QIRRate < e.cfg.MinQIRRate {
			return ExcludeLowReliability
		}
		if l.Reliability.DefectRate > e.cfg.MaxDefectRate {
			return ExcludeHighDefectRate
		}
	}
	return ""
}

// score computes the weighted value score for a surviving listing.
func (e *Engine) score(l models.ScoredListing) float64 {
	span := e.cfg.CostPerKMWorst - e.cfg.CostPerKMBest
	frac := (l.TCO.CostPerKM - e.cfg.CostPerKMBest) / span
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	costScore := 100 * (1 - frac)

	relScore := 0.0
	if l.Reliability != nil {
		relScore = l.Reliability.QIRRate
	}

	score := e.cfg.CostWeight*costScore + e.cfg.ReliabilityWeight*relScore
	if e.preferred[l.BodyStyle] {
		score += e.cfg.BodyStyleBonusPoints
	}
	return score
}

// Rank filters, scores and orders the candidates. Ordering is deterministic:
// complete estimates always precede partial ones, then score descending,
// then price ascending, then original scrape index. Running Rank twice over
// the same input yields the same order.
func (e *Engine) Rank(candidates []models.ScoredListing) Result {
	var res Result
	for _, l := range candidates {
		if reason := e.exclude(l); reason != "" {
			res.Excluded = append(res.Excluded, Exclusion{Listing: l, Reason: reason})
			continue
		}
		l.ValueScore = e.score(l)
		res.Ranked = append(res.Ranked, l)
	}

	sort.SliceStable(res.Ranked, func(i, j int) bool {
		a, b := res.Ranked[i], res.Ranked[j]
		if a.Complete() != b.Complete() {
			return a.Complete()
		}
		if a.ValueScore != b.ValueScore {
			return a.ValueScore > b.ValueScore
		}
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return a.ScrapeIndex < b.ScrapeIndex
	})

	for i := range res.Ranked {
		res.Ranked[i].Rank = i + 1
	}
	return res
}
