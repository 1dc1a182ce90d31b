package models

import "time"

// RunSummary records what one pipeline run did at each stage. The counts are
// cumulative down the funnel: Scraped >= Rejected + everything that reached
// enrichment.
type RunSummary struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time

	Scraped          int
	Rejected         int
	Matched          int
	MatchedFuzzy     int
	Unmatched        int
	PartialEstimates int
	Filtered         int
	Ranked           int
}
