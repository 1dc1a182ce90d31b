package refdata

import "strings"

// MaxModelEditDistance is the Levenshtein threshold under which two model
// strings are considered the same vehicle. Measured on lower-cased,
// whitespace-stripped keys, so "CR-V" vs "crv" costs 1, not 3.
const MaxModelEditDistance = 2

// modelKey reduces a model string to the form used for fuzzy comparison.
func modelKey(model string) string {
	model = strings.ToLower(model)
	model = strings.ReplaceAll(model, "-", "")
	return strings.Join(strings.Fields(model), "")
}

// levenshtein returns the edit distance between two strings.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// candidate is one reference row considered during a fuzzy lookup.
type candidate struct {
	Model string
	Year  int
}

// bestFuzzyMatch picks the closest candidate for (model, year) among rows of
// the same make: year within ±1 and model edit distance <= the threshold.
// Ties resolve by smaller distance, then smaller year delta, then lexical
// model order so repeated lookups are deterministic.
func bestFuzzyMatch(model string, year int, candidates []candidate) (candidate, bool) {
	want := modelKey(model)

	var best candidate
	bestDist, bestYearDelta := MaxModelEditDistance+1, 2
	found := false

	for _, c := range candidates {
		yearDelta := year - c.Year
		if yearDelta < 0 {
			yearDelta = -yearDelta
		}
		if yearDelta > 1 {
			continue
		}
		dist := levenshtein(want, modelKey(c.Model))
		if dist > MaxModelEditDistance {
			continue
		}

		better := dist < bestDist ||
			(dist == bestDist && yearDelta < bestYearDelta) ||
			(dist == bestDist && yearDelta == bestYearDelta && found && c.Model < best.Model)
		if !found || better {
			best, bestDist, bestYearDelta, found = c, dist, yearDelta, true
		}
	}

	return best, found
}
