package ingest

import "strings"

// cleanText collapses runs of whitespace into single spaces and trims.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func trimField(s string) string {
	return strings.TrimSpace(s)
}

// junkKeywords mark listings that are not actually a car for sale: part-outs,
// wrecks and wanted ads.
var junkKeywords = []string{
	"for parts", "parts only", "part out", "parting out",
	"salvage", "scrap", "wrecked", "engine only",
	"wanted", "looking for", "wtb",
}

func isJunkListing(title string) bool {
	t := strings.ToLower(title)
	for _, kw := range junkKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}
