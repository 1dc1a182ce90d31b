package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/owenm/car-deal-finder/internal/models"
)

const milesToKM = 1.60934

var (
	yearRegexp    = regexp.MustCompile(`\b(19[89]\d|20\d{2})\b`)
	numberRegexp  = regexp.MustCompile(`\d+(?:\.\d+)?`)
	mileageRegexp = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(k?)\s*(km|kms|kilometers|kilometres|mi|miles)?\b`)
)

// knownMakes maps lower-cased make spellings (including marketplace slang)
// to canonical casing. Multi-word makes are matched before single words.
var knownMakes = map[string]string{
	"acura": "Acura", "alfa romeo": "Alfa Romeo", "audi": "Audi",
	"bmw": "BMW", "buick": "Buick", "cadillac": "Cadillac",
	"chevrolet": "Chevrolet", "chevy": "Chevrolet", "chev": "Chevrolet",
	"chrysler": "Chrysler", "dodge": "Dodge", "fiat": "Fiat",
	"ford": "Ford", "genesis": "Genesis", "gmc": "GMC",
	"honda": "Honda", "hyundai": "Hyundai", "infiniti": "Infiniti",
	"jaguar": "Jaguar", "jeep": "Jeep", "kia": "Kia",
	"land rover": "Land Rover", "landrover": "Land Rover",
	"lexus": "Lexus", "lincoln": "Lincoln", "mazda": "Mazda",
	"mercedes": "Mercedes-Benz", "mercedes-benz": "Mercedes-Benz", "mercedes benz": "Mercedes-Benz",
	"mini": "MINI", "mitsubishi": "Mitsubishi", "nissan": "Nissan",
	"pontiac": "Pontiac", "porsche": "Porsche", "ram": "Ram",
	"saab": "Saab", "saturn": "Saturn", "scion": "Scion",
	"subaru": "Subaru", "suzuki": "Suzuki", "tesla": "Tesla",
	"toyota": "Toyota", "volkswagen": "Volkswagen", "vw": "Volkswagen",
	"volvo": "Volvo",
}

var bodyStyleSynonyms = map[string]models.BodyStyle{
	"sedan": models.BodySedan, "saloon": models.BodySedan,
	"coupe": models.BodyCoupe, "coupé": models.BodyCoupe,
	"hatchback": models.BodyHatchback, "hatch": models.BodyHatchback, "wagon": models.BodyHatchback,
	"suv": models.BodySUV, "crossover": models.BodySUV, "cuv": models.BodySUV,
	"truck": models.BodyTruck, "pickup": models.BodyTruck, "pickup truck": models.BodyTruck,
}

// parsePrice extracts a currency amount from free text: strips symbols,
// currency codes and thousands separators. "free" parses as 0. Returns
// false when no amount can be found.
func parsePrice(raw string) (float64, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return 0, false
	}
	if strings.Contains(raw, "free") {
		return 0, true
	}

	cleaned := strings.ReplaceAll(raw, ",", "")
	match := numberRegexp.FindString(cleaned)
	if match == "" {
		return 0, false
	}

	val, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// parseMileage extracts a distance in kilometers. Handles "145,000 km",
// "90k km", "62,000 miles" (converted at 1.60934) and bare numbers; small
// bare values like "150" are read as thousands, matching marketplace habit.
func parseMileage(raw string) (int, bool) {
	raw = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(raw, ",", "")))
	if raw == "" {
		return 0, false
	}

	m := mileageRegexp.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}

	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if m[2] == "k" {
		val *= 1000
	} else if m[3] == "" || m[3] == "km" || m[3] == "kms" {
		// Bare or km-suffixed small figures are shorthand for thousands.
		if val < 500 {
			val *= 1000
		}
	}

	switch m[3] {
	case "mi", "miles":
		if val < 500 {
			val *= 1000
		}
		val *= milesToKM
	}

	if val < 0 {
		return 0, false
	}
	return int(val), true
}

// parseYear accepts a model year within the plausible listing range
// 1980..current+1.
func parseYear(raw string, currentYear int) (int, bool) {
	raw = strings.TrimSpace(raw)
	year, err := strconv.Atoi(raw)
	if err != nil {
		m := yearRegexp.FindString(raw)
		if m == "" {
			return 0, false
		}
		year, _ = strconv.Atoi(m)
	}
	if year < 1980 || year > currentYear+1 {
		return 0, false
	}
	return year, true
}

// parseTitle extracts (year, make, model) from a free-text listing title
// like "2014 Mazda 3 GS low kms". The make is matched against the known
// makes table, two-word makes first; the remainder becomes the model.
func parseTitle(title string, currentYear int) (year int, make, model string) {
	title = cleanText(title)
	if title == "" {
		return 0, "", ""
	}

	if m := yearRegexp.FindString(title); m != "" {
		if y, ok := parseYear(m, currentYear); ok {
			year = y
			title = cleanText(strings.Replace(title, m, "", 1))
		}
	}

	parts := strings.Fields(title)
	if len(parts) == 0 {
		return year, "", ""
	}

	lower := lowerAll(parts)
	if len(parts) >= 2 {
		if canonical, ok := knownMakes[lower[0]+" "+lower[1]]; ok {
			return year, canonical, strings.Join(parts[2:], " ")
		}
	}
	if canonical, ok := knownMakes[lower[0]]; ok {
		return year, canonical, strings.Join(parts[1:], " ")
	}

	// Unknown first word: only trust it as a make when a year anchored the
	// title; otherwise the text is too free-form to split reliably.
	if year != 0 && len(parts) >= 2 {
		return year, strings.Title(lower[0]), strings.Join(parts[1:], " ")
	}
	return year, "", ""
}

func lowerAll(parts []string) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.ToLower(p)
	}
	return out
}

// canonicalMake maps any recognized spelling to canonical casing; unknown
// makes are title-cased as-is so they can still join by exact string.
func canonicalMake(raw string) string {
	raw = cleanText(raw)
	if raw == "" {
		return ""
	}
	if canonical, ok := knownMakes[strings.ToLower(raw)]; ok {
		return canonical
	}
	return strings.Title(strings.ToLower(raw))
}

// canonicalModel trims and collapses whitespace; matching case-folds later,
// so the original casing is preserved for output.
func canonicalModel(raw string) string {
	return cleanText(raw)
}

// parseBodyStyle maps free-text body descriptions onto the canonical enum;
// anything unrecognized is BodyOther.
func parseBodyStyle(raw string) models.BodyStyle {
	raw = strings.ToLower(cleanText(raw))
	if style, ok := bodyStyleSynonyms[raw]; ok {
		return style
	}
	return models.BodyOther
}
