package ingest

import (
	"testing"

	"github.com/owenm/car-deal-finder/internal/models"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"$9,500", 9500, true},
		{"CA$12,999", 12999, true},
		{"10500", 10500, true},
		{"$8,499.50", 8499.50, true},
		{"Free", 0, true},
		{"call for price", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parsePrice(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parsePrice(%q) = (%.2f, %v); want (%.2f, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseMileage(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"145,000 km", 145000, true},
		{"80000km", 80000, true},
		{"90k km", 90000, true},
		{"120K", 120000, true},
		{"62,000 miles", 99779, true}, // 62000 * 1.60934
		{"150", 150000, true},         // bare small number means thousands
		{"no mileage listed", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseMileage(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parseMileage(%q) = (%d, %v); want (%d, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"2015", 2015, true},
		{" 1999 ", 1999, true},
		{"1979", 0, false}, // below the 1980 floor
		{"2031", 0, false}, // beyond current+1
		{"n/a", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseYear(tt.raw, 2025)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parseYear(%q) = (%d, %v); want (%d, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseTitle(t *testing.T) {
	tests := []struct {
		title     string
		wantYear  int
		wantMake  string
		wantModel string
	}{
		{"2014 Mazda 3 GS", 2014, "Mazda", "3 GS"},
		{"2010 Honda civic", 2010, "Honda", "civic"},
		{"2016 Land Rover Discovery Sport", 2016, "Land Rover", "Discovery Sport"},
		{"Honda Civic", 0, "Honda", "Civic"},
		{"2012 Zastava Koral", 2012, "Zastava", "Koral"},
		{"great winter beater", 0, "", ""},
	}

	for _, tt := range tests {
		year, mk, model := parseTitle(tt.title, 2025)
		if year != tt.wantYear || mk != tt.wantMake || model != tt.wantModel {
			t.Errorf("parseTitle(%q) = (%d, %q, %q); want (%d, %q, %q)",
				tt.title, year, mk, model, tt.wantYear, tt.wantMake, tt.wantModel)
		}
	}
}

func TestCanonicalMakeSynonyms(t *testing.T) {
	tests := []struct {
		raw, want string
	}{
		{"Chevy", "Chevrolet"},
		{"chev", "Chevrolet"},
		{"VW", "Volkswagen"},
		{"mercedes", "Mercedes-Benz"},
		{"TOYOTA", "Toyota"},
		{"Zastava", "Zastava"}, // unknown makes keep title casing
	}

	for _, tt := range tests {
		if got := canonicalMake(tt.raw); got != tt.want {
			t.Errorf("canonicalMake(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseBodyStyle(t *testing.T) {
	tests := []struct {
		raw  string
		want models.BodyStyle
	}{
		{"Sedan", models.BodySedan},
		{"crossover", models.BodySUV},
		{"Pickup", models.BodyTruck},
		{"convertible", models.BodyOther},
		{"", models.BodyOther},
	}

	for _, tt := range tests {
		if got := parseBodyStyle(tt.raw); got != tt.want {
			t.Errorf("parseBodyStyle(%q) = %s; want %s", tt.raw, got, tt.want)
		}
	}
}
