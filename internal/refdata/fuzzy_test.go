package refdata

import "testing"

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"civic", "civic", 0},
		{"civc", "civic", 1},
		{"corolla", "corola", 1},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"crv", "cr-v", 1},
	}

	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d; want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestModelKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"CR-V", "crv"},
		{"Grand Caravan", "grandcaravan"},
		{"  Civic ", "civic"},
		{"MAZDA3", "mazda3"},
	}

	for _, tt := range tests {
		if got := modelKey(tt.in); got != tt.want {
			t.Errorf("modelKey(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestBestFuzzyMatch(t *testing.T) {
	candidates := []candidate{
		{Model: "Civic", Year: 2015},
		{Model: "CR-V", Year: 2015},
		{Model: "Accord", Year: 2016},
	}

	tests := []struct {
		name      string
		model     string
		year      int
		wantModel string
		wantOK    bool
	}{
		{"typo within distance", "Civc", 2015, "Civic", true},
		{"year off by one", "Civic", 2016, "Civic", true},
		{"year off by two", "Civic", 2017, "", false},
		{"distance too far", "Odyssey", 2015, "", false},
		{"exact candidate preferred over close one", "CR-V", 2015, "CR-V", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := bestFuzzyMatch(tt.model, tt.year, candidates)
			if ok != tt.wantOK {
				t.Fatalf("bestFuzzyMatch(%q, %d) ok = %v; want %v", tt.model, tt.year, ok, tt.wantOK)
			}
			if ok && got.Model != tt.wantModel {
				t.Errorf("bestFuzzyMatch(%q, %d) = %q; want %q", tt.model, tt.year, got.Model, tt.wantModel)
			}
		})
	}
}

func TestBestFuzzyMatchDeterministic(t *testing.T) {
	candidates := []candidate{
		{Model: "Fit", Year: 2015},
		{Model: "Fix", Year: 2015},
	}

	first, ok := bestFuzzyMatch("Fiv", 2015, candidates)
	if !ok {
		t.Fatal("expected a match")
	}
	for i := 0; i < 20; i++ {
		got, ok := bestFuzzyMatch("Fiv", 2015, candidates)
		if !ok || got != first {
			t.Fatalf("lookup %d returned %+v; first returned %+v", i, got, first)
		}
	}
}
