package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/owenm/car-deal-finder/internal/models"
	"github.com/owenm/car-deal-finder/internal/rank"
	"github.com/owenm/car-deal-finder/internal/tco"
)

//go:embed params.yaml
var defaultParamsYAML []byte

// Params is the YAML shape of the analysis parameters. It converts into the
// validated forms the tco and rank packages actually consume.
type Params struct {
	Ownership struct {
		HorizonYears        int     `yaml:"horizon_years"`
		AnnualKM            int     `yaml:"annual_km"`
		FuelPricePerLitre   float64 `yaml:"fuel_price_per_litre"`
		InsuranceAnnualBase float64 `yaml:"insurance_annual_base"`
	} `yaml:"ownership"`

	Filters struct {
		MinQIRRate    float64 `yaml:"min_qir_rate"`
		MaxDefectRate float64 `yaml:"max_defect_rate"`
		MinYear       int     `yaml:"min_year"`
		MaxYear       int     `yaml:"max_year"`
		MaxPrice      float64 `yaml:"max_price"`
	} `yaml:"filters"`

	Scoring struct {
		CostWeight           float64  `yaml:"cost_weight"`
		ReliabilityWeight    float64  `yaml:"reliability_weight"`
		PreferredBodyStyles  []string `yaml:"preferred_body_styles"`
		BodyStyleBonusPoints float64  `yaml:"body_style_bonus_points"`
		CostPerKMBest        float64  `yaml:"cost_per_km_best"`
		CostPerKMWorst       float64  `yaml:"cost_per_km_worst"`
	} `yaml:"scoring"`
}

// LoadParams parses the analysis parameters. An empty path uses the embedded
// defaults; a bad file or bad values is a fatal configuration error.
func LoadParams(path string) (*Params, error) {
	raw := defaultParamsYAML
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading params file: %w", err)
		}
	}

	var p Params
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("config: parsing params: %w", err)
	}

	// Validate through the consuming packages so the rules live in one place.
	if err := p.TCOParams().Validate(); err != nil {
		return nil, err
	}
	if err := p.RankConfig().Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Params) TCOParams() tco.Params {
	return tco.Params{
		HorizonYears:        p.Ownership.HorizonYears,
		AnnualKM:            p.Ownership.AnnualKM,
		FuelPricePerLitre:   p.Ownership.FuelPricePerLitre,
		InsuranceAnnualBase: p.Ownership.InsuranceAnnualBase,
	}
}

func (p *Params) RankConfig() rank.Config {
	styles := make([]models.BodyStyle, 0, len(p.Scoring.PreferredBodyStyles))
	for _, s := range p.Scoring.PreferredBodyStyles {
		styles = append(styles, models.BodyStyle(s))
	}
	return rank.Config{
		MinQIRRate:           p.Filters.MinQIRRate,
		MaxDefectRate:        p.Filters.MaxDefectRate,
		MinYear:              p.Filters.MinYear,
		MaxYear:              p.Filters.MaxYear,
		MaxPrice:             p.Filters.MaxPrice,
		CostWeight:           p.Scoring.CostWeight,
		ReliabilityWeight:    p.Scoring.ReliabilityWeight,
		PreferredBodyStyles:  styles,
		BodyStyleBonusPoints: p.Scoring.BodyStyleBonusPoints,
		CostPerKMBest:        p.Scoring.CostPerKMBest,
		CostPerKMWorst:       p.Scoring.CostPerKMWorst,
	}
}
