// Package tco estimates total cost of ownership over a fixed horizon from
// purchase price, depreciation, fuel, maintenance and insurance proxies.
package tco

import (
	"fmt"
	"time"

	"github.com/owenm/car-deal-finder/internal/models"
)

// Params are the explicit ownership assumptions behind every estimate.
// They are configuration, never inlined literals.
type Params struct {
	HorizonYears        int     // ownership period, e.g. 5
	AnnualKM            int     // assumed distance driven per year
	FuelPricePerLitre   float64 // currency units per litre
	InsuranceAnnualBase float64 // flat annual insurance proxy before body-style scaling
}

// Validate enforces the fatal-configuration rule: the engine refuses to
// compute rather than emit zero-cost estimates from broken parameters.
func (p Params) Validate() error {
	if p.HorizonYears <= 0 {
		return fmt.Errorf("tco: horizon years must be positive, got %d", p.HorizonYears)
	}
	if p.AnnualKM <= 0 {
		return fmt.Errorf("tco: annual km must be positive, got %d", p.AnnualKM)
	}
	if p.FuelPricePerLitre <= 0 {
		return fmt.Errorf("tco: fuel price must be positive, got %.2f", p.FuelPricePerLitre)
	}
	if p.InsuranceAnnualBase <= 0 {
		return fmt.Errorf("tco: insurance base must be positive, got %.2f", p.InsuranceAnnualBase)
	}
	return nil
}

// baseMaintenancePerKM anchors the maintenance component before the
// defect-rate multiplier is applied.
const baseMaintenancePerKM = 0.08

// annualDepreciationRate is the per-year depreciation by vehicle age at
// purchase. Newer vehicles lose value fastest.
func annualDepreciationRate(ageYears int) float64 {
	switch {
	case ageYears < 3:
		return 0.15
	case ageYears < 6:
		return 0.12
	default:
		return 0.09
	}
}

// bodyStyleDepreciationFactor adjusts the age-bracket rate per body style.
// Trucks hold value; coupes depreciate a little faster.
var bodyStyleDepreciationFactor = map[models.BodyStyle]float64{
	models.BodySedan:     1.0,
	models.BodyCoupe:     1.05,
	models.BodyHatchback: 0.95,
	models.BodySUV:       1.0,
	models.BodyTruck:     0.9,
	models.BodyOther:     1.0,
}

// bodyStyleInsuranceFactor scales the flat annual insurance proxy.
var bodyStyleInsuranceFactor = map[models.BodyStyle]float64{
	models.BodySedan:     1.0,
	models.BodyCoupe:     1.15,
	models.BodyHatchback: 0.95,
	models.BodySUV:       1.1,
	models.BodyTruck:     1.1,
	models.BodyOther:     1.0,
}

// maintenanceSteps maps DefectRate onto an annual-maintenance multiplier.
// There is no authoritative closed form for defect-rate-to-cost, so this is
// deliberately a documented, monotonic step table rather than a formula.
var maintenanceSteps = []struct {
	MaxDefectRate float64
	Multiplier    float64
}{
	{3, 0.8},
	{6, 0.9},
	{10, 1.0},
	{15, 1.2},
	{25, 1.5},
	{100, 2.0},
}

func maintenanceMultiplier(defectRate float64) float64 {
	for _, step := range maintenanceSteps {
		if defectRate <= step.MaxDefectRate {
			return step.Multiplier
		}
	}
	return maintenanceSteps[len(maintenanceSteps)-1].Multiplier
}

// Calculator computes TCO estimates under one fixed set of Params.
type Calculator struct {
	params Params

	// now is injectable so vehicle age is stable under test.
	now func() time.Time
}

func NewCalculator(params Params) (*Calculator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{params: params, now: time.Now}, nil
}

// Estimate computes the cost breakdown for one enriched listing. Returns nil
// when the listing price is unusable (<= 0), since no estimate is possible.
// Missing fuel or reliability data omits that component and flags the result
// partial; a partial estimate is never reported as if it were a cheaper
// complete one.
func (c *Calculator) Estimate(listing models.EnrichedListing) *models.TCOEstimate {
	if listing.Price <= 0 {
		return nil
	}

	p := c.params
	years := float64(p.HorizonYears)
	est := &models.TCOEstimate{}

	age := c.now().Year() - listing.Year
	if age < 0 {
		age = 0
	}
	est.Depreciation = listing.Price *
		annualDepreciationRate(age) * bodyStyleDepreciationFactor[listing.BodyStyle] * years

	if listing.Fuel != nil {
		est.Fuel = (listing.Fuel.CombinedLPer100KM / 100) *
			float64(p.AnnualKM) * years * p.FuelPricePerLitre
	} else {
		est.Partial = true
		est.MissingInputs = append(est.MissingInputs, "fuel")
	}

	if listing.Reliability != nil {
		est.Maintenance = baseMaintenancePerKM * float64(p.AnnualKM) * years *
			maintenanceMultiplier(listing.Reliability.DefectRate)
	} else {
		est.Partial = true
		est.MissingInputs = append(est.MissingInputs, "maintenance")
	}

	est.Insurance = p.InsuranceAnnualBase * bodyStyleInsuranceFactor[listing.BodyStyle] * years

	est.Total = est.Depreciation + est.Fuel + est.Maintenance + est.Insurance
	est.CostPerKM = est.Total / years / float64(p.AnnualKM)

	return est
}
