package enrich

import (
	"strings"
	"testing"

	"github.com/owenm/car-deal-finder/internal/models"
	"github.com/owenm/car-deal-finder/internal/refdata"
)

func testTables(t *testing.T) *refdata.Tables {
	t.Helper()

	reliability := `Make,Model,Year,QIRRate,DefectRate
Honda,Civic,2015,85,10
Toyota,Corolla,2014,90,5
`
	fuel := `Make,Model,Year,combined_l_100km
Honda,Civic,2015,8.0
`
	tables, err := refdata.LoadFromReaders(strings.NewReader(reliability), strings.NewReader(fuel))
	if err != nil {
		t.Fatalf("LoadFromReaders: %v", err)
	}
	return tables
}

func TestJoinBothTables(t *testing.T) {
	tables := testTables(t)

	enriched := Join(models.Listing{Make: "Honda", Model: "Civic", Year: 2015}, tables)

	if enriched.ReliabilityStatus != models.JoinMatched || enriched.Reliability == nil {
		t.Fatalf("reliability join = %s", enriched.ReliabilityStatus)
	}
	if enriched.Reliability.QIRRate != 85 {
		t.Errorf("QIRRate = %.0f; want 85", enriched.Reliability.QIRRate)
	}
	if enriched.FuelStatus != models.JoinMatched || enriched.Fuel == nil {
		t.Fatalf("fuel join = %s", enriched.FuelStatus)
	}
}

func TestJoinTablesAreIndependent(t *testing.T) {
	tables := testTables(t)

	// Corolla has reliability data but no fuel row.
	enriched := Join(models.Listing{Make: "Toyota", Model: "Corolla", Year: 2014}, tables)

	if enriched.ReliabilityStatus != models.JoinMatched {
		t.Errorf("reliability join = %s; want matched", enriched.ReliabilityStatus)
	}
	if enriched.FuelStatus != models.JoinUnmatched || enriched.Fuel != nil {
		t.Errorf("fuel join = (%v, %s); want (nil, unmatched)", enriched.Fuel, enriched.FuelStatus)
	}
}

func TestJoinUnmatchedLeavesFieldsAbsent(t *testing.T) {
	tables := testTables(t)

	enriched := Join(models.Listing{Make: "Lada", Model: "Niva", Year: 1998}, tables)

	if enriched.Reliability != nil || enriched.Fuel != nil {
		t.Error("unmatched join must not default reference fields")
	}
	if enriched.ReliabilityStatus != models.JoinUnmatched || enriched.FuelStatus != models.JoinUnmatched {
		t.Errorf("statuses = %s/%s; want unmatched/unmatched", enriched.ReliabilityStatus, enriched.FuelStatus)
	}
}
