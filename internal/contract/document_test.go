package contract

import (
	"strings"
	"testing"
	"time"

	"rental-portal/internal/models"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDurationMonths(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"one year", date(2026, 1, 1), date(2027, 1, 1), 12},
		{"six months", date(2026, 1, 1), date(2026, 7, 1), 6},
		{"thirty days", date(2026, 1, 1), date(2026, 1, 31), 1},
		{"forty five days rounds up", date(2026, 1, 1), date(2026, 2, 15), 2},
		{"fourteen days rounds down", date(2026, 1, 1), date(2026, 1, 15), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DurationMonths(tt.start, tt.end))
		})
	}
}

func sampleDocumentData() DocumentData {
	return DocumentData{
		ContractType:  models.ContractTypeRoom,
		PropertyLabel: "101, 12 Nguyen Trai",
		LandlordName:  "Lan Nguyen",
		TenantName:    "Minh Tran",
		StartDate:     date(2026, 3, 1),
		EndDate:       date(2027, 3, 1),
		Terms: EffectiveTerms{
			MonthlyRent:           3200000,
			Deposit:               6400000,
			PaymentCycleMonths:    1,
			PaymentDay:            5,
			MaxOccupants:          2,
			ElectricityCostPerKwh: 3500,
		},
		AllowCooking: true,
		SpecialTerms: "No subletting.",
	}
}

func TestGenerateDocumentDeterministic(t *testing.T) {
	d := sampleDocumentData()
	first := GenerateDocument(d)
	second := GenerateDocument(d)
	assert.Equal(t, first, second)
}

func TestGenerateDocumentContent(t *testing.T) {
	doc := GenerateDocument(sampleDocumentData())

	assert.True(t, strings.HasPrefix(doc, "RENTAL AGREEMENT"))
	assert.Contains(t, doc, "Landlord: Lan Nguyen")
	assert.Contains(t, doc, "Tenant:   Minh Tran")
	assert.Contains(t, doc, "2026-03-01 to 2027-03-01 (12 months)")
	assert.Contains(t, doc, "Monthly rent:   3200000")
	assert.Contains(t, doc, "Cooking inside the premises is permitted.")
	assert.Contains(t, doc, "Pets are not permitted.")
	assert.Contains(t, doc, "SPECIAL TERMS")
	assert.Contains(t, doc, "  No subletting.")
	assert.NotContains(t, doc, "PROPERTY REGULATIONS")
}

func TestGenerateDocumentMotel(t *testing.T) {
	d := sampleDocumentData()
	d.ContractType = models.ContractTypeMotel
	d.Regulations = "Quiet hours after 22:00.\nNo open flames."
	d.SpecialTerms = ""

	doc := GenerateDocument(d)

	assert.Contains(t, doc, "rental of the entire property")
	assert.Contains(t, doc, "PROPERTY REGULATIONS")
	assert.Contains(t, doc, "  Quiet hours after 22:00.\n  No open flames.")
	assert.NotContains(t, doc, "SPECIAL TERMS")
}
