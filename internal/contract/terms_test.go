package contract

import (
	"testing"

	"rental-portal/internal/models"
	"rental-portal/internal/registry"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

func TestResolveEffectiveTermsInputWins(t *testing.T) {
	def := ResourceDefaults{
		MonthlyRent:           3000000,
		PaymentCycleMonths:    i(3),
		MaxOccupancy:          2,
		ElectricityCostPerKwh: f(3500),
	}
	in := TermsInput{
		MonthlyRent:           f(2800000),
		Deposit:               f(5000000),
		PaymentCycleMonths:    i(6),
		PaymentDay:            i(10),
		MaxOccupants:          i(3),
		ElectricityCostPerKwh: f(4000),
	}

	got := ResolveEffectiveTerms(in, def)

	assert.Equal(t, 2800000.0, got.MonthlyRent)
	assert.Equal(t, 5000000.0, got.Deposit)
	assert.Equal(t, 6, got.PaymentCycleMonths)
	assert.Equal(t, 10, got.PaymentDay)
	assert.Equal(t, 3, got.MaxOccupants)
	assert.Equal(t, 4000.0, got.ElectricityCostPerKwh)
}

func TestResolveEffectiveTermsResourceFallback(t *testing.T) {
	def := ResourceDefaults{
		MonthlyRent:            3000000,
		PaymentCycleMonths:     i(3),
		MaxOccupancy:           2,
		ElectricityCostPerKwh:  f(3500),
		WaterCostPerCubicMeter: f(15000),
	}

	got := ResolveEffectiveTerms(TermsInput{}, def)

	assert.Equal(t, 3000000.0, got.MonthlyRent)
	assert.Equal(t, 0.0, got.Deposit)
	assert.Equal(t, 3, got.PaymentCycleMonths)
	assert.Equal(t, 5, got.PaymentDay)
	assert.Equal(t, 2, got.MaxOccupants)
	assert.Equal(t, 3500.0, got.ElectricityCostPerKwh)
	assert.Equal(t, 15000.0, got.WaterCostPerCubicMeter)
}

func TestResolveEffectiveTermsHardDefaults(t *testing.T) {
	got := ResolveEffectiveTerms(TermsInput{}, ResourceDefaults{})

	assert.Equal(t, 1, got.PaymentCycleMonths)
	assert.Equal(t, 5, got.PaymentDay)
	assert.Equal(t, 4, got.MaxOccupants)
	assert.Equal(t, 0.0, got.ElectricityCostPerKwh)
	assert.Equal(t, 0.0, got.InternetCost)
}

func TestResolveEffectiveTermsMotelCapacity(t *testing.T) {
	got := ResolveEffectiveTerms(TermsInput{}, ResourceDefaults{TotalRooms: 5})
	assert.Equal(t, 10, got.MaxOccupants)

	// Explicit input still wins over the per-room scaling.
	got = ResolveEffectiveTerms(TermsInput{MaxOccupants: i(12)}, ResourceDefaults{TotalRooms: 5})
	assert.Equal(t, 12, got.MaxOccupants)
}

func TestDefaultsForRoom(t *testing.T) {
	room := &models.Room{
		Price:                 4500000,
		MaxOccupancy:          3,
		ElectricityCostPerKwh: f(3500),
		PaymentCycleMonths:    i(2),
	}
	def := DefaultsFor(&registry.Resource{Room: room})

	assert.Equal(t, 4500000.0, def.MonthlyRent)
	assert.Equal(t, 3, def.MaxOccupancy)
	assert.Equal(t, 0, def.TotalRooms)
	assert.Equal(t, 3500.0, *def.ElectricityCostPerKwh)
	assert.Equal(t, 2, *def.PaymentCycleMonths)
}

func TestDefaultsForMotel(t *testing.T) {
	motel := &models.Motel{
		TotalRooms:  8,
		MonthlyRent: f(25000000),
		ServiceFee:  f(200000),
	}
	def := DefaultsFor(&registry.Resource{Motel: motel})

	assert.Equal(t, 25000000.0, def.MonthlyRent)
	assert.Equal(t, 8, def.TotalRooms)
	assert.Equal(t, 0, def.MaxOccupancy)
	assert.Equal(t, 200000.0, *def.ServiceFee)
}
