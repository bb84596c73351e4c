package contract

import "rental-portal/internal/registry"

// Hard defaults applied when neither the caller nor the resource supplies a
// value.
const (
	defaultPaymentDay         = 5
	defaultPaymentCycleMonths = 1
	defaultMaxOccupants       = 4
	motelOccupantsPerRoom     = 2
)

// TermsInput carries the caller-proposed financial terms. Nil means "not
// specified, fall back to the resource default".
type TermsInput struct {
	MonthlyRent        *float64
	Deposit            *float64
	PaymentCycleMonths *int
	PaymentDay         *int
	MaxOccupants       *int

	ElectricityCostPerKwh  *float64
	WaterCostPerCubicMeter *float64
	InternetCost           *float64
	ParkingCost            *float64
	ServiceFee             *float64
}

// ResourceDefaults are the fallback values a room or motel advertises.
type ResourceDefaults struct {
	MonthlyRent        float64
	PaymentCycleMonths *int

	// Capacity: room max occupancy, or total rooms for a whole motel.
	MaxOccupancy int
	TotalRooms   int

	ElectricityCostPerKwh  *float64
	WaterCostPerCubicMeter *float64
	InternetCost           *float64
	ParkingCost            *float64
	ServiceFee             *float64
}

// EffectiveTerms are the fully resolved values stored on the contract.
type EffectiveTerms struct {
	MonthlyRent        float64
	Deposit            float64
	PaymentCycleMonths int
	PaymentDay         int
	MaxOccupants       int

	ElectricityCostPerKwh  float64
	WaterCostPerCubicMeter float64
	InternetCost           float64
	ParkingCost            float64
	ServiceFee             float64
}

// DefaultsFor extracts the fallback terms a resolved resource advertises.
func DefaultsFor(res *registry.Resource) ResourceDefaults {
	if res.Motel != nil {
		m := res.Motel
		d := ResourceDefaults{
			PaymentCycleMonths:     m.PaymentCycleMonths,
			TotalRooms:             m.TotalRooms,
			ElectricityCostPerKwh:  m.ElectricityCostPerKwh,
			WaterCostPerCubicMeter: m.WaterCostPerCubicMeter,
			InternetCost:           m.InternetCost,
			ParkingCost:            m.ParkingCost,
			ServiceFee:             m.ServiceFee,
		}
		if m.MonthlyRent != nil {
			d.MonthlyRent = *m.MonthlyRent
		}
		return d
	}
	r := res.Room
	return ResourceDefaults{
		MonthlyRent:            r.Price,
		PaymentCycleMonths:     r.PaymentCycleMonths,
		MaxOccupancy:           r.MaxOccupancy,
		ElectricityCostPerKwh:  r.ElectricityCostPerKwh,
		WaterCostPerCubicMeter: r.WaterCostPerCubicMeter,
		InternetCost:           r.InternetCost,
		ParkingCost:            r.ParkingCost,
		ServiceFee:             r.ServiceFee,
	}
}

// ResolveEffectiveTerms applies the three-tier override chain: explicit input
// value, else resource default, else hard default. Pure; persistence never
// consults defaults again after this.
func ResolveEffectiveTerms(in TermsInput, def ResourceDefaults) EffectiveTerms {
	t := EffectiveTerms{
		MonthlyRent:            pickFloat(in.MonthlyRent, def.MonthlyRent),
		Deposit:                pickFloat(in.Deposit, 0),
		PaymentCycleMonths:     pickInt(in.PaymentCycleMonths, pickInt(def.PaymentCycleMonths, defaultPaymentCycleMonths)),
		PaymentDay:             pickInt(in.PaymentDay, defaultPaymentDay),
		ElectricityCostPerKwh:  pickFloat(in.ElectricityCostPerKwh, pickFloat(def.ElectricityCostPerKwh, 0)),
		WaterCostPerCubicMeter: pickFloat(in.WaterCostPerCubicMeter, pickFloat(def.WaterCostPerCubicMeter, 0)),
		InternetCost:           pickFloat(in.InternetCost, pickFloat(def.InternetCost, 0)),
		ParkingCost:            pickFloat(in.ParkingCost, pickFloat(def.ParkingCost, 0)),
		ServiceFee:             pickFloat(in.ServiceFee, pickFloat(def.ServiceFee, 0)),
	}

	switch {
	case in.MaxOccupants != nil:
		t.MaxOccupants = *in.MaxOccupants
	case def.TotalRooms > 0:
		// Whole-motel rental: scale with the number of rooms.
		t.MaxOccupants = def.TotalRooms * motelOccupantsPerRoom
	case def.MaxOccupancy > 0:
		t.MaxOccupants = def.MaxOccupancy
	default:
		t.MaxOccupants = defaultMaxOccupants
	}

	return t
}

func pickFloat(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}

func pickInt(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}
