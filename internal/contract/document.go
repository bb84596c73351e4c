package contract

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"rental-portal/internal/models"
)

// DocumentData is everything the generated agreement text depends on. The
// generator is a pure function of this struct: identical input produces
// byte-identical output.
type DocumentData struct {
	ContractType  models.ContractType
	PropertyLabel string
	LandlordName  string
	TenantName    string

	StartDate time.Time
	EndDate   time.Time

	Terms        EffectiveTerms
	AllowCooking bool
	AllowPets    bool
	SpecialTerms string
	Regulations  string
}

// DurationMonths computes the agreement duration in whole months, rounding
// the day count against a 30-day month.
func DurationMonths(start, end time.Time) int {
	days := end.Sub(start).Hours() / 24
	return int(math.Round(days / 30))
}

// GenerateDocument renders the legal agreement text from resolved values.
func GenerateDocument(d DocumentData) string {
	var b strings.Builder

	b.WriteString("RENTAL AGREEMENT\n")
	b.WriteString("================\n\n")

	kind := "room"
	if d.ContractType == models.ContractTypeMotel {
		kind = "entire property"
	}
	fmt.Fprintf(&b, "This agreement covers the rental of the %s %s.\n\n", kind, d.PropertyLabel)

	fmt.Fprintf(&b, "Landlord: %s\n", d.LandlordName)
	fmt.Fprintf(&b, "Tenant:   %s\n\n", d.TenantName)

	fmt.Fprintf(&b, "Term: %s to %s (%d months)\n\n",
		d.StartDate.Format("2006-01-02"),
		d.EndDate.Format("2006-01-02"),
		DurationMonths(d.StartDate, d.EndDate))

	b.WriteString("FINANCIAL TERMS\n")
	fmt.Fprintf(&b, "  Monthly rent:   %s\n", formatAmount(d.Terms.MonthlyRent))
	fmt.Fprintf(&b, "  Deposit:        %s\n", formatAmount(d.Terms.Deposit))
	fmt.Fprintf(&b, "  Payment cycle:  every %d month(s)\n", d.Terms.PaymentCycleMonths)
	fmt.Fprintf(&b, "  Payment day:    day %d of the month\n", d.Terms.PaymentDay)
	fmt.Fprintf(&b, "  Max occupants:  %d\n\n", d.Terms.MaxOccupants)

	b.WriteString("SERVICE COSTS\n")
	fmt.Fprintf(&b, "  Electricity:    %s per kWh\n", formatAmount(d.Terms.ElectricityCostPerKwh))
	fmt.Fprintf(&b, "  Water:          %s per cubic meter\n", formatAmount(d.Terms.WaterCostPerCubicMeter))
	fmt.Fprintf(&b, "  Internet:       %s per month\n", formatAmount(d.Terms.InternetCost))
	fmt.Fprintf(&b, "  Parking:        %s per month\n", formatAmount(d.Terms.ParkingCost))
	fmt.Fprintf(&b, "  Service fee:    %s per month\n\n", formatAmount(d.Terms.ServiceFee))

	b.WriteString("HOUSE RULES\n")
	if d.AllowCooking {
		b.WriteString("  Cooking inside the premises is permitted.\n")
	} else {
		b.WriteString("  Cooking inside the premises is not permitted.\n")
	}
	if d.AllowPets {
		b.WriteString("  Pets are permitted.\n")
	} else {
		b.WriteString("  Pets are not permitted.\n")
	}
	b.WriteString("\n")

	if d.Regulations != "" {
		b.WriteString("PROPERTY REGULATIONS\n")
		b.WriteString(indent(d.Regulations))
		b.WriteString("\n\n")
	}

	if d.SpecialTerms != "" {
		b.WriteString("SPECIAL TERMS\n")
		b.WriteString(indent(d.SpecialTerms))
		b.WriteString("\n\n")
	}

	b.WriteString("The deposit is refundable at the end of the term, less any unpaid\n")
	b.WriteString("bills or damages. Either party may terminate the agreement per the\n")
	b.WriteString("conditions above; the room is released on termination.\n")

	return b.String()
}

// formatAmount renders a monetary value without trailing zeros, so the same
// numeric input always yields the same text.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func indent(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
