// Package money holds the numeric rules shared by the ROT/RUT and SIE exporters.
//
// All amounts are shopspring decimals. Swedish VAT is assumed to be a flat 25% on
// every invoice; per-line VAT rates from the invoice editor never reach the exporters.
package money

import (
	"github.com/shopspring/decimal"
)

var (
	// VATRate is the single output VAT rate applied to every invoice.
	VATRate = decimal.RequireFromString("0.25")

	// vatDivisor turns a VAT-inclusive amount into its net amount.
	vatDivisor = decimal.NewFromInt(1).Add(VATRate)

	// AssumedHourlyRate is 500 SEK net plus 25% VAT. Hours are not tracked per invoice,
	// so the labour cost is divided by this rate to estimate them.
	AssumedHourlyRate = decimal.NewFromInt(625)
)

// RoundWhole rounds half-up to whole currency units. Negative input is rounded
// half away from zero, but callers reject negative amounts before this point.
func RoundWhole(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// Cents rounds to two decimals.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatSIE renders an amount with exactly two decimals and a dot separator.
func FormatSIE(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// SplitVAT back-calculates net and VAT from a VAT-inclusive amount. Both parts are
// rounded to cents and VAT is taken as the remainder, so net+vat always equals the
// cent-rounded input.
func SplitVAT(gross decimal.Decimal) (net, vat decimal.Decimal) {
	gross = Cents(gross)
	net = Cents(gross.Div(vatDivisor))
	vat = gross.Sub(net)
	return net, vat
}

// EstimateHours returns max(1, round(laborCost / 625)).
func EstimateHours(laborCost decimal.Decimal) int64 {
	hours := RoundWhole(laborCost.Div(AssumedHourlyRate))
	if hours < 1 {
		return 1
	}
	return hours
}
