package export

import (
	"fmt"

	"exporter/pkg/models"
	"exporter/pkg/services"
)

// CheckIntegrity returns a DataIntegrityViolation warning if the invoice's amounts are
// impossible: negative values, a deduction larger than the labour cost, or a labour
// cost or deduction larger than the invoice. Missing optional amounts count as zero
// for the ordering checks. The returned warning is marked Skipped; callers must drop
// the invoice.
func CheckIntegrity(inv *models.Invoice) *services.Warning {
	violation := func(field, format string, args ...interface{}) *services.Warning {
		return &services.Warning{
			Kind:          services.WarningDataIntegrityViolation,
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Field:         field,
			Message:       fmt.Sprintf(format, args...),
			Skipped:       true,
		}
	}

	if inv.Amount.IsNegative() {
		return violation("amount", "negative amount %s", inv.Amount)
	}
	if inv.LaborCost != nil && inv.LaborCost.IsNegative() {
		return violation("labor_cost", "negative labor cost %s", inv.LaborCost)
	}
	if inv.RotRutAmount != nil && inv.RotRutAmount.IsNegative() {
		return violation("rot_rut_amount", "negative deduction %s", inv.RotRutAmount)
	}

	deduction := inv.RotRutAmountOrZero()
	if labor := inv.LaborCostOrZero(); deduction.GreaterThan(labor) {
		return violation("rot_rut_amount", "deduction %s exceeds labor cost %s", deduction, labor)
	}
	if inv.LaborCost != nil && inv.LaborCost.GreaterThan(inv.Amount) {
		return violation("labor_cost", "labor cost %s exceeds invoice amount %s", inv.LaborCost, inv.Amount)
	}
	if deduction.GreaterThan(inv.Amount) {
		return violation("rot_rut_amount", "deduction %s exceeds invoice amount %s", deduction, inv.Amount)
	}

	return nil
}
