// Package rotrut builds Skatteverket ROT/RUT reimbursement requests from paid invoices.
//
// Eligible invoices are grouped per buyer (Hushall) by cleaned personal identity number,
// in the order each buyer first appears in the input. Every invoice becomes one case
// (Arende). Hours are not tracked by the CRM, so each case reports an estimate derived
// from the labour cost at a fixed hourly rate (see money.EstimateHours).
package rotrut

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"exporter/internal/clock"
	"exporter/internal/export"
	"exporter/internal/logger"
	"exporter/internal/money"
	"exporter/pkg/models"
	"exporter/pkg/services"
)

// Exporter implements services.RotRutExporter.
type Exporter struct {
	clock clock.Clock
	opts  services.ExportOptions
	log   zerolog.Logger
}

var _ services.RotRutExporter = (*Exporter)(nil)

// NewExporter creates an exporter. A nil clock falls back to the system clock.
func NewExporter(clk clock.Clock, opts services.ExportOptions) *Exporter {
	if clk == nil {
		clk = clock.System()
	}
	return &Exporter{
		clock: clk,
		opts:  opts,
		log:   logger.WithComponent("rotrut-exporter"),
	}
}

// Plan is the computed request before serialization.
type Plan struct {
	Request  Begaran
	Cases    []services.CaseSummary
	Warnings []services.Warning
}

// Generate filters, groups and serializes the invoices. companyOrgNumber is only logged;
// the request schema carries no per-case seller field.
func (e *Exporter) Generate(invoices []models.Invoice, deduction models.DeductionType, companyOrgNumber string) (*services.ExportResult, error) {
	const op = "rotrut.Generate"

	now := e.clock.Now()

	plan, err := e.Build(invoices, deduction, now)
	if err != nil {
		return nil, err
	}

	content, err := plan.Request.Marshal()
	if err != nil {
		return nil, export.NewExportError(op, err, "XML serialization")
	}

	skipped := lo.CountBy(plan.Warnings, func(w services.Warning) bool { return w.Skipped })

	e.log.Info().
		Str("type", string(deduction)).
		Str("company_org_number", companyOrgNumber).
		Int("households", len(plan.Request.Hushall)).
		Int("cases", len(plan.Cases)).
		Int("skipped", skipped).
		Int("warnings", len(plan.Warnings)).
		Msg("ROT/RUT request generated")

	return &services.ExportResult{
		Content:  content,
		Filename: export.RotRutFilename(deduction, now),
		MimeType: export.MimeXML,
		Warnings: plan.Warnings,
		Included: len(plan.Cases),
		Skipped:  skipped,
		Cases:    plan.Cases,
	}, nil
}

// Build computes the request without serializing it. now names the request. Cases
// follow the document: household by household, in input order within each.
func (e *Exporter) Build(invoices []models.Invoice, deduction models.DeductionType, now time.Time) (*Plan, error) {
	if deduction != models.DeductionROT && deduction != models.DeductionRUT {
		return nil, fmt.Errorf("%w: got %q", export.ErrInvalidDeductionType, deduction)
	}

	eligible := lo.Filter(invoices, func(inv models.Invoice, _ int) bool {
		return inv.Status == models.StatusPaid &&
			inv.RotRutType == deduction &&
			inv.PersonalNumber() != ""
	})
	if len(eligible) == 0 {
		return nil, &export.NoEligibleRecordsError{Type: deduction}
	}

	plan := &Plan{
		Request: Begaran{
			NamnPaBegaran: fmt.Sprintf("%s %s", deduction, now.Format("2006-01-02")),
		},
	}
	households := make(map[string]int) // cleaned pnr -> index in Request.Hushall
	var cases [][]services.CaseSummary // parallel to Request.Hushall

	for i := range eligible {
		inv := &eligible[i]

		if w := export.CheckIntegrity(inv); w != nil {
			plan.addWarning(e.log, *w)
			continue
		}

		pnr := CleanPersonalNumber(inv.PersonalNumber())
		if err := ValidatePersonalNumber(pnr); err != nil {
			plan.addWarning(e.log, services.Warning{
				Kind:          services.WarningMalformedPersonalNumber,
				InvoiceID:     inv.ID,
				InvoiceNumber: inv.InvoiceNumber,
				Field:         "customer.org_number",
				Message:       err.Error(),
				Skipped:       true,
			})
			continue
		}

		arende, summary := e.buildCase(inv, deduction, pnr, plan)

		idx, ok := households[pnr]
		if !ok {
			idx = len(plan.Request.Hushall)
			households[pnr] = idx
			plan.Request.Hushall = append(plan.Request.Hushall, Hushall{Pnr: pnr})
			cases = append(cases, nil)
		}
		plan.Request.Hushall[idx].Arende = append(plan.Request.Hushall[idx].Arende, arende)
		cases[idx] = append(cases[idx], summary)
	}
	plan.Cases = lo.Flatten(cases)

	if len(plan.Cases) == 0 {
		return nil, &export.NoEligibleRecordsError{Type: deduction}
	}

	return plan, nil
}

// buildCase computes one Arende. Missing labour cost or deduction count as zero.
func (e *Exporter) buildCase(inv *models.Invoice, deduction models.DeductionType, pnr string, plan *Plan) (Arende, services.CaseSummary) {
	labor := inv.LaborCostOrZero()
	requested := inv.RotRutAmountOrZero()

	paid := inv.Amount.Sub(requested)
	if e.opts.LegacyPaidAmount {
		paid = inv.Amount
	}

	paymentDate := inv.DueDate
	if paymentDate.IsZero() {
		paymentDate = inv.IssueDate
		plan.addWarning(e.log, services.Warning{
			Kind:          services.WarningMissingRequiredField,
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Field:         "due_date",
			Message:       "no due date, issue date used as payment date",
		})
	}

	hours := money.EstimateHours(labor)

	arende := Arende{
		PrisTjanster:    money.RoundWhole(labor),
		BetaltBelopp:    money.RoundWhole(paid),
		BegartBelopp:    money.RoundWhole(requested),
		BetalningsDatum: paymentDate.Format("2006-01-02"),
	}

	if deduction == models.DeductionROT {
		arende.AntalFaktureradeTimmar = &hours
		if inv.PropertyDesignation != "" {
			arende.Fastighetsbeteckning = inv.PropertyDesignation
		} else {
			plan.addWarning(e.log, services.Warning{
				Kind:          services.WarningMissingRequiredField,
				InvoiceID:     inv.ID,
				InvoiceNumber: inv.InvoiceNumber,
				Field:         "property_designation",
				Message:       "ROT case without Fastighetsbeteckning, Skatteverket may reject it",
			})
		}
	} else {
		arende.AntalTimmar = &hours
	}

	summary := services.CaseSummary{
		PersonalNumber:      pnr,
		InvoiceNumber:       inv.InvoiceNumber,
		PaymentDate:         paymentDate,
		ServicePrice:        arende.PrisTjanster,
		PaidAmount:          arende.BetaltBelopp,
		RequestedAmount:     arende.BegartBelopp,
		Hours:               hours,
		HoursEstimated:      true,
		PropertyDesignation: arende.Fastighetsbeteckning,
	}

	return arende, summary
}

func (p *Plan) addWarning(log zerolog.Logger, w services.Warning) {
	log.Warn().
		Str("kind", string(w.Kind)).
		Str("invoice_id", w.InvoiceID).
		Int("invoice_number", w.InvoiceNumber).
		Str("field", w.Field).
		Bool("skipped", w.Skipped).
		Msg(w.Message)
	p.Warnings = append(p.Warnings, w)
}
