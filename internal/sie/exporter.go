// Package sie writes SIE4 bookkeeping files (one verifikation per invoice) for import
// into Fortnox, Visma, Bokio and other Swedish accounting software, and reads them back
// for validation.
//
// Only invoices with status sent or paid are booked. Voucher numbers are the invoice
// numbers in series A; they are never renumbered, so importing into a ledger that
// already uses those numbers in series A will collide.
package sie

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"exporter/internal/clock"
	"exporter/internal/export"
	"exporter/internal/logger"
	"exporter/pkg/models"
	"exporter/pkg/services"
)

// Exporter implements services.SieExporter.
type Exporter struct {
	clock clock.Clock
	opts  services.ExportOptions
	log   zerolog.Logger
}

var _ services.SieExporter = (*Exporter)(nil)

// NewExporter creates an exporter. A nil clock falls back to the system clock.
func NewExporter(clk clock.Clock, opts services.ExportOptions) *Exporter {
	if clk == nil {
		clk = clock.System()
	}
	return &Exporter{
		clock: clk,
		opts:  opts,
		log:   logger.WithComponent("sie-exporter"),
	}
}

func bookable(inv models.Invoice, _ int) bool {
	return inv.Status == models.StatusSent || inv.Status == models.StatusPaid
}

// Generate books every sent or paid invoice. With nothing to book the result is a
// valid header-only file; unlike the ROT/RUT export this is not an error.
func (e *Exporter) Generate(invoices []models.Invoice, company models.CompanyInfo, start, end time.Time) (*services.ExportResult, error) {
	const op = "sie.Generate"

	if end.Before(start) {
		return nil, export.NewExportError(op, export.ErrInvalidPeriod, start.Format("2006-01-02")+" > "+end.Format("2006-01-02"))
	}

	enc, err := NormalizeEncoding(e.opts.Encoding)
	if err != nil {
		return nil, export.NewExportError(op, err, "")
	}

	var (
		w        writer
		vouchers []services.VoucherSummary
		warnings []services.Warning
		seen     = make(map[int]bool)
	)

	warn := func(wn services.Warning) {
		l := logger.WithInvoice("sie-exporter", wn.InvoiceNumber)
		l.Warn().
			Str("kind", string(wn.Kind)).
			Str("invoice_id", wn.InvoiceID).
			Bool("skipped", wn.Skipped).
			Msg(wn.Message)
		warnings = append(warnings, wn)
	}

	for _, inv := range lo.Filter(invoices, bookable) {
		inv := inv

		if wn := export.CheckIntegrity(&inv); wn != nil {
			warn(*wn)
			continue
		}

		if seen[inv.InvoiceNumber] {
			warn(services.Warning{
				Kind:          services.WarningDuplicateVoucherNumber,
				InvoiceID:     inv.ID,
				InvoiceNumber: inv.InvoiceNumber,
				Field:         "invoice_number",
				Message:       "voucher number already used in this file, importers may reject or merge it",
			})
		}
		seen[inv.InvoiceNumber] = true

		if outsidePeriod(inv.IssueDate, start, end) {
			warn(services.Warning{
				Kind:          services.WarningOutsidePeriod,
				InvoiceID:     inv.ID,
				InvoiceNumber: inv.InvoiceNumber,
				Field:         "issue_date",
				Message:       "issue date " + inv.IssueDate.Format("2006-01-02") + " is outside the fiscal period",
			})
		}

		vouchers = append(vouchers, BuildVoucher(&inv))
	}

	w.header(Header{
		ProgramName:    e.opts.ProgramName,
		ProgramVersion: e.opts.ProgramVersion,
		GeneratedAt:    e.clock.Now(),
		Company:        company,
		PeriodStart:    start,
		PeriodEnd:      end,
	})
	w.accounts()
	for _, v := range vouchers {
		w.voucher(v)
	}

	content, err := Encode(w.String(), enc)
	if err != nil {
		return nil, export.NewExportError(op, err, "")
	}

	skipped := lo.CountBy(warnings, func(wn services.Warning) bool { return wn.Skipped })

	e.log.Info().
		Str("company", company.Name).
		Str("period_start", start.Format("2006-01-02")).
		Str("period_end", end.Format("2006-01-02")).
		Str("encoding", enc).
		Int("invoices", len(invoices)).
		Int("vouchers", len(vouchers)).
		Int("skipped", skipped).
		Msg("SIE file generated")

	return &services.ExportResult{
		Content:  content,
		Filename: export.SieFilename(start, end),
		MimeType: export.MimeText,
		Warnings: warnings,
		Included: len(vouchers),
		Skipped:  skipped,
		Vouchers: vouchers,
	}, nil
}

func outsidePeriod(day, start, end time.Time) bool {
	d := civil(day)
	return d.Before(civil(start)) || d.After(civil(end))
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
