package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"exporter/pkg/models"
)

// RotRutExporter builds Skatteverket reimbursement requests for ROT/RUT deductions.
type RotRutExporter interface {
	// Generate produces the XML request for all paid invoices of the given deduction type.
	// It fails with an error matching export.ErrNoEligibleRecords if nothing qualifies.
	Generate(invoices []models.Invoice, deduction models.DeductionType, companyOrgNumber string) (*ExportResult, error)
}

// SieExporter builds SIE4 bookkeeping files.
type SieExporter interface {
	// Generate produces one voucher per sent or paid invoice. An empty batch yields a
	// header-only file, never an error.
	Generate(invoices []models.Invoice, company models.CompanyInfo, start, end time.Time) (*ExportResult, error)
}

// InvoiceSource is the upstream data store. Implementations must scope rows to the
// calling user; the exporters perform no authorization.
type InvoiceSource interface {
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]models.Invoice, error)
}

// InvoiceFilter narrows the rows a source returns. Zero values mean "no restriction".
type InvoiceFilter struct {
	Statuses   []models.InvoiceStatus
	RotRutType models.DeductionType
	From       time.Time // inclusive, on issue date
	To         time.Time // inclusive, on issue date
}

// ExportOptions carries the values that would otherwise be ambient literals.
type ExportOptions struct {
	ProgramName    string
	ProgramVersion string
	// Encoding of SIE output: "utf-8" (default) or "cp437".
	Encoding string
	// LegacyPaidAmount emits BetaltBelopp as the full invoice amount instead of the
	// customer's share after the deduction.
	LegacyPaidAmount bool
}

// ExportResult is a generated file plus the manifest of records that were dropped or flagged.
type ExportResult struct {
	Content  []byte
	Filename string
	MimeType string

	Warnings []Warning
	Included int // invoices written to the file
	Skipped  int // eligible-looking invoices rejected by a warning

	// Cases or vouchers in output order, used by reports and the journal writer.
	Cases    []CaseSummary
	Vouchers []VoucherSummary
}

// WarningKind classifies a non-fatal problem with one invoice.
type WarningKind string

const (
	WarningMalformedPersonalNumber WarningKind = "MalformedPersonalNumber"
	WarningMissingRequiredField    WarningKind = "MissingRequiredField"
	WarningDataIntegrityViolation  WarningKind = "DataIntegrityViolation"
	WarningDuplicateVoucherNumber  WarningKind = "DuplicateVoucherNumber"
	WarningOutsidePeriod           WarningKind = "OutsidePeriod"
)

// Warning describes one invoice that was skipped or emitted with a known gap.
type Warning struct {
	Kind          WarningKind `json:"kind"`
	InvoiceID     string      `json:"invoice_id"`
	InvoiceNumber int         `json:"invoice_number"`
	Field         string      `json:"field,omitempty"`
	Message       string      `json:"message"`
	Skipped       bool        `json:"skipped"` // true if the invoice is absent from the file
}

// CaseSummary is one ROT/RUT case (Arende) as emitted.
type CaseSummary struct {
	PersonalNumber      string
	InvoiceNumber       int
	PaymentDate         time.Time
	ServicePrice        int64
	PaidAmount          int64
	RequestedAmount     int64
	Hours               int64
	HoursEstimated      bool
	PropertyDesignation string
}

// VoucherSummary is one SIE voucher (#VER) as emitted.
type VoucherSummary struct {
	Number int
	Date   time.Time
	Text   string
	Lines  []TransactionLine
}

// TransactionLine is one #TRANS row. Amount is signed, debit positive.
type TransactionLine struct {
	Account string
	Amount  decimal.Decimal // rounded to two decimals
}
