// Package source reads invoices from the CRM's storage for the exporters. Every source
// returns models.Invoice values already narrowed by services.InvoiceFilter.
package source

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"exporter/pkg/models"
	"exporter/pkg/services"
)

// ErrMissingConfiguration is returned when a source is selected without the settings it
// needs to connect.
var ErrMissingConfiguration = errors.New("missing source configuration")

// Row is the stored shape of an invoice joined with its customer, as returned by the
// database and as written in JSON invoice files.
type Row struct {
	ID                  string           `json:"id"`
	InvoiceNumber       int              `json:"invoice_number"`
	IssueDate           string           `json:"issue_date"`
	DueDate             string           `json:"due_date"`
	Status              string           `json:"status"`
	Amount              decimal.Decimal  `json:"amount"`
	RotRutType          *string          `json:"rot_rut_type"`
	RotRutAmount        *decimal.Decimal `json:"rot_rut_amount"`
	LaborCost           *decimal.Decimal `json:"labor_cost"`
	PropertyDesignation *string          `json:"property_designation"`
	Customer            *CustomerRow     `json:"customer"`
}

// CustomerRow is the joined customer record.
type CustomerRow struct {
	Name      string `json:"name"`
	OrgNumber string `json:"org_number"`
}

// ToInvoice converts a stored row to the model.
func (r Row) ToInvoice() (models.Invoice, error) {
	const op = "Row.ToInvoice"

	issue, err := parseDate(r.IssueDate)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("%s: invoice %d: issue_date: %w", op, r.InvoiceNumber, err)
	}

	var due time.Time
	if strings.TrimSpace(r.DueDate) != "" {
		if due, err = parseDate(r.DueDate); err != nil {
			return models.Invoice{}, fmt.Errorf("%s: invoice %d: due_date: %w", op, r.InvoiceNumber, err)
		}
	}

	status := models.InvoiceStatus(strings.ToLower(strings.TrimSpace(r.Status)))
	if !status.Valid() {
		return models.Invoice{}, fmt.Errorf("%s: invoice %d: unknown status %q", op, r.InvoiceNumber, r.Status)
	}

	inv := models.Invoice{
		ID:            r.ID,
		InvoiceNumber: r.InvoiceNumber,
		IssueDate:     issue,
		DueDate:       due,
		Status:        status,
		Amount:        r.Amount,
		RotRutAmount:  r.RotRutAmount,
		LaborCost:     r.LaborCost,
	}

	if r.RotRutType != nil && strings.TrimSpace(*r.RotRutType) != "" {
		if inv.RotRutType, err = models.ParseDeductionType(*r.RotRutType); err != nil {
			return models.Invoice{}, fmt.Errorf("%s: invoice %d: %w", op, r.InvoiceNumber, err)
		}
	}
	if r.PropertyDesignation != nil {
		inv.PropertyDesignation = strings.TrimSpace(*r.PropertyDesignation)
	}
	if r.Customer != nil {
		inv.Customer = &models.Customer{
			Name:      strings.TrimSpace(r.Customer.Name),
			OrgNumber: strings.TrimSpace(r.Customer.OrgNumber),
		}
	}

	return inv, nil
}

// Matches reports whether inv passes every criterion set in f.
func Matches(inv models.Invoice, f services.InvoiceFilter) bool {
	if len(f.Statuses) > 0 && !lo.Contains(f.Statuses, inv.Status) {
		return false
	}
	if f.RotRutType != models.DeductionNone && inv.RotRutType != f.RotRutType {
		return false
	}
	day := inv.IssueDate.Format("2006-01-02")
	if !f.From.IsZero() && day < f.From.Format("2006-01-02") {
		return false
	}
	if !f.To.IsZero() && day > f.To.Format("2006-01-02") {
		return false
	}
	return true
}

// parseDate accepts ISO dates, timestamps and the day-first forms Swedish
// spreadsheets sometimes produce.
func parseDate(s string) (time.Time, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return time.Time{}, errors.New("empty date")
	}

	formats := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"20060102",
		"02.01.2006",
		"2/1/2006",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

// parseAmount parses Swedish amount notation: space or dot thousands separators, comma
// decimals and an optional "kr"/"SEK" suffix, e.g. "1 234,50 kr". Empty means zero.
func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return decimal.Zero, nil
	}

	for _, unit := range []string{"SEK", "sek", "kr", "Kr", ":-"} {
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), unit)
	}
	cleaned = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, "\u2212", "-")

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to parse amount: %s (cleaned: %s)", s, cleaned)
	}
	return d, nil
}
