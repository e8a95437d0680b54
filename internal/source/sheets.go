package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"exporter/internal/logger"
	"exporter/pkg/models"
	"exporter/pkg/services"
)

// RangeReader reads cell values from a spreadsheet. *sheets.Service implements it.
type RangeReader interface {
	ReadRange(ctx context.Context, rangeSpec string) ([][]interface{}, error)
}

// SheetSource reads invoices kept in a Google Sheets worksheet with the columns
// A=Fakturanr, B=Fakturadatum, C=Förfallodatum, D=Status, E=Belopp, F=Avdragstyp,
// G=Avdrag, H=Arbetskostnad, I=Fastighetsbeteckning, J=Kund, K=Personnummer.
type SheetSource struct {
	reader    RangeReader
	worksheet string
	log       zerolog.Logger
}

var _ services.InvoiceSource = (*SheetSource)(nil)

// NewSheetSource creates a source reading the named worksheet.
func NewSheetSource(reader RangeReader, worksheet string) *SheetSource {
	return &SheetSource{
		reader:    reader,
		worksheet: worksheet,
		log:       logger.WithComponent("sheet-source"),
	}
}

// ListInvoices reads every row below the header. Rows that cannot be parsed are logged
// and skipped.
func (s *SheetSource) ListInvoices(ctx context.Context, filter services.InvoiceFilter) ([]models.Invoice, error) {
	const op = "SheetSource.ListInvoices"

	s.log.Info().Str("sheet", s.worksheet).Msg("Reading invoices")

	values, err := s.reader.ReadRange(ctx, s.worksheet+"!A:K")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read %s sheet: %w", op, s.worksheet, err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("%s: %s sheet is empty", op, s.worksheet)
	}

	var invoices []models.Invoice
	for i, row := range values[1:] {
		rowNum := i + 2

		if getString(row, 0) == "" {
			continue
		}

		inv, err := parseSheetRow(row, rowNum)
		if err != nil {
			s.log.Warn().
				Err(err).
				Int("row", rowNum).
				Str("sheet", s.worksheet).
				Msg("Failed to parse invoice, skipping")
			continue
		}

		if Matches(inv, filter) {
			invoices = append(invoices, inv)
		}
	}

	s.log.Info().
		Int("total_rows", len(values)-1).
		Int("matched", len(invoices)).
		Str("sheet", s.worksheet).
		Msg("Invoices read successfully")

	return invoices, nil
}

// parseSheetRow converts one worksheet row. Empty optional cells stay nil so the
// exporters can tell "not recorded" from zero.
func parseSheetRow(row []interface{}, rowNum int) (models.Invoice, error) {
	const op = "parseSheetRow"

	number, err := strconv.Atoi(getString(row, 0))
	if err != nil {
		return models.Invoice{}, fmt.Errorf("%s: invalid invoice number '%s' in row %d", op, getString(row, 0), rowNum)
	}

	amount, err := parseAmount(getString(row, 4))
	if err != nil {
		return models.Invoice{}, fmt.Errorf("%s: row %d: %w", op, rowNum, err)
	}

	r := Row{
		ID:            fmt.Sprintf("row-%d", rowNum),
		InvoiceNumber: number,
		IssueDate:     getString(row, 1),
		DueDate:       getString(row, 2),
		Status:        statusFromSheet(getString(row, 3)),
		Amount:        amount,
	}

	if t := getString(row, 5); t != "" {
		r.RotRutType = &t
	}
	if r.RotRutAmount, err = optionalAmount(row, 6); err != nil {
		return models.Invoice{}, fmt.Errorf("%s: row %d: %w", op, rowNum, err)
	}
	if r.LaborCost, err = optionalAmount(row, 7); err != nil {
		return models.Invoice{}, fmt.Errorf("%s: row %d: %w", op, rowNum, err)
	}
	if p := getString(row, 8); p != "" {
		r.PropertyDesignation = &p
	}
	if name, pnr := getString(row, 9), getString(row, 10); name != "" || pnr != "" {
		r.Customer = &CustomerRow{Name: name, OrgNumber: pnr}
	}

	inv, err := r.ToInvoice()
	if err != nil {
		return models.Invoice{}, fmt.Errorf("%s: row %d: %w", op, rowNum, err)
	}
	return inv, nil
}

func optionalAmount(row []interface{}, col int) (*decimal.Decimal, error) {
	cell := getString(row, col)
	if cell == "" {
		return nil, nil
	}
	d, err := parseAmount(cell)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// statusFromSheet accepts the Swedish labels used in the CRM's UI as well as the
// stored English values.
func statusFromSheet(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "utkast":
		return string(models.StatusDraft)
	case "skickad":
		return string(models.StatusSent)
	case "betald":
		return string(models.StatusPaid)
	case "förfallen":
		return string(models.StatusOverdue)
	case "makulerad":
		return string(models.StatusCancelled)
	default:
		return s
	}
}

// getString safely extracts a string value from a row slice
func getString(row []interface{}, index int) string {
	if index >= len(row) || row[index] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[index]))
}
