// Package report renders an export result as an XLSX workbook for the bookkeeper to
// review next to the generated file.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"exporter/pkg/services"
)

// Sheet names used in the workbooks.
const (
	SheetCases    = "Ärenden"
	SheetVouchers = "Verifikationer"
	SheetWarnings = "Varningar"
)

// hoursNote explains the hour figures, which are derived from the labour cost.
const hoursNote = "Timmar är uppskattade (arbetskostnad / 625 kr) när markerade \"ja\"."

// RotRut returns a workbook with one row per ROT/RUT case and a warnings sheet.
func RotRut(res *services.ExportResult) ([]byte, error) {
	const op = "report.RotRut"

	f := excelize.NewFile()
	defer f.Close()

	if err := useFirstSheet(f, SheetCases); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	headers := []string{
		"Personnummer", "Fakturanr", "Betalningsdatum", "Pris tjänster", "Betalt belopp",
		"Begärt belopp", "Timmar", "Uppskattat", "Fastighetsbeteckning",
	}
	writeRow(f, SheetCases, 1, toCells(headers))

	for i, c := range res.Cases {
		estimated := "nej"
		if c.HoursEstimated {
			estimated = "ja"
		}
		writeRow(f, SheetCases, i+2, []interface{}{
			c.PersonalNumber, c.InvoiceNumber, c.PaymentDate.Format("2006-01-02"), c.ServicePrice, c.PaidAmount,
			c.RequestedAmount, c.Hours, estimated, c.PropertyDesignation,
		})
	}
	_ = f.SetCellValue(SheetCases, cellName(1, len(res.Cases)+3), hoursNote)

	_ = f.SetColWidth(SheetCases, "A", "A", 16)
	_ = f.SetColWidth(SheetCases, "B", "H", 14)
	_ = f.SetColWidth(SheetCases, "I", "I", 32)

	if err := writeWarnings(f, res.Warnings); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return finish(f, op)
}

// Sie returns a workbook with one row per transaction line and a warnings sheet.
func Sie(res *services.ExportResult) ([]byte, error) {
	const op = "report.Sie"

	f := excelize.NewFile()
	defer f.Close()

	if err := useFirstSheet(f, SheetVouchers); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	writeRow(f, SheetVouchers, 1, toCells([]string{"Ver.nr", "Datum", "Text", "Konto", "Debet", "Kredit"}))

	row := 2
	for _, v := range res.Vouchers {
		for _, l := range v.Lines {
			var debit, credit interface{}
			if l.Amount.IsNegative() {
				credit = l.Amount.Neg().InexactFloat64()
			} else {
				debit = l.Amount.InexactFloat64()
			}
			writeRow(f, SheetVouchers, row, []interface{}{
				v.Number, v.Date.Format("2006-01-02"), v.Text, l.Account, debit, credit,
			})
			row++
		}
	}

	_ = f.SetColWidth(SheetVouchers, "A", "B", 12)
	_ = f.SetColWidth(SheetVouchers, "C", "C", 40)
	_ = f.SetColWidth(SheetVouchers, "D", "F", 12)

	if err := writeWarnings(f, res.Warnings); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return finish(f, op)
}

func writeWarnings(f *excelize.File, warnings []services.Warning) error {
	if _, err := f.NewSheet(SheetWarnings); err != nil {
		return err
	}

	writeRow(f, SheetWarnings, 1, toCells([]string{"Typ", "Fakturanr", "Faktura-id", "Fält", "Meddelande", "Utelämnad"}))
	for i, w := range warnings {
		skipped := "nej"
		if w.Skipped {
			skipped = "ja"
		}
		writeRow(f, SheetWarnings, i+2, []interface{}{
			string(w.Kind), w.InvoiceNumber, w.InvoiceID, w.Field, w.Message, skipped,
		})
	}

	_ = f.SetColWidth(SheetWarnings, "A", "A", 26)
	_ = f.SetColWidth(SheetWarnings, "E", "E", 60)
	return nil
}

// useFirstSheet renames the default sheet so the workbook opens on name.
func useFirstSheet(f *excelize.File, name string) error {
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return err
	}
	f.SetActiveSheet(0)
	return nil
}

// writeRow leaves nil values as empty cells.
func writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	for i, v := range values {
		if v == nil {
			continue
		}
		_ = f.SetCellValue(sheet, cellName(i+1, row), v)
	}
}

func cellName(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func finish(f *excelize.File, op string) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: xlsx write: %w", op, err)
	}
	return buf.Bytes(), nil
}
