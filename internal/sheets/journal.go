package sheets

import (
	"time"

	"exporter/internal/money"
	"exporter/pkg/services"
)

// JournalHeaders are the column titles of the voucher journal worksheet.
var JournalHeaders = []string{
	"Serie", "Ver.nr", "Datum", "Text", "Konto", "Debet", "Kredit", "Fil", "Exporterad",
}

// JournalRow is one #TRANS line of an exported SIE file.
type JournalRow struct {
	Series     string
	Number     int
	Date       string
	Text       string
	Account    string
	Debit      string
	Credit     string
	File       string
	ExportedAt string
}

// JournalRows flattens vouchers into one row per transaction line. Positive amounts go
// in the debit column, negative amounts in the credit column as positive values.
func JournalRows(vouchers []services.VoucherSummary, filename string, exportedAt time.Time) []JournalRow {
	stamp := exportedAt.Format("2006-01-02 15:04:05")

	var rows []JournalRow
	for _, v := range vouchers {
		for _, l := range v.Lines {
			row := JournalRow{
				Series:     "A",
				Number:     v.Number,
				Date:       v.Date.Format("2006-01-02"),
				Text:       v.Text,
				Account:    l.Account,
				File:       filename,
				ExportedAt: stamp,
			}
			if l.Amount.IsNegative() {
				row.Credit = money.FormatSIE(l.Amount.Neg())
			} else {
				row.Debit = money.FormatSIE(l.Amount)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// Values converts the row to sheet cells in JournalHeaders order.
func (r JournalRow) Values() []interface{} {
	return []interface{}{
		r.Series,     // A: Serie
		r.Number,     // B: Ver.nr
		r.Date,       // C: Datum
		r.Text,       // D: Text
		r.Account,    // E: Konto
		r.Debit,      // F: Debet
		r.Credit,     // G: Kredit
		r.File,       // H: Fil
		r.ExportedAt, // I: Exporterad
	}
}
