package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"exporter/internal/clock"
	"exporter/internal/export"
	"exporter/internal/logger"
	"exporter/internal/report"
	"exporter/internal/sheets"
	"exporter/internal/sie"
	"exporter/pkg/models"
	"exporter/pkg/services"
)

var sieCmd = &cobra.Command{
	Use:   "sie",
	Short: "Create an SIE4 bookkeeping file for a period",
	Long: `Create an SIE4 file with one voucher (verifikation) per sent or paid invoice.

Each voucher debits accounts receivable (1510) with what the customer pays, debits
1513 with any ROT/RUT deduction claimed from Skatteverket, and credits sales
(3001, or 3041 for deduction invoices) and output VAT 2611 at 25%.

Voucher numbers are the invoice numbers in series A. Importing into a ledger that
already uses those numbers in series A will collide.

Environment variables:
  INVOICE_SOURCE, SUPABASE_*, GOOGLE_* - see "exporter rotrut --help"
  COMPANY_FILE - company profile (name is required)
  SIE_ENCODING - utf-8 (default) or cp437
  GOOGLE_JOURNAL_WORKSHEET - worksheet used by --journal`,
	Example: `  # September 2026
  exporter sie --from 2026-09-01 --to 2026-09-30

  # Whole fiscal year in CP437 for an older importer
  exporter sie --from 2026-01-01 --to 2026-12-31 --encoding cp437

  # Also append the voucher lines to the Google Sheets journal
  exporter sie --from 2026-09-01 --to 2026-09-30 --journal`,
	RunE: runSie,
}

func init() {
	rootCmd.AddCommand(sieCmd)

	sieCmd.Flags().String("from", "", "Periodens första dag (YYYY-MM-DD)")
	sieCmd.Flags().String("to", "", "Periodens sista dag (YYYY-MM-DD)")
	sieCmd.Flags().String("encoding", "", "Teckenkodning: utf-8 eller cp437 (standard: SIE_ENCODING)")
	sieCmd.Flags().Bool("journal", false, "Lägg till verifikationsraderna i Google Sheets")
	addSourceFlags(sieCmd)
	addCompanyFlags(sieCmd)
	_ = sieCmd.MarkFlagRequired("from")
	_ = sieCmd.MarkFlagRequired("to")
}

func runSie(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("sie")

	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	encoding, _ := cmd.Flags().GetString("encoding")
	journal, _ := cmd.Flags().GetBool("journal")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return fmt.Errorf("invalid --from date format. Use YYYY-MM-DD: %w", err)
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return fmt.Errorf("invalid --to date format. Use YYYY-MM-DD: %w", err)
	}
	if to.Before(from) {
		return fmt.Errorf("--to %s is before --from %s: %w", toStr, fromStr, export.ErrInvalidPeriod)
	}

	company, err := loadCompany(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	src, err := openSource(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	invoices, err := src.ListInvoices(ctx, services.InvoiceFilter{
		Statuses: []models.InvoiceStatus{models.StatusSent, models.StatusPaid},
		From:     from,
		To:       to,
	})
	if err != nil {
		return fmt.Errorf("failed to read invoices: %w", err)
	}

	opts := exportOptions(cfg)
	if encoding != "" {
		opts.Encoding = encoding
	}

	clk := clock.System()
	res, err := sie.NewExporter(clk, opts).Generate(invoices, company, from, to)
	if err != nil {
		return fmt.Errorf("SIE export failed: %w", err)
	}

	path, err := export.NewFileEmitter(outputDir(cmd, cfg)).Emit(res.Content, res.Filename, res.MimeType)
	if err != nil {
		return err
	}

	reportPath, err := writeReport(cmd, report.Sie, res, log)
	if err != nil {
		return err
	}

	if journal {
		svc, err := newSheetsService(ctx, cfg)
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		rows := sheets.JournalRows(res.Vouchers, res.Filename, clk.Now())
		if err := svc.AppendJournal(ctx, cfg.GoogleJournalWorksheet, rows); err != nil {
			return fmt.Errorf("journal: %w", err)
		}
	}

	enc, _ := sie.NormalizeEncoding(opts.Encoding)

	s := newSummary("SIE4-EXPORT", path, res)
	s.Report = reportPath
	s.Details = []detail{
		{"Företag:", company.Name},
		{"Period:", fromStr + " - " + toStr},
		{"Teckenkodning:", enc},
		{"Verifikationer:", strconv.Itoa(len(res.Vouchers))},
	}
	if journal {
		s.Details = append(s.Details, detail{"Journal:", cfg.GoogleJournalWorksheet})
	}
	s.Footer = []string{
		"Verifikationerna använder serie A med fakturanumret som nummer.",
		"Kontrollera att serien är ledig i bokföringsprogrammet före import.",
	}

	return s.print(cmd.OutOrStdout(), jsonOutput)
}
