package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"exporter/internal/clock"
	"exporter/internal/export"
	"exporter/internal/logger"
	"exporter/internal/report"
	"exporter/internal/rotrut"
	"exporter/pkg/models"
	"exporter/pkg/services"
)

var rotrutCmd = &cobra.Command{
	Use:   "rotrut",
	Short: "Create a Skatteverket ROT/RUT reimbursement request (XML)",
	Long: `Create the XML file used to request ROT or RUT reimbursement from Skatteverket.

Only paid invoices of the selected deduction type with a customer personal identity
number are included. Invoices are grouped per buyer; each invoice becomes one case.
Hours are estimated from the labour cost (625 kr/h incl. VAT) because the CRM does
not track them. Review the figures before uploading the file.

Environment variables:
  INVOICE_SOURCE - file (default), supabase or sheets
  SUPABASE_URL, SUPABASE_KEY, SUPABASE_USER_ID - for the supabase source
  GOOGLE_SHEET_URL, GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS - for the sheets source
  OUTPUT_DIR - where the XML file is written
  COMPANY_FILE - company profile (org number is logged only)`,
	Example: `  # ROT request from a JSON export of the invoices table
  exporter rotrut --type rot --input invoices.json

  # RUT request straight from the database, with an XLSX review report
  exporter rotrut --type rut --source supabase --report rut.xlsx

  # Report the invoice total as paid amount (older behaviour)
  exporter rotrut --type rot --legacy-paid-amount`,
	RunE: runRotRut,
}

func init() {
	rootCmd.AddCommand(rotrutCmd)

	rotrutCmd.Flags().String("type", "", "Avdragstyp: rot eller rut")
	rotrutCmd.Flags().Bool("legacy-paid-amount", false, "Betalt belopp = fakturabelopp (utan avdrag)")
	addSourceFlags(rotrutCmd)
	addCompanyFlags(rotrutCmd)
	_ = rotrutCmd.MarkFlagRequired("type")
}

func runRotRut(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("rotrut")

	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	typeFlag, _ := cmd.Flags().GetString("type")
	legacy, _ := cmd.Flags().GetBool("legacy-paid-amount")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	deduction, err := models.ParseDeductionType(typeFlag)
	if err != nil || deduction == models.DeductionNone {
		return fmt.Errorf("invalid --type %q: %w", typeFlag, export.ErrInvalidDeductionType)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	src, err := openSource(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	invoices, err := src.ListInvoices(ctx, services.InvoiceFilter{
		Statuses:   []models.InvoiceStatus{models.StatusPaid},
		RotRutType: deduction,
	})
	if err != nil {
		return fmt.Errorf("failed to read invoices: %w", err)
	}

	// The organisation number is only logged, so a missing profile is not fatal here.
	var orgNumber string
	if info, err := loadCompany(cmd, cfg); err != nil {
		log.Warn().Err(err).Msg("Company profile not loaded")
	} else {
		orgNumber = info.OrgNumber
	}

	opts := exportOptions(cfg)
	opts.LegacyPaidAmount = legacy

	res, err := rotrut.NewExporter(clock.System(), opts).Generate(invoices, deduction, orgNumber)
	if err != nil {
		if errors.Is(err, export.ErrNoEligibleRecords) {
			log.Warn().Str("type", string(deduction)).Msg("No eligible invoices")
			return fmt.Errorf("inga betalda %s-fakturor hittades: %w", deduction, err)
		}
		return fmt.Errorf("ROT/RUT export failed: %w", err)
	}

	path, err := export.NewFileEmitter(outputDir(cmd, cfg)).Emit(res.Content, res.Filename, res.MimeType)
	if err != nil {
		return err
	}

	reportPath, err := writeReport(cmd, report.RotRut, res, log)
	if err != nil {
		return err
	}

	households := make(map[string]bool)
	estimated := 0
	for _, c := range res.Cases {
		households[c.PersonalNumber] = true
		if c.HoursEstimated {
			estimated++
		}
	}

	s := newSummary(fmt.Sprintf("SKATTEVERKET %s-BEGÄRAN", deduction), path, res)
	s.Report = reportPath
	s.Details = []detail{
		{"Hushåll:", strconv.Itoa(len(households))},
		{"Ärenden:", strconv.Itoa(len(res.Cases))},
	}
	s.Footer = []string{
		fmt.Sprintf("Obs: timmar i %d ärenden är uppskattade från arbetskostnaden.", estimated),
		"Kontrollera begäran innan den laddas upp hos Skatteverket.",
	}

	return s.print(cmd.OutOrStdout(), jsonOutput)
}
