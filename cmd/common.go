package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"exporter/internal/company"
	"exporter/internal/config"
	"exporter/internal/export"
	"exporter/internal/sheets"
	"exporter/internal/source"
	"exporter/pkg/models"
	"exporter/pkg/services"
)

// addSourceFlags registers the flags shared by the export commands.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "", "Fakturakälla: file, supabase eller sheets (standard: INVOICE_SOURCE)")
	cmd.Flags().String("input", "invoices.json", "JSON-fil med fakturor (för --source file)")
	cmd.Flags().String("output-dir", "", "Katalog för den skapade filen (standard: OUTPUT_DIR)")
	cmd.Flags().String("report", "", "Skriv även en XLSX-rapport till denna sökväg")
	cmd.Flags().Bool("json", false, "Skriv sammanfattningen som JSON")
}

// newSheetsService connects to the spreadsheet named by GOOGLE_SHEET_URL.
func newSheetsService(ctx context.Context, cfg *config.Config) (*sheets.Service, error) {
	if cfg.GoogleSheetURL == "" {
		return nil, fmt.Errorf("%w: GOOGLE_SHEET_URL is required", source.ErrMissingConfiguration)
	}
	creds, err := sheets.LoadCredentials(cfg.GoogleCredentialsFile, cfg.GoogleCredentials)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", source.ErrMissingConfiguration, err)
	}
	return sheets.NewSheetsService(ctx, cfg.GoogleSheetURL, creds)
}

// openSource picks the invoice source from --source, falling back to INVOICE_SOURCE.
func openSource(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (services.InvoiceSource, error) {
	kind, _ := cmd.Flags().GetString("source")
	if kind == "" {
		kind = cfg.InvoiceSource
	}

	switch kind {
	case config.SourceFile:
		input, _ := cmd.Flags().GetString("input")
		return source.NewFileSource(input)
	case config.SourceSupabase:
		return source.NewSupabaseSource(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseUserID)
	case config.SourceSheets:
		svc, err := newSheetsService(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return source.NewSheetSource(svc, cfg.GoogleSheetWorksheet), nil
	default:
		return nil, fmt.Errorf("unknown invoice source %q (must be file, supabase or sheets)", kind)
	}
}

func outputDir(cmd *cobra.Command, cfg *config.Config) string {
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		return dir
	}
	return cfg.OutputDir
}

func exportOptions(cfg *config.Config) services.ExportOptions {
	return services.ExportOptions{
		ProgramName:    cfg.ProgramName,
		ProgramVersion: cfg.ProgramVersion,
		Encoding:       cfg.SieEncoding,
	}
}

// loadCompany reads COMPANY_FILE with the --company-* flags layered on top.
func loadCompany(cmd *cobra.Command, cfg *config.Config) (models.CompanyInfo, error) {
	name, _ := cmd.Flags().GetString("company-name")
	org, _ := cmd.Flags().GetString("org-number")
	contact, _ := cmd.Flags().GetString("contact-person")

	return company.NewLoader().Load(cfg.CompanyFile, models.CompanyInfo{
		Name:          name,
		OrgNumber:     org,
		ContactPerson: contact,
	})
}

func addCompanyFlags(cmd *cobra.Command) {
	cmd.Flags().String("company-name", "", "Företagsnamn (ersätter värdet i COMPANY_FILE)")
	cmd.Flags().String("org-number", "", "Organisationsnummer (ersätter värdet i COMPANY_FILE)")
	cmd.Flags().String("contact-person", "", "Kontaktperson (ersätter värdet i COMPANY_FILE)")
}

// writeReport saves an XLSX report when --report was given.
func writeReport(cmd *cobra.Command, render func(*services.ExportResult) ([]byte, error), res *services.ExportResult, log zerolog.Logger) (string, error) {
	path, _ := cmd.Flags().GetString("report")
	if path == "" {
		return "", nil
	}

	data, err := render(res)
	if err != nil {
		return "", export.WrapExportError("writeReport", err, "failed to render report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", export.WrapExportError("writeReport", err, "failed to write report")
	}

	log.Info().Str("path", path).Int("bytes", len(data)).Msg("Report written")
	return path, nil
}
