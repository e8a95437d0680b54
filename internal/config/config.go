package config

import (
	"fmt"
	"os"
	"strings"

	"exporter/internal/logger"
)

// Invoice sources selectable with INVOICE_SOURCE.
const (
	SourceFile     = "file"
	SourceSupabase = "supabase"
	SourceSheets   = "sheets"
)

type Config struct {
	// Program identification written to the SIE #PROGRAM line
	ProgramName    string
	ProgramVersion string

	// Export Configuration
	SieEncoding string
	OutputDir   string
	CompanyFile string

	// Invoice source: file, supabase or sheets
	InvoiceSource string

	// Supabase Configuration
	SupabaseURL    string
	SupabaseKey    string
	SupabaseUserID string

	// Google Sheets Configuration
	GoogleSheetURL         string
	GoogleSheetWorksheet   string
	GoogleJournalWorksheet string
	GoogleCredentialsFile  string
	GoogleCredentials      string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		ProgramName:            getEnv("PROGRAM_NAME", "Hantverkarappen"),
		ProgramVersion:         getEnv("PROGRAM_VERSION", "1.0"),
		SieEncoding:            getEnv("SIE_ENCODING", "utf-8"),
		OutputDir:              getEnv("OUTPUT_DIR", "."),
		CompanyFile:            getEnv("COMPANY_FILE", "company.yaml"),
		InvoiceSource:          strings.ToLower(getEnv("INVOICE_SOURCE", SourceFile)),
		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabaseKey:            getEnv("SUPABASE_KEY", ""),
		SupabaseUserID:         getEnv("SUPABASE_USER_ID", ""),
		GoogleSheetURL:         getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet:   getEnv("GOOGLE_SHEET_WORKSHEET", "Fakturor"),
		GoogleJournalWorksheet: getEnv("GOOGLE_JOURNAL_WORKSHEET", "Verifikationer"),
		GoogleCredentialsFile:  getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GoogleCredentials:      getEnv("GOOGLE_CREDENTIALS", ""),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:          getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:              getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validate only checks values that are wrong regardless of the command. Credentials
// for a source are checked when that source is opened.
func (c *Config) validate() error {
	switch strings.ToLower(c.SieEncoding) {
	case "utf-8", "utf8", "cp437", "pc8", "ibm437":
	default:
		return fmt.Errorf("SIE_ENCODING must be utf-8 or cp437, got %q", c.SieEncoding)
	}
	switch c.InvoiceSource {
	case SourceFile, SourceSupabase, SourceSheets:
	default:
		return fmt.Errorf("INVOICE_SOURCE must be file, supabase or sheets, got %q", c.InvoiceSource)
	}
	if c.ProgramName == "" {
		return fmt.Errorf("PROGRAM_NAME must not be empty")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
