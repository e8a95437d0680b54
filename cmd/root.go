package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"exporter/internal/config"
	"exporter/internal/logger"
)

var version = "1.0.0"

// appConfig is set by Execute. It is nil when the environment failed validation.
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Exporter - accounting files for Swedish tradespeople",
	Long: `Exporter turns CRM invoices into the files a Swedish small business hands on:

  rotrut        Skatteverket XML request for ROT/RUT labour deduction reimbursement
  sie           SIE4 bookkeeping file for Fortnox, Visma, Bokio and similar
  validate-sie  check that an SIE file parses and every voucher balances

Invoices are read from a JSON file, Supabase or Google Sheets (INVOICE_SOURCE).`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Exporter executed without subcommand")

		_ = cmd.Help()
	},
}

// Execute runs the root command with the loaded configuration.
func Execute(cfg *config.Config) {
	log := logger.WithComponent("cmd")
	appConfig = cfg

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Fel: %v\n", err)
		os.Exit(1)
	}
}

func requireConfig() (*config.Config, error) {
	if appConfig == nil {
		return nil, fmt.Errorf("configuration not loaded, check the environment variables (see --help)")
	}
	return appConfig, nil
}
