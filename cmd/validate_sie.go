package cmd

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"exporter/internal/logger"
	"exporter/internal/sie"
)

var validateSieCmd = &cobra.Command{
	Use:   "validate-sie [file]",
	Short: "Check that an SIE file parses and every voucher balances",
	Long: `Read an SIE4 file and check every voucher:

  - the #TRANS amounts sum to exactly zero
  - every amount has exactly two decimals
  - every account is declared with #KONTO

The encoding is detected (UTF-8, otherwise CP437) unless --encoding is given.`,
	Example: `  exporter validate-sie bokforing_2026_09.se
  exporter validate-sie bokforing_2026.se --encoding cp437`,
	Args: cobra.ExactArgs(1),
	RunE: runValidateSie,
}

func init() {
	rootCmd.AddCommand(validateSieCmd)

	validateSieCmd.Flags().String("encoding", "", "Teckenkodning: utf-8 eller cp437 (standard: identifieras)")
}

func runValidateSie(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("validate-sie")

	path := args[0]
	encFlag, _ := cmd.Flags().GetString("encoding")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read SIE file: %w", err)
	}

	enc := sie.EncodingUTF8
	if encFlag != "" {
		if enc, err = sie.NormalizeEncoding(encFlag); err != nil {
			return err
		}
	} else if !utf8.Valid(data) {
		enc = sie.EncodingCP437
	}

	text, err := sie.Decode(data, enc)
	if err != nil {
		return err
	}

	file, err := sie.Parse(text)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, banner)
	fmt.Fprintln(out, titleStyle.Render("SIE-KONTROLL"))
	fmt.Fprintln(out, banner)
	fmt.Fprintf(out, "%s%s\n", labelStyle.Render("Fil:"), path)
	fmt.Fprintf(out, "%s%s\n", labelStyle.Render("Företag:"), file.CompanyName)
	fmt.Fprintf(out, "%s%s\n", labelStyle.Render("Teckenkodning:"), enc)
	fmt.Fprintf(out, "%s%d\n", labelStyle.Render("Konton:"), len(file.Accounts))
	fmt.Fprintf(out, "%s%d\n", labelStyle.Render("Verifikationer:"), len(file.Vouchers))
	fmt.Fprintln(out)

	if err := sie.Validate(file); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("SIE file failed validation")

		fmt.Fprintln(out, "=== FEL ===")
		var pe *sie.ParseError
		for _, e := range unwrapAll(err) {
			if errors.As(e, &pe) {
				fmt.Fprintf(out, "%s rad %d: %s\n", skipTagStyle.Render("FEL"), pe.Line, pe.Msg)
				continue
			}
			fmt.Fprintf(out, "%s %v\n", skipTagStyle.Render("FEL"), e)
		}
		return fmt.Errorf("%s is not a valid SIE file", path)
	}

	log.Info().Str("file", path).Int("vouchers", len(file.Vouchers)).Msg("SIE file valid")
	fmt.Fprintln(out, okStyle.Render("Alla verifikationer balanserar."))
	return nil
}

// unwrapAll flattens an errors.Join result.
func unwrapAll(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
