package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exporter/internal/config"
	"exporter/internal/rotrut"
	"exporter/internal/sie"
	"exporter/pkg/services"
)

const testInvoices = `[
  {"id": "a", "invoice_number": 1001, "issue_date": "2026-09-05", "due_date": "2026-09-30",
   "status": "paid", "amount": 20000, "rot_rut_type": "ROT", "rot_rut_amount": 5000,
   "labor_cost": 10000, "property_designation": "STOCKHOLM SÖDERMALM 1:23",
   "customer": {"name": "Anna Andersson", "org_number": "19800101-1234"}},
  {"id": "b", "invoice_number": 1002, "issue_date": "2026-09-12", "due_date": "2026-10-12",
   "status": "sent", "amount": 1250, "customer": {"name": "Bygg & Co AB", "org_number": "556677-8899"}},
  {"id": "c", "invoice_number": 1003, "issue_date": "2026-09-20", "status": "draft", "amount": 500}
]`

func setup(t *testing.T) (dir string, input string) {
	t.Helper()
	dir = t.TempDir()
	input = filepath.Join(dir, "invoices.json")
	require.NoError(t, os.WriteFile(input, []byte(testInvoices), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "company.yaml"),
		[]byte("name: Svenssons Bygg AB\norg_number: 556677-8899\ncontact_person: Erik Svensson\n"), 0o600))

	appConfig = &config.Config{
		ProgramName:    "Hantverkarappen",
		ProgramVersion: "1.0",
		SieEncoding:    "utf-8",
		OutputDir:      dir,
		CompanyFile:    filepath.Join(dir, "company.yaml"),
		InvoiceSource:  config.SourceFile,
	}
	t.Cleanup(func() { appConfig = nil })
	return dir, input
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	dir, input := setup(t)

	t.Run("rotrut", func(t *testing.T) {
		out, err := run(t, "rotrut", "--type", "rot", "--input", input, "--json",
			"--report", filepath.Join(dir, "rot.xlsx"))
		require.NoError(t, err)

		var got struct {
			Path     string             `json:"path"`
			Included int                `json:"included"`
			Warnings []services.Warning `json:"warnings"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, 1, got.Included)
		assert.Empty(t, got.Warnings)
		assert.True(t, strings.HasPrefix(filepath.Base(got.Path), "skatteverket_rot_"))

		data, err := os.ReadFile(got.Path)
		require.NoError(t, err)
		doc, err := rotrut.ParseBegaran(data)
		require.NoError(t, err)
		require.Len(t, doc.Hushall, 1)
		assert.Equal(t, "198001011234", doc.Hushall[0].Pnr)

		assert.FileExists(t, filepath.Join(dir, "rot.xlsx"))
	})

	t.Run("rotrut without eligible invoices", func(t *testing.T) {
		_, err := run(t, "rotrut", "--type", "rut", "--input", input, "--report=", "--json=false")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RUT")
	})

	t.Run("sie and validate-sie", func(t *testing.T) {
		out, err := run(t, "sie", "--from", "2026-09-01", "--to", "2026-09-30", "--input", input, "--json=false")
		require.NoError(t, err)
		assert.Contains(t, out, "SIE4-EXPORT")
		assert.Contains(t, out, "Svenssons Bygg AB")

		path := filepath.Join(dir, "bokforing_2026_09.se")
		data, err := os.ReadFile(path)
		require.NoError(t, err)

		f, err := sie.Parse(string(data))
		require.NoError(t, err)
		require.Len(t, f.Vouchers, 2)
		assert.Equal(t, 1001, f.Vouchers[0].Number)
		assert.Equal(t, 1002, f.Vouchers[1].Number)

		out, err = run(t, "validate-sie", path)
		require.NoError(t, err)
		assert.Contains(t, out, "balanserar")
	})

	t.Run("sie rejects reversed period", func(t *testing.T) {
		_, err := run(t, "sie", "--from", "2026-09-30", "--to", "2026-09-01", "--input", input)
		require.Error(t, err)
	})

	t.Run("validate-sie reports unbalanced voucher", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.se")
		require.NoError(t, os.WriteFile(bad, []byte("#KONTO 1510 \"Kundfordringar\"\n#VER A 1 20260901 \"x\"\n{\n#TRANS 1510 {} 10.00\n}\n"), 0o600))

		out, err := run(t, "validate-sie", bad)
		require.Error(t, err)
		assert.Contains(t, out, "rad 2")
	})
}

func TestRequireConfig(t *testing.T) {
	appConfig = nil
	_, err := requireConfig()
	assert.Error(t, err)
}
