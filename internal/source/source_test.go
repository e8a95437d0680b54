package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exporter/pkg/models"
	"exporter/pkg/services"
)

const invoicesJSON = `[
  {
    "id": "a1",
    "invoice_number": 1001,
    "issue_date": "2026-09-01",
    "due_date": "2026-09-30",
    "status": "paid",
    "amount": 20000,
    "rot_rut_type": "ROT",
    "rot_rut_amount": "5000.00",
    "labor_cost": 10000,
    "property_designation": "STOCKHOLM SÖDERMALM 1:23",
    "customer": {"name": "Anna Andersson", "org_number": "19800101-1234"}
  },
  {
    "id": "a2",
    "invoice_number": 1002,
    "issue_date": "2026-09-10T08:15:00Z",
    "due_date": null,
    "status": "sent",
    "amount": 1250.5,
    "rot_rut_type": null,
    "rot_rut_amount": null,
    "labor_cost": null,
    "property_designation": null,
    "customer": null
  }
]`

func writeInvoices(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoices.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSource(t *testing.T) {
	src, err := NewFileSource(writeInvoices(t, invoicesJSON))
	require.NoError(t, err)

	invoices, err := src.ListInvoices(context.Background(), services.InvoiceFilter{})
	require.NoError(t, err)
	require.Len(t, invoices, 2)

	rot := invoices[0]
	assert.Equal(t, 1001, rot.InvoiceNumber)
	assert.Equal(t, models.StatusPaid, rot.Status)
	assert.Equal(t, models.DeductionROT, rot.RotRutType)
	assert.True(t, decimal.NewFromInt(5000).Equal(*rot.RotRutAmount))
	assert.True(t, decimal.NewFromInt(10000).Equal(*rot.LaborCost))
	assert.Equal(t, "STOCKHOLM SÖDERMALM 1:23", rot.PropertyDesignation)
	assert.Equal(t, "19800101-1234", rot.PersonalNumber())
	assert.Equal(t, time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), rot.DueDate)

	plain := invoices[1]
	assert.Equal(t, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), plain.IssueDate)
	assert.True(t, plain.DueDate.IsZero())
	assert.Nil(t, plain.RotRutAmount)
	assert.Nil(t, plain.Customer)
	assert.Equal(t, models.DeductionNone, plain.RotRutType)
}

func TestFileSource_Filter(t *testing.T) {
	src, err := NewFileSource(writeInvoices(t, invoicesJSON))
	require.NoError(t, err)

	invoices, err := src.ListInvoices(context.Background(), services.InvoiceFilter{
		Statuses: []models.InvoiceStatus{models.StatusSent},
	})
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, 1002, invoices[0].InvoiceNumber)
}

func TestFileSource_Errors(t *testing.T) {
	_, err := NewFileSource("")
	assert.True(t, errors.Is(err, ErrMissingConfiguration))

	src, err := NewFileSource(writeInvoices(t, `[{"invoice_number": 1, "issue_date": "2026-01-01", "status": "lost", "amount": 1}]`))
	require.NoError(t, err)
	_, err = src.ListInvoices(context.Background(), services.InvoiceFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown status")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.ListInvoices(ctx, services.InvoiceFilter{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMatches(t *testing.T) {
	inv := models.Invoice{
		IssueDate:  time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Status:     models.StatusPaid,
		RotRutType: models.DeductionRUT,
	}

	tests := []struct {
		name   string
		filter services.InvoiceFilter
		want   bool
	}{
		{"no restriction", services.InvoiceFilter{}, true},
		{"status hit", services.InvoiceFilter{Statuses: []models.InvoiceStatus{models.StatusSent, models.StatusPaid}}, true},
		{"status miss", services.InvoiceFilter{Statuses: []models.InvoiceStatus{models.StatusDraft}}, false},
		{"type miss", services.InvoiceFilter{RotRutType: models.DeductionROT}, false},
		{"inclusive bounds", services.InvoiceFilter{From: inv.IssueDate, To: inv.IssueDate}, true},
		{"before range", services.InvoiceFilter{From: time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)}, false},
		{"after range", services.InvoiceFilter{To: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(inv, tt.filter))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"1250", "1250"},
		{"1 234,50 kr", "1234.5"},
		{"1 234,50", "1234.5"},
		{"1.234,50 SEK", "1234.5"},
		{"99,9", "99.9"},
		{"500:-", "500"},
		{"−100", "-100"},
		{"12.5", "12.5"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}

	_, err := parseAmount("tolv kronor")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2026-09-05", "2026-09-05T23:10:00+02:00", "20260905", "05.09.2026", "5/9/2026"} {
		got, err := parseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseDate("")
	assert.Error(t, err)
}

func TestNewSupabaseSource_MissingConfiguration(t *testing.T) {
	_, err := NewSupabaseSource("", "key", "user")
	assert.True(t, errors.Is(err, ErrMissingConfiguration))

	_, err = NewSupabaseSource("https://example.supabase.co", "key", "")
	assert.True(t, errors.Is(err, ErrMissingConfiguration))
}
