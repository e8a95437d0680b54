package export_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exporter/internal/export"
	"exporter/pkg/models"
	"exporter/pkg/services"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNoEligibleRecordsError(t *testing.T) {
	err := error(&export.NoEligibleRecordsError{Type: models.DeductionRUT})
	assert.True(t, errors.Is(err, export.ErrNoEligibleRecords))
	assert.Equal(t, "no paid RUT invoices found", err.Error())

	var target *export.NoEligibleRecordsError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, models.DeductionRUT, target.Type)
}

func TestWrapExportError(t *testing.T) {
	assert.Nil(t, export.WrapExportError("op", nil, ""))

	base := errors.New("disk full")
	wrapped := export.WrapExportError("Emit", base, "write")
	assert.ErrorIs(t, wrapped, base)
	assert.Equal(t, "export: Emit failed: write: disk full", wrapped.Error())

	again := export.WrapExportError("Other", wrapped, "")
	assert.Same(t, wrapped, again)
}

func TestFilenames(t *testing.T) {
	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "skatteverket_rot_2026-03-14.xml", export.RotRutFilename(models.DeductionROT, day))
	assert.Equal(t, "skatteverket_rut_2026-03-14.xml", export.RotRutFilename(models.DeductionRUT, day))

	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	jan31 := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	dec31 := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "bokforing_2026_01.se", export.SieFilename(jan1, jan31))
	assert.Equal(t, "bokforing_2026.se", export.SieFilename(jan1, dec31))
}

func TestCheckIntegrity(t *testing.T) {
	tests := []struct {
		name  string
		inv   models.Invoice
		field string
	}{
		{"valid plain invoice", models.Invoice{Amount: decimal.NewFromInt(1250)}, ""},
		{"valid rot invoice", models.Invoice{Amount: decimal.NewFromInt(20000), LaborCost: decPtr("10000"), RotRutAmount: decPtr("3000")}, ""},
		{"zero everything", models.Invoice{}, ""},
		{"negative amount", models.Invoice{Amount: decimal.NewFromInt(-1)}, "amount"},
		{"negative labor", models.Invoice{Amount: decimal.NewFromInt(10), LaborCost: decPtr("-5")}, "labor_cost"},
		{"negative deduction", models.Invoice{Amount: decimal.NewFromInt(10), RotRutAmount: decPtr("-5")}, "rot_rut_amount"},
		{"deduction over labor", models.Invoice{Amount: decimal.NewFromInt(100), LaborCost: decPtr("50"), RotRutAmount: decPtr("60")}, "rot_rut_amount"},
		{"labor over amount", models.Invoice{Amount: decimal.NewFromInt(100), LaborCost: decPtr("150")}, "labor_cost"},
		{"deduction without labor", models.Invoice{Amount: decimal.NewFromInt(20000), RotRutAmount: decPtr("5000")}, "rot_rut_amount"},
		{"deduction over amount", models.Invoice{Amount: decimal.NewFromInt(100), LaborCost: decPtr("100"), RotRutAmount: decPtr("150")}, "rot_rut_amount"},
		{"zero deduction without labor", models.Invoice{Amount: decimal.NewFromInt(100), RotRutAmount: decPtr("0")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := export.CheckIntegrity(&tt.inv)
			if tt.field == "" {
				assert.Nil(t, w)
				return
			}
			require.NotNil(t, w)
			assert.Equal(t, services.WarningDataIntegrityViolation, w.Kind)
			assert.Equal(t, tt.field, w.Field)
			assert.True(t, w.Skipped)
		})
	}
}

func TestFileEmitter_WritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	emitter := export.NewFileEmitter(dir)

	path, err := emitter.Emit([]byte("#FLAGGA 0\n"), "bokforing_2026.se", export.MimeText)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bokforing_2026.se"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#FLAGGA 0\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not remain")
}

func TestFileEmitter_RejectsPathInFilename(t *testing.T) {
	emitter := export.NewFileEmitter(t.TempDir())
	_, err := emitter.Emit([]byte("x"), "../escape.xml", export.MimeXML)
	require.Error(t, err)
	var exportErr *export.ExportError
	assert.True(t, errors.As(err, &exportErr))
}
