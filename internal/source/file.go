package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"exporter/internal/logger"
	"exporter/pkg/models"
	"exporter/pkg/services"
)

// FileSource reads a JSON array of Row objects, e.g. a table export from the CRM.
type FileSource struct {
	path string
	log  zerolog.Logger
}

var _ services.InvoiceSource = (*FileSource)(nil)

// NewFileSource creates a source reading path.
func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		return nil, fmt.Errorf("NewFileSource: %w: input file path is empty", ErrMissingConfiguration)
	}
	return &FileSource{path: path, log: logger.WithComponent("file-source")}, nil
}

// ListInvoices reads the file and returns the invoices matching filter in file order.
// A row that cannot be converted fails the whole read.
func (s *FileSource) ListInvoices(ctx context.Context, filter services.InvoiceFilter) ([]models.Invoice, error) {
	const op = "FileSource.ListInvoices"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%s: parsing %s: %w", op, s.path, err)
	}

	invoices := make([]models.Invoice, 0, len(rows))
	for _, row := range rows {
		inv, err := row.ToInvoice()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if Matches(inv, filter) {
			invoices = append(invoices, inv)
		}
	}

	s.log.Info().
		Str("path", s.path).
		Int("rows", len(rows)).
		Int("matched", len(invoices)).
		Msg("Invoices read from file")

	return invoices, nil
}
