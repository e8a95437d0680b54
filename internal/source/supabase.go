package source

import (
	"context"
	"fmt"

	"github.com/nedpals/supabase-go"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"exporter/internal/logger"
	"exporter/pkg/models"
	"exporter/pkg/services"
)

const (
	invoicesTable  = "invoices"
	invoiceColumns = "id,invoice_number,issue_date,due_date,status,amount,rot_rut_type,rot_rut_amount,labor_cost,property_designation,customer:customers(name,org_number)"
)

// SupabaseSource reads the signed-in user's invoices from the CRM database.
type SupabaseSource struct {
	client *supabase.Client
	userID string
	log    zerolog.Logger
}

var _ services.InvoiceSource = (*SupabaseSource)(nil)

// NewSupabaseSource creates a source for the given project. All three values are
// required; rows are always scoped to userID.
func NewSupabaseSource(url, key, userID string) (*SupabaseSource, error) {
	const op = "NewSupabaseSource"

	switch {
	case url == "":
		return nil, fmt.Errorf("%s: %w: SUPABASE_URL is required", op, ErrMissingConfiguration)
	case key == "":
		return nil, fmt.Errorf("%s: %w: SUPABASE_KEY is required", op, ErrMissingConfiguration)
	case userID == "":
		return nil, fmt.Errorf("%s: %w: SUPABASE_USER_ID is required", op, ErrMissingConfiguration)
	}

	return &SupabaseSource{
		client: supabase.CreateClient(url, key),
		userID: userID,
		log:    logger.WithComponent("supabase-source"),
	}, nil
}

// ListInvoices queries invoices joined with their customer. Status, type and date
// range are pushed down to the query; Matches re-applies them so all sources agree.
func (s *SupabaseSource) ListInvoices(ctx context.Context, filter services.InvoiceFilter) ([]models.Invoice, error) {
	const op = "SupabaseSource.ListInvoices"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := s.client.DB.From(invoicesTable).
		Select(invoiceColumns).
		Eq("user_id", s.userID)

	if len(filter.Statuses) > 0 {
		query = query.In("status", lo.Map(filter.Statuses, func(st models.InvoiceStatus, _ int) string {
			return string(st)
		}))
	}
	if filter.RotRutType != models.DeductionNone {
		query = query.Eq("rot_rut_type", string(filter.RotRutType))
	}
	if !filter.From.IsZero() {
		query = query.Gte("issue_date", filter.From.Format("2006-01-02"))
	}
	if !filter.To.IsZero() {
		query = query.Lte("issue_date", filter.To.Format("2006-01-02"))
	}

	var rows []Row
	if err := query.Execute(&rows); err != nil {
		return nil, fmt.Errorf("%s: query %s: %w", op, invoicesTable, err)
	}

	invoices := make([]models.Invoice, 0, len(rows))
	for _, row := range rows {
		inv, err := row.ToInvoice()
		if err != nil {
			s.log.Warn().Err(err).Str("invoice_id", row.ID).Msg("Skipping unreadable invoice row")
			continue
		}
		if Matches(inv, filter) {
			invoices = append(invoices, inv)
		}
	}

	s.log.Info().
		Int("rows", len(rows)).
		Int("matched", len(invoices)).
		Msg("Invoices read from Supabase")

	return invoices, nil
}
