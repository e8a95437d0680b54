package export

import (
	"errors"
	"fmt"

	"exporter/pkg/models"
)

// Common export errors
var (
	// ErrNoEligibleRecords is returned when a ROT/RUT export finds no paid invoices of
	// the requested type. It is not retryable without changing the input data.
	ErrNoEligibleRecords = errors.New("no eligible invoices")

	// ErrInvalidDeductionType is returned when the deduction selector is neither ROT nor RUT.
	ErrInvalidDeductionType = errors.New("deduction type must be ROT or RUT")

	// ErrUnsupportedEncoding is returned for SIE encodings other than utf-8 and cp437.
	ErrUnsupportedEncoding = errors.New("unsupported SIE encoding")

	// ErrInvalidPeriod is returned when the SIE period ends before it starts.
	ErrInvalidPeriod = errors.New("period end is before period start")
)

// NoEligibleRecordsError carries the deduction type that had no qualifying invoices.
type NoEligibleRecordsError struct {
	Type models.DeductionType
}

// Error implements the error interface.
func (e *NoEligibleRecordsError) Error() string {
	return fmt.Sprintf("no paid %s invoices found", e.Type)
}

// Is matches ErrNoEligibleRecords.
func (e *NoEligibleRecordsError) Is(target error) bool {
	return target == ErrNoEligibleRecords
}

// ExportError wraps failures while serializing or emitting a file.
type ExportError struct {
	// Op is the operation that failed (e.g., "rotrut.Generate", "Emit").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("export: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("export: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewExportError creates a new ExportError with the specified operation and underlying error.
func NewExportError(op string, err error, details string) *ExportError {
	return &ExportError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapExportError wraps an error as an ExportError if it isn't already one.
func WrapExportError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return err
	}

	return NewExportError(op, err, details)
}
