package export

import (
	"fmt"
	"time"

	"exporter/pkg/models"
)

const (
	MimeXML  = "application/xml"
	MimeText = "text/plain"
)

// RotRutFilename returns skatteverket_<type>_<YYYY-MM-DD>.xml.
func RotRutFilename(deduction models.DeductionType, on time.Time) string {
	return fmt.Sprintf("skatteverket_%s_%s.xml", deduction.Lower(), on.Format("2006-01-02"))
}

// SieFilename returns bokforing_<year>_<MM>.se when the period lies inside one calendar
// month, otherwise bokforing_<year>.se using the year the period starts in.
func SieFilename(start, end time.Time) string {
	if start.Year() == end.Year() && start.Month() == end.Month() {
		return fmt.Sprintf("bokforing_%d_%02d.se", start.Year(), int(start.Month()))
	}
	return fmt.Sprintf("bokforing_%d.se", start.Year())
}
