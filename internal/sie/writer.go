package sie

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"exporter/internal/money"
	"exporter/pkg/models"
	"exporter/pkg/services"
)

const (
	sieDate = "20060102"
	sieTime = "150405"

	maxCompanyName = 30
)

// Header holds the values of the fixed header block.
type Header struct {
	ProgramName    string
	ProgramVersion string
	GeneratedAt    time.Time
	Company        models.CompanyInfo
	PeriodStart    time.Time
	PeriodEnd      time.Time
}

// writer accumulates SIE directives, one per line, each terminated by "\n".
type writer struct {
	b strings.Builder
}

func (w *writer) line(label string, fields ...string) {
	w.b.WriteString(label)
	for _, f := range fields {
		w.b.WriteByte(' ')
		w.b.WriteString(f)
	}
	w.b.WriteByte('\n')
}

func (w *writer) header(h Header) {
	w.line("#FLAGGA", "0")
	w.line("#PROGRAM", quote(h.ProgramName), quote(h.ProgramVersion))
	w.line("#FORMAT", "PC8")
	w.line("#GEN", h.GeneratedAt.Format(sieDate), h.GeneratedAt.Format(sieTime), quote(Signature(h.Company.ContactPerson)))
	w.line("#SIETYP", "4")
	w.line("#FNAMN", quote(truncateRunes(h.Company.Name, maxCompanyName)))
	if org := digitsOnly(h.Company.OrgNumber); org != "" {
		w.line("#ORGNR", org)
	}
	w.line("#RAR", "0", h.PeriodStart.Format(sieDate), h.PeriodEnd.Format(sieDate))
}

func (w *writer) accounts() {
	for _, a := range ChartOfAccounts {
		w.line("#KONTO", a.Number, quote(a.Name))
	}
}

func (w *writer) voucher(v services.VoucherSummary) {
	date := v.Date.Format(sieDate)
	text := quote(v.Text)

	w.line("#VER", "A", strconv.Itoa(v.Number), date, text)
	w.line("{")
	for _, l := range v.Lines {
		w.line("#TRANS", l.Account, "{}", money.FormatSIE(l.Amount), date, text)
	}
	w.line("}")
}

func (w *writer) String() string {
	return w.b.String()
}

// Signature is the three-letter user signature for #GEN: the first three letters of
// the contact person, uppercased, or "UNK" when no contact person is given.
func Signature(contactPerson string) string {
	name := strings.TrimSpace(contactPerson)
	if name == "" {
		return "UNK"
	}
	return strings.ToUpper(truncateRunes(name, 3))
}

// quote wraps s in double quotes, escaping embedded quotes and backslashes and
// dropping control characters, which would break the line-based format.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case unicode.IsControl(r):
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
