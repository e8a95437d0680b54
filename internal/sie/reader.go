package sie

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"exporter/internal/money"
)

// ParseError reports a malformed line.
type ParseError struct {
	Line int
	Msg  string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("sie: line %d: %s", e.Line, e.Msg)
}

// File is the subset of an SIE4 file this package writes.
type File struct {
	Program     []string
	Format      string
	SieType     string
	CompanyName string
	OrgNumber   string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Accounts    []Account
	Vouchers    []Voucher
}

// Voucher is a parsed #VER block.
type Voucher struct {
	Series       string
	Number       int
	Date         time.Time
	Text         string
	Transactions []Transaction
	Line         int
}

// Transaction is a parsed #TRANS row. Raw keeps the amount exactly as written.
type Transaction struct {
	Account string
	Amount  decimal.Decimal
	Raw     string
	Line    int
}

// Parse reads SIE text (already decoded to UTF-8).
func Parse(text string) (*File, error) {
	f := &File{}
	var current *Voucher

	sc := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}

		switch raw {
		case "{":
			if current == nil {
				return nil, &ParseError{lineNo, "'{' without #VER"}
			}
			continue
		case "}":
			if current == nil {
				return nil, &ParseError{lineNo, "'}' without #VER"}
			}
			f.Vouchers = append(f.Vouchers, *current)
			current = nil
			continue
		}

		tokens, err := tokenize(raw)
		if err != nil {
			return nil, &ParseError{lineNo, err.Error()}
		}
		label, args := tokens[0], tokens[1:]

		switch label {
		case "#PROGRAM":
			f.Program = args
		case "#FORMAT":
			f.Format = arg(args, 0)
		case "#SIETYP":
			f.SieType = arg(args, 0)
		case "#FNAMN":
			f.CompanyName = arg(args, 0)
		case "#ORGNR":
			f.OrgNumber = arg(args, 0)
		case "#RAR":
			if len(args) < 3 {
				return nil, &ParseError{lineNo, "#RAR needs 3 fields"}
			}
			if f.PeriodStart, err = time.Parse(sieDate, args[1]); err != nil {
				return nil, &ParseError{lineNo, "bad #RAR start date"}
			}
			if f.PeriodEnd, err = time.Parse(sieDate, args[2]); err != nil {
				return nil, &ParseError{lineNo, "bad #RAR end date"}
			}
		case "#KONTO":
			if len(args) < 2 {
				return nil, &ParseError{lineNo, "#KONTO needs 2 fields"}
			}
			f.Accounts = append(f.Accounts, Account{Number: args[0], Name: args[1]})
		case "#VER":
			if current != nil {
				return nil, &ParseError{lineNo, "#VER inside another #VER"}
			}
			if len(args) < 3 {
				return nil, &ParseError{lineNo, "#VER needs series, number and date"}
			}
			num, err := strconv.Atoi(args[1])
			if err != nil {
				return nil, &ParseError{lineNo, "bad voucher number " + args[1]}
			}
			date, err := time.Parse(sieDate, args[2])
			if err != nil {
				return nil, &ParseError{lineNo, "bad voucher date " + args[2]}
			}
			current = &Voucher{Series: args[0], Number: num, Date: date, Text: arg(args, 3), Line: lineNo}
		case "#TRANS":
			if current == nil {
				return nil, &ParseError{lineNo, "#TRANS outside #VER"}
			}
			if len(args) < 3 {
				return nil, &ParseError{lineNo, "#TRANS needs account, object list and amount"}
			}
			amount, err := decimal.NewFromString(args[2])
			if err != nil {
				return nil, &ParseError{lineNo, "bad amount " + args[2]}
			}
			current.Transactions = append(current.Transactions, Transaction{
				Account: args[0],
				Amount:  amount,
				Raw:     args[2],
				Line:    lineNo,
			})
		default:
			// Other directives are legal SIE but not produced here.
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("sie: read: %w", err)
	}
	if current != nil {
		return nil, &ParseError{lineNo, fmt.Sprintf("voucher %d not closed", current.Number)}
	}

	return f, nil
}

// Validate checks the properties every generated file must hold: each voucher sums to
// zero, every amount has exactly two decimals, and every account is declared. All
// problems are returned joined.
func Validate(f *File) error {
	var errs []error

	declared := make(map[string]bool, len(f.Accounts))
	for _, a := range f.Accounts {
		declared[a.Number] = true
	}

	for _, v := range f.Vouchers {
		sum := decimal.Zero
		for _, t := range v.Transactions {
			sum = sum.Add(t.Amount)
			if dot := strings.IndexByte(t.Raw, '.'); dot < 0 || len(t.Raw)-dot-1 != 2 {
				errs = append(errs, &ParseError{t.Line, fmt.Sprintf("amount %s must have exactly two decimals", t.Raw)})
			}
			if !declared[t.Account] {
				errs = append(errs, &ParseError{t.Line, fmt.Sprintf("account %s is not declared", t.Account)})
			}
		}
		if !sum.IsZero() {
			errs = append(errs, &ParseError{v.Line, fmt.Sprintf("voucher %s %d does not balance: %s", v.Series, v.Number, money.FormatSIE(sum))})
		}
	}

	return errors.Join(errs...)
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// tokenize splits a directive into fields. Quoted strings are unquoted, "{...}" object
// lists are kept as one token.
func tokenize(line string) ([]string, error) {
	var tokens []string
	runes := []rune(line)

	for i := 0; i < len(runes); {
		switch r := runes[i]; {
		case r == ' ' || r == '\t':
			i++
		case r == '"':
			var b strings.Builder
			i++
			closed := false
			for i < len(runes) {
				if runes[i] == '\\' && i+1 < len(runes) {
					b.WriteRune(runes[i+1])
					i += 2
					continue
				}
				if runes[i] == '"' {
					closed = true
					i++
					break
				}
				b.WriteRune(runes[i])
				i++
			}
			if !closed {
				return nil, errors.New("unterminated string")
			}
			tokens = append(tokens, b.String())
		case r == '{':
			start := i
			for i < len(runes) && runes[i] != '}' {
				i++
			}
			if i == len(runes) {
				return nil, errors.New("unterminated object list")
			}
			i++
			tokens = append(tokens, string(runes[start:i]))
		default:
			start := i
			for i < len(runes) && runes[i] != ' ' && runes[i] != '\t' {
				i++
			}
			tokens = append(tokens, string(runes[start:i]))
		}
	}

	if len(tokens) == 0 {
		return nil, errors.New("empty directive")
	}
	return tokens, nil
}
