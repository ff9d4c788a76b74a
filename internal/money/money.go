// Package money parses user-entered amounts and formats them for display.
//
// Amounts are carried as decimal.Decimal and persisted as integer cents.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ErrInvalidAmount is returned for anything that is not a positive number.
var ErrInvalidAmount = errors.New("amount must be a positive number")

// MaxAmount keeps cent values well inside int64.
var MaxAmount = decimal.New(1, 12)

// ParseAmount converts s to a positive decimal rounded half-up to two places.
//
//	ParseAmount("12.34")  -> 12.34
//	ParseAmount("12.345") -> 12.35
//	ParseAmount("0")      -> ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Normalize(d)
}

// Normalize rounds d to cents and checks that it is positive and in range.
func Normalize(d decimal.Decimal) (decimal.Decimal, error) {
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.GreaterThanOrEqual(MaxAmount) {
		return decimal.Zero, fmt.Errorf("%w: %s is too large", ErrInvalidAmount, d.String())
	}
	return d, nil
}

// ToCents converts d to whole cents.
func ToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// FromCents converts whole cents to a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Display defaults shared by configuration and DefaultFormatter.
const (
	DefaultSymbol = "₹"
	DefaultLocale = "en-IN"
)

// Formatter renders amounts as a currency string with locale grouping and
// two decimal places, e.g. "₹1,234.50".
type Formatter struct {
	symbol  string
	point   string
	printer *message.Printer
}

// NewFormatter builds a Formatter for the given symbol and BCP 47 locale.
func NewFormatter(symbol, locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return newFormatter(symbol, tag), nil
}

// DefaultFormatter renders amounts with DefaultSymbol and DefaultLocale.
func DefaultFormatter() *Formatter {
	return newFormatter(DefaultSymbol, language.MustParse(DefaultLocale))
}

func newFormatter(symbol string, tag language.Tag) *Formatter {
	p := message.NewPrinter(tag)
	// The locale's decimal separator, taken from a rendered 1.5.
	point := strings.Trim(p.Sprintf("%v", number.Decimal(1.5, number.Scale(1))), "15")
	if point == "" {
		point = "."
	}
	return &Formatter{symbol: symbol, point: point, printer: p}
}

// Format renders d. Negative values get a leading minus before the symbol.
// Only the integer part goes through the locale printer, so no digits are
// lost to floating point.
func (f *Formatter) Format(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()

	return fmt.Sprintf("%s%s%s%s%02d", sign, f.symbol,
		f.printer.Sprintf("%v", number.Decimal(whole.IntPart())), f.point, cents)
}
