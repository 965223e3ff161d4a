package statements

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money pairs a raw amount with its locale-formatted display string. The
// currency has no subunit, so the display rounds to whole rupiah while
// Value keeps the unrounded figure for downstream arithmetic.
type Money struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// Formatter renders amounts for one locale and currency symbol.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter builds a formatter for the given language tag.
func NewFormatter(tag language.Tag, symbol string) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag), symbol: symbol}
}

// DefaultFormatter formats Indonesian rupiah, the deployment currency.
func DefaultFormatter() *Formatter {
	return NewFormatter(language.Indonesian, "Rp")
}

// Money wraps a raw amount with its display string.
func (f *Formatter) Money(v float64) Money {
	return Money{Value: v, Display: f.Format(v)}
}

// Format renders the amount with locale digit grouping, e.g. "Rp 1.000.000".
func (f *Formatter) Format(v float64) string {
	whole := int64(math.Round(v))
	if whole < 0 {
		return f.printer.Sprintf("-%s %d", f.symbol, -whole)
	}
	return f.printer.Sprintf("%s %d", f.symbol, whole)
}
