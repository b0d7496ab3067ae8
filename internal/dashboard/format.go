package dashboard

import (
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Missing is rendered in place of absent or NaN values.
const Missing = "-"

// Formatter renders numbers for a locale.
type Formatter struct {
	p        *message.Printer
	currency currency.Unit
}

// NewFormatter returns a Formatter for tag, using cur as the default currency.
func NewFormatter(tag language.Tag, cur currency.Unit) *Formatter {
	return &Formatter{p: message.NewPrinter(tag), currency: cur}
}

// Int renders v rounded to a whole number with grouping.
func (f *Formatter) Int(v float64) string {
	if math.IsNaN(v) {
		return Missing
	}
	return f.p.Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
}

// Count renders an optional count.
func (f *Formatter) Count(v *int64) string {
	if v == nil {
		return Missing
	}
	return f.p.Sprint(number.Decimal(*v))
}

// Number renders v with exactly digits fraction digits.
func (f *Formatter) Number(v float64, digits int) string {
	if math.IsNaN(v) {
		return Missing
	}
	return f.p.Sprint(number.Decimal(v,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits)))
}

// Currency renders v as a whole amount in code, or in the default currency
// when code is empty or unknown.
func (f *Formatter) Currency(v float64, code string) string {
	if math.IsNaN(v) {
		return Missing
	}
	unit := f.currency
	if code != "" {
		if u, err := currency.ParseISO(code); err == nil {
			unit = u
		}
	}
	return f.p.Sprint(currency.Symbol(unit)) + f.Int(v)
}
