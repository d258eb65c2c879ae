// Package money formats and parses rupee amounts for display.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts with a currency symbol and locale digit grouping.
type Formatter struct {
	Symbol string
	Tag    language.Tag
}

// DefaultFormatter renders ₹ with English grouping.
var DefaultFormatter = Formatter{Symbol: "₹", Tag: language.English}

// NewFormatter builds a Formatter from a BCP 47 locale such as "en-IN".
func NewFormatter(symbol, locale string) (Formatter, error) {
	tag := language.English
	if locale != "" {
		var err error
		tag, err = language.Parse(locale)
		if err != nil {
			return Formatter{}, fmt.Errorf("invalid locale %q: %w", locale, err)
		}
	}
	return Formatter{Symbol: symbol, Tag: tag}, nil
}

// Format renders amount like "₹1,300" or "-₹50.25". Paise are shown only
// when non-zero.
func (f Formatter) Format(amount decimal.Decimal) string {
	abs := amount.Abs().Round(2)
	whole := abs.Truncate(0)

	p := message.NewPrinter(f.Tag)
	s := p.Sprintf("%d", whole.IntPart())
	if paise := abs.Sub(whole).Shift(2).IntPart(); paise != 0 {
		s += fmt.Sprintf(".%02d", paise)
	}

	if amount.Round(2).IsNegative() {
		return "-" + f.Symbol + s
	}
	return f.Symbol + s
}

// Format renders amount with DefaultFormatter.
func Format(amount decimal.Decimal) string {
	return DefaultFormatter.Format(amount)
}

// Parse reads user input such as "₹1,300.50" or "1300" into a decimal.
func Parse(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	neg := strings.HasPrefix(clean, "-")
	clean = strings.TrimPrefix(clean, "-")
	clean = strings.TrimPrefix(clean, "₹")
	clean = strings.TrimPrefix(clean, "Rs.")
	clean = strings.TrimPrefix(clean, "Rs")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", s)
	}
	if neg {
		return d.Neg(), nil
	}
	return d, nil
}
