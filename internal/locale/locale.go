// Package locale formats receipt amounts and due dates.
//
// A Formatter is an immutable value built once and handed to whoever
// renders receipts; there is no process-wide formatter.
package locale

import (
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/pt_BR"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// Formatter renders currency amounts and long-form dates for one locale.
//
// Dates come from the CLDR tables in go-playground/locales. Currency is
// assembled here: the CLDR BRL pattern prints the ISO code after a
// non-breaking space, not the "R$ " prefix receipts use.
type Formatter struct {
	tag   language.Tag
	dates locales.Translator

	currencyPrefix string
	decimalSep     string
	groupSep       string
}

var brazilianPortuguese = Formatter{
	tag:            language.BrazilianPortuguese,
	dates:          pt_BR.New(),
	currencyPrefix: "R$ ",
	decimalSep:     ",",
	groupSep:       ".",
}

var americanEnglish = Formatter{
	tag:            language.AmericanEnglish,
	dates:          en_US.New(),
	currencyPrefix: "$",
	decimalSep:     ".",
	groupSep:       ",",
}

// The first entry is the fallback for tags nothing else matches.
var (
	supported = []Formatter{brazilianPortuguese, americanEnglish}
	matcher   = language.NewMatcher([]language.Tag{brazilianPortuguese.tag, americanEnglish.tag})
)

// New returns the formatter closest to the BCP 47 tag ("pt-BR", "en-US",
// "pt", ...). Unparseable or unsupported tags get Brazilian Portuguese.
func New(tag string) Formatter {
	parsed, err := language.Parse(tag)
	if err != nil {
		return BrazilianPortuguese()
	}

	_, idx, confidence := matcher.Match(parsed)
	if confidence == language.No {
		return BrazilianPortuguese()
	}
	return supported[idx]
}

// BrazilianPortuguese is the reference receipt locale.
func BrazilianPortuguese() Formatter { return brazilianPortuguese }

// AmericanEnglish formats amounts in dollars and dates as "November 10, 2020".
func AmericanEnglish() Formatter { return americanEnglish }

// Tag reports the locale this formatter renders.
func (f Formatter) Tag() language.Tag { return f.tag }

// FormatCurrency renders amount with two decimals, rounding half away
// from zero, e.g. "R$ 1.234,56".
func (f Formatter) FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.Round(2).IsNegative() {
		sign = "-"
	}

	fixed := amount.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	return sign + f.currencyPrefix + f.group(intPart) + f.decimalSep + fracPart
}

// FormatLongDate renders t as a long-form date, e.g. "10 de novembro de 2020".
func (f Formatter) FormatLongDate(t time.Time) string {
	return f.dates.FmtDateLong(t)
}

func (f Formatter) group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(f.groupSep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
