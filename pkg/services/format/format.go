// Package format renders numbers, money, percentages, weights and dates for reports.
package format

import (
	"math"
	"strings"
	"time"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CAD": "CA$",
	"AUD": "A$",
	"JPY": "¥",
}

var dateLayouts = map[string]string{
	"short": "Jan 2, 2006",
	"long":  "January 2, 2006",
	"iso":   "2006-01-02",
	"month": "January 2006",
}

// Formatter formats values for one locale
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

var defaultFormatter = New(language.AmericanEnglish)

// New creates a Formatter for the given locale.
func New(tag language.Tag) *Formatter {
	return &Formatter{tag: tag, printer: message.NewPrinter(tag)}
}

// ForLocale parses a BCP 47 locale, falling back to American English.
func ForLocale(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		return defaultFormatter
	}
	return New(tag)
}

func Default() *Formatter {
	return defaultFormatter
}

func (f *Formatter) Locale() language.Tag {
	return f.tag
}

// Number groups digits and prints exactly decimals fraction digits.
func (f *Formatter) Number(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return f.printer.Sprint(number.Decimal(v, number.Scale(decimals)))
}

// Currency prints v with the symbol for code and two fraction digits.
func (f *Formatter) Currency(v float64, code string) string {
	code = strings.ToUpper(code)
	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code + " "
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + symbol + f.Number(v, 2)
}

func (f *Formatter) Percent(v float64, decimals int) string {
	return f.Number(v, decimals) + "%"
}

// Weight prints kilograms below one tonne and tonnes above.
func (f *Formatter) Weight(kg float64) string {
	if math.Abs(kg) < 1000 {
		return f.Number(kg, 1) + " kg"
	}
	return f.Number(kg/1000, 2) + " t"
}

// Date accepts a named layout (short, long, iso, month) or a Go layout string.
func (f *Formatter) Date(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	if named, ok := dateLayouts[layout]; ok {
		layout = named
	}
	if layout == "" {
		layout = dateLayouts["short"]
	}
	return t.Format(layout)
}

func (f *Formatter) DateRange(r domain.DateRange) string {
	return f.Date(r.Start, "short") + " – " + f.Date(r.End, "short")
}

func Number(v float64, decimals int) string { return defaultFormatter.Number(v, decimals) }

func Currency(v float64, code string) string { return defaultFormatter.Currency(v, code) }

func Percent(v float64, decimals int) string { return defaultFormatter.Percent(v, decimals) }

func Weight(kg float64) string { return defaultFormatter.Weight(kg) }

func Date(t time.Time, layout string) string { return defaultFormatter.Date(t, layout) }

func DateRange(r domain.DateRange) string { return defaultFormatter.DateRange(r) }
