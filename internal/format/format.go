// Package format renders token counts, money, percentages and dates for display.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// localeSpec describes how one supported locale writes numbers and dates.
type localeSpec struct {
	tag       language.Tag
	decimal   string
	thousands string
	// symbolAfter places the currency symbol after the amount ("1.234,50 €").
	symbolAfter bool
	// symbolSpace separates symbol and amount with a space.
	symbolSpace bool
	dateLayout  string
	shortLayout string
	day, days   string
}

// locales is ordered by preference; the first entry is the fallback.
var locales = []localeSpec{
	{
		tag: language.AmericanEnglish, decimal: ".", thousands: ",",
		dateLayout: "01/02/2006", shortLayout: "01/02",
		day: "day", days: "days",
	},
	{
		tag: language.BrazilianPortuguese, decimal: ",", thousands: ".",
		symbolSpace: true,
		dateLayout:  "02/01/2006", shortLayout: "02/01",
		day: "dia", days: "dias",
	},
	{
		tag: language.MustParse("es-ES"), decimal: ",", thousands: ".",
		symbolAfter: true, symbolSpace: true,
		dateLayout: "02/01/2006", shortLayout: "02/01",
		day: "día", days: "días",
	},
	{
		tag: language.MustParse("de-DE"), decimal: ",", thousands: ".",
		symbolAfter: true, symbolSpace: true,
		dateLayout: "02.01.2006", shortLayout: "02.01.",
		day: "Tag", days: "Tage",
	},
	{
		tag: language.MustParse("fr-FR"), decimal: ",", thousands: " ",
		symbolAfter: true, symbolSpace: true,
		dateLayout: "02/01/2006", shortLayout: "02/01",
		day: "jour", days: "jours",
	},
}

var matcher = language.NewMatcher(supportedTags())

func supportedTags() []language.Tag {
	tags := make([]language.Tag, len(locales))
	for i, l := range locales {
		tags[i] = l.tag
	}
	return tags
}

var symbols = map[string]string{
	"BRL": "R$",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "CA$",
	"AUD": "A$",
	"MXN": "MX$",
	"ARS": "ARS$",
	"CHF": "CHF",
}

// Formatter formats values for one locale and currency. It is safe for
// concurrent use.
type Formatter struct {
	locale   localeSpec
	unit     currency.Unit
	symbol   string
	decimals int
}

// New creates a formatter for locale (a BCP 47 tag) and an ISO 4217 currency
// code. Unsupported locales are matched to the closest supported one.
func New(locale, currencyCode string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(currencyCode)))
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", currencyCode, err)
	}

	_, idx, _ := matcher.Match(tag)

	code := unit.String()
	symbol, ok := symbols[code]
	if !ok {
		symbol = code
	}
	scale, _ := currency.Standard.Rounding(unit)

	return &Formatter{
		locale:   locales[idx],
		unit:     unit,
		symbol:   symbol,
		decimals: scale,
	}, nil
}

// Default returns the pt-BR/BRL formatter.
func Default() *Formatter {
	f, err := New("pt-BR", "BRL")
	if err != nil {
		panic(err)
	}
	return f
}

// Locale returns the matched locale tag.
func (f *Formatter) Locale() string {
	return f.locale.tag.String()
}

// CurrencyCode returns the ISO 4217 code.
func (f *Formatter) CurrencyCode() string {
	return f.unit.String()
}

// Number renders n with a K or M suffix from one thousand upwards and with
// locale separators below that. Suffixed values use one decimal, half-up.
func (f *Formatter) Number(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "-"
	}

	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	// The suffix follows the raw magnitude, so 999,999 stays in the K band.
	switch {
	case n >= 1e6:
		return sign + strconv.FormatFloat(roundHalfUp(n/1e6, 1), 'f', 1, 64) + "M"
	case n >= 1e3:
		return sign + strconv.FormatFloat(roundHalfUp(n/1e3, 1), 'f', 1, 64) + "K"
	}

	small := roundHalfUp(n, 3)
	if small == 0 {
		return "0"
	}
	return sign + f.grouped(small, 3, true)
}

// Int renders an integer count with K/M suffixes.
func (f *Formatter) Int(n int64) string {
	return f.Number(float64(n))
}

// Currency renders v with the currency symbol, the currency's minor digits
// and locale grouping.
func (f *Formatter) Currency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}

	sign := ""
	v = roundHalfUp(v, f.decimals)
	if v < 0 {
		sign = "-"
		v = -v
	}
	amount := f.grouped(v, f.decimals, false)

	sep := ""
	if f.locale.symbolSpace {
		sep = " "
	}
	if f.locale.symbolAfter {
		return sign + amount + sep + f.symbol
	}
	return sign + f.symbol + sep + amount
}

// ParseCurrency reads a string produced by Currency back into a value.
func (f *Formatter) ParseCurrency(s string) (float64, error) {
	raw := strings.TrimSpace(s)
	negative := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")
	raw = strings.ReplaceAll(raw, f.symbol, "")
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, f.locale.thousands, "")
	raw = strings.ReplaceAll(raw, f.locale.decimal, ".")

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if negative {
		v = -v
	}
	return v, nil
}

// Percent renders part/total with one decimal. A zero total gives "0.0%".
func (f *Formatter) Percent(part, total int64) string {
	if total == 0 {
		return "0.0%"
	}
	pct := float64(part) / float64(total) * 100
	return strconv.FormatFloat(roundHalfUp(pct, 1), 'f', 1, 64) + "%"
}

// Date renders t in the locale's short day/month/year form.
func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(f.locale.dateLayout)
}

// ShortDate renders day and month only, for chart axes.
func (f *Formatter) ShortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(f.locale.shortLayout)
}

// DateRange joins both dates with " - ".
func (f *Formatter) DateRange(start, end time.Time) string {
	return f.Date(start) + " - " + f.Date(end)
}

// Days renders a pluralised day count.
func (f *Formatter) Days(n int) string {
	word := f.locale.days
	if n == 1 || n == -1 {
		word = f.locale.day
	}
	return strconv.Itoa(n) + " " + word
}

// grouped formats a non-negative value with the locale separators. When trim
// is set trailing fraction zeros are dropped.
func (f *Formatter) grouped(v float64, precision int, trim bool) string {
	pattern := "#" + f.locale.thousands + "###" + f.locale.decimal + strings.Repeat("#", precision)
	out := humanize.FormatFloat(pattern, v)

	if trim && precision > 0 {
		if i := strings.LastIndex(out, f.locale.decimal); i >= 0 {
			frac := strings.TrimRight(out[i+len(f.locale.decimal):], "0")
			if frac == "" {
				out = out[:i]
			} else {
				out = out[:i+len(f.locale.decimal)] + frac
			}
		}
	}
	return out
}

// roundHalfUp rounds non-negative halves away from zero at the given precision.
func roundHalfUp(v float64, precision int) float64 {
	p := math.Pow10(precision)
	if v < 0 {
		return -math.Floor(-v*p+0.5) / p
	}
	return math.Floor(v*p+0.5) / p
}
