package format

import (
	"strings"
	"testing"
	"time"
)

func mustNew(t *testing.T, locale, code string) *Formatter {
	t.Helper()
	f, err := New(locale, code)
	if err != nil {
		t.Fatalf("New(%q, %q) error = %v", locale, code, err)
	}
	return f
}

func TestNumber(t *testing.T) {
	en := mustNew(t, "en-US", "USD")
	pt := mustNew(t, "pt-BR", "BRL")

	tests := []struct {
		name string
		f    *Formatter
		in   float64
		want string
	}{
		{"Zero", en, 0, "0"},
		{"Small", en, 42, "42"},
		{"Boundary999", en, 999, "999"},
		{"Fraction", en, 12.5, "12.5"},
		{"FractionPT", pt, 12.5, "12,5"},
		{"ThreeDigits", en, 1.23456, "1.235"},
		{"Thousand", en, 1000, "1.0K"},
		{"OnePointFiveK", en, 1500, "1.5K"},
		{"HalfUpK", en, 1250, "1.3K"},
		{"HalfUpKPT", pt, 1450, "1.5K"},
		{"AlmostMillion", en, 999_950, "1000.0K"},
		{"TopOfKBand", en, 999_999, "1000.0K"},
		{"Million", en, 1_200_000, "1.2M"},
		{"Large", en, 45_678_901, "45.7M"},
		{"Negative", en, -1500, "-1.5K"},
		{"NegativeSmall", en, -3, "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Number(tt.in); got != tt.want {
				t.Errorf("Number(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNumber_NoSuffixBelowThousand(t *testing.T) {
	f := mustNew(t, "en-US", "USD")
	for n := 0; n <= 999; n++ {
		got := f.Int(int64(n))
		if strings.HasSuffix(got, "K") || strings.HasSuffix(got, "M") {
			t.Fatalf("Int(%d) = %q, want no suffix", n, got)
		}
	}
}

func TestNumber_KBand(t *testing.T) {
	f := mustNew(t, "en-US", "USD")
	for _, n := range []int64{1000, 1049, 999_949, 999_950, 999_999} {
		if got := f.Int(n); !strings.HasSuffix(got, "K") {
			t.Errorf("Int(%d) = %q, want K suffix", n, got)
		}
	}
	if got := f.Int(1_000_000); got != "1.0M" {
		t.Errorf("Int(1000000) = %q, want %q", got, "1.0M")
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		locale, code string
		in           float64
		want         string
	}{
		{"en-US", "USD", 1234.5, "$1,234.50"},
		{"en-US", "USD", 0, "$0.00"},
		{"en-US", "USD", 0.004, "$0.00"},
		{"en-US", "USD", 0.005, "$0.01"},
		{"en-US", "USD", -2.5, "-$2.50"},
		{"pt-BR", "BRL", 1234.5, "R$ 1.234,50"},
		{"pt-BR", "BRL", 1234567.891, "R$ 1.234.567,89"},
		{"pt-BR", "USD", 10, "$ 10,00"},
		{"de-DE", "EUR", 1234.5, "1.234,50 €"},
		{"fr-FR", "EUR", 1234.5, "1 234,50 €"},
		{"en-US", "JPY", 1234.5, "¥1,235"},
	}

	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.code, func(t *testing.T) {
			f := mustNew(t, tt.locale, tt.code)
			if got := f.Currency(tt.in); got != tt.want {
				t.Errorf("Currency(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCurrency_RoundTrip(t *testing.T) {
	formatters := []*Formatter{
		mustNew(t, "en-US", "USD"),
		mustNew(t, "pt-BR", "BRL"),
		mustNew(t, "de-DE", "EUR"),
		mustNew(t, "fr-FR", "EUR"),
		mustNew(t, "es-ES", "EUR"),
	}
	values := []float64{0, 0.01, 0.285, 1.005, 12.3456, 999.999, 1234.5, 98765.4321, -42.42}

	for _, f := range formatters {
		for _, v := range values {
			first := f.Currency(v)
			parsed, err := f.ParseCurrency(first)
			if err != nil {
				t.Fatalf("%s ParseCurrency(%q) error = %v", f.Locale(), first, err)
			}
			if again := f.Currency(parsed); again != first {
				t.Errorf("%s Currency(ParseCurrency(%q)) = %q", f.Locale(), first, again)
			}
			if f.Currency(v) != first {
				t.Errorf("%s Currency(%v) is not deterministic", f.Locale(), v)
			}
		}
	}
}

func TestParseCurrency_Invalid(t *testing.T) {
	f := mustNew(t, "en-US", "USD")
	if _, err := f.ParseCurrency("twelve dollars"); err == nil {
		t.Error("ParseCurrency() of text should fail")
	}
}

func TestPercent(t *testing.T) {
	f := Default()
	tests := []struct {
		part, total int64
		want        string
	}{
		{0, 0, "0.0%"},
		{5, 0, "0.0%"},
		{1, 3, "33.3%"},
		{2, 3, "66.7%"},
		{10, 10, "100.0%"},
	}
	for _, tt := range tests {
		if got := f.Percent(tt.part, tt.total); got != tt.want {
			t.Errorf("Percent(%d, %d) = %q, want %q", tt.part, tt.total, got, tt.want)
		}
	}
}

func TestDateRange(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		locale string
		want   string
	}{
		{"pt-BR", "01/03/2024 - 15/03/2024"},
		{"en-US", "03/01/2024 - 03/15/2024"},
		{"de-DE", "01.03.2024 - 15.03.2024"},
	}
	for _, tt := range tests {
		f := mustNew(t, tt.locale, "EUR")
		if got := f.DateRange(start, end); got != tt.want {
			t.Errorf("%s DateRange() = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestShortDateAndDays(t *testing.T) {
	pt := Default()
	en := mustNew(t, "en-US", "USD")
	d := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	if got := pt.ShortDate(d); got != "05/03" {
		t.Errorf("ShortDate() = %q, want 05/03", got)
	}
	if got := en.ShortDate(d); got != "03/05" {
		t.Errorf("ShortDate() = %q, want 03/05", got)
	}
	if got := pt.Days(1); got != "1 dia" {
		t.Errorf("Days(1) = %q, want 1 dia", got)
	}
	if got := pt.Days(5); got != "5 dias" {
		t.Errorf("Days(5) = %q, want 5 dias", got)
	}
	if got := en.Days(0); got != "0 days" {
		t.Errorf("Days(0) = %q, want 0 days", got)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		locale     string
		code       string
		wantLocale string
		wantErr    bool
	}{
		{"Exact", "pt-BR", "BRL", "pt-BR", false},
		{"LowercaseCurrency", "en-US", "usd", "en-US", false},
		{"UnsupportedFallsBack", "ja-JP", "JPY", "en-US", false},
		{"BadLocale", "!!", "USD", "", true},
		{"BadCurrency", "en-US", "DOLLARS", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.locale, tt.code)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && f.Locale() != tt.wantLocale {
				t.Errorf("Locale() = %q, want %q", f.Locale(), tt.wantLocale)
			}
		})
	}
}
