package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var ptBR = language.BrazilianPortuguese

// FormatCurrency formats a value as Brazilian reais, e.g. R$ 1.234,50
func FormatCurrency(value decimal.Decimal) string {
	p := message.NewPrinter(ptBR)

	sign := ""
	if value.IsNegative() {
		sign = "-"
		value = value.Neg()
	}

	fixed := value.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	whole, err := decimal.NewFromString(intPart)
	if err != nil {
		return sign + "R$ " + fixed
	}

	return sign + "R$ " + p.Sprintf("%d", whole.IntPart()) + "," + fracPart
}

// FormatCount formats an integer with pt-BR grouping, e.g. 1.000
func FormatCount(n int) string {
	return message.NewPrinter(ptBR).Sprintf("%d", n)
}

// FormatDate formats a date as dd/mm/yyyy
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// CleanText strips accents, keeps only printable ASCII and trims the result so
// the text can be drawn with the embedded sheet fonts.
func CleanText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if r >= 0x20 && r <= 0x7E {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// FileSlug turns a title into an upper-case, dash separated file name fragment
func FileSlug(title string) string {
	fields := strings.Fields(CleanText(title))
	if len(fields) == 0 {
		return "SORTEIO"
	}
	return strings.ToUpper(strings.Join(fields, "-"))
}

// ParseDate parses a dd/mm/yyyy date in the local time zone
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("02/01/2006", strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected dd/mm/yyyy", s)
	}
	return t, nil
}

// ParseMoney parses a value typed the pt-BR way ("1.234,50", "R$ 10") or with a decimal point ("10.5")
func ParseMoney(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	}

	value, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid value %q", s)
	}
	return value, nil
}
