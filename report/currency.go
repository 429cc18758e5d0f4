package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL formata em reais: R$ 9.999,99
func FormatBRL(v decimal.Decimal) string {
	s := v.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if v.Round(2).IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("R$ %s%s,%s", sign, b.String(), frac)
}

// ParseBRL inverso de FormatBRL
func ParseBRL(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	return decimal.NewFromString(s)
}

// truncate corta em n caracteres (runas, não bytes)
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
