// ABOUTME: SAR money and percentage formatting for presentation layers
// ABOUTME: Rounds with shopspring/decimal so displayed totals add up
package export

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RoundSAR rounds an amount half away from zero to halalas.
func RoundSAR(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// FormatSAR renders v as "1,234.50 SAR".
func FormatSAR(v float64) string {
	return FormatAmount(RoundSAR(v)) + " SAR"
}

// FormatAmount renders d with two decimals and thousands separators.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}

// FormatPercent renders a margin such as 40 as "40.0%".
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}
