package tax

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const CurrencySymbol = "₦"

var printer = message.NewPrinter(language.English)

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// ParseAmount keeps only the ASCII digits of s, so separators, signs and
// decimal points are all dropped. Empty input parses to 0 and a digit run
// too long for a float64 parses to +Inf.
func ParseAmount(s string) float64 {
	digits := digitsOnly(s)
	if digits == "" {
		return 0
	}

	v, err := strconv.ParseFloat(digits, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}

	return v
}

// GroupDigits formats raw input the way an amount field shows it while
// typing: digits only, comma every three.
func GroupDigits(s string) string {
	digits := digitsOnly(s)

	n := len(digits)
	if n <= 3 {
		return digits
	}

	head := n % 3
	if head == 0 {
		head = 3
	}

	var b strings.Builder

	b.WriteString(digits[:head])

	for i := head; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}

	return b.String()
}

// FormatAmount renders v in naira with two decimals, e.g. ₦2,401,150.00 or
// -₦15,000.50.
func FormatAmount(v float64) string {
	if math.IsInf(v, 1) {
		return CurrencySymbol + "∞"
	}
	if math.IsInf(v, -1) {
		return "-" + CurrencySymbol + "∞"
	}
	if math.IsNaN(v) {
		v = 0
	}

	d := decimal.NewFromFloat(v).Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	return sign + CurrencySymbol + printer.Sprintf("%.2f", d.InexactFloat64())
}
