package money

import (
	"fmt"
	"math/big"
	"strings"
)

// DefaultRateStr is the fixed ICP→USD exchange rate used when no override is
// configured.
const DefaultRateStr = "7.5"

// Rate is an exact display-currency exchange rate (USD per ledger unit),
// kept as a rational so conversions never touch floating point.
type Rate struct {
	num *big.Int // USD units scaled by den
	den *big.Int
}

// ParseRate parses a decimal rate string like "7.5" into an exact Rate.
func ParseRate(s string) (Rate, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ".")
	if s == "" || len(parts) > 2 {
		return Rate{}, fmt.Errorf("invalid rate: %q", s)
	}

	intPart := parts[0]
	decPart := ""
	if len(parts) == 2 {
		decPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}

	num := new(big.Int)
	if _, ok := num.SetString(intPart+decPart, 10); !ok || num.Sign() <= 0 {
		return Rate{}, fmt.Errorf("invalid rate: %q", s)
	}

	den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(len(decPart))), nil)
	return Rate{num: num, den: den}, nil
}

// MustParseRate is ParseRate that panics on error; for constants and tests.
func MustParseRate(s string) Rate {
	r, err := ParseRate(s)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultRate returns the built-in 7.5 rate.
func DefaultRate() Rate {
	return MustParseRate(DefaultRateStr)
}

// String returns the decimal form of the rate.
func (r Rate) String() string {
	whole, rem := new(big.Int).QuoRem(r.num, r.den, new(big.Int))
	if rem.Sign() == 0 {
		return whole.String()
	}
	denDigits := len(r.den.String()) - 1
	frac := fmt.Sprintf("%0*s", denDigits, rem.String())
	frac = strings.TrimRight(frac, "0")
	return whole.String() + "." + frac
}

// DisplayToE8s converts a decimal display-currency (USD) amount into ledger
// minor units using the inverse rate, rounding half away from zero to the
// nearest minor unit. "100" at rate 7.5 → 1333333333.
func (r Rate) DisplayToE8s(amountStr string) (*big.Int, error) {
	displayE8s, err := ToE8s(amountStr)
	if err != nil {
		return nil, err
	}
	// e8s = round(displayE8s * den / num)
	n := new(big.Int).Mul(displayE8s, r.den)
	return roundedDiv(n, r.num), nil
}

// E8sToDisplayCents converts ledger minor units into display-currency cents,
// rounded half away from zero.
func (r Rate) E8sToDisplayCents(e8s *big.Int) *big.Int {
	// cents = round(e8s * num * 100 / (den * 10^8))
	n := new(big.Int).Mul(e8s, r.num)
	n.Mul(n, big.NewInt(100))
	d := new(big.Int).Mul(r.den, big.NewInt(100_000_000))
	return roundedDiv(n, d)
}

// FormatCurrencyPair renders a minor-unit balance as a dual-currency display
// string, e.g. "1,234.00 ICP ($9,255.00)".
func FormatCurrencyPair(e8s *big.Int, rate Rate) string {
	if e8s == nil {
		e8s = big.NewInt(0)
	}
	icpCents := roundedDiv(new(big.Int).Mul(e8s, big.NewInt(100)), big.NewInt(100_000_000))
	usdCents := rate.E8sToDisplayCents(e8s)
	return fmt.Sprintf("%s ICP (%s)", formatCents(icpCents, ""), formatCents(usdCents, "$"))
}

// formatCents renders a cent amount with two decimals and thousands grouping.
// The currency symbol goes between the sign and the digits ("-$9,255.00").
func formatCents(cents *big.Int, symbol string) string {
	sign := ""
	abs := new(big.Int).Abs(cents)
	if cents.Sign() < 0 {
		sign = "-"
	}

	whole, rem := new(big.Int).QuoRem(abs, big.NewInt(100), new(big.Int))
	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, groupThousands(whole.String()), rem.Int64())
}

// groupThousands inserts commas into a non-negative integer string.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
