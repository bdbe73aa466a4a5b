package money

import (
	"fmt"
	"math/big"
	"strings"
)

// E8sDecimals is the fixed-point scale of ledger balances: one display unit
// is 10^8 minor units ("e8s").
const E8sDecimals = 8

// ToE8s converts a human-readable amount string to minor units (big.Int)
// at the e8s scale. Handles decimal inputs like "0.5" → 50000000.
func ToE8s(amountStr string) (*big.Int, error) {
	return toBaseUnits(amountStr, E8sDecimals)
}

// toBaseUnits converts a decimal amount string to base units using string
// manipulation, avoiding floating point precision issues.
func toBaseUnits(amountStr string, decimals int) (*big.Int, error) {
	amountStr = strings.TrimSpace(amountStr)
	if amountStr == "" {
		return nil, fmt.Errorf("amount is required")
	}
	if strings.HasPrefix(amountStr, "+") || strings.HasPrefix(amountStr, "-") {
		return nil, fmt.Errorf("amount must be unsigned")
	}

	parts := strings.Split(amountStr, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid amount format")
	}

	intPart := parts[0]
	if intPart == "" {
		intPart = "0"
	}

	decPart := ""
	if len(parts) > 1 {
		decPart = parts[1]
	}

	// Pad or truncate the decimal part to match the scale
	if len(decPart) < decimals {
		decPart = decPart + strings.Repeat("0", decimals-len(decPart))
	} else if len(decPart) > decimals {
		decPart = decPart[:decimals]
	}

	combined := strings.TrimLeft(intPart+decPart, "0")
	if combined == "" {
		combined = "0"
	}

	result := new(big.Int)
	if _, ok := result.SetString(combined, 10); !ok {
		return nil, fmt.Errorf("invalid amount format")
	}

	return result, nil
}

// FromE8s converts minor units to a human-readable decimal string.
// E.g. 150000000 → "1.5".
func FromE8s(amount *big.Int) string {
	if amount == nil {
		return "0"
	}

	neg := amount.Sign() < 0
	str := new(big.Int).Abs(amount).String()

	for len(str) <= E8sDecimals {
		str = "0" + str
	}

	pos := len(str) - E8sDecimals
	result := str[:pos] + "." + str[pos:]

	result = strings.TrimRight(result, "0")
	result = strings.TrimRight(result, ".")

	if result == "" {
		return "0"
	}
	if neg {
		result = "-" + result
	}

	return result
}

// roundedDiv divides n by d rounding half away from zero. d must be positive.
func roundedDiv(n, d *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(n, d, new(big.Int))
	r.Abs(r)
	r.Lsh(r, 1) // 2*|remainder|
	if r.Cmp(d) >= 0 {
		if n.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
	return q
}
