package utils

import (
	"fmt"
	"strings"
)

// FormatCurrencyIDR formats an amount as an Indonesian Rupiah string.
// Example: 60000 -> "Rp 60.000", 15000.50 -> "Rp 15.000,50"
func FormatCurrencyIDR(amount float64) string {
	formatted := fmt.Sprintf("%.2f", amount)

	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	negative := strings.HasPrefix(integerPart, "-")
	if negative {
		integerPart = integerPart[1:]
	}

	// Thousands separator, grouped from the right
	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	result := "Rp " + strings.Join(groups, ".")
	if negative {
		result = "Rp -" + strings.Join(groups, ".")
	}
	if decimalPart != "00" {
		result += "," + decimalPart
	}
	return result
}
