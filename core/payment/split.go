package payment

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PlatformFeePercent is the share of every sale kept by the platform.
const PlatformFeePercent = 20

// Split divides amount, in cents, between instructor and platform. The
// platform takes the rounding remainder so share+fee always equals amount.
func Split(amount int) (share, fee int) {
	share = amount * (100 - PlatformFeePercent) / 100
	fee = amount - share
	return share, fee
}

// FormatAmount renders cents as a decimal string such as "100.00".
func FormatAmount(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseAmount reads a decimal amount as sent by gateways into cents.
func ParseAmount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("amount %q out of range", s)
	}

	return int(math.Round(f * 100)), nil
}
