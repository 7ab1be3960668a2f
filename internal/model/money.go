package model

import (
	"math"
	"strconv"
)

// ParseAmount converts decimal string amounts to float64.
// nopCommerce returns money as strings with four decimal places
// (e.g., "123.4500"). Empty or unparsable values yield 0.
// Examples: "99.00" → 99, "123.4500" → 123.45, "" → 0
func ParseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// RoundAmount rounds a monetary value to two decimal places.
// Used when summing upstream amounts so floating error never
// reaches the caller-facing contract.
func RoundAmount(f float64) float64 {
	return math.Round(f*100) / 100
}
