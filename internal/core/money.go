// Package core provides the ledger entities and their derived computations.
//
// This file contains helpers for parsing amounts from request strings.
// Amounts are plain float64 values; there is no fixed-point representation.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a decimal string to a positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns a validation error for empty, malformed, negative or zero input.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-1")    -> 0, error
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, Validation("amount", "amount is required")
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, Validation("amount", "amount must be greater than 0")
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, Validationf("amount", "invalid amount %q", s)
	}
	if v <= 0 {
		return 0, Validation("amount", "amount must be greater than 0")
	}
	return v, nil
}

// RoundAmount rounds to two decimals for presentation of aggregated sums.
func RoundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}
