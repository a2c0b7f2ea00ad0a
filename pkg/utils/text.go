package utils

import (
	"math"
	"strings"
)

// NormalizeWord lowercases and trims a game word so "  Knowledge" and "knowledge" compare equal.
func NormalizeWord(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
