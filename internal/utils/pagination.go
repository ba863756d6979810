// Package utils provides small, generic helpers for query-string handling
// used by list endpoints. They carry no domain logic.
package utils

import (
	"strconv"
	"strings"
)

// AtoiDefault parses s (surrounding spaces ignored) as an int, returning def
// when s is blank or not a valid integer.
//
//	utils.AtoiDefault("42", 0)  // 42
//	utils.AtoiDefault(" 7 ", 0) // 7
//	utils.AtoiDefault("x", 5)   // 5
func AtoiDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Clamp bounds n to [lo, hi].
func Clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
