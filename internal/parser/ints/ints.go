// Package ints provides helpers for reading integer values out of dump fields
// and free text. Dump columns are untyped strings; flags and counters must
// never fail a row, while identifiers must be recognizable as numbers.
package ints

import (
	"strconv"
	"strings"
	"unicode"
)

// Lenient parses the leading integer of s the way the legacy tooling did:
// surrounding whitespace is ignored, an optional sign is accepted, and
// parsing stops at the first non-digit. Anything without a leading digit, or
// out of range, yields 0.
func Lenient(s string) int64 {
	n, ok := leading(s)
	if !ok {
		return 0
	}
	return n
}

// ID parses an identifier column. It accepts the same leading-integer form
// as Lenient but reports whether any digits were found, so callers can
// discard rows whose identifier is unusable.
func ID(s string) (int64, bool) {
	return leading(s)
}

// Flag reads a 0/1 column. Any non-zero leading integer is true. The second
// result is false when the value was neither 0 nor 1, which callers surface
// as a layout ambiguity.
func Flag(s string) (v bool, clean bool) {
	n := Lenient(s)
	return n != 0, n == 0 || n == 1
}

func leading(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// DigitRuns returns every maximal run of Unicode digits in s, in order.
// Runs are returned as text so callers can check their width.
func DigitRuns(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		if unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// FirstYear returns the first standalone four-digit run in s that falls
// within [min, max]. Longer digit runs never match, so "120190" is not 2019.
func FirstYear(s string, min, max int) (int, bool) {
	for _, run := range DigitRuns(s) {
		if len(run) != 4 {
			continue
		}
		n, err := strconv.Atoi(run)
		if err != nil {
			continue
		}
		if n >= min && n <= max {
			return n, true
		}
	}
	return 0, false
}
