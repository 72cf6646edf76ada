package model

import (
	"math"
	"strconv"
	"strings"
)

// ParseLevel reads a vault level string: an integer ("3"), a decimal
// ("3.5") or a fraction ("1/2"). Only the first whitespace-delimited token
// counts, so "2 (swarm)" is 2. An empty string is level 0.
// Both sides of a fraction are plain base-10 integers, so "010/4" is 2.5.
// ok is false when the token is not a number; callers skip such values.
func ParseLevel(raw string) (level float64, ok bool) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return 0, true
	}
	token := fields[0]

	if num, den, isFraction := strings.Cut(token, "/"); isFraction {
		n, err := strconv.ParseInt(num, 10, 64)
		if err != nil {
			return 0, false
		}
		d, err := strconv.ParseUint(den, 10, 64)
		if err != nil || d == 0 {
			return 0, false
		}
		return float64(n) / float64(d), true
	}

	// ParseFloat takes hex floats ("0x1p4"); vault levels are decimal only.
	if strings.ContainsAny(token, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ParseLeadingInt reads the leading integer of strings like "24" or
// "24 HP". Anything else yields def.
func ParseLeadingInt(raw string, def int) int {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return def
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return def
	}
	return n
}
