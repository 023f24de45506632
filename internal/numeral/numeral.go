// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package numeral converts between Roman and Arabic numerals. Source law
// documents mix Roman chapter numbering with Arabic article numbering, so
// every chapter/article number comparison goes through this package rather
// than raw string equality.
package numeral

import (
	"strconv"
	"strings"
)

// romanValues maps each Roman symbol to its value.
var romanValues = map[byte]int{
	'I': 1,
	'V': 5,
	'X': 10,
	'L': 50,
	'C': 100,
	'D': 500,
	'M': 1000,
}

// Normalize converts a Roman-numeral token to its decimal string form using
// the standard subtractive algorithm. Tokens containing any non-Roman symbol
// are returned unchanged, so decimal strings pass through as-is.
func Normalize(token string) string {
	if token == "" {
		return token
	}

	upper := strings.ToUpper(token)
	for i := 0; i < len(upper); i++ {
		if _, ok := romanValues[upper[i]]; !ok {
			return token
		}
	}

	total := 0
	for i := 0; i < len(upper); i++ {
		v := romanValues[upper[i]]
		if i+1 < len(upper) && v < romanValues[upper[i+1]] {
			total -= v
			continue
		}
		total += v
	}
	return strconv.Itoa(total)
}

// Equal reports whether two chapter/article numbers denote the same value.
// Both sides are normalized first; pure-decimal strings compare by numeric
// value so "04" equals "4".
func Equal(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return true
	}
	ia, errA := strconv.Atoi(na)
	ib, errB := strconv.Atoi(nb)
	return errA == nil && errB == nil && ia == ib
}
