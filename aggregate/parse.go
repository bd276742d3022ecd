package aggregate

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseNumber reads raw as a number independent of any locale: optional surrounding
// white space, a leading sign or enclosing parentheses for negatives, ',' group
// separators in the integer part, '.' as the decimal point and an optional exponent.
// Blank input, NaN and infinities are rejected.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimFunc(raw, unicode.IsSpace)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimFunc(s[1:len(s)-1], unicode.IsSpace)
		if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
			return 0, false
		}
	}

	// strconv also accepts hex floats and digit underscores
	if strings.ContainsAny(s, "xX_") {
		return 0, false
	}

	s, ok := stripGroupSeparators(s)
	if !ok {
		return 0, false
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	if negative {
		n = -n
	}
	return n, true
}

// stripGroupSeparators removes ',' from the integer part. Separators are not accepted
// after the decimal point or exponent, next to each other, or at the edges.
func stripGroupSeparators(s string) (string, bool) {
	if !strings.Contains(s, ",") {
		return s, true
	}

	end := strings.IndexAny(s, ".eE")
	if end < 0 {
		end = len(s)
	}
	intPart, rest := s[:end], s[end:]
	if strings.Contains(rest, ",") {
		return "", false
	}

	digits := strings.TrimLeft(intPart, "+-")
	if strings.HasPrefix(digits, ",") || strings.HasSuffix(digits, ",") || strings.Contains(digits, ",,") {
		return "", false
	}
	return strings.ReplaceAll(intPart, ",", "") + rest, true
}
