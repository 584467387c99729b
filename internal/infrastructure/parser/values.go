package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var floatIDRe = regexp.MustCompile(`^(\d+)\.0+$`)

// ParseNumber reads a spreadsheet number. Both "1.234,56" and "1234.56" are
// accepted; the right-most of ',' and '.' is the decimal separator.
// Empty cells and NaN markers return ok=false.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, " ", "")
	switch strings.ToLower(s) {
	case "", "nan", "na", "n/a", "-", "null", "none":
		return 0, false
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseNullableNumber is ParseNumber returning nil for missing values.
func ParseNullableNumber(s string) *float64 {
	v, ok := ParseNumber(s)
	if !ok {
		return nil
	}
	return &v
}

// NormalizeID makes identifiers exported as floats ("123.0") comparable with text ids.
func NormalizeID(s string) string {
	s = strings.TrimSpace(s)
	if m := floatIDRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// DigitsOnly keeps only the decimal digits of s (CEP, CPF/CNPJ).
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
