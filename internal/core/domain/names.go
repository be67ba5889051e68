package domain

import (
	"strings"
)

// NormalizeName keeps free-text series names consistent so that
// "bench press", "Bench Press" and "BENCH   press" end up as one series.
//
// Only ASCII letters, digits and spaces survive. Runs of spaces collapse to
// one. Each word is title-cased, except that a word that starts with a run
// of capitals keeps that run as typed ("DB" in "DB Row"), and a word that is
// entirely capitals is left alone ("BENCH").
func NormalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isASCIILetter(c) || isASCIIDigit(c) || c == ' ' {
			b.WriteByte(c)
		}
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		words[i] = normalizeWord(w)
	}
	return strings.Join(words, " ")
}

func normalizeWord(w string) string {
	run := 0
	for run < len(w) && isASCIIUpper(w[run]) {
		run++
	}

	switch {
	case run == len(w):
		return w
	case run == 0:
		return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	default:
		return w[:run] + strings.ToLower(w[run:])
	}
}

// SanitizeDigits drops every character that is not 0-9. Decimal points
// and signs are removed too, so the result is always a non-negative integer
// literal (or empty).
func SanitizeDigits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if isASCIIDigit(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isASCIILetter(c byte) bool {
	return isASCIIUpper(c) || (c >= 'a' && c <= 'z')
}

func isASCIIUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isASCIIDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
