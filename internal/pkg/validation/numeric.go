package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"
)

// Compiled numeric-literal patterns
var (
	decimalPattern = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)$`)
	prefixPattern  = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
)

func isNumericSpace(r rune) bool {
	return r == '\uFEFF' || (r != '\u0085' && unicode.IsSpace(r))
}

// IsNumeric reports whether s converts to a number in the loose sense a
// browser uses for form input: surrounding whitespace is ignored, the
// empty string counts as zero, and signed decimals, exponents, Infinity and
// unsigned 0x/0o/0b integer literals are accepted.
func IsNumeric(s string) bool {
	t := strings.TrimFunc(s, isNumericSpace)
	if t == "" {
		return true
	}
	return decimalPattern.MatchString(t) || prefixPattern.MatchString(t)
}

// Length returns the length of s in UTF-16 code units, matching the length
// a browser reports for the same text.
func Length(s string) int {
	n := 0
	for _, r := range s {
		if w := utf16.RuneLen(r); w > 0 {
			n += w
		} else {
			n++
		}
	}
	return n
}
