package codec

import (
	"strconv"
	"strings"
)

// splitLines returns the trimmed, non-blank lines of text.
func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// renderLines writes one entry per line, folding any embedded breaks.
func renderLines(entries []string) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if e = singleLine(e); e != "" {
			lines = append(lines, e)
		}
	}
	return strings.Join(lines, "\n")
}

// singleLine folds line breaks so a rendered field stays on its own line.
func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(s)
}

// ParseInt reads a whole number from a form value, returning fallback when the
// value is blank or not a number.
func ParseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

// ParseCount reads a non-negative quantity such as coins or spell slots.
// Anything unparseable is zero and negatives clamp to zero.
func ParseCount(s string) int {
	if n := ParseInt(s, 0); n > 0 {
		return n
	}
	return 0
}
