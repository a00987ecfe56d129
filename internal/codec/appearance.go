package codec

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Appearance maps lower-case descriptors ("eyes", "height") to free text.
type Appearance map[string]string

// ParseAppearance reads "Key: value" lines. The key is everything before the
// first colon, lower-cased; the value is the rest with later colons kept.
// Lines without a colon or with an empty key are dropped, and a repeated key
// keeps its last value.
func ParseAppearance(text string) Appearance {
	a := Appearance{}
	for _, line := range splitLines(text) {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		a[key] = strings.TrimSpace(value)
	}
	return a
}

// RenderAppearance writes one "Key: value" line per entry, sorted by key.
func RenderAppearance(a Appearance) string {
	keys := a.Keys()
	title := cases.Title(language.Und)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		line := displayKey(title, singleLine(k)) + ": " + singleLine(a[k])
		lines = append(lines, strings.TrimSpace(line))
	}
	return strings.Join(lines, "\n")
}

// displayKey capitalizes k for display. The result always lower-cases back
// to k, so a rendered key parses to the one stored.
func displayKey(title cases.Caser, k string) string {
	if t := title.String(k); strings.ToLower(t) == k {
		return t
	}
	r, size := utf8.DecodeRuneInString(k)
	if t := string(unicode.ToTitle(r)) + k[size:]; strings.ToLower(t) == k {
		return t
	}
	return k
}

// Keys returns the keys in sorted order.
func (a Appearance) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
