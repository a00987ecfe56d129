// Package codec converts the structured parts of a character sheet between the
// free text a player types and the records stored in the JSON carrier columns.
//
// Parsing never fails. Lines that do not fit a grammar are either dropped or
// kept in a fallback shape, so a half-typed textarea always produces a record.
package codec

import (
	"regexp"
	"strings"
)

// PlaceholderFeatureName is used when a feature line has no [Name]: prefix.
const PlaceholderFeatureName = "Description"

// featureLine matches "[Name]: text". Inside the name, \] and \\ stand for
// a literal bracket and backslash.
var featureLine = regexp.MustCompile(`^\[((?:\\[\\\]]|[^\\\]]|\\)*?)\]:\s*(.*)`)

var (
	escapeFeatureName   = strings.NewReplacer(`\`, `\\`, `]`, `\]`)
	unescapeFeatureName = strings.NewReplacer(`\\`, `\`, `\]`, `]`)
)

// Feature is a named class or racial trait.
type Feature struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ParseFeatures reads one feature per non-blank line. "[Name]: text" sets the
// name; any other line becomes a description under PlaceholderFeatureName.
func ParseFeatures(text string) []Feature {
	features := []Feature{}
	for _, line := range splitLines(text) {
		if m := featureLine.FindStringSubmatch(line); m != nil {
			features = append(features, Feature{
				Name:        strings.TrimSpace(unescapeFeatureName.Replace(m[1])),
				Description: strings.TrimSpace(m[2]),
			})
			continue
		}
		features = append(features, Feature{Name: PlaceholderFeatureName, Description: line})
	}
	return features
}

// RenderFeatures writes features back in the form ParseFeatures reads, with a
// blank line between entries. Brackets and backslashes in names are escaped.
func RenderFeatures(features []Feature) string {
	blocks := make([]string, 0, len(features))
	for _, f := range features {
		blocks = append(blocks, "["+escapeFeatureName.Replace(singleLine(f.Name))+"]: "+singleLine(f.Description))
	}
	return strings.Join(blocks, "\n\n")
}
