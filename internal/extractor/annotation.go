package extractor

import "strings"

// Annotation is the result of splitting an entry into its optional leading
// comment and the declaration that follows it.
type Annotation struct {
	Present     bool
	Description string
	Range       *string
	Declaration string
}

// SplitAnnotation separates a leading /* ... */ comment from a raw entry.
// The comment body is split once on @range: into description and range.
func SplitAnnotation(rawEntry string) Annotation {
	line := Normalize(rawEntry)

	m := matchLeadingComment(line)
	if m == nil {
		return Annotation{Declaration: line}
	}

	ann := Annotation{
		Present:     true,
		Declaration: Normalize(m[1]),
	}

	parts := rangeMarkerPattern.Split(m[0], 2)
	ann.Description = deAnnotate(parts[0])
	if len(parts) > 1 {
		r := strings.NewReplacer(`"`, "", `'`, "").Replace(deAnnotate(parts[1]))
		ann.Range = &r
	}
	return ann
}

// deAnnotate removes comment delimiters, normalizes, and expands paragraph breaks
func deAnnotate(s string) string {
	s = strings.NewReplacer("/*", "", "*/", "").Replace(s)
	return strings.ReplaceAll(Normalize(s), paragraphBreak, "\n\n")
}
