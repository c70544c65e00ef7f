package extractor

import (
	"regexp"
	"strings"
)

// All multi-line patterns rely on Go's leftmost-first submatch semantics, so
// lazy quantifiers pick the same span a backtracking engine would.
var (
	// Pattern: /*---- <description> ----*/
	docBlockPattern = regexp.MustCompile(`(?s)/\*-{4,}(.+?)-{4,}\*/`)

	// Pattern: module <header> ( <body> );
	moduleDefPattern = regexp.MustCompile(`(?s)\bmodule\s+(.+?)\((.+?)\);`)

	// Pattern: module <identifier> #(  |  module <identifier> (
	moduleNamePattern = regexp.MustCompile(`^module\s+([A-Za-z_][A-Za-z0-9_$]*)\s*[#(]`)

	// Pattern: #( ... ) with comments and one level of parentheses consumed whole
	parameterBlockPattern = regexp.MustCompile(`(?s)#\s*\((?:/\*.*?\*/|\(.*?\)|.)*?\)`)

	// Pattern: ( ... ); at end of line, comments consumed whole
	portBlockPattern = regexp.MustCompile(`(?ms)\((?:/\*.*?\*/|.)*?\);$`)

	// Pattern: [/* annotation */] parameter ... <newline>
	parameterEntryPattern = regexp.MustCompile(`(?s)(?:/\*.*?\*/)*?\s*parameter.+?(?:\n|\z)`)

	// Pattern: [/* annotation */] input|output|inout ... <newline>
	portEntryPattern = regexp.MustCompile(`(?s)(?:/\*.*?\*/)*?\s*(?:input|output|inout).+?(?:\n|\z)`)

	// Pattern: /* annotation */ at the start of a normalized entry
	leadingCommentPattern = regexp.MustCompile(`^/\*(.*?)\*/`)

	// Pattern: @range: / @Range:
	rangeMarkerPattern = regexp.MustCompile(`(?i)@range:`)

	// Pattern: first direction keyword in a port declaration
	directionPattern = regexp.MustCompile(`input|output|inout`)
)

const (
	parameterKeyword = "parameter"
	paragraphBreak   = "</br>"
)

// matchDocBlock returns [description] and the offset just past the block
func matchDocBlock(source string) ([]string, int) {
	loc := docBlockPattern.FindStringSubmatchIndex(source)
	if loc == nil {
		return nil, 0
	}
	return []string{strings.TrimSpace(source[loc[2]:loc[3]])}, loc[1]
}

// matchModuleName returns [name] if definition opens with a module header
func matchModuleName(definition string) []string {
	if m := moduleNamePattern.FindStringSubmatch(definition); m != nil {
		return []string{m[1]}
	}
	return nil
}

// matchLeadingComment returns [body, remainder] if line starts with a block comment
func matchLeadingComment(line string) []string {
	loc := leadingCommentPattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return nil
	}
	return []string{line[loc[2]:loc[3]], line[loc[1]:]}
}
