// Package render turns an extracted Document into its output text.
//
// Absent optional values are stored as empty fields in the Document and are
// replaced by the placeholder strings below only here, when a View is built.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/robert-at-pretension-io/svdoc/internal/extractor"
)

// Placeholders shown for values the source did not provide
const (
	Undefined   = "ndef"
	DefaultType = "int(default)"
	BitWidth    = "bit"
)

// Output formats
const (
	FormatRST      = "rst"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// Renderer writes a Document in one output format
type Renderer interface {
	Render(w io.Writer, doc extractor.Document) error
}

// View is the data handed to every text template
type View struct {
	Name        string
	Description string
	Parameters  []ParameterRow
	Ports       []PortRow
}

// ParameterRow is one parameter with placeholders filled in
type ParameterRow struct {
	Name        string
	Type        string
	Range       string
	Description string
}

// PortRow is one port with placeholders filled in
type PortRow struct {
	Name        string
	Direction   string
	Width       string
	Description string
}

// NewView materializes placeholders for every absent value in doc
func NewView(doc extractor.Document) View {
	v := View{
		Name:        doc.Module.Name,
		Description: doc.Module.Description,
		Parameters:  make([]ParameterRow, 0, len(doc.Parameters)),
		Ports:       make([]PortRow, 0, len(doc.Ports)),
	}
	for _, p := range doc.Parameters {
		v.Parameters = append(v.Parameters, ParameterRow{
			Name:        p.Name,
			Type:        orDefault(p.Type, DefaultType),
			Range:       deref(p.Range),
			Description: deref(p.Description),
		})
	}
	for _, p := range doc.Ports {
		v.Ports = append(v.Ports, PortRow{
			Name:        p.Name,
			Direction:   string(p.Direction),
			Width:       orDefault(p.Width, BitWidth),
			Description: deref(p.Description),
		})
	}
	return v
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return Undefined
	}
	return *s
}

// ForFormat returns the built-in renderer for a format name
func ForFormat(format string) (Renderer, error) {
	switch NormalizeFormat(format) {
	case FormatRST:
		return RST(), nil
	case FormatMarkdown:
		return Markdown(), nil
	case FormatJSON:
		return JSON{}, nil
	case FormatYAML:
		return YAML{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// NormalizeFormat maps aliases onto canonical format names
func NormalizeFormat(format string) string {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", "rest", "rst":
		return FormatRST
	case "md", "markdown":
		return FormatMarkdown
	case "yml", "yaml":
		return FormatYAML
	default:
		return f
	}
}

// Extension returns the output file extension, dot included
func Extension(format string) string {
	switch NormalizeFormat(format) {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	default:
		return ".rst"
	}
}

// String renders doc with r and returns the text
func String(r Renderer, doc extractor.Document) (string, error) {
	var sb strings.Builder
	if err := r.Render(&sb, doc); err != nil {
		return "", err
	}
	return sb.String(), nil
}
