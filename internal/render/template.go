package render

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/robert-at-pretension-io/svdoc/internal/extractor"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var funcs = template.FuncMap{
	// cell makes a value safe inside a Markdown table cell
	"cell": func(s string) string {
		return strings.NewReplacer("|", `\|`, "\n", "<br>").Replace(s)
	},
	"upper": strings.ToUpper,
}

// Template renders a View through a text/template
type Template struct {
	tmpl *template.Template
}

// Render executes the template against the View of doc
func (t *Template) Render(w io.Writer, doc extractor.Document) error {
	if err := t.tmpl.Execute(w, NewView(doc)); err != nil {
		return fmt.Errorf("executing template %s: %w", t.tmpl.Name(), err)
	}
	return nil
}

// RST returns the reStructuredText renderer, the default output
func RST() *Template {
	return mustEmbedded("rst.tmpl")
}

// Markdown returns the Markdown renderer
func Markdown() *Template {
	return mustEmbedded("markdown.tmpl")
}

func mustEmbedded(name string) *Template {
	tmpl := template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/"+name))
	return &Template{tmpl: tmpl}
}

// LoadTemplate parses a user-supplied template file.
// The template sees a View; the "cell" and "upper" functions are available.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	tmpl, err := template.New(filepath.Base(path)).Funcs(funcs).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", path, err)
	}
	return &Template{tmpl: tmpl}, nil
}
