package render

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/robert-at-pretension-io/svdoc/internal/extractor"
)

// JSON writes the Document as indented JSON; absent values are omitted
type JSON struct{}

func (JSON) Render(w io.Writer, doc extractor.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc.WithEmptyLists())
}

// YAML writes the Document as YAML; absent values are omitted
type YAML struct{}

func (YAML) Render(w io.Writer, doc extractor.Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc.WithEmptyLists()); err != nil {
		return err
	}
	return enc.Close()
}
