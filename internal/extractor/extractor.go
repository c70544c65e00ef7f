// Package extractor pulls the documented interface of a SystemVerilog module
// out of its source text.
//
// The expected layout is a /*---- ... ----*/ documentation block followed by
// the module it documents. Parameters and ports may each be preceded by a
// /* description @range: ... */ annotation. Only one declaration per line is
// recognized.
package extractor

import "fmt"

// Layout records which optional regions of a module definition were found
type Layout struct {
	ParameterBlock bool
	PortBlock      bool
}

// Parse extracts the Document from SystemVerilog source text.
// The first failure aborts the whole file.
func Parse(source string) (Document, error) {
	doc, _, err := Extract(source)
	return doc, err
}

// Extract is Parse that also reports the Layout of the definition. A missing
// port list yields zero ports; callers may want to warn about it.
func Extract(source string) (Document, Layout, error) {
	b, err := locate(source)
	if err != nil {
		return Document{}, Layout{}, err
	}
	layout := Layout{ParameterBlock: b.Parameters != "", PortBlock: b.Ports != ""}

	doc := Document{
		Module: Module{
			Name:        b.Name,
			Description: b.Description,
		},
	}

	paramEntries := splitParameterEntries(b.Parameters)
	doc.Parameters = make([]Parameter, 0, len(paramEntries))
	for i, entry := range paramEntries {
		param, err := ParseParameter(i, entry)
		if err != nil {
			return Document{}, layout, fmt.Errorf("module %s: %w", b.Name, err)
		}
		doc.Parameters = append(doc.Parameters, param)
	}

	portEntries := splitPortEntries(b.Ports)
	doc.Ports = make([]Port, 0, len(portEntries))
	for i, entry := range portEntries {
		port, err := ParsePort(i, entry)
		if err != nil {
			return Document{}, layout, fmt.Errorf("module %s: %w", b.Name, err)
		}
		doc.Ports = append(doc.Ports, port)
	}

	return doc, layout, nil
}
