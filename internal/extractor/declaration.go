package extractor

import "strings"

// ParseParameter turns one raw parameter entry into a Parameter.
// The default value after '=' is only used to bound the scan and is dropped.
func ParseParameter(index int, rawEntry string) (Parameter, error) {
	ann := SplitAnnotation(rawEntry)
	malformed := &EntryError{Kind: KindParameter, Index: index, Entry: Normalize(rawEntry)}

	start := strings.Index(ann.Declaration, parameterKeyword)
	if start < 0 {
		return Parameter{}, malformed
	}
	tokens := strings.Fields(boundDeclaration(ann.Declaration[start:], "=", "//", "/*"))
	if len(tokens) < 2 {
		return Parameter{}, malformed
	}

	param := Parameter{Name: cleanName(tokens[len(tokens)-1])}
	if param.Name == "" {
		return Parameter{}, malformed
	}
	if len(tokens) > 2 {
		param.Type = strings.Join(tokens[1:len(tokens)-1], " ")
	}
	if ann.Present {
		desc := ann.Description
		param.Description = &desc
		param.Range = ann.Range
	}
	return param, nil
}

// ParsePort turns one raw port entry into a Port
func ParsePort(index int, rawEntry string) (Port, error) {
	ann := SplitAnnotation(rawEntry)
	malformed := &EntryError{Kind: KindPort, Index: index, Entry: Normalize(rawEntry)}

	loc := directionPattern.FindStringIndex(ann.Declaration)
	if loc == nil {
		return Port{}, malformed
	}
	tokens := strings.Fields(boundDeclaration(ann.Declaration[loc[0]:], "//", "/*"))
	if len(tokens) < 2 {
		return Port{}, malformed
	}
	dir, ok := ParseDirection(tokens[0])
	if !ok {
		return Port{}, malformed
	}

	port := Port{
		Name:      cleanName(tokens[len(tokens)-1]),
		Direction: dir,
	}
	// a trailing packed dimension means the name is missing
	if port.Name == "" || strings.HasPrefix(port.Name, "[") {
		return Port{}, malformed
	}
	if len(tokens) > 2 {
		port.Width = strings.Join(tokens[1:len(tokens)-1], " ")
	}
	if ann.Present {
		desc := ann.Description
		port.Description = &desc
	}
	return port, nil
}

// boundDeclaration cuts decl at the earliest of the stop markers.
// A lone '/' is division inside a width and does not stop the scan.
func boundDeclaration(decl string, stops ...string) string {
	end := len(decl)
	for _, stop := range stops {
		if i := strings.Index(decl[:end], stop); i >= 0 {
			end = i
		}
	}
	return decl[:end]
}
