package extractor

// blocks holds the regions of a source file the entry parsers work on
type blocks struct {
	Description string
	Definition  string
	Name        string
	Parameters  string
	Ports       string
}

// locate finds, in order, the documentation block, the module definition
// that follows it, the module name, and the parameter and port sub-blocks.
func locate(source string) (blocks, error) {
	var b blocks

	description, docEnd, ok := findDocBlock(source)
	if !ok {
		return b, ErrNoAnnotationFound
	}
	b.Description = description

	definition, ok := findDefinitionBlock(source, docEnd)
	if !ok {
		return b, ErrNoModuleFound
	}
	b.Definition = definition

	name, ok := findModuleName(definition)
	if !ok {
		return b, ErrNoModuleName
	}
	b.Name = name

	params, paramsEnd := findParameterSubblock(definition)
	b.Parameters = params
	b.Ports = findPortSubblock(definition, paramsEnd)

	return b, nil
}

func findDocBlock(source string) (string, int, bool) {
	m, end := matchDocBlock(source)
	if m == nil {
		return "", 0, false
	}
	return m[0], end, true
}

// findDefinitionBlock only looks past offset after; a module above the
// documentation block is never picked up.
func findDefinitionBlock(source string, after int) (string, bool) {
	rest := source[after:]
	loc := moduleDefPattern.FindStringIndex(rest)
	if loc == nil {
		return "", false
	}
	return rest[loc[0]:loc[1]], true
}

func findModuleName(definition string) (string, bool) {
	m := matchModuleName(definition)
	if m == nil {
		return "", false
	}
	return m[0], true
}

// findParameterSubblock returns the #( ... ) region and the offset just past it.
// A module without parameters yields "" and 0.
func findParameterSubblock(definition string) (string, int) {
	loc := parameterBlockPattern.FindStringIndex(definition)
	if loc == nil {
		return "", 0
	}
	return definition[loc[0]:loc[1]], loc[1]
}

func findPortSubblock(definition string, after int) string {
	rest := definition[after:]
	loc := portBlockPattern.FindStringIndex(rest)
	if loc == nil {
		return ""
	}
	return rest[loc[0]:loc[1]]
}
