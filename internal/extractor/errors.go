package extractor

import (
	"errors"
	"fmt"
)

// Every error here is fatal for the file being parsed; Parse never returns a
// partial Document.
var (
	ErrNoAnnotationFound  = errors.New("no documentation block found")
	ErrNoModuleFound      = errors.New("no module definition found after documentation block")
	ErrNoModuleName       = errors.New("no module name found in module definition")
	ErrMalformedParameter = errors.New("malformed parameter")
	ErrMalformedPort      = errors.New("malformed port")
)

// EntryKind tells which sub-block an entry came from
type EntryKind string

const (
	KindParameter EntryKind = "parameter"
	KindPort      EntryKind = "port"
)

// EntryError reports a declaration that could not be parsed.
// Index is 0-based within its kind, in source order.
type EntryError struct {
	Kind  EntryKind
	Index int
	Entry string
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("malformed %s entry %d: %q", e.Kind, e.Index, e.Entry)
}

// Unwrap maps the entry kind onto its sentinel so callers can use errors.Is
func (e *EntryError) Unwrap() error {
	if e.Kind == KindPort {
		return ErrMalformedPort
	}
	return ErrMalformedParameter
}
