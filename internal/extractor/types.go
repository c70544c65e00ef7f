package extractor

// Document is everything extracted from one SystemVerilog source file
type Document struct {
	Module     Module      `json:"module" yaml:"module"`
	Parameters []Parameter `json:"parameters" yaml:"parameters"`
	Ports      []Port      `json:"ports" yaml:"ports"`
}

// Module describes the documented module itself
type Module struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Parameter represents a module parameter declaration.
// Optional fields are left empty (or nil) when the source carries no value;
// the renderer decides how absence is displayed.
type Parameter struct {
	Name        string  `json:"name" yaml:"name"`
	Type        string  `json:"type,omitempty" yaml:"type,omitempty"`
	Range       *string `json:"range,omitempty" yaml:"range,omitempty"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Port represents a module port declaration
type Port struct {
	Name        string    `json:"name" yaml:"name"`
	Direction   Direction `json:"direction" yaml:"direction"`
	Width       string    `json:"width,omitempty" yaml:"width,omitempty"`
	Description *string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Direction is a port direction keyword
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
	DirectionInout  Direction = "inout"
)

// ParseDirection returns the Direction for an exact keyword
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case DirectionInput, DirectionOutput, DirectionInout:
		return Direction(s), true
	}
	return "", false
}

// WithEmptyLists returns d with nil slices replaced by empty ones, so that
// encoders emit [] instead of null.
func (d Document) WithEmptyLists() Document {
	if d.Parameters == nil {
		d.Parameters = []Parameter{}
	}
	if d.Ports == nil {
		d.Ports = []Port{}
	}
	return d
}
