package validator

// =============================================================================
// VALIDATOR: THE LAST STOP BEFORE RENDERING
// =============================================================================
//
// The extractor is regex driven and tolerant by nature. The CUE contract is
// where "tolerant" stops: a document that reaches a renderer has a clean
// module name, clean entry names and a real port direction.
//
// WHEN VALIDATION FAILS:
// 1. DON'T loosen schema.cue to make a file pass
// 2. DO trace back to the pattern or declaration parser that let it through
// =============================================================================

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/robert-at-pretension-io/svdoc/internal/extractor"
)

//go:embed schema.cue
var schemaFS embed.FS

// ErrContract is wrapped by every schema validation failure
var ErrContract = errors.New("document contract violated")

const documentPath = "#Document"

// Validator validates extracted documents against the embedded CUE schema
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// New creates a new Validator with the embedded CUE schema
func New() (*Validator, error) {
	ctx := cuecontext.New()

	schemaBytes, err := schemaFS.ReadFile("schema.cue")
	if err != nil {
		return nil, fmt.Errorf("loading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	return &Validator{
		ctx:    ctx,
		schema: schema,
	}, nil
}

// Validate checks that doc conforms to #Document.
// Returns nil if valid, or an error wrapping ErrContract.
func (v *Validator) Validate(doc extractor.Document) error {
	jsonBytes, err := json.Marshal(doc.WithEmptyLists())
	if err != nil {
		return fmt.Errorf("marshaling document to JSON: %w", err)
	}
	return v.ValidateJSON(jsonBytes)
}

// ValidateJSON validates JSON bytes directly against the schema
func (v *Validator) ValidateJSON(jsonBytes []byte) error {
	unified, err := v.unify(jsonBytes)
	if err != nil {
		return err
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %w", ErrContract, err)
	}
	return nil
}

// ValidationErrors returns one message per schema violation in doc
func (v *Validator) ValidationErrors(doc extractor.Document) []string {
	jsonBytes, err := json.Marshal(doc.WithEmptyLists())
	if err != nil {
		return []string{fmt.Sprintf("marshal error: %v", err)}
	}

	unified, err := v.unify(jsonBytes)
	if err != nil {
		return []string{err.Error()}
	}
	err = unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs []string
	for _, e := range cueerrors.Errors(err) {
		errs = append(errs, e.Error())
	}
	return errs
}

func (v *Validator) unify(jsonBytes []byte) (cue.Value, error) {
	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("compiling JSON as CUE: %w", dataValue.Err())
	}

	def := v.schema.LookupPath(cue.ParsePath(documentPath))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("looking up %s definition: %w", documentPath, def.Err())
	}

	return def.Unify(dataValue), nil
}
