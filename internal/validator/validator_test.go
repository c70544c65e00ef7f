package validator

import (
	"errors"
	"testing"

	"github.com/robert-at-pretension-io/svdoc/internal/extractor"
)

func strPtr(s string) *string { return &s }

// TestCUEContractEnforcement feeds documents through the contract the way the
// generator does before rendering.
func TestCUEContractEnforcement(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	tests := []struct {
		name    string
		doc     extractor.Document
		wantErr bool
	}{
		{
			name: "valid_document",
			doc: extractor.Document{
				Module: extractor.Module{Name: "fifo", Description: "FIFO"},
				Parameters: []extractor.Parameter{
					{Name: "WIDTH", Type: "int", Range: strPtr("[1,64]"), Description: strPtr("width")},
					{Name: "DEPTH"},
				},
				Ports: []extractor.Port{
					{Name: "clk", Direction: extractor.DirectionInput},
					{Name: "q", Direction: extractor.DirectionOutput, Width: "[7:0]", Description: strPtr("")},
				},
			},
		},
		{
			name: "nil_lists",
			doc:  extractor.Document{Module: extractor.Module{Name: "m"}},
		},
		{
			name: "invalid_port_direction",
			doc: extractor.Document{
				Module: extractor.Module{Name: "m"},
				Ports:  []extractor.Port{{Name: "a", Direction: "buffer"}},
			},
			wantErr: true,
		},
		{
			name:    "module_name_with_whitespace",
			doc:     extractor.Document{Module: extractor.Module{Name: "foo bar"}},
			wantErr: true,
		},
		{
			name:    "module_name_with_path",
			doc:     extractor.Document{Module: extractor.Module{Name: "../escaped"}},
			wantErr: true,
		},
		{
			name:    "module_name_with_dollar",
			doc:     extractor.Document{Module: extractor.Module{Name: "core_$1"}},
			wantErr: false,
		},
		{
			name:    "empty_module_name",
			doc:     extractor.Document{Module: extractor.Module{Name: ""}},
			wantErr: true,
		},
		{
			name: "parameter_name_with_comma",
			doc: extractor.Document{
				Module:     extractor.Module{Name: "m"},
				Parameters: []extractor.Parameter{{Name: "W,"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.doc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrContract) {
				t.Fatalf("expected error to wrap ErrContract, got %v", err)
			}
		})
	}
}

func TestValidateJSONRejectsUnknownFields(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	data := []byte(`{
		"module": {"name": "m", "description": ""},
		"parameters": [],
		"ports": [{"name": "a", "direction": "input", "line": 3}]
	}`)
	if err := v.ValidateJSON(data); err == nil {
		t.Fatalf("expected closed #Port to reject unknown field")
	}

	data = []byte(`{
		"module": {"name": "m", "description": ""},
		"parameters": [{"name": "W", "type": ""}],
		"ports": []
	}`)
	if err := v.ValidateJSON(data); err == nil {
		t.Fatalf("expected empty parameter type to be rejected")
	}
}

func TestValidationErrorsListsEachProblem(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	good := extractor.Document{Module: extractor.Module{Name: "m"}}
	if errs := v.ValidationErrors(good); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}

	bad := extractor.Document{
		Module: extractor.Module{Name: "m"},
		Ports:  []extractor.Port{{Name: "a", Direction: "sideways"}},
	}
	if errs := v.ValidationErrors(bad); len(errs) == 0 {
		t.Fatalf("expected validation errors for bad direction")
	}
}
