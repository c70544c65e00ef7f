package main

import (
	"errors"
	"fmt"

	"github.com/robert-at-pretension-io/svdoc/internal/extractor"
	"github.com/robert-at-pretension-io/svdoc/internal/generator"
	"github.com/robert-at-pretension-io/svdoc/internal/validator"
)

// Process exit codes
const (
	exitOK                 = 0
	exitFailure            = 1
	exitNoAnnotation       = 2
	exitNoModule           = 3
	exitNoModuleName       = 4
	exitMalformedParameter = 5
	exitMalformedPort      = 6
	exitContract           = 7
	exitStrictLint         = 8
)

// ExitError signals a non-zero exit code without calling os.Exit in RunE handlers
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor classifies err. An ExitError keeps its own code.
func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code != 0 {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, extractor.ErrNoAnnotationFound):
		return exitNoAnnotation
	case errors.Is(err, extractor.ErrNoModuleFound):
		return exitNoModule
	case errors.Is(err, extractor.ErrNoModuleName):
		return exitNoModuleName
	case errors.Is(err, extractor.ErrMalformedParameter):
		return exitMalformedParameter
	case errors.Is(err, extractor.ErrMalformedPort):
		return exitMalformedPort
	case errors.Is(err, validator.ErrContract):
		return exitContract
	case errors.Is(err, generator.ErrStrictLint):
		return exitStrictLint
	}
	return exitFailure
}

// batchError wraps the first failure of a run with its exit code
func batchError(failed, total int, first error) error {
	return &ExitError{
		Code: exitCodeFor(first),
		Err:  fmt.Errorf("%d of %d file(s) failed: %w", failed, total, first),
	}
}
