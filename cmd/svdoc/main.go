// =============================================================================
// svdoc - SystemVerilog module documentation generator
// =============================================================================
//
// THE PIPELINE (per file):
//   1. Extractor locates the /*---- ... ----*/ block and the module after it
//   2. Parameters and ports are parsed together with their /* */ annotations
//   3. CUE validator enforces the document contract
//   4. OPA optionally checks documentation coverage (--check, --strict)
//   5. The renderer writes <module>.rst (or .md, .json, .yaml) atomically
//
// Any failure stops that file before its output is touched.
// =============================================================================

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	stop()
	os.Exit(exitCodeFor(err))
}
