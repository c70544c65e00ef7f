package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-at-pretension-io/svdoc/internal/generator"
)

const fifoSource = `/*----------
  Small FIFO.
----------*/
module fifo #(
    /* data width @range: [1,64] */
    parameter int WIDTH = 8
) (
    /* clock */
    input clk,
    /* read data */
    output [WIDTH-1:0] rdata
);
endmodule
`

type cliResult struct {
	stdout string
	stderr string
	code   int
	err    error
}

// isolate runs the test in an empty working directory with no user config
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	return dir
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), code: exitCodeFor(err), err: err}
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGenerateWritesToOutDir(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "rtl", "fifo.sv"), fifoSource)

	res := runCLI(t, "-o", "docs", "rtl")
	require.NoError(t, res.err)
	assert.Equal(t, exitOK, res.code)

	data, err := os.ReadFile(filepath.Join(dir, "docs", "fifo.rst"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rdata", "output", "[WIDTH-1:0]", "read data"`)
}

func TestGenerateFormatFromConfigFile(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, filepath.Join(dir, "fifo.sv"), fifoSource)
	cfgPath := writeFile(t, filepath.Join(dir, "custom.yaml"), "format: markdown\noutput_dir: out\n")

	res := runCLI(t, "--config", cfgPath, src)
	require.NoError(t, res.err)
	assert.FileExists(t, filepath.Join(dir, "out", "fifo.md"))

	// Flags win over the file.
	res = runCLI(t, "--config", cfgPath, "-f", "json", src)
	require.NoError(t, res.err)
	assert.FileExists(t, filepath.Join(dir, "out", "fifo.json"))
}

func TestGenerateStdout(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, filepath.Join(dir, "fifo.sv"), fifoSource)

	res := runCLI(t, "--stdout", "-f", "markdown", src)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "# fifo")
	assert.NoFileExists(t, filepath.Join(dir, "fifo.md"))
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		source string
		args   []string
		want   int
	}{
		{"ok", fifoSource, nil, exitOK},
		{"no_annotation", "module m (input a);\n", nil, exitNoAnnotation},
		{"no_module", "/*---- d ----*/\nwire x;\n", nil, exitNoModule},
		{"no_module_name", "/*---- d ----*/\nmodule foo bar (input a);\n", nil, exitNoModuleName},
		{"malformed_parameter", "/*---- d ----*/\nmodule m #(\n  parameter ,\n  parameter int W = 1\n) (\n  input a\n);\n", nil, exitMalformedParameter},
		{"malformed_port", "/*---- d ----*/\nmodule m (\n  input a,\n  input\n);\n", nil, exitMalformedPort},
		{"contract", "/*---- d ----*/\nmodule m (\n  input a;b\n);\n", nil, exitContract},
		{"module_name_with_path", "/*---- d ----*/\nmodule ../escaped (input a);\n", nil, exitNoModuleName},
		{"strict_lint", "/*----\n\n----*/\nmodule m (input a);\n", []string{"--strict"}, exitStrictLint},
		{"check_without_strict", "/*----\n\n----*/\nmodule m (input a);\n", []string{"--check"}, exitOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			src := writeFile(t, filepath.Join(dir, "in.sv"), tt.source)
			res := runCLI(t, append(tt.args, src)...)
			assert.Equal(t, tt.want, res.code, "err: %v", res.err)
		})
	}
}

func TestBatchExitCodeFollowsInputOrder(t *testing.T) {
	dir := isolate(t)
	port := writeFile(t, filepath.Join(dir, "a.sv"), "/*---- d ----*/\nmodule m (\n  input a,\n  input\n);\n")
	noDoc := writeFile(t, filepath.Join(dir, "b.sv"), "module m (input a);\n")
	good := writeFile(t, filepath.Join(dir, "c.sv"), fifoSource)

	res := runCLI(t, port, noDoc, good)
	assert.Equal(t, exitMalformedPort, res.code)
	assert.FileExists(t, filepath.Join(dir, "fifo.rst"))

	res = runCLI(t, noDoc, port, good)
	assert.Equal(t, exitNoAnnotation, res.code)
}

func TestUsageErrors(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, filepath.Join(dir, "fifo.sv"), fifoSource)

	res := runCLI(t)
	assert.Equal(t, exitFailure, res.code)

	res = runCLI(t, "missing.sv")
	assert.Equal(t, exitFailure, res.code)

	res = runCLI(t, "-f", "pdf", src)
	assert.Equal(t, exitFailure, res.code)
	assert.NoFileExists(t, filepath.Join(dir, "fifo.pdf"))
}

func TestInitCommand(t *testing.T) {
	dir := isolate(t)

	res := runCLI(t, "init")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Created svdoc.json")

	data, err := os.ReadFile(filepath.Join(dir, "svdoc.json"))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "rst", raw["format"])

	res = runCLI(t, "init")
	assert.Equal(t, exitFailure, res.code)

	res = runCLI(t, "init", "--force")
	assert.Equal(t, exitOK, res.code)
}

func TestLintCommand(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "rtl", "fifo.sv"), fifoSource)
	writeFile(t, filepath.Join(dir, "rtl", "bare.sv"), "/*----\n\n----*/\nmodule bare (\n  input a\n);\n")

	res := runCLI(t, "lint", "rtl")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "missing_module_description")
	assert.Contains(t, res.stdout, "undocumented_port")
	assert.Contains(t, res.stdout, "2 file(s) checked")
	assert.NoFileExists(t, filepath.Join(dir, "bare.rst"))

	res = runCLI(t, "lint", "--strict", "rtl")
	assert.Equal(t, exitStrictLint, res.code)

	res = runCLI(t, "lint", "--json", "rtl")
	require.NoError(t, res.err)
	var results []generator.FileResult
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "bare", results[0].Module)
	assert.Equal(t, "fifo", results[1].Module)
	assert.Empty(t, results[1].Violations)
}

func TestLintReportsContractProblems(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "bad.sv"), "/*---- d ----*/\nmodule m (\n  input a;b\n);\n")

	res := runCLI(t, "lint", "bad.sv")
	assert.Equal(t, exitContract, res.code)
	assert.Contains(t, res.stdout, "invalid")
	assert.Contains(t, res.stdout, "bad.sv")

	res = runCLI(t, "lint", "--json", "bad.sv")
	assert.Equal(t, exitContract, res.code)
	var results []generator.FileResult
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &results))
	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].Problems)
}

func TestLintRuleOverrideFromConfig(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "bare.sv"), "/*----\n\n----*/\nmodule bare (\n  input a\n);\n")
	writeFile(t, filepath.Join(dir, "svdoc.json"), `{"lint": {"rules": {"missing_module_description": "off"}}}`)

	res := runCLI(t, "lint", "--strict", "bare.sv")
	require.NoError(t, res.err)
	assert.NotContains(t, res.stdout, "missing_module_description")
}

func TestPreviewCommand(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, filepath.Join(dir, "fifo.sv"), fifoSource)

	res := runCLI(t, "preview", "--width", "0", src)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "fifo")
	assert.Contains(t, res.stdout, "rdata")

	res = runCLI(t, "preview", writeFile(t, filepath.Join(dir, "x.sv"), "module x (input a);\n"))
	assert.Equal(t, exitNoAnnotation, res.code)
}
