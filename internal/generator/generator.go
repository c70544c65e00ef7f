// Package generator runs the per-file documentation pipeline:
// read, extract, validate, lint, render, write.
//
// Each file is independent. A failure at any stage ends that file's
// pipeline before anything is written, and the other files of a batch
// carry on. Output files are replaced atomically.
package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/robert-at-pretension-io/svdoc/internal/config"
	"github.com/robert-at-pretension-io/svdoc/internal/extractor"
	"github.com/robert-at-pretension-io/svdoc/internal/policy"
	"github.com/robert-at-pretension-io/svdoc/internal/render"
	"github.com/robert-at-pretension-io/svdoc/internal/validator"
)

var (
	// ErrStrictLint is returned when strict lint finds error-severity violations
	ErrStrictLint = errors.New("documentation lint failed")

	// ErrDuplicateModule fails every input after the first that declares a module
	ErrDuplicateModule = errors.New("module already documented by another input")

	// ErrUnsafeOutputName rejects module names that would leave the output directory
	ErrUnsafeOutputName = errors.New("module name is not a plain file name")
)

// pipelineVersion invalidates cached outputs when rendering changes
const pipelineVersion = "1"

// File outcomes
const (
	StatusWritten = "written"
	StatusPrinted = "printed"
	StatusCached  = "cached"
	StatusLinted  = "linted"
	StatusFailed  = "failed"
)

// Generator turns SystemVerilog sources into rendered documents
type Generator struct {
	Config *config.Config
	Logger *log.Logger

	// Stdout receives rendered documents, in input order, instead of files
	Stdout io.Writer

	// TimingPath enables JSONL timing output
	TimingPath string

	format      string
	renderer    render.Renderer
	validator   *validator.Validator
	policy      *policy.Engine
	fingerprint string
}

// FileResult is the outcome of one input file
type FileResult struct {
	Path       string             `json:"path"`
	Module     string             `json:"module,omitempty"`
	Output     string             `json:"output,omitempty"`
	Status     string             `json:"status"`
	Violations []policy.Violation `json:"violations,omitempty"`
	Problems   []string           `json:"problems,omitempty"`
	Error      string             `json:"error,omitempty"`
	Duration   time.Duration      `json:"-"`
	Err        error              `json:"-"`

	rendered    []byte
	contentHash string
}

func (r *FileResult) fail(err error) {
	r.Status = StatusFailed
	r.Err = fmt.Errorf("%s: %w", r.Path, err)
	r.Error = r.Err.Error()
	r.rendered = nil
}

// New prepares a Generator from cfg. The policy engine is only built when
// lint is enabled or strict.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Generator, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	g := &Generator{
		Config: cfg,
		Logger: logger,
		format: render.NormalizeFormat(cfg.Format),
	}

	var templateData []byte
	if cfg.Template != "" {
		tmpl, err := render.LoadTemplate(cfg.Template)
		if err != nil {
			return nil, err
		}
		g.renderer = tmpl
		templateData, _ = os.ReadFile(cfg.Template)
	} else {
		r, err := render.ForFormat(g.format)
		if err != nil {
			return nil, err
		}
		g.renderer = r
	}

	v, err := validator.New()
	if err != nil {
		return nil, fmt.Errorf("load document contract: %w", err)
	}
	g.validator = v

	if cfg.Lint.Enabled || cfg.Lint.Strict {
		var engine *policy.Engine
		if cfg.Lint.PolicyDir != "" {
			engine, err = policy.Load(ctx, cfg.Lint.PolicyDir)
		} else {
			engine, err = policy.New(ctx)
		}
		if err != nil {
			return nil, fmt.Errorf("load lint policy: %w", err)
		}
		g.policy = engine
	}

	g.fingerprint = g.computeFingerprint(templateData)
	return g, nil
}

func (g *Generator) computeFingerprint(templateData []byte) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "v=%s;format=%s;template=%s;out=%s;", pipelineVersion, g.format, hashBytes(templateData), g.Config.OutputDir)
	fmt.Fprintf(&sb, "lint=%t;strict=%t;policy=%s;", g.policy != nil, g.Config.Lint.Strict, g.Config.Lint.PolicyDir)
	rules := make([]string, 0, len(g.Config.Lint.Rules))
	for rule, severity := range g.Config.Lint.Rules {
		rules = append(rules, rule+"="+severity)
	}
	sort.Strings(rules)
	sb.WriteString(strings.Join(rules, ","))
	return hashBytes([]byte(sb.String()))
}

// Extension is the file extension of generated documents
func (g *Generator) Extension() string {
	return render.Extension(g.format)
}

// OutputPath is where the document for module is written. The name must be
// a single path element.
func (g *Generator) OutputPath(module string) (string, error) {
	if module == "" || module == "." || module == ".." || filepath.Base(module) != module || strings.ContainsAny(module, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeOutputName, module)
	}
	return filepath.Join(g.Config.OutputDir, module+g.Extension()), nil
}

// Build extracts, validates and optionally lints one source text. Strict lint
// failures return the lint result together with an ErrStrictLint error. A
// contract failure still returns the extracted document so callers can
// report what was wrong with it.
func (g *Generator) Build(ctx context.Context, path, source string) (extractor.Document, *policy.Result, error) {
	doc, layout, err := extractor.Extract(source)
	if err != nil {
		return extractor.Document{}, nil, err
	}
	if !layout.PortBlock {
		g.Logger.Debug("no port list found", "file", path, "module", doc.Module.Name)
	}
	g.logRecords(path, doc)

	if err := g.validator.Validate(doc); err != nil {
		return doc, nil, err
	}

	if g.policy == nil {
		return doc, nil, nil
	}
	res, err := g.policy.Evaluate(ctx, doc, g.Config)
	if err != nil {
		return extractor.Document{}, nil, err
	}
	if g.Config.Lint.Strict && res.HasErrors() {
		return doc, res, fmt.Errorf("%w: %d error(s) in module %s", ErrStrictLint, res.Summary.Errors, doc.Module.Name)
	}
	return doc, res, nil
}

// Render returns the text of doc in the configured format
func (g *Generator) Render(doc extractor.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.renderer.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("render module %s: %w", doc.Module.Name, err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) logRecords(path string, doc extractor.Document) {
	view := render.NewView(doc)
	g.Logger.Debug("module", "file", path, "name", view.Name)
	for _, p := range view.Parameters {
		g.Logger.Debug("parameter", "module", view.Name, "name", p.Name, "type", p.Type, "range", p.Range, "description", p.Description)
	}
	for _, p := range view.Ports {
		g.Logger.Debug("port", "module", view.Name, "name", p.Name, "direction", p.Direction, "width", p.Width, "description", p.Description)
	}
}

func (g *Generator) logViolations(path string, violations []policy.Violation) {
	for _, v := range violations {
		kv := []interface{}{"file", path, "rule", v.Rule, "subject", v.Subject}
		switch v.Severity {
		case policy.SeverityError:
			g.Logger.Error(v.Message, kv...)
		case policy.SeverityWarning:
			g.Logger.Warn(v.Message, kv...)
		default:
			g.Logger.Info(v.Message, kv...)
		}
	}
}

// prepareFile reads, builds and renders one file. Nothing is written here;
// cache may be nil.
func (g *Generator) prepareFile(ctx context.Context, path string, cache *outputCache) FileResult {
	result := FileResult{Path: path}
	if err := ctx.Err(); err != nil {
		result.fail(err)
		return result
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.fail(err)
		return result
	}

	if cache != nil {
		result.contentHash = hashBytes(data)
		if entry, ok := cache.Get(cacheKey(path), result.contentHash); ok {
			g.Logger.Debug("unchanged, skipping", "file", path, "output", entry.Output)
			result.Module = entry.Module
			result.Output = entry.Output
			result.Violations = entry.Violations
			result.Status = StatusCached
			return result
		}
	}

	doc, res, err := g.Build(ctx, path, string(data))
	if res != nil {
		result.Violations = res.Violations
		g.logViolations(path, res.Violations)
	}
	result.Module = doc.Module.Name
	if err != nil {
		result.fail(err)
		return result
	}

	out, err := g.Render(doc)
	if err != nil {
		result.fail(err)
		return result
	}
	result.rendered = out

	if g.Stdout != nil {
		result.Status = StatusPrinted
		return result
	}
	if result.Output, err = g.OutputPath(doc.Module.Name); err != nil {
		result.fail(err)
	}
	return result
}

// claimModules fails every result after the first, in input order, that
// names an already claimed module. Cache entries of the losers are dropped.
func (g *Generator) claimModules(results []FileResult, cache *outputCache) {
	owners := make(map[string]string)
	for i := range results {
		r := &results[i]
		if r.Err != nil || r.Module == "" {
			continue
		}
		owner, taken := owners[r.Module]
		if !taken {
			owners[r.Module] = r.Path
			continue
		}
		r.fail(fmt.Errorf("%w: %s is also declared in %s", ErrDuplicateModule, r.Module, owner))
		g.Logger.Error("duplicate module", "file", r.Path, "module", r.Module, "first", owner)
		if cache != nil {
			cache.Delete(cacheKey(r.Path))
		}
	}
}

// writeFile replaces the output of a prepared result
func (g *Generator) writeFile(ctx context.Context, r *FileResult, cache *outputCache) {
	if err := ctx.Err(); err != nil {
		r.fail(err)
		return
	}
	if err := writeFileAtomic(r.Output, r.rendered); err != nil {
		r.fail(err)
		return
	}
	r.rendered = nil
	r.Status = StatusWritten
	g.Logger.Info("wrote", "module", r.Module, "output", r.Output)

	if cache != nil {
		cache.Put(cacheKey(r.Path), cacheEntry{
			ContentHash: r.contentHash,
			Module:      r.Module,
			Output:      r.Output,
			Violations:  r.Violations,
		})
	}
}

// lintFile extracts and lints one file without rendering
func (g *Generator) lintFile(ctx context.Context, path string) FileResult {
	result := FileResult{Path: path}
	if err := ctx.Err(); err != nil {
		result.fail(err)
		return result
	}
	data, err := os.ReadFile(path)
	if err != nil {
		result.fail(err)
		return result
	}

	doc, res, err := g.Build(ctx, path, string(data))
	result.Module = doc.Module.Name
	if res != nil {
		result.Violations = res.Violations
	}
	if errors.Is(err, validator.ErrContract) {
		result.Problems = g.validator.ValidationErrors(doc)
	}
	if err != nil {
		result.fail(err)
		return result
	}
	result.Status = StatusLinted
	return result
}

// Run generates documents for files. Every file gets a result, in input
// order; the returned error is the first failure in that order.
func (g *Generator) Run(ctx context.Context, files []string) ([]FileResult, error) {
	runStart := time.Now()
	timing := g.newTiming(runStart)
	defer timing.Close()

	var cache *outputCache
	if g.Config.Cache.Enabled && g.Stdout == nil {
		cache = newOutputCache(g.Config.Cache.Dir, g.fingerprint)
		if err := cache.Load(); err != nil {
			g.Logger.Warn("cache disabled", "err", err)
			cache = nil
		}
	}

	results := g.fanOut(ctx, files, timing, "generate", func(ctx context.Context, path string) FileResult {
		return g.prepareFile(ctx, path, cache)
	})

	if g.Stdout == nil {
		g.claimModules(results, cache)
		g.writeAll(ctx, results, timing, cache)
	}

	if cache != nil {
		if err := cache.Save(); err != nil {
			g.Logger.Warn("cache save failed", "err", err)
		}
	}

	if g.Stdout != nil {
		for _, r := range results {
			if r.rendered == nil {
				continue
			}
			if _, err := g.Stdout.Write(r.rendered); err != nil {
				return results, fmt.Errorf("write stdout: %w", err)
			}
		}
	}

	timing.RecordStage("total", runStart, time.Since(runStart), "")
	return results, FirstError(results)
}

// Lint extracts and lints files without rendering or writing anything
func (g *Generator) Lint(ctx context.Context, files []string) ([]FileResult, error) {
	if g.policy == nil {
		return nil, errors.New("lint policy not loaded")
	}
	runStart := time.Now()
	timing := g.newTiming(runStart)
	defer timing.Close()

	results := g.fanOut(ctx, files, timing, "lint", g.lintFile)
	timing.RecordStage("total", runStart, time.Since(runStart), "")
	return results, FirstError(results)
}

func (g *Generator) fanOut(ctx context.Context, files []string, timing *timingRecorder, phase string, fn func(context.Context, string) FileResult) []FileResult {
	stageStart := time.Now()
	results := make([]FileResult, len(files))

	var eg errgroup.Group
	eg.SetLimit(g.parallelism())
	var progressMu sync.Mutex
	done := 0
	for i, file := range files {
		eg.Go(func() error {
			start := time.Now()
			r := fn(ctx, file)
			r.Duration = time.Since(start)
			results[i] = r
			timing.RecordFile(phase, file, r.Status, start, r.Duration)

			progressMu.Lock()
			done++
			g.Logger.Debug("processed", "file", file, "status", r.Status, "progress", fmt.Sprintf("%d/%d", done, len(files)), "took", r.Duration)
			progressMu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	timing.RecordStage(phase, stageStart, time.Since(stageStart), "")
	return results
}

// writeAll writes every prepared result. Distinct modules never share an
// output path once claimModules has run.
func (g *Generator) writeAll(ctx context.Context, results []FileResult, timing *timingRecorder, cache *outputCache) {
	stageStart := time.Now()
	var eg errgroup.Group
	eg.SetLimit(g.parallelism())
	for i := range results {
		r := &results[i]
		if r.Err != nil || r.rendered == nil {
			continue
		}
		eg.Go(func() error {
			start := time.Now()
			g.writeFile(ctx, r, cache)
			timing.RecordFile("write", r.Path, r.Status, start, time.Since(start))
			return nil
		})
	}
	_ = eg.Wait()
	timing.RecordStage("write", stageStart, time.Since(stageStart), "")
}

func (g *Generator) newTiming(start time.Time) *timingRecorder {
	timing := newTimingRecorder(start, g.resolveTimingPath())
	if err := timing.Err(); err != nil {
		g.Logger.Warn("timing output disabled", "err", err)
	}
	timing.onError = func(err error) {
		g.Logger.Warn("timing output incomplete", "err", err)
	}
	return timing
}

func (g *Generator) parallelism() int {
	if n := g.Config.Concurrency.MaxParallelFiles; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// FirstError returns the error of the first failed result
func FirstError(results []FileResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
