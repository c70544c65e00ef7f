package policy

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/open-policy-agent/opa/rego"

	"github.com/robert-at-pretension-io/svdoc/internal/extractor"
)

//go:embed coverage.rego
var coveragePolicy string

const violationsQuery = "data.svdoc.coverage.violations"

// Severity levels; "off" disables a rule entirely
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
	SeverityOff     = "off"
)

// Engine evaluates documentation coverage policies against extracted documents
type Engine struct {
	query rego.PreparedEvalQuery
}

// Violation represents a policy violation
type Violation struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Module   string `json:"module"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

// Result contains the evaluation results
type Result struct {
	Violations []Violation
	Summary    Summary
}

// Summary provides aggregate counts
type Summary struct {
	TotalViolations int `json:"total_violations"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Info            int `json:"info"`
}

// RuleConfig resolves the configured severity of a rule
type RuleConfig interface {
	IsRuleEnabled(rule string) bool
	GetRuleSeverity(rule string, defaultSeverity string) string
}

// New creates an engine with the built-in coverage policy
func New(ctx context.Context) (*Engine, error) {
	return newEngine(ctx, []func(*rego.Rego){rego.Module("coverage.rego", coveragePolicy)})
}

// Load creates an engine with the built-in policy plus every .rego file in
// policyDir. Extra files extend the svdoc.coverage package.
func Load(ctx context.Context, policyDir string) (*Engine, error) {
	files, err := filepath.Glob(filepath.Join(policyDir, "*.rego"))
	if err != nil {
		return nil, fmt.Errorf("finding policy files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no policy files found in %s", policyDir)
	}

	modules := []func(*rego.Rego){rego.Module("coverage.rego", coveragePolicy)}
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		modules = append(modules, rego.Module(f, string(content)))
	}
	return newEngine(ctx, modules)
}

func newEngine(ctx context.Context, modules []func(*rego.Rego)) (*Engine, error) {
	opts := append(modules, rego.Query(violationsQuery))
	query, err := rego.New(opts...).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("preparing violations query: %w", err)
	}
	return &Engine{query: query}, nil
}

// Evaluate runs the policies against doc. Severities are resolved through
// rules when it is non-nil; disabled rules are dropped.
func (e *Engine) Evaluate(ctx context.Context, doc extractor.Document, rules RuleConfig) (*Result, error) {
	inputMap, err := structToMap(doc.WithEmptyLists())
	if err != nil {
		return nil, fmt.Errorf("converting input: %w", err)
	}

	rs, err := e.query.Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		return nil, fmt.Errorf("evaluating violations: %w", err)
	}

	result := &Result{}
	if len(rs) > 0 && len(rs[0].Expressions) > 0 {
		violations, ok := rs[0].Expressions[0].Value.([]interface{})
		if ok {
			for _, v := range violations {
				vmap, ok := v.(map[string]interface{})
				if !ok {
					continue
				}
				violation := Violation{
					Rule:     getString(vmap, "rule"),
					Severity: getString(vmap, "severity"),
					Module:   doc.Module.Name,
					Subject:  getString(vmap, "subject"),
					Message:  getString(vmap, "message"),
				}
				if rules != nil {
					if !rules.IsRuleEnabled(violation.Rule) {
						continue
					}
					violation.Severity = rules.GetRuleSeverity(violation.Rule, violation.Severity)
				}
				result.Violations = append(result.Violations, violation)
			}
		}
	}

	sort.SliceStable(result.Violations, func(i, j int) bool {
		a, b := result.Violations[i], result.Violations[j]
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Subject < b.Subject
	})
	result.Summary = Summarize(result.Violations)
	return result, nil
}

// HasErrors reports whether any violation has error severity
func (r *Result) HasErrors() bool {
	return r != nil && r.Summary.Errors > 0
}

// Summarize counts violations by severity
func Summarize(violations []Violation) Summary {
	s := Summary{TotalViolations: len(violations)}
	for _, v := range violations {
		switch v.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		default:
			s.Info++
		}
	}
	return s
}

// Helper functions
func structToMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var result map[string]interface{}
	err = json.Unmarshal(data, &result)
	return result, err
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
