package types

import (
	"fmt"
	"go/ast"
	"go/token"
)

// Severity controls how a validation gate treats its findings.
type Severity int

const (
	SeverityOff Severity = iota
	SeverityWarning
	SeverityError
)

// DefaultConfidence is assigned to every accepted ChangeSpec. The engine
// has no per-pattern calibration; callers tune acceptance with their own
// threshold instead.
const DefaultConfidence = 0.8

// PatternMatch is produced by a pattern and consumed by a surgeon.
// Node points at the matched subtree; Fset is the file set that subtree
// was parsed with, so surgeons can map it back to byte offsets in the
// original text.
type PatternMatch struct {
	PatternName string
	Priority    int
	StartLine   int
	EndLine     int

	Node ast.Node
	Func *ast.FuncDecl
	Fset *token.FileSet

	EstimatedReduction int

	// Context carries free-form, pattern-specific hints for surgeons,
	// e.g. a suggested helper name or extraction candidate spans.
	Context map[string]string
}

// TransformResult is the outcome of a single surgeon attempt.
type TransformResult struct {
	Success     bool
	Transformed string
	Err         string
	SurgeonName string
}

// Failure builds a failed TransformResult for the named surgeon.
func Failure(surgeon, format string, args ...any) TransformResult {
	return TransformResult{
		Success:     false,
		Err:         fmt.Sprintf(format, args...),
		SurgeonName: surgeon,
	}
}

// ValidationResult reports the four gate outcomes for one rewrite.
// Errors are ordered by gate; ComplexityDelta is original minus transformed.
type ValidationResult struct {
	Valid bool

	SyntaxValid         bool
	ComplexityReduced   bool
	BehaviorPreserved   bool
	FormattingPreserved bool

	Errors          []string
	Warnings        []string
	ComplexityDelta int
}

// ChangeSpec is the terminal, fully validated edit returned by the engine.
// The engine never persists it; that policy belongs to the caller.
type ChangeSpec struct {
	FilePath            string  `json:"file_path" yaml:"file_path"`
	LineStart           int     `json:"line_start" yaml:"line_start"`
	LineEnd             int     `json:"line_end" yaml:"line_end"`
	PatternName         string  `json:"pattern_name" yaml:"pattern_name"`
	ComplexityReduction int     `json:"complexity_reduction" yaml:"complexity_reduction"`
	Confidence          float64 `json:"confidence" yaml:"confidence"`

	OriginalContent    string `json:"-" yaml:"-"`
	TransformedContent string `json:"-" yaml:"-"`
}

// TransformMetrics are monotonically increasing counters kept for the
// lifetime of an engine instance. Reset only on explicit request.
type TransformMetrics struct {
	PatternsTried       uint64 `json:"patterns_tried" yaml:"patterns_tried"`
	PatternsMatched     uint64 `json:"patterns_matched" yaml:"patterns_matched"`
	TransformsAttempted uint64 `json:"transforms_attempted" yaml:"transforms_attempted"`
	TransformsSucceeded uint64 `json:"transforms_succeeded" yaml:"transforms_succeeded"`
	ValidationFailures  uint64 `json:"validation_failures" yaml:"validation_failures"`
	FallbackUsed        uint64 `json:"fallback_used" yaml:"fallback_used"`
}

// ParseError is the only failure the engine propagates to callers.
// Everything else degrades to a nil ChangeSpec.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failure in %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
