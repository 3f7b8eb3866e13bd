// Package patterns holds the catalog of refactorable structural shapes and
// the priority-ordered matcher that tries them against candidate functions.
package patterns

import (
	"go/ast"
	"go/token"
	"sort"

	"github.com/lesleslie/recast/internal/types"
)

// Pattern names as they appear in PatternMatch and ChangeSpec records.
const (
	EarlyReturnName          = "early_return"
	GuardClauseName          = "guard_clause"
	DecomposeConditionalName = "decompose_conditional"
	DataProcessingName       = "data_processing"
	ExtractMethodName        = "extract_method"
)

// Pattern detects one structural shape in a function and proposes a named
// transformation intent. Smaller priority means a smaller, safer change and
// is tried first.
type Pattern interface {
	Name() string
	Priority() int

	// SupportsConcurrency reports whether the pattern may be applied to
	// functions whose bodies contain go statements, selects, or channel
	// operations. Patterns returning false are skipped for such functions.
	SupportsConcurrency() bool

	// Match walks the function subtree once and returns a match, or nil.
	Match(fn *ast.FuncDecl, ctx *MatchContext) *types.PatternMatch

	// EstimateReduction returns the estimated cognitive complexity
	// reduction for a match produced by this pattern.
	EstimateReduction(m *types.PatternMatch) int
}

// MatchContext carries the parsed file a candidate function belongs to.
type MatchContext struct {
	Fset *token.FileSet
	File *ast.File
}

// Matcher holds registered patterns sorted ascending by priority.
type Matcher struct {
	patterns []Pattern
}

// NewMatcher returns a matcher preloaded with the full default catalog.
func NewMatcher() *Matcher {
	m := &Matcher{}
	for _, p := range DefaultPatterns() {
		m.Register(p)
	}
	return m
}

// NewEmptyMatcher returns a matcher with no patterns registered.
func NewEmptyMatcher() *Matcher { return &Matcher{} }

// DefaultPatterns returns the built-in catalog in priority order.
func DefaultPatterns() []Pattern {
	return []Pattern{
		&EarlyReturn{},
		&GuardClause{},
		&DecomposeConditional{},
		&DataProcessing{},
		&ExtractMethod{},
	}
}

// Register adds a pattern, keeping the catalog priority sorted. Not safe to
// call concurrently with in-flight matching.
func (m *Matcher) Register(p Pattern) {
	m.patterns = append(m.patterns, p)
	sort.SliceStable(m.patterns, func(i, j int) bool {
		return m.patterns[i].Priority() < m.patterns[j].Priority()
	})
}

// Patterns returns the registered patterns in priority order.
func (m *Matcher) Patterns() []Pattern { return m.patterns }

// MatchFunction tries every pattern in priority order and returns the first
// match, plus the number of patterns actually tried. Patterns that do not
// support concurrency are skipped entirely for concurrent functions.
func (m *Matcher) MatchFunction(fn *ast.FuncDecl, ctx *MatchContext) (*types.PatternMatch, int) {
	concurrent := usesConcurrency(fn)

	tried := 0
	for _, p := range m.patterns {
		if concurrent && !p.SupportsConcurrency() {
			continue
		}
		tried++
		if match := p.Match(fn, ctx); match != nil {
			return match, tried
		}
	}
	return nil, tried
}

// MatchAll returns every match sorted by priority. Intended for
// introspection and tests rather than the transform path.
func (m *Matcher) MatchAll(fn *ast.FuncDecl, ctx *MatchContext) []*types.PatternMatch {
	concurrent := usesConcurrency(fn)

	var matches []*types.PatternMatch
	for _, p := range m.patterns {
		if concurrent && !p.SupportsConcurrency() {
			continue
		}
		if match := p.Match(fn, ctx); match != nil {
			matches = append(matches, match)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Priority < matches[j].Priority
	})
	return matches
}
