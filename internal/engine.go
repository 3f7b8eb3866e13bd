package internal

import (
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"sync"

	"github.com/fzipp/gocyclo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lesleslie/recast/internal/ignore"
	"github.com/lesleslie/recast/internal/patterns"
	"github.com/lesleslie/recast/internal/surgeon"
	"github.com/lesleslie/recast/internal/types"
	"github.com/lesleslie/recast/internal/validator"
)

// Engine drives the transform pipeline: parse, rank candidate functions,
// match patterns, try surgeons, validate, and return at most one fully
// validated ChangeSpec per call.
type Engine struct {
	matcher   *patterns.Matcher
	surgeons  []surgeon.Surgeon
	validator *validator.Validator
	logger    *zap.Logger

	disabled map[string]bool

	locksMu sync.RWMutex
	locks   map[string]*sync.Mutex

	metricsMu sync.Mutex
	metrics   types.TransformMetrics
}

// NewEngine creates an engine with the default pattern catalog and surgeon
// list. Strict mode makes formatting-gate failures fatal.
func NewEngine(logger *zap.Logger, strict bool) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		matcher:   patterns.NewMatcher(),
		surgeons:  surgeon.DefaultSurgeons(),
		validator: validator.New(strict),
		logger:    logger,
		disabled:  make(map[string]bool),
		locks:     make(map[string]*sync.Mutex),
	}
}

// RegisterPattern adds a pattern to the catalog, re-sorted by priority.
// Not safe to call concurrently with in-flight Transform calls.
func (e *Engine) RegisterPattern(p patterns.Pattern) {
	e.matcher.Register(p)
}

// RegisterSurgeon appends a surgeon; surgeons are tried in registration
// order. Not safe to call concurrently with in-flight Transform calls.
func (e *Engine) RegisterSurgeon(s surgeon.Surgeon) {
	e.surgeons = append(e.surgeons, s)
}

// DisablePattern excludes a pattern by name without unregistering it.
func (e *Engine) DisablePattern(name string) {
	e.disabled[name] = true
}

// Metrics returns a snapshot of the engine's counters.
func (e *Engine) Metrics() types.TransformMetrics {
	e.metricsMu.Lock()
	defer e.metricsMu.Unlock()
	return e.metrics
}

// ResetMetrics zeroes all counters.
func (e *Engine) ResetMetrics() {
	e.metricsMu.Lock()
	defer e.metricsMu.Unlock()
	e.metrics = types.TransformMetrics{}
}

// Transform analyzes source and proposes at most one validated rewrite
// inside the requested line range. lineEnd <= 0 means end of file. A nil,
// nil return is the normal "no change" outcome; the only error returned is
// *types.ParseError.
func (e *Engine) Transform(source []byte, fileID string, lineStart, lineEnd int) (*types.ChangeSpec, error) {
	lock := e.fileLock(fileID)
	lock.Lock()
	defer lock.Unlock()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, fileID, source, parser.ParseComments)
	if err != nil {
		return nil, &types.ParseError{File: fileID, Err: err}
	}

	if lineStart < 1 {
		lineStart = 1
	}
	if lineEnd <= 0 {
		lineEnd = fset.Position(file.End()).Line
	}

	candidates := e.rankCandidates(file, fset, lineStart, lineEnd)
	if len(candidates) == 0 {
		return nil, nil
	}

	ctx := &patterns.MatchContext{Fset: fset, File: file}
	skips := ignore.ParseComments(file, fset)
	for _, cand := range candidates {
		match, tried := e.matchCandidate(cand.fn, ctx, skips)
		e.addMetrics(func(m *types.TransformMetrics) { m.PatternsTried += uint64(tried) })
		if match == nil {
			continue
		}
		e.addMetrics(func(m *types.TransformMetrics) { m.PatternsMatched++ })

		spec, attemptErrs := e.applySurgeons(source, fileID, match)
		if spec != nil {
			e.logger.Debug("transform accepted",
				zap.String("file", fileID),
				zap.String("pattern", match.PatternName),
				zap.Int("reduction", spec.ComplexityReduction))
			return spec, nil
		}

		// More than one backend recording an error means the fallback
		// seam was reached for this match.
		if len(multierr.Errors(attemptErrs)) > 1 {
			e.addMetrics(func(m *types.TransformMetrics) { m.FallbackUsed++ })
		}
		if attemptErrs != nil {
			e.logger.Debug("no surgeon produced a valid rewrite",
				zap.String("file", fileID),
				zap.String("pattern", match.PatternName),
				zap.Error(attemptErrs))
		}
	}

	return nil, nil
}

type candidate struct {
	fn       *ast.FuncDecl
	estimate int
}

// rankCandidates lists the functions overlapping the requested range,
// sorted descending by a cheap cyclomatic estimate so the most tangled
// function is tried first.
func (e *Engine) rankCandidates(file *ast.File, fset *token.FileSet, lineStart, lineEnd int) []candidate {
	stats := gocyclo.AnalyzeASTFile(file, fset, nil)
	estimates := make(map[int]int, len(stats))
	for _, stat := range stats {
		estimates[stat.Pos.Line] = stat.Complexity
	}

	var candidates []candidate
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		fnStart := fset.Position(fn.Pos()).Line
		fnEnd := fset.Position(fn.End()).Line
		if fnEnd < lineStart || fnStart > lineEnd {
			continue
		}
		candidates = append(candidates, candidate{fn: fn, estimate: estimates[fnStart]})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].estimate > candidates[j].estimate
	})
	return candidates
}

func (e *Engine) matchCandidate(fn *ast.FuncDecl, ctx *patterns.MatchContext, skips *ignore.Manager) (*types.PatternMatch, int) {
	match, tried := e.matcher.MatchFunction(fn, ctx)
	if match == nil {
		return nil, tried
	}
	if e.disabled[match.PatternName] {
		// A disabled pattern's match is discarded; later patterns were
		// not consulted, so treat this candidate as unmatched.
		return nil, tried
	}
	if skips.IsSkipped(ctx.Fset.Position(match.Node.Pos()), match.PatternName) {
		return nil, tried
	}
	return match, tried
}

// applySurgeons tries each registered surgeon in order against the match,
// validating every structural success. Errors accumulate and never
// propagate.
func (e *Engine) applySurgeons(source []byte, fileID string, match *types.PatternMatch) (*types.ChangeSpec, error) {
	var attemptErrs error

	for _, s := range e.surgeons {
		if !s.CanHandle(match) {
			attemptErrs = multierr.Append(attemptErrs,
				&surgeonError{surgeon: s.Name(), reason: "cannot handle pattern " + match.PatternName})
			continue
		}

		e.addMetrics(func(m *types.TransformMetrics) { m.TransformsAttempted++ })
		result := s.Apply(source, match)
		if !result.Success {
			attemptErrs = multierr.Append(attemptErrs,
				&surgeonError{surgeon: s.Name(), reason: result.Err})
			continue
		}

		vr := e.validator.Validate(string(source), result.Transformed)
		if !vr.Valid {
			e.addMetrics(func(m *types.TransformMetrics) { m.ValidationFailures++ })
			attemptErrs = multierr.Append(attemptErrs,
				&surgeonError{surgeon: s.Name(), reason: "validation failed: " + joinErrors(vr.Errors)})
			continue
		}

		e.addMetrics(func(m *types.TransformMetrics) { m.TransformsSucceeded++ })
		return &types.ChangeSpec{
			FilePath:            fileID,
			LineStart:           match.StartLine,
			LineEnd:             match.EndLine,
			PatternName:         match.PatternName,
			ComplexityReduction: vr.ComplexityDelta,
			Confidence:          types.DefaultConfidence,
			OriginalContent:     string(source),
			TransformedContent:  result.Transformed,
		}, nil
	}

	return nil, attemptErrs
}

// fileLock returns the mutex for a file identifier, inserting it lazily
// with a double-checked pattern so concurrent first access to the same key
// cannot create duplicate locks.
func (e *Engine) fileLock(fileID string) *sync.Mutex {
	e.locksMu.RLock()
	lock, ok := e.locks[fileID]
	e.locksMu.RUnlock()
	if ok {
		return lock
	}

	e.locksMu.Lock()
	defer e.locksMu.Unlock()
	if lock, ok := e.locks[fileID]; ok {
		return lock
	}
	lock = &sync.Mutex{}
	e.locks[fileID] = lock
	return lock
}

func (e *Engine) addMetrics(f func(*types.TransformMetrics)) {
	e.metricsMu.Lock()
	f(&e.metrics)
	e.metricsMu.Unlock()
}

type surgeonError struct {
	surgeon string
	reason  string
}

func (e *surgeonError) Error() string {
	return e.surgeon + ": " + e.reason
}

func joinErrors(errs []string) string {
	out := ""
	for i, e := range errs {
		if i > 0 {
			out += "; "
		}
		out += e
	}
	return out
}
