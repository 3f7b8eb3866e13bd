package patterns

import (
	"fmt"
	"go/ast"
	"go/token"
	"regexp"
	"sort"
	"strings"

	"github.com/lesleslie/recast/internal/types"
)

// ExtractMethod matches long functions containing a block worth lifting
// into a helper. Candidates come from three independent sources: sections
// under heading-style comments, bounded contiguous statement windows, and
// runs of structurally identical statements. Overlaps are resolved by
// estimated reduction; the single best surviving candidate wins.
type ExtractMethod struct{}

const (
	minTopLevelStmts  = 10
	minWindowSize     = 3
	maxWindowInputs   = 5
	minHeadingSection = 2
	minIdenticalRun   = 2
)

func (p *ExtractMethod) Name() string              { return ExtractMethodName }
func (p *ExtractMethod) Priority() int             { return 4 }
func (p *ExtractMethod) SupportsConcurrency() bool { return true }

// headingComment matches section-style comments that organize a long
// function body, e.g. "// Step 2: ..." or "// compute totals".
var headingComment = regexp.MustCompile(`(?i)^(step\s+\d+|initialize|set\s?up|compute|calculate|build|create|prepare|process|validate|check|collect|gather|finalize|clean\s?up|write|read|load|save|parse|handle|update|apply|merge|sort|filter)\b|:$|^[-=]{3,}`)

type extractCandidate struct {
	startIdx  int // statement indices in the top-level body
	endIdx    int
	startLine int
	endLine   int
	reduction int
	output    string
	source    string // which of the three searches produced it
}

func (p *ExtractMethod) Match(fn *ast.FuncDecl, ctx *MatchContext) *types.PatternMatch {
	if fn.Body == nil || len(fn.Body.List) < minTopLevelStmts {
		return nil
	}

	stmts := fn.Body.List
	var candidates []extractCandidate
	candidates = append(candidates, headingCandidates(fn, ctx, stmts)...)
	candidates = append(candidates, windowCandidates(fn, ctx, stmts)...)
	candidates = append(candidates, identicalRunCandidates(ctx, stmts)...)
	if len(candidates) == 0 {
		return nil
	}

	best := pickBest(candidates)
	name := suggestedName(best.output)

	match := &types.PatternMatch{
		PatternName: p.Name(),
		Priority:    p.Priority(),
		StartLine:   best.startLine,
		EndLine:     best.endLine,
		Node:        fn.Body,
		Func:        fn,
		Fset:        ctx.Fset,
		Context: map[string]string{
			"suggested_name": name,
			"source":         best.source,
			"stmt_range":     fmt.Sprintf("%d:%d", best.startIdx, best.endIdx),
		},
	}
	match.EstimatedReduction = best.reduction
	return match
}

func (p *ExtractMethod) EstimateReduction(m *types.PatternMatch) int {
	return m.EstimatedReduction
}

// pickBest sorts by descending reduction, drops candidates overlapping a
// better one, and returns the best survivor.
func pickBest(candidates []extractCandidate) extractCandidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].reduction > candidates[j].reduction
	})
	kept := candidates[:0:0]
	for _, c := range candidates {
		overlaps := false
		for _, k := range kept {
			if c.startLine <= k.endLine && k.startLine <= c.endLine {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, c)
		}
	}
	return kept[0]
}

// headingCandidates segments the top-level statements at each heading-style
// comment and proposes each section of at least two statements.
func headingCandidates(fn *ast.FuncDecl, ctx *MatchContext, stmts []ast.Stmt) []extractCandidate {
	headingLines := map[int]bool{}
	bodyStart := ctx.Fset.Position(fn.Body.Lbrace).Line
	bodyEnd := ctx.Fset.Position(fn.Body.Rbrace).Line
	for _, group := range ctx.File.Comments {
		for _, c := range group.List {
			line := ctx.Fset.Position(c.Pos()).Line
			if line <= bodyStart || line >= bodyEnd {
				continue
			}
			text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
			if headingComment.MatchString(text) {
				headingLines[line] = true
			}
		}
	}
	if len(headingLines) == 0 {
		return nil
	}

	// Segment statement indices at each heading.
	var cuts []int
	for i, stmt := range stmts {
		stmtLine := ctx.Fset.Position(stmt.Pos()).Line
		prevEnd := bodyStart
		if i > 0 {
			prevEnd = ctx.Fset.Position(stmts[i-1].End()).Line
		}
		for h := range headingLines {
			if h > prevEnd && h <= stmtLine {
				cuts = append(cuts, i)
				break
			}
		}
	}
	sort.Ints(cuts)
	cuts = append(cuts, len(stmts))

	var out []extractCandidate
	prev := -1
	for _, cut := range cuts {
		if prev >= 0 && cut-prev >= minHeadingSection {
			out = append(out, newCandidate(ctx, stmts, prev, cut-1, "heading"))
		}
		prev = cut
	}
	return out
}

// windowCandidates proposes every contiguous window of at least three
// statements with a bounded input set and no early exits inside.
func windowCandidates(fn *ast.FuncDecl, ctx *MatchContext, stmts []ast.Stmt) []extractCandidate {
	defined := definedBefore(fn, stmts)

	var out []extractCandidate
	for start := 0; start <= len(stmts)-minWindowSize; start++ {
		for end := start + minWindowSize - 1; end < len(stmts); end++ {
			window := stmts[start : end+1]
			if windowHasEarlyExit(window) {
				break // extending the window keeps the exit inside
			}
			inputs := windowInputs(window, defined)
			if len(inputs) > maxWindowInputs {
				continue
			}
			out = append(out, newCandidate(ctx, stmts, start, end, "window"))
		}
	}
	return out
}

// identicalRunCandidates proposes runs of two or more consecutive
// statements sharing the same structural shape.
func identicalRunCandidates(ctx *MatchContext, stmts []ast.Stmt) []extractCandidate {
	var out []extractCandidate
	runStart := 0
	for i := 1; i <= len(stmts); i++ {
		if i < len(stmts) && stmtShape(stmts[i]) == stmtShape(stmts[runStart]) {
			continue
		}
		if i-runStart >= minIdenticalRun {
			out = append(out, newCandidate(ctx, stmts, runStart, i-1, "identical_run"))
		}
		runStart = i
	}
	return out
}

func newCandidate(ctx *MatchContext, stmts []ast.Stmt, startIdx, endIdx int, source string) extractCandidate {
	window := stmts[startIdx : endIdx+1]
	return extractCandidate{
		startIdx:  startIdx,
		endIdx:    endIdx,
		startLine: ctx.Fset.Position(window[0].Pos()).Line,
		endLine:   ctx.Fset.Position(window[len(window)-1].End()).Line,
		reduction: windowReduction(window),
		output:    primaryOutput(window),
		source:    source,
	}
}

// windowReduction estimates the benefit of lifting a window: its statement
// count, plus one per nesting construct, plus half its bare expression
// statements.
func windowReduction(window []ast.Stmt) int {
	nesting := 0
	bareExprs := 0
	for _, stmt := range window {
		ast.Inspect(stmt, func(n ast.Node) bool {
			switch n.(type) {
			case *ast.IfStmt, *ast.ForStmt, *ast.RangeStmt, *ast.SwitchStmt,
				*ast.TypeSwitchStmt, *ast.SelectStmt:
				nesting++
			}
			return true
		})
		if _, ok := stmt.(*ast.ExprStmt); ok {
			bareExprs++
		}
	}
	return len(window) + nesting + bareExprs/2
}

func windowHasEarlyExit(window []ast.Stmt) bool {
	for _, stmt := range window {
		if hasEarlyExit(stmt) {
			return true
		}
	}
	return false
}

// definedBefore collects parameter and receiver names, which always count
// as available inputs.
func definedBefore(fn *ast.FuncDecl, stmts []ast.Stmt) map[string]bool {
	defined := map[string]bool{}
	if fn.Recv != nil {
		for _, field := range fn.Recv.List {
			for _, name := range field.Names {
				defined[name.Name] = true
			}
		}
	}
	if fn.Type.Params != nil {
		for _, field := range fn.Type.Params.List {
			for _, name := range field.Names {
				defined[name.Name] = true
			}
		}
	}
	return defined
}

// windowInputs approximates the free variables of a window: identifiers
// read inside it that it does not itself define.
func windowInputs(window []ast.Stmt, params map[string]bool) []string {
	definedInside := map[string]bool{}
	used := map[string]bool{}

	for _, stmt := range window {
		ast.Inspect(stmt, func(n ast.Node) bool {
			switch e := n.(type) {
			case *ast.AssignStmt:
				if e.Tok == token.DEFINE {
					for _, lhs := range e.Lhs {
						if id, ok := lhs.(*ast.Ident); ok {
							definedInside[id.Name] = true
						}
					}
				}
			case *ast.Ident:
				if e.Obj != nil || isLowerIdent(e.Name) {
					used[e.Name] = true
				}
			}
			return true
		})
	}

	var inputs []string
	for name := range used {
		if definedInside[name] || name == "_" || name == "nil" || name == "true" || name == "false" {
			continue
		}
		if params[name] || !isBuiltinName(name) {
			inputs = append(inputs, name)
		}
	}
	sort.Strings(inputs)
	return inputs
}

func isLowerIdent(name string) bool {
	return name != "" && name[0] >= 'a' && name[0] <= 'z'
}

var builtinNames = map[string]bool{
	"append": true, "len": true, "cap": true, "make": true, "new": true,
	"copy": true, "delete": true, "panic": true, "recover": true,
	"print": true, "println": true, "min": true, "max": true, "clear": true,
	"int": true, "int64": true, "string": true, "bool": true, "byte": true,
	"float64": true, "error": true, "any": true, "rune": true,
}

func isBuiltinName(name string) bool { return builtinNames[name] }

// primaryOutput picks the variable a window most plausibly produces: the
// last assignment target, or "result".
func primaryOutput(window []ast.Stmt) string {
	output := "result"
	for _, stmt := range window {
		if assign, ok := stmt.(*ast.AssignStmt); ok && len(assign.Lhs) > 0 {
			if id, ok := assign.Lhs[0].(*ast.Ident); ok && id.Name != "_" {
				output = id.Name
			}
		}
	}
	return output
}

// outputVerbs maps the primary output name to the verb of the suggested
// helper name.
var outputVerbs = []struct {
	hint string
	verb string
}{
	{"result", "compute"},
	{"items", "collect"},
	{"list", "collect"},
	{"total", "sum"},
	{"sum", "sum"},
	{"count", "count"},
	{"data", "process"},
}

func suggestedName(output string) string {
	lower := strings.ToLower(output)
	verb := "compute"
	for _, entry := range outputVerbs {
		if strings.Contains(lower, entry.hint) {
			verb = entry.verb
			break
		}
	}
	return verb + upperFirst(output)
}
