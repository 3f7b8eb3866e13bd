package patterns

import (
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"github.com/lesleslie/recast/internal/types"
)

// DataProcessing matches loop-heavy functions whose loops can be lifted
// into named helpers: filters, aggregations, collection builds, map builds,
// or per-element transforms.
type DataProcessing struct{}

func (p *DataProcessing) Name() string              { return DataProcessingName }
func (p *DataProcessing) Priority() int             { return 3 }
func (p *DataProcessing) SupportsConcurrency() bool { return true }

// aggregatingFuncs are call names treated as counting or aggregating.
var aggregatingFuncs = map[string]bool{
	"len": true, "cap": true, "min": true, "max": true,
	"sum": true, "count": true, "total": true,
}

type loopCandidate struct {
	loop        ast.Stmt
	action      string
	name        string
	nestedConds int
	complexity  int
}

func (p *DataProcessing) Match(fn *ast.FuncDecl, ctx *MatchContext) *types.PatternMatch {
	if fn.Body == nil {
		return nil
	}

	loops := collectLoops(fn.Body)
	nestedConds := 0
	for _, loop := range loops {
		nestedConds += nestedConditionCount(loop)
	}
	if len(loops) < 2 && nestedConds < 1 {
		return nil
	}

	var best *loopCandidate
	aggPresent := false
	for _, loop := range loops {
		if hasAggregatingCall(loop) {
			aggPresent = true
		}
		cand := classifyLoop(loop)
		if cand == nil {
			continue
		}
		if best == nil || cand.complexity > best.complexity {
			best = cand
		}
	}
	if best == nil {
		return nil
	}
	// Lifting a plain iteration buys nothing unless there is conditional
	// structure or an aggregation to name.
	if nestedConds < 1 && !aggPresent {
		return nil
	}

	start, end := lineSpan(ctx.Fset, best.loop)
	match := &types.PatternMatch{
		PatternName: p.Name(),
		Priority:    p.Priority(),
		StartLine:   start,
		EndLine:     end,
		Node:        best.loop,
		Func:        fn,
		Fset:        ctx.Fset,
		Context: map[string]string{
			"action":         best.action,
			"suggested_name": best.name,
			"nested_conds":   strconv.Itoa(best.nestedConds),
		},
	}
	match.EstimatedReduction = p.EstimateReduction(match)
	return match
}

func (p *DataProcessing) EstimateReduction(m *types.PatternMatch) int {
	loop, ok := m.Node.(ast.Stmt)
	if !ok {
		return 1
	}
	return 1 + nestedConditionCount(loop)
}

func collectLoops(body *ast.BlockStmt) []ast.Stmt {
	var loops []ast.Stmt
	ast.Inspect(body, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.ForStmt, *ast.RangeStmt:
			loops = append(loops, n.(ast.Stmt))
		case *ast.FuncLit:
			return false
		}
		return true
	})
	return loops
}

// classifyLoop decides whether a loop is liftable and names the helper it
// would become. Loops with side-effecting calls, channel operations, or a
// nested return stay where they are.
func classifyLoop(loop ast.Stmt) *loopCandidate {
	body := loopBody(loop)
	if body == nil {
		return nil
	}
	if containsChannelOp(body) || containsReturn(body) || hasSideEffectingCall(body) {
		return nil
	}

	nested := nestedConditionCount(loop)
	action := loopAction(body, nested)
	verb := actionVerbs[action]
	subject := loopVarName(loop)

	return &loopCandidate{
		loop:        loop,
		action:      action,
		name:        verb + upperFirst(subject),
		nestedConds: nested,
		complexity:  1 + nested,
	}
}

var actionVerbs = map[string]string{
	"filter":    "filter",
	"aggregate": "aggregate",
	"collect":   "collect",
	"build_map": "build",
	"transform": "transform",
	"iterate":   "iterate",
}

// loopAction classifies what the loop does, first match wins.
func loopAction(body *ast.BlockStmt, nestedConds int) string {
	switch {
	case hasContinue(body):
		return "filter"
	case hasAggregatingCall(body):
		return "aggregate"
	case hasAppend(body):
		return "collect"
	case hasMapWrite(body):
		return "build_map"
	case nestedConds > 0:
		return "transform"
	default:
		return "iterate"
	}
}

func loopBody(loop ast.Stmt) *ast.BlockStmt {
	switch l := loop.(type) {
	case *ast.ForStmt:
		return l.Body
	case *ast.RangeStmt:
		return l.Body
	}
	return nil
}

// loopVarName picks the loop's subject for the helper name: the range
// value variable, the range key, or "items".
func loopVarName(loop ast.Stmt) string {
	if rng, ok := loop.(*ast.RangeStmt); ok {
		if id, ok := rng.Value.(*ast.Ident); ok && id.Name != "_" {
			return id.Name
		}
		if id, ok := rng.Key.(*ast.Ident); ok && id.Name != "_" {
			return id.Name
		}
	}
	return "items"
}

func nestedConditionCount(loop ast.Stmt) int {
	body := loopBody(loop)
	if body == nil {
		return 0
	}
	count := 0
	ast.Inspect(body, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.IfStmt:
			count++
		case *ast.FuncLit:
			return false
		}
		return true
	})
	return count
}

func hasContinue(body *ast.BlockStmt) bool {
	found := false
	ast.Inspect(body, func(n ast.Node) bool {
		if br, ok := n.(*ast.BranchStmt); ok && br.Tok == token.CONTINUE {
			found = true
			return false
		}
		return true
	})
	return found
}

func hasAppend(body *ast.BlockStmt) bool {
	found := false
	ast.Inspect(body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if id, ok := call.Fun.(*ast.Ident); ok && id.Name == "append" {
			found = true
			return false
		}
		return true
	})
	return found
}

func hasMapWrite(body *ast.BlockStmt) bool {
	found := false
	ast.Inspect(body, func(n ast.Node) bool {
		assign, ok := n.(*ast.AssignStmt)
		if !ok {
			return true
		}
		for _, lhs := range assign.Lhs {
			if _, ok := stripParens(lhs).(*ast.IndexExpr); ok {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

func hasAggregatingCall(node ast.Node) bool {
	found := false
	ast.Inspect(node, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if name := callName(call); aggregatingFuncs[strings.ToLower(name)] {
			found = true
			return false
		}
		return true
	})
	return found
}

// hasSideEffectingCall reports calls other than the pure builtins and
// aggregation helpers. Method calls and arbitrary functions are assumed
// side-effecting.
func hasSideEffectingCall(body *ast.BlockStmt) bool {
	found := false
	ast.Inspect(body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		name := strings.ToLower(callName(call))
		if name == "append" || name == "make" || aggregatingFuncs[name] {
			return true
		}
		found = true
		return false
	})
	return found
}

func callName(call *ast.CallExpr) string {
	switch fun := call.Fun.(type) {
	case *ast.Ident:
		return fun.Name
	case *ast.SelectorExpr:
		return fun.Sel.Name
	}
	return ""
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
