package patterns

import (
	"fmt"
	"go/ast"
	"strings"

	"github.com/lesleslie/recast/internal/types"
)

// DecomposeConditional matches conditions complex enough that naming their
// sub-expressions would pay for itself: long boolean chains, deep selector
// chains, repeated sub-expressions, or negated conjunctions eligible for
// De Morgan redistribution.
type DecomposeConditional struct{}

func (p *DecomposeConditional) Name() string              { return DecomposeConditionalName }
func (p *DecomposeConditional) Priority() int             { return 3 }
func (p *DecomposeConditional) SupportsConcurrency() bool { return false }

func (p *DecomposeConditional) Match(fn *ast.FuncDecl, ctx *MatchContext) *types.PatternMatch {
	if fn.Body == nil {
		return nil
	}

	var found *ast.IfStmt
	var analysis condAnalysis
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		if found != nil {
			return false
		}
		ifStmt, ok := n.(*ast.IfStmt)
		if !ok {
			return true
		}
		// Extracting a named sub-expression must not reorder side effects.
		if containsCall(ifStmt.Cond) || containsChannelOp(ifStmt.Cond) {
			return true
		}
		a := analyzeCondition(ifStmt.Cond)
		if a.matches() {
			found = ifStmt
			analysis = a
			return false
		}
		return true
	})
	if found == nil {
		return nil
	}

	start, end := lineSpan(ctx.Fset, found)
	match := &types.PatternMatch{
		PatternName: p.Name(),
		Priority:    p.Priority(),
		StartLine:   start,
		EndLine:     end,
		Node:        found,
		Func:        fn,
		Fset:        ctx.Fset,
		Context: map[string]string{
			"condition":   exprText(ctx.Fset, found.Cond),
			"score":       fmt.Sprintf("%.1f", analysis.score),
			"extractions": strings.Join(analysis.extractions, ", "),
		},
	}
	match.EstimatedReduction = p.EstimateReduction(match)
	return match
}

func (p *DecomposeConditional) EstimateReduction(m *types.PatternMatch) int {
	ifStmt, ok := m.Node.(*ast.IfStmt)
	if !ok {
		return 1
	}
	a := analyzeCondition(ifStmt.Cond)

	reduction := len(a.extractions) + a.repeats
	if a.redistributable {
		reduction++
	}
	if a.score >= 6 {
		reduction++
	}
	if a.score >= 10 {
		reduction++
	}
	if reduction < 1 {
		reduction = 1
	}
	return reduction
}

// condAnalysis is the per-condition measurement the match and estimate
// both derive from.
type condAnalysis struct {
	operandCount    int
	extractions     []string
	repeats         int
	redistributable bool
	score           float64
}

func (a condAnalysis) matches() bool {
	if a.operandCount >= 3 {
		return true
	}
	return len(a.extractions) > 0 || a.repeats > 0 || a.redistributable
}

func analyzeCondition(cond ast.Expr) condAnalysis {
	a := condAnalysis{}

	if operands := boolChainOperands(cond); operands != nil {
		a.operandCount = len(operands)
	}

	// Negated conjunction/disjunction can be redistributed with De Morgan.
	if un, ok := stripParens(cond).(*ast.UnaryExpr); ok {
		if inner, ok := stripParens(un.X).(*ast.BinaryExpr); ok && isBoolOp(inner.Op) {
			a.redistributable = true
		}
	}

	seen := map[string]int{}
	var operators, comparisons, calls int
	var attrDepth float64

	ast.Inspect(cond, func(n ast.Node) bool {
		switch e := n.(type) {
		case *ast.BinaryExpr:
			operators++
			if isComparisonOp(e.Op) {
				comparisons++
			}
		case *ast.CallExpr:
			calls++
		case *ast.SelectorExpr:
			attrDepth += float64(selectorDepth(e))
			seen[shortExprString(e)]++
			// Descend no further; depth already accounts for the chain.
			return false
		}
		if expr, ok := n.(ast.Expr); ok {
			if text := subExprKey(expr); text != "" {
				seen[text]++
			}
		}
		return true
	})

	a.score = float64(operators) + float64(comparisons) + 0.5*attrDepth + 2*float64(calls)

	for _, count := range seen {
		if count >= 2 {
			a.repeats++
		}
	}

	a.extractions = extractionCandidates(cond)
	return a
}

// subExprKey fingerprints sub-expressions worth tracking for repetition.
func subExprKey(e ast.Expr) string {
	switch e.(type) {
	case *ast.SelectorExpr, *ast.BinaryExpr, *ast.IndexExpr:
		return shortExprString(e)
	}
	return ""
}

// extractionCandidates lists sub-expressions complex enough to name.
func extractionCandidates(cond ast.Expr) []string {
	var out []string
	add := func(e ast.Expr) { out = append(out, shortExprString(e)) }

	ast.Inspect(cond, func(n ast.Node) bool {
		switch e := n.(type) {
		case *ast.SelectorExpr:
			if selectorDepth(e) >= 2 {
				add(e)
			}
			return false
		case *ast.BinaryExpr:
			if isComparisonOp(e.Op) {
				add(e)
				return false
			}
			// A boolean chain nested under another boolean operator.
			if isBoolOp(e.Op) && n != stripParens(cond) {
				add(e)
			}
		case *ast.CallExpr:
			add(e)
			return false
		case *ast.IndexExpr:
			add(e)
			return false
		case *ast.UnaryExpr:
			if inner, ok := stripParens(e.X).(*ast.BinaryExpr); ok && isComparisonOp(inner.Op) {
				add(e)
			}
		}
		return true
	})
	return out
}

// shortExprString renders an expression without position information,
// for fingerprints and human-readable context only.
func shortExprString(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.Ident:
		return v.Name
	case *ast.BasicLit:
		return v.Value
	case *ast.SelectorExpr:
		return shortExprString(v.X) + "." + v.Sel.Name
	case *ast.ParenExpr:
		return "(" + shortExprString(v.X) + ")"
	case *ast.UnaryExpr:
		return v.Op.String() + shortExprString(v.X)
	case *ast.BinaryExpr:
		return shortExprString(v.X) + " " + v.Op.String() + " " + shortExprString(v.Y)
	case *ast.CallExpr:
		args := make([]string, len(v.Args))
		for i, arg := range v.Args {
			args[i] = shortExprString(arg)
		}
		return shortExprString(v.Fun) + "(" + strings.Join(args, ", ") + ")"
	case *ast.IndexExpr:
		return shortExprString(v.X) + "[" + shortExprString(v.Index) + "]"
	default:
		return fmt.Sprintf("%T", e)
	}
}
