package patterns

import (
	"go/ast"
	"go/token"

	"github.com/lesleslie/recast/internal/types"
)

// GuardClause matches a leading validation-style condition whose body opens
// with another validation condition: a nesting chain of validators that can
// be inverted into flat guards.
type GuardClause struct{}

func (p *GuardClause) Name() string              { return GuardClauseName }
func (p *GuardClause) Priority() int             { return 2 }
func (p *GuardClause) SupportsConcurrency() bool { return false }

func (p *GuardClause) Match(fn *ast.FuncDecl, ctx *MatchContext) *types.PatternMatch {
	if fn.Body == nil {
		return nil
	}

	outer := leadingIf(fn.Body.List)
	if outer == nil {
		return nil
	}

	depth := p.validatorChainDepth(outer)
	if depth < 2 {
		return nil
	}

	start, end := lineSpan(ctx.Fset, outer)
	match := &types.PatternMatch{
		PatternName: p.Name(),
		Priority:    p.Priority(),
		StartLine:   start,
		EndLine:     end,
		Node:        outer,
		Func:        fn,
		Fset:        ctx.Fset,
		Context:     map[string]string{"condition": exprText(ctx.Fset, outer.Cond)},
	}
	match.EstimatedReduction = p.EstimateReduction(match)
	return match
}

// leadingIf returns the first top-level if statement, allowing only
// declarations and assignments before it.
func leadingIf(stmts []ast.Stmt) *ast.IfStmt {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.IfStmt:
			return s
		case *ast.DeclStmt, *ast.AssignStmt:
			continue
		default:
			return nil
		}
	}
	return nil
}

// validatorChainDepth counts how many validation conditions nest, each as
// the first statement of the previous one's body.
func (p *GuardClause) validatorChainDepth(ifStmt *ast.IfStmt) int {
	depth := 0
	current := ifStmt
	for current != nil {
		// An init clause binds a local the hoisted guard could not see.
		if current.Init != nil {
			return 0
		}
		if !isValidationCond(current.Cond) {
			break
		}
		depth++
		next, _ := firstStmt(current.Body).(*ast.IfStmt)
		current = next
	}
	return depth
}

func firstStmt(block *ast.BlockStmt) ast.Stmt {
	if block == nil || len(block.List) == 0 {
		return nil
	}
	return block.List[0]
}

// isValidationCond recognizes the shapes a guard chain is built from:
// nil comparisons, truthy checks on validation-named identifiers or fields,
// numeric threshold comparisons, and boolean chains of those.
func isValidationCond(expr ast.Expr) bool {
	switch e := stripParens(expr).(type) {
	case *ast.Ident:
		return hasValidationName(e.Name)
	case *ast.SelectorExpr:
		return hasValidationName(e.Sel.Name)
	case *ast.UnaryExpr:
		return e.Op == token.NOT && isValidationCond(e.X)
	case *ast.BinaryExpr:
		if isBoolOp(e.Op) {
			return isValidationCond(e.X) && isValidationCond(e.Y)
		}
		if !isComparisonOp(e.Op) {
			return false
		}
		if isNilIdent(e.X) || isNilIdent(e.Y) {
			return true
		}
		// Numeric threshold, e.g. n > 0 or len-like bounds.
		return isNumericLit(e.X) || isNumericLit(e.Y)
	}
	return false
}

// EstimateReduction is the chain depth minus the one guard that remains,
// floored at 1.
func (p *GuardClause) EstimateReduction(m *types.PatternMatch) int {
	ifStmt, ok := m.Node.(*ast.IfStmt)
	if !ok {
		return 1
	}
	depth := p.validatorChainDepth(ifStmt)
	if depth <= 1 {
		return 1
	}
	return depth - 1
}
