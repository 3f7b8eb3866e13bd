package patterns

import (
	"go/ast"
	"go/token"

	"github.com/lesleslie/recast/internal/branch"
	"github.com/lesleslie/recast/internal/types"
)

// EarlyReturn matches an if-else where the else branch is simple enough to
// hoist ahead of the if body as a guard. The rewrite negates the condition
// and drops the else, flattening one nesting level.
type EarlyReturn struct{}

func (p *EarlyReturn) Name() string              { return EarlyReturnName }
func (p *EarlyReturn) Priority() int             { return 1 }
func (p *EarlyReturn) SupportsConcurrency() bool { return false }

func (p *EarlyReturn) Match(fn *ast.FuncDecl, ctx *MatchContext) *types.PatternMatch {
	if fn.Body == nil {
		return nil
	}

	var found *ast.IfStmt
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		if found != nil {
			return false
		}
		ifStmt, ok := n.(*ast.IfStmt)
		if !ok {
			return true
		}
		if p.matches(ifStmt) {
			found = ifStmt
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
		Context:     map[string]string{"condition": exprText(ctx.Fset, found.Cond)},
	}
	match.EstimatedReduction = p.EstimateReduction(match)
	return match
}

func (p *EarlyReturn) matches(ifStmt *ast.IfStmt) bool {
	if ifStmt.Else == nil {
		return false
	}
	// An init clause would have to stay in scope for the hoisted branch.
	if ifStmt.Init != nil {
		return false
	}
	// Calls or channel operations in the condition may have side effects
	// the negation would reorder.
	if containsCall(ifStmt.Cond) || containsChannelOp(ifStmt.Cond) {
		return false
	}
	if !isSimpleElse(ifStmt.Else) {
		return false
	}
	// At least one branch must actually leave the function.
	return containsReturn(ifStmt.Body) || containsReturn(ifStmt.Else)
}

// isSimpleElse reports whether an else branch is small enough to hoist:
// empty, a single return or panic, an empty statement, a call-free
// assignment, or a nested if.
func isSimpleElse(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.IfStmt:
		return true
	case *ast.BlockStmt:
		if len(s.List) == 0 {
			return true
		}
		if len(s.List) != 1 {
			return false
		}
		switch inner := s.List[0].(type) {
		case *ast.ReturnStmt, *ast.EmptyStmt, *ast.IfStmt:
			return true
		case *ast.ExprStmt:
			return branch.StmtBranch(inner).BranchKind == branch.Panic
		case *ast.AssignStmt:
			for _, rhs := range inner.Rhs {
				if containsCall(rhs) {
					return false
				}
			}
			return true
		}
	}
	return false
}

// EstimateReduction grows with the if body's maximum nesting depth, plus
// one when the condition is a multi-operand boolean chain.
func (p *EarlyReturn) EstimateReduction(m *types.PatternMatch) int {
	ifStmt, ok := m.Node.(*ast.IfStmt)
	if !ok {
		return 1
	}
	reduction := 1 + maxNestingDepth(ifStmt.Body.List)
	if bin, ok := stripParens(ifStmt.Cond).(*ast.BinaryExpr); ok {
		if bin.Op == token.LAND || bin.Op == token.LOR {
			reduction++
		}
	}
	return reduction
}
