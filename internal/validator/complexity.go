package validator

import (
	"go/ast"
	"go/token"
)

// FileComplexity sums the cognitive complexity of every function in a file.
func FileComplexity(file *ast.File) int {
	total := 0
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			total += FuncComplexity(fn)
		}
	}
	return total
}

// FuncComplexity scores how hard a function is to read: each control
// structure costs 1 plus its nesting depth and deepens nesting for its
// body; an else branch costs 1; each boolean operator in a chain costs 1
// (operand count minus one per chain); function literals deepen nesting
// without their own cost.
func FuncComplexity(fn *ast.FuncDecl) int {
	if fn.Body == nil {
		return 0
	}
	sc := &scorer{}
	sc.walkStmts(fn.Body.List)
	return sc.score
}

type scorer struct {
	score   int
	nesting int
}

func (sc *scorer) walkStmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		sc.walkStmt(stmt)
	}
}

func (sc *scorer) walkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.IfStmt:
		sc.score += 1 + sc.nesting
		sc.walkExpr(s.Cond)
		sc.nested(func() { sc.walkStmts(s.Body.List) })
		if s.Else != nil {
			sc.score++
			sc.nested(func() { sc.walkStmt(s.Else) })
		}

	case *ast.ForStmt:
		sc.score += 1 + sc.nesting
		if s.Cond != nil {
			sc.walkExpr(s.Cond)
		}
		sc.nested(func() { sc.walkStmts(s.Body.List) })

	case *ast.RangeStmt:
		sc.score += 1 + sc.nesting
		sc.nested(func() { sc.walkStmts(s.Body.List) })

	case *ast.SwitchStmt:
		sc.score += 1 + sc.nesting
		sc.nested(func() { sc.walkStmts(s.Body.List) })

	case *ast.TypeSwitchStmt:
		sc.score += 1 + sc.nesting
		sc.nested(func() { sc.walkStmts(s.Body.List) })

	case *ast.SelectStmt:
		sc.score += 1 + sc.nesting
		sc.nested(func() { sc.walkStmts(s.Body.List) })

	case *ast.CaseClause:
		sc.walkStmts(s.Body)

	case *ast.CommClause:
		sc.walkStmts(s.Body)

	case *ast.BlockStmt:
		sc.walkStmts(s.List)

	case *ast.LabeledStmt:
		sc.walkStmt(s.Stmt)

	case *ast.DeferStmt:
		sc.walkExpr(s.Call)

	case *ast.GoStmt:
		sc.walkExpr(s.Call)

	case *ast.ExprStmt:
		sc.walkExpr(s.X)

	case *ast.AssignStmt:
		for _, rhs := range s.Rhs {
			sc.walkExpr(rhs)
		}

	case *ast.ReturnStmt:
		for _, res := range s.Results {
			sc.walkExpr(res)
		}

	case *ast.DeclStmt:
		if gen, ok := s.Decl.(*ast.GenDecl); ok {
			for _, spec := range gen.Specs {
				if vs, ok := spec.(*ast.ValueSpec); ok {
					for _, v := range vs.Values {
						sc.walkExpr(v)
					}
				}
			}
		}
	}
}

func (sc *scorer) walkExpr(expr ast.Expr) {
	ast.Inspect(expr, func(n ast.Node) bool {
		switch e := n.(type) {
		case *ast.BinaryExpr:
			if e.Op == token.LAND || e.Op == token.LOR {
				sc.score++
			}
		case *ast.FuncLit:
			sc.nested(func() { sc.walkStmts(e.Body.List) })
			return false
		}
		return true
	})
}

func (sc *scorer) nested(f func()) {
	sc.nesting++
	f()
	sc.nesting--
}
