package patterns

import (
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"
	"strings"
)

// exprText renders an expression subtree back to source text.
func exprText(fset *token.FileSet, expr ast.Expr) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		return ""
	}
	return buf.String()
}

func lineSpan(fset *token.FileSet, node ast.Node) (int, int) {
	return fset.Position(node.Pos()).Line, fset.Position(node.End()).Line
}

// containsCall reports whether the subtree contains any call expression.
func containsCall(node ast.Node) bool {
	found := false
	ast.Inspect(node, func(n ast.Node) bool {
		if _, ok := n.(*ast.CallExpr); ok {
			found = true
			return false
		}
		return true
	})
	return found
}

// containsChannelOp reports whether the subtree contains a channel receive,
// send, select, or go statement. These are the suspension points of a Go
// function: reordering an expression across one changes observable behavior.
func containsChannelOp(node ast.Node) bool {
	found := false
	ast.Inspect(node, func(n ast.Node) bool {
		switch e := n.(type) {
		case *ast.UnaryExpr:
			if e.Op == token.ARROW {
				found = true
				return false
			}
		case *ast.SendStmt, *ast.SelectStmt, *ast.GoStmt:
			found = true
			return false
		}
		return true
	})
	return found
}

// usesConcurrency reports whether a function body touches concurrency
// constructs at all.
func usesConcurrency(fn *ast.FuncDecl) bool {
	if fn.Body == nil {
		return false
	}
	return containsChannelOp(fn.Body)
}

// maxNestingDepth returns the deepest control structure nesting level of a
// statement list. A flat list has depth 0.
func maxNestingDepth(stmts []ast.Stmt) int {
	max := 0
	for _, stmt := range stmts {
		if d := stmtNestingDepth(stmt); d > max {
			max = d
		}
	}
	return max
}

func stmtNestingDepth(stmt ast.Stmt) int {
	switch s := stmt.(type) {
	case *ast.IfStmt:
		d := 1 + maxNestingDepth(s.Body.List)
		if s.Else != nil {
			if e := 1 + stmtNestingDepth(s.Else); e > d {
				d = e
			}
		}
		return d
	case *ast.ForStmt:
		return 1 + maxNestingDepth(s.Body.List)
	case *ast.RangeStmt:
		return 1 + maxNestingDepth(s.Body.List)
	case *ast.SwitchStmt:
		return 1 + maxNestingDepth(s.Body.List)
	case *ast.TypeSwitchStmt:
		return 1 + maxNestingDepth(s.Body.List)
	case *ast.SelectStmt:
		return 1 + maxNestingDepth(s.Body.List)
	case *ast.BlockStmt:
		return maxNestingDepth(s.List)
	case *ast.CaseClause:
		return maxNestingDepth(s.Body)
	case *ast.CommClause:
		return maxNestingDepth(s.Body)
	default:
		return 0
	}
}

// boolChainOperands flattens a same-operator &&/|| chain into its operands.
// Returns nil when expr is not a boolean chain.
func boolChainOperands(expr ast.Expr) []ast.Expr {
	bin, ok := stripParens(expr).(*ast.BinaryExpr)
	if !ok || (bin.Op != token.LAND && bin.Op != token.LOR) {
		return nil
	}
	var operands []ast.Expr
	var collect func(e ast.Expr)
	collect = func(e ast.Expr) {
		if b, ok := stripParens(e).(*ast.BinaryExpr); ok && b.Op == bin.Op {
			collect(b.X)
			collect(b.Y)
			return
		}
		operands = append(operands, stripParens(e))
	}
	collect(bin)
	return operands
}

func stripParens(e ast.Expr) ast.Expr {
	for {
		p, ok := e.(*ast.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

func isComparisonOp(op token.Token) bool {
	switch op {
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return true
	}
	return false
}

func isBoolOp(op token.Token) bool {
	return op == token.LAND || op == token.LOR
}

// selectorDepth counts the length of a selector chain, e.g. a.b.c has
// depth 2.
func selectorDepth(e ast.Expr) int {
	depth := 0
	for {
		sel, ok := stripParens(e).(*ast.SelectorExpr)
		if !ok {
			return depth
		}
		depth++
		e = sel.X
	}
}

func isNilIdent(e ast.Expr) bool {
	id, ok := stripParens(e).(*ast.Ident)
	return ok && id.Name == "nil"
}

func isNumericLit(e ast.Expr) bool {
	lit, ok := stripParens(e).(*ast.BasicLit)
	return ok && (lit.Kind == token.INT || lit.Kind == token.FLOAT)
}

// validationNameHints are substrings that mark a boolean name or field as
// validation-style (x.Valid, cfg.Enabled, ok, hasData, ...).
var validationNameHints = []string{
	"valid", "ok", "enabled", "ready", "active",
	"exists", "found", "has", "is", "can", "allow", "done",
}

func hasValidationName(name string) bool {
	lower := strings.ToLower(name)
	for _, hint := range validationNameHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// stmtShape returns a structural fingerprint of a statement: the sequence
// of node type names in traversal order, identifiers erased.
func stmtShape(stmt ast.Stmt) string {
	var sb strings.Builder
	ast.Inspect(stmt, func(n ast.Node) bool {
		if n == nil {
			return true
		}
		switch n.(type) {
		case *ast.Ident, *ast.BasicLit:
			sb.WriteByte('.')
		default:
			sb.WriteString(nodeTypeName(n))
			sb.WriteByte(';')
		}
		return true
	})
	return sb.String()
}

func nodeTypeName(n ast.Node) string {
	switch n.(type) {
	case *ast.AssignStmt:
		return "assign"
	case *ast.ExprStmt:
		return "expr"
	case *ast.CallExpr:
		return "call"
	case *ast.SelectorExpr:
		return "sel"
	case *ast.IfStmt:
		return "if"
	case *ast.ForStmt, *ast.RangeStmt:
		return "for"
	case *ast.ReturnStmt:
		return "return"
	case *ast.BinaryExpr:
		return "bin"
	case *ast.IndexExpr:
		return "index"
	case *ast.CompositeLit:
		return "lit"
	case *ast.DeclStmt:
		return "decl"
	case *ast.BlockStmt:
		return "block"
	default:
		return "n"
	}
}

// hasEarlyExit reports whether a statement subtree contains control flow
// that leaves the enclosing block: return, break, continue, or goto.
func hasEarlyExit(stmt ast.Stmt) bool {
	found := false
	ast.Inspect(stmt, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.ReturnStmt, *ast.BranchStmt:
			found = true
			return false
		case *ast.FuncLit:
			return false
		}
		return true
	})
	return found
}

// containsReturn reports whether the subtree contains a return statement,
// ignoring nested function literals.
func containsReturn(node ast.Node) bool {
	found := false
	ast.Inspect(node, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.ReturnStmt:
			found = true
			return false
		case *ast.FuncLit:
			return false
		}
		return true
	})
	return found
}
