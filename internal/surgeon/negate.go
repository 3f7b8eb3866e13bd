package surgeon

import (
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"
)

// inverseOps maps each comparison operator to its logical inverse.
var inverseOps = map[token.Token]token.Token{
	token.EQL: token.NEQ,
	token.NEQ: token.EQL,
	token.LSS: token.GEQ,
	token.GEQ: token.LSS,
	token.GTR: token.LEQ,
	token.LEQ: token.GTR,
}

// Negate renders the logical negation of a condition as source text:
//
//  1. an explicit !x loses its negation,
//  2. a single comparison flips its operator via the inverse table; a
//     comparison whose operands are themselves comparisons is wrapped in
//     !(...) instead, since flipping it link by link changes semantics,
//  3. && and || apply De Morgan's law, negating each operand and swapping
//     the operator,
//  4. anything else is wrapped in !(...).
func Negate(fset *token.FileSet, cond ast.Expr) string {
	text, _ := negate(fset, cond)
	return text
}

// negate returns the negated text and the root boolean operator of the
// result (token.ILLEGAL for atoms), so callers can parenthesize operands
// that would otherwise rebind.
func negate(fset *token.FileSet, cond ast.Expr) (string, token.Token) {
	switch e := cond.(type) {
	case *ast.ParenExpr:
		return negate(fset, e.X)

	case *ast.UnaryExpr:
		if e.Op == token.NOT {
			return render(fset, unwrapParens(e.X)), token.ILLEGAL
		}

	case *ast.BinaryExpr:
		if inv, ok := inverseOps[e.Op]; ok {
			if isComparison(e.X) || isComparison(e.Y) {
				return wrapNot(fset, cond), token.ILLEGAL
			}
			return render(fset, e.X) + " " + inv.String() + " " + render(fset, e.Y), token.ILLEGAL
		}
		switch e.Op {
		case token.LAND:
			return deMorgan(fset, e, token.LOR), token.LOR
		case token.LOR:
			return deMorgan(fset, e, token.LAND), token.LAND
		}
	}

	return wrapNot(fset, cond), token.ILLEGAL
}

func deMorgan(fset *token.FileSet, e *ast.BinaryExpr, swapped token.Token) string {
	left, leftOp := negate(fset, e.X)
	right, rightOp := negate(fset, e.Y)
	if leftOp != token.ILLEGAL && leftOp != swapped {
		left = "(" + left + ")"
	}
	if rightOp != token.ILLEGAL && rightOp != swapped {
		right = "(" + right + ")"
	}
	return left + " " + swapped.String() + " " + right
}

func wrapNot(fset *token.FileSet, e ast.Expr) string {
	switch unwrapParens(e).(type) {
	case *ast.Ident, *ast.SelectorExpr, *ast.CallExpr, *ast.IndexExpr:
		return "!" + render(fset, unwrapParens(e))
	}
	return "!(" + render(fset, unwrapParens(e)) + ")"
}

func isComparison(e ast.Expr) bool {
	bin, ok := unwrapParens(e).(*ast.BinaryExpr)
	if !ok {
		return false
	}
	_, ok = inverseOps[bin.Op]
	return ok
}

func unwrapParens(e ast.Expr) ast.Expr {
	for {
		p, ok := e.(*ast.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

func render(fset *token.FileSet, e ast.Expr) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, e); err != nil {
		return ""
	}
	return buf.String()
}
