package branch

import (
	"go/ast"
	"go/token"
)

// Branch classifies how a block of an if-else statement ends.
type Branch struct {
	BranchKind
	Call     Call
	HasDecls bool
}

// Call identifies a package-level function call, e.g. os.Exit.
type Call struct {
	Pkg  string
	Name string
}

// DeviatingFuncs lists known control flow deviating function calls.
var DeviatingFuncs = map[Call]BranchKind{
	{"os", "Exit"}:     Exit,
	{"log", "Fatal"}:   Exit,
	{"log", "Fatalf"}:  Exit,
	{"log", "Fatalln"}: Exit,
	{"", "panic"}:      Panic,
	{"log", "Panic"}:   Panic,
	{"log", "Panicf"}:  Panic,
	{"log", "Panicln"}: Panic,
}

// BlockBranch classifies a block by its last statement.
func BlockBranch(block *ast.BlockStmt) Branch {
	blockLen := len(block.List)
	if blockLen == 0 {
		return Empty.Branch()
	}

	br := StmtBranch(block.List[blockLen-1])
	br.HasDecls = hasDecls(block)

	return br
}

// StmtBranch classifies a single statement.
func StmtBranch(stmt ast.Stmt) Branch {
	switch stmt := stmt.(type) {
	case *ast.ReturnStmt:
		return Return.Branch()
	case *ast.BlockStmt:
		return BlockBranch(stmt)
	case *ast.BranchStmt:
		switch stmt.Tok {
		case token.BREAK:
			return Break.Branch()
		case token.CONTINUE:
			return Continue.Branch()
		case token.GOTO:
			return Goto.Branch()
		}
	case *ast.ExprStmt:
		fn, ok := ExprCall(stmt)
		if !ok {
			break
		}
		if kind, ok := DeviatingFuncs[fn]; ok {
			return Branch{BranchKind: kind, Call: fn}
		}
	case *ast.EmptyStmt:
		return Empty.Branch()
	case *ast.LabeledStmt:
		return StmtBranch(stmt.Stmt)
	}

	return Regular.Branch()
}

// ExprCall gets the call of an ExprStmt.
func ExprCall(expr *ast.ExprStmt) (Call, bool) {
	call, ok := expr.X.(*ast.CallExpr)
	if !ok {
		return Call{}, false
	}

	switch v := call.Fun.(type) {
	case *ast.Ident:
		return Call{Name: v.Name}, true
	case *ast.SelectorExpr:
		if ident, ok := v.X.(*ast.Ident); ok {
			return Call{Pkg: ident.Name, Name: v.Sel.Name}, true
		}
	}

	return Call{}, false
}

func hasDecls(block *ast.BlockStmt) bool {
	for _, stmt := range block.List {
		switch stmt := stmt.(type) {
		case *ast.DeclStmt:
			return true
		case *ast.AssignStmt:
			if stmt.Tok == token.DEFINE {
				return true
			}
		}
	}

	return false
}
