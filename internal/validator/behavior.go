package validator

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"
)

// behaviorErrors compares the observable surface of two parsed files.
// This is a heuristic, not an equivalence proof: signatures must match
// exactly, return value shapes must stay compatible, and the transformed
// file must keep at least half the statements.
func behaviorErrors(orig, trans *ast.File) []string {
	var errs []string

	origSigs := collectSignatures(orig)
	transSigs := collectSignatures(trans)

	for name, os := range origSigs {
		ts, ok := transSigs[name]
		if !ok {
			errs = append(errs, fmt.Sprintf("function %s disappeared", name))
			continue
		}
		if strings.Join(os.params, ",") != strings.Join(ts.params, ",") {
			errs = append(errs, fmt.Sprintf("function %s parameter names changed: %v -> %v", name, os.params, ts.params))
		}
		if os.hasResults != ts.hasResults {
			errs = append(errs, fmt.Sprintf("function %s result list presence changed", name))
		}
		if os.concurrent != ts.concurrent {
			errs = append(errs, fmt.Sprintf("function %s concurrency changed", name))
		}

		origNil := os.returnShapes["nil"] > 0
		transNil := ts.returnShapes["nil"] > 0
		if origNil && !transNil {
			errs = append(errs, fmt.Sprintf("function %s lost a nil return", name))
		}
		if !origNil && transNil {
			errs = append(errs, fmt.Sprintf("function %s gained a nil return", name))
		}

		origBare := os.returnShapes["none"] > 0
		transBare := ts.returnShapes["none"] > 0
		if origBare && !transBare {
			errs = append(errs, fmt.Sprintf("function %s lost a bare return", name))
		}
		if !origBare && transBare {
			errs = append(errs, fmt.Sprintf("function %s gained a bare return", name))
		}
	}
	for name := range transSigs {
		if _, ok := origSigs[name]; !ok {
			errs = append(errs, fmt.Sprintf("function %s appeared", name))
		}
	}

	origCount := statementCount(orig)
	transCount := statementCount(trans)
	if transCount*2 < origCount {
		errs = append(errs, fmt.Sprintf("statement count dropped from %d to %d", origCount, transCount))
	}

	return errs
}

type signature struct {
	params       []string
	hasResults   bool
	concurrent   bool
	returnShapes map[string]int
}

func collectSignatures(file *ast.File) map[string]signature {
	sigs := make(map[string]signature)
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		sig := signature{
			hasResults:   fn.Type.Results != nil,
			returnShapes: make(map[string]int),
		}
		if fn.Type.Params != nil {
			for _, field := range fn.Type.Params.List {
				for _, name := range field.Names {
					sig.params = append(sig.params, name.Name)
				}
			}
		}
		if fn.Body != nil {
			sig.concurrent = bodyUsesConcurrency(fn.Body)
			collectReturnShapes(fn.Body, sig.returnShapes)
		}
		sigs[fn.Name.Name] = sig
	}
	return sigs
}

// collectReturnShapes categorizes every returned value, skipping nested
// function literals.
func collectReturnShapes(body *ast.BlockStmt, shapes map[string]int) {
	ast.Inspect(body, func(n ast.Node) bool {
		switch s := n.(type) {
		case *ast.FuncLit:
			return false
		case *ast.ReturnStmt:
			if len(s.Results) == 0 {
				shapes["none"]++
				return true
			}
			for _, res := range s.Results {
				shapes[returnShape(res)]++
			}
		}
		return true
	})
}

func returnShape(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.Ident:
		switch v.Name {
		case "nil":
			return "nil"
		case "true", "false":
			return "bool"
		}
		return "name"
	case *ast.BasicLit:
		switch v.Kind {
		case token.INT, token.FLOAT, token.IMAG:
			return "number"
		case token.STRING, token.CHAR:
			return "string"
		}
		return "other"
	case *ast.CompositeLit:
		return "collection"
	case *ast.CallExpr:
		return "call"
	case *ast.ParenExpr:
		return returnShape(v.X)
	}
	return "other"
}

func statementCount(file *ast.File) int {
	count := 0
	ast.Inspect(file, func(n ast.Node) bool {
		if _, ok := n.(ast.Stmt); ok {
			count++
		}
		return true
	})
	return count
}

func bodyUsesConcurrency(body *ast.BlockStmt) bool {
	found := false
	ast.Inspect(body, func(n ast.Node) bool {
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
