package validator

import (
	"fmt"
	"go/ast"
	"strings"
)

// formattingErrors checks that a rewrite kept the human-facing text: every
// original comment survives verbatim, doc comments stay byte-identical per
// owner, and two idiom regressions are flagged explicitly.
func formattingErrors(origSrc, transSrc string, orig, trans *ast.File) []string {
	var errs []string

	for _, comment := range inlineComments(orig) {
		if !strings.Contains(transSrc, comment) {
			errs = append(errs, fmt.Sprintf("comment lost: %q", comment))
		}
	}

	origDocs := docComments(orig)
	transDocs := docComments(trans)
	for owner, doc := range origDocs {
		got, ok := transDocs[owner]
		if !ok {
			errs = append(errs, fmt.Sprintf("doc comment for %s lost", owner))
			continue
		}
		if got != doc {
			errs = append(errs, fmt.Sprintf("doc comment for %s changed", owner))
		}
	}

	if countSprintf(trans) > countSprintf(orig) && countSprintf(orig) == 0 {
		errs = append(errs, "introduced fmt.Sprintf where none existed")
	}
	if countEmptyInterface(trans) > countEmptyInterface(orig) && usesAny(orig) {
		errs = append(errs, "introduced interface{} where any was used")
	}

	return errs
}

// inlineComments returns the text of every non-doc comment.
func inlineComments(file *ast.File) []string {
	docs := map[*ast.CommentGroup]bool{}
	ast.Inspect(file, func(n ast.Node) bool {
		switch d := n.(type) {
		case *ast.FuncDecl:
			if d.Doc != nil {
				docs[d.Doc] = true
			}
		case *ast.GenDecl:
			if d.Doc != nil {
				docs[d.Doc] = true
			}
		case *ast.TypeSpec:
			if d.Doc != nil {
				docs[d.Doc] = true
			}
		}
		return true
	})

	var comments []string
	for _, group := range file.Comments {
		if docs[group] {
			continue
		}
		for _, c := range group.List {
			text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
			text = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/"))
			if text != "" {
				comments = append(comments, text)
			}
		}
	}
	return comments
}

// docComments maps each documented declaration's name to its doc text.
func docComments(file *ast.File) map[string]string {
	docs := make(map[string]string)
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Doc != nil {
				docs[d.Name.Name] = d.Doc.Text()
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if ts.Doc != nil {
					docs[ts.Name.Name] = ts.Doc.Text()
				} else if d.Doc != nil && len(d.Specs) == 1 {
					docs[ts.Name.Name] = d.Doc.Text()
				}
			}
		}
	}
	return docs
}

func countSprintf(file *ast.File) int {
	count := 0
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if sel, ok := call.Fun.(*ast.SelectorExpr); ok {
			if pkg, ok := sel.X.(*ast.Ident); ok && pkg.Name == "fmt" && sel.Sel.Name == "Sprintf" {
				count++
			}
		}
		return true
	})
	return count
}

func countEmptyInterface(file *ast.File) int {
	count := 0
	ast.Inspect(file, func(n ast.Node) bool {
		if iface, ok := n.(*ast.InterfaceType); ok {
			if iface.Methods == nil || len(iface.Methods.List) == 0 {
				count++
			}
		}
		return true
	})
	return count
}

func usesAny(file *ast.File) bool {
	found := false
	ast.Inspect(file, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok && id.Name == "any" {
			found = true
			return false
		}
		return true
	})
	return found
}
