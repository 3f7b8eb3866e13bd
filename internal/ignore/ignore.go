// Package ignore implements recast:skip suppression comments. A skip
// comment excludes its surrounding scope from rewriting, either for every
// pattern or for a named subset.
package ignore

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"
)

const skipPrefix = "//recast:skip"

// Manager holds the skip scopes of one parsed file.
type Manager struct {
	// scopes maps filename to the ranges where skipping applies.
	scopes map[string][]skipScope
}

// skipScope is a line range where rewriting is suppressed. An empty
// patterns set suppresses every pattern.
type skipScope struct {
	patterns map[string]struct{}
	start    token.Position
	end      token.Position
}

// ParseComments collects the skip comments of a file into a Manager.
func ParseComments(f *ast.File, fset *token.FileSet) *Manager {
	m := &Manager{
		scopes: make(map[string][]skipScope, len(f.Comments)),
	}
	stmtMap := indexStatementsByLine(f, fset)
	packageLine := fset.Position(f.Package).Line

	for _, cg := range f.Comments {
		for _, comment := range cg.List {
			scope, err := parseComment(comment, f, fset, stmtMap, packageLine)
			if err != nil {
				// not a skip comment, or malformed; either way it is inert
				continue
			}
			filename := scope.start.Filename
			m.scopes[filename] = append(m.scopes[filename], scope)
		}
	}
	return m
}

// parseComment determines the scope a single skip comment applies to.
func parseComment(
	comment *ast.Comment,
	f *ast.File,
	fset *token.FileSet,
	stmtMap map[int]ast.Stmt,
	packageLine int,
) (skipScope, error) {
	var scope skipScope
	text := comment.Text

	if !strings.HasPrefix(text, skipPrefix) {
		return scope, fmt.Errorf("not a skip comment")
	}

	rest := text[len(skipPrefix):]

	// Either a bare marker (applies to all patterns) or a colon followed
	// by a comma-separated pattern list.
	if len(rest) > 0 && rest[0] != ':' {
		return scope, fmt.Errorf("malformed skip comment")
	}
	if len(rest) > 0 && rest[0] == ':' {
		rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
		if rest == "" {
			return scope, fmt.Errorf("skip comment with empty pattern list")
		}
	}
	scope.patterns = parsePatternNames(rest)
	pos := fset.Position(comment.Slash)

	// Before the package clause the comment covers the whole file.
	if pos.Line < packageLine {
		scope.start = fset.Position(f.Pos())
		scope.end = fset.Position(f.End())
		return scope, nil
	}

	// Inline with a statement: cover that statement.
	if isInlineComment(fset, comment, stmtMap) {
		if stmt, exists := stmtMap[pos.Line]; exists {
			scope.start = fset.Position(stmt.Pos())
			scope.end = fset.Position(stmt.End())
			return scope, nil
		}
	}

	// Standalone comment directly above a statement: cover the statement,
	// starting from the comment line itself.
	if stmt, exists := stmtMap[pos.Line+1]; exists {
		scope.start = pos
		scope.end = fset.Position(stmt.End())
		return scope, nil
	}

	// Directly above a function declaration: cover the whole function.
	if decl := findFunctionAfterLine(fset, f, pos.Line); decl != nil {
		if fset.Position(decl.Pos()).Line == pos.Line+1 {
			scope.start = pos
			scope.end = fset.Position(decl.End())
			return scope, nil
		}
	}

	// Otherwise only the comment's own line.
	scope.start = pos
	scope.end = pos
	return scope, nil
}

func parsePatternNames(text string) map[string]struct{} {
	patterns := make(map[string]struct{})
	if text == "" {
		return patterns
	}
	for _, name := range strings.Split(text, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			patterns[name] = struct{}{}
		}
	}
	return patterns
}

// indexStatementsByLine maps each line to the first statement starting on
// it.
func indexStatementsByLine(f *ast.File, fset *token.FileSet) map[int]ast.Stmt {
	stmtMap := make(map[int]ast.Stmt)
	ast.Inspect(f, func(n ast.Node) bool {
		if n == nil {
			return false
		}
		if stmt, ok := n.(ast.Stmt); ok {
			line := fset.Position(stmt.Pos()).Line
			if _, exists := stmtMap[line]; !exists {
				stmtMap[line] = stmt
			}
		}
		return true
	})
	return stmtMap
}

// isInlineComment reports whether the comment trails a statement on the
// same line.
func isInlineComment(fset *token.FileSet, comment *ast.Comment, stmtMap map[int]ast.Stmt) bool {
	pos := fset.Position(comment.Slash)
	if stmt, exists := stmtMap[pos.Line]; exists {
		return pos.Offset > fset.Position(stmt.Pos()).Offset
	}
	return false
}

func findFunctionAfterLine(fset *token.FileSet, f *ast.File, line int) *ast.FuncDecl {
	for _, decl := range f.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			if fset.Position(fn.Pos()).Line >= line {
				return fn
			}
		}
	}
	return nil
}

// IsSkipped reports whether a pattern is suppressed at the given position.
func (m *Manager) IsSkipped(pos token.Position, patternName string) bool {
	scopes, exists := m.scopes[pos.Filename]
	if !exists {
		return false
	}
	for _, scope := range scopes {
		if pos.Line < scope.start.Line || pos.Line > scope.end.Line {
			continue
		}
		if len(scope.patterns) == 0 {
			return true
		}
		if _, exists := scope.patterns[patternName]; exists {
			return true
		}
	}
	return false
}
