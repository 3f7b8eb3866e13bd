package surgeon

import (
	"fmt"
	"go/ast"
	"strings"

	"github.com/lesleslie/recast/internal/branch"
	"github.com/lesleslie/recast/internal/patterns"
	"github.com/lesleslie/recast/internal/types"
)

// TextSurgeon is the primary backend. It rewrites early_return and
// guard_clause matches by splicing lines of the original source around the
// matched statement, so comments and formatting inside the moved bodies
// survive untouched.
type TextSurgeon struct{}

func NewTextSurgeon() *TextSurgeon { return &TextSurgeon{} }

func (s *TextSurgeon) Name() string { return "text_surgeon" }

// CanHandle accepts early_return and guard_clause. The remaining pattern
// types propose intents this backend has no rewrite for.
func (s *TextSurgeon) CanHandle(m *types.PatternMatch) bool {
	switch m.PatternName {
	case patterns.EarlyReturnName, patterns.GuardClauseName:
		return true
	}
	return false
}

func (s *TextSurgeon) Apply(src []byte, m *types.PatternMatch) types.TransformResult {
	ifStmt, ok := m.Node.(*ast.IfStmt)
	if !ok {
		return types.Failure(s.Name(), "match payload is %T, want *ast.IfStmt", m.Node)
	}

	var rewritten string
	var err error
	switch m.PatternName {
	case patterns.EarlyReturnName:
		rewritten, err = s.rewriteEarlyReturn(src, m, ifStmt)
	case patterns.GuardClauseName:
		rewritten, err = s.rewriteGuardClause(src, m, ifStmt)
	default:
		return types.Failure(s.Name(), "unsupported pattern %q", m.PatternName)
	}
	if err != nil {
		return types.Failure(s.Name(), "%v", err)
	}

	return types.TransformResult{
		Success:     true,
		Transformed: rewritten,
		SurgeonName: s.Name(),
	}
}

// rewriteEarlyReturn negates the condition and hoists the else branch
// ahead of the original body as a guard:
//
//	if cond { A } else { B }   =>   if !cond { B }
//	                                A
func (s *TextSurgeon) rewriteEarlyReturn(src []byte, m *types.PatternMatch, ifStmt *ast.IfStmt) (string, error) {
	if ifStmt.Else == nil {
		return "", fmt.Errorf("early return requires an else branch")
	}

	lines := strings.Split(string(src), "\n")
	startLine := m.Fset.Position(ifStmt.Pos()).Line
	endLine := m.Fset.Position(ifStmt.End()).Line
	indent := leadingIndent(lines[startLine-1])

	guardBody, err := s.branchLines(lines, m, ifStmt.Else, indent)
	if err != nil {
		return "", err
	}
	body, err := s.blockInnerLines(lines, m, ifStmt.Body)
	if err != nil {
		return "", err
	}

	var out []string
	out = append(out, indent+"if "+Negate(m.Fset, ifStmt.Cond)+" {")
	out = append(out, guardBody...)
	out = append(out, indent+"}")
	out = append(out, dedentOnce(body)...)

	return spliceLines(lines, startLine, endLine, out), nil
}

// rewriteGuardClause inverts the leading validator into a guard and
// flattens the nested chain one level:
//
//	if ok { if inner { A } }   =>   if !ok { return ... }
//	return zero                     if inner { A }
//	                                return zero
func (s *TextSurgeon) rewriteGuardClause(src []byte, m *types.PatternMatch, ifStmt *ast.IfStmt) (string, error) {
	if ifStmt.Else != nil {
		return "", fmt.Errorf("guard clause rewrite does not support an else branch")
	}

	lines := strings.Split(string(src), "\n")
	startLine := m.Fset.Position(ifStmt.Pos()).Line
	endLine := m.Fset.Position(ifStmt.End()).Line
	indent := leadingIndent(lines[startLine-1])

	exit, err := s.guardExit(lines, m, ifStmt)
	if err != nil {
		return "", err
	}
	body, err := s.blockInnerLines(lines, m, ifStmt.Body)
	if err != nil {
		return "", err
	}

	var out []string
	out = append(out, indent+"if "+Negate(m.Fset, ifStmt.Cond)+" {")
	out = append(out, indent+"\t"+exit)
	out = append(out, indent+"}")
	out = append(out, dedentOnce(body)...)

	return spliceLines(lines, startLine, endLine, out), nil
}

// guardExit finds the exit statement the guard should take: the function's
// own fallthrough exit after the validator chain, or a bare return where
// the function's result list allows one.
func (s *TextSurgeon) guardExit(lines []string, m *types.PatternMatch, outer *ast.IfStmt) (string, error) {
	if m.Func == nil || m.Func.Body == nil {
		return "", fmt.Errorf("match has no enclosing function")
	}
	next := stmtAfter(m.Func.Body.List, outer)
	if next != nil && branch.StmtBranch(next).Deviates() {
		start := m.Fset.Position(next.Pos()).Line
		end := m.Fset.Position(next.End()).Line
		if start == end {
			return strings.TrimSpace(lines[start-1]), nil
		}
	}
	if !bareReturnAllowed(m.Func) {
		return "", fmt.Errorf("no single-line exit to hoist and the result list forbids a bare return")
	}
	return "return", nil
}

// bareReturnAllowed reports whether a valueless return compiles in fn: the
// function has no results, or every result is named.
func bareReturnAllowed(fn *ast.FuncDecl) bool {
	if fn.Type.Results == nil {
		return true
	}
	for _, field := range fn.Type.Results.List {
		if len(field.Names) == 0 {
			return false
		}
	}
	return true
}

func stmtAfter(stmts []ast.Stmt, target ast.Stmt) ast.Stmt {
	for i, stmt := range stmts {
		if stmt == target && i+1 < len(stmts) {
			return stmts[i+1]
		}
	}
	return nil
}

// branchLines returns the lines of an else branch ready to serve as the
// guard body: the inner lines of a block, or a nested if re-indented one
// level.
func (s *TextSurgeon) branchLines(lines []string, m *types.PatternMatch, stmt ast.Stmt, indent string) ([]string, error) {
	switch b := stmt.(type) {
	case *ast.BlockStmt:
		return s.blockInnerLines(lines, m, b)
	case *ast.IfStmt:
		start := m.Fset.Position(b.Pos()).Line
		end := m.Fset.Position(b.End()).Line
		var out []string
		for i := start; i <= end; i++ {
			line := lines[i-1]
			if i == start {
				// The else-if header shares its line with "} else"; keep
				// only the nested if itself.
				line = indent + "\t" + strings.TrimSpace(line[strings.Index(line, "if"):])
			} else {
				line = "\t" + line
			}
			out = append(out, line)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported else branch %T", stmt)
}

// blockInnerLines extracts the lines strictly between a block's braces.
func (s *TextSurgeon) blockInnerLines(lines []string, m *types.PatternMatch, block *ast.BlockStmt) ([]string, error) {
	start := m.Fset.Position(block.Lbrace).Line
	end := m.Fset.Position(block.Rbrace).Line
	if start == end {
		return nil, fmt.Errorf("single-line block not supported")
	}
	inner := make([]string, 0, end-start-1)
	for i := start + 1; i < end; i++ {
		inner = append(inner, lines[i-1])
	}
	return inner, nil
}

// dedentOnce removes one level of indentation (a tab or four spaces) from
// every non-empty line.
func dedentOnce(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "\t"):
			out[i] = line[1:]
		case strings.HasPrefix(line, "    "):
			out[i] = line[4:]
		default:
			out[i] = line
		}
	}
	return out
}

func leadingIndent(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// spliceLines replaces lines [startLine, endLine] (1-based, inclusive)
// with the replacement block.
func spliceLines(lines []string, startLine, endLine int, replacement []string) string {
	var out []string
	out = append(out, lines[:startLine-1]...)
	out = append(out, replacement...)
	out = append(out, lines[endLine:]...)
	return strings.Join(out, "\n")
}
