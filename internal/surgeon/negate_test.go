package surgeon

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegate(t *testing.T) {
	tests := []struct {
		cond string
		want string
	}{
		{"x > 0", "x <= 0"},
		{"x >= limit", "x < limit"},
		{"x < 0", "x >= 0"},
		{"x <= limit", "x > limit"},
		{"x == nil", "x != nil"},
		{"x != nil", "x == nil"},
		{"!done", "done"},
		{"!(a && b)", "a && b"},
		{"ok", "!ok"},
		{"x.Valid", "!x.Valid"},
		{"has(x)", "!has(x)"},
		{"m[k]", "!m[k]"},
		{"a && b", "!a || !b"},
		{"a || b", "!a && !b"},
		{"a > 0 && b > 0", "a <= 0 || b <= 0"},
		{"(a || b) && c", "(!a && !b) || !c"},
		{"a && b || c", "(!a || !b) && !c"},
		{"(a > b) == c", "!((a > b) == c)"},
	}

	for _, tt := range tests {
		t.Run(tt.cond, func(t *testing.T) {
			expr, err := parser.ParseExpr(tt.cond)
			require.NoError(t, err)
			got := Negate(token.NewFileSet(), expr)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestNegateProperty checks that for every generated boolean expression and
// every valuation of its variables, the negation evaluates to the opposite
// truth value.
func TestNegateProperty(t *testing.T) {
	vars := []string{"a", "b", "c"}

	atoms := append([]string{}, vars...)
	depth1 := combine(atoms, atoms)
	depth2 := combine(depth1, depth1)

	var exprs []string
	exprs = append(exprs, atoms...)
	exprs = append(exprs, depth1...)
	exprs = append(exprs, depth2...)

	for _, src := range exprs {
		expr, err := parser.ParseExpr(src)
		require.NoError(t, err, src)
		negated := Negate(token.NewFileSet(), expr)
		negExpr, err := parser.ParseExpr(negated)
		require.NoError(t, err, "negation of %q does not parse: %q", src, negated)

		for mask := 0; mask < 1<<len(vars); mask++ {
			valuation := map[string]bool{}
			for i, name := range vars {
				valuation[name] = mask&(1<<i) != 0
			}
			want := !evalBool(t, expr, valuation)
			got := evalBool(t, negExpr, valuation)
			assert.Equal(t, want, got,
				"expr %q negated to %q under %v", src, negated, valuation)
		}
	}
}

// combine builds the next generation of expressions from two pools: every
// pairwise conjunction and disjunction, plus the negation of each left
// operand. Pools are truncated to keep the enumeration bounded.
func combine(left, right []string) []string {
	const limit = 12
	if len(left) > limit {
		left = left[:limit]
	}
	if len(right) > limit {
		right = right[:limit]
	}
	var out []string
	for _, l := range left {
		out = append(out, fmt.Sprintf("!(%s)", l))
		for _, r := range right {
			out = append(out, fmt.Sprintf("(%s) && (%s)", l, r))
			out = append(out, fmt.Sprintf("(%s) || (%s)", l, r))
		}
	}
	return out
}

func evalBool(t *testing.T, expr ast.Expr, valuation map[string]bool) bool {
	t.Helper()
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return evalBool(t, e.X, valuation)
	case *ast.Ident:
		v, ok := valuation[e.Name]
		require.True(t, ok, "unknown variable %q", e.Name)
		return v
	case *ast.UnaryExpr:
		require.Equal(t, token.NOT, e.Op)
		return !evalBool(t, e.X, valuation)
	case *ast.BinaryExpr:
		switch e.Op {
		case token.LAND:
			return evalBool(t, e.X, valuation) && evalBool(t, e.Y, valuation)
		case token.LOR:
			return evalBool(t, e.X, valuation) || evalBool(t, e.Y, valuation)
		}
	}
	t.Fatalf("unsupported expression %T", expr)
	return false
}
