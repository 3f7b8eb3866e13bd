package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEarlyReturnMatch(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantMatch bool
		reduction int
	}{
		{
			name: "if-else with two returns",
			code: `package main

func classify(n int) string {
	if n > 0 {
		return "positive"
	} else {
		return "negative"
	}
}`,
			wantMatch: true,
			reduction: 1,
		},
		{
			name: "no else branch",
			code: `package main

func classify(n int) string {
	if n > 0 {
		return "positive"
	}
	return "negative"
}`,
			wantMatch: false,
		},
		{
			name: "condition with call is rejected",
			code: `package main

func classify(n int) string {
	if isPositive(n) {
		return "positive"
	} else {
		return "negative"
	}
}`,
			wantMatch: false,
		},
		{
			name: "init clause is rejected",
			code: `package main

func classify(s string) string {
	if n := len(s); n > 0 {
		return "some"
	} else {
		return "none"
	}
}`,
			wantMatch: false,
		},
		{
			name: "else with multiple statements is not simple",
			code: `package main

func classify(n int) string {
	if n > 0 {
		return "positive"
	} else {
		n = -n
		return "negative"
	}
}`,
			wantMatch: false,
		},
		{
			name: "else with panic",
			code: `package main

func mustPositive(n int) int {
	if n > 0 {
		return n
	} else {
		panic("not positive")
	}
}`,
			wantMatch: true,
			reduction: 1,
		},
		{
			name: "else-if chain",
			code: `package main

func pick(a, b int) int {
	if a > 0 {
		return a
	} else if b > 0 {
		return b
	}
	return 0
}`,
			wantMatch: true,
			reduction: 1,
		},
		{
			name: "nested body raises the estimate",
			code: `package main

func f(a, b int) int {
	if a > 0 {
		if b > 0 {
			return a + b
		}
		return a
	} else {
		return -1
	}
}`,
			wantMatch: true,
			reduction: 2,
		},
		{
			name: "boolean chain condition raises the estimate",
			code: `package main

func f(a, b int) int {
	if a > 0 && b > 0 {
		return a + b
	} else {
		return 0
	}
}`,
			wantMatch: true,
			reduction: 2,
		},
		{
			name: "no return in either branch",
			code: `package main

func f(a int) {
	x := 0
	if a > 0 {
		x = 1
	} else {
		x = 2
	}
	_ = x
}`,
			wantMatch: false,
		},
	}

	p := &EarlyReturn{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, ctx := parseFunc(t, tt.code)
			match := p.Match(fn, ctx)
			if !tt.wantMatch {
				assert.Nil(t, match)
				return
			}
			require.NotNil(t, match)
			assert.Equal(t, EarlyReturnName, match.PatternName)
			assert.Equal(t, 1, match.Priority)
			assert.Equal(t, tt.reduction, match.EstimatedReduction)
			assert.NotEmpty(t, match.Context["condition"])
			assert.Greater(t, match.EndLine, match.StartLine)
		})
	}
}
