package patterns

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMethodRequiresLongFunction(t *testing.T) {
	code := `package main

func short(a, b int) int {
	x := a + b
	y := x * 2
	return y
}`
	fn, ctx := parseFunc(t, code)
	p := &ExtractMethod{}

	assert.Nil(t, p.Match(fn, ctx))
}

func TestExtractMethodWindowCandidates(t *testing.T) {
	code := `package main

func crunch(a, b int) int {
	c := a + b
	d := c * 2
	e := d + a
	f := e - b
	g := f * f
	h := g + 1
	i := h - 2
	j := i * 3
	k := j + c
	total := k + g
	return total
}`
	fn, ctx := parseFunc(t, code)
	p := &ExtractMethod{}

	match := p.Match(fn, ctx)
	require.NotNil(t, match)
	assert.Equal(t, ExtractMethodName, match.PatternName)
	assert.Equal(t, 4, match.Priority)
	assert.GreaterOrEqual(t, match.EstimatedReduction, minWindowSize)
	assert.Greater(t, match.EndLine, match.StartLine)
	assert.NotEmpty(t, match.Context["suggested_name"])
	assert.Contains(t, []string{"heading", "window", "identical_run"}, match.Context["source"])
}

func TestExtractMethodHeadingSections(t *testing.T) {
	code := `package main

func report(rows []int) int {
	// initialize counters
	seen := 0
	total := 0
	bound := 100
	// compute totals
	total = total + bound
	seen = seen + 1
	total = total * seen
	total = total - bound
	total = total + seen
	total = total * 2
	result := total
	return result
}`
	fn, ctx := parseFunc(t, code)
	p := &ExtractMethod{}

	match := p.Match(fn, ctx)
	require.NotNil(t, match)
	assert.NotEmpty(t, match.Context["stmt_range"])
}

func TestExtractMethodSuggestedNameVerbs(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"result", "computeResult"},
		{"items", "collectItems"},
		{"total", "sumTotal"},
		{"count", "countCount"},
		{"data", "processData"},
		{"widget", "computeWidget"},
	}
	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			got := suggestedName(tt.output)
			assert.Equal(t, tt.want, got)
			assert.False(t, strings.Contains(got, " "))
		})
	}
}

func TestExtractMethodSkipsWindowsWithEarlyExit(t *testing.T) {
	code := `package main

func bail(a int) int {
	if a < 0 {
		return -1
	}
	b := a + 1
	return b
}`
	fn, ctx := parseFunc(t, code)
	p := &ExtractMethod{}

	// Below the statement threshold, and every window would contain an
	// exit anyway.
	assert.Nil(t, p.Match(fn, ctx))
}
