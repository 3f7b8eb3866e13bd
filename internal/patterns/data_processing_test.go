package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataProcessingMatch(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		wantMatch  bool
		wantAction string
		wantHelper string
	}{
		{
			name: "filter loop with continue",
			code: `package main

func keepPositive(values []int) []int {
	var out []int
	for _, v := range values {
		if v <= 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}`,
			wantMatch:  true,
			wantAction: "filter",
			wantHelper: "filterV",
		},
		{
			name: "conditional accumulation is a transform",
			code: `package main

func tally(items []int) int {
	total := 0
	for _, item := range items {
		if item > 0 {
			total += item
		}
	}
	for _, item := range items {
		if item < 0 {
			total--
		}
	}
	return total
}`,
			wantMatch:  true,
			wantAction: "transform",
			wantHelper: "transformItem",
		},
		{
			name: "two aggregation loops without conditionals",
			code: `package main

func measure(groups [][]int) int {
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	for _, g := range groups {
		total += cap(g)
	}
	return total
}`,
			wantMatch:  true,
			wantAction: "aggregate",
			wantHelper: "aggregateG",
		},
		{
			name: "collect loop building a slice",
			code: `package main

func double(values []int) []int {
	var out []int
	for _, v := range values {
		out = append(out, v*2)
	}
	var names []string
	for _, v := range values {
		if v > 9 {
			names = append(names, "big")
		}
	}
	return out
}`,
			wantMatch: true,
		},
		{
			name: "single flat loop is not worth lifting",
			code: `package main

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}`,
			wantMatch: false,
		},
		{
			name: "loop with nested return stays put",
			code: `package main

func find(values []int, want int) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}`,
			wantMatch: false,
		},
		{
			name: "loop with side-effecting call stays put",
			code: `package main

func emitAll(values []int, sink *Sink) {
	for _, v := range values {
		if v > 0 {
			sink.Emit(v)
		}
	}
}`,
			wantMatch: false,
		},
	}

	p := &DataProcessing{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, ctx := parseFunc(t, tt.code)
			match := p.Match(fn, ctx)
			if !tt.wantMatch {
				assert.Nil(t, match)
				return
			}
			require.NotNil(t, match)
			assert.Equal(t, DataProcessingName, match.PatternName)
			if tt.wantAction != "" {
				assert.Equal(t, tt.wantAction, match.Context["action"])
			}
			if tt.wantHelper != "" {
				assert.Equal(t, tt.wantHelper, match.Context["suggested_name"])
			}
			assert.GreaterOrEqual(t, match.EstimatedReduction, 1)
		})
	}
}

func TestDataProcessingPicksMostComplexLoop(t *testing.T) {
	code := `package main

func split(values []int) ([]int, []int) {
	var small, large []int
	for _, v := range values {
		small = append(small, v)
	}
	for _, v := range values {
		if v > 10 {
			if v > 100 {
				large = append(large, v)
			}
		}
	}
	return small, large
}`
	fn, ctx := parseFunc(t, code)
	p := &DataProcessing{}

	match := p.Match(fn, ctx)
	require.NotNil(t, match)
	assert.Equal(t, "2", match.Context["nested_conds"])
	assert.Equal(t, 3, match.EstimatedReduction)
}
