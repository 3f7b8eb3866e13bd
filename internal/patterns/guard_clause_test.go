package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardClauseMatch(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantMatch bool
		reduction int
	}{
		{
			name: "nil check wrapping validity check",
			code: `package main

func handle(x *Item) string {
	if x != nil {
		if x.Valid {
			return x.Name
		}
	}
	return ""
}`,
			wantMatch: true,
			reduction: 1,
		},
		{
			name: "three level validator chain",
			code: `package main

func run(cfg *Config) error {
	if cfg != nil {
		if cfg.Enabled {
			if cfg.Count > 0 {
				return start(cfg)
			}
		}
	}
	return nil
}`,
			wantMatch: true,
			reduction: 2,
		},
		{
			name: "single validator does not chain",
			code: `package main

func handle(x *Item) string {
	if x != nil {
		return x.Name
	}
	return ""
}`,
			wantMatch: false,
		},
		{
			name: "init clause blocks hoisting",
			code: `package main

func handle(m map[string]int) int {
	if v, ok := m["k"]; ok {
		if v > 0 {
			return v
		}
	}
	return 0
}`,
			wantMatch: false,
		},
		{
			name: "non-validation leading condition",
			code: `package main

func compare(x, y *Item) string {
	if x.Weight > y.Weight {
		if x.Valid {
			return x.Name
		}
	}
	return ""
}`,
			wantMatch: false,
		},
		{
			name: "declarations before the leading if are allowed",
			code: `package main

func handle(x *Item) string {
	name := ""
	if x != nil {
		if x.Valid {
			name = x.Name
		}
	}
	return name
}`,
			wantMatch: true,
			reduction: 1,
		},
		{
			name: "leading statement other than decl or assign",
			code: `package main

func handle(x *Item) string {
	for i := 0; i < 3; i++ {
		_ = i
	}
	if x != nil {
		if x.Valid {
			return x.Name
		}
	}
	return ""
}`,
			wantMatch: false,
		},
		{
			name: "boolean chain of validations counts as one validator",
			code: `package main

func handle(x *Item) string {
	if x != nil && x.Enabled {
		if x.Valid {
			return x.Name
		}
	}
	return ""
}`,
			wantMatch: true,
			reduction: 1,
		},
	}

	p := &GuardClause{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, ctx := parseFunc(t, tt.code)
			match := p.Match(fn, ctx)
			if !tt.wantMatch {
				assert.Nil(t, match)
				return
			}
			require.NotNil(t, match)
			assert.Equal(t, GuardClauseName, match.PatternName)
			assert.Equal(t, 2, match.Priority)
			assert.Equal(t, tt.reduction, match.EstimatedReduction)
		})
	}
}
