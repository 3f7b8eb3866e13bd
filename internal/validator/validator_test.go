package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesleslie/recast/internal/types"
)

const earlyReturnOriginal = `package main

func classify(n int) string {
	if n > 0 {
		return "positive"
	} else {
		return "negative"
	}
}
`

const earlyReturnTransformed = `package main

func classify(n int) string {
	if n <= 0 {
		return "negative"
	}
	return "positive"
}
`

func TestValidateAcceptsGoodRewrite(t *testing.T) {
	v := New(false)

	result := v.Validate(earlyReturnOriginal, earlyReturnTransformed)
	assert.True(t, result.Valid, "errors: %v", result.Errors)
	assert.True(t, result.SyntaxValid)
	assert.True(t, result.ComplexityReduced)
	assert.True(t, result.BehaviorPreserved)
	assert.True(t, result.FormattingPreserved)
	assert.Equal(t, 1, result.ComplexityDelta)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidateSyntaxGate(t *testing.T) {
	v := New(false)

	result := v.Validate(earlyReturnOriginal, "package main\n\nfunc classify(n int) string {")
	assert.False(t, result.Valid)
	assert.False(t, result.SyntaxValid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "syntax")
	// Fail fast: later gates never ran.
	assert.False(t, result.ComplexityReduced)
}

func TestValidateComplexityGate(t *testing.T) {
	t.Run("not reduced", func(t *testing.T) {
		v := New(false)
		result := v.Validate(earlyReturnOriginal, earlyReturnOriginal)
		assert.False(t, result.Valid)
		assert.True(t, result.SyntaxValid)
		assert.False(t, result.ComplexityReduced)
		assert.Zero(t, result.ComplexityDelta)
		require.NotEmpty(t, result.Errors)
		assert.Contains(t, result.Errors[0], "not reduced")
	})

	t.Run("increased", func(t *testing.T) {
		worse := `package main

func classify(n int) string {
	if n > 0 {
		if n > 1 {
			return "positive"
		}
		return "one"
	} else {
		return "negative"
	}
}
`
		v := New(false)
		result := v.Validate(earlyReturnOriginal, worse)
		assert.False(t, result.Valid)
		require.NotEmpty(t, result.Errors)
		assert.Contains(t, result.Errors[0], "increased")
		assert.Negative(t, result.ComplexityDelta)
	})
}

func TestValidateBehaviorGate(t *testing.T) {
	t.Run("renamed function", func(t *testing.T) {
		renamed := `package main

func categorize(n int) string {
	if n <= 0 {
		return "negative"
	}
	return "positive"
}
`
		v := New(false)
		result := v.Validate(earlyReturnOriginal, renamed)
		assert.False(t, result.Valid)
		assert.True(t, result.ComplexityReduced)
		assert.False(t, result.BehaviorPreserved)
		require.NotEmpty(t, result.Errors)
		assert.Contains(t, result.Errors[0], "behavior")
	})

	t.Run("renamed parameter", func(t *testing.T) {
		renamed := `package main

func classify(value int) string {
	if value <= 0 {
		return "negative"
	}
	return "positive"
}
`
		v := New(false)
		result := v.Validate(earlyReturnOriginal, renamed)
		assert.False(t, result.Valid)
		assert.False(t, result.BehaviorPreserved)
	})

	t.Run("gained bare return", func(t *testing.T) {
		original := `package main

func handle(x *Item) error {
	if x != nil {
		if x.Valid {
			x.Count++
		}
	}
	return process(x)
}
`
		// Parses, but cannot compile: the bare return has no error value.
		bareReturn := `package main

func handle(x *Item) error {
	if x == nil {
		return
	}
	if x.Valid {
		x.Count++
	}
	return process(x)
}
`
		v := New(false)
		result := v.Validate(original, bareReturn)
		assert.False(t, result.Valid)
		assert.False(t, result.BehaviorPreserved)
		require.NotEmpty(t, result.Errors)
		assert.Contains(t, result.Errors[0], "bare return")
	})

	t.Run("lost nil return", func(t *testing.T) {
		original := `package main

func find(items []int, want int) *int {
	if len(items) > 0 {
		if items[0] == want {
			return &items[0]
		}
	}
	return nil
}
`
		lostNil := `package main

func find(items []int, want int) *int {
	if items[0] == want {
		return &items[0]
	}
	return &items[0]
}
`
		v := New(false)
		result := v.Validate(original, lostNil)
		assert.False(t, result.Valid)
		assert.False(t, result.BehaviorPreserved)
	})
}

func TestValidateFormattingGate(t *testing.T) {
	original := `package main

func classify(n int) string {
	if n > 0 {
		// the common case
		return "positive"
	} else {
		return "negative"
	}
}
`
	commentLost := `package main

func classify(n int) string {
	if n <= 0 {
		return "negative"
	}
	return "positive"
}
`

	t.Run("warning mode keeps the rewrite", func(t *testing.T) {
		v := New(false)
		result := v.Validate(original, commentLost)
		assert.True(t, result.Valid)
		assert.False(t, result.FormattingPreserved)
		assert.Empty(t, result.Errors)
		require.NotEmpty(t, result.Warnings)
		assert.Contains(t, result.Warnings[0], "comment lost")
	})

	t.Run("strict mode rejects", func(t *testing.T) {
		v := New(true)
		assert.Equal(t, types.SeverityError, v.FormattingSeverity)
		result := v.Validate(original, commentLost)
		assert.False(t, result.Valid)
		assert.False(t, result.FormattingPreserved)
		require.NotEmpty(t, result.Errors)
		assert.Contains(t, result.Errors[0], "formatting")
	})
}

func TestValidateDocCommentPreservation(t *testing.T) {
	original := `package main

// classify buckets n by sign.
func classify(n int) string {
	if n > 0 {
		return "positive"
	} else {
		return "negative"
	}
}
`
	docChanged := `package main

// classify buckets a number by its sign.
func classify(n int) string {
	if n <= 0 {
		return "negative"
	}
	return "positive"
}
`
	v := New(true)
	result := v.Validate(original, docChanged)
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "doc comment")
}

func TestFormattingIdiomRegressions(t *testing.T) {
	t.Run("introduced Sprintf", func(t *testing.T) {
		orig := parseFile(t, `package main

func f(ok bool) string {
	if ok {
		return "yes"
	} else {
		return "no"
	}
}`)
		trans := parseFile(t, `package main

import "fmt"

func f(ok bool) string {
	return fmt.Sprintf("%v", ok)
}`)
		errs := formattingErrors("", "", orig, trans)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "Sprintf")
	})

	t.Run("interface literal where any is in use", func(t *testing.T) {
		orig := parseFile(t, `package main

func f(v any) any {
	return v
}`)
		trans := parseFile(t, `package main

func f(v any) any {
	var boxed interface{} = v
	return boxed
}`)
		errs := formattingErrors("", "", orig, trans)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "interface{}")
	})
}
