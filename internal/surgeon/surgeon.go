// Package surgeon holds the transformation backends that turn a pattern
// match into rewritten source text. Surgeons are tried in registration
// order; each one declares which pattern types it can handle.
package surgeon

import "github.com/lesleslie/recast/internal/types"

// Surgeon is a transformation backend for a subset of pattern types.
type Surgeon interface {
	Name() string

	// CanHandle reports whether this backend implements a rewrite for the
	// given match. Incapable surgeons are skipped, not failed.
	CanHandle(m *types.PatternMatch) bool

	// Apply attempts the rewrite against the full original source text and
	// returns the complete transformed text on success.
	Apply(src []byte, m *types.PatternMatch) types.TransformResult
}

// DefaultSurgeons returns the standard backend list: the structural text
// surgeon followed by the comment surgeon seam.
func DefaultSurgeons() []Surgeon {
	return []Surgeon{
		NewTextSurgeon(),
		NewCommentSurgeon(),
	}
}
