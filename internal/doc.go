// Package internal provides the core transform engine.
//
// The engine analyzes Go source for structural complexity patterns and
// proposes at most one validated rewrite per call. It coordinates four
// stages:
//
// Pattern matching: a priority-ordered catalog of complexity patterns
// (early return, guard clause, conditional decomposition, data-processing
// loops, method extraction) is matched against the functions overlapping
// the requested line range, most complex function first.
//
// Surgery: registered surgeons attempt the rewrite for a matched pattern.
// Surgeons are tried in order; a surgeon that cannot handle a pattern or
// fails structurally is recorded and the next one is consulted. Surgeon
// failures never propagate as errors.
//
// Validation: every structurally successful rewrite passes through four
// gates before it is accepted: the result must parse, cognitive complexity
// must strictly decrease, behavior-relevant structure must be preserved,
// and comments and formatting must survive. A rewrite rejected by any gate
// is discarded.
//
// Reporting: an accepted rewrite is returned as a ChangeSpec describing
// the file, line range, pattern, and measured complexity reduction. The
// engine never writes files; persistence lives in the applier package.
//
// Suppression comments (recast:skip) exclude their scope from rewriting,
// see the ignore package.
package internal
