// Package validator runs rewritten source through four ordered gates:
// syntax, complexity, behavior, and formatting. The first three fail fast;
// formatting failures can be downgraded to warnings.
package validator

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/lesleslie/recast/internal/types"
)

// Validator checks that a rewrite is parseable, strictly simpler,
// behavior-compatible, and formatting-preserving.
type Validator struct {
	// FormattingSeverity controls the last gate: SeverityError makes
	// formatting losses fatal, anything else records them as warnings.
	FormattingSeverity types.Severity
}

// New returns a validator. Strict mode makes formatting failures fatal.
func New(strict bool) *Validator {
	severity := types.SeverityWarning
	if strict {
		severity = types.SeverityError
	}
	return &Validator{FormattingSeverity: severity}
}

// Validate runs all four gates against the original and transformed text.
func (v *Validator) Validate(original, transformed string) types.ValidationResult {
	result := types.ValidationResult{}

	// Gate 1: the rewrite must parse. A syntax failure is final for this
	// match, not a retryable condition.
	origFile, err := parseSource(original)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("original does not parse: %v", err))
		return result
	}
	transFile, err := parseSource(transformed)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("syntax: %v", err))
		return result
	}
	result.SyntaxValid = true

	// Gate 2: cognitive complexity must strictly decrease.
	origScore := FileComplexity(origFile)
	transScore := FileComplexity(transFile)
	result.ComplexityDelta = origScore - transScore
	if transScore >= origScore {
		if transScore > origScore {
			result.Errors = append(result.Errors, fmt.Sprintf("complexity increased: %d -> %d", origScore, transScore))
		} else {
			result.Errors = append(result.Errors, fmt.Sprintf("complexity not reduced: %d", origScore))
		}
		return result
	}
	result.ComplexityReduced = true

	// Gate 3: behavior heuristic.
	if errs := behaviorErrors(origFile, transFile); len(errs) > 0 {
		for _, e := range errs {
			result.Errors = append(result.Errors, "behavior: "+e)
		}
		return result
	}
	result.BehaviorPreserved = true

	// Gate 4: formatting and comments. The only gate with configurable
	// severity.
	if errs := formattingErrors(original, transformed, origFile, transFile); len(errs) > 0 {
		if v.FormattingSeverity == types.SeverityError {
			for _, e := range errs {
				result.Errors = append(result.Errors, "formatting: "+e)
			}
			return result
		}
		for _, e := range errs {
			result.Warnings = append(result.Warnings, "formatting: "+e)
		}
	} else {
		result.FormattingPreserved = true
	}

	result.Valid = true
	return result
}

func parseSource(src string) (*ast.File, error) {
	fset := token.NewFileSet()
	return parser.ParseFile(fset, "", src, parser.ParseComments)
}
