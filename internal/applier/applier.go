// Package applier persists accepted change specs. The engine itself never
// writes files; backup, threshold, and dry-run policy live here.
package applier

import (
	"fmt"
	"go/format"
	"os"

	"github.com/lesleslie/recast/internal/report"
	"github.com/lesleslie/recast/internal/types"
)

type Applier struct {
	DryRun        bool
	MinConfidence float64 // threshold for applying proposals
}

func New(dryRun bool, threshold float64) *Applier {
	return &Applier{
		DryRun:        dryRun,
		MinConfidence: threshold,
	}
}

// Apply writes each spec's transformed content back to its file, gofmt'ed,
// skipping proposals below the confidence threshold. Dry-run prints the
// rendered proposal instead of writing.
func (a *Applier) Apply(specs []*types.ChangeSpec) error {
	for _, spec := range specs {
		if spec.Confidence < a.MinConfidence {
			continue
		}

		if a.DryRun {
			fmt.Printf("Would rewrite %s lines %d-%d (%s):\n", spec.FilePath, spec.LineStart, spec.LineEnd, spec.PatternName)
			fmt.Println(report.Render(spec))
			continue
		}

		formatted, err := format.Source([]byte(spec.TransformedContent))
		if err != nil {
			return fmt.Errorf("failed to format %s: %w", spec.FilePath, err)
		}
		if err := os.WriteFile(spec.FilePath, formatted, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", spec.FilePath, err)
		}

		fmt.Printf("Rewrote %s (%s, complexity -%d)\n", spec.FilePath, spec.PatternName, spec.ComplexityReduction)
	}
	return nil
}
