// Package report renders change specs for terminal output.
package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/lesleslie/recast/internal/types"
)

var (
	headerStyle    = color.New(color.FgCyan, color.Bold)
	patternStyle   = color.New(color.FgYellow, color.Bold)
	lineStyle      = color.New(color.FgHiBlue, color.Bold)
	removedStyle   = color.New(color.FgRed)
	addedStyle     = color.New(color.FgGreen)
	reductionStyle = color.New(color.FgGreen, color.Bold)
)

// Render formats a change spec as a header plus the affected snippet of
// the original and its replacement.
func Render(spec *types.ChangeSpec) string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Sprint(spec.FilePath))
	sb.WriteString(lineStyle.Sprintf(":%d-%d ", spec.LineStart, spec.LineEnd))
	sb.WriteString(patternStyle.Sprint(spec.PatternName))
	sb.WriteString(reductionStyle.Sprintf(" (complexity -%d, confidence %.2f)\n", spec.ComplexityReduction, spec.Confidence))

	for _, line := range snippet(spec.OriginalContent, spec.LineStart, spec.LineEnd) {
		sb.WriteString(removedStyle.Sprint("- " + line))
		sb.WriteByte('\n')
	}
	for _, line := range changedRegion(spec) {
		sb.WriteString(addedStyle.Sprint("+ " + line))
		sb.WriteByte('\n')
	}

	return sb.String()
}

// snippet returns lines [start, end] (1-based, inclusive) of text.
func snippet(text string, start, end int) []string {
	lines := strings.Split(text, "\n")
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return nil
	}
	return lines[start-1 : end]
}

// changedRegion extracts the replacement lines from the transformed
// content: the transformed file minus the unchanged prefix and suffix
// around the edit.
func changedRegion(spec *types.ChangeSpec) []string {
	orig := strings.Split(spec.OriginalContent, "\n")
	trans := strings.Split(spec.TransformedContent, "\n")

	prefix := 0
	for prefix < len(orig) && prefix < len(trans) && orig[prefix] == trans[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(orig)-prefix && suffix < len(trans)-prefix &&
		orig[len(orig)-1-suffix] == trans[len(trans)-1-suffix] {
		suffix++
	}
	return trans[prefix : len(trans)-suffix]
}

// Summary renders engine metrics as a one-line report.
func Summary(m types.TransformMetrics) string {
	return fmt.Sprintf("patterns tried %d, matched %d; transforms attempted %d, succeeded %d; validation failures %d; fallback used %d",
		m.PatternsTried, m.PatternsMatched, m.TransformsAttempted, m.TransformsSucceeded, m.ValidationFailures, m.FallbackUsed)
}
