package format

import (
	"bufio"
	"fmt"
	"strings"
)

// DiffOptions controls diff generation.
type DiffOptions struct {
	Context int // Number of context lines to show
}

// DefaultDiffOptions returns default diff options.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{Context: 3}
}

// DiffResult represents the result of a diff operation.
type DiffResult struct {
	Hunks      []Hunk
	Stats      DiffStat
	HasChanges bool
}

// Hunk represents a contiguous block of changes.
type Hunk struct {
	Header        string
	Lines         []Line
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
}

// Line represents a single line in a diff.
type Line struct {
	Content string
	Type    LineType
	Number  int
}

// LineType represents the type of a diff line.
type LineType int

const (
	LineTypeContext LineType = iota // Unchanged context line
	LineTypeAdded                   // Added line (+)
	LineTypeRemoved                 // Removed line (-)
)

// DiffStat contains statistics about changes.
type DiffStat struct {
	FilesChanged int // Number of files changed
	LinesAdded   int // Number of lines added
	LinesRemoved int // Number of lines removed
}

// DiffFormatter generates unified-style diffs between source files.
type DiffFormatter struct {
	options DiffOptions
}

// NewDiffFormatter creates a new diff formatter.
func NewDiffFormatter(options DiffOptions) *DiffFormatter {
	return &DiffFormatter{options: options}
}

// GenerateDiff creates a diff between original and modified source.
func (df *DiffFormatter) GenerateDiff(filename, original, modified string) *DiffResult {
	originalLines := df.splitLines(original)
	modifiedLines := df.splitLines(modified)

	// Group the line-by-line changes into hunks.
	hunks := df.generateHunks(originalLines, modifiedLines)

	result := &DiffResult{
		HasChanges: len(hunks) > 0,
		Hunks:      hunks,
		Stats:      df.calculateStats(hunks),
	}

	return result
}

// FormatDiff formats a diff result as a unified diff string.
func (df *DiffFormatter) FormatDiff(filename string, result *DiffResult) string {
	if !result.HasChanges {
		return ""
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("--- %s\t(original)\n", filename))
	output.WriteString(fmt.Sprintf("+++ %s\t(formatted)\n", filename))

	for _, hunk := range result.Hunks {
		df.formatUnifiedHunk(&output, hunk)
	}

	return output.String()
}

// splitLines splits text into lines, with line endings removed.
func (df *DiffFormatter) splitLines(text string) []string {
	if text == "" {
		return []string{}
	}

	scanner := bufio.NewScanner(strings.NewReader(text))

	var lines []string

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	return lines
}

// generateHunks groups the changes from computeChanges into hunks with
// surrounding context lines.
func (df *DiffFormatter) generateHunks(original, modified []string) []Hunk {
	changes := df.computeChanges(original, modified)
	if len(changes) == 0 {
		return []Hunk{}
	}

	var hunks []Hunk

	var currentHunk *Hunk

	context := df.options.Context

	for i, change := range changes {
		if currentHunk == nil {
			// Start new hunk.
			currentHunk = &Hunk{
				OriginalStart: max(1, change.OriginalLine-context),
				ModifiedStart: max(1, change.ModifiedLine-context),
			}

			// Add context lines before the change.
			for j := max(0, change.OriginalLine-context-1); j < change.OriginalLine-1; j++ {
				if j < len(original) {
					currentHunk.Lines = append(currentHunk.Lines, Line{
						Type:    LineTypeContext,
						Number:  j + 1,
						Content: original[j],
					})
				}
			}
		}

		// Add the change.
		switch change.Type {
		case ChangeTypeDelete:
			currentHunk.Lines = append(currentHunk.Lines, Line{
				Type:    LineTypeRemoved,
				Number:  change.OriginalLine,
				Content: original[change.OriginalLine-1],
			})
		case ChangeTypeInsert:
			currentHunk.Lines = append(currentHunk.Lines, Line{
				Type:    LineTypeAdded,
				Number:  change.ModifiedLine,
				Content: modified[change.ModifiedLine-1],
			})
		}

		// Check if we need to close this hunk.
		shouldClose := false
		if i == len(changes)-1 {
			shouldClose = true
		} else {
			nextChange := changes[i+1]

			gap := nextChange.OriginalLine - change.OriginalLine
			if gap > 2*context {
				shouldClose = true
			}
		}

		if shouldClose {
			// Add context lines after the change.
			endLine := min(len(original), change.OriginalLine+context)
			for j := change.OriginalLine; j < endLine; j++ {
				currentHunk.Lines = append(currentHunk.Lines, Line{
					Type:    LineTypeContext,
					Number:  j + 1,
					Content: original[j],
				})
			}

			// Finalize hunk.
			currentHunk.OriginalCount = len(currentHunk.Lines)
			currentHunk.ModifiedCount = len(currentHunk.Lines)
			currentHunk.Header = fmt.Sprintf("@@ -%d,%d +%d,%d @@",
				currentHunk.OriginalStart, currentHunk.OriginalCount,
				currentHunk.ModifiedStart, currentHunk.ModifiedCount)

			hunks = append(hunks, *currentHunk)
			currentHunk = nil
		}
	}

	return hunks
}

// Change represents a single change in the diff.
type Change struct {
	Type         ChangeType
	OriginalLine int
	ModifiedLine int
}

// ChangeType represents the type of change.
type ChangeType int

const (
	ChangeTypeEqual ChangeType = iota
	ChangeTypeDelete
	ChangeTypeInsert
)

// computeChanges computes the changes between two slices of lines.
func (df *DiffFormatter) computeChanges(original, modified []string) []Change {
	// Greedy comparison with one line of lookahead; this is not Myers'
	// algorithm and does not always find a minimal edit script.
	var changes []Change

	i, j := 0, 0
	for i < len(original) && j < len(modified) {
		if original[i] == modified[j] {
			// Equal lines.
			i++
			j++
		} else {
			// Find the type of change.
			if j+1 < len(modified) && original[i] == modified[j+1] {
				// Insertion.
				changes = append(changes, Change{
					Type:         ChangeTypeInsert,
					OriginalLine: i + 1,
					ModifiedLine: j + 1,
				})
				j++
			} else if i+1 < len(original) && original[i+1] == modified[j] {
				// Deletion.
				changes = append(changes, Change{
					Type:         ChangeTypeDelete,
					OriginalLine: i + 1,
					ModifiedLine: j + 1,
				})
				i++
			} else {
				// Replacement (delete + insert).
				changes = append(changes, Change{
					Type:         ChangeTypeDelete,
					OriginalLine: i + 1,
					ModifiedLine: j + 1,
				})
				changes = append(changes, Change{
					Type:         ChangeTypeInsert,
					OriginalLine: i + 1,
					ModifiedLine: j + 1,
				})
				i++
				j++
			}
		}
	}

	// Handle remaining lines.
	for i < len(original) {
		changes = append(changes, Change{
			Type:         ChangeTypeDelete,
			OriginalLine: i + 1,
			ModifiedLine: len(modified) + 1,
		})
		i++
	}

	for j < len(modified) {
		changes = append(changes, Change{
			Type:         ChangeTypeInsert,
			OriginalLine: len(original) + 1,
			ModifiedLine: j + 1,
		})
		j++
	}

	return changes
}

// formatUnifiedHunk formats a hunk in unified diff format.
func (df *DiffFormatter) formatUnifiedHunk(output *strings.Builder, hunk Hunk) {
	output.WriteString(hunk.Header + "\n")

	for _, line := range hunk.Lines {
		var prefix string

		switch line.Type {
		case LineTypeContext:
			prefix = " "
		case LineTypeAdded:
			prefix = "+"
		case LineTypeRemoved:
			prefix = "-"
		}

		output.WriteString(fmt.Sprintf("%s%4d: %s\n", prefix, line.Number, line.Content))
	}
}

// calculateStats calculates statistics for the diff.
func (df *DiffFormatter) calculateStats(hunks []Hunk) DiffStat {
	stats := DiffStat{FilesChanged: 1}

	for _, hunk := range hunks {
		for _, line := range hunk.Lines {
			switch line.Type {
			case LineTypeAdded:
				stats.LinesAdded++
			case LineTypeRemoved:
				stats.LinesRemoved++
			}
		}
	}

	return stats
}

// Helper functions.
func max(a, b int) int {
	if a > b {
		return a
	}

	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}

	return b
}

// FormatWithDiff formats source and returns both the formatted source and a
// unified diff against the original, for the clawfmt CLI's --check mode.
func FormatWithDiff(filename, source string, indentWidth int, diffOptions DiffOptions) (formatted string, diff string, err error) {
	formatted = FormatSource(source, indentWidth)

	if formatted != source {
		formatter := NewDiffFormatter(diffOptions)
		result := formatter.GenerateDiff(filename, source, formatted)
		diff = formatter.FormatDiff(filename, result)
	}

	return formatted, diff, nil
}
