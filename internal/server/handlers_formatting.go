package server

import (
	"strings"

	"github.com/clawlang/clawls/internal/format"
	"github.com/clawlang/clawls/internal/jsonvalue"
	"github.com/clawlang/clawls/internal/store"
)

// handleFormatting re-tokenizes the document's current text and returns
// a single edit replacing the whole document with the formatted string.
func handleFormatting(s *Server, params jsonvalue.Value) (jsonvalue.Value, bool) {
	uri := getString(params, "textDocument", "uri")
	doc, ok := lookupDoc(s, uri)
	if !ok {
		return jsonvalue.Array(nil), false
	}
	formatted := format.FormatSource(doc.Text, doc.IndentWidth)
	lineCount := strings.Count(doc.Text, "\n") + 1
	whole := store.Range{
		Start: store.Position{Line: 0, Character: 0},
		End:   store.Position{Line: lineCount, Character: 0},
	}
	edit := jsonvalue.Object().
		Set("range", rangeToJSON(whole)).
		Set("newText", jsonvalue.String(formatted)).
		Build()
	return jsonvalue.Array([]jsonvalue.Value{edit}), false
}

// handleRangeFormatting extracts the substring covered by the requested
// Range, formats that fragment in isolation, and returns a single edit
// over the requested Range.
func handleRangeFormatting(s *Server, params jsonvalue.Value) (jsonvalue.Value, bool) {
	uri := getString(params, "textDocument", "uri")
	r := getRange(params, "range")
	doc, ok := lookupDoc(s, uri)
	if !ok {
		return jsonvalue.Array(nil), false
	}
	fragment := sliceRange(doc.Text, r)
	formatted := format.FormatSource(fragment, doc.IndentWidth)
	edit := jsonvalue.Object().
		Set("range", rangeToJSON(r)).
		Set("newText", jsonvalue.String(formatted)).
		Build()
	return jsonvalue.Array([]jsonvalue.Value{edit}), false
}

// handleOnTypeFormatting formats only the line containing the trigger
// position and replaces it.
func handleOnTypeFormatting(s *Server, params jsonvalue.Value) (jsonvalue.Value, bool) {
	uri := getString(params, "textDocument", "uri")
	pos := getPosition(params, "position")
	doc, ok := lookupDoc(s, uri)
	if !ok {
		return jsonvalue.Array(nil), false
	}
	line := lineAt(doc.Text, pos.Line)
	formatted := strings.TrimSuffix(format.FormatSource(line, doc.IndentWidth), "\n")
	whole := store.Range{
		Start: store.Position{Line: pos.Line, Character: 0},
		End:   store.Position{Line: pos.Line, Character: len(line)},
	}
	edit := jsonvalue.Object().
		Set("range", rangeToJSON(whole)).
		Set("newText", jsonvalue.String(formatted)).
		Build()
	return jsonvalue.Array([]jsonvalue.Value{edit}), false
}

// sliceRange extracts the substring of text covered by r, handling both
// single-line (a column interval) and multi-line ranges, including the
// newlines between sliced segments.
func sliceRange(text string, r store.Range) string {
	lines := strings.Split(text, "\n")
	if r.Start.Line < 0 || r.Start.Line >= len(lines) {
		return ""
	}
	if r.Start.Line == r.End.Line {
		line := lines[r.Start.Line]
		start, end := clampCol(r.Start.Character, len(line)), clampCol(r.End.Character, len(line))
		if start > end {
			start, end = end, start
		}
		return line[start:end]
	}

	var b strings.Builder
	first := lines[r.Start.Line]
	start := clampCol(r.Start.Character, len(first))
	b.WriteString(first[start:])
	for ln := r.Start.Line + 1; ln < r.End.Line && ln < len(lines); ln++ {
		b.WriteByte('\n')
		b.WriteString(lines[ln])
	}
	if r.End.Line < len(lines) {
		b.WriteByte('\n')
		last := lines[r.End.Line]
		end := clampCol(r.End.Character, len(last))
		b.WriteString(last[:end])
	}
	return b.String()
}

func clampCol(col, max int) int {
	if col < 0 {
		return 0
	}
	if col > max {
		return max
	}
	return col
}
