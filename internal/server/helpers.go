package server

import (
	"os"
	"strings"

	"github.com/clawlang/clawls/internal/jsonvalue"
	"github.com/clawlang/clawls/internal/store"
)

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// getString extracts a string at path, defaulting to "" on any miss or
// type mismatch.
func getString(v jsonvalue.Value, path ...string) string {
	found, ok := jsonvalue.GetPath(v, path...)
	if !ok || found.Kind() != jsonvalue.KindString {
		return ""
	}
	return found.AsString()
}

func getInt(v jsonvalue.Value, path ...string) int {
	found, ok := jsonvalue.GetPath(v, path...)
	if !ok || found.Kind() != jsonvalue.KindNumber {
		return 0
	}
	return found.AsInt()
}

// getPosition reads a {line, character} object at path, defaulting to
// the zero position.
func getPosition(v jsonvalue.Value, path ...string) store.Position {
	found, ok := jsonvalue.GetPath(v, path...)
	if !ok {
		return store.Position{}
	}
	return positionFromJSON(found)
}

func positionFromJSON(v jsonvalue.Value) store.Position {
	line, _ := v.Get("line")
	ch, _ := v.Get("character")
	return store.Position{Line: line.AsInt(), Character: ch.AsInt()}
}

func positionToJSON(p store.Position) jsonvalue.Value {
	return jsonvalue.Object().
		Set("line", jsonvalue.Int(p.Line)).
		Set("character", jsonvalue.Int(p.Character)).
		Build()
}

func rangeToJSON(r store.Range) jsonvalue.Value {
	return jsonvalue.Object().
		Set("start", positionToJSON(r.Start)).
		Set("end", positionToJSON(r.End)).
		Build()
}

func getRange(v jsonvalue.Value, path ...string) store.Range {
	found, ok := jsonvalue.GetPath(v, path...)
	if !ok {
		return store.Range{}
	}
	start, _ := found.Get("start")
	end, _ := found.Get("end")
	return store.Range{Start: positionFromJSON(start), End: positionFromJSON(end)}
}

func locationToJSON(uri string, r store.Range) jsonvalue.Value {
	return jsonvalue.Object().
		Set("uri", jsonvalue.String(uri)).
		Set("range", rangeToJSON(r)).
		Build()
}

// identifierAt returns the identifier-shaped word surrounding column on
// line (0-based character offsets, half-open), or "" if the column does
// not lie within such a word. Used by definition/references/rename
// to find "the identifier under the cursor" when the
// position does not land exactly on a recorded symbol Range.
func identifierAt(line string, column int) string {
	isIdentChar := func(b byte) bool {
		return b == '_' ||
			(b >= 'a' && b <= 'z') ||
			(b >= 'A' && b <= 'Z') ||
			(b >= '0' && b <= '9')
	}
	if column < 0 || column > len(line) {
		return ""
	}
	start, end := column, column
	for start > 0 && isIdentChar(line[start-1]) {
		start--
	}
	for end < len(line) && isIdentChar(line[end]) {
		end++
	}
	if start == end {
		return ""
	}
	return line[start:end]
}

func lineAt(text string, lineNo int) string {
	lines := strings.Split(text, "\n")
	if lineNo < 0 || lineNo >= len(lines) {
		return ""
	}
	return lines[lineNo]
}
