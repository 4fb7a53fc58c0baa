// Package store defines the document data model and the two-tier
// document store: openDocs keyed by URI for editor-open documents,
// workspaceDocs keyed by filesystem path for everything found by the
// initial workspace scan. The store is an explicit value threaded by the
// caller instead of process globals.
package store

import (
	"path/filepath"
	"strings"

	"github.com/clawlang/clawls/internal/ast"
	"github.com/clawlang/clawls/internal/lexer"
)

// Position is a 0-based line/character location, the LSP convention.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open [Start, End) span of Positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Contains reports whether pos lies within r, inclusive of both Start and
// End, so a cursor placed just after a range's last character still hits
// it. On a line strictly between Start.Line and End.Line every character
// is contained.
func (r Range) Contains(pos Position) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character > r.End.Character {
		return false
	}
	return true
}

// TokenRange converts a lexer.Token to a Range: a token at 1-based line
// L, column C, lexeme length n yields { start: (L-1, C-1), end: (L-1,
// C-1+n) }.
func TokenRange(t lexer.Token) Range {
	line := t.Pos.Line - 1
	col := t.Pos.Column - 1
	n := len([]rune(t.Literal))
	return Range{
		Start: Position{Line: line, Character: col},
		End:   Position{Line: line, Character: col + n},
	}
}

// StyleIssue is one line-level style diagnostic.
type StyleIssue struct {
	Range   Range
	Message string
}

// SymbolInfo describes one top-level declaration: its definition range,
// every reference range recorded against it, and (for functions) its
// parameter list.
type SymbolInfo struct {
	Name     string
	Def      Range
	Refs     []Range
	TypeName string // "number" | "string" | "bool" | "nil" | "function" | "class" | "unknown"
	Params   []string
	Arity    int
}

// Document holds one claw/volt source file's text and every field derived
// from it by analysis. Derived fields are fully replaced (never merged)
// each time analysis runs, so none of them may be read while analysis is
// in flight — uncontroversial under this server's single-threaded model.
type Document struct {
	URI          string
	Path         string
	Text         string
	IndentWidth  int
	Tokens       []lexer.Token
	Statements   []ast.Stmt
	ParserErrors []string
	Symbols      map[string]*SymbolInfo
	Locals       map[string]*SymbolInfo
	UnknownRefs  []Range
	StyleIssues  []StyleIssue
	RefByName    map[string][]Range
}

// NewDocument constructs an empty Document for uri/path with indentWidth
// as its formatter default.
func NewDocument(uri, path, text string, indentWidth int) *Document {
	return &Document{
		URI:         uri,
		Path:        path,
		Text:        text,
		IndentWidth: indentWidth,
		Symbols:     map[string]*SymbolInfo{},
		Locals:      map[string]*SymbolInfo{},
		RefByName:   map[string][]Range{},
	}
}

// PathToURI converts a filesystem path to a file:// URI. It only ever
// emits forward slashes in the URI regardless of host OS, which is what
// the file:// scheme requires; it is the inverse of URIToPath below.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	p := filepath.ToSlash(path)
	p = strings.TrimPrefix(p, "/")
	return "file:///" + p
}

// URIToPath converts a file:// URI back to a native filesystem path.
// Unconditionally replacing '/' with '\' would be lossy and
// POSIX-hostile (it mangles any path containing a literal backslash and
// produces unusable paths on non-Windows hosts), so this decodes the URI
// into a slash-delimited path and only then converts separators with
// filepath.FromSlash, which is a no-op on POSIX and correct on Windows.
func URIToPath(uri string) string {
	p := uri
	switch {
	case strings.HasPrefix(p, "file:///"):
		p = p[len("file:///"):]
		if len(p) < 2 || p[1] != ':' {
			// Not a drive-letter path: restore the root slash PathToURI trimmed.
			p = "/" + p
		}
	case strings.HasPrefix(p, "file://"):
		p = p[len("file://"):]
	default:
		return uri
	}
	return filepath.FromSlash(p)
}
