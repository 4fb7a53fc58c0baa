package server

import (
	"fmt"
	"strings"

	"github.com/clawlang/clawls/internal/jsonvalue"
	"github.com/clawlang/clawls/internal/lexer"
	"github.com/clawlang/clawls/internal/store"
)

// handleHover searches the document's top-level symbols for one whose
// def contains the position; falls back to locals, then to the token
// under the cursor.
func handleHover(s *Server, params jsonvalue.Value) (jsonvalue.Value, bool) {
	uri := getString(params, "textDocument", "uri")
	pos := getPosition(params, "position")

	doc, ok := s.Store.OpenDocs[uri]
	if !ok {
		doc, ok = s.Store.WorkspaceDocs[store.URIToPath(uri)]
	}
	if !ok {
		return jsonvalue.Null(), false
	}

	for name, sym := range doc.Symbols {
		if sym.Def.Contains(pos) {
			return hoverResult(hoverText(name, sym)), false
		}
	}
	for name, sym := range doc.Locals {
		if sym.Def.Contains(pos) {
			return hoverResult(fmt.Sprintf("**%s**: local", name)), false
		}
	}

	for _, tok := range doc.Tokens {
		r := store.TokenRange(tok)
		if r.Contains(pos) {
			switch tok.Type {
			case lexer.TokenNumber:
				return hoverResult("number"), false
			case lexer.TokenString:
				return hoverResult("string"), false
			}
		}
	}
	return jsonvalue.Null(), false
}

func hoverText(name string, sym *store.SymbolInfo) string {
	if sym.TypeName == "function" {
		return fmt.Sprintf("**%s**: function\n\n`%s(%s)`", name, name, strings.Join(sym.Params, ", "))
	}
	return fmt.Sprintf("**%s**: %s", name, sym.TypeName)
}

func hoverResult(value string) jsonvalue.Value {
	contents := jsonvalue.Object().
		Set("kind", jsonvalue.String("markdown")).
		Set("value", jsonvalue.String(value)).
		Build()
	return jsonvalue.Object().Set("contents", contents).Build()
}

// resolveTarget implements the "identify the target name" logic shared
// by definition/references/rename: prefer a symbol whose reference
// Range contains the position, else the identifier token under the
// cursor.
func resolveTarget(doc *store.Document, pos store.Position) string {
	for name, sym := range doc.Symbols {
		for _, r := range sym.Refs {
			if r.Contains(pos) {
				return name
			}
		}
	}
	return identifierAt(lineAt(doc.Text, pos.Line), pos.Character)
}

// handleDefinition returns the defining location(s) of the identifier at
// the cursor, searching every open and workspace document.
func handleDefinition(s *Server, params jsonvalue.Value) (jsonvalue.Value, bool) {
	uri := getString(params, "textDocument", "uri")
	pos := getPosition(params, "position")

	doc, ok := lookupDoc(s, uri)
	if !ok {
		return jsonvalue.Array(nil), false
	}

	if sym, ok := defOnReference(doc, pos); ok {
		return jsonvalue.Array([]jsonvalue.Value{locationToJSON(uri, sym.Def)}), false
	}

	target := identifierAt(lineAt(doc.Text, pos.Line), pos.Character)
	if target == "" {
		return jsonvalue.Array(nil), false
	}

	var locs []jsonvalue.Value
	s.Store.AllDocuments(func(d *store.Document) {
		if sym, ok := d.Symbols[target]; ok {
			locs = append(locs, locationToJSON(d.URI, sym.Def))
		}
	})
	return jsonvalue.Array(locs), false
}

func defOnReference(doc *store.Document, pos store.Position) (*store.SymbolInfo, bool) {
	for _, sym := range doc.Symbols {
		for _, r := range sym.Refs {
			if r.Contains(pos) {
				return sym, true
			}
		}
	}
	return nil, false
}

// handleReferences returns a symbol's refs in the current document if
// the position lies on its def; otherwise the refs plus every
// cross-document refByName entry for the identifier under the cursor.
func handleReferences(s *Server, params jsonvalue.Value) (jsonvalue.Value, bool) {
	uri := getString(params, "textDocument", "uri")
	pos := getPosition(params, "position")

	doc, ok := lookupDoc(s, uri)
	if !ok {
		return jsonvalue.Array(nil), false
	}

	var target string
	onDef := false
	for name, sym := range doc.Symbols {
		if sym.Def.Contains(pos) {
			target = name
			onDef = true
			break
		}
	}
	if target == "" {
		target = identifierAt(lineAt(doc.Text, pos.Line), pos.Character)
	}
	if target == "" {
		return jsonvalue.Array(nil), false
	}

	var locs []jsonvalue.Value
	if sym, ok := doc.Symbols[target]; ok {
		for _, r := range sym.Refs {
			locs = append(locs, locationToJSON(uri, r))
		}
	}
	if onDef {
		return jsonvalue.Array(locs), false
	}
	s.Store.AllDocuments(func(d *store.Document) {
		for _, r := range d.RefByName[target] {
			locs = append(locs, locationToJSON(d.URI, r))
		}
	})
	return jsonvalue.Array(locs), false
}

// handleDocumentSymbol emits one SymbolInformation per top-level symbol:
// kind 12 for function, 5 for class, 13 otherwise.
func handleDocumentSymbol(s *Server, params jsonvalue.Value) (jsonvalue.Value, bool) {
	uri := getString(params, "textDocument", "uri")
	doc, ok := lookupDoc(s, uri)
	if !ok {
		return jsonvalue.Array(nil), false
	}
	var out []jsonvalue.Value
	for name, sym := range doc.Symbols {
		out = append(out, symbolInformationJSON(name, sym, uri))
	}
	return jsonvalue.Array(out), false
}

func symbolKind(typeName string) int {
	switch typeName {
	case "function":
		return 12
	case "class":
		return 5
	default:
		return 13
	}
}

func symbolInformationJSON(name string, sym *store.SymbolInfo, uri string) jsonvalue.Value {
	return jsonvalue.Object().
		Set("name", jsonvalue.String(name)).
		Set("kind", jsonvalue.Int(symbolKind(sym.TypeName))).
		Set("location", locationToJSON(uri, sym.Def)).
		Build()
}

// handleWorkspaceSymbol filters every top-level symbol across both
// stores whose name contains the query substring.
func handleWorkspaceSymbol(s *Server, params jsonvalue.Value) (jsonvalue.Value, bool) {
	query := getString(params, "query")
	var out []jsonvalue.Value
	s.Store.AllDocuments(func(d *store.Document) {
		for name, sym := range d.Symbols {
			if query == "" || strings.Contains(name, query) {
				out = append(out, symbolInformationJSON(name, sym, d.URI))
			}
		}
	})
	return jsonvalue.Array(out), false
}

// handleRename identifies the target the same way as definition, then
// produces a WorkspaceEdit with one text edit per def/ref/refByName
// range across every document in both stores.
func handleRename(s *Server, params jsonvalue.Value) (jsonvalue.Value, bool) {
	uri := getString(params, "textDocument", "uri")
	pos := getPosition(params, "position")
	newName := getString(params, "newName")

	doc, ok := lookupDoc(s, uri)
	if !ok {
		return jsonvalue.Null(), false
	}
	target := resolveTarget(doc, pos)
	if target == "" {
		return jsonvalue.Null(), false
	}

	changes := jsonvalue.Object()
	s.Store.AllDocuments(func(d *store.Document) {
		var ranges []store.Range
		if sym, ok := d.Symbols[target]; ok {
			ranges = append(ranges, sym.Def)
			ranges = append(ranges, sym.Refs...)
		}
		ranges = append(ranges, d.RefByName[target]...)
		if len(ranges) == 0 {
			return
		}
		var edits []jsonvalue.Value
		for _, r := range ranges {
			edits = append(edits, jsonvalue.Object().
				Set("range", rangeToJSON(r)).
				Set("newText", jsonvalue.String(newName)).
				Build())
		}
		changes.Set(d.URI, jsonvalue.Array(edits))
	})

	return jsonvalue.Object().Set("changes", changes.Build()).Build(), false
}

func lookupDoc(s *Server, uri string) (*store.Document, bool) {
	if d, ok := s.Store.OpenDocs[uri]; ok {
		return d, true
	}
	d, ok := s.Store.WorkspaceDocs[store.URIToPath(uri)]
	return d, ok
}
