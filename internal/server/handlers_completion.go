package server

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clawlang/clawls/internal/jsonvalue"
	"github.com/clawlang/clawls/internal/lexer"
	"github.com/clawlang/clawls/internal/store"
)

var arrayMethods = []string{"push", "pop", "reverse", "map", "filter", "reduce", "join", "concat", "slice", "flat", "flatMap", "length"}
var mapMethods = []string{"keys", "values", "has", "remove", "size"}

func completionItem(label string, kind int, detail, insertText string, snippet bool) jsonvalue.Value {
	b := jsonvalue.Object().
		Set("label", jsonvalue.String(label)).
		Set("kind", jsonvalue.Int(kind))
	if detail != "" {
		b.Set("detail", jsonvalue.String(detail))
	}
	if snippet {
		b.Set("insertText", jsonvalue.String(insertText)).
			Set("insertTextFormat", jsonvalue.Int(2))
	}
	return b.Build()
}

func functionSnippet(name string, arity int) string {
	var parts []string
	for i := 1; i <= arity; i++ {
		parts = append(parts, fmt.Sprintf("${%d:p%d}", i, i))
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}

// handleCompletion always emits keywords, built-in/global functions,
// document symbols, and document locals; it additionally prepends
// array/map method names when the cursor follows a dot-chained
// identifier suffix.
func handleCompletion(s *Server, params jsonvalue.Value) (jsonvalue.Value, bool) {
	uri := getString(params, "textDocument", "uri")
	pos := getPosition(params, "position")
	doc, ok := lookupDoc(s, uri)

	var items []jsonvalue.Value

	if ok && precededByDotChain(lineAt(doc.Text, pos.Line), pos.Character) {
		for _, m := range arrayMethods {
			items = append(items, completionItem(m, 2, "", "", false))
		}
		for _, m := range mapMethods {
			items = append(items, completionItem(m, 2, "", "", false))
		}
	}

	for _, kw := range lexer.KeywordList() {
		items = append(items, completionItem(kw, 14, "", "", false))
	}

	if ok {
		names := make([]string, 0, len(doc.Symbols))
		for name := range doc.Symbols {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sym := doc.Symbols[name]
			if sym.TypeName == "function" {
				detail := fmt.Sprintf("%s(%s)", name, strings.Join(sym.Params, ", "))
				items = append(items, completionItem(name, 3, detail, functionSnippet(name, sym.Arity), true))
			} else {
				items = append(items, completionItem(name, 6, sym.TypeName, "", false))
			}
		}

		localNames := make([]string, 0, len(doc.Locals))
		for name := range doc.Locals {
			localNames = append(localNames, name)
		}
		sort.Strings(localNames)
		for _, name := range localNames {
			items = append(items, completionItem(name, 6, "", "", false))
		}
	}

	globalNames := make([]string, 0, len(s.Globals))
	for name := range s.Globals {
		globalNames = append(globalNames, name)
	}
	sort.Strings(globalNames)
	for _, name := range globalNames {
		arity := s.Globals[name]
		if arity >= 0 {
			items = append(items, completionItem(name, 3, "", functionSnippet(name, arity), true))
		} else {
			items = append(items, completionItem(name, 6, "", "", false))
		}
	}

	return jsonvalue.Array(items), false
}

// precededByDotChain reports whether stepping backward from column over
// [A-Za-z0-9_] characters encounters a '.'.
func precededByDotChain(line string, column int) bool {
	i := column
	if i > len(line) {
		i = len(line)
	}
	for i > 0 && isIdentByte(line[i-1]) {
		i--
	}
	return i > 0 && line[i-1] == '.'
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// handleSignatureHelp inspects the cursor's line to find the callee and
// count commas since the opening paren, resolving against document
// symbols first and then interpreter globals.
func handleSignatureHelp(s *Server, params jsonvalue.Value) (jsonvalue.Value, bool) {
	uri := getString(params, "textDocument", "uri")
	pos := getPosition(params, "position")
	doc, ok := lookupDoc(s, uri)
	if !ok {
		return jsonvalue.Null(), false
	}

	parenCol := -1
	calleeName := ""
	for _, tok := range doc.Tokens {
		if tok.Pos.Line-1 != pos.Line {
			continue
		}
		col := tok.Pos.Column - 1
		if col > pos.Character {
			break
		}
		if tok.Type == lexer.TokenLParen {
			parenCol = col
		}
		if tok.Type == lexer.TokenIdentifier && col+len([]rune(tok.Literal)) <= pos.Character {
			calleeName = tok.Literal
		}
	}
	if parenCol < 0 || calleeName == "" {
		return jsonvalue.Null(), false
	}

	commaCount := 0
	for _, tok := range doc.Tokens {
		if tok.Pos.Line-1 != pos.Line {
			continue
		}
		col := tok.Pos.Column - 1
		if col <= parenCol || col > pos.Character {
			continue
		}
		if tok.Type == lexer.TokenComma {
			commaCount++
		}
	}

	var params_ []string
	if sym, ok := doc.Symbols[calleeName]; ok && sym.TypeName == "function" {
		params_ = sym.Params
	} else if arity, ok := s.Globals[calleeName]; ok && arity >= 0 {
		for i := 1; i <= arity; i++ {
			params_ = append(params_, fmt.Sprintf("arg%d", i))
		}
	} else {
		return jsonvalue.Null(), false
	}

	activeParam := commaCount
	maxIdx := len(params_) - 1
	if maxIdx < 0 {
		maxIdx = 0
	}
	if activeParam > maxIdx {
		activeParam = maxIdx
	}
	if activeParam < 0 {
		activeParam = 0
	}

	label := fmt.Sprintf("%s(%s)", calleeName, strings.Join(params_, ", "))
	var paramInfos []jsonvalue.Value
	for _, p := range params_ {
		paramInfos = append(paramInfos, jsonvalue.Object().Set("label", jsonvalue.String(p)).Build())
	}

	sig := jsonvalue.Object().
		Set("label", jsonvalue.String(label)).
		Set("parameters", jsonvalue.Array(paramInfos)).
		Build()

	return jsonvalue.Object().
		Set("signatures", jsonvalue.Array([]jsonvalue.Value{sig})).
		Set("activeSignature", jsonvalue.Int(0)).
		Set("activeParameter", jsonvalue.Int(activeParam)).
		Build(), false
}

// handleCodeAction emits a "quickfix" for each style issue overlapping
// the requested range.
func handleCodeAction(s *Server, params jsonvalue.Value) (jsonvalue.Value, bool) {
	uri := getString(params, "textDocument", "uri")
	r := getRange(params, "range")
	doc, ok := lookupDoc(s, uri)
	if !ok {
		return jsonvalue.Array(nil), false
	}

	var actions []jsonvalue.Value
	for _, issue := range doc.StyleIssues {
		if !lineIntersects(issue.Range, r) {
			continue
		}
		edit := jsonvalue.Object().
			Set("range", rangeToJSON(issue.Range)).
			Set("newText", jsonvalue.String("")).
			Build()
		changes := jsonvalue.Object().Set(uri, jsonvalue.Array([]jsonvalue.Value{edit})).Build()
		actions = append(actions, jsonvalue.Object().
			Set("title", jsonvalue.String(issue.Message)).
			Set("kind", jsonvalue.String("quickfix")).
			Set("edit", jsonvalue.Object().Set("changes", changes).Build()).
			Build())
	}
	return jsonvalue.Array(actions), false
}

func lineIntersects(a, b store.Range) bool {
	return a.Start.Line <= b.End.Line && b.Start.Line <= a.End.Line
}
