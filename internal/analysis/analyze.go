// Package analysis lexes, parses, extracts top-level symbols, collects
// locals, resolves references, and computes style diagnostics for a
// single document, replacing every derived field of a store.Document
// from its text.
package analysis

import (
	"strings"

	"github.com/clawlang/clawls/internal/ast"
	"github.com/clawlang/clawls/internal/lexer"
	"github.com/clawlang/clawls/internal/parser"
	"github.com/clawlang/clawls/internal/store"
)

// Analyze replaces doc's tokens, statements, parserErrors, symbols,
// locals, unknownRefs, styleIssues, and refByName in place. globals is
// the interpreter's global name set (interpreter.Globals()), consulted
// while resolving references. Every derived slice/map is rebuilt from
// scratch, including refByName, so re-analyzing unchanged text twice
// always yields identical derived fields.
func Analyze(doc *store.Document, globals map[string]int) {
	l := lexer.New(doc.Text)
	doc.Tokens = l.Tokenize()

	p := parser.New(doc.Tokens)
	doc.Statements = p.ParseProgram()
	doc.ParserErrors = append([]string{}, p.Errors()...)

	doc.Symbols = map[string]*store.SymbolInfo{}
	doc.Locals = map[string]*store.SymbolInfo{}
	doc.UnknownRefs = nil
	doc.StyleIssues = nil
	doc.RefByName = map[string][]store.Range{}

	extractTopLevelSymbols(doc)
	collectLocals(doc)
	resolveReferences(doc, globals)
	styleDiagnostics(doc)
}

// extractTopLevelSymbols walks the top-level statement list exactly
// once (no recursion), recording one SymbolInfo per let/fn/class
// declaration.
func extractTopLevelSymbols(doc *store.Document) {
	for _, s := range doc.Statements {
		switch n := s.(type) {
		case *ast.LetStmt:
			si := &store.SymbolInfo{
				Name:     n.Name,
				Def:      store.TokenRange(n.NameToken),
				TypeName: "unknown",
			}
			if n.Initializer != nil {
				switch init := n.Initializer.(type) {
				case *ast.LiteralExpr:
					si.TypeName = literalTypeName(init.Kind)
				case *ast.FunctionExpr:
					si.TypeName = "function"
					si.Params = append([]string{}, init.Parameters...)
					si.Arity = len(init.Parameters)
				}
			}
			doc.Symbols[si.Name] = si
		case *ast.FnStmt:
			doc.Symbols[n.Name] = &store.SymbolInfo{
				Name:     n.Name,
				Def:      store.TokenRange(n.Token),
				TypeName: "function",
				Params:   append([]string{}, n.Parameters...),
				Arity:    len(n.Parameters),
			}
		case *ast.ClassStmt:
			doc.Symbols[n.Name] = &store.SymbolInfo{
				Name:     n.Name,
				Def:      store.TokenRange(n.Token),
				TypeName: "class",
			}
		}
	}
}

func literalTypeName(k ast.LiteralKind) string {
	switch k {
	case ast.LiteralNumber:
		return "number"
	case ast.LiteralString:
		return "string"
	case ast.LiteralBool:
		return "bool"
	default:
		return "nil"
	}
}

// collectLocals builds a flat, scope-insensitive index of every nested
// let binding and function parameter, recursing into blocks, class
// method bodies, control-flow statement bodies, and expression
// sub-trees.
func collectLocals(doc *store.Document) {
	var walkStmt func(s ast.Stmt)
	var walkExpr func(e ast.Expr)

	walkStmt = func(s ast.Stmt) {
		switch n := s.(type) {
		case *ast.LetStmt:
			doc.Locals[n.Name] = &store.SymbolInfo{Name: n.Name, Def: store.TokenRange(n.NameToken)}
			if n.Initializer != nil {
				walkExpr(n.Initializer)
			}
		case *ast.BlockStmt:
			for _, st := range n.Statements {
				walkStmt(st)
			}
		case *ast.FnStmt:
			for _, prm := range n.Parameters {
				doc.Locals[prm] = &store.SymbolInfo{Name: prm}
			}
			for _, st := range n.Body {
				walkStmt(st)
			}
		case *ast.ClassStmt:
			for _, m := range n.Methods {
				walkStmt(m)
			}
		case *ast.ExprStmt:
			if n.Expression != nil {
				walkExpr(n.Expression)
			}
		case *ast.PrintStmt:
			if n.Expression != nil {
				walkExpr(n.Expression)
			}
		case *ast.ReturnStmt:
			if n.Value != nil {
				walkExpr(n.Value)
			}
		case *ast.IfStmt:
			walkExpr(n.Condition)
			walkStmt(n.Then)
			if n.Else != nil {
				walkStmt(n.Else)
			}
		case *ast.WhileStmt:
			walkExpr(n.Condition)
			walkStmt(n.Body)
		case *ast.ForStmt:
			if n.Init != nil {
				walkStmt(n.Init)
			}
			if n.Condition != nil {
				walkExpr(n.Condition)
			}
			if n.Increment != nil {
				walkExpr(n.Increment)
			}
			walkStmt(n.Body)
		}
	}

	// A FunctionExpr value nested inside another scope is not descended
	// into here; its parameters and body locals are never attributed to
	// the enclosing scope.
	walkExpr = func(e ast.Expr) {
		switch n := e.(type) {
		case *ast.GroupingExpr:
			walkExpr(n.Inner)
		case *ast.ArrayExpr:
			for _, el := range n.Elements {
				walkExpr(el)
			}
		case *ast.HashMapExpr:
			for _, kv := range n.Entries {
				walkExpr(kv.Key)
				walkExpr(kv.Value)
			}
		case *ast.BinaryExpr:
			walkExpr(n.Left)
			walkExpr(n.Right)
		case *ast.LogicalExpr:
			walkExpr(n.Left)
			walkExpr(n.Right)
		case *ast.IndexExpr:
			walkExpr(n.Object)
			walkExpr(n.Index)
		case *ast.MemberExpr:
			walkExpr(n.Object)
		case *ast.CallExpr:
			walkExpr(n.Callee)
			for _, a := range n.Arguments {
				walkExpr(a)
			}
		case *ast.TernaryExpr:
			walkExpr(n.Condition)
			walkExpr(n.Then)
			walkExpr(n.Else)
		}
	}

	for _, s := range doc.Statements {
		// A top-level let is a symbol, not a local: only its initializer is walked.
		if let, ok := s.(*ast.LetStmt); ok {
			if let.Initializer != nil {
				walkExpr(let.Initializer)
			}
			continue
		}
		walkStmt(s)
	}
}

// resolveReferences walks every statement and expression, classifying
// each identifier reference as a known top-level symbol, a local
// (skipped), a known global, or unknown. It does not descend into array
// or hashmap literal elements, so identifiers nested inside one are
// never flagged as unknown references.
func resolveReferences(doc *store.Document, globals map[string]int) {
	var walkStmt func(s ast.Stmt)
	var walkExpr func(e ast.Expr)

	recordRef := func(name string, r store.Range) {
		if sym, ok := doc.Symbols[name]; ok {
			sym.Refs = append(sym.Refs, r)
			doc.RefByName[name] = append(doc.RefByName[name], r)
			return
		}
		if _, ok := doc.Locals[name]; ok {
			return
		}
		if _, ok := globals[name]; ok {
			doc.RefByName[name] = append(doc.RefByName[name], r)
			return
		}
		doc.UnknownRefs = append(doc.UnknownRefs, r)
		doc.RefByName[name] = append(doc.RefByName[name], r)
	}

	walkExpr = func(e ast.Expr) {
		switch n := e.(type) {
		case *ast.VariableExpr:
			recordRef(n.Name, store.TokenRange(n.Token))
		case *ast.AssignExpr:
			walkExpr(n.Value)
			r := store.TokenRange(n.Token)
			if sym, ok := doc.Symbols[n.Name]; ok {
				sym.Refs = append(sym.Refs, r)
			}
			doc.RefByName[n.Name] = append(doc.RefByName[n.Name], r)
		case *ast.BinaryExpr:
			walkExpr(n.Left)
			walkExpr(n.Right)
		case *ast.CallExpr:
			walkExpr(n.Callee)
			for _, a := range n.Arguments {
				walkExpr(a)
			}
			if calleeVar, ok := n.Callee.(*ast.VariableExpr); ok {
				r := store.TokenRange(calleeVar.Token)
				doc.RefByName[calleeVar.Name] = append(doc.RefByName[calleeVar.Name], r)
			}
		case *ast.GroupingExpr:
			walkExpr(n.Inner)
		case *ast.LogicalExpr:
			walkExpr(n.Left)
			walkExpr(n.Right)
		case *ast.IndexExpr:
			walkExpr(n.Object)
			walkExpr(n.Index)
		case *ast.MemberExpr:
			walkExpr(n.Object)
		case *ast.TernaryExpr:
			walkExpr(n.Condition)
			walkExpr(n.Then)
			walkExpr(n.Else)
		}
	}

	walkStmt = func(s ast.Stmt) {
		switch n := s.(type) {
		case *ast.ExprStmt:
			walkExpr(n.Expression)
		case *ast.PrintStmt:
			walkExpr(n.Expression)
		case *ast.LetStmt:
			if n.Initializer != nil {
				walkExpr(n.Initializer)
			}
		case *ast.ReturnStmt:
			if n.Value != nil {
				walkExpr(n.Value)
			}
		case *ast.IfStmt:
			walkExpr(n.Condition)
			walkStmt(n.Then)
			if n.Else != nil {
				walkStmt(n.Else)
			}
		case *ast.WhileStmt:
			walkExpr(n.Condition)
			walkStmt(n.Body)
		case *ast.ForStmt:
			if n.Init != nil {
				walkStmt(n.Init)
			}
			if n.Condition != nil {
				walkExpr(n.Condition)
			}
			if n.Increment != nil {
				walkExpr(n.Increment)
			}
			walkStmt(n.Body)
		case *ast.BlockStmt:
			for _, st := range n.Statements {
				walkStmt(st)
			}
		case *ast.ClassStmt:
			for _, m := range n.Methods {
				walkStmt(m)
			}
		case *ast.FnStmt:
			for _, st := range n.Body {
				walkStmt(st)
			}
		}
	}

	for _, s := range doc.Statements {
		walkStmt(s)
	}
}

// styleDiagnostics scans doc.Text line by line for tabs, trailing
// whitespace, and lines over 120 characters.
func styleDiagnostics(doc *store.Document) {
	lines := strings.Split(doc.Text, "\n")
	for lineNo, line := range lines {
		for col := 0; col < len(line); col++ {
			if line[col] == '\t' {
				doc.StyleIssues = append(doc.StyleIssues, store.StyleIssue{
					Range: store.Range{
						Start: store.Position{Line: lineNo, Character: col},
						End:   store.Position{Line: lineNo, Character: col + 1},
					},
					Message: "Style: tab character should be replaced with spaces",
				})
			}
		}

		lastNonWS := -1
		for i := len(line) - 1; i >= 0; i-- {
			if line[i] != ' ' && line[i] != '\t' {
				lastNonWS = i
				break
			}
		}
		if len(line) > 0 && lastNonWS+1 < len(line) {
			doc.StyleIssues = append(doc.StyleIssues, store.StyleIssue{
				Range: store.Range{
					Start: store.Position{Line: lineNo, Character: lastNonWS + 1},
					End:   store.Position{Line: lineNo, Character: len(line)},
				},
				Message: "Style: trailing whitespace",
			})
		}

		if len(line) > 120 {
			doc.StyleIssues = append(doc.StyleIssues, store.StyleIssue{
				Range: store.Range{
					Start: store.Position{Line: lineNo, Character: 0},
					End:   store.Position{Line: lineNo, Character: len(line)},
				},
				Message: "Style: line exceeds 120 characters",
			})
		}
	}
}
