package parser

import (
	"testing"

	"github.com/clawlang/clawls/internal/ast"
	"github.com/clawlang/clawls/internal/lexer"
)

func parse(t *testing.T, src string) ([]ast.Stmt, []string) {
	t.Helper()
	p := New(lexer.New(src).Tokenize())
	stmts := p.ParseProgram()
	return stmts, p.Errors()
}

func TestParseProgram_LetWithNumberLiteral(t *testing.T) {
	stmts, errs := parse(t, "let x = 42\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	let, ok := stmts[0].(*ast.LetStmt)
	if !ok {
		t.Fatalf("expected *ast.LetStmt, got %T", stmts[0])
	}
	if let.Name != "x" {
		t.Fatalf("expected name x, got %s", let.Name)
	}
	lit, ok := let.Initializer.(*ast.LiteralExpr)
	if !ok || lit.Kind != ast.LiteralNumber || lit.Number != 42 {
		t.Fatalf("expected number literal 42, got %#v", let.Initializer)
	}
}

func TestParseProgram_FnDeclaration(t *testing.T) {
	stmts, errs := parse(t, "fn add(a, b) { return a + b; }")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn, ok := stmts[0].(*ast.FnStmt)
	if !ok {
		t.Fatalf("expected *ast.FnStmt, got %T", stmts[0])
	}
	if fn.Name != "add" || len(fn.Parameters) != 2 {
		t.Fatalf("unexpected fn shape: %+v", fn)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body))
	}
	ret, ok := fn.Body[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected return statement, got %T", fn.Body[0])
	}
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || bin.Operator != lexer.TokenPlus {
		t.Fatalf("expected a + b binary expr, got %#v", ret.Value)
	}
}

func TestParseProgram_ClassWithMethods(t *testing.T) {
	stmts, errs := parse(t, "class Counter { init(start) { let x = start; } fn next() { return 1; } }")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	cls, ok := stmts[0].(*ast.ClassStmt)
	if !ok {
		t.Fatalf("expected *ast.ClassStmt, got %T", stmts[0])
	}
	if cls.Name != "Counter" || len(cls.Methods) != 2 {
		t.Fatalf("unexpected class shape: %+v", cls)
	}
}

func TestParseProgram_AssignmentExpression(t *testing.T) {
	stmts, errs := parse(t, "x = 1 + 2;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	es, ok := stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected *ast.ExprStmt, got %T", stmts[0])
	}
	assign, ok := es.Expression.(*ast.AssignExpr)
	if !ok || assign.Name != "x" {
		t.Fatalf("expected assignment to x, got %#v", es.Expression)
	}
}

func TestParseProgram_CallChainAndMember(t *testing.T) {
	stmts, errs := parse(t, "a.b(1, 2)[0];")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	es := stmts[0].(*ast.ExprStmt)
	idx, ok := es.Expression.(*ast.IndexExpr)
	if !ok {
		t.Fatalf("expected outer IndexExpr, got %#v", es.Expression)
	}
	call, ok := idx.Object.(*ast.CallExpr)
	if !ok || len(call.Arguments) != 2 {
		t.Fatalf("expected call with 2 args, got %#v", idx.Object)
	}
	if _, ok := call.Callee.(*ast.MemberExpr); !ok {
		t.Fatalf("expected member-expr callee, got %#v", call.Callee)
	}
}

func TestParseProgram_MalformedStatementRecordsErrorAndRecovers(t *testing.T) {
	stmts, errs := parse(t, "let = 1;\nlet y = 2;\n")
	if len(errs) == 0 {
		t.Fatalf("expected at least one error")
	}
	found := false
	for _, s := range stmts {
		if let, ok := s.(*ast.LetStmt); ok && let.Name == "y" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected parser to recover and still parse 'y', got %+v", stmts)
	}
}

func TestParseProgram_IfElseAndWhile(t *testing.T) {
	stmts, errs := parse(t, "if (x) { y = 1; } else { y = 2; }\nwhile (x) { y = y - 1; }")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	if _, ok := stmts[0].(*ast.IfStmt); !ok {
		t.Fatalf("expected IfStmt, got %T", stmts[0])
	}
	if _, ok := stmts[1].(*ast.WhileStmt); !ok {
		t.Fatalf("expected WhileStmt, got %T", stmts[1])
	}
}

func TestParseProgram_ArrayAndHashMapLiterals(t *testing.T) {
	stmts, errs := parse(t, "let a = [1, 2, 3];\nlet m = {x: 1, y: 2};")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	a := stmts[0].(*ast.LetStmt).Initializer.(*ast.ArrayExpr)
	if len(a.Elements) != 3 {
		t.Fatalf("expected 3 array elements, got %d", len(a.Elements))
	}
	m := stmts[1].(*ast.LetStmt).Initializer.(*ast.HashMapExpr)
	if len(m.Entries) != 2 {
		t.Fatalf("expected 2 hashmap entries, got %d", len(m.Entries))
	}
}

func TestParseProgram_EmptySource(t *testing.T) {
	stmts, errs := parse(t, "")
	if len(stmts) != 0 || len(errs) != 0 {
		t.Fatalf("expected no statements and no errors, got stmts=%v errs=%v", stmts, errs)
	}
}
