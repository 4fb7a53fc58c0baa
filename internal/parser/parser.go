// Package parser implements a recursive-descent parser producing the
// tagged statement/expression sum defined in internal/ast. The analyzer
// only needs a statement list plus a collected error list, so this
// parser keeps a small shape: a cursor over a token slice, a
// synchronize-on-error recovery step, and errors collected rather than
// thrown, driven over claw/volt's grammar.
package parser

import (
	"fmt"

	"github.com/clawlang/clawls/internal/ast"
	"github.com/clawlang/clawls/internal/lexer"
)

// Parser turns a token slice into a statement list, recovering from
// malformed input one statement at a time so a single syntax error in a
// large file does not prevent analysis of the rest of it.
type Parser struct {
	tokens []lexer.Token
	pos    int
	errs   []string
}

// New creates a Parser over tokens (normally the output of lexer.Tokenize).
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseProgram parses every statement until Eof, returning the statement
// list and, into the Parser's own error slice, one message per recovered
// syntax error. Call Errors after ParseProgram to retrieve them.
func (p *Parser) ParseProgram() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(lexer.TokenEOF) {
		s, err := p.statement()
		if err != nil {
			p.errs = append(p.errs, err.Error())
			p.synchronize()
			continue
		}
		if s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// Errors returns every syntax error collected during the last ParseProgram
// call, verbatim.
func (p *Parser) Errors() []string { return p.errs }

// --- token cursor helpers ---

func (p *Parser) cur() lexer.Token { return p.tokens[p.pos] }

func (p *Parser) check(tt lexer.TokenType) bool { return p.cur().Type == tt }

func (p *Parser) advance() lexer.Token {
	t := p.tokens[p.pos]
	if t.Type != lexer.TokenEOF {
		p.pos++
	}
	return t
}

func (p *Parser) match(tt lexer.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(tt lexer.TokenType, what string) (lexer.Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	t := p.cur()
	return t, fmt.Errorf("%d:%d: expected %s, found %q", t.Pos.Line, t.Pos.Column, what, t.Literal)
}

// synchronize discards tokens until a likely statement boundary, so one
// malformed statement doesn't cascade into spurious downstream errors.
func (p *Parser) synchronize() {
	for !p.check(lexer.TokenEOF) {
		if p.cur().Type == lexer.TokenSemicolon {
			p.advance()
			return
		}
		switch p.cur().Type {
		case lexer.TokenLet, lexer.TokenFn, lexer.TokenClass, lexer.TokenIf,
			lexer.TokenWhile, lexer.TokenFor, lexer.TokenReturn, lexer.TokenRBrace:
			return
		}
		p.advance()
	}
}

// --- statements ---

func (p *Parser) statement() (ast.Stmt, error) {
	switch p.cur().Type {
	case lexer.TokenLet:
		return p.letStmt()
	case lexer.TokenFn:
		return p.fnStmt()
	case lexer.TokenClass:
		return p.classStmt()
	case lexer.TokenLBrace:
		return p.blockStmt()
	case lexer.TokenReturn:
		return p.returnStmt()
	case lexer.TokenIf:
		return p.ifStmt()
	case lexer.TokenWhile:
		return p.whileStmt()
	case lexer.TokenFor:
		return p.forStmt()
	case lexer.TokenRun:
		return p.runUntilStmt()
	case lexer.TokenTry:
		return p.tryStmt()
	case lexer.TokenThrow:
		return p.throwStmt()
	case lexer.TokenBreak, lexer.TokenContinue:
		return p.loopControlStmt()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) letStmt() (ast.Stmt, error) {
	letTok := p.advance() // 'let'
	nameTok, err := p.expect(lexer.TokenIdentifier, "identifier after 'let'")
	if err != nil {
		return nil, err
	}
	var init ast.Expr
	if p.match(lexer.TokenAssign) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	p.match(lexer.TokenSemicolon)
	return &ast.LetStmt{Token: letTok, NameToken: nameTok, Name: nameTok.Literal, Initializer: init}, nil
}

func (p *Parser) parameterList() ([]string, error) {
	if _, err := p.expect(lexer.TokenLParen, "'(' in parameter list"); err != nil {
		return nil, err
	}
	var params []string
	if !p.check(lexer.TokenRParen) {
		for {
			t, err := p.expect(lexer.TokenIdentifier, "parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, t.Literal)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	if _, err := p.expect(lexer.TokenRParen, "')' after parameters"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) bodyBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(lexer.TokenLBrace, "'{' before body"); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for !p.check(lexer.TokenRBrace) && !p.check(lexer.TokenEOF) {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		if s != nil {
			stmts = append(stmts, s)
		}
	}
	if _, err := p.expect(lexer.TokenRBrace, "'}' after body"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) fnStmt() (ast.Stmt, error) {
	p.advance() // 'fn'
	nameTok, err := p.expect(lexer.TokenIdentifier, "function name")
	if err != nil {
		return nil, err
	}
	params, err := p.parameterList()
	if err != nil {
		return nil, err
	}
	body, err := p.bodyBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FnStmt{Token: nameTok, Name: nameTok.Literal, Parameters: params, Body: body}, nil
}

func (p *Parser) classStmt() (ast.Stmt, error) {
	p.advance() // 'class'
	nameTok, err := p.expect(lexer.TokenIdentifier, "class name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace, "'{' after class name"); err != nil {
		return nil, err
	}
	var methods []*ast.FnStmt
	for !p.check(lexer.TokenRBrace) && !p.check(lexer.TokenEOF) {
		if p.check(lexer.TokenInit) || p.check(lexer.TokenFn) {
			methodNameTok := p.advance() // 'init' or 'fn'
			var fnNameTok lexer.Token
			if methodNameTok.Type == lexer.TokenFn {
				fnNameTok, err = p.expect(lexer.TokenIdentifier, "method name")
				if err != nil {
					return nil, err
				}
			} else {
				fnNameTok = methodNameTok
			}
			params, err := p.parameterList()
			if err != nil {
				return nil, err
			}
			body, err := p.bodyBlock()
			if err != nil {
				return nil, err
			}
			methods = append(methods, &ast.FnStmt{Token: fnNameTok, Name: fnNameTok.Literal, Parameters: params, Body: body})
			continue
		}
		return nil, fmt.Errorf("%d:%d: expected method declaration in class body", p.cur().Pos.Line, p.cur().Pos.Column)
	}
	if _, err := p.expect(lexer.TokenRBrace, "'}' after class body"); err != nil {
		return nil, err
	}
	return &ast.ClassStmt{Token: nameTok, Name: nameTok.Literal, Methods: methods}, nil
}

func (p *Parser) blockStmt() (ast.Stmt, error) {
	stmts, err := p.bodyBlock()
	if err != nil {
		return nil, err
	}
	return &ast.BlockStmt{Statements: stmts}, nil
}

func (p *Parser) returnStmt() (ast.Stmt, error) {
	p.advance() // 'return'
	var val ast.Expr
	if !p.check(lexer.TokenSemicolon) && !p.check(lexer.TokenRBrace) && !p.check(lexer.TokenEOF) {
		var err error
		val, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	p.match(lexer.TokenSemicolon)
	return &ast.ReturnStmt{Value: val}, nil
}

func (p *Parser) parenExpr() (ast.Expr, error) {
	if _, err := p.expect(lexer.TokenLParen, "'('"); err != nil {
		return nil, err
	}
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRParen, "')'"); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *Parser) ifStmt() (ast.Stmt, error) {
	p.advance() // 'if'
	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Stmt
	if p.match(lexer.TokenElse) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Condition: cond, Then: then, Else: elseBranch}, nil
}

func (p *Parser) whileStmt() (ast.Stmt, error) {
	p.advance() // 'while'
	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Condition: cond, Body: body}, nil
}

// runUntilStmt parses `run body until (cond);`, a post-condition loop.
// ast.Stmt has no dedicated do-while variant, so this is represented as
// a WhileStmt — an approximation of "test after the first iteration" by
// "test before every iteration" that only affects interpretation, never
// the analyzer or formatter this repository implements.
func (p *Parser) runUntilStmt() (ast.Stmt, error) {
	p.advance() // 'run'
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenUntil, "'until' after run body"); err != nil {
		return nil, err
	}
	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}
	p.match(lexer.TokenSemicolon)
	return &ast.WhileStmt{Condition: cond, Body: body}, nil
}

func (p *Parser) forStmt() (ast.Stmt, error) {
	p.advance() // 'for'
	if _, err := p.expect(lexer.TokenLParen, "'(' after for"); err != nil {
		return nil, err
	}
	var initStmt ast.Stmt
	if !p.check(lexer.TokenSemicolon) {
		var err error
		if p.check(lexer.TokenLet) {
			initStmt, err = p.letStmt()
		} else {
			initStmt, err = p.exprStmt()
		}
		if err != nil {
			return nil, err
		}
	} else {
		p.advance()
	}
	var cond ast.Expr
	if !p.check(lexer.TokenSemicolon) {
		var err error
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.TokenSemicolon, "';' after for condition"); err != nil {
		return nil, err
	}
	var incr ast.Expr
	if !p.check(lexer.TokenRParen) {
		var err error
		incr, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.TokenRParen, "')' after for clauses"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{Init: initStmt, Condition: cond, Increment: incr, Body: body}, nil
}

// tryStmt parses `try { body } catch (name) { handler }`. There is no
// dedicated Try/Catch Stmt variant in the closed Stmt sum. Both blocks
// are flattened into one BlockStmt so locals and references declared in
// either are still collected by analysis; the catch parameter is
// recorded as a local via a synthetic LetStmt with no initializer.
func (p *Parser) tryStmt() (ast.Stmt, error) {
	p.advance() // 'try'
	tryBody, err := p.bodyBlock()
	if err != nil {
		return nil, err
	}
	stmts := append([]ast.Stmt{}, tryBody...)
	if p.match(lexer.TokenCatch) {
		if p.match(lexer.TokenLParen) {
			if p.check(lexer.TokenIdentifier) {
				nameTok := p.advance()
				stmts = append(stmts, &ast.LetStmt{Token: nameTok, NameToken: nameTok, Name: nameTok.Literal})
			}
			if _, err := p.expect(lexer.TokenRParen, "')' after catch parameter"); err != nil {
				return nil, err
			}
		}
		catchBody, err := p.bodyBlock()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, catchBody...)
	}
	return &ast.BlockStmt{Statements: stmts}, nil
}

func (p *Parser) throwStmt() (ast.Stmt, error) {
	p.advance() // 'throw'
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.match(lexer.TokenSemicolon)
	return &ast.ExprStmt{Expression: e}, nil
}

// loopControlStmt parses a bare `break;` / `continue;`. Like try/catch,
// the Stmt sum has no dedicated variant for these, so they parse to an
// empty ExprStmt wrapping a nil literal — a statement the analyzer walks
// (and finds nothing in) without error.
func (p *Parser) loopControlStmt() (ast.Stmt, error) {
	p.advance() // 'break' or 'continue'
	p.match(lexer.TokenSemicolon)
	return &ast.ExprStmt{Expression: &ast.LiteralExpr{Kind: ast.LiteralNil}}, nil
}

func (p *Parser) exprStmt() (ast.Stmt, error) {
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.match(lexer.TokenSemicolon)
	return &ast.ExprStmt{Expression: e}, nil
}

// --- expressions, lowest to highest precedence ---

func (p *Parser) expression() (ast.Expr, error) { return p.assignment() }

func (p *Parser) assignment() (ast.Expr, error) {
	left, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.TokenAssign) {
		eqTok := p.advance()
		v, ok := left.(*ast.VariableExpr)
		if !ok {
			return nil, fmt.Errorf("%d:%d: invalid assignment target", eqTok.Pos.Line, eqTok.Pos.Column)
		}
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Token: v.Token, Name: v.Name, Value: value}, nil
	}
	return left, nil
}

func (p *Parser) ternary() (ast.Expr, error) {
	cond, err := p.logicalOr()
	if err != nil {
		return nil, err
	}
	// Punctuation set has no '?' token — ternaries are not lexable in this
	// grammar's token set, so this is a structural placeholder kept for
	// the closed Expr sum's sake and is never produced by this parser.
	return cond, nil
}

func (p *Parser) logicalOr() (ast.Expr, error) {
	left, err := p.logicalAnd()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokenOrOr) {
		op := p.advance().Type
		right, err := p.logicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpr{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *Parser) logicalAnd() (ast.Expr, error) {
	left, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokenAndAnd) {
		op := p.advance().Type
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpr{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *Parser) equality() (ast.Expr, error) {
	left, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokenEq) || p.check(lexer.TokenNotEq) {
		op := p.advance().Type
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *Parser) comparison() (ast.Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokenLt) || p.check(lexer.TokenLe) || p.check(lexer.TokenGt) || p.check(lexer.TokenGe) {
		op := p.advance().Type
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *Parser) term() (ast.Expr, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokenPlus) || p.check(lexer.TokenMinus) {
		op := p.advance().Type
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *Parser) factor() (ast.Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokenStar) || p.check(lexer.TokenSlash) || p.check(lexer.TokenPercent) {
		op := p.advance().Type
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.check(lexer.TokenMinus) {
		op := p.advance().Type
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Operator: op, Operand: operand}, nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expr, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(lexer.TokenLParen):
			p.advance()
			var args []ast.Expr
			if !p.check(lexer.TokenRParen) {
				for {
					arg, err := p.expression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !p.match(lexer.TokenComma) {
						break
					}
				}
			}
			if _, err := p.expect(lexer.TokenRParen, "')' after arguments"); err != nil {
				return nil, err
			}
			e = &ast.CallExpr{Callee: e, Arguments: args}
		case p.check(lexer.TokenDot):
			p.advance()
			nameTok, err := p.expect(lexer.TokenIdentifier, "member name after '.'")
			if err != nil {
				return nil, err
			}
			e = &ast.MemberExpr{Object: e, Name: nameTok.Literal}
		case p.check(lexer.TokenLBracket):
			p.advance()
			idx, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokenRBracket, "']' after index"); err != nil {
				return nil, err
			}
			e = &ast.IndexExpr{Object: e, Index: idx}
		default:
			return e, nil
		}
	}
}

func (p *Parser) primary() (ast.Expr, error) {
	t := p.cur()
	switch t.Type {
	case lexer.TokenNumber:
		p.advance()
		var f float64
		fmt.Sscanf(t.Literal, "%g", &f)
		return &ast.LiteralExpr{Kind: ast.LiteralNumber, Number: f}, nil
	case lexer.TokenString:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LiteralString, String: unquote(t.Literal)}, nil
	case lexer.TokenBool:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LiteralBool, Bool: t.Literal == "true"}, nil
	case lexer.TokenNil:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LiteralNil}, nil
	case lexer.TokenIdentifier:
		p.advance()
		return &ast.VariableExpr{Token: t, Name: t.Literal}, nil
	case lexer.TokenLParen:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRParen, "')' after expression"); err != nil {
			return nil, err
		}
		return &ast.GroupingExpr{Inner: inner}, nil
	case lexer.TokenLBracket:
		return p.arrayExpr()
	case lexer.TokenLBrace:
		return p.hashMapExpr()
	case lexer.TokenFn:
		return p.functionExpr()
	default:
		return nil, fmt.Errorf("%d:%d: unexpected token %q", t.Pos.Line, t.Pos.Column, t.Literal)
	}
}

func (p *Parser) arrayExpr() (ast.Expr, error) {
	p.advance() // '['
	var elems []ast.Expr
	if !p.check(lexer.TokenRBracket) {
		for {
			e, err := p.expression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	if _, err := p.expect(lexer.TokenRBracket, "']' after array elements"); err != nil {
		return nil, err
	}
	return &ast.ArrayExpr{Elements: elems}, nil
}

func (p *Parser) hashMapExpr() (ast.Expr, error) {
	p.advance() // '{'
	var entries []ast.HashMapEntry
	if !p.check(lexer.TokenRBrace) {
		for {
			key, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokenColon, "':' in hashmap entry"); err != nil {
				return nil, err
			}
			val, err := p.expression()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.HashMapEntry{Key: key, Value: val})
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	if _, err := p.expect(lexer.TokenRBrace, "'}' after hashmap entries"); err != nil {
		return nil, err
	}
	return &ast.HashMapExpr{Entries: entries}, nil
}

func (p *Parser) functionExpr() (ast.Expr, error) {
	p.advance() // 'fn'
	params, err := p.parameterList()
	if err != nil {
		return nil, err
	}
	body, err := p.bodyBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionExpr{Parameters: params, Body: body}, nil
}

// unquote strips the surrounding quotes the lexer leaves on a string
// token's raw lexeme. Backslash escapes are left undecoded; this parser
// only needs the literal's display value for symbol typing.
func unquote(lit string) string {
	if len(lit) >= 2 && lit[0] == '"' && lit[len(lit)-1] == '"' {
		return lit[1 : len(lit)-1]
	}
	return lit
}
