// Package format implements the token-stream formatter: it rewrites
// claw/volt source by replaying its token sequence through a small state
// machine, without ever building or consulting an AST.
package format

import (
	"strings"

	"github.com/clawlang/clawls/internal/lexer"
)

// DefaultIndentWidth is used whenever a workspace manifest does not
// override it (see internal/config).
const DefaultIndentWidth = 2

// wordLike reports whether t's lexeme is made of identifier characters,
// so that two such tokens emitted back to back would otherwise merge into
// one lexeme (e.g. "return" immediately followed by "a" must not become
// "returna"). Keywords and the bool/nil literals are lexically identical
// in shape to identifiers/numbers/strings and need the same separation.
func wordLike(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenIdentifier, lexer.TokenNumber, lexer.TokenString,
		lexer.TokenBool, lexer.TokenNil,
		lexer.TokenLet, lexer.TokenFn, lexer.TokenClass, lexer.TokenInit,
		lexer.TokenReturn, lexer.TokenIf, lexer.TokenElse, lexer.TokenWhile,
		lexer.TokenFor, lexer.TokenRun, lexer.TokenUntil, lexer.TokenBreak,
		lexer.TokenContinue, lexer.TokenTry, lexer.TokenCatch, lexer.TokenThrow:
		return true
	default:
		return false
	}
}

// Format replays tokens through the formatting state machine: current
// indent level, a start-of-line flag, and the previous emitted token's
// type are all the state it carries. indentWidth <= 0 falls back to
// DefaultIndentWidth.
func Format(tokens []lexer.Token, indentWidth int) string {
	if indentWidth <= 0 {
		indentWidth = DefaultIndentWidth
	}

	var out strings.Builder
	indent := 0
	atLineStart := true
	prevType := lexer.TokenEOF
	havePrev := false

	writeIndent := func() {
		out.WriteString(strings.Repeat(" ", indent*indentWidth))
	}

	for _, t := range tokens {
		if t.Type == lexer.TokenEOF {
			continue
		}

		if t.Type == lexer.TokenRBrace {
			if !atLineStart {
				out.WriteByte('\n')
				atLineStart = true
			}
			if indent > 0 {
				indent--
			}
			writeIndent()
			out.WriteByte('}')
			atLineStart = false
			prevType, havePrev = t.Type, true
			continue
		}

		if atLineStart {
			writeIndent()
			atLineStart = false
		}

		switch t.Type {
		case lexer.TokenLBrace:
			out.WriteString(" {\n")
			indent++
			atLineStart = true
		case lexer.TokenSemicolon:
			out.WriteString(";\n")
			atLineStart = true
		case lexer.TokenLParen, lexer.TokenLBracket,
			lexer.TokenRParen, lexer.TokenRBracket:
			out.WriteString(t.Literal)
		case lexer.TokenComma:
			out.WriteString(", ")
		case lexer.TokenColon:
			out.WriteString(": ")
		default:
			if lexer.IsBinaryOperator(t.Type) {
				out.WriteByte(' ')
				out.WriteString(t.Literal)
				out.WriteByte(' ')
			} else {
				if havePrev && wordLike(prevType) && wordLike(t.Type) {
					out.WriteByte(' ')
				}
				out.WriteString(t.Literal)
			}
		}

		prevType, havePrev = t.Type, true
	}

	return out.String()
}

// FormatSource tokenizes src and formats it in one step — the entry point
// used by the formatting/rangeFormatting/onTypeFormatting handlers and the
// clawfmt CLI.
func FormatSource(src string, indentWidth int) string {
	return Format(lexer.New(src).Tokenize(), indentWidth)
}
