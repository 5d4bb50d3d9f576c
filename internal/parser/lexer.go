package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType is the kind of a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenNumber
	TokenHole     // ?name
	TokenLParen   // (
	TokenRParen   // )
	TokenLBrace   // {
	TokenRBrace   // }
	TokenLBracket // [
	TokenRBracket // ]
	TokenComma    // ,
	TokenColon    // :
	TokenSlashes  // //
	TokenArrow    // -> or →
	TokenFatArrow // =>
	TokenEq       // =
	TokenFun      // fun or λ
	TokenForall   // forall or ∀
	TokenPi       // Pi or Π
	TokenSigma    // Sigma or Σ
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenHole:
		return "hole"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenLBrace:
		return "'{'"
	case TokenRBrace:
		return "'}'"
	case TokenLBracket:
		return "'['"
	case TokenRBracket:
		return "']'"
	case TokenComma:
		return "','"
	case TokenColon:
		return "':'"
	case TokenSlashes:
		return "'//'"
	case TokenArrow:
		return "'->'"
	case TokenFatArrow:
		return "'=>'"
	case TokenEq:
		return "'='"
	case TokenFun:
		return "'fun'"
	case TokenForall:
		return "'forall'"
	case TokenPi:
		return "'Pi'"
	case TokenSigma:
		return "'Sigma'"
	default:
		return "unknown"
	}
}

// Token is a lexical token and its byte offset in the input.
type Token struct {
	Type     TokenType
	Value    string
	Position int
}

var keywords = map[string]TokenType{
	"fun":    TokenFun,
	"forall": TokenForall,
	"Pi":     TokenPi,
	"Sigma":  TokenSigma,
}

// Lexer scans a term source string into tokens.
type Lexer struct {
	input    string // the entire input to tokenize
	position int    // current reading position in input
	tokens   []Token
}

// NewLexer returns a new Lexer with the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:    input,
		position: 0,
		tokens:   make([]Token, 0),
	}
}

// Tokenize processes the entire input. The last token is always TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	for l.position < len(l.input) {
		start := l.position
		r, size := utf8.DecodeRuneInString(l.input[l.position:])

		switch {
		case unicode.IsSpace(r):
			l.position += size
		case r == '(':
			l.emit(TokenLParen, "(", start, size)
		case r == ')':
			l.emit(TokenRParen, ")", start, size)
		case r == '{':
			l.emit(TokenLBrace, "{", start, size)
		case r == '}':
			l.emit(TokenRBrace, "}", start, size)
		case r == '[':
			l.emit(TokenLBracket, "[", start, size)
		case r == ']':
			l.emit(TokenRBracket, "]", start, size)
		case r == ',':
			l.emit(TokenComma, ",", start, size)
		case r == ':':
			l.emit(TokenColon, ":", start, size)
		case r == '→':
			l.emit(TokenArrow, "->", start, size)
		case symbols[r] != TokenEOF:
			l.emit(symbols[r], string(r), start, size)
		case strings.HasPrefix(l.input[start:], "//"):
			l.emit(TokenSlashes, "//", start, 2)
		case strings.HasPrefix(l.input[start:], "->"):
			l.emit(TokenArrow, "->", start, 2)
		case strings.HasPrefix(l.input[start:], "=>"):
			l.emit(TokenFatArrow, "=>", start, 2)
		case r == '=':
			l.emit(TokenEq, "=", start, size)
		case r == '?':
			l.position += size
			name := l.scanIdent()
			if name == "" {
				return nil, fmt.Errorf("position %d: expected a name after '?'", start)
			}
			l.tokens = append(l.tokens, Token{Type: TokenHole, Value: name, Position: start})
		case unicode.IsDigit(r):
			l.lexNumber(start)
		case isIdentStart(r):
			name := l.scanIdent()
			if kw, ok := keywords[name]; ok {
				l.tokens = append(l.tokens, Token{Type: kw, Value: name, Position: start})
				continue
			}
			l.tokens = append(l.tokens, Token{Type: TokenIdent, Value: name, Position: start})
		default:
			return nil, fmt.Errorf("position %d: unexpected character %q", start, r)
		}
	}

	l.tokens = append(l.tokens, Token{Type: TokenEOF, Position: l.position})
	return l.tokens, nil
}

func (l *Lexer) emit(tokenType TokenType, value string, start, size int) {
	l.tokens = append(l.tokens, Token{Type: tokenType, Value: value, Position: start})
	l.position = start + size
}

func (l *Lexer) lexNumber(start int) {
	for l.position < len(l.input) && l.input[l.position] >= '0' && l.input[l.position] <= '9' {
		l.position++
	}
	l.tokens = append(l.tokens, Token{Type: TokenNumber, Value: l.input[start:l.position], Position: start})
}

// scanIdent consumes an identifier such as List.map, x_1 or h' and
// returns it.
func (l *Lexer) scanIdent() string {
	start := l.position
	for l.position < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.position:])
		if !isIdentRune(r) {
			break
		}
		l.position += size
	}
	return l.input[start:l.position]
}

// symbols are the one-rune spellings of the binder keywords
var symbols = map[rune]TokenType{
	'λ': TokenFun,
	'∀': TokenForall,
	'Π': TokenPi,
	'Σ': TokenSigma,
}

func isIdentStart(r rune) bool {
	_, sym := symbols[r]
	return !sym && (unicode.IsLetter(r) || r == '_')
}

func isIdentRune(r rune) bool {
	_, sym := symbols[r]
	return !sym && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '\'')
}
