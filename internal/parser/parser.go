package parser

import (
	"fmt"
	"strconv"

	"github.com/gnoswap-labs/equivrw/internal/term"
)

// Parser builds terms from tokens. Identifiers bound by an enclosing
// binder or listed as locals become variables, every other identifier is
// a constant.
type Parser struct {
	tokens []Token
	pos    int
	scope  []string
	locals map[string]bool
}

// Parse parses a closed term.
func Parse(src string) (term.Term, error) {
	return ParseWithLocals(src, nil)
}

// ParseWithLocals parses src treating the given names as variables of the
// surrounding context.
func ParseWithLocals(src string, locals []string) (term.Term, error) {
	tokens, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}
	p := NewParser(tokens, locals)
	t, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, p.errorf(tok, "unexpected %s after term", tok.Type)
	}
	return t, nil
}

// MustParse is Parse for inputs known to be valid. It panics on error.
func MustParse(src string, locals ...string) term.Term {
	t, err := ParseWithLocals(src, locals)
	if err != nil {
		panic(err)
	}
	return t
}

// NewParser creates a parser over tokens.
func NewParser(tokens []Token, locals []string) *Parser {
	p := &Parser{
		tokens: tokens,
		locals: make(map[string]bool, len(locals)),
	}
	for _, name := range locals {
		p.locals[name] = true
	}
	return p
}

func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *Parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.next()
	if tok.Type != tt {
		return tok, p.errorf(tok, "expected %s, found %s", tt, tok.Type)
	}
	return tok, nil
}

func (p *Parser) errorf(tok Token, format string, args ...any) error {
	return fmt.Errorf("position %d: %s", tok.Position, fmt.Sprintf(format, args...))
}

func (p *Parser) bound(name string) bool {
	for i := len(p.scope) - 1; i >= 0; i-- {
		if p.scope[i] == name {
			return true
		}
	}
	return p.locals[name]
}

func (p *Parser) parseExpr() (term.Term, error) {
	switch p.peek().Type {
	case TokenFun, TokenForall, TokenPi, TokenSigma:
		return p.parseBinder()
	}
	return p.parseEq()
}

type binder struct {
	name string
	ty   term.Term
}

func (p *Parser) parseBinder() (term.Term, error) {
	kw := p.next()

	var kind term.BinderKind
	sep := TokenComma
	switch kw.Type {
	case TokenFun:
		kind, sep = term.KindLam, TokenFatArrow
	case TokenForall:
		kind = term.KindForall
	case TokenPi:
		kind = term.KindPi
	case TokenSigma:
		kind = term.KindSigma
	}

	mark := len(p.scope)
	binders, err := p.parseBinders(kind == term.KindLam)
	if err != nil {
		return nil, err
	}
	defer func() { p.scope = p.scope[:mark] }()

	if _, err := p.expect(sep); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	for i := len(binders) - 1; i >= 0; i-- {
		body = term.Binding{Kind: kind, Name: binders[i].name, Type: binders[i].ty, Body: body}
	}
	return body, nil
}

// parseBinders reads either parenthesized groups (x y : A) (z : B) or a
// bare list of names with an optional type. Names enter scope as soon as
// their group is read.
func (p *Parser) parseBinders(allowUntyped bool) ([]binder, error) {
	var binders []binder
	if p.peek().Type == TokenLParen {
		for p.peek().Type == TokenLParen {
			p.next()
			group, err := p.parseGroup(false)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenRParen); err != nil {
				return nil, err
			}
			binders = append(binders, group...)
		}
		return binders, nil
	}
	return p.parseGroup(allowUntyped)
}

func (p *Parser) parseGroup(allowUntyped bool) ([]binder, error) {
	var names []string
	for p.peek().Type == TokenIdent {
		names = append(names, p.next().Value)
	}
	if len(names) == 0 {
		tok := p.peek()
		return nil, p.errorf(tok, "expected a binder name, found %s", tok.Type)
	}

	var ty term.Term
	if p.peek().Type == TokenColon {
		p.next()
		var err error
		ty, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	} else if !allowUntyped {
		tok := p.peek()
		return nil, p.errorf(tok, "expected ':' after binder names, found %s", tok.Type)
	}

	binders := make([]binder, len(names))
	for i, name := range names {
		binders[i] = binder{name: name, ty: ty}
		p.scope = append(p.scope, name)
	}
	return binders, nil
}

func (p *Parser) parseEq() (term.Term, error) {
	left, err := p.parseArrow()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != TokenEq {
		return left, nil
	}
	p.next()
	right, err := p.parseArrow()
	if err != nil {
		return nil, err
	}
	return term.Eq(left, right), nil
}

func (p *Parser) parseArrow() (term.Term, error) {
	left, err := p.parseApp()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != TokenArrow {
		return left, nil
	}
	p.next()
	var right term.Term
	switch p.peek().Type {
	case TokenFun, TokenForall, TokenPi, TokenSigma:
		right, err = p.parseBinder()
	default:
		right, err = p.parseArrow()
	}
	if err != nil {
		return nil, err
	}
	return term.Arrow(left, right), nil
}

func startsAtom(tt TokenType) bool {
	switch tt {
	case TokenIdent, TokenNumber, TokenHole, TokenLParen, TokenLBrace, TokenLBracket:
		return true
	default:
		return false
	}
}

func (p *Parser) parseApp() (term.Term, error) {
	head, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for startsAtom(p.peek().Type) {
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		head = term.App{Fn: head, Arg: arg}
	}
	return head, nil
}

func (p *Parser) parseAtom() (term.Term, error) {
	tok := p.next()
	switch tok.Type {
	case TokenIdent:
		switch {
		case p.bound(tok.Value):
			return term.Var{Name: tok.Value}, nil
		case tok.Value == "Prop":
			return term.Sort{Kind: term.SortProp}, nil
		case tok.Value == "Type":
			return term.Sort{Kind: term.SortType}, nil
		default:
			return term.Const{Name: tok.Value}, nil
		}

	case TokenNumber:
		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, p.errorf(tok, "invalid number %q", tok.Value)
		}
		return term.Lit{Val: v}, nil

	case TokenHole:
		return term.Meta{Name: tok.Value}, nil

	case TokenLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return inner, nil

	case TokenLBrace:
		return p.parseSubtype()

	case TokenLBracket:
		return p.parseList()

	default:
		return nil, p.errorf(tok, "unexpected %s", tok.Type)
	}
}

// parseSubtype parses the rest of {x : A // P}.
func (p *Parser) parseSubtype() (term.Term, error) {
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}
	ty, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSlashes); err != nil {
		return nil, err
	}
	p.scope = append(p.scope, name.Value)
	pred, err := p.parseExpr()
	p.scope = p.scope[:len(p.scope)-1]
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}
	return term.Subtype(name.Value, ty, pred), nil
}

// parseList parses the rest of [a, b, c].
func (p *Parser) parseList() (term.Term, error) {
	var elems []term.Term
	if p.peek().Type == TokenRBracket {
		p.next()
		return term.List(), nil
	}
	for {
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		tok := p.next()
		switch tok.Type {
		case TokenComma:
			continue
		case TokenRBracket:
			return term.List(elems...), nil
		default:
			return nil, p.errorf(tok, "expected ',' or ']' in list, found %s", tok.Type)
		}
	}
}
