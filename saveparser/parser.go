// Recursive descent parser for the gamestate document format. The document
// is a sequence of `key = value` pairs; values are scalars or brace-delimited
// blocks, and a block is ambiguous between "sequence" and "mapping" until the
// second token after the opening brace. That decision is centralized in
// parseBlock; everything else is straightforward one-token-lookahead descent.
package saveparser

import (
	"fmt"
)

type ErrorKind int

const (
	ExpectKey ErrorKind = iota + 1
	ExpectEqual
	ExpectValue
	UnexpectedEOF
	LexStuck
)

var errorKindDescription = map[ErrorKind]string{
	ExpectKey:     "ExpectKey",
	ExpectEqual:   "ExpectEqual",
	ExpectValue:   "ExpectValue",
	UnexpectedEOF: "UnexpectedEOF",
	LexStuck:      "LexStuck",
}

func (k ErrorKind) String() string {
	return errorKindDescription[k]
}

// Error is a fatal document error. Line is the 1-based line of the offending
// token; TokenType is its kind (zero for LexStuck, which reports a byte
// offset in the message instead).
type Error struct {
	Kind      ErrorKind
	Line      int
	TokenType TokenType
	Message   string
}

func (e Error) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Message)
}

type parser struct {
	s *Scanner

	// one-token lookahead buffer; holds zero or one pending token
	pending    Token
	hasPending bool
}

// Parse tokenizes and parses a full gamestate document. The top level of the
// document is an unbraced run of key = value pairs ending at EOF.
func Parse(input string) (*Object, error) {
	p := &parser{s: NewScanner(input)}
	result := NewObject()
	for {
		la, err := p.lookahead()
		if err != nil {
			return nil, err
		}
		if la.Type == EOFToken {
			return result, nil
		}
		key, value, err := p.parseKeyValuePair()
		if err != nil {
			return nil, err
		}
		result.Put(key, value)
	}
}

func (p *parser) lookahead() (Token, error) {
	if !p.hasPending {
		tok, err := p.scan()
		if err != nil {
			return Token{}, err
		}
		p.pending = tok
		p.hasPending = true
	}
	return p.pending, nil
}

func (p *parser) next() (Token, error) {
	if p.hasPending {
		p.hasPending = false
		return p.pending, nil
	}
	return p.scan()
}

func (p *parser) scan() (Token, error) {
	tok := p.s.Next()
	if tok.Type == StuckToken {
		return Token{}, Error{
			Kind: LexStuck,
			Line: tok.Line,
			Message: fmt.Sprintf("stuck looking for next token at offset %d [%s]",
				p.s.Offset(), p.s.Excerpt()),
		}
	}
	return tok, nil
}

func (p *parser) parseKeyValuePair() (Key, Value, error) {
	keyTok, err := p.next()
	if err != nil {
		return nil, nil, err
	}
	switch keyTok.Type {
	case EOFToken:
		return nil, nil, Error{
			Kind: UnexpectedEOF, Line: keyTok.Line, TokenType: keyTok.Type,
			Message: "expected a key",
		}
	case StringToken, IntegerToken:
	default:
		return nil, nil, Error{
			Kind: ExpectKey, Line: keyTok.Line, TokenType: keyTok.Type,
			Message: fmt.Sprintf("expected a string or integer as key, found %s", keyTok.Type),
		}
	}

	eqTok, err := p.next()
	if err != nil {
		return nil, nil, err
	}
	if eqTok.Type != EqualToken {
		if eqTok.Type == EOFToken {
			return nil, nil, Error{
				Kind: UnexpectedEOF, Line: eqTok.Line, TokenType: eqTok.Type,
				Message: fmt.Sprintf("expected = after key %s", KeyString(keyValue(keyTok))),
			}
		}
		return nil, nil, Error{
			Kind: ExpectEqual, Line: eqTok.Line, TokenType: eqTok.Type,
			Message: fmt.Sprintf("expected =, found %s", eqTok.Type),
		}
	}

	value, err := p.parseValue()
	if err != nil {
		return nil, nil, err
	}
	return keyValue(keyTok), value, nil
}

func (p *parser) parseValue() (Value, error) {
	la, err := p.lookahead()
	if err != nil {
		return nil, err
	}
	switch {
	case la.Type.IsLiteral():
		tok, _ := p.next()
		return literalValue(tok), nil
	case la.Type == BraceOpenToken:
		return p.parseBlock()
	case la.Type == EOFToken:
		return nil, Error{
			Kind: UnexpectedEOF, Line: la.Line, TokenType: la.Type,
			Message: "expected a value",
		}
	}
	return nil, Error{
		Kind: ExpectValue, Line: la.Line, TokenType: la.Type,
		Message: fmt.Sprintf("expected literal or { , found %s", la.Type),
	}
}

// parseBlock consumes a brace-delimited block. The scanner is positioned on
// BraceOpenToken. One block is either an empty sequence `{}`, a sequence of
// values, or a mapping; which one is only known after up to two tokens of
// lookahead past the brace:
//
//	{ }        -> empty sequence
//	{ { ...    -> sequence (blocks cannot be keys)
//	{ T = ...  -> mapping, T is the first key
//	{ T T' ... -> sequence, T is the first element (T' literal or })
func (p *parser) parseBlock() (Value, error) {
	if _, err := p.next(); err != nil { // consume '{'
		return nil, err
	}
	la, err := p.lookahead()
	if err != nil {
		return nil, err
	}
	switch la.Type {
	case BraceCloseToken, BraceOpenToken:
		return p.parseSequence(nil)
	case EOFToken:
		return nil, Error{
			Kind: UnexpectedEOF, Line: la.Line, TokenType: la.Type,
			Message: "unclosed { at end of input",
		}
	}

	first, err := p.next()
	if err != nil {
		return nil, err
	}
	la, err = p.lookahead()
	if err != nil {
		return nil, err
	}
	switch {
	case la.Type == EqualToken:
		if !first.Type.IsKey() {
			return nil, Error{
				Kind: ExpectKey, Line: first.Line, TokenType: first.Type,
				Message: fmt.Sprintf("expected a string or integer as key, found %s", first.Type),
			}
		}
		return p.parseMapping(first)
	case la.Type.IsLiteral() || la.Type == BraceCloseToken:
		if !first.Type.IsLiteral() {
			return nil, Error{
				Kind: ExpectValue, Line: first.Line, TokenType: first.Type,
				Message: fmt.Sprintf("expected a literal sequence element, found %s", first.Type),
			}
		}
		return p.parseSequence(List{literalValue(first)})
	case la.Type == EOFToken:
		return nil, Error{
			Kind: UnexpectedEOF, Line: la.Line, TokenType: la.Type,
			Message: "unclosed { at end of input",
		}
	}
	return nil, Error{
		Kind: ExpectValue, Line: la.Line, TokenType: la.Type,
		Message: fmt.Sprintf("expected =, literal or } after first block token, found %s", la.Type),
	}
}

// parseSequence consumes values until the closing brace. acc carries the
// already-consumed first element, if any; nested blocks are appended like
// any other element.
func (p *parser) parseSequence(acc List) (Value, error) {
	if acc == nil {
		acc = List{}
	}
	for {
		la, err := p.lookahead()
		if err != nil {
			return nil, err
		}
		switch la.Type {
		case BraceCloseToken:
			_, _ = p.next()
			return acc, nil
		case EOFToken:
			return nil, Error{
				Kind: UnexpectedEOF, Line: la.Line, TokenType: la.Type,
				Message: "unclosed sequence at end of input",
			}
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		acc = append(acc, v)
	}
}

// parseMapping consumes key = value pairs until the closing brace. firstKey
// has already been consumed; the scanner is positioned on its '='.
func (p *parser) parseMapping(firstKey Token) (Value, error) {
	if _, err := p.next(); err != nil { // consume '='
		return nil, err
	}
	result := NewObject()
	firstValue, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	result.Put(keyValue(firstKey), firstValue)
	for {
		la, err := p.lookahead()
		if err != nil {
			return nil, err
		}
		switch la.Type {
		case BraceCloseToken:
			_, _ = p.next()
			return result, nil
		case EOFToken:
			return nil, Error{
				Kind: UnexpectedEOF, Line: la.Line, TokenType: la.Type,
				Message: "unclosed mapping at end of input",
			}
		}
		key, value, err := p.parseKeyValuePair()
		if err != nil {
			return nil, err
		}
		result.Put(key, value)
	}
}

func keyValue(t Token) Key {
	if t.Type == IntegerToken {
		return t.Int
	}
	return t.Str
}

func literalValue(t Token) Value {
	switch t.Type {
	case IntegerToken:
		return t.Int
	case FloatToken:
		return t.Float
	}
	return t.Str
}
