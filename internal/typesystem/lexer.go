package typesystem

import (
	"strings"
	"unicode"
)

type tokenType int

const (
	tokEOF      tokenType = iota
	tokIllegal            // any character outside the grammar
	tokName               // [A-Za-z][A-Za-z0-9.]*
	tokLT                 // <
	tokGT                 // >
	tokComma              // ,
	tokBrackets           // []
)

func (t tokenType) String() string {
	switch t {
	case tokEOF:
		return "end of input"
	case tokName:
		return "type name"
	case tokLT:
		return "'<'"
	case tokGT:
		return "'>'"
	case tokComma:
		return "','"
	case tokBrackets:
		return "'[]'"
	default:
		return "illegal character"
	}
}

type token struct {
	Type    tokenType
	Literal string
	Pos     int // byte offset in the whitespace-free input
}

// lexer tokenizes a type string. Whitespace is insignificant and is
// removed before scanning, so positions refer to the compacted input.
type lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
}

func newLexer(input string) *lexer {
	l := &lexer{input: stripSpace(input)}
	l.readChar()
	return l
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func (l *lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *lexer) NextToken() token {
	pos := l.position
	switch {
	case l.position >= len(l.input):
		return token{Type: tokEOF, Pos: pos}
	case l.ch == '<':
		l.readChar()
		return token{Type: tokLT, Literal: "<", Pos: pos}
	case l.ch == '>':
		l.readChar()
		return token{Type: tokGT, Literal: ">", Pos: pos}
	case l.ch == ',':
		l.readChar()
		return token{Type: tokComma, Literal: ",", Pos: pos}
	case l.ch == '[':
		if l.peekChar() == ']' {
			l.readChar()
			l.readChar()
			return token{Type: tokBrackets, Literal: "[]", Pos: pos}
		}
	case isLetter(l.ch):
		return token{Type: tokName, Literal: l.readName(), Pos: pos}
	}
	lit := string(l.ch)
	l.readChar()
	return token{Type: tokIllegal, Literal: lit, Pos: pos}
}

func (l *lexer) readName() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	return l.input[start:l.position]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
