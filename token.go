package exprtree

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenKind classifies a token.
type TokenKind int8

const (
	// Number is a numeric literal.
	Number TokenKind = iota
	// Variable is a variable name.
	Variable
	// Function is the name of a built-in function.
	Function
	// PlusMinus is + or -.
	PlusMinus
	// Mult is *.
	Mult
	// Div is /.
	Div
	// Raised is ^.
	Raised
	// OpenBracket is (.
	OpenBracket
	// CloseBracket is ).
	CloseBracket
	// Epsilon marks the end of input. The tokenizer never produces it; the
	// parser synthesizes it once the token stream is exhausted.
	Epsilon
)

var tokenKindNames = [...]string{
	Number:       "NUMBER",
	Variable:     "VARIABLE",
	Function:     "FUNCTION",
	PlusMinus:    "PLUSMINUS",
	Mult:         "MULT",
	Div:          "DIV",
	Raised:       "RAISED",
	OpenBracket:  "OPEN_BRACKET",
	CloseBracket: "CLOSE_BRACKET",
	Epsilon:      "EPSILON",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// ParseTokenKind returns the kind whose String is s, ignoring case.
func ParseTokenKind(s string) (TokenKind, error) {
	for k, name := range tokenKindNames {
		if strings.EqualFold(name, s) {
			return TokenKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown token kind %q", s)
}

// Token is a classified fragment of input.
type Token struct {
	// Kind is the kind of the rule that matched the token.
	Kind TokenKind
	// Sequence is the exact text the rule matched.
	Sequence string
	// Pos is the 1-based rune column of the start of the token.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Sequence + "@" + strconv.Itoa(t.Pos)
}

// describe formats a token for error messages.
func (t Token) describe() string {
	if t.Kind == Epsilon {
		return "end of input"
	}
	return strconv.Quote(t.Sequence)
}
