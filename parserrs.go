package exprtree

import (
	"errors"
	"strconv"
)

// Causes of parse errors. A *ParseError unwraps to one of these.
var (
	// ErrUnexpectedEnd means the input ended where a value was expected.
	ErrUnexpectedEnd = errors.New("unexpected end of input")
	// ErrUnexpectedSymbol means a token appeared where the grammar does not
	// allow it, including after a complete expression.
	ErrUnexpectedSymbol = errors.New("unexpected symbol")
	// ErrMissingClose means an open bracket was not followed by a matching
	// close bracket.
	ErrMissingClose = errors.New("close bracket expected")
	// ErrUnknownFunction means a function token names no built-in function.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrInvalidNumber means a number token could not be converted to a
	// float64.
	ErrInvalidNumber = errors.New("invalid number")
)

// ParseError is an error indicating input that does not follow the grammar.
// It implements InputError.
type ParseError struct {
	// Token is the offending token. Its kind is Epsilon if the input ended.
	Token Token
	// Rule is the grammar rule that was being parsed.
	Rule string
	// Err is the cause, one of the Err variables in this package.
	Err error
}

func (err *ParseError) Error() string {
	return errpos(err.Token.Pos, err.Err.Error()+" in "+err.Rule+": found "+err.Token.describe())
}

func (err *ParseError) Unwrap() error {
	return err.Err
}

func (err *ParseError) Pos() int {
	return err.Token.Pos
}

// LexError indicates input that no tokenizer rule matches. It implements
// InputError.
type LexError struct {
	// Text is the rune at which no rule matched.
	Text string
	// Col is the 1-based rune column of Text.
	Col int
}

func (err *LexError) Error() string {
	return errpos(err.Col, "invalid token "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}

// RuleError is an error adding a tokenizer rule.
type RuleError struct {
	// Pattern is the rule's pattern.
	Pattern string
	// Kind is the rule's token kind.
	Kind TokenKind
	// Err is the error compiling the pattern, or nil if the kind is invalid.
	Err error
}

func (err *RuleError) Error() string {
	if err.Err == nil {
		return "invalid token kind " + err.Kind.String() + " for pattern " + strconv.Quote(err.Pattern)
	}
	return "invalid pattern for " + err.Kind.String() + ": " + err.Err.Error()
}

func (err *RuleError) Unwrap() error {
	return err.Err
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based rune column of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*ParseError)(nil)
	_ InputError = (*LexError)(nil)
)
