package exprtree

import (
	"errors"
	"strconv"
	"unicode/utf8"
)

// expression    -> signed_term sum_op
// sum_op        -> PLUSMINUS term sum_op | ε
// signed_term   -> PLUSMINUS term | term
// term          -> factor term_op
// term_op       -> (MULT | DIV) signed_factor term_op | ε
// signed_factor -> PLUSMINUS factor | factor
// factor        -> argument factor_op
// factor_op     -> RAISED signed_factor | ε
// argument      -> FUNCTION argument | OPEN_BRACKET expression CLOSE_BRACKET | value
// value         -> NUMBER | VARIABLE
//
// sum_op and term_op accumulate into a single addition or multiplication node
// so that left-associative chains stay flat. A leading sign negates the whole
// term or factor, including any exponentiation in it, so -2^2 is -(2^2).

// Parser parses expressions into trees. A Parser is safe for concurrent use as
// long as its tokenizer is not modified.
type Parser struct {
	ctx parsectx
}

// NewParser creates a parser that reads tokens produced by tok.
func NewParser(tok *Tokenizer, opts ...ParseOption) *Parser {
	ctx := newParsectx(append([]ParseOption{WithTokenizer(tok)}, opts...))
	return &Parser{ctx: ctx}
}

// Parse parses text using the default tokenizer unless an option supplies
// another.
func Parse(text string, opts ...ParseOption) (*Node, error) {
	p := Parser{ctx: newParsectx(opts)}
	return p.Parse(text)
}

// Parse parses text into an expression tree. Errors from the tokenizer are
// returned as *LexError and errors in the token sequence as *ParseError. There
// is never a partial result.
func (p *Parser) Parse(text string) (*Node, error) {
	toks, err := p.ctx.tok.Tokenize(text)
	if err != nil {
		return nil, err
	}
	s := scanner{
		tokens: toks,
		end:    Token{Kind: Epsilon, Pos: utf8.RuneCountInString(text) + 1},
		trace:  p.ctx.trace,
	}
	s.lookahead = s.front()
	n, err := s.expression()
	if err != nil {
		return nil, err
	}
	if s.lookahead.Kind != Epsilon {
		return nil, s.error("expression", ErrUnexpectedSymbol)
	}
	return n, nil
}

// scanner is the state of a single parse.
type scanner struct {
	// tokens holds the unconsumed tokens. tokens[0] is the lookahead.
	tokens    []Token
	lookahead Token
	// end is the Epsilon token synthesized once tokens is exhausted.
	end   Token
	trace Tracer
}

func (s *scanner) front() Token {
	if len(s.tokens) == 0 {
		return s.end
	}
	return s.tokens[0]
}

// next discards the lookahead. It must not be called at Epsilon.
func (s *scanner) next() {
	s.trace.Consume(s.lookahead)
	s.tokens = s.tokens[1:]
	s.lookahead = s.front()
}

func (s *scanner) rule(production string) {
	s.trace.Rule(production, s.lookahead)
}

func (s *scanner) error(rule string, cause error) error {
	return &ParseError{Token: s.lookahead, Rule: rule, Err: cause}
}

// seed starts the term list for a chain of kind. If n is already a node of
// that kind, its terms are copied so the chain continues flat; n itself is not
// modified.
func seed(kind NodeKind, n *Node) []Term {
	if n.kind == kind {
		return append([]Term(nil), n.terms...)
	}
	return []Term{{Node: n, Positive: true}}
}

func (s *scanner) expression() (*Node, error) {
	s.rule("expression -> signed_term sum_op")
	t, err := s.signedTerm()
	if err != nil {
		return nil, err
	}
	return s.sumOp(t)
}

func (s *scanner) sumOp(first *Node) (*Node, error) {
	if s.lookahead.Kind != PlusMinus {
		s.rule("sum_op -> EPSILON")
		return first, nil
	}
	terms := seed(AdditionNode, first)
	for s.lookahead.Kind == PlusMinus {
		s.rule("sum_op -> PLUSMINUS term sum_op")
		positive := s.lookahead.Sequence == "+"
		s.next()
		t, err := s.term()
		if err != nil {
			return nil, err
		}
		terms = append(terms, Term{Node: t, Positive: positive})
	}
	s.rule("sum_op -> EPSILON")
	return newSequence(AdditionNode, terms), nil
}

func (s *scanner) signedTerm() (*Node, error) {
	if s.lookahead.Kind != PlusMinus {
		s.rule("signed_term -> term")
		return s.term()
	}
	s.rule("signed_term -> PLUSMINUS term")
	positive := s.lookahead.Sequence == "+"
	s.next()
	t, err := s.term()
	if err != nil {
		return nil, err
	}
	if positive {
		return t, nil
	}
	return newSequence(AdditionNode, []Term{{Node: t, Positive: false}}), nil
}

func (s *scanner) term() (*Node, error) {
	s.rule("term -> factor term_op")
	f, err := s.factor()
	if err != nil {
		return nil, err
	}
	return s.termOp(f)
}

func (s *scanner) termOp(first *Node) (*Node, error) {
	if s.lookahead.Kind != Mult && s.lookahead.Kind != Div {
		s.rule("term_op -> EPSILON")
		return first, nil
	}
	terms := seed(MultiplicationNode, first)
	for s.lookahead.Kind == Mult || s.lookahead.Kind == Div {
		s.rule("term_op -> MULTDIV signed_factor term_op")
		positive := s.lookahead.Kind == Mult
		s.next()
		f, err := s.signedFactor()
		if err != nil {
			return nil, err
		}
		terms = append(terms, Term{Node: f, Positive: positive})
	}
	s.rule("term_op -> EPSILON")
	return newSequence(MultiplicationNode, terms), nil
}

func (s *scanner) signedFactor() (*Node, error) {
	if s.lookahead.Kind != PlusMinus {
		s.rule("signed_factor -> factor")
		return s.factor()
	}
	s.rule("signed_factor -> PLUSMINUS factor")
	positive := s.lookahead.Sequence == "+"
	s.next()
	f, err := s.factor()
	if err != nil {
		return nil, err
	}
	if positive {
		return f, nil
	}
	return newSequence(AdditionNode, []Term{{Node: f, Positive: false}}), nil
}

func (s *scanner) factor() (*Node, error) {
	s.rule("factor -> argument factor_op")
	a, err := s.argument()
	if err != nil {
		return nil, err
	}
	return s.factorOp(a)
}

func (s *scanner) factorOp(base *Node) (*Node, error) {
	if s.lookahead.Kind != Raised {
		s.rule("factor_op -> EPSILON")
		return base, nil
	}
	s.rule("factor_op -> RAISED signed_factor")
	s.next()
	exp, err := s.signedFactor()
	if err != nil {
		return nil, err
	}
	return newPow(base, exp), nil
}

func (s *scanner) argument() (*Node, error) {
	switch s.lookahead.Kind {
	case Function:
		s.rule("argument -> FUNCTION argument")
		fn, ok := LookupFunc(s.lookahead.Sequence)
		if !ok {
			return nil, s.error("argument", ErrUnknownFunction)
		}
		s.next()
		arg, err := s.argument()
		if err != nil {
			return nil, err
		}
		return newCall(fn, arg), nil
	case OpenBracket:
		s.rule("argument -> OPEN_BRACKET expression CLOSE_BRACKET")
		s.next()
		n, err := s.expression()
		if err != nil {
			return nil, err
		}
		if s.lookahead.Kind != CloseBracket {
			return nil, s.error("argument", ErrMissingClose)
		}
		s.next()
		return n, nil
	default:
		s.rule("argument -> value")
		return s.value()
	}
}

func (s *scanner) value() (*Node, error) {
	switch tok := s.lookahead; tok.Kind {
	case Number:
		s.rule("value -> NUMBER")
		v, err := strconv.ParseFloat(tok.Sequence, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			// Out of range literals become ±Inf or 0; anything else is a
			// number rule that matched something that is not a number.
			return nil, s.error("value", ErrInvalidNumber)
		}
		s.next()
		return newConstant(tok.Sequence, v), nil
	case Variable:
		s.rule("value -> VARIABLE")
		s.next()
		return newVariable(tok.Sequence), nil
	case Epsilon:
		return nil, s.error("value", ErrUnexpectedEnd)
	default:
		return nil, s.error("value", ErrUnexpectedSymbol)
	}
}
