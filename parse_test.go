package exprtree

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(s string) *Node {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		panic(err)
	}
	return newConstant(s, v)
}

func pos(n *Node) Term { return Term{Node: n, Positive: true} }
func neg(n *Node) Term { return Term{Node: n, Positive: false} }

func add(terms ...Term) *Node { return newSequence(AdditionNode, terms) }
func mul(terms ...Term) *Node { return newSequence(MultiplicationNode, terms) }

// diff returns a description of the first difference between two trees, or
// the empty string if they are equal.
func diff(want, got *Node) string {
	switch {
	case want == nil && got == nil:
		return ""
	case want == nil || got == nil:
		return "want " + fmtNode(want) + ", got " + fmtNode(got)
	case want.kind != got.kind:
		return "want " + want.kind.String() + " " + want.String() + ", got " + got.kind.String() + " " + got.String()
	}
	switch want.kind {
	case ConstantNode:
		if want.name != got.name || want.value != got.value {
			return "want constant " + want.name + ", got " + got.name
		}
	case VariableNode:
		if want.name != got.name {
			return "want variable " + want.name + ", got " + got.name
		}
	case AdditionNode, MultiplicationNode:
		if len(want.terms) != len(got.terms) {
			return "want " + want.String() + ", got " + got.String() + ": term counts differ"
		}
		for i := range want.terms {
			if want.terms[i].Positive != got.terms[i].Positive {
				return "want " + want.String() + ", got " + got.String() + ": sign of term " + strconv.Itoa(i) + " differs"
			}
			if d := diff(want.terms[i].Node, got.terms[i].Node); d != "" {
				return d
			}
		}
	case ExponentiationNode:
		if d := diff(want.left, got.left); d != "" {
			return d
		}
		return diff(want.right, got.right)
	case FunctionNode:
		if want.fn != got.fn {
			return "want " + want.fn.String() + ", got " + got.fn.String()
		}
		return diff(want.left, got.left)
	}
	return ""
}

func fmtNode(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}

func TestParse(t *testing.T) {
	x, y, z := newVariable("x"), newVariable("y"), newVariable("z")
	cases := []struct {
		name string
		src  string
		want *Node
	}{
		{"number", "1", num("1")},
		{"real", "2.5e3", num("2.5e3")},
		{"var", "x", x},
		{"parens", "((x))", x},
		{"plus-sign", "+x", x},
		{"neg", "-x", add(neg(x))},
		{"sum", "1 + 2", add(pos(num("1")), pos(num("2")))},
		{"difference-chain", "x - y + z", add(pos(x), neg(y), pos(z))},
		{"left-assoc", "10 - 2 - 3", add(pos(num("10")), neg(num("2")), neg(num("3")))},
		{"product", "x * y", mul(pos(x), pos(y))},
		{"quotient-chain", "8 / 2 / 2", mul(pos(num("8")), neg(num("2")), neg(num("2")))},
		{"precedence", "1 + 2 * 3", add(pos(num("1")), pos(mul(pos(num("2")), pos(num("3")))))},
		{"grouping", "(1 + 2) * 3", mul(pos(add(pos(num("1")), pos(num("2")))), pos(num("3")))},
		{"fold-sum", "(x + y) - z", add(pos(x), pos(y), neg(z))},
		{"fold-product", "(x / y) * z", mul(pos(x), neg(y), pos(z))},
		{"fold-negated", "(-x) + y", add(neg(x), pos(y))},
		{"pow", "2^3", newPow(num("2"), num("3"))},
		{"pow-right-assoc", "2^3^2", newPow(num("2"), newPow(num("3"), num("2")))},
		{"neg-pow", "-2^2", add(neg(newPow(num("2"), num("2"))))},
		{"neg-product", "-x * y", add(neg(mul(pos(x), pos(y))))},
		{"pow-neg-exponent", "2^-x", newPow(num("2"), add(neg(x)))},
		{"pow-pos-exponent", "2^+x", newPow(num("2"), x)},
		{"mul-neg", "x * -y", mul(pos(x), pos(add(neg(y))))},
		{"div-neg", "x / -y", mul(pos(x), neg(add(neg(y))))},
		{"func", "sin(x)", newCall(FuncSin, x)},
		{"func-bare", "sin x", newCall(FuncSin, x)},
		{"func-nested", "sin cos x", newCall(FuncSin, newCall(FuncCos, x))},
		{"func-binds-tight", "sin x * 2", mul(pos(newCall(FuncSin, x)), pos(num("2")))},
		{"func-pow", "sqrt x^2", newPow(newCall(FuncSqrt, x), num("2"))},
		{"func-expr", "ln(x + 1)", newCall(FuncLn, add(pos(x), pos(num("1"))))},
		{"underscore-var", "var_12 * 2", mul(pos(newVariable("var_12")), pos(num("2")))},
		{
			"sample", "sin(x) * (1 + var_12)",
			mul(pos(newCall(FuncSin, x)), pos(add(pos(num("1")), pos(newVariable("var_12"))))),
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Parse(c.src)
			require.NoError(t, err)
			if d := diff(c.want, got); d != "" {
				t.Error(d)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  error
		pos  int
		rule string
	}{
		{"empty", "", ErrUnexpectedEnd, 1, "value"},
		{"blank", "   ", ErrUnexpectedEnd, 4, "value"},
		{"dangling-op", "1 +", ErrUnexpectedEnd, 4, "value"},
		{"dangling-pow", "2^", ErrUnexpectedEnd, 3, "value"},
		{"dangling-func", "sin", ErrUnexpectedEnd, 4, "value"},
		{"unclosed", "(1 + 2", ErrMissingClose, 7, "argument"},
		{"unclosed-wrong", "(1 2)", ErrMissingClose, 4, "argument"},
		{"trailing-close", "1 + 2)", ErrUnexpectedSymbol, 6, "expression"},
		{"juxtaposed", "1 2", ErrUnexpectedSymbol, 3, "expression"},
		{"implicit-mul", "2x", ErrUnexpectedSymbol, 2, "expression"},
		{"empty-parens", "()", ErrUnexpectedSymbol, 2, "value"},
		{"double-op", "1 * * 2", ErrUnexpectedSymbol, 5, "value"},
		{"sign-after-plus", "1 + -2", ErrUnexpectedSymbol, 5, "value"},
		{"sign-after-minus", "1 - -x", ErrUnexpectedSymbol, 5, "value"},
		{"double-sign", "--x", ErrUnexpectedSymbol, 2, "value"},
		{"close-first", ")", ErrUnexpectedSymbol, 1, "value"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			n, err := Parse(c.src)
			assert.Nil(t, n)
			require.ErrorIs(t, err, c.err)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, c.pos, perr.Pos())
			assert.Equal(t, c.rule, perr.Rule)
			var ierr InputError
			require.ErrorAs(t, err, &ierr)
			assert.Equal(t, c.pos, ierr.Pos())
		})
	}
}

func TestParseErrorMessages(t *testing.T) {
	_, err := Parse("(1 + 2")
	require.Error(t, err)
	assert.Equal(t, "7: close bracket expected in argument: found end of input", err.Error())

	_, err = Parse("1 + 2)")
	require.Error(t, err)
	assert.Equal(t, `6: unexpected symbol in expression: found ")"`, err.Error())

	_, err = Parse("1 & 2")
	require.Error(t, err)
	assert.Equal(t, `3: invalid token "&"`, err.Error())
}

func TestParseLexError(t *testing.T) {
	n, err := Parse("1 & 2")
	assert.Nil(t, n)
	var lerr *LexError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 3, lerr.Pos())
	assert.Equal(t, "&", lerr.Text)
	var perr *ParseError
	assert.False(t, errors.As(err, &perr))
}

func TestParseCustomTokenizer(t *testing.T) {
	t.Run("unknown-function", func(t *testing.T) {
		tok := NewTokenizer().
			MustAdd(`foo|sin`, Function).
			MustAdd(`[0-9]+`, Number)
		p := NewParser(tok)
		_, err := p.Parse("sin foo 1")
		require.ErrorIs(t, err, ErrUnknownFunction)
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, Token{Function, "foo", 5}, perr.Token)

		n, err := p.Parse("sin 1")
		require.NoError(t, err)
		assert.Empty(t, diff(newCall(FuncSin, num("1")), n))
	})
	t.Run("invalid-number", func(t *testing.T) {
		tok := NewTokenizer().MustAdd(`[0-9_]+`, Number)
		_, err := Parse("1_000", WithTokenizer(tok))
		require.ErrorIs(t, err, ErrInvalidNumber)
	})
	t.Run("huge-number", func(t *testing.T) {
		n, err := Parse("1e400")
		require.NoError(t, err)
		assert.Equal(t, ConstantNode, n.Kind())
		assert.Equal(t, "1e400", n.Text())
	})
	t.Run("words", func(t *testing.T) {
		tok := NewTokenizer().
			MustAdd(`plus|minus`, PlusMinus).
			MustAdd(`times`, Mult).
			MustAdd(`[0-9]+`, Number)
		n, err := NewParser(tok).Parse("1 minus 2 times 3")
		require.NoError(t, err)
		want := add(pos(num("1")), neg(mul(pos(num("2")), pos(num("3")))))
		assert.Empty(t, diff(want, n))
		// Only the literal "+" is positive.
		n, err = NewParser(tok).Parse("1 plus 2")
		require.NoError(t, err)
		assert.Empty(t, diff(add(pos(num("1")), neg(num("2"))), n))
	})
	t.Run("nil-tokenizer", func(t *testing.T) {
		assert.Panics(t, func() { Parse("1", WithTokenizer(nil)) })
	})
}

func TestNodeTermsCopy(t *testing.T) {
	n, err := Parse("(x + y) - z + w")
	require.NoError(t, err)
	require.Equal(t, AdditionNode, n.Kind())
	terms := n.Terms()
	require.Len(t, terms, 4)
	terms[0].Positive = false
	assert.True(t, n.Terms()[0].Positive)
}

func TestNodeString(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1", "1"},
		{"x", "x"},
		{"1 + 2", "(1 + 2)"},
		{"-x", "(-x)"},
		{"a - b + c", "(a - b + c)"},
		{"8 / 2 / 2", "(8 / 2 / 2)"},
		{"-2^2", "(-(2 ^ 2))"},
		{"2^3^2", "(2 ^ (3 ^ 2))"},
		{"sin(x) * 2", "(sin(x) * 2)"},
		{"sin cos x", "sin(cos(x))"},
		{"(x + y) - z", "(x + y - z)"},
		{"x * -y", "(x * (-y))"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			n, err := Parse(c.src)
			require.NoError(t, err)
			assert.Equal(t, c.want, n.String())
		})
	}
}

func TestNodeStringReparses(t *testing.T) {
	srcs := []string{
		"1 + 2 * 3",
		"-2^2",
		"2^-x",
		"x / -y * z",
		"(a + b) - (c - d)",
		"-(x * y) / -z",
		"sin x * cos(y) ^ 2",
		"sqrt(abs(-x)) - ln exp 1",
		"1 / (x / y)",
		"1e400 + .5",
	}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			n, err := Parse(src)
			require.NoError(t, err)
			m, err := Parse(n.String())
			require.NoError(t, err, "reparsing %q", n.String())
			if d := diff(n, m); d != "" {
				t.Errorf("%q reparsed differently: %s", n.String(), d)
			}
		})
	}
}

func TestNodeAccessors(t *testing.T) {
	n, err := Parse("sin(x)^2 - y")
	require.NoError(t, err)
	require.Equal(t, AdditionNode, n.Kind())
	terms := n.Terms()
	require.Len(t, terms, 2)
	assert.True(t, terms[0].Positive)
	assert.False(t, terms[1].Positive)

	p := terms[0].Node
	require.Equal(t, ExponentiationNode, p.Kind())
	assert.Equal(t, 2.0, p.Exponent().Value())
	call := p.Base()
	require.Equal(t, FunctionNode, call.Kind())
	assert.Equal(t, FuncSin, call.Func())
	assert.Equal(t, "x", call.Arg().Text())

	assert.Equal(t, "y", terms[1].Node.Text())
	assert.Nil(t, terms[1].Node.Base())
	assert.Nil(t, terms[1].Node.Exponent())
	assert.Nil(t, terms[1].Node.Arg())
	assert.Nil(t, call.Terms())
	assert.Equal(t, "Exponentiation", p.Kind().String())
}
