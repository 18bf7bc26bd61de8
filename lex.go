package exprtree

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

type rule struct {
	re   *regexp.Regexp
	kind TokenKind
}

// Tokenizer splits input into tokens using an ordered list of rules. Rules are
// tried in the order they were added and the first one to match wins, so the
// order decides how ambiguous prefixes are classified. For example, a
// function-name rule must come before a variable rule, otherwise "sin" lexes
// as a variable.
//
// Tokenize does not modify the Tokenizer, so it may be called concurrently, but
// not concurrently with Add.
type Tokenizer struct {
	rules []rule
}

// NewTokenizer creates a tokenizer with no rules.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Add registers a rule after all existing ones. The pattern uses the syntax of
// package regexp and is matched only at the current input position.
func (t *Tokenizer) Add(pattern string, kind TokenKind) error {
	if kind < Number || kind >= Epsilon {
		return &RuleError{Pattern: pattern, Kind: kind}
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return &RuleError{Pattern: pattern, Kind: kind, Err: err}
	}
	t.rules = append(t.rules, rule{re: re, kind: kind})
	return nil
}

// MustAdd is like Add but panics if the rule is invalid. It returns t so that
// calls can be chained.
func (t *Tokenizer) MustAdd(pattern string, kind TokenKind) *Tokenizer {
	if err := t.Add(pattern, kind); err != nil {
		panic("exprtree: " + err.Error())
	}
	return t
}

// Len returns the number of registered rules.
func (t *Tokenizer) Len() int {
	return len(t.rules)
}

// Tokenize scans text from left to right. Leading whitespace before each token
// is skipped. If no rule matches at a non-whitespace position, the result is a
// *LexError and no tokens. Rules that match the empty string are treated as not matching.
func (t *Tokenizer) Tokenize(text string) ([]Token, error) {
	var toks []Token
	col := 1
	for len(text) > 0 {
		r, sz := utf8.DecodeRuneInString(text)
		if unicode.IsSpace(r) {
			text = text[sz:]
			col++
			continue
		}
		tok, ok := t.match(text)
		if !ok {
			return nil, &LexError{Text: string(r), Col: col}
		}
		tok.Pos = col
		toks = append(toks, tok)
		text = text[len(tok.Sequence):]
		col += utf8.RuneCountInString(tok.Sequence)
	}
	return toks, nil
}

func (t *Tokenizer) match(text string) (Token, bool) {
	for _, r := range t.rules {
		loc := r.re.FindStringIndex(text)
		if loc == nil || loc[1] == 0 {
			continue
		}
		return Token{Kind: r.kind, Sequence: text[:loc[1]]}, true
	}
	return Token{}, false
}

// Standard patterns used by DefaultTokenizer.
const (
	NumberPattern   = `(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`
	VariablePattern = `[a-zA-Z_][a-zA-Z0-9_]*`
)

// FunctionPattern returns a pattern matching the name of any built-in function
// as a whole word.
func FunctionPattern() string {
	names := make([]string, 0, len(funcNames))
	for _, name := range funcNames {
		names = append(names, regexp.QuoteMeta(name))
	}
	// Longer names first so that e.g. sinh is not read as sin.
	sort.SliceStable(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	return `(?:` + strings.Join(names, "|") + `)\b`
}

// DefaultTokenizer returns a new tokenizer with the standard rules: function
// names, brackets, operators, numbers, and variables, in that order.
func DefaultTokenizer() *Tokenizer {
	return NewTokenizer().
		MustAdd(FunctionPattern(), Function).
		MustAdd(`\(`, OpenBracket).
		MustAdd(`\)`, CloseBracket).
		MustAdd(`[+-]`, PlusMinus).
		MustAdd(`\*`, Mult).
		MustAdd(`/`, Div).
		MustAdd(`\^`, Raised).
		MustAdd(NumberPattern, Number).
		MustAdd(VariablePattern, Variable)
}
