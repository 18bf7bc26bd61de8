// Package config loads tokenizer rules and variable bindings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/exprtree"
)

// Rule is one tokenizer rule as written in a rules file.
type Rule struct {
	Pattern string `yaml:"pattern"`
	Kind    string `yaml:"kind"`
}

// RuleFile is the layout of a rules file. Rules are registered in file order.
//
//	rules:
//	  - pattern: 'sin|cos|exp|ln|sqrt'
//	    kind: FUNCTION
//	  - pattern: '[0-9]+'
//	    kind: NUMBER
type RuleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads a rules file and builds a tokenizer from it.
func LoadRules(r io.Reader) (*exprtree.Tokenizer, error) {
	var f RuleFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("rules file is empty")
		}
		return nil, fmt.Errorf("decoding rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, errors.New("rules file has no rules")
	}
	tok := exprtree.NewTokenizer()
	for i, rule := range f.Rules {
		kind, err := exprtree.ParseTokenKind(rule.Kind)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		if err := tok.Add(rule.Pattern, kind); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
	}
	return tok, nil
}

// LoadVars reads a YAML mapping of variable names to numbers.
func LoadVars(r io.Reader) (exprtree.Vars, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return exprtree.Vars{}, nil
		}
		return nil, fmt.Errorf("decoding variables: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return exprtree.Vars{}, nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("variables must be a mapping, got line %d", m.Line)
	}
	vars := make(exprtree.Vars, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		var x float64
		if err := v.Decode(&x); err != nil {
			return nil, fmt.Errorf("variable %q at line %d: %w", k.Value, v.Line, err)
		}
		vars[k.Value] = x
	}
	return vars, nil
}

// ParseGiven parses a "name=value" definition. The value is an expression
// evaluated with no variables bound.
func ParseGiven(s string) (string, float64, error) {
	name, n, err := parseGiven(s)
	if err != nil {
		return "", 0, err
	}
	v, err := n.Eval(nil)
	if err != nil {
		return "", 0, fmt.Errorf("setting %s: %w", name, err)
	}
	return name, v, nil
}

// ParseGivenBig is like ParseGiven but evaluates the value with prec bits of
// precision.
func ParseGivenBig(s string, prec uint) (string, *big.Float, error) {
	name, n, err := parseGiven(s)
	if err != nil {
		return "", nil, err
	}
	v, err := n.EvalBig(nil, prec)
	if err != nil {
		return "", nil, fmt.Errorf("setting %s: %w", name, err)
	}
	return name, v, nil
}

func parseGiven(s string) (string, *exprtree.Node, error) {
	d := strings.SplitN(s, "=", 2)
	if len(d) != 2 {
		return "", nil, fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
	}
	name := strings.TrimSpace(d[0])
	if name == "" {
		return "", nil, fmt.Errorf("missing variable name in %q", s)
	}
	n, err := exprtree.Parse(d[1])
	if err != nil {
		return "", nil, fmt.Errorf("setting %s: %w", name, err)
	}
	return name, n, nil
}
