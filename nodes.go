package exprtree

import (
	"sort"
	"strconv"
	"strings"
)

// NodeKind tags the variant of a Node.
type NodeKind int8

const (
	ConstantNode       NodeKind = iota // numeric literal
	VariableNode                       // lookup(name)
	AdditionNode                       // sum of signed terms
	MultiplicationNode                 // product of terms; negative terms divide
	ExponentiationNode                 // left ^ right
	FunctionNode                       // fn(left)
)

var nodeKindNames = [...]string{
	ConstantNode:       "Constant",
	VariableNode:       "Variable",
	AdditionNode:       "Addition",
	MultiplicationNode: "Multiplication",
	ExponentiationNode: "Exponentiation",
	FunctionNode:       "Function",
}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "NodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeKindNames[k]
}

// Node is a node of an expression tree. Trees are built by the parser and are
// never modified afterward, so a tree may be evaluated concurrently. Each node
// is owned by exactly one parent.
type Node struct {
	kind NodeKind

	// name is the literal text of a constant or the name of a variable.
	name  string
	value float64
	fn    Func

	// terms holds the children of addition and multiplication nodes.
	terms []Term

	// left is the base of an exponentiation or the argument of a function.
	// right is the exponent.
	left  *Node
	right *Node
}

// Term is a signed child of an addition or multiplication node. In an
// addition a negative term is subtracted; in a multiplication it divides.
type Term struct {
	Node     *Node
	Positive bool
}

func newConstant(text string, value float64) *Node {
	return &Node{kind: ConstantNode, name: text, value: value}
}

func newVariable(name string) *Node {
	return &Node{kind: VariableNode, name: name}
}

func newSequence(kind NodeKind, terms []Term) *Node {
	if len(terms) == 0 {
		panic("exprtree: empty " + kind.String() + " node")
	}
	return &Node{kind: kind, terms: terms}
}

func newPow(base, exponent *Node) *Node {
	return &Node{kind: ExponentiationNode, left: base, right: exponent}
}

func newCall(fn Func, arg *Node) *Node {
	return &Node{kind: FunctionNode, fn: fn, left: arg}
}

// Kind returns the variant of n.
func (n *Node) Kind() NodeKind {
	return n.kind
}

// Value returns the value of a constant node. It is zero for other kinds.
func (n *Node) Value() float64 {
	return n.value
}

// Text returns the literal text of a constant node or the name of a variable
// node.
func (n *Node) Text() string {
	return n.name
}

// Terms returns a copy of the terms of an addition or multiplication node.
func (n *Node) Terms() []Term {
	return append([]Term(nil), n.terms...)
}

// Base returns the base of an exponentiation node.
func (n *Node) Base() *Node {
	if n.kind != ExponentiationNode {
		return nil
	}
	return n.left
}

// Exponent returns the exponent of an exponentiation node.
func (n *Node) Exponent() *Node {
	if n.kind != ExponentiationNode {
		return nil
	}
	return n.right
}

// Func returns the function of a function node.
func (n *Node) Func() Func {
	return n.fn
}

// Arg returns the argument of a function node.
func (n *Node) Arg() *Node {
	if n.kind != FunctionNode {
		return nil
	}
	return n.left
}

// Vars returns the sorted names of the variables used in the tree.
func (n *Node) Vars() []string {
	seen := make(map[string]bool)
	n.walk(func(m *Node) {
		if m.kind == VariableNode {
			seen[m.name] = true
		}
	})
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// walk calls f on n and all its descendants in pre-order.
func (n *Node) walk(f func(*Node)) {
	f(n)
	switch n.kind {
	case ConstantNode, VariableNode:
	case AdditionNode, MultiplicationNode:
		for _, t := range n.terms {
			t.Node.walk(f)
		}
	case ExponentiationNode:
		n.left.walk(f)
		n.right.walk(f)
	case FunctionNode:
		n.left.walk(f)
	default:
		panic("exprtree: invalid node kind " + n.kind.String())
	}
}

// String formats the tree with every addition, multiplication and
// exponentiation in parentheses. The result parses back to an equivalent tree.
func (n *Node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *Node) fmt(b *strings.Builder) {
	switch n.kind {
	case ConstantNode, VariableNode:
		b.WriteString(n.name)
	case AdditionNode:
		b.WriteByte('(')
		for i, t := range n.terms {
			switch {
			case !t.Positive && i == 0:
				b.WriteByte('-')
			case !t.Positive:
				b.WriteString(" - ")
			case i > 0:
				b.WriteString(" + ")
			}
			t.Node.fmt(b)
		}
		b.WriteByte(')')
	case MultiplicationNode:
		b.WriteByte('(')
		for i, t := range n.terms {
			switch {
			case !t.Positive && i == 0:
				b.WriteString("1 / ")
			case !t.Positive:
				b.WriteString(" / ")
			case i > 0:
				b.WriteString(" * ")
			}
			t.Node.fmt(b)
		}
		b.WriteByte(')')
	case ExponentiationNode:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteString(" ^ ")
		n.right.fmt(b)
		b.WriteByte(')')
	case FunctionNode:
		b.WriteString(n.fn.String())
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteByte(')')
	default:
		panic("exprtree: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}
