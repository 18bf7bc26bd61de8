package exprtree

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Bindings supplies variable values for evaluation.
type Bindings interface {
	// Lookup returns the value of the named variable and whether it is bound.
	Lookup(name string) (float64, bool)
}

// BigBindings supplies variable values for arbitrary-precision evaluation.
type BigBindings interface {
	// LookupBig returns the value of the named variable and whether it is
	// bound. A bound variable with a nil value has no arbitrary-precision
	// representation. The caller does not modify the result.
	LookupBig(name string) (*big.Float, bool)
}

// Vars is a map of variable names to values. It implements Bindings and
// BigBindings. A nil Vars binds nothing.
type Vars map[string]float64

func (v Vars) Lookup(name string) (float64, bool) {
	x, ok := v[name]
	return x, ok
}

// LookupBig reports a variable bound to NaN as bound with a nil value.
func (v Vars) LookupBig(name string) (*big.Float, bool) {
	x, ok := v[name]
	if !ok || math.IsNaN(x) {
		return nil, ok
	}
	return big.NewFloat(x), true
}

// BigVars is a map of variable names to arbitrary-precision values.
type BigVars map[string]*big.Float

func (v BigVars) LookupBig(name string) (*big.Float, bool) {
	x, ok := v[name]
	return x, ok
}

// BindingsFunc adapts a function to Bindings.
type BindingsFunc func(name string) (float64, bool)

func (f BindingsFunc) Lookup(name string) (float64, bool) {
	return f(name)
}

// Eval evaluates the tree. The only error is *NameError for a variable that b
// does not bind. Division by zero and operations outside their domain follow
// IEEE 754 and produce infinities or NaN rather than errors.
func (n *Node) Eval(b Bindings) (float64, error) {
	if b == nil {
		b = Vars(nil)
	}
	return n.eval(b)
}

func (n *Node) eval(b Bindings) (float64, error) {
	switch n.kind {
	case ConstantNode:
		return n.value, nil
	case VariableNode:
		v, ok := b.Lookup(n.name)
		if !ok {
			return 0, &NameError{Name: n.name}
		}
		return v, nil
	case AdditionNode:
		var sum float64
		for _, t := range n.terms {
			v, err := t.Node.eval(b)
			if err != nil {
				return 0, err
			}
			if t.Positive {
				sum += v
			} else {
				sum -= v
			}
		}
		return sum, nil
	case MultiplicationNode:
		prod := 1.0
		for _, t := range n.terms {
			v, err := t.Node.eval(b)
			if err != nil {
				return 0, err
			}
			if t.Positive {
				prod *= v
			} else {
				prod /= v
			}
		}
		return prod, nil
	case ExponentiationNode:
		x, err := n.left.eval(b)
		if err != nil {
			return 0, err
		}
		y, err := n.right.eval(b)
		if err != nil {
			return 0, err
		}
		return math.Pow(x, y), nil
	case FunctionNode:
		x, err := n.left.eval(b)
		if err != nil {
			return 0, err
		}
		return n.fn.Call(x), nil
	default:
		panic("exprtree: invalid node kind " + n.kind.String())
	}
}

// EvalBig evaluates the tree with prec bits of precision. Because big.Float
// cannot represent NaN, operations outside their domain return *DomainError,
// including 0/0, Inf/Inf, and negative bases raised to non-integer powers.
// Functions without an arbitrary-precision implementation return
// *PrecisionError. If prec is 0, it is 64.
func (n *Node) EvalBig(b BigBindings, prec uint) (*big.Float, error) {
	if prec == 0 {
		prec = 64
	}
	if b == nil {
		b = BigVars(nil)
	}
	r := new(big.Float).SetPrec(prec)
	if err := n.evalBig(b, r); err != nil {
		return nil, err
	}
	return r, nil
}

// evalBig sets r to the value of n at the precision of r.
func (n *Node) evalBig(b BigBindings, r *big.Float) error {
	switch n.kind {
	case ConstantNode:
		if _, _, err := r.Parse(n.name, 10); err != nil {
			// Custom number rules can match text that strconv accepts but
			// big.Float does not, such as nan.
			if math.IsNaN(n.value) {
				return &DomainError{Func: "constant " + strconv.Quote(n.name)}
			}
			r.SetFloat64(n.value)
		}
	case VariableNode:
		v, ok := b.LookupBig(n.name)
		if !ok {
			return &NameError{Name: n.name}
		}
		if v == nil {
			return &DomainError{Func: "variable " + strconv.Quote(n.name)}
		}
		r.Set(v)
	case AdditionNode:
		r.SetInt64(0)
		v := new(big.Float).SetPrec(r.Prec())
		for _, t := range n.terms {
			if err := t.Node.evalBig(b, v); err != nil {
				return err
			}
			// Inf - Inf is the only way addition panics.
			if r.IsInf() && v.IsInf() && (r.Signbit() != v.Signbit()) == t.Positive {
				return &DomainError{X: new(big.Float).Copy(v), Func: "+"}
			}
			if t.Positive {
				r.Add(r, v)
			} else {
				r.Sub(r, v)
			}
		}
	case MultiplicationNode:
		r.SetInt64(1)
		v := new(big.Float).SetPrec(r.Prec())
		for _, t := range n.terms {
			if err := t.Node.evalBig(b, v); err != nil {
				return err
			}
			if t.Positive {
				if r.Sign() == 0 && v.IsInf() || r.IsInf() && v.Sign() == 0 {
					return &DomainError{X: new(big.Float).Copy(v), Func: "*"}
				}
				r.Mul(r, v)
			} else {
				if r.Sign() == 0 && v.Sign() == 0 || r.IsInf() && v.IsInf() {
					return &DomainError{X: new(big.Float).Copy(v), Func: "/"}
				}
				r.Quo(r, v)
			}
		}
	case ExponentiationNode:
		if err := n.left.evalBig(b, r); err != nil {
			return err
		}
		y := new(big.Float).SetPrec(r.Prec())
		if err := n.right.evalBig(b, y); err != nil {
			return err
		}
		return powBig(r, r, y)
	case FunctionNode:
		x := new(big.Float).SetPrec(r.Prec())
		if err := n.left.evalBig(b, x); err != nil {
			return err
		}
		return n.fn.CallBig(r, x)
	default:
		panic("exprtree: invalid node kind " + n.kind.String())
	}
	return nil
}

// powBig sets z to x^y. bigfloat.Pow only handles positive bases, so negative
// bases are allowed only with integer exponents.
func powBig(z, x, y *big.Float) error {
	switch {
	case y.Sign() == 0:
		z.SetInt64(1)
		return nil
	case x.Sign() == 0:
		if y.Signbit() {
			z.SetInf(false)
		} else {
			z.SetInt64(0)
		}
		return nil
	case x.IsInf() || y.IsInf():
		// Leave infinities to float64, where the rules are well defined.
		xf, _ := x.Float64()
		yf, _ := y.Float64()
		p := math.Pow(xf, yf)
		if math.IsNaN(p) {
			return &DomainError{X: new(big.Float).Copy(x), Func: "^"}
		}
		z.SetFloat64(p)
		return nil
	case !x.Signbit():
		// Pow may return a new value rather than its first argument.
		z.Set(bigfloat.Pow(z, x, y))
		return nil
	case !y.IsInt():
		return &DomainError{X: new(big.Float).Copy(x), Func: "^"}
	}
	// Negative base, integer exponent: |x|^y with the sign of an odd power.
	odd := false
	if i, acc := y.Int(nil); acc == big.Exact {
		odd = i.Bit(0) == 1
	}
	a := new(big.Float).Abs(x)
	z.Set(bigfloat.Pow(z, a, y))
	if odd {
		z.Neg(z)
	}
	return nil
}

// EvalString parses text with the default tokenizer and evaluates it.
func EvalString(text string, b Bindings) (float64, error) {
	n, err := Parse(text)
	if err != nil {
		return 0, err
	}
	return n.Eval(b)
}

// NameError is an error from a lookup for a variable that is not bound.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "unbound variable: " + strconv.Quote(err.Name)
}
