package exprtree

import (
	"errors"
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Func identifies a built-in function of one argument.
type Func int8

const (
	FuncSin Func = iota
	FuncCos
	FuncTan
	FuncAsin
	FuncAcos
	FuncAtan
	FuncSinh
	FuncCosh
	FuncTanh
	FuncExp
	FuncLn
	FuncLog
	FuncSqrt
	FuncAbs

	numFuncs
)

var funcNames = [numFuncs]string{
	FuncSin:  "sin",
	FuncCos:  "cos",
	FuncTan:  "tan",
	FuncAsin: "asin",
	FuncAcos: "acos",
	FuncAtan: "atan",
	FuncSinh: "sinh",
	FuncCosh: "cosh",
	FuncTanh: "tanh",
	FuncExp:  "exp",
	FuncLn:   "ln",
	FuncLog:  "log",
	FuncSqrt: "sqrt",
	FuncAbs:  "abs",
}

var floatFuncs = [numFuncs]func(float64) float64{
	FuncSin:  math.Sin,
	FuncCos:  math.Cos,
	FuncTan:  math.Tan,
	FuncAsin: math.Asin,
	FuncAcos: math.Acos,
	FuncAtan: math.Atan,
	FuncSinh: math.Sinh,
	FuncCosh: math.Cosh,
	FuncTanh: math.Tanh,
	FuncExp:  math.Exp,
	FuncLn:   math.Log,
	FuncLog:  math.Log10,
	FuncSqrt: math.Sqrt,
	FuncAbs:  math.Abs,
}

// bigFuncs holds arbitrary-precision implementations. Nil entries have none.
// Each function returns its result, which is not always out, and may panic
// with big.ErrNaN or *DomainError for arguments outside its domain.
var bigFuncs = [numFuncs]func(out, in *big.Float) *big.Float{
	FuncExp: bigfloat.Exp,
	FuncLn: func(out, in *big.Float) *big.Float {
		if in.Sign() <= 0 {
			panic(&DomainError{X: in, Func: "ln"})
		}
		return bigfloat.Log(out, in)
	},
	FuncLog: func(out, in *big.Float) *big.Float {
		if in.Sign() <= 0 {
			panic(&DomainError{X: in, Func: "log"})
		}
		l := bigfloat.Log(out, in)
		ten := new(big.Float).SetPrec(out.Prec()).SetInt64(10)
		return out.Quo(l, bigfloat.Log(ten, ten))
	},
	FuncSqrt: func(out, in *big.Float) *big.Float {
		if in.Sign() < 0 {
			panic(&DomainError{X: in, Func: "sqrt"})
		}
		return out.Sqrt(in)
	},
	FuncAbs: (*big.Float).Abs,
}

// LookupFunc returns the built-in function with the given name.
func LookupFunc(name string) (Func, bool) {
	for f, n := range funcNames {
		if n == name {
			return Func(f), true
		}
	}
	return 0, false
}

// Funcs returns the names of all built-in functions.
func Funcs() []string {
	return append([]string(nil), funcNames[:]...)
}

func (f Func) String() string {
	if f < 0 || f >= numFuncs {
		return "Func(" + strconv.Itoa(int(f)) + ")"
	}
	return funcNames[f]
}

// Call applies the function to x.
func (f Func) Call(x float64) float64 {
	return floatFuncs[f](x)
}

// CallBig sets r to the function applied to x at the precision of r.
func (f Func) CallBig(r, x *big.Float) (err error) {
	fn := bigFuncs[f]
	if fn == nil {
		return &PrecisionError{Func: f.String()}
	}
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		var ok bool
		err, ok = p.(error)
		if !ok {
			panic(p)
		}
		var de *DomainError
		if errors.As(err, &de) {
			err = de
			return
		}
		var nan big.ErrNaN
		if errors.As(err, &nan) {
			err = &DomainError{X: new(big.Float).Copy(x), Func: f.String()}
			return
		}
		panic(p)
	}()
	r.Set(fn(r, x))
	return nil
}

// DomainError is an error returned by arbitrary-precision evaluation when an
// operation is applied outside its domain. Float64 evaluation produces NaN or
// Inf in those cases instead. DomainError unwraps to big.ErrNaN.
type DomainError struct {
	// X is the out-of-domain argument. It is nil when the argument is itself
	// NaN.
	X *big.Float
	// Func is a name identifying the operation.
	Func string
}

func (err *DomainError) Error() string {
	r := "NaN"
	if err.X != nil {
		r = err.X.String()
	}
	r += " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	return r
}

func (err *DomainError) Unwrap() error {
	return big.ErrNaN{}
}

// PrecisionError is an error returned by arbitrary-precision evaluation of a
// function that has no arbitrary-precision implementation.
type PrecisionError struct {
	// Func is the function name.
	Func string
}

func (err *PrecisionError) Error() string {
	return "no arbitrary-precision implementation of " + err.Func
}
