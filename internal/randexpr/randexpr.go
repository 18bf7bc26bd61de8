// Package randexpr generates random well-formed expressions for benchmarks.
package randexpr

import (
	"math/rand"
	"strings"
)

var (
	values = []string{"1", "2", "3.5", "10", ".25", "1e2", "x", "y", "var_12"}
	ops    = []string{" + ", " - ", " * ", " / ", "^"}
	funcs  = []string{"sin", "cos", "exp", "ln", "sqrt", "abs"}
)

// Expression returns a random expression with about size values, using the
// variables x, y, and var_12.
func Expression(rng *rand.Rand, size int) string {
	var b strings.Builder
	depth := 0
	// A sign may start an expression or follow *, / or ^, but the grammar has
	// no sign after a binary + or -.
	signed := true
	for i := 0; i < size; i++ {
		if i > 0 {
			k := rng.Intn(len(ops))
			b.WriteString(ops[k])
			signed = k >= 2
		}
		switch rng.Intn(6) {
		case 0:
			if signed {
				b.WriteString("-")
			}
		case 1:
			b.WriteString(funcs[rng.Intn(len(funcs))])
			b.WriteString("(")
			depth++
		case 2:
			b.WriteString("(")
			depth++
		}
		b.WriteString(values[rng.Intn(len(values))])
		if depth > 0 && rng.Intn(3) == 0 {
			b.WriteString(")")
			depth--
		}
	}
	b.WriteString(strings.Repeat(")", depth))
	return b.String()
}
