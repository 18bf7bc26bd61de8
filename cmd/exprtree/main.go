// Command exprtree parses and evaluates arithmetic expressions.
package main

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/exprtree"
	"github.com/zephyrtronium/exprtree/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	in, verb    string
	given       []string
	vars, rules string
	prec        uint
	echo, dump  bool
	trace       bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "exprtree [flags] [expr...]",
		Short: "Evaluate arithmetic expressions",
		Long: "Evaluate each expression given as an argument, or each line of the input\n" +
			"file (default stdin if no args given).",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, &opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.in, "in", "", "input file, one expression per line (default stdin if no args given)")
	f.StringVar(&opts.verb, "fmt", "%g", "result formatting string")
	f.StringArrayVar(&opts.given, "given", nil, "name=value variable definition (any number of times)")
	f.StringVar(&opts.vars, "vars", "", "YAML file of variable values (env EXPRTREE_VARS)")
	f.StringVar(&opts.rules, "rules", "", "YAML file of tokenizer rules (env EXPRTREE_RULES)")
	f.UintVarP(&opts.prec, "prec", "p", 0, "precision of calculations in bits; 0 uses float64")
	f.BoolVar(&opts.echo, "echo", false, "print parse trees")
	f.BoolVar(&opts.dump, "dump", false, "dump parse trees in full")
	f.BoolVar(&opts.trace, "trace", false, "log grammar decisions to stderr")
	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	vars := exprtree.Vars{}
	if name := flagOrEnv("EXPRTREE_VARS", opts.vars); name != "" {
		v, err := loadFile(name, config.LoadVars)
		if err != nil {
			return err
		}
		vars = v
	}
	given := exprtree.BigVars{}
	for _, d := range opts.given {
		if opts.prec == 0 {
			name, v, err := config.ParseGiven(d)
			if err != nil {
				return err
			}
			vars[name] = v
			continue
		}
		name, v, err := config.ParseGivenBig(d, opts.prec)
		if err != nil {
			return err
		}
		given[name] = v
	}

	var popts []exprtree.ParseOption
	if name := flagOrEnv("EXPRTREE_RULES", opts.rules); name != "" {
		tok, err := loadFile(name, config.LoadRules)
		if err != nil {
			return err
		}
		popts = append(popts, exprtree.WithTokenizer(tok))
	}
	if opts.trace {
		w := zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}}
		popts = append(popts, exprtree.TraceWith(exprtree.ZerologTracer(zerolog.New(w).Level(zerolog.DebugLevel))))
	}

	srcs := args
	if opts.in != "" || len(args) == 0 {
		lines, err := readLines(cmd.InOrStdin(), opts.in)
		if err != nil {
			return err
		}
		srcs = append(lines, srcs...)
	}

	out := cmd.OutOrStdout()
	verb := opts.verb + "\n"
	failed := 0
	for _, src := range srcs {
		n, err := exprtree.Parse(src, popts...)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", src, err)
			failed++
			continue
		}
		if opts.echo {
			fmt.Fprintf(out, "%v : ", n)
		}
		if opts.dump {
			spew.Fdump(out, n)
		}
		var r interface{}
		if opts.prec == 0 {
			r, err = n.Eval(vars)
		} else {
			var x *big.Float
			x, err = n.EvalBig(bigBindings{given: given, vars: vars}, opts.prec)
			r = x
		}
		if err != nil {
			fmt.Fprintln(out, err)
			failed++
			continue
		}
		fmt.Fprintf(out, verb, r)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d expressions failed", failed, len(srcs))
	}
	return nil
}

// bigBindings looks up --given values before those from the vars file.
type bigBindings struct {
	given exprtree.BigVars
	vars  exprtree.Vars
}

func (b bigBindings) LookupBig(name string) (*big.Float, bool) {
	if v, ok := b.given[name]; ok {
		return v, true
	}
	return b.vars.LookupBig(name)
}

func loadFile[T any](name string, load func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(name)
	if err != nil {
		var zero T
		return zero, err
	}
	defer f.Close()
	v, err := load(f)
	if err != nil {
		return v, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// readLines reads non-blank lines from the named file, or from stdin if name
// is empty or "-".
func readLines(stdin io.Reader, name string) ([]string, error) {
	r := stdin
	if name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			lines = append(lines, s)
		}
	}
	return lines, sc.Err()
}

// flagOrEnv returns the flag value if set, otherwise the environment
// variable key.
func flagOrEnv(key, flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(key)
}
