package exprtree

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

// parsectx holds the configuration shared by every parse with the same
// options.
type parsectx struct {
	// tok splits input into tokens.
	tok *Tokenizer
	// trace receives grammar decisions.
	trace Tracer
}

type (
	traceopt struct{ t Tracer }
	tokopt   struct{ t *Tokenizer }
)

// TraceWith sends every grammar decision and token consumption to t. A nil t
// disables tracing, which is the default.
func TraceWith(t Tracer) ParseOption {
	return traceopt{t}
}

func (o traceopt) parseOption(p parsectx) parsectx {
	p.trace = o.t
	if p.trace == nil {
		p.trace = nopTracer{}
	}
	return p
}

// WithTokenizer parses using t instead of the default tokenizer. The
// tokenizer must not be modified while it is in use.
func WithTokenizer(t *Tokenizer) ParseOption {
	return tokopt{t}
}

func (o tokopt) parseOption(p parsectx) parsectx {
	if o.t == nil {
		panic("exprtree: nil tokenizer")
	}
	p.tok = o.t
	return p
}

// defaultTokenizer is never modified after initialization.
var defaultTokenizer = DefaultTokenizer()

func newParsectx(opts []ParseOption) parsectx {
	p := parsectx{tok: defaultTokenizer, trace: nopTracer{}}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		p = opt.parseOption(p)
	}
	return p
}
