package exprtree

import "github.com/rs/zerolog"

// Tracer receives the parser's grammar decisions. Rule is called each time the
// parser selects a production, with the lookahead that selected it. Consume is
// called each time the parser discards the front token.
type Tracer interface {
	Rule(production string, lookahead Token)
	Consume(tok Token)
}

type nopTracer struct{}

func (nopTracer) Rule(string, Token) {}
func (nopTracer) Consume(Token)      {}

type zerologTracer struct {
	log zerolog.Logger
}

// ZerologTracer returns a Tracer that logs each grammar decision as a debug
// event.
func ZerologTracer(log zerolog.Logger) Tracer {
	return zerologTracer{log: log}
}

func (t zerologTracer) Rule(production string, lookahead Token) {
	t.log.Debug().
		Str("rule", production).
		Stringer("kind", lookahead.Kind).
		Str("seq", lookahead.Sequence).
		Int("pos", lookahead.Pos).
		Msg("rule")
}

func (t zerologTracer) Consume(tok Token) {
	t.log.Debug().
		Stringer("kind", tok.Kind).
		Str("seq", tok.Sequence).
		Int("pos", tok.Pos).
		Msg("consumed")
}
