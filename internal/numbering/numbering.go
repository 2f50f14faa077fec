// Package numbering synthesizes human-readable invoice numbers.
//
// Generated numbers have the form <prefix>YYYYMMDD-HHMMSS. They are only as
// unique as the wall clock at second granularity: two invoices finalized in
// the same second without a caller-supplied number receive the same number.
// The persistence layer rejects the second one (see store.ErrDuplicateNumber).
package numbering

import (
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultPrefix is used when no prefix is supplied
const DefaultPrefix = "INV-"

const layout = "20060102-150405"

// Generator resolves invoice numbers
type Generator struct {
	clock    clockwork.Clock
	location *time.Location
	prefix   string
}

// Option configures a Generator
type Option func(*Generator)

// WithClock sets the time source
func WithClock(c clockwork.Clock) Option {
	return func(g *Generator) {
		g.clock = c
	}
}

// WithLocation sets the time zone the date and time digits are rendered in
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		if loc != nil {
			g.location = loc
		}
	}
}

// WithPrefix overrides DefaultPrefix for numbers generated without an explicit prefix
func WithPrefix(prefix string) Option {
	return func(g *Generator) {
		if prefix != "" {
			g.prefix = prefix
		}
	}
}

// NewGenerator creates a generator reading the real clock in local time
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		clock:    clockwork.NewRealClock(),
		location: time.Local,
		prefix:   DefaultPrefix,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Resolve returns supplied verbatim when it is not blank, otherwise a
// time-derived number using prefix (or the generator default when empty).
func (g *Generator) Resolve(supplied, prefix string) string {
	return g.ResolveAt(supplied, prefix, g.clock.Now())
}

// ResolveAt is Resolve with the instant supplied by the caller
func (g *Generator) ResolveAt(supplied, prefix string, now time.Time) string {
	if strings.TrimSpace(supplied) != "" {
		return supplied
	}
	return g.GenerateAt(prefix, now)
}

// Generate always synthesizes a new number from the current time
func (g *Generator) Generate(prefix string) string {
	return g.GenerateAt(prefix, g.clock.Now())
}

// GenerateAt synthesizes a number from now rendered in the generator's time zone
func (g *Generator) GenerateAt(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = g.prefix
	}
	return Format(prefix, now.In(g.location))
}

// Format renders t as <prefix>YYYYMMDD-HHMMSS
func Format(prefix string, t time.Time) string {
	return prefix + t.Format(layout)
}
