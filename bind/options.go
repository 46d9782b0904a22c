package bind

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/notation/rules"
)

// DefaultMaxDepth limits how deeply values may nest.
const DefaultMaxDepth = 512

// Option configures a Binder.
type Option func(*Binder)

// WithRegistry resolves type tags and enum names through r.
func WithRegistry(r *Registry) Option {
	return func(b *Binder) {
		b.registry = r
	}
}

// WithRules tokenizes with r instead of the standard rules.
func WithRules(r *rules.Rules) Option {
	return func(b *Binder) {
		b.rules = r
	}
}

// FailFast stops binding at the first error.
func FailFast() Option {
	return func(b *Binder) {
		b.failFast = true
	}
}

// MaxDepth sets the nesting limit. Values nested deeper are reported as
// errors and left unbound.
func MaxDepth(n int) Option {
	return func(b *Binder) {
		b.maxDepth = n
	}
}

// WithLogger sets the logger type switches and limit hits are reported to.
func WithLogger(log commonlog.Logger) Option {
	return func(b *Binder) {
		b.log = log
	}
}
