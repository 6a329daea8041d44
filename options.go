package formcheck

import "log/slog"

// Option configures a Validator during construction.
type Option func(*Validator)

// WithSubExpressions permits rules to carry sub expressions. Without this
// option any rule using one fails fatally with ErrSubExpressionsDisabled.
// Expressions evaluate in a sandbox with only the candidate value bound;
// they cannot reach the filesystem, network, or process state.
func WithSubExpressions() Option {
	return func(v *Validator) {
		v.allowSubs = true
	}
}

// WithLogger sets the logger used for ingestion summaries and fatal checker
// failures. Defaults to a logger that discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(v *Validator) {
		if log != nil {
			v.log = log
		}
	}
}

// WithChecker registers a named checker plugin at construction time.
// Registering under a built-in criterion name (min, max, regex, length, enum)
// replaces that criterion's implementation.
func WithChecker(name string, fn CheckerFunc) Option {
	return func(v *Validator) {
		if name != "" && fn != nil {
			v.checkers[name] = fn
		}
	}
}
