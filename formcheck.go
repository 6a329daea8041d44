package formcheck

import (
	"context"
	"log/slog"
	"os"
	"regexp"
	"slices"
)

// Validator is a rule-driven form validation engine. It is built once from a
// YAML rule document mapping sections (forms) to fields to validation
// criteria, and thereafter validates single values or whole forms against the
// resulting field index.
//
// All operations run synchronously. Promote and Demote mutate the index and
// need external mutual exclusion if they can race with any other call on the
// same Validator.
type Validator struct {
	index     *fieldIndex
	checkers  map[string]CheckerFunc
	allowSubs bool
	log       *slog.Logger
}

// New builds a Validator from a YAML rule document at the given path.
//
// A missing file yields ErrConfigNotFound; a document that cannot be parsed
// into the section/field/rule shape yields an error wrapping
// ErrRuleDocumentInvalid together with the parser diagnostic. In both cases
// no Validator is returned.
func New(path string, opts ...Option) (*Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	return NewFromBytes(data, opts...)
}

// NewFromBytes builds a Validator from an in-memory rule document.
func NewFromBytes(data []byte, opts ...Option) (*Validator, error) {
	v := &Validator{
		checkers: defaultCheckers(),
		log:      slog.New(discardHandler{}),
	}
	for _, opt := range opts {
		opt(v)
	}

	idx, err := parseRuleSet(data)
	if err != nil {
		return nil, err
	}
	v.index = idx

	if err := v.compileRules(); err != nil {
		return nil, err
	}

	v.log.Debug("rule document ingested",
		"sections", len(idx.sections),
		"required_fields", len(idx.required),
		"optional_fields", len(idx.optional),
		"subs_enabled", v.allowSubs,
	)
	return v, nil
}

// compileRules precompiles regex patterns and, when permitted, sub expression
// programs for every ingested rule. Compiled state is read-only afterwards.
// A sub expression that does not compile is a broken deployment and aborts
// construction; an uncompilable regex only fails its own criterion, matching
// how the checks treat caller-supplied rules.
func (v *Validator) compileRules() error {
	var fatal error
	v.index.forEachRule(func(field string, r *FieldRule) {
		if fatal != nil {
			return
		}
		if r.Regex != "" {
			if re, err := regexp.Compile(r.Regex); err == nil {
				r.regex = re
			} else {
				v.log.Warn("regex pattern does not compile; criterion will fail all values",
					"field", field, "pattern", r.Regex, "error", err)
			}
		}
		if r.Sub != "" && v.allowSubs {
			program, err := compileSub(r.Sub)
			if err != nil {
				fatal = &SubError{Field: field, Expr: r.Sub, Err: err}
				return
			}
			r.program = program
		}
	})
	return fatal
}

// RegisterChecker adds a named checker plugin. Rules reference it through
// their "plugin" attribute. Registration must happen before the validator is
// used; the registry is not synchronized.
func (v *Validator) RegisterChecker(name string, fn CheckerFunc) error {
	if name == "" {
		return ErrEmptyCheckerName
	}
	if fn == nil {
		return ErrNilCheckerFunc
	}
	v.checkers[name] = fn
	return nil
}

// FieldNames returns the field names registered under the section, in
// document order, minus any excluded names. An empty section name returns the
// names of every section in document order. Duplicates are preserved as
// recorded.
func (v *Validator) FieldNames(section string, exclude ...string) []string {
	var names []string
	if section != "" {
		names = v.index.order[section]
	} else {
		for _, s := range v.index.sections {
			names = append(names, v.index.order[s]...)
		}
	}

	out := make([]string, 0, len(names))
	for _, name := range names {
		if !slices.Contains(exclude, name) {
			out = append(out, name)
		}
	}
	return out
}

// Message returns the configured failure message for a field, or the empty
// string when the field is unknown or has no message.
func (v *Validator) Message(field string) string {
	if r := v.index.resolve(field); r != nil {
		return r.Message
	}
	return ""
}

// Required reports whether the field currently sits in the required bucket.
func (v *Validator) Required(field string) bool {
	_, ok := v.index.required[field]
	return ok
}

// Sections returns the section names in document order.
func (v *Validator) Sections() []string {
	return slices.Clone(v.index.sections)
}

// Promote reclassifies an optional field as required. The field's rule is
// carried over unchanged. No-op for unknown or already required fields.
func (v *Validator) Promote(field string) {
	v.index.promote(field)
}

// Demote reclassifies a required field as optional. The field's rule is
// carried over unchanged. No-op for unknown or already optional fields.
func (v *Validator) Demote(field string) {
	v.index.demote(field)
}

// discardHandler is a slog.Handler that drops all records.
type discardHandler struct{}

func (discardHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (d discardHandler) WithAttrs(_ []slog.Attr) slog.Handler        { return d }
func (d discardHandler) WithGroup(_ string) slog.Handler             { return d }
