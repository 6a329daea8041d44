package formcheck

import (
	"fmt"
	"slices"
	"strings"
)

// Errors maps failed field names to their configured messages. A field absent
// from the map passed; an empty map means the whole form passed. A message may
// be the empty string when the rule configured none.
type Errors map[string]string

// Error implements the error interface with a deterministic summary.
func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, field := range e.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has checks whether a field failed.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Get returns the message recorded for a field, empty when the field passed.
func (e Errors) Get(field string) string { return e[field] }

// Fields returns the failed field names, sorted for stable output.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	return fields
}

// IsEmpty reports whether every field passed.
func (e Errors) IsEmpty() bool { return len(e) == 0 }

// Validate checks every field registered under the section, in document
// order, against the provided values.
//
// Per-field failures never abort the pass; they accumulate into the returned
// Errors so the caller sees every failing field at once. The error return is
// reserved for fatal configuration problems (see Check) and is accompanied by
// a nil map, since a partially validated form is not meaningful when the
// deployment itself is broken.
func (v *Validator) Validate(section string, values map[string]any) (Errors, error) {
	errs := make(Errors)

	for _, field := range v.index.order[section] {
		rule := v.index.resolve(field)
		if rule == nil || rule.NoValidate {
			continue
		}

		effective := rule
		if rule.DependsOn != "" {
			dep := values[rule.DependsOn]
			if isEmpty(dep) {
				// The dependency is unmet, so the field fails regardless of
				// its own value.
				errs[field] = rule.Message
				continue
			}
			if override, ok := rule.Case[caseKey(dep)]; ok {
				effective = override
			}
		}

		if effective.Type == "" {
			// Copy before defaulting: the stored rule is shared.
			defaulted := *effective
			defaulted.Type = TypeOptional
			effective = &defaulted
		}

		ok, err := v.check(field, values[field], effective)
		if err != nil {
			v.log.Error("form validation aborted", "section", section, "field", field, "error", err)
			return nil, err
		}
		if !ok {
			errs[field] = effective.Message
		}
	}

	return errs, nil
}

// caseKey renders a dependency value for lookup against the case mapping,
// whose keys are the scalar literals of the rule document.
func caseKey(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
