package formcheck

import "fmt"

// Check validates a single value against the field's indexed rule.
//
// A field that is not in the index is permitted: with no rule there is nothing
// to violate, so the check passes. The returned error is non-nil only for
// fatal configuration problems (unregistered plugin, gated or broken sub
// expression); an ordinary failed criterion is reported as (false, nil).
func (v *Validator) Check(field string, value any) (bool, error) {
	return v.check(field, value, nil)
}

// CheckRule validates a single value against an explicit rule, bypassing the
// index. Whether the field counts as required is taken from the rule's Type.
func (v *Validator) CheckRule(field string, value any, rule *FieldRule) (bool, error) {
	return v.check(field, value, rule)
}

// CheckMany validates each value in turn against the field's indexed rule.
// A fatal error aborts the run; results for values checked so far are
// discarded because the deployment is broken, not the input.
func (v *Validator) CheckMany(field string, values []any) ([]bool, error) {
	results := make([]bool, len(values))
	for i, value := range values {
		ok, err := v.check(field, value, nil)
		if err != nil {
			return nil, err
		}
		results[i] = ok
	}
	return results, nil
}

func (v *Validator) check(field string, value any, rule *FieldRule) (bool, error) {
	required := false
	if rule != nil {
		required = rule.Type == TypeRequired
	} else if r, ok := v.index.required[field]; ok {
		rule, required = r, true
	} else if r, ok := v.index.optional[field]; ok {
		rule = r
	}

	// Presence policy decides missing and empty values outright: a required
	// field fails, an optional one passes without consulting any criteria.
	if isEmpty(value) {
		return !required, nil
	}

	if rule == nil {
		return true, nil
	}

	for _, name := range criterionOrder {
		if !rule.hasCriterion(name) {
			continue
		}
		if !v.checkers[name](value, rule) {
			return false, nil
		}
	}

	if rule.Plugin != "" {
		fn, ok := v.checkers[rule.Plugin]
		if !ok {
			return false, &PluginError{Field: field, Plugin: rule.Plugin}
		}
		if !fn(value, rule) {
			return false, nil
		}
	}

	if rule.Sub != "" {
		pass, err := v.evalSub(field, value, rule)
		if err != nil {
			return false, err
		}
		if !pass {
			return false, nil
		}
	}

	return true, nil
}

// evalSub runs the rule's sub expression. Rules ingested from the document
// carry a program compiled at construction; explicit rules compile here.
// Skipping a gated expression would silently weaken validation, so using one
// without WithSubExpressions is fatal.
func (v *Validator) evalSub(field string, value any, rule *FieldRule) (bool, error) {
	if !v.allowSubs {
		return false, fmt.Errorf("field %q: %w", field, ErrSubExpressionsDisabled)
	}

	program := rule.program
	if program == nil {
		var err error
		if program, err = compileSub(rule.Sub); err != nil {
			return false, &SubError{Field: field, Expr: rule.Sub, Err: err}
		}
	}

	pass, err := runSub(program, value)
	if err != nil {
		v.log.Error("sub expression failed", "field", field, "expr", rule.Sub, "error", err)
		return false, &SubError{Field: field, Expr: rule.Sub, Err: err}
	}
	return pass, nil
}
