package formcheck

// fieldIndex partitions every field from the rule document into exactly one of
// two buckets, required or optional, and records each section's field names in
// document order.
//
// The partition is built once at ingestion and mutated afterwards only through
// Promote and Demote, which move a field between the buckets without touching
// its rule.
type fieldIndex struct {
	required map[string]*FieldRule
	optional map[string]*FieldRule

	sections []string            // section names in document order
	order    map[string][]string // section -> field names in document order
}

func newFieldIndex() *fieldIndex {
	return &fieldIndex{
		required: make(map[string]*FieldRule),
		optional: make(map[string]*FieldRule),
		order:    make(map[string][]string),
	}
}

// add classifies a field and appends it to its section's order list.
// A required definition wins over any optional one and evicts a stale optional
// entry. For conflicting optional definitions across sections the first writer
// wins, and a required classification elsewhere is never downgraded.
func (ix *fieldIndex) add(section, field string, rule *FieldRule) {
	if rule.Type == TypeRequired {
		ix.required[field] = rule
		delete(ix.optional, field)
	} else if _, isRequired := ix.required[field]; !isRequired {
		if _, exists := ix.optional[field]; !exists {
			ix.optional[field] = rule
		}
	}

	if _, seen := ix.order[section]; !seen {
		ix.sections = append(ix.sections, section)
	}
	ix.order[section] = append(ix.order[section], field)
}

// resolve returns the field's rule, preferring the required bucket.
func (ix *fieldIndex) resolve(field string) *FieldRule {
	if r, ok := ix.required[field]; ok {
		return r
	}
	return ix.optional[field]
}

// promote moves a field from the optional bucket to the required one.
// No-op when the field is not optional.
func (ix *fieldIndex) promote(field string) {
	if r, ok := ix.optional[field]; ok {
		delete(ix.optional, field)
		ix.required[field] = r
	}
}

// demote moves a field from the required bucket to the optional one.
// No-op when the field is not required.
func (ix *fieldIndex) demote(field string) {
	if r, ok := ix.required[field]; ok {
		delete(ix.required, field)
		ix.optional[field] = r
	}
}

// forEachRule visits every rule in the index, including case overrides,
// exactly once per stored pointer.
func (ix *fieldIndex) forEachRule(fn func(field string, r *FieldRule)) {
	seen := make(map[*FieldRule]struct{})
	var visit func(field string, r *FieldRule)
	visit = func(field string, r *FieldRule) {
		if r == nil {
			return
		}
		if _, ok := seen[r]; ok {
			return
		}
		seen[r] = struct{}{}
		fn(field, r)
		for _, override := range r.Case {
			visit(field, override)
		}
	}
	for field, r := range ix.required {
		visit(field, r)
	}
	for field, r := range ix.optional {
		visit(field, r)
	}
}
