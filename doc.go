// Package formcheck is a form validation engine driven by a declarative YAML
// rule document. The document maps named sections (forms) to named fields,
// each field carrying its validation criteria: required/optional
// classification, numeric bounds, regex, length range, enumerated values,
// dependency-based overrides, and named checker plugins.
//
// # Architecture
//
// Ingestion builds a field index from the document once, partitioning every
// field into a required or an optional bucket (mutually exclusive) and
// recording each section's field names in document order. Single-value checks
// resolve a field's rule from the index and dispatch each present criterion to
// the checker registry, short-circuiting on the first failure. Whole-form
// validation walks a section's fields in order, resolves dependency-based rule
// overrides, and collects per-field failure messages into an Errors bag.
// Promote and Demote move a field between the buckets at runtime.
//
// # Usage
//
// Build a validator from a rule document and validate a form:
//
//	v, err := formcheck.New("rules.yml")
//	if err != nil {
//		// rule document missing or malformed
//	}
//
//	errs, err := v.Validate("signup", map[string]any{
//		"salutation": "Herr",
//		"age":        42,
//	})
//	if err != nil {
//		// fatal: unregistered plugin or gated sub expression
//	}
//	if !errs.IsEmpty() {
//		// errs maps each failing field to its configured message
//	}
//
// Single values can be checked directly, with or without an explicit rule:
//
//	ok, err := v.Check("age", 17)
//
// # Rule documents
//
//	signup:
//	  salutation:
//	    type: required
//	    enum: [Herr, Frau, Firma]
//	    message: pick a salutation
//	  company:
//	    depends_on: salutation
//	    case:
//	      Firma:
//	        type: required
//	        length: "2,122"
//	    message: company name required for companies
//
// # Error handling
//
// Construction fails with ErrConfigNotFound for a missing document and with
// an error wrapping ErrRuleDocumentInvalid for a malformed one. Per-field
// validation failures are never error values; they live only in the Errors
// map. Fatal configuration problems (PluginError, SubError,
// ErrSubExpressionsDisabled) abort the current check or form, since they mean
// the deployment is broken rather than the input.
//
// # Concurrency
//
// The engine is synchronous and performs no locking. Concurrent reads are
// safe once construction and checker registration are done; Promote and
// Demote require external mutual exclusion if they can race with any other
// call.
package formcheck
