package formcheck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// CheckerFunc is a single-value predicate. It receives the candidate value and
// the full rule it is evaluated under, and reports whether the value passes.
//
// Checkers must not mutate the rule: the same rule is shared across every
// check of its field.
type CheckerFunc func(value any, rule *FieldRule) bool

// criterionOrder fixes the evaluation order of built-in criteria so that
// short-circuiting on the first failure is deterministic.
var criterionOrder = []string{"min", "max", "regex", "length", "enum"}

// defaultCheckers returns the built-in checker registry. Registering a custom
// checker under a built-in name replaces that criterion's implementation.
func defaultCheckers() map[string]CheckerFunc {
	return map[string]CheckerFunc{
		"min":    checkMin,
		"max":    checkMax,
		"regex":  checkRegex,
		"length": checkLength,
		"enum":   checkEnum,
	}
}

// hasCriterion reports whether the named built-in criterion is present on the
// rule.
func (r *FieldRule) hasCriterion(name string) bool {
	switch name {
	case "min":
		return r.Min != nil
	case "max":
		return r.Max != nil
	case "regex":
		return r.Regex != ""
	case "length":
		return r.Length != ""
	case "enum":
		return len(r.Enum) > 0
	}
	return false
}

func checkMin(value any, rule *FieldRule) bool {
	n, ok := numericValue(value)
	return ok && n >= *rule.Min
}

func checkMax(value any, rule *FieldRule) bool {
	n, ok := numericValue(value)
	return ok && n <= *rule.Max
}

// checkRegex matches the pattern anywhere in the candidate (unanchored).
// An uncompilable pattern fails every candidate.
func checkRegex(value any, rule *FieldRule) bool {
	re := rule.regex
	if re == nil {
		var err error
		if re, err = regexp.Compile(rule.Regex); err != nil {
			return false
		}
	}
	return re.MatchString(stringValue(value))
}

// checkLength enforces the rule's length bound on the candidate's rune count.
//
// A bound containing a comma is an inclusive "min,max" range where either side
// may be blank. A bare bound is a strict exclusive minimum, so "8" rejects a
// value of length exactly 8. The two forms are intentionally asymmetric.
func checkLength(value any, rule *FieldRule) bool {
	length := utf8.RuneCountInString(stringValue(value))

	lo, hi, ranged := strings.Cut(rule.Length, ",")
	if !ranged {
		bound, err := strconv.Atoi(strings.TrimSpace(rule.Length))
		return err == nil && length > bound
	}

	if lo = strings.TrimSpace(lo); lo != "" {
		n, err := strconv.Atoi(lo)
		if err != nil || length < n {
			return false
		}
	}
	if hi = strings.TrimSpace(hi); hi != "" {
		n, err := strconv.Atoi(hi)
		if err != nil || length > n {
			return false
		}
	}
	return true
}

func checkEnum(value any, rule *FieldRule) bool {
	for _, allowed := range rule.Enum {
		if literalEqual(value, allowed) {
			return true
		}
	}
	return false
}

// compileSub compiles a sub expression into a sandboxed program. The program
// has no access to anything beyond the environment passed at run time.
func compileSub(src string) (*vm.Program, error) {
	return expr.Compile(src, expr.AsBool())
}

// runSub evaluates a compiled sub expression with the candidate bound as
// "value".
func runSub(program *vm.Program, value any) (bool, error) {
	out, err := expr.Run(program, map[string]any{"value": value})
	if err != nil {
		return false, err
	}
	pass, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("expression returned %T, want bool", out)
	}
	return pass, nil
}

// isEmpty reports whether a candidate counts as missing: absent from the input
// entirely (nil) or a zero-length string.
func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

// numericValue coerces the candidate to a float64 for bound comparisons.
// Numeric strings are accepted because form inputs arrive as strings; any
// other type fails the bound.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// stringValue renders the candidate for string-oriented criteria.
func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// literalEqual compares a candidate against an allowed literal by value.
// Numeric types compare numerically across widths, so an int 18 from input
// equals a float64 18 decoded from YAML. Strings compare only against
// strings; "18" does not equal 18.
func literalEqual(candidate, allowed any) bool {
	cs, cIsString := candidate.(string)
	as, aIsString := allowed.(string)
	if cIsString || aIsString {
		return cIsString && aIsString && cs == as
	}

	if cn, ok := numericValueStrict(candidate); ok {
		an, ok := numericValueStrict(allowed)
		return ok && cn == an
	}

	cb, cIsBool := candidate.(bool)
	ab, aIsBool := allowed.(bool)
	if cIsBool || aIsBool {
		return cIsBool && aIsBool && cb == ab
	}

	return false
}

// numericValueStrict is numericValue without the string coercion, for
// equality rather than ordering comparisons.
func numericValueStrict(v any) (float64, bool) {
	if _, isString := v.(string); isString {
		return 0, false
	}
	return numericValue(v)
}
