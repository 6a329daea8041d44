package formcheck

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"
)

// Field classification values for FieldRule.Type.
const (
	TypeRequired = "required"
	TypeOptional = "optional"
)

// FieldRule describes the validation criteria for a single field.
//
// All criteria are optional; a rule with none of them set only enforces the
// required/optional presence policy. Unknown keys in the source document are
// ignored.
type FieldRule struct {
	// Type classifies the field as "required" or "optional". Empty means
	// optional.
	Type string `yaml:"type"`

	// Min and Max are inclusive numeric bounds on the candidate value.
	// Pointer-typed so that an absent bound is distinguishable from zero.
	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`

	// Regex is an unanchored pattern the candidate must match somewhere.
	Regex string `yaml:"regex"`

	// Length constrains the candidate's length in runes. With a comma it is
	// an inclusive "min,max" range where either side may be blank. Without a
	// comma it is a strict exclusive minimum: length must be greater than
	// the bound. The asymmetry is deliberate and kept for compatibility
	// with existing rule documents.
	Length string `yaml:"-"`

	// Enum lists the allowed literal values.
	Enum []any `yaml:"enum"`

	// Message is recorded against the field when whole-form validation
	// fails. May be empty.
	Message string `yaml:"message"`

	// Plugin names a registered checker to run against the candidate.
	Plugin string `yaml:"plugin"`

	// Sub is a boolean expression evaluated with the candidate bound as
	// "value". Only permitted when the validator allows sub expressions.
	Sub string `yaml:"sub"`

	// NoValidate excludes the field from whole-form validation entirely.
	NoValidate bool `yaml:"no_validate"`

	// DependsOn names another field in the same form whose value must be
	// present and non-empty before this field is checked.
	DependsOn string `yaml:"depends_on"`

	// Case maps the depended-on field's value to an override rule that
	// replaces this one for the remainder of the field's evaluation.
	Case map[string]*FieldRule `yaml:"-"`

	regex   *regexp.Regexp // compiled at ingestion; nil means compile failed or pattern absent
	program *vm.Program    // compiled sub expression, nil until compiled
}

// UnmarshalYAML decodes a rule-attribute mapping. It exists to accept both
// scalar forms of "length" (bare integer or quoted string) and arbitrary
// scalar keys under "case", neither of which the default struct decoding
// handles.
func (r *FieldRule) UnmarshalYAML(n *yaml.Node) error {
	type plain FieldRule // drops the Unmarshaler method to avoid recursion
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	var aux struct {
		Length yaml.Node `yaml:"length"`
		Case   yaml.Node `yaml:"case"`
	}
	if err := n.Decode(&aux); err != nil {
		return err
	}
	*r = FieldRule(p)

	if aux.Length.Kind == yaml.ScalarNode {
		r.Length = aux.Length.Value
	}

	if aux.Case.Kind == yaml.MappingNode {
		r.Case = make(map[string]*FieldRule, len(aux.Case.Content)/2)
		for i := 0; i+1 < len(aux.Case.Content); i += 2 {
			override := new(FieldRule)
			if err := aux.Case.Content[i+1].Decode(override); err != nil {
				return err
			}
			r.Case[aux.Case.Content[i].Value] = override
		}
	}

	return nil
}

// parseRuleSet walks the YAML document node by node so that section and field
// iteration follows document order, which the default map decoding would lose.
func parseRuleSet(data []byte) (*fieldIndex, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrRuleDocumentInvalid, err)
	}

	idx := newFieldIndex()
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return idx, nil // empty document, empty index
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.Join(ErrRuleDocumentInvalid,
			fmt.Errorf("expected mapping of sections at document root, got %s", nodeKind(root)))
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		section := root.Content[i].Value
		fields := root.Content[i+1]
		if fields.Kind != yaml.MappingNode {
			return nil, errors.Join(ErrRuleDocumentInvalid,
				fmt.Errorf("section %q: expected mapping of fields, got %s", section, nodeKind(fields)))
		}

		for j := 0; j+1 < len(fields.Content); j += 2 {
			field := fields.Content[j].Value
			rule := new(FieldRule)
			if err := fields.Content[j+1].Decode(rule); err != nil {
				return nil, errors.Join(ErrRuleDocumentInvalid,
					fmt.Errorf("section %q, field %q: %w", section, field, err))
			}
			idx.add(section, field, rule)
		}
	}

	return idx, nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown node"
}
