package check

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// List is an ordered list of checks decoded from YAML. Each entry selects its
// variant with a "kind" field.
type List []Spec

// UnmarshalYAML decodes a YAML sequence of checks.
func (l *List) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: checks must be a list", node.Line)
	}
	out := make(List, 0, len(node.Content))
	for _, item := range node.Content {
		spec, err := Decode(item)
		if err != nil {
			return err
		}
		out = append(out, spec)
	}
	*l = out
	return nil
}

// Decode builds the check variant named by the node's "kind" field.
func Decode(node *yaml.Node) (Spec, error) {
	var head struct {
		Kind Kind `yaml:"kind"`
	}
	if err := node.Decode(&head); err != nil {
		return nil, fmt.Errorf("line %d: %w", node.Line, err)
	}

	var spec Spec
	switch head.Kind {
	case KindCellValue:
		spec = &CellValue{}
	case KindRangeValues:
		spec = &RangeValues{}
	case KindCellFormula:
		spec = &CellFormula{}
	case KindStyle:
		spec = &Style{}
	case KindStructure:
		spec = &Structure{}
	case KindSetComparison:
		spec = &SetComparison{}
	case KindColumnMatch:
		spec = &ColumnMatch{}
	case "":
		return nil, fmt.Errorf("line %d: check has no kind", node.Line)
	default:
		return nil, fmt.Errorf("line %d: unknown check kind %q", node.Line, head.Kind)
	}

	if err := node.Decode(spec); err != nil {
		return nil, fmt.Errorf("line %d: %w", node.Line, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("line %d: %w", node.Line, err)
	}
	return spec, nil
}
