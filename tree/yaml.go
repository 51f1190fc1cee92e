package tree

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML reads the first document of a YAML stream. Mapping order is
// preserved the same way ParseJSON preserves object order.
func ParseYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, fmt.Errorf("invalid YAML: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Value{}, ErrEmptyInput
	}
	w := &yamlWalker{budget: yamlNodeBudget(len(data))}
	return w.fromYAML(doc.Content[0], 0)
}

// yamlNodeBudget bounds the number of nodes a document may expand to once
// aliases are followed. Alias-free documents never come close to it.
func yamlNodeBudget(size int) int {
	return 10000 + 100*size
}

type yamlWalker struct {
	budget  int
	visited int
}

func (w *yamlWalker) fromYAML(n *yaml.Node, depth int) (Value, error) {
	w.visited++
	if w.visited > w.budget {
		return Value{}, fmt.Errorf("invalid YAML: document expands to more than %d nodes through aliases", w.budget)
	}
	if depth >= maxParseDepth {
		return Value{}, fmt.Errorf("invalid YAML: nesting deeper than %d", maxParseDepth)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NullValue(), nil
		}
		return w.fromYAML(n.Content[0], depth)
	case yaml.AliasNode:
		return w.fromYAML(n.Alias, depth+1)
	case yaml.MappingNode:
		members := make([]Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			val, err := w.fromYAML(v, depth+1)
			if err != nil {
				return Value{}, err
			}
			members = append(members, Member{Key: k.Value, Value: val})
		}
		return ObjectValue(members...), nil
	case yaml.SequenceNode:
		elems := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := w.fromYAML(c, depth+1)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, val)
		}
		return ArrayValue(elems...), nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return Value{}, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

func yamlScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return NullValue(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return BoolValue(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return Value{}, fmt.Errorf("line %d: integer %s out of int64 range", n.Line, n.Value)
		}
		return IntValue(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return FloatValue(f), nil
	case "!!str", "!!timestamp":
		return StringValue(n.Value), nil
	default:
		return Value{}, fmt.Errorf("line %d: unsupported YAML tag %s", n.Line, n.ShortTag())
	}
}
