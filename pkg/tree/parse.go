package tree

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrMalformed is returned (wrapped in a PathError where possible) when an
// input is not a well-formed configuration tree.
var ErrMalformed = errors.New("malformed configuration tree")

// ParseFile reads a YAML or JSON configuration file into a tree. JSON is a
// subset of YAML, so both formats go through the same decoder.
func ParseFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	node, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return node, nil
}

// Parse decodes YAML or JSON bytes into a tree, preserving mapping key
// order. An empty document yields an empty mapping.
func Parse(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Mapping(), nil
	}
	return fromYAMLNode(doc.Content[0], Path{}, map[*yaml.Node]bool{})
}

func fromYAMLNode(n *yaml.Node, path Path, resolving map[*yaml.Node]bool) (*Node, error) {
	switch n.Kind {
	case yaml.AliasNode:
		if resolving[n.Alias] {
			return nil, &PathError{Path: path, Reason: "cyclic alias reference"}
		}
		return fromYAMLNode(n.Alias, path, resolving)
	case yaml.ScalarNode:
		return Scalar(scalarFromYAML(n)), nil
	case yaml.SequenceNode:
		resolving[n] = true
		defer delete(resolving, n)
		items := make([]*Node, 0, len(n.Content))
		for i, item := range n.Content {
			child, err := fromYAMLNode(item, path.Index(i), resolving)
			if err != nil {
				return nil, err
			}
			items = append(items, child)
		}
		return Sequence(items...), nil
	case yaml.MappingNode:
		resolving[n] = true
		defer delete(resolving, n)
		out := Mapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valueNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, &PathError{Path: path, Reason: "non-scalar mapping key"}
			}
			key := keyNode.Value
			if _, exists := out.Children[key]; exists {
				return nil, &PathError{Path: path.Child(key), Reason: "duplicate mapping key"}
			}
			child, err := fromYAMLNode(valueNode, path.Child(key), resolving)
			if err != nil {
				return nil, err
			}
			out.Set(key, child)
		}
		return out, nil
	}
	return nil, &PathError{Path: path, Reason: fmt.Sprintf("unsupported YAML node kind %d", n.Kind)}
}

func scalarFromYAML(n *yaml.Node) interface{} {
	switch n.Tag {
	case "!!null":
		return nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err == nil {
			return b
		}
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err == nil {
			return i
		}
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err == nil {
			return f
		}
	}
	return n.Value
}

// FromValue converts a generic decoded value (maps, slices, scalars) into a
// tree. Cyclic values and unsupported types are rejected as malformed.
// Key order for map[string]interface{} inputs is sorted lexically since the
// generic form carries no order.
func FromValue(value interface{}) (*Node, error) {
	return fromValue(value, Path{}, map[uintptr]bool{})
}

func fromValue(value interface{}, path Path, seen map[uintptr]bool) (*Node, error) {
	switch v := value.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return Scalar(v), nil
	case map[string]interface{}:
		ptr := pointerOf(v)
		if seen[ptr] {
			return nil, &PathError{Path: path, Reason: "cycle detected"}
		}
		seen[ptr] = true
		defer delete(seen, ptr)

		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := Mapping()
		for _, key := range keys {
			child, err := fromValue(v[key], path.Child(key), seen)
			if err != nil {
				return nil, err
			}
			out.Set(key, child)
		}
		return out, nil
	case []interface{}:
		ptr := pointerOf(v)
		if seen[ptr] {
			return nil, &PathError{Path: path, Reason: "cycle detected"}
		}
		seen[ptr] = true
		defer delete(seen, ptr)

		items := make([]*Node, 0, len(v))
		for i, item := range v {
			child, err := fromValue(item, path.Index(i), seen)
			if err != nil {
				return nil, err
			}
			items = append(items, child)
		}
		return Sequence(items...), nil
	default:
		return nil, &PathError{Path: path, Reason: fmt.Sprintf("unsupported value type %T", value)}
	}
}

func pointerOf(v interface{}) uintptr {
	return reflect.ValueOf(v).Pointer()
}

// Validate checks that a tree is well formed: known node kinds, supported
// scalar types, children consistent with the kind. Trees built through this
// package are well formed by construction; Validate guards trees assembled
// by callers.
func Validate(n *Node) error {
	return validate(n, Path{}, map[*Node]bool{})
}

func validate(n *Node, path Path, seen map[*Node]bool) error {
	if n == nil {
		return &PathError{Path: path, Reason: "nil node"}
	}
	if seen[n] {
		return &PathError{Path: path, Reason: "cycle detected"}
	}
	seen[n] = true
	defer delete(seen, n)

	switch n.Kind {
	case KindScalar:
		switch n.Value.(type) {
		case nil, string, bool, int64, float64:
			return nil
		default:
			return &PathError{Path: path, Reason: fmt.Sprintf("unsupported scalar type %T", n.Value)}
		}
	case KindMapping:
		if len(n.Keys) != len(n.Children) {
			return &PathError{Path: path, Reason: "mapping key order out of sync with children"}
		}
		for _, key := range n.Keys {
			child, ok := n.Children[key]
			if !ok {
				return &PathError{Path: path.Child(key), Reason: "ordered key missing from children"}
			}
			if err := validate(child, path.Child(key), seen); err != nil {
				return err
			}
		}
		return nil
	case KindSequence:
		for i, item := range n.Items {
			if err := validate(item, path.Index(i), seen); err != nil {
				return err
			}
		}
		return nil
	}
	return &PathError{Path: path, Reason: fmt.Sprintf("unknown node kind %q", n.Kind)}
}
