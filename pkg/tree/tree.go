package tree

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the three node shapes a configuration tree can hold.
type Kind string

const (
	KindScalar   Kind = "scalar"
	KindMapping  Kind = "mapping"
	KindSequence Kind = "sequence"
)

// Node is a single value inside a configuration tree. A Node is exactly one
// of: a scalar (string, int64, float64, bool or nil), a mapping from string
// keys to child nodes, or a sequence of child nodes. Mappings remember the
// order in which keys were first set so that diff output stays deterministic,
// but key order does not participate in equality.
type Node struct {
	Kind Kind

	// Value holds the scalar payload for KindScalar nodes.
	Value interface{}

	// Keys holds mapping keys in encounter order for KindMapping nodes.
	Keys     []string
	Children map[string]*Node

	// Items holds the ordered elements for KindSequence nodes.
	Items []*Node
}

// Scalar builds a scalar node. Supported value types are string, bool, nil,
// all Go integer types (normalized to int64) and float32/float64 (normalized
// to float64). Unsupported types surface later via Validate.
func Scalar(value interface{}) *Node {
	return &Node{Kind: KindScalar, Value: normalizeScalar(value)}
}

// Mapping builds an empty mapping node.
func Mapping() *Node {
	return &Node{Kind: KindMapping, Children: map[string]*Node{}}
}

// Sequence builds a sequence node from the given items.
func Sequence(items ...*Node) *Node {
	return &Node{Kind: KindSequence, Items: items}
}

// Set adds or replaces a child under key, preserving first-set key order.
// It returns the receiver so mappings can be built fluently in tests.
func (n *Node) Set(key string, child *Node) *Node {
	if n.Children == nil {
		n.Children = map[string]*Node{}
	}
	if _, exists := n.Children[key]; !exists {
		n.Keys = append(n.Keys, key)
	}
	n.Children[key] = child
	return n
}

// Get returns the child under key, or nil if absent or not a mapping.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Kind != KindMapping {
		return nil
	}
	return n.Children[key]
}

func normalizeScalar(value interface{}) interface{} {
	switch v := value.(type) {
	case nil, string, bool, int64, float64:
		return v
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	case float32:
		return float64(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	default:
		return v
	}
}

// Equal reports deep equality of two trees. Mapping key order is ignored;
// sequence order is significant; scalars compare by type and value.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Kind != other.Kind {
		return false
	}

	switch n.Kind {
	case KindScalar:
		return scalarEqual(n.Value, other.Value)
	case KindSequence:
		if len(n.Items) != len(other.Items) {
			return false
		}
		for i := range n.Items {
			if !n.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(n.Children) != len(other.Children) {
			return false
		}
		for key, child := range n.Children {
			otherChild, ok := other.Children[key]
			if !ok || !child.Equal(otherChild) {
				return false
			}
		}
		return true
	}
	return false
}

func scalarEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == b
	}
	return reflect.TypeOf(a) == reflect.TypeOf(b) && a == b
}

// Fingerprint returns a deterministic canonical string for the subtree,
// suitable as a set key for observed-value tracking. Mapping keys are
// sorted so equal trees always produce the same fingerprint.
func (n *Node) Fingerprint() string {
	var sb strings.Builder
	n.fingerprint(&sb)
	return sb.String()
}

func (n *Node) fingerprint(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("<nil>")
		return
	}
	switch n.Kind {
	case KindScalar:
		switch v := n.Value.(type) {
		case nil:
			sb.WriteString("null")
		case string:
			sb.WriteString(strconv.Quote(v))
		case bool:
			sb.WriteString(strconv.FormatBool(v))
		case int64:
			sb.WriteString(strconv.FormatInt(v, 10))
		case float64:
			sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		default:
			fmt.Fprintf(sb, "%v", v)
		}
	case KindSequence:
		sb.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				sb.WriteByte(',')
			}
			item.fingerprint(sb)
		}
		sb.WriteByte(']')
	case KindMapping:
		keys := make([]string, 0, len(n.Children))
		for key := range n.Children {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(key))
			sb.WriteByte(':')
			n.Children[key].fingerprint(sb)
		}
		sb.WriteByte('}')
	}
}

// Interface converts the tree back into the generic Go representation
// (map[string]interface{}, []interface{}, scalars). Useful for rendering.
func (n *Node) Interface() interface{} {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindScalar:
		return n.Value
	case KindSequence:
		out := make([]interface{}, len(n.Items))
		for i, item := range n.Items {
			out[i] = item.Interface()
		}
		return out
	case KindMapping:
		out := make(map[string]interface{}, len(n.Children))
		for key, child := range n.Children {
			out[key] = child.Interface()
		}
		return out
	}
	return nil
}

// MarshalJSON renders the node as its natural JSON value. Mapping keys are
// written in encounter order.
func (n *Node) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case KindScalar:
		if f, ok := n.Value.(float64); ok {
			if math.IsInf(f, 0) || math.IsNaN(f) {
				return json.Marshal(fmt.Sprintf("%v", f))
			}
			// Keep integral floats float-typed across a decode round trip.
			if f == math.Trunc(f) && math.Abs(f) < 1e15 {
				return []byte(strconv.FormatFloat(f, 'f', 1, 64)), nil
			}
		}
		return json.Marshal(n.Value)
	case KindSequence:
		items := n.Items
		if items == nil {
			items = []*Node{}
		}
		return json.Marshal(items)
	case KindMapping:
		var sb strings.Builder
		sb.WriteByte('{')
		for i, key := range n.Keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			keyJSON, err := json.Marshal(key)
			if err != nil {
				return nil, err
			}
			childJSON, err := json.Marshal(n.Children[key])
			if err != nil {
				return nil, err
			}
			sb.Write(keyJSON)
			sb.WriteByte(':')
			sb.Write(childJSON)
		}
		sb.WriteByte('}')
		return []byte(sb.String()), nil
	}
	return nil, fmt.Errorf("unknown node kind %q", n.Kind)
}

// Walk visits every node in depth-first order, mapping keys in encounter
// order, sequence items by index. The root is visited with an empty path.
func Walk(n *Node, visit func(path Path, node *Node)) {
	walk(n, Path{}, visit)
}

func walk(n *Node, path Path, visit func(path Path, node *Node)) {
	if n == nil {
		return
	}
	visit(path, n)
	switch n.Kind {
	case KindMapping:
		for _, key := range n.Keys {
			walk(n.Children[key], path.Child(key), visit)
		}
	case KindSequence:
		for i, item := range n.Items {
			walk(item, path.Index(i), visit)
		}
	}
}
