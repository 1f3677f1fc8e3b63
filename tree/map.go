// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package tree

import (
	"sort"
)

// attrKey is the map rendering of an attribute node name.
const (
	attrPrefix = "[@"
	attrSuffix = "]"
)

// FromMap builds a detached tree from a nested map: nested maps become
// subtrees, slices repeated same-named siblings, and scalars leaf values.
// A key wrapped as `[@name]` becomes an attribute node. Map keys are visited
// in sorted order so the resulting tree is deterministic.
func FromMap(values map[string]any) *Node {
	root := NewNode("")
	appendMap(root, values)

	return root
}

func appendMap(parent *Node, values map[string]any) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		appendValue(parent, name, values[name])
	}
}

func appendValue(parent *Node, name string, value any) {
	if attr, ok := attrName(name); ok {
		node := NewNode(attr)
		node.Value = value
		parent.AddAttribute(node)

		return
	}

	switch value := value.(type) {
	case map[string]any:
		node := NewNode(name)
		parent.AddChild(node)
		appendMap(node, value)
	case []any:
		for _, element := range value {
			appendValue(parent, name, element)
		}
	default:
		node := NewNode(name)
		node.Value = value
		parent.AddChild(node)
	}
}

func attrName(name string) (string, bool) {
	if len(name) > len(attrPrefix)+len(attrSuffix) &&
		name[:len(attrPrefix)] == attrPrefix && name[len(name)-1:] == attrSuffix {
		return name[len(attrPrefix) : len(name)-1], true
	}

	return "", false
}

// ToMap renders the subtree rooted at n as a nested map, the inverse of
// [FromMap]: repeated sibling names collapse into a []any, attribute nodes
// are keyed as `[@name]`. A node carrying both a value and children
// contributes only its children; scalar access for such nodes goes through
// the expression engine instead.
func ToMap(n *Node) map[string]any {
	values := make(map[string]any, len(n.children)+len(n.attributes))
	for _, child := range n.children {
		appendEntry(values, child.Name, entry(child))
	}
	for _, attr := range n.attributes {
		appendEntry(values, attrPrefix+attr.Name+attrSuffix, attr.Value)
	}

	return values
}

func entry(n *Node) any {
	return ToValue(n)
}

// ToValue renders a node as its scalar value when it is a leaf, and as a
// nested map (see [ToMap]) otherwise.
func ToValue(n *Node) any {
	if len(n.children) == 0 && len(n.attributes) == 0 {
		return n.Value
	}

	return ToMap(n)
}

func appendEntry(values map[string]any, name string, value any) {
	existing, ok := values[name]
	if !ok {
		values[name] = value

		return
	}

	if list, ok := existing.([]any); ok {
		values[name] = append(list, value)

		return
	}
	values[name] = []any{existing, value}
}
