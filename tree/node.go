// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

// Package tree provides the node tree backing a hierarchical configuration
// and the expression engine that resolves parsed keys against it.
//
// A tree is a single root Node whose descendants carry the configuration
// values. Nodes come in two kinds sharing one type: element nodes, which may
// have children and attributes of their own, and attribute nodes, which may
// not. Source adapters (XML etc.) may bind a node to its external document
// representation through the Ref field; the tree itself never inspects Ref
// beyond nil checks.
package tree

// Node is a mutable element of a configuration tree.
//
// A Node is owned by its parent; the root has no parent and, by convention,
// an empty name. Nodes are not safe for concurrent mutation; callers that
// share a tree across goroutines must serialize access themselves.
type Node struct {
	// Name is the node name as addressed by key expressions.
	Name string
	// Value is the scalar carried by this node, or nil.
	Value any
	// Attribute marks an attribute-kind node.
	Attribute bool
	// Ref is an opaque handle to an external document representation,
	// set and consumed only by source adapters.
	Ref any

	parent     *Node
	children   []*Node
	attributes []*Node
}

// NewNode creates a detached element node with the given name.
func NewNode(name string) *Node {
	return &Node{Name: name}
}

// Parent returns the node owning this node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// AddChild appends child to the node's children, taking ownership.
//
// It panics if called on an attribute node: attribute nodes never have
// children of their own.
func (n *Node) AddChild(child *Node) {
	if n.Attribute {
		panic("hierconf: cannot add a child to an attribute node")
	}

	child.parent = n
	n.children = append(n.children, child)
}

// AddAttribute appends attr to the node's attributes, taking ownership,
// and marks it attribute-kind.
func (n *Node) AddAttribute(attr *Node) {
	if n.Attribute {
		panic("hierconf: cannot add an attribute to an attribute node")
	}

	attr.Attribute = true
	attr.parent = n
	n.attributes = append(n.attributes, attr)
}

// Children returns the node's element children in insertion order.
// The returned slice is shared with the node and must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildrenNamed returns the element children with the given name,
// in insertion order.
func (n *Node) ChildrenNamed(name string) []*Node {
	return named(n.children, name)
}

// Attributes returns the node's attribute nodes in insertion order.
// The returned slice is shared with the node and must not be modified.
func (n *Node) Attributes() []*Node {
	return n.attributes
}

// AttributesNamed returns the attribute nodes with the given name,
// in insertion order.
func (n *Node) AttributesNamed(name string) []*Node {
	return named(n.attributes, name)
}

func named(nodes []*Node, name string) []*Node {
	var matches []*Node
	for _, node := range nodes {
		if node.Name == name {
			matches = append(matches, node)
		}
	}

	return matches
}

// RemoveChild removes the given child or attribute node from this node.
//
// Passing a node that is not owned by this node is a programming error
// and panics rather than being silently ignored.
func (n *Node) RemoveChild(child *Node) {
	nodes := &n.children
	if child.Attribute {
		nodes = &n.attributes
	}
	for i, c := range *nodes {
		if c == child {
			*nodes = append((*nodes)[:i], (*nodes)[i+1:]...)
			child.parent = nil

			return
		}
	}

	panic("hierconf: node is not a child of the given parent")
}

// RemoveChildren removes all element children with the given name and
// reports whether any were removed.
func (n *Node) RemoveChildren(name string) bool {
	removed := false
	kept := n.children[:0]
	for _, child := range n.children {
		if child.Name == name {
			child.parent = nil
			removed = true

			continue
		}
		kept = append(kept, child)
	}
	n.children = kept

	return removed
}

// Clone returns a shallow copy of the node: name, value and attribute kind
// only. Children, attributes, parent and Ref are not carried over;
// re-attaching is the caller's responsibility. For a deep copy, see
// [Node.DeepClone].
func (n *Node) Clone() *Node {
	return &Node{Name: n.Name, Value: n.Value, Attribute: n.Attribute}
}

// IsDefined reports whether the node carries a value or has any descendant
// that does. Undefined nodes are structural leftovers and are eligible for
// pruning.
func (n *Node) IsDefined() bool {
	visitor := &definedVisitor{}
	n.Visit(visitor)

	return visitor.defined
}
