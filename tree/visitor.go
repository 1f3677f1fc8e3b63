// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package tree

import (
	"github.com/hierconf/hierconf/key"
)

// Visitor is the callback pair driven by [Node.Visit].
//
// BeforeChildren runs when a node is first reached, AfterChildren after the
// whole subtree below it has been traversed. Terminate is consulted before
// each node; once it reports true the traversal stops descending.
type Visitor interface {
	BeforeChildren(*Node)
	AfterChildren(*Node)
	Terminate() bool
}

// Visit walks the subtree rooted at n depth-first: the node itself, then its
// element children in insertion order, then its attributes in insertion
// order. Children before attributes is a deliberate, stable choice; source
// adapters rely on it for round-tripping.
func (n *Node) Visit(visitor Visitor) {
	if visitor.Terminate() {
		return
	}

	visitor.BeforeChildren(n)
	for _, child := range n.children {
		if visitor.Terminate() {
			break
		}
		child.Visit(visitor)
	}
	for _, attr := range n.attributes {
		if visitor.Terminate() {
			break
		}
		attr.Visit(visitor)
	}
	visitor.AfterChildren(n)
}

// definedVisitor short-circuits at the first node carrying a value.
type definedVisitor struct {
	defined bool
}

func (v *definedVisitor) BeforeChildren(n *Node) {
	if n.Value != nil {
		v.defined = true
	}
}

func (v *definedVisitor) AfterChildren(*Node) {}

func (v *definedVisitor) Terminate() bool {
	return v.defined
}

// KeysVisitor collects the key expression of every node carrying a value.
//
// Keys are composed with the given delimiter, attribute nodes rendered in
// bracket syntax, and duplicates (repeated sibling names) reported once.
// The visitor keeps an explicit stack of parent segments so one instance
// can be reused across a whole-tree walk.
type KeysVisitor struct {
	delimiter rune
	root      *Node
	stack     key.Key
	keys      []string
	seen      map[string]struct{}
}

// NewKeysVisitor creates a KeysVisitor composing keys with delimiter.
func NewKeysVisitor(delimiter rune) *KeysVisitor {
	return &KeysVisitor{delimiter: delimiter, seen: make(map[string]struct{})}
}

// Keys returns the collected keys in first-visit order.
func (v *KeysVisitor) Keys() []string {
	return v.keys
}

func (v *KeysVisitor) BeforeChildren(n *Node) {
	if v.root == nil {
		// The entry node of the walk does not contribute a segment;
		// a view may be rooted at any node of a larger tree.
		v.root = n
	} else {
		v.stack = append(v.stack, key.Segment{Name: n.Name, Attribute: n.Attribute})
	}

	if n.Value == nil {
		return
	}
	composed := v.stack.String(v.delimiter)
	if _, ok := v.seen[composed]; ok {
		return
	}
	v.seen[composed] = struct{}{}
	v.keys = append(v.keys, composed)
}

func (v *KeysVisitor) AfterChildren(n *Node) {
	if n != v.root {
		v.stack = v.stack[:len(v.stack)-1]
	}
}

func (v *KeysVisitor) Terminate() bool {
	return false
}

// cloneVisitor deep-copies a subtree, preserving attribute placement and
// clearing external document references.
type cloneVisitor struct {
	stack  []*Node
	result *Node
}

func (v *cloneVisitor) BeforeChildren(n *Node) {
	copied := n.Clone()
	if len(v.stack) == 0 {
		v.result = copied
	} else {
		parent := v.stack[len(v.stack)-1]
		if n.Attribute {
			parent.AddAttribute(copied)
		} else {
			parent.AddChild(copied)
		}
	}
	v.stack = append(v.stack, copied)
}

func (v *cloneVisitor) AfterChildren(*Node) {
	v.stack = v.stack[:len(v.stack)-1]
}

func (v *cloneVisitor) Terminate() bool {
	return false
}

// DeepClone returns a fully independent copy of the subtree rooted at n.
// The copy is detached (nil parent) and carries no external references.
func (n *Node) DeepClone() *Node {
	visitor := &cloneVisitor{}
	n.Visit(visitor)

	return visitor.result
}

// Inserter places the external representation of a newly added node into a
// backing document. Source adapters implement it; see [BuilderVisitor].
//
// Insert is called with the new node, its parent (whose Ref is already
// bound, or the tree root), and the nearest bound siblings before and after
// the run of new nodes (nil when the run touches the start or end of the
// sibling list, and always nil for attribute nodes). The returned handle is
// stored as the node's Ref.
type Inserter interface {
	Insert(node, parent, before, after *Node) any
}

// BuilderVisitor walks a tree that is partially bound to an external
// document and splices in the unbound nodes.
//
// For each visited node it locates the runs of consecutive children without
// a Ref and invokes the Inserter once per new node, so a loaded document's
// ordering, comments and formatting stay intact while genuinely new nodes
// are placed at the correct position. Parents are always processed before
// their children, so by the time a new node's own children are visited its
// Ref has been bound.
type BuilderVisitor struct {
	insert Inserter
}

// NewBuilderVisitor creates a BuilderVisitor driving the given Inserter.
func NewBuilderVisitor(insert Inserter) *BuilderVisitor {
	return &BuilderVisitor{insert: insert}
}

func (v *BuilderVisitor) BeforeChildren(n *Node) {
	if n.Attribute {
		return
	}

	var before *Node
	for i, child := range n.children {
		if child.Ref != nil {
			before = child

			continue
		}
		child.Ref = v.insert.Insert(child, n, before, nextBound(n.children[i+1:]))
	}
	for _, attr := range n.attributes {
		if attr.Ref == nil {
			attr.Ref = v.insert.Insert(attr, n, nil, nil)
		}
	}
}

func (v *BuilderVisitor) AfterChildren(*Node) {}

func (v *BuilderVisitor) Terminate() bool {
	return false
}

func nextBound(nodes []*Node) *Node {
	for _, node := range nodes {
		if node.Ref != nil {
			return node
		}
	}

	return nil
}
