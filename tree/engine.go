// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package tree

import (
	"errors"

	"github.com/hierconf/hierconf/key"
)

// ErrEmptyKey is returned when an add operation is given a key with no
// segments: there is no name for the node to create.
var ErrEmptyKey = errors.New("cannot add a property with an empty key")

// Query resolves a read key against the subtree rooted at root and returns
// the matching nodes in traversal order.
//
// An explicitly indexed segment selects the Nth same-named sibling; an index
// out of range simply yields no match for that branch. An unqualified
// segment fans out across all same-named siblings. The empty key addresses
// root itself.
func Query(root *Node, k key.Key) []*Node {
	if len(k) == 0 {
		return []*Node{root}
	}

	segment := k[0]
	if segment.Attribute {
		// The parser guarantees an attribute segment ends the key.
		return indexed(root.AttributesNamed(segment.Name), segment)
	}

	var matches []*Node
	for _, child := range indexed(root.ChildrenNamed(segment.Name), segment) {
		matches = append(matches, Query(child, k[1:])...)
	}

	return matches
}

func indexed(nodes []*Node, segment key.Segment) []*Node {
	if !segment.HasIndex {
		return nodes
	}
	if segment.Index < 0 || segment.Index >= len(nodes) {
		return nil
	}

	return nodes[segment.Index : segment.Index+1]
}

// AddPlan describes where and how a new node is to be inserted for an add
// operation, as computed by [PrepareAdd]. Parent is the deepest existing
// node on the resolved path, PathNames the intermediate element nodes still
// to be created below it, and NewName the name of the node that will receive
// the caller's value (as an attribute when Attribute is set).
type AddPlan struct {
	Parent    *Node
	PathNames []string
	NewName   string
	Attribute bool
}

// PrepareAdd resolves the existing prefix of the given key by the
// "last valid path" rule and returns the plan for creating the rest.
//
// The final segment always names the new node, so it is never resolved
// against existing structure: an add always creates. For the segments before
// it, an unqualified segment descends into the most recently added matching
// child, a valid explicit index into that child, and the first segment with
// no valid match (no such children, or a negative or out-of-range index)
// starts the suffix of nodes to create. A negative index therefore forces a
// brand-new branch no matter how many matching siblings exist.
func PrepareAdd(root *Node, k key.Key) (AddPlan, error) {
	if len(k) == 0 {
		return AddPlan{}, ErrEmptyKey
	}

	prefix, last := k[:len(k)-1], k[len(k)-1]
	node := root
	depth := 0
	for _, segment := range prefix {
		children := node.ChildrenNamed(segment.Name)
		if len(children) == 0 {
			break
		}
		if segment.HasIndex {
			if segment.Index < 0 || segment.Index >= len(children) {
				break
			}
			node = children[segment.Index]
		} else {
			node = children[len(children)-1]
		}
		depth++
	}

	plan := AddPlan{Parent: node, NewName: last.Name, Attribute: last.Attribute}
	for _, segment := range prefix[depth:] {
		plan.PathNames = append(plan.PathNames, segment.Name)
	}

	return plan, nil
}

// Create materializes the plan: it creates the intermediate path nodes, then
// the new node carrying the given value, and returns the new node.
func (p AddPlan) Create(value any) *Node {
	parent := p.Parent
	for _, name := range p.PathNames {
		node := NewNode(name)
		parent.AddChild(node)
		parent = node
	}

	node := NewNode(p.NewName)
	node.Value = value
	if p.Attribute {
		parent.AddAttribute(node)
	} else {
		parent.AddChild(node)
	}

	return node
}

// Prune removes the node from the tree if its subtree no longer carries any
// value, and cascades upward through ancestors that become undefined and
// childless, stopping at the first still-defined ancestor or the root.
func Prune(node *Node) {
	for node != nil && node.parent != nil && !node.IsDefined() {
		parent := node.parent
		parent.RemoveChild(node)
		node = parent
	}
}
