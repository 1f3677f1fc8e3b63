// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

// Package mem loads configuration from an in-memory map.
//
// Map loads a nested map[string]any as a node tree: nested maps become
// subtrees, slices repeated same-named sibling nodes, and scalars leaf
// values. A key wrapped as `[@name]` becomes an attribute node. Map keys
// are visited in sorted order so the resulting tree is deterministic.
package mem

import (
	"github.com/hierconf/hierconf/tree"
)

// Map is a Loader that serves configuration from itself.
type Map map[string]any

func (m Map) Load() (*tree.Node, error) {
	return tree.FromMap(m), nil
}

func (m Map) String() string {
	return "mem"
}
