// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package hierconf

import (
	"context"

	"github.com/hierconf/hierconf/tree"
)

// Loader is the interface that wraps the basic Load method.
//
// Load reads a configuration source and returns it as a node tree rooted at
// an unnamed node. Source order must be preserved: the order of sibling
// nodes is the order values appeared in the source.
type Loader interface {
	Load() (*tree.Node, error)
}

// Saver is implemented by loaders that can persist a configuration tree
// back to their source.
//
// Save must round-trip: saving a tree and loading it again yields an
// equivalent set of keys and values, with multiplicity preserved, though
// not necessarily byte-identical formatting.
type Saver interface {
	Save(root *tree.Node) error
}

// Reloader is implemented by loaders that can cheaply decide whether their
// backing source has changed since the last Load, e.g. by comparing a file
// modification timestamp. The Config consults it before each access when
// created with [WithReload].
type Reloader interface {
	NeedsReload() bool
}

// Watcher is implemented by loaders that can push change notifications.
//
// Watch blocks until ctx is done, invoking onChange with a freshly loaded
// tree after each change of the source, or with nil if the source is gone.
type Watcher interface {
	Watch(ctx context.Context, onChange func(*tree.Node)) error
}
