// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package hierconf

import (
	"errors"

	"github.com/hierconf/hierconf/key"
	"github.com/hierconf/hierconf/tree"
)

var (
	// ErrMalformedKey is returned when a key expression cannot be parsed.
	ErrMalformedKey = key.ErrMalformed

	// ErrEmptyKey is returned when an add or set operation is given a key
	// with no segments.
	ErrEmptyKey = tree.ErrEmptyKey

	// ErrAmbiguousTarget is returned when a sub-tree view is requested for
	// a key that does not select exactly one node. The caller must refine
	// the key, typically with an explicit index.
	ErrAmbiguousTarget = errors.New("key does not select exactly one node")

	// ErrConversion is returned by the typed accessors when a raw value
	// cannot be coerced to the requested type.
	ErrConversion = errors.New("cannot convert configuration value")
)
