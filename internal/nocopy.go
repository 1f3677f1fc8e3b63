// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

// Package internal holds small helpers shared by the hierconf packages.
package internal

import (
	"reflect"
	"sync/atomic"
)

// NoCopy detects, at runtime, a struct of type T that was copied by value
// after first use. Embed it and call Check at the top of every method.
type NoCopy[T any] struct {
	addr atomic.Pointer[NoCopy[T]] // of receiver, to detect copies by value
}

// Check panics if the enclosing struct has been copied since the first call.
func (c *NoCopy[T]) Check() {
	if c.addr.CompareAndSwap(nil, c) {
		return
	}

	if c.addr.Load() != c {
		panic("illegal use of non-zero " + reflect.TypeOf((*T)(nil)).Elem().Name() + " copied by value")
	}
}
