// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package mem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hierconf/hierconf/key"
	"github.com/hierconf/hierconf/provider/mem"
	"github.com/hierconf/hierconf/tree"
)

func TestMap_Load(t *testing.T) {
	t.Parallel()

	root, err := mem.Map{
		"server": map[string]any{
			"host":   "localhost",
			"[@env]": "test",
			"tags":   []any{"alpha", "beta"},
		},
	}.Load()
	require.NoError(t, err)

	query := func(raw string) []any {
		parsed, err := key.Parse(raw, '.')
		require.NoError(t, err)

		var values []any
		for _, node := range tree.Query(root, parsed) {
			values = append(values, node.Value)
		}

		return values
	}
	assert.Equal(t, []any{"localhost"}, query("server.host"))
	assert.Equal(t, []any{"test"}, query("server[@env]"))
	assert.Equal(t, []any{"alpha", "beta"}, query("server.tags"))
}

func TestMap_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "mem", mem.Map{}.String())
}
