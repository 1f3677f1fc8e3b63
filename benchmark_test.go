// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package hierconf_test

import (
	"testing"

	"github.com/hierconf/hierconf"
	"github.com/hierconf/hierconf/internal/assert"
	"github.com/hierconf/hierconf/provider/mem"
)

func BenchmarkNew(b *testing.B) {
	var (
		config *hierconf.Config
		err    error
	)
	for i := 0; i < b.N; i++ {
		config = hierconf.New()
		err = config.Load(mem.Map{"server": map[string]any{"host": "localhost"}})
	}
	b.StopTimer()

	assert.NoError(b, err)
	host, err := config.String("server.host")
	assert.NoError(b, err)
	assert.Equal(b, "localhost", host)
}

func BenchmarkConfig_Property(b *testing.B) {
	config := hierconf.New()
	assert.NoError(b, config.AddProperty("tables.table.fields.field.name", "uid"))
	b.ResetTimer()

	var value any
	var err error
	for i := 0; i < b.N; i++ {
		value, err = config.Property("tables.table(0).fields.field.name")
	}
	b.StopTimer()

	assert.NoError(b, err)
	assert.Equal(b, any("uid"), value)
}

func BenchmarkConfig_Keys(b *testing.B) {
	config := hierconf.New()
	for _, key := range []string{
		"tables.table(-1).name",
		"tables.table(-1).name",
		"server.host",
		"server.port",
	} {
		assert.NoError(b, config.AddProperty(key, "value"))
	}
	b.ResetTimer()

	var keys []string
	for i := 0; i < b.N; i++ {
		keys = config.Keys()
	}
	b.StopTimer()

	assert.Equal(b, 3, len(keys))
}
