// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package hierconf_test

import (
	"fmt"

	"github.com/hierconf/hierconf"
	"github.com/hierconf/hierconf/provider/mem"
)

func Example() {
	config := hierconf.New()
	if err := config.Load(mem.Map{
		"tables": map[string]any{
			"table": []any{
				map[string]any{"name": "users"},
				map[string]any{"name": "documents"},
			},
		},
	}); err != nil {
		panic(err)
	}

	name, _ := config.String("tables.table(1).name")
	fmt.Println(name)

	names, _ := config.StringSlice("tables.table.name")
	fmt.Println(names)
	// Output:
	// documents
	// [users documents]
}

func ExampleConfig_AddProperty() {
	config := hierconf.New()
	_ = config.AddProperty("tables.table.name", "users")
	// The unqualified key descends into the existing table; forcing a new
	// branch takes an out-of-range index.
	_ = config.AddProperty("tables.table(-1).name", "documents")

	maxIndex, _ := config.MaxIndex("tables.table")
	fmt.Println(maxIndex)
	// Output:
	// 1
}

func ExampleConfig_Unmarshal() {
	config := hierconf.New()
	if err := config.Load(mem.Map{
		"server": map[string]any{
			"host": "localhost",
			"port": "8080",
		},
	}); err != nil {
		panic(err)
	}

	var server struct {
		Host string
		Port int
	}
	if err := config.Unmarshal("server", &server); err != nil {
		panic(err)
	}
	fmt.Printf("%s:%d\n", server.Host, server.Port)
	// Output:
	// localhost:8080
}
