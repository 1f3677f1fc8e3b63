// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

/*
Package hierconf models configuration as a hierarchical tree of named nodes
and resolves dotted, optionally indexed key expressions against it.

It defines a type, [Config], whose keys address nodes positionally:
`tables.table(1).fields.field.name` selects the name of every field of the
second table, and `connection[@timeout]` selects an attribute. Reads fan out
across unqualified segments; writes follow the most recently added branch,
and an out-of-range index such as `table(-1)` forces a new branch.

Each Config is populated by one or more [Loader] implementations, which
load a source such as a flat property file, an XML document or an in-memory
map into a node tree. Loaders that implement [Saver] persist changes back,
those that implement [Reloader] or [Watcher] keep the Config in sync with a
changing source.

Values are read raw with [Config.Property], decoded into structs with
[Config.Unmarshal], or coerced through the typed accessors such as
[Config.Int] and [Config.Duration].
*/
package hierconf
