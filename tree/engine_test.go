// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package tree_test

import (
	"testing"

	"github.com/hierconf/hierconf/internal/assert"
	"github.com/hierconf/hierconf/key"
	"github.com/hierconf/hierconf/tree"
)

// database builds the canonical sample tree:
//
//	tables.table(0).name       = users
//	tables.table(0)[@type]     = system
//	tables.table(0).fields.field(0).name = uid
//	tables.table(0).fields.field(1).name = uname
//	tables.table(1).name       = documents
//	tables.table(1).fields.field(0).name = docid
func database() *tree.Node {
	root := tree.NewNode("")
	tables := tree.NewNode("tables")
	root.AddChild(tables)

	add := func(name string, fieldNames []string, typeAttr string) {
		table := tree.NewNode("table")
		tables.AddChild(table)
		tableName := tree.NewNode("name")
		tableName.Value = name
		table.AddChild(tableName)
		if typeAttr != "" {
			attr := tree.NewNode("type")
			attr.Value = typeAttr
			table.AddAttribute(attr)
		}
		fields := tree.NewNode("fields")
		table.AddChild(fields)
		for _, fieldName := range fieldNames {
			field := tree.NewNode("field")
			fields.AddChild(field)
			node := tree.NewNode("name")
			node.Value = fieldName
			field.AddChild(node)
		}
	}
	add("users", []string{"uid", "uname"}, "system")
	add("documents", []string{"docid"}, "")

	return root
}

func values(nodes []*tree.Node) []any {
	var list []any
	for _, node := range nodes {
		list = append(list, node.Value)
	}

	return list
}

func TestQuery(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		description string
		key         string
		expected    []any
	}{
		{
			description: "unqualified key fans out",
			key:         "tables.table.name",
			expected:    []any{"users", "documents"},
		},
		{
			description: "explicit index selects one sibling",
			key:         "tables.table(1).name",
			expected:    []any{"documents"},
		},
		{
			description: "nested indices",
			key:         "tables.table(0).fields.field(1).name",
			expected:    []any{"uname"},
		},
		{
			description: "fan out below an index",
			key:         "tables.table(0).fields.field.name",
			expected:    []any{"uid", "uname"},
		},
		{
			description: "attribute",
			key:         "tables.table(0)[@type]",
			expected:    []any{"system"},
		},
		{
			description: "out of range index yields nothing",
			key:         "tables.table(5).name",
			expected:    nil,
		},
		{
			description: "negative index yields nothing",
			key:         "tables.table(-1).name",
			expected:    nil,
		},
		{
			description: "unknown name yields nothing",
			key:         "tables.view.name",
			expected:    nil,
		},
		{
			description: "attribute missing on the selected sibling",
			key:         "tables.table(1)[@type]",
			expected:    nil,
		},
	}

	root := database()
	for _, testcase := range testcases {
		testcase := testcase

		t.Run(testcase.description, func(t *testing.T) {
			t.Parallel()

			parsed, err := key.Parse(testcase.key, '.')
			assert.NoError(t, err)
			assert.Equal(t, testcase.expected, values(tree.Query(root, parsed)))
		})
	}
}

func TestQuery_root(t *testing.T) {
	t.Parallel()

	root := database()
	parsed, err := key.Parse("", '.')
	assert.NoError(t, err)
	assert.Equal(t, []*tree.Node{root}, tree.Query(root, parsed))
}

func TestPrepareAdd(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		description string
		key         string
		parent      string // key of the expected Parent, resolved by Query
		pathNames   []string
		newName     string
		attribute   bool
	}{
		{
			description: "fresh path is created from the root",
			key:         "views.view.name",
			parent:      "",
			pathNames:   []string{"views", "view"},
			newName:     "name",
		},
		{
			description: "unqualified prefix descends into the last sibling",
			key:         "tables.table.comment",
			parent:      "tables.table(1)",
			newName:     "comment",
		},
		{
			description: "explicit index descends into that sibling",
			key:         "tables.table(0).comment",
			parent:      "tables.table(0)",
			newName:     "comment",
		},
		{
			description: "negative index forces a new branch",
			key:         "tables.table(-1).name",
			parent:      "tables",
			pathNames:   []string{"table"},
			newName:     "name",
		},
		{
			description: "out of range index forces a new branch",
			key:         "tables.table(9).name",
			parent:      "tables",
			pathNames:   []string{"table"},
			newName:     "name",
		},
		{
			description: "final segment always creates",
			key:         "tables.table(0).name",
			parent:      "tables.table(0)",
			newName:     "name",
		},
		{
			description: "attribute add",
			key:         "tables.table(1)[@type]",
			parent:      "tables.table(1)",
			newName:     "type",
			attribute:   true,
		},
	}

	root := database()
	for _, testcase := range testcases {
		testcase := testcase

		t.Run(testcase.description, func(t *testing.T) {
			t.Parallel()

			parsed, err := key.Parse(testcase.key, '.')
			assert.NoError(t, err)
			plan, err := tree.PrepareAdd(root, parsed)
			assert.NoError(t, err)

			parentKey, err := key.Parse(testcase.parent, '.')
			assert.NoError(t, err)
			assert.Equal(t, tree.Query(root, parentKey)[0], plan.Parent)
			assert.Equal(t, testcase.pathNames, plan.PathNames)
			assert.Equal(t, testcase.newName, plan.NewName)
			assert.Equal(t, testcase.attribute, plan.Attribute)
		})
	}
}

func TestPrepareAdd_emptyKey(t *testing.T) {
	t.Parallel()

	_, err := tree.PrepareAdd(tree.NewNode(""), nil)
	assert.ErrorIs(t, err, tree.ErrEmptyKey)
}

func TestAddPlan_Create(t *testing.T) {
	t.Parallel()

	root := database()
	parsed, err := key.Parse("views.view.name", '.')
	assert.NoError(t, err)
	plan, err := tree.PrepareAdd(root, parsed)
	assert.NoError(t, err)

	node := plan.Create("index")
	assert.Equal(t, "name", node.Name)
	assert.Equal(t, any("index"), node.Value)

	matched := tree.Query(root, parsed)
	assert.Equal(t, []*tree.Node{node}, matched)

	// A second add with the same key descends into the branch just created.
	plan, err = tree.PrepareAdd(root, parsed)
	assert.NoError(t, err)
	plan.Create("shadow")
	assert.Equal(t, []any{"index", "shadow"}, values(tree.Query(root, parsed)))
	viewsKey, _ := key.Parse("views.view", '.')
	assert.Equal(t, 1, len(tree.Query(root, viewsKey)))
}

func TestAddPlan_Create_attribute(t *testing.T) {
	t.Parallel()

	root := database()
	parsed, err := key.Parse("tables.table(1)[@type]", '.')
	assert.NoError(t, err)
	plan, err := tree.PrepareAdd(root, parsed)
	assert.NoError(t, err)

	node := plan.Create("document")
	assert.True(t, node.Attribute)
	assert.Equal(t, []any{"document"}, values(tree.Query(root, parsed)))
}

func TestPrune(t *testing.T) {
	t.Parallel()

	root := database()
	parsed, err := key.Parse("tables.table(1).fields.field(0).name", '.')
	assert.NoError(t, err)
	node := tree.Query(root, parsed)[0]

	node.Value = nil
	tree.Prune(node)

	// The whole undefined chain below table(1) is gone, but the table
	// itself still carries its name.
	fieldsKey, _ := key.Parse("tables.table(1).fields", '.')
	assert.Equal(t, 0, len(tree.Query(root, fieldsKey)))
	nameKey, _ := key.Parse("tables.table(1).name", '.')
	assert.Equal(t, []any{"documents"}, values(tree.Query(root, nameKey)))
}

func TestPrune_stopsAtDefinedAncestor(t *testing.T) {
	t.Parallel()

	root := database()
	parsed, err := key.Parse("tables.table(0).fields.field(0).name", '.')
	assert.NoError(t, err)
	node := tree.Query(root, parsed)[0]

	node.Value = nil
	tree.Prune(node)

	// field(1) is still defined, so fields survives and the former
	// field(1) becomes field(0).
	assert.Equal(t, []any{"uname"}, values(tree.Query(root, parsed)))
}

func TestPrune_root(t *testing.T) {
	t.Parallel()

	root := tree.NewNode("")
	child := tree.NewNode("ghost")
	root.AddChild(child)

	grand := tree.NewNode("leaf")
	child.AddChild(grand)
	tree.Prune(grand)

	// The root is never removed, even when it ends up undefined.
	assert.Equal(t, 0, len(root.Children()))
	tree.Prune(root)
}
