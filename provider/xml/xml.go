// Copyright (c) 2026 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

// Package xml loads and saves configuration as an XML document.
//
// XML maps each element to a node named after its tag, each XML attribute
// to an attribute-kind node (split on the list delimiter when the value
// contains one), and non-blank text content to the element's value. The
// name of the document's root element is not part of any key.
//
// The loaded document is kept: every node remembers the element it came
// from, and Save splices only genuinely new nodes into the document, so
// comments, ordering and formatting of the original file survive a save.
package xml

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/spf13/cast"

	"github.com/hierconf/hierconf/internal/watch"
	"github.com/hierconf/hierconf/tree"
)

// XML is a Loader that reads and writes an XML document.
//
// To create a new XML, call [New].
type XML struct {
	logger         *slog.Logger
	path           string
	rootName       string
	listDelimiter  string
	ignoreNotExist bool

	doc     *etree.Document
	modTime time.Time
}

// New creates a XML with the given path and Option(s).
//
// It panics if the path is empty.
func New(path string, opts ...Option) *XML {
	if path == "" {
		panic("cannot create XML with empty path")
	}

	option := &options{
		path:          path,
		rootName:      "configuration",
		listDelimiter: ",",
	}
	for _, opt := range opts {
		opt(option)
	}
	if option.logger == nil {
		option.logger = slog.Default()
	}
	option.logger = option.logger.WithGroup("hierconf.xml")

	return (*XML)(option)
}

func (x *XML) Load() (*tree.Node, error) {
	info, err := os.Stat(x.path)
	if err != nil {
		if x.ignoreNotExist && os.IsNotExist(err) {
			x.logger.Warn("XML file does not exist.", "file", x.path)
			x.doc = nil

			return tree.NewNode(""), nil
		}

		return nil, fmt.Errorf("stat file: %w", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(x.path); err != nil {
		return nil, fmt.Errorf("read xml: %w", err)
	}

	root := tree.NewNode("")
	if elem := doc.Root(); elem != nil {
		root.Ref = elem
		x.build(root, elem)
	}
	x.doc = doc
	x.modTime = info.ModTime()

	return root, nil
}

func (x *XML) build(node *tree.Node, elem *etree.Element) {
	for _, a := range elem.Attr {
		for _, value := range x.split(a.Value) {
			attr := tree.NewNode(fullKey(a))
			attr.Value = value
			attr.Ref = elem
			node.AddAttribute(attr)
		}
	}
	for _, childElem := range elem.ChildElements() {
		child := tree.NewNode(childElem.FullTag())
		child.Ref = childElem
		node.AddChild(child)
		x.build(child, childElem)
	}
	if text := strings.TrimSpace(elem.Text()); text != "" {
		node.Value = text
	}
}

func (x *XML) split(value string) []string {
	if x.listDelimiter == "" || !strings.Contains(value, x.listDelimiter) {
		return []string{value}
	}

	parts := strings.Split(value, x.listDelimiter)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts
}

// Save writes the tree back to the XML file. Nodes loaded from the file
// update their original elements in place; new nodes are spliced in next
// to their siblings; elements whose nodes are gone are removed. Everything
// else in the document is left untouched.
func (x *XML) Save(root *tree.Node) error {
	doc := x.doc
	if doc == nil || doc.Root() == nil {
		doc = etree.NewDocument()
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
		doc.CreateElement(x.rootName)
		x.doc = doc
	}
	rootElem := doc.Root()

	root.Visit(tree.NewBuilderVisitor(&inserter{root: rootElem}))

	live := map[*etree.Element]bool{rootElem: true}
	collectRefs(root, live)
	pruneElements(rootElem, live)

	if err := x.sync(root, rootElem); err != nil {
		return err
	}

	if err := doc.WriteToFile(x.path); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}
	if info, err := os.Stat(x.path); err == nil {
		x.modTime = info.ModTime()
	}

	return nil
}

func collectRefs(node *tree.Node, live map[*etree.Element]bool) {
	if elem, ok := node.Ref.(*etree.Element); ok {
		live[elem] = true
	}
	for _, child := range node.Children() {
		collectRefs(child, live)
	}
}

func pruneElements(elem *etree.Element, live map[*etree.Element]bool) {
	for _, child := range slices.Clone(elem.ChildElements()) {
		if !live[child] {
			elem.RemoveChild(child)

			continue
		}
		pruneElements(child, live)
	}
}

func (x *XML) sync(node *tree.Node, elem *etree.Element) error {
	value := ""
	if node.Value != nil {
		str, err := cast.ToStringE(node.Value)
		if err != nil {
			return fmt.Errorf("render value of %q: %w", node.Name, err)
		}
		value = str
	}
	if strings.TrimSpace(elem.Text()) != value {
		elem.SetText(value)
	}

	// Attributes are rebuilt wholesale per element: multi-valued ones are
	// joined with the list delimiter, removed ones dropped.
	values := make(map[string][]string)
	var names []string
	for _, attr := range node.Attributes() {
		str, err := cast.ToStringE(attr.Value)
		if err != nil {
			return fmt.Errorf("render attribute %q of %q: %w", attr.Name, node.Name, err)
		}
		if _, ok := values[attr.Name]; !ok {
			names = append(names, attr.Name)
		}
		values[attr.Name] = append(values[attr.Name], str)
	}
	for _, a := range slices.Clone(elem.Attr) {
		if _, ok := values[fullKey(a)]; !ok {
			elem.RemoveAttr(fullKey(a))
		}
	}
	for _, name := range names {
		elem.CreateAttr(name, strings.Join(values[name], x.listDelimiter))
	}

	for _, child := range node.Children() {
		if childElem, ok := child.Ref.(*etree.Element); ok {
			if err := x.sync(child, childElem); err != nil {
				return err
			}
		}
	}

	return nil
}

// NeedsReload reports whether the file has been modified since it was last
// loaded or saved.
func (x *XML) NeedsReload() bool {
	info, err := os.Stat(x.path)
	if err != nil {
		return false
	}

	return info.ModTime().After(x.modTime)
}

func (x *XML) Watch(ctx context.Context, onChange func(*tree.Node)) error {
	return watch.File(ctx, x.logger, x.path,
		func() {
			root, err := x.Load()
			if err != nil {
				x.logger.LogAttrs(
					ctx, slog.LevelWarn,
					"Error when reloading XML file.",
					slog.String("file", x.path),
					slog.Any("error", err),
				)

				return
			}
			onChange(root)
		},
		func() {
			onChange(nil)
		},
	)
}

func (x *XML) String() string {
	return "xml:" + x.path
}

func fullKey(a etree.Attr) string {
	if a.Space != "" {
		return a.Space + ":" + a.Key
	}

	return a.Key
}

// inserter places new tree nodes into the backing document.
type inserter struct {
	root *etree.Element
}

func (ins *inserter) Insert(node, parent, _, after *tree.Node) any {
	parentElem := ins.element(parent)
	if node.Attribute {
		// Attributes have no position of their own; binding to the owning
		// element is enough, the sync pass writes them out.
		return parentElem
	}

	elem := etree.NewElement(node.Name)
	if after != nil {
		if afterElem, ok := after.Ref.(*etree.Element); ok {
			parentElem.InsertChildAt(afterElem.Index(), elem)

			return elem
		}
	}
	parentElem.AddChild(elem)

	return elem
}

func (ins *inserter) element(parent *tree.Node) *etree.Element {
	if elem, ok := parent.Ref.(*etree.Element); ok {
		return elem
	}

	// The combined tree's root carries no reference; it stands for the
	// document's root element.
	return ins.root
}
