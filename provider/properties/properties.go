// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

// Package properties loads and saves configuration as a flat property file.
//
// Properties parses a Java-style .properties file and builds a node tree by
// interpreting each property name as a key expression, so `tables.table.name`
// nests. A value containing the list delimiter (default `,`) is split into
// one node per element. Saving renders the tree back to flat properties;
// loading the result again yields an equivalent key/value set.
//
// By default, it returns error while loading if the file is not found.
// WithIgnoreNotExist can override the behavior to start from an empty tree.
package properties

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/magiconair/properties"
	"github.com/spf13/cast"

	"github.com/hierconf/hierconf/internal/watch"
	"github.com/hierconf/hierconf/key"
	"github.com/hierconf/hierconf/tree"
)

// Properties is a Loader that reads and writes a flat property file.
//
// To create a new Properties, call [New].
type Properties struct {
	logger         *slog.Logger
	path           string
	delimiter      rune
	listDelimiter  string
	ignoreNotExist bool

	modTime time.Time
}

// New creates a Properties with the given path and Option(s).
//
// It panics if the path is empty.
func New(path string, opts ...Option) *Properties {
	if path == "" {
		panic("cannot create Properties with empty path")
	}

	option := &options{
		path:          path,
		delimiter:     '.',
		listDelimiter: ",",
	}
	for _, opt := range opts {
		opt(option)
	}
	if option.logger == nil {
		option.logger = slog.Default()
	}
	option.logger = option.logger.WithGroup("hierconf.properties")

	return (*Properties)(option)
}

func (p *Properties) Load() (*tree.Node, error) {
	info, err := os.Stat(p.path)
	if err != nil {
		if p.ignoreNotExist && os.IsNotExist(err) {
			p.logger.Warn("Properties file does not exist.", "file", p.path)

			return tree.NewNode(""), nil
		}

		return nil, fmt.Errorf("stat file: %w", err)
	}

	loaded, err := properties.LoadFile(p.path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}

	root := tree.NewNode("")
	for _, name := range loaded.Keys() {
		parsed, err := key.Parse(name, p.delimiter)
		if err != nil {
			return nil, fmt.Errorf("parse property key %q: %w", name, err)
		}

		value, _ := loaded.Get(name)
		for _, v := range p.split(value) {
			plan, err := tree.PrepareAdd(root, parsed)
			if err != nil {
				return nil, fmt.Errorf("add property %q: %w", name, err)
			}
			plan.Create(v)
		}
	}
	p.modTime = info.ModTime()

	return root, nil
}

func (p *Properties) split(value string) []string {
	if p.listDelimiter == "" {
		return []string{value}
	}

	parts := strings.Split(value, p.listDelimiter)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts
}

// Save renders the tree as flat properties and writes it to the file.
// Multiple values under one key are joined with the list delimiter.
func (p *Properties) Save(root *tree.Node) error {
	visitor := tree.NewKeysVisitor(p.delimiter)
	root.Visit(visitor)

	out := properties.NewProperties()
	for _, name := range visitor.Keys() {
		parsed, err := key.Parse(name, p.delimiter)
		if err != nil {
			return fmt.Errorf("parse property key %q: %w", name, err)
		}

		var values []string
		for _, node := range tree.Query(root, parsed) {
			if node.Value == nil {
				continue
			}
			str, err := cast.ToStringE(node.Value)
			if err != nil {
				return fmt.Errorf("render property %q: %w", name, err)
			}
			values = append(values, str)
		}
		if _, _, err := out.Set(name, strings.Join(values, p.listDelimiter)); err != nil {
			return fmt.Errorf("set property %q: %w", name, err)
		}
	}

	file, err := os.Create(p.path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if _, err := out.Write(file, properties.UTF8); err != nil {
		return fmt.Errorf("write properties: %w", err)
	}
	if info, err := os.Stat(p.path); err == nil {
		p.modTime = info.ModTime()
	}

	return nil
}

// NeedsReload reports whether the file has been modified since it was last
// loaded or saved.
func (p *Properties) NeedsReload() bool {
	info, err := os.Stat(p.path)
	if err != nil {
		return false
	}

	return info.ModTime().After(p.modTime)
}

func (p *Properties) Watch(ctx context.Context, onChange func(*tree.Node)) error {
	return watch.File(ctx, p.logger, p.path,
		func() {
			root, err := p.Load()
			if err != nil {
				p.logger.LogAttrs(
					ctx, slog.LevelWarn,
					"Error when reloading properties file.",
					slog.String("file", p.path),
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

func (p *Properties) String() string {
	return "properties:" + p.path
}
