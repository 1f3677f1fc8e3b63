// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package hierconf

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-viper/mapstructure/v2"

	"github.com/hierconf/hierconf/internal"
	"github.com/hierconf/hierconf/key"
	"github.com/hierconf/hierconf/tree"
)

// Config is a hierarchical configuration: a tree of named nodes addressed
// by key expressions like `tables.table(1).fields.field.name`.
//
// To create a new Config, call [New].
//
// Config methods are not safe for concurrent use while any goroutine is
// mutating the configuration; callers needing concurrent read/write must
// serialize externally. Sub-tree views returned by [Config.At] share nodes
// with their parent Config, so a mutation through one is immediately
// visible through all.
type Config struct {
	nocopy internal.NoCopy[Config]

	// Options.
	logger        *slog.Logger
	decodeHook    mapstructure.DecodeHookFunc
	tagName       string
	delimiter     rune
	reload        bool
	onReloadError func(error)

	// Loaded configuration.
	root      *tree.Node
	providers []*provider

	// Guard against reentrant reloads triggered by the reload itself.
	reloading atomic.Bool

	// For watching changes.
	onChanges      map[string][]func(*Config)
	onChangesMutex sync.RWMutex
	watchOnce      sync.Once
	watched        atomic.Bool
}

type provider struct {
	loader Loader
	root   *tree.Node
}

// New creates a new Config with the given Option(s).
func New(opts ...Option) *Config {
	option := &options{}
	for _, opt := range opts {
		opt(option)
	}
	if option.delimiter == 0 {
		option.delimiter = '.'
	}
	if option.logger == nil {
		option.logger = slog.Default()
	}
	option.root = tree.NewNode("")

	return (*Config)(option)
}

// Load loads configuration from the given loader(s), appending to whatever
// the Config already holds. Sibling order follows source order.
//
// This method can be called multiple times but it is not concurrency-safe.
func (c *Config) Load(loaders ...Loader) error {
	c.nocopy.Check()

	for _, loader := range loaders {
		if loader == nil {
			return errNilLoader
		}

		root, err := loader.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		c.providers = append(c.providers, &provider{loader: loader, root: root})
		merge(c.root, root)
	}

	return nil
}

// Save persists the configuration tree through every loader that
// implements [Saver].
func (c *Config) Save() error {
	c.nocopy.Check()

	for _, p := range c.providers {
		saver, ok := p.loader.(Saver)
		if !ok {
			continue
		}
		if err := saver.Save(c.root); err != nil {
			return fmt.Errorf("save configuration: %w", err)
		}
	}

	return nil
}

// Property returns the value(s) under the given key: nil when no matched
// node carries a value, the scalar when exactly one does, and a []any in
// query order when several do.
func (c *Config) Property(k string) (any, error) {
	c.nocopy.Check()
	c.maybeReload()

	parsed, err := c.parse(k)
	if err != nil {
		return nil, err
	}

	var values []any
	for _, node := range tree.Query(c.root, parsed) {
		if node.Value != nil {
			values = append(values, node.Value)
		}
	}
	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		return values[0], nil
	default:
		return values, nil
	}
}

// AddProperty adds a new node (or, for a []any value, one node per element)
// under the given key. It always creates: existing nodes at the key are
// never overwritten. An unqualified segment descends into the most recently
// added existing branch; an out-of-range index such as `(-1)` forces a
// brand-new branch.
func (c *Config) AddProperty(k string, value any) error {
	c.nocopy.Check()
	c.maybeReload()

	parsed, err := c.parse(k)
	if err != nil {
		return err
	}

	for _, v := range valueList(value) {
		plan, err := tree.PrepareAdd(c.root, parsed)
		if err != nil {
			return err
		}
		plan.Create(v)
	}

	return nil
}

// SetProperty replaces the values of the nodes matching the given key,
// resizing to fit: existing matches are assigned positionally from the
// (possibly []any) value, extra values are added as new nodes, and surplus
// matches are cleared and pruned.
func (c *Config) SetProperty(k string, value any) error {
	c.nocopy.Check()
	c.maybeReload()

	parsed, err := c.parse(k)
	if err != nil {
		return err
	}

	matches := tree.Query(c.root, parsed)
	values := valueList(value)
	assigned := min(len(matches), len(values))
	for i := 0; i < assigned; i++ {
		matches[i].Value = values[i]
	}
	// Same planning as AddProperty, so both code paths obey the
	// last-branch rule for unqualified segments.
	for _, v := range values[assigned:] {
		plan, err := tree.PrepareAdd(c.root, parsed)
		if err != nil {
			return err
		}
		plan.Create(v)
	}
	for _, node := range matches[assigned:] {
		node.Value = nil
		tree.Prune(node)
	}

	return nil
}

// ClearProperty clears the values of the nodes matching the given key and
// removes any node chains that become undefined, cascading upward to the
// first still-defined ancestor.
func (c *Config) ClearProperty(k string) error {
	c.nocopy.Check()
	c.maybeReload()

	parsed, err := c.parse(k)
	if err != nil {
		return err
	}

	for _, node := range tree.Query(c.root, parsed) {
		node.Value = nil
		tree.Prune(node)
	}

	return nil
}

// ClearTree removes the nodes matching the given key together with their
// whole subtrees, then prunes ancestors that became undefined.
func (c *Config) ClearTree(k string) error {
	c.nocopy.Check()
	c.maybeReload()

	parsed, err := c.parse(k)
	if err != nil {
		return err
	}

	for _, node := range tree.Query(c.root, parsed) {
		parent := node.Parent()
		if parent == nil {
			truncate(node)

			continue
		}
		parent.RemoveChild(node)
		tree.Prune(parent)
	}

	return nil
}

// ContainsKey reports whether the given key resolves to at least one node
// carrying a value. A malformed key reports false.
func (c *Config) ContainsKey(k string) bool {
	value, err := c.Property(k)

	return err == nil && value != nil
}

// IsEmpty reports whether the configuration holds no values at all.
func (c *Config) IsEmpty() bool {
	c.nocopy.Check()
	c.maybeReload()

	return !c.root.IsDefined()
}

// Keys returns the key of every node carrying a value, each key once,
// in tree traversal order.
func (c *Config) Keys() []string {
	c.nocopy.Check()
	c.maybeReload()

	visitor := tree.NewKeysVisitor(c.delimiter)
	c.root.Visit(visitor)

	return visitor.Keys()
}

// KeysWithPrefix returns the subset of [Config.Keys] lying under the given
// prefix: the prefix itself, keys below it, and its attributes.
func (c *Config) KeysWithPrefix(prefix string) []string {
	keys := c.Keys()
	if prefix == "" {
		return keys
	}

	var matched []string
	for _, k := range keys {
		if k == prefix ||
			strings.HasPrefix(k, prefix+string(c.delimiter)) ||
			strings.HasPrefix(k, prefix+"[@") {
			matched = append(matched, k)
		}
	}

	return matched
}

// MaxIndex returns the highest index addressable for the given key, i.e.
// the number of matching nodes minus one, or -1 when nothing matches.
func (c *Config) MaxIndex(k string) (int, error) {
	c.nocopy.Check()
	c.maybeReload()

	parsed, err := c.parse(k)
	if err != nil {
		return -1, err
	}

	return len(tree.Query(c.root, parsed)) - 1, nil
}

// Subset returns a new, fully decoupled Config holding deep clones of the
// nodes matching the given prefix, re-rooted so that their children are
// addressed without the prefix. When nothing matches, the result is empty.
func (c *Config) Subset(prefix string) (*Config, error) {
	c.nocopy.Check()
	c.maybeReload()

	parsed, err := c.parse(prefix)
	if err != nil {
		return nil, err
	}

	root := tree.NewNode("")
	matches := tree.Query(c.root, parsed)
	for _, node := range matches {
		adopt(root, node.DeepClone())
	}
	if len(matches) == 1 {
		root.Value = matches[0].Value
	}

	return c.view(root), nil
}

// At returns a live view rooted at the single node matching the given key.
// The view shares nodes with this Config: mutations through either are
// visible through both. It returns [ErrAmbiguousTarget] unless the key
// selects exactly one node.
func (c *Config) At(k string) (*Config, error) {
	c.nocopy.Check()
	c.maybeReload()

	parsed, err := c.parse(k)
	if err != nil {
		return nil, err
	}

	matches := tree.Query(c.root, parsed)
	if len(matches) != 1 {
		return nil, fmt.Errorf("%w: %q selects %d nodes", ErrAmbiguousTarget, k, len(matches))
	}

	return c.view(matches[0]), nil
}

// AllAt returns one live view per node matching the given key, in query
// order. The views share nodes with this Config.
func (c *Config) AllAt(k string) ([]*Config, error) {
	c.nocopy.Check()
	c.maybeReload()

	parsed, err := c.parse(k)
	if err != nil {
		return nil, err
	}

	matches := tree.Query(c.root, parsed)
	views := make([]*Config, 0, len(matches))
	for _, node := range matches {
		views = append(views, c.view(node))
	}

	return views, nil
}

// Unmarshal reads configuration under the given path from the Config
// and decodes it into the given object pointed to by target.
func (c *Config) Unmarshal(path string, target any) error {
	if c == nil {
		return nil
	}

	c.nocopy.Check()
	c.maybeReload()

	decodeHook := c.decodeHook
	if decodeHook == nil {
		decodeHook = defaultDecodeHook
	}
	tagName := c.tagName
	if tagName == "" {
		tagName = "hierconf"
	}
	decoder, err := mapstructure.NewDecoder(
		&mapstructure.DecoderConfig{
			Result:           target,
			WeaklyTypedInput: true,
			DecodeHook:       decodeHook,
			TagName:          tagName,
		},
	)
	if err != nil {
		return fmt.Errorf("new decoder: %w", err)
	}

	parsed, err := c.parse(path)
	if err != nil {
		return err
	}
	if err := decoder.Decode(c.sub(parsed)); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	return nil
}

func (c *Config) sub(parsed key.Key) any {
	matches := tree.Query(c.root, parsed)
	switch len(matches) {
	case 0:
		return nil
	case 1:
		return tree.ToValue(matches[0])
	default:
		values := make([]any, 0, len(matches))
		for _, node := range matches {
			values = append(values, tree.ToValue(node))
		}

		return values
	}
}

func (c *Config) parse(k string) (key.Key, error) {
	return key.Parse(k, c.delimiter)
}

// view creates a sub-Config over the given root, inheriting the options of
// this Config but none of its loaders.
func (c *Config) view(root *tree.Node) *Config {
	view := New(
		WithDelimiter(c.delimiter),
		WithLogger(c.logger),
		WithTagName(c.tagName),
		WithDecodeHook(c.decodeHook),
	)
	view.root = root

	return view
}

// maybeReload asks every reload-capable loader whether its source changed
// and, if so, reloads before the access proceeds. A failed reload is
// reported to the reload-error handler (by default a log entry) and the
// previously loaded data stays in effect.
func (c *Config) maybeReload() {
	if !c.reload || len(c.providers) == 0 || c.watched.Load() {
		return
	}
	if !c.reloading.CompareAndSwap(false, true) {
		return // Reentrant call triggered by the reload itself.
	}
	defer c.reloading.Store(false)

	stale := false
	for _, p := range c.providers {
		reloader, ok := p.loader.(Reloader)
		if !ok || !reloader.NeedsReload() {
			continue
		}

		root, err := p.loader.Load()
		if err != nil {
			if c.onReloadError != nil {
				c.onReloadError(err)

				continue
			}
			c.logger.Warn(
				"Error when reloading configuration, keeping previously loaded data.",
				"loader", p.loader,
				"error", err,
			)

			continue
		}
		p.root = root
		stale = true
	}
	if stale {
		c.rebuild()
	}
}

// rebuild recomposes the combined tree from the per-loader trees.
// Mutations applied through the facade since the last load do not survive
// a rebuild, matching the reload semantics of the backing sources.
func (c *Config) rebuild() {
	root := tree.NewNode("")
	for _, p := range c.providers {
		merge(root, p.root)
	}
	c.root = root
}

func merge(dst, src *tree.Node) {
	if src == nil {
		return
	}
	if src.Value != nil {
		dst.Value = src.Value
	}
	adopt(dst, src)
}

// adopt re-parents the children and attributes of src under dst.
func adopt(dst, src *tree.Node) {
	for _, child := range slices.Clone(src.Children()) {
		dst.AddChild(child)
	}
	for _, attr := range slices.Clone(src.Attributes()) {
		dst.AddAttribute(attr)
	}
}

// truncate empties a node in place; used when a clear targets the root,
// which can never be removed from the tree.
func truncate(node *tree.Node) {
	node.Value = nil
	for _, child := range slices.Clone(node.Children()) {
		node.RemoveChild(child)
	}
	for _, attr := range slices.Clone(node.Attributes()) {
		node.RemoveChild(attr)
	}
}

func valueList(value any) []any {
	if values, ok := value.([]any); ok {
		return values
	}

	return []any{value}
}

var (
	errNilLoader = errors.New("cannot load config from nil loader")

	defaultDecodeHook = mapstructure.ComposeDecodeHookFunc( //nolint:gochecknoglobals
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	)
)
