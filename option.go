// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package hierconf

import (
	"log/slog"

	"github.com/go-viper/mapstructure/v2"
)

// WithDelimiter provides the delimiter used when parsing and composing
// key expressions.
//
// The default delimiter is `.`, which makes keys like `parent.child.key`.
// The delimiter is an explicit per-Config setting; there is no process-wide
// default to mutate.
func WithDelimiter(delimiter rune) Option {
	return func(options *options) {
		options.delimiter = delimiter
	}
}

// WithLogger provides the slog.Logger for the Config.
//
// By default, it uses slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(options *options) {
		options.logger = logger
	}
}

// WithTagName provides the struct tag name read by [Config.Unmarshal].
//
// The default tag name is `hierconf`.
func WithTagName(tagName string) Option {
	return func(options *options) {
		options.tagName = tagName
	}
}

// WithDecodeHook provides the mapstructure decode hook used by
// [Config.Unmarshal].
//
// The default decode hook handles time.Duration strings, comma-separated
// slices and encoding.TextUnmarshaler.
func WithDecodeHook(decodeHook mapstructure.DecodeHookFunc) Option {
	return func(options *options) {
		options.decodeHook = decodeHook
	}
}

// WithReload makes the Config consult every loader implementing [Reloader]
// before each read or write, reloading first when the backing source has
// changed. While [Config.Watch] is running, these checks are skipped in
// favor of the pushed updates.
func WithReload() Option {
	return func(options *options) {
		options.reload = true
	}
}

// WithOnReloadError overrides what happens when a reload triggered by
// [WithReload] fails. The default handler logs a warning and keeps the
// previously loaded data, which favors availability over freshness.
func WithOnReloadError(onReloadError func(error)) Option {
	return func(options *options) {
		options.onReloadError = onReloadError
	}
}

// Option configures the given Config.
type Option func(*options)

type options Config
