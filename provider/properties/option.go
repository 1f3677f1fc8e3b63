// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package properties

import "log/slog"

// WithDelimiter provides the delimiter used when interpreting property
// names as key expressions. It should match the delimiter of the Config
// the tree is loaded into.
//
// The default delimiter is `.`.
func WithDelimiter(delimiter rune) Option {
	return func(options *options) {
		options.delimiter = delimiter
	}
}

// WithListDelimiter provides the delimiter that splits a property value
// into a list of values, and joins them again on save.
//
// The default list delimiter is `,`. An empty string disables splitting.
func WithListDelimiter(listDelimiter string) Option {
	return func(options *options) {
		options.listDelimiter = listDelimiter
	}
}

// WithIgnoreNotExist ignores the error and starts from an empty tree
// if the file does not exist.
func WithIgnoreNotExist() Option {
	return func(options *options) {
		options.ignoreNotExist = true
	}
}

// WithLogger provides the slog.Logger for the Properties loader.
//
// By default, it uses slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(options *options) {
		options.logger = logger
	}
}

// Option configures the given Properties.
type Option func(*options)

type options Properties
