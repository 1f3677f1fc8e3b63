// Copyright (c) 2026 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package xml

import "log/slog"

// WithRootName provides the tag of the document root element created when
// saving a configuration that was not loaded from an existing document.
//
// The default root name is `configuration`.
func WithRootName(rootName string) Option {
	return func(options *options) {
		options.rootName = rootName
	}
}

// WithListDelimiter provides the delimiter that splits an attribute value
// into a list of values, and joins them again on save.
//
// The default list delimiter is `,`. An empty string disables splitting.
func WithListDelimiter(listDelimiter string) Option {
	return func(options *options) {
		options.listDelimiter = listDelimiter
	}
}

// WithIgnoreNotExist ignores the error and starts from an empty tree
// if the file does not exist. A later Save creates a fresh document.
func WithIgnoreNotExist() Option {
	return func(options *options) {
		options.ignoreNotExist = true
	}
}

// WithLogger provides the slog.Logger for the XML loader.
//
// By default, it uses slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(options *options) {
		options.logger = logger
	}
}

// Option configures the given XML.
type Option func(*options)

type options XML
