// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package hierconf

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// The typed accessors coerce the raw value under a key to a primitive type.
// A missing key yields the zero value and no error (use [Config.ContainsKey]
// to distinguish); a value that cannot be coerced yields [ErrConversion].
// When a key matches several values, the first one in query order is used.

// Bool returns the value under the given key as a bool.
func (c *Config) Bool(k string) (bool, error) {
	return convert(c, k, "bool", cast.ToBoolE)
}

// Int returns the value under the given key as an int.
func (c *Config) Int(k string) (int, error) {
	return convert(c, k, "int", cast.ToIntE)
}

// Int64 returns the value under the given key as an int64.
func (c *Config) Int64(k string) (int64, error) {
	return convert(c, k, "int64", cast.ToInt64E)
}

// Float64 returns the value under the given key as a float64.
func (c *Config) Float64(k string) (float64, error) {
	return convert(c, k, "float64", cast.ToFloat64E)
}

// String returns the value under the given key as a string.
func (c *Config) String(k string) (string, error) {
	return convert(c, k, "string", cast.ToStringE)
}

// Duration returns the value under the given key as a time.Duration.
func (c *Config) Duration(k string) (time.Duration, error) {
	return convert(c, k, "duration", cast.ToDurationE)
}

// Time returns the value under the given key as a time.Time.
func (c *Config) Time(k string) (time.Time, error) {
	return convert(c, k, "time", cast.ToTimeE)
}

// StringSlice returns the values under the given key as a []string,
// one element per matched value.
func (c *Config) StringSlice(k string) ([]string, error) {
	value, err := c.Property(k)
	if err != nil || value == nil {
		return nil, err
	}

	values, ok := value.([]any)
	if !ok {
		values = []any{value}
	}
	strs := make([]string, 0, len(values))
	for _, v := range values {
		str, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as string: %w", ErrConversion, k, err)
		}
		strs = append(strs, str)
	}

	return strs, nil
}

func convert[T any](c *Config, k, kind string, to func(any) (T, error)) (T, error) {
	var zero T

	value, err := c.Property(k)
	if err != nil || value == nil {
		return zero, err
	}
	if values, ok := value.([]any); ok {
		value = values[0]
	}

	converted, err := to(value)
	if err != nil {
		return zero, fmt.Errorf("%w: %q as %s: %w", ErrConversion, k, kind, err)
	}

	return converted, nil
}
