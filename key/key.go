// Copyright (c) 2025 The hierconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

// Package key parses configuration key expressions.
//
// A key expression addresses nodes in a configuration tree, e.g.
// `tables.table(1).fields.field.name` or `connection[@timeout]`.
// Segments are separated by a delimiter (default `.`); a segment may carry
// a positional index in parentheses, and the final segment may be an
// attribute wrapped as `[@name]`. A delimiter preceded by a backslash is
// part of the segment name.
package key

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned when a key expression cannot be parsed.
var ErrMalformed = errors.New("malformed configuration key")

// Segment is a single component of a parsed key expression.
type Segment struct {
	Name      string
	Index     int
	HasIndex  bool
	Attribute bool
}

// Key is a parsed key expression, one Segment per addressed level.
type Key []Segment

const escape = '\\'

// Parse parses the given key expression with the given delimiter.
//
// Empty segments (leading, trailing or doubled delimiters) are dropped,
// so `a..b.` parses the same as `a.b`. An empty key parses to an empty Key,
// which addresses the root of a tree.
func Parse(raw string, delimiter rune) (Key, error) { //nolint:cyclop,funlen
	var (
		parsed  Key
		name    strings.Builder
		pending bool // name or index collected for the current segment
		segment Segment
	)
	flush := func() {
		if !pending && name.Len() == 0 {
			return
		}
		segment.Name = name.String()
		parsed = append(parsed, segment)
		name.Reset()
		segment = Segment{}
		pending = false
	}

	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; c {
		case escape:
			if i+1 < len(runes) && (runes[i+1] == delimiter || runes[i+1] == escape) {
				name.WriteRune(runes[i+1])
				i++

				continue
			}
			name.WriteRune(c)

		case delimiter:
			flush()

		case '(':
			end := indexOf(runes[i+1:], ')')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed index in %q", ErrMalformed, raw)
			}
			index, err := strconv.Atoi(string(runes[i+1 : i+1+end]))
			if err != nil {
				return nil, fmt.Errorf("%w: bad index in %q: %w", ErrMalformed, raw, err)
			}
			segment.Index = index
			segment.HasIndex = true
			pending = true
			i += end + 1
			if i+1 < len(runes) && runes[i+1] != delimiter && runes[i+1] != '[' {
				return nil, fmt.Errorf("%w: unexpected %q after index in %q", ErrMalformed, runes[i+1], raw)
			}

		case '[':
			if i+1 >= len(runes) || runes[i+1] != '@' {
				name.WriteRune(c)

				continue
			}
			end := indexOf(runes[i+2:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed attribute marker in %q", ErrMalformed, raw)
			}
			flush()
			attribute := Segment{Name: string(runes[i+2 : i+2+end]), Attribute: true}
			i += end + 2
			if i+1 < len(runes) {
				return nil, fmt.Errorf("%w: attribute must end the key %q", ErrMalformed, raw)
			}
			parsed = append(parsed, attribute)

		default:
			name.WriteRune(c)
		}
	}
	flush()

	return parsed, nil
}

func indexOf(runes []rune, r rune) int {
	for i, c := range runes {
		if c == r {
			return i
		}
	}

	return -1
}

// String recomposes the key into its canonical textual form:
// element segments joined by the delimiter with indices in parentheses,
// an attribute segment appended as `[@name]` without a delimiter,
// and delimiters inside segment names escaped.
func (k Key) String(delimiter rune) string {
	var str strings.Builder
	for i, segment := range k {
		if segment.Attribute {
			str.WriteString("[@")
			str.WriteString(segment.Name)
			str.WriteString("]")

			continue
		}
		if i > 0 {
			str.WriteRune(delimiter)
		}
		for _, c := range segment.Name {
			if c == delimiter || c == escape {
				str.WriteRune(escape)
			}
			str.WriteRune(c)
		}
		if segment.HasIndex {
			str.WriteString("(")
			str.WriteString(strconv.Itoa(segment.Index))
			str.WriteString(")")
		}
	}

	return str.String()
}
