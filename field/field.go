// Package field implements the uniform field contract (parse, sizeof,
// is_embedded, is_nested) shared by every primitive, combinator, adapter,
// validator and conditional field, plus the primitive fields themselves:
// fixed-width integers, raw byte blobs, strings, padding, null, anchor, and
// calculated values.
package field

import (
	"go.binlayout.dev/binlayout/scope"
	"go.binlayout.dev/binlayout/stream"
)

// Field is an immutable, reusable parser description. A Field holds no
// mutable state and may be shared across any number of concurrent parses
// against distinct streams.
type Field interface {
	// Name returns the key this field's value is stored under in the
	// enclosing StructContext, or "" to parse-and-discard.
	Name() string
	// IsEmbedded reports whether this field's result must be merged into
	// the enclosing scope instead of stored under its own name. An
	// embedded field's Parse must return a *scope.StructContext.
	IsEmbedded() bool
	// IsNested reports whether this field produces a context node
	// (*scope.StructContext or *scope.ArrayContext) rather than a
	// scalar.
	IsNested() bool
	// Parse consumes zero or more bytes from s and returns the parsed
	// value, using parent for any predicate evaluation this field
	// requires.
	Parse(s stream.Stream, parent scope.Context) (any, error)
	// Sizeof returns the field's byte width given ctx, or an error
	// wrapping ErrSizeofError when the width is data-dependent and
	// cannot be computed without parsing.
	Sizeof(ctx scope.Context) (int64, error)
}

// IsValidName reports whether name is a valid field identifier: empty
// (anonymous/discard), or starting with a letter or underscore and
// containing only letters, digits, and underscores.
func IsValidName(name string) bool {
	if name == "" {
		return true
	}

	for i, r := range name {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'

		if i == 0 && !isLetter {
			return false
		}

		if !isLetter && !isDigit {
			return false
		}
	}

	return true
}
