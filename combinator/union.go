package combinator

import (
	"fmt"

	"go.binlayout.dev/binlayout/field"
	"go.binlayout.dev/binlayout/scope"
	"go.binlayout.dev/binlayout/stream"
)

// unionField parses every child from the same starting stream offset,
// rewinding after each so all children observe identical bytes, merges
// every child's scope into one StructContext (as if each were embedded),
// and advances the stream by the strict maximum of every child's consumed
// byte count.
//
// This fixes the source's advance computation, which assigned a per-
// iteration maximum without correctly retaining the running maximum across
// the full child loop; here the running maximum is tracked explicitly
// across every iteration.
type unionField struct {
	name     string
	embedded bool
	children []field.Field
}

// Union constructs a field that parses every child against identical
// bytes and merges their results. Requires a seekable stream at parse
// time; otherwise fails with field.ErrStreamError.
func Union(name string, children ...field.Field) field.Field {
	checkChildNames(name, children)

	return &unionField{name: name, children: children}
}

func (f *unionField) Name() string     { return f.name }
func (f *unionField) IsEmbedded() bool { return f.embedded }
func (f *unionField) IsNested() bool   { return true }

// Children returns the ordered child fields, satisfying
// field.ContainerField.
func (f *unionField) Children() []field.Field { return f.children }

func (f *unionField) Sizeof(ctx scope.Context) (int64, error) {
	var max int64

	for _, c := range f.children {
		n, err := c.Sizeof(ctx)
		if err != nil {
			return 0, fmt.Errorf("union %q: %w", f.name, err)
		}

		if n > max {
			max = n
		}
	}

	return max, nil
}

func (f *unionField) Parse(s stream.Stream, parent scope.Context) (any, error) {
	if !s.Seekable() {
		return nil, field.NewParseError(0, f.name, field.ErrStreamError, "union requires a seekable stream")
	}

	start, err := s.Tell()
	if err != nil {
		return nil, field.NewParseError(0, f.name, field.ErrStreamError, err.Error())
	}

	ctx := scope.NewStructContext(f.name, parent)

	var maxConsumed int64

	for _, child := range f.children {
		bm, err := stream.NewBookmark(s)
		if err != nil {
			return nil, field.NewParseError(start, f.name, field.ErrStreamError, err.Error())
		}

		name, embedded := child.Name(), child.IsEmbedded()

		var v any

		var parseErr error

		if choice, ok := child.(namedChoiceField); ok {
			var branch field.Field

			branch, v, parseErr = choice.resolveChoice(s, ctx)
			if parseErr == nil {
				name, embedded = branch.Name(), branch.IsEmbedded()
			}
		} else {
			v, parseErr = child.Parse(s, ctx)
		}

		if parseErr != nil {
			_ = bm.Release()

			return nil, parseErr
		}

		end, err := s.Tell()
		if err != nil {
			_ = bm.Release()

			return nil, field.NewParseError(start, f.name, field.ErrStreamError, err.Error())
		}

		if consumed := end - bm.Offset(); consumed > maxConsumed {
			maxConsumed = consumed
		}

		if err := bm.Release(); err != nil {
			return nil, field.NewParseError(start, f.name, field.ErrStreamError, err.Error())
		}

		if embedded {
			sub, ok := v.(*scope.StructContext)
			if !ok {
				return nil, field.NewParseError(start, f.name, field.ErrInvalidChildField,
					fmt.Sprintf("embedded field %q did not yield a StructContext", name))
			}

			for _, key := range sub.AllKeys() {
				ctx.Set(key, sub.Value(key))
			}
		} else if name != "" {
			ctx.Set(name, v)
		}
	}

	if _, err := s.Seek(start+maxConsumed, stream.SeekStart); err != nil {
		return nil, field.NewParseError(start, f.name, field.ErrStreamError, err.Error())
	}

	return ctx, nil
}
