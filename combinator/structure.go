// Package combinator implements the field combinators layered on top of
// field: Structure, Array, RepeatUntil, Union, Switch, Select, IfElse,
// BitwiseStructure, Embed, Rename, Adapter, Validator, the format-driven
// shortcut (FormatStructure), and the Watch debug wrapper.
package combinator

import (
	"fmt"

	"go.binlayout.dev/binlayout/field"
	"go.binlayout.dev/binlayout/scope"
	"go.binlayout.dev/binlayout/stream"
)

// structureField parses an ordered sequence of children into one
// StructContext, merging embedded children's entries into the enclosing
// scope. Construction rejects duplicate non-empty child names.
type structureField struct {
	name     string
	embedded bool
	children []field.Field
}

// Structure constructs a field that parses its children in declaration
// order into a single StructContext named name. Every non-empty child name
// must be unique; construction panics with field.ErrInvalidFieldName
// otherwise.
func Structure(name string, children ...field.Field) field.Field {
	checkChildNames(name, children)

	return &structureField{name: name, children: children}
}

func checkChildNames(owner string, children []field.Field) {
	seen := make(map[string]bool)

	for _, c := range children {
		if c == nil {
			panic(fmt.Errorf("%w: %s: nil child field", field.ErrInvalidChildField, owner))
		}

		n := c.Name()
		if n == "" {
			continue
		}

		if seen[n] {
			panic(fmt.Errorf("%w: %s: duplicate field name %q", field.ErrInvalidFieldName, owner, n))
		}

		seen[n] = true
	}
}

func (f *structureField) Name() string     { return f.name }
func (f *structureField) IsEmbedded() bool { return f.embedded }
func (f *structureField) IsNested() bool   { return true }

// Children returns the ordered child fields, satisfying
// field.ContainerField.
func (f *structureField) Children() []field.Field { return f.children }

func (f *structureField) Sizeof(ctx scope.Context) (int64, error) {
	var total int64

	for _, c := range f.children {
		n, err := c.Sizeof(ctx)
		if err != nil {
			return 0, fmt.Errorf("structure %q: %w", f.name, err)
		}

		total += n
	}

	return total, nil
}

func (f *structureField) Parse(s stream.Stream, parent scope.Context) (any, error) {
	ctx := scope.NewStructContext(f.name, parent)

	for _, child := range f.children {
		name, embedded := child.Name(), child.IsEmbedded()

		var v any

		var err error

		if choice, ok := child.(namedChoiceField); ok {
			var branch field.Field

			branch, v, err = choice.resolveChoice(s, ctx)
			if err != nil {
				return nil, err
			}

			name, embedded = branch.Name(), branch.IsEmbedded()
		} else {
			v, err = child.Parse(s, ctx)
			if err != nil {
				return nil, err
			}
		}

		if embedded {
			sub, ok := v.(*scope.StructContext)
			if !ok {
				return nil, field.NewParseError(0, f.name, field.ErrInvalidChildField,
					fmt.Sprintf("embedded field %q did not yield a StructContext", name))
			}

			for _, key := range sub.AllKeys() {
				ctx.Set(key, sub.Value(key))
			}

			continue
		}

		if name == "" {
			continue
		}

		ctx.Set(name, v)
	}

	return ctx, nil
}
