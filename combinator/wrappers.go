package combinator

import (
	"fmt"

	"go.binlayout.dev/binlayout/field"
	"go.binlayout.dev/binlayout/scope"
	"go.binlayout.dev/binlayout/stream"
)

// embedField forces its child to be merged into the enclosing Structure's
// scope instead of stored under its own name.
type embedField struct {
	child field.Field
}

// Embed marks child as embedded: the enclosing Structure/Union merges
// child's StructContext entries into its own scope instead of inserting
// child's value under child's name, also when child is the branch a
// Switch/Select/IfElse resolves to. child's Parse must yield a
// *scope.StructContext.
func Embed(child field.Field) field.Field {
	if child == nil {
		panic(fmt.Errorf("%w: embed: nil child", field.ErrInvalidChildField))
	}

	return &embedField{child: child}
}

func (f *embedField) Name() string         { return f.child.Name() }
func (f *embedField) IsEmbedded() bool     { return true }
func (f *embedField) IsNested() bool       { return f.child.IsNested() }
func (f *embedField) Unwrap() field.Field  { return f.child }
func (f *embedField) Sizeof(ctx scope.Context) (int64, error) { return f.child.Sizeof(ctx) }

func (f *embedField) Parse(s stream.Stream, parent scope.Context) (any, error) {
	return f.child.Parse(s, parent)
}

// renameField overrides its child's name, inheriting everything else.
type renameField struct {
	name  string
	child field.Field
}

// Rename constructs a field that parses child but stores its value under
// name instead of child's own name.
func Rename(name string, child field.Field) field.Field {
	if child == nil {
		panic(fmt.Errorf("%w: rename: nil child", field.ErrInvalidChildField))
	}

	return &renameField{name: name, child: child}
}

func (f *renameField) Name() string        { return f.name }
func (f *renameField) IsEmbedded() bool    { return f.child.IsEmbedded() }
func (f *renameField) IsNested() bool      { return f.child.IsNested() }
func (f *renameField) Unwrap() field.Field { return f.child }

func (f *renameField) Sizeof(ctx scope.Context) (int64, error) { return f.child.Sizeof(ctx) }

func (f *renameField) Parse(s stream.Stream, parent scope.Context) (any, error) {
	return f.child.Parse(s, parent)
}
