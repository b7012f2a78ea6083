package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.binlayout.dev/binlayout/scope"
)

func TestStructContextNameParents(t *testing.T) {
	t.Parallel()

	p := scope.NewStructContext("", nil)
	c := scope.NewStructContext("Noname", p)

	assert.Equal(t, "Noname", c.Name())
	assert.Equal(t, scope.Context(p), c.Parent())
}

func TestStructContextAccessors(t *testing.T) {
	t.Parallel()

	c := scope.NewStructContext("Root", nil)
	c.Set("A", int64(1))
	c.Set("B", "b")
	c.Set("C", "c")

	assert.Equal(t, int64(1), c.Int64("A"))
	assert.Equal(t, "b", c.String("B"))
	assert.Equal(t, "c", c.String("C"))
}

func TestStructContextBadAttributePanicsWithErrContext(t *testing.T) {
	t.Parallel()

	c := scope.NewStructContext("Root", nil)
	c.Set("A", "foo")

	_, err := scope.Invoke(func(ctx scope.Context) int64 {
		return ctx.(*scope.StructContext).Int64("A")
	}, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, scope.ErrContext)

	_, err = scope.Invoke(func(ctx scope.Context) string {
		return ctx.(*scope.StructContext).String("missing")
	}, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, scope.ErrContext)
}

func TestArrayContextNameParents(t *testing.T) {
	t.Parallel()

	p := scope.NewArrayContext("", nil)
	c := scope.NewArrayContext("Noname", p)

	assert.Equal(t, "Noname", c.Name())
	assert.Equal(t, scope.Context(p), c.Parent())
}

func TestArrayContextOrderingAndReversal(t *testing.T) {
	t.Parallel()

	root := scope.NewStructContext("Root", nil)
	data := scope.NewArrayContext("Data", root)

	for n := range 15 {
		foo := scope.NewStructContext("Foo", data)
		foo.Set("Foo1", int64(n))
		foo.Set("Foo2", int64(n*n))

		if n%2 != 0 {
			foo.Set("Foo3", int64(n*n*n))
		}

		data.Append(foo)
	}

	require.Equal(t, 15, data.Len())

	items := data.Items()
	reversed := data.ReversedItems()

	for i := range items {
		assert.Equal(t, items[i], reversed[len(reversed)-1-i])
	}

	last := data.Last().(*scope.StructContext)
	assert.Equal(t, int64(14), last.Int64("Foo1"))
}

func TestArrayContextLastEmptyPanicsWithErrContext(t *testing.T) {
	t.Parallel()

	c := scope.NewArrayContext("Data", nil)

	_, err := scope.Invoke(func(ctx scope.Context) any {
		return ctx.(*scope.ArrayContext).Last()
	}, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, scope.ErrContext)
}

func TestFullContextTree(t *testing.T) {
	t.Parallel()

	root := scope.NewStructContext("Root", nil)
	root.Set("Magic", "MGCK")

	head := scope.NewStructContext("Header", root)
	head.Set("Width", int64(2048))
	head.Set("Height", int64(4096))
	head.Set("Depth", int64(8))
	root.Set("Head", head)

	body := scope.NewStructContext("Body", root)
	body.Set("Size", int64(0))
	root.Set("Body", body)

	data := scope.NewArrayContext("Data", body)
	body.Set("Data", data)

	assert.Equal(t, []string{"Magic", "Head", "Body"}, root.Keys())
	assert.Equal(t, int64(2048), root.Struct("Head").Int64("Width"))
	assert.Equal(t, 0, root.Struct("Body").Array("Data").Len())
}

func TestInternalKeysHiddenFromOrderedIteration(t *testing.T) {
	t.Parallel()

	c := scope.NewStructContext("Root", nil)
	c.Set("Visible", int64(1))
	c.Set("__anchor", int64(2))

	assert.Equal(t, []string{"Visible"}, c.Keys())
	assert.Equal(t, []string{"Visible", "__anchor"}, c.AllKeys())
	assert.True(t, c.Has("__anchor"))
}
