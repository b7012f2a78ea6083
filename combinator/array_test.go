package combinator_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.binlayout.dev/binlayout/bintest"
	"go.binlayout.dev/binlayout/combinator"
	"go.binlayout.dev/binlayout/field"
	"go.binlayout.dev/binlayout/scope"
	"go.binlayout.dev/binlayout/stream"
)

func TestStaticArray(t *testing.T) {
	t.Parallel()

	p := combinator.Array("Values", field.UInt8(""), 10)

	data := make([]byte, 10)
	for i := range data {
		data[i] = byte(i)
	}

	v, err := p.Parse(stream.FromReader(bytes.NewReader(data)), nil)
	require.NoError(t, err)

	arr := v.(*scope.ArrayContext)
	require.Equal(t, 10, arr.Len())

	for i := range 10 {
		assert.Equal(t, uint64(i), arr.At(i))
	}
}

func TestDynamicArrayLengthMatchesCount(t *testing.T) {
	t.Parallel()

	item := combinator.Structure("Item", field.UBInt16("Field1"), field.UInt8("Field2"))
	p := combinator.Structure("Foo",
		field.UBInt16("Length"),
		combinator.ArrayFunc("Foo", item, func(c scope.Context) int64 {
			return int64(c.(*scope.StructContext).Uint64("Length"))
		}),
	)

	data := make([]byte, 2+3*5)
	data[0], data[1] = 0x00, 0x05

	for i := 2; i < len(data); i++ {
		data[i] = byte(i)
	}

	v, err := p.Parse(stream.FromReader(bytes.NewReader(data)), nil)
	require.NoError(t, err)

	r := v.(*scope.StructContext)
	assert.Equal(t, int(r.Uint64("Length")), r.Array("Foo").Len())
}

func TestRepeatUntilMatchesLast(t *testing.T) {
	t.Parallel()

	p := combinator.Structure("",
		field.StringC("Last"),
		combinator.RepeatUntil("Strings", func(arr *scope.ArrayContext) bool {
			if arr.Len() == 0 {
				return false
			}

			last := arr.Parent().(*scope.StructContext).String("Last")

			return arr.Last().(string) == last
		}, field.StringC("")),
	)

	data := bintest.Bytes(
		bintest.CStr(""),
		bintest.CStr("The Zen of Python"),
		bintest.CStr("Beautiful is better than ugly"),
		bintest.CStr("Explicit is better than implicit."),
		bintest.CStr("Simple is better than complex."),
		bintest.CStr(""),
	)

	v, err := p.Parse(stream.FromReader(bytes.NewReader(data)), nil)
	require.NoError(t, err)

	r := v.(*scope.StructContext)
	assert.Equal(t, 5, r.Array("Strings").Len())
}

func TestRepeatUntilStopOnEOF(t *testing.T) {
	t.Parallel()

	p := combinator.RepeatUntil("Items", func(*scope.ArrayContext) bool { return false },
		field.UInt8(""), combinator.StopOnEOF())

	v, err := p.Parse(stream.FromReader(bytes.NewReader([]byte{1, 2, 3})), nil)
	require.NoError(t, err)

	arr := v.(*scope.ArrayContext)
	assert.Equal(t, 3, arr.Len())
}
