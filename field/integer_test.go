package field_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.binlayout.dev/binlayout/bintest"
	"go.binlayout.dev/binlayout/field"
	"go.binlayout.dev/binlayout/stream"
)

func TestIntegerFieldsMix(t *testing.T) {
	t.Parallel()

	data := bintest.Bytes(
		[]byte{0xff, 0xff},
		[]byte{0xff, 0xff, 0xff, 0xff, 0x01, 0x02, 0x01, 0x02},
		[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		[]byte{0x01, 0x02, 0x03, 0x04, 0x01, 0x02, 0x03, 0x04},
		[]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
	)

	fields := []struct {
		f    field.Field
		want any
	}{
		{field.Int8("Byte"), int64(-1)},
		{field.UInt8("Char"), uint64(255)},
		{field.Int16("Short1"), int64(-1)},
		{field.UInt16("Short2"), uint64(65535)},
		{field.UBInt16("Short3"), uint64(0x0102)},
		{field.ULInt16("Short4"), uint64(0x0201)},
		{field.Int32("Int1"), int64(-1)},
		{field.UInt32("Int2"), uint64(4294967295)},
		{field.UBInt32("Int3"), uint64(0x01020304)},
		{field.ULInt32("Int4"), uint64(0x04030201)},
		{field.UBInt64("Longlong"), uint64(0x0102030405060708)},
	}

	s := stream.FromReader(bytes.NewReader(data))

	for _, tc := range fields {
		v, err := tc.f.Parse(s, nil)
		require.NoError(t, err)
		assert.Equal(t, tc.want, v, tc.f.Name())
	}
}

func TestIntegerSizeof(t *testing.T) {
	t.Parallel()

	n, err := field.UBInt32("X").Sizeof(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
