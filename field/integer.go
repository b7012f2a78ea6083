package field

import (
	"encoding/binary"

	"go.binlayout.dev/binlayout/scope"
	"go.binlayout.dev/binlayout/stream"
)

// ByteOrder selects how an integer field's bytes are interpreted.
type ByteOrder int

const (
	// NativeOrder uses the host's native byte order.
	NativeOrder ByteOrder = iota
	// BigEndianOrder interprets bytes most-significant first.
	BigEndianOrder
	// LittleEndianOrder interprets bytes least-significant first.
	LittleEndianOrder
)

// Binary returns the [binary.ByteOrder] corresponding to o.
func (o ByteOrder) Binary() binary.ByteOrder {
	switch o {
	case BigEndianOrder:
		return binary.BigEndian
	case LittleEndianOrder:
		return binary.LittleEndian
	default:
		return binary.NativeEndian
	}
}

// integerField is the shared implementation behind every fixed-width
// integer constructor: Int8/UInt8, Int16/UInt16/UBInt16/ULInt16,
// Int32/UInt32/UBInt32/ULInt32, Int64/UInt64/UBInt64/ULInt64.
type integerField struct {
	name   string
	width  int // in bytes: 1, 2, 4, or 8
	signed bool
	order  ByteOrder
}

func newIntegerField(name string, width int, signed bool, order ByteOrder) *integerField {
	return &integerField{name: name, width: width, signed: signed, order: order}
}

func (f *integerField) Name() string     { return f.name }
func (f *integerField) IsEmbedded() bool { return false }
func (f *integerField) IsNested() bool   { return false }

func (f *integerField) Sizeof(scope.Context) (int64, error) {
	return int64(f.width), nil
}

// SchemaShape reports the integer JSON Schema type for schema.Describe.
func (f *integerField) SchemaShape() SchemaShape {
	return SchemaShape{Type: "integer"}
}

func (f *integerField) Parse(s stream.Stream, _ scope.Context) (any, error) {
	offset, _ := s.Tell()

	buf := make([]byte, f.width)
	if err := stream.ReadFull(s, buf); err != nil {
		return nil, NewParseError(offset, f.name, ErrStreamExhausted, err.Error())
	}

	order := f.order.Binary()

	var u uint64

	switch f.width {
	case 1:
		u = uint64(buf[0])
	case 2:
		u = uint64(order.Uint16(buf))
	case 4:
		u = uint64(order.Uint32(buf))
	case 8:
		u = order.Uint64(buf)
	}

	if !f.signed {
		return u, nil
	}

	switch f.width {
	case 1:
		return int64(int8(u)), nil
	case 2:
		return int64(int16(u)), nil
	case 4:
		return int64(int32(u)), nil
	default:
		return int64(u), nil
	}
}

// Int8 parses one signed byte.
func Int8(name string) Field { return newIntegerField(name, 1, true, NativeOrder) }

// UInt8 parses one unsigned byte.
func UInt8(name string) Field { return newIntegerField(name, 1, false, NativeOrder) }

// Int16 parses a native-byte-order signed 16-bit integer.
func Int16(name string) Field { return newIntegerField(name, 2, true, NativeOrder) }

// UInt16 parses a native-byte-order unsigned 16-bit integer.
func UInt16(name string) Field { return newIntegerField(name, 2, false, NativeOrder) }

// UBInt16 parses a big-endian unsigned 16-bit integer.
func UBInt16(name string) Field { return newIntegerField(name, 2, false, BigEndianOrder) }

// ULInt16 parses a little-endian unsigned 16-bit integer.
func ULInt16(name string) Field { return newIntegerField(name, 2, false, LittleEndianOrder) }

// BInt16 parses a big-endian signed 16-bit integer.
func BInt16(name string) Field { return newIntegerField(name, 2, true, BigEndianOrder) }

// LInt16 parses a little-endian signed 16-bit integer.
func LInt16(name string) Field { return newIntegerField(name, 2, true, LittleEndianOrder) }

// Int32 parses a native-byte-order signed 32-bit integer.
func Int32(name string) Field { return newIntegerField(name, 4, true, NativeOrder) }

// UInt32 parses a native-byte-order unsigned 32-bit integer.
func UInt32(name string) Field { return newIntegerField(name, 4, false, NativeOrder) }

// UBInt32 parses a big-endian unsigned 32-bit integer.
func UBInt32(name string) Field { return newIntegerField(name, 4, false, BigEndianOrder) }

// ULInt32 parses a little-endian unsigned 32-bit integer.
func ULInt32(name string) Field { return newIntegerField(name, 4, false, LittleEndianOrder) }

// BInt32 parses a big-endian signed 32-bit integer.
func BInt32(name string) Field { return newIntegerField(name, 4, true, BigEndianOrder) }

// LInt32 parses a little-endian signed 32-bit integer.
func LInt32(name string) Field { return newIntegerField(name, 4, true, LittleEndianOrder) }

// Int64 parses a native-byte-order signed 64-bit integer.
func Int64(name string) Field { return newIntegerField(name, 8, true, NativeOrder) }

// UInt64 parses a native-byte-order unsigned 64-bit integer.
func UInt64(name string) Field { return newIntegerField(name, 8, false, NativeOrder) }

// UBInt64 parses a big-endian unsigned 64-bit integer.
func UBInt64(name string) Field { return newIntegerField(name, 8, false, BigEndianOrder) }

// ULInt64 parses a little-endian unsigned 64-bit integer.
func ULInt64(name string) Field { return newIntegerField(name, 8, false, LittleEndianOrder) }

// BInt64 parses a big-endian signed 64-bit integer.
func BInt64(name string) Field { return newIntegerField(name, 8, true, BigEndianOrder) }

// LInt64 parses a little-endian signed 64-bit integer.
func LInt64(name string) Field { return newIntegerField(name, 8, true, LittleEndianOrder) }
