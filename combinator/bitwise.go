package combinator

import (
	"fmt"

	"go.binlayout.dev/binlayout/field"
	"go.binlayout.dev/binlayout/scope"
	"go.binlayout.dev/binlayout/stream"
)

// BitField names one run of bits within a BitwiseStructure. An empty Name
// still consumes its bit width but stores no value, used for reserved/
// padding runs.
type BitField struct {
	Name  string
	Width int
}

// bitwiseField reads one unsigned integer of the declared total width and
// distributes masked/shifted slices of it into a StructContext. Offsets
// accumulate from the low bit in declaration order: the first BitField
// occupies the lowest-order bits of the word.
//
// Does not emulate C bit-field packing rules: fields never straddle a byte
// boundary only because the whole word is treated as one integer before
// slicing.
type bitwiseField struct {
	name   string
	fields []BitField
	width  int // total bits: 8, 16, 32, or 64
	order  field.ByteOrder
}

// BitwiseStructure constructs a field that reads ceil(totalBits/8) bytes as
// one unsigned integer in order and distributes named bit runs from it into
// a StructContext. The sum of bits must be 8, 16, 32, or 64; otherwise
// construction panics with field.ErrInvalidFieldParameter.
func BitwiseStructure(name string, fields []BitField, order field.ByteOrder) field.Field {
	total := 0

	seen := make(map[string]bool)

	for _, bf := range fields {
		if bf.Width <= 0 {
			panic(fmt.Errorf("%w: bitwise_structure: non-positive width %d", field.ErrInvalidFieldSize, bf.Width))
		}

		total += bf.Width

		if bf.Name == "" {
			continue
		}

		if seen[bf.Name] {
			panic(fmt.Errorf("%w: bitwise_structure: duplicate field name %q", field.ErrInvalidFieldName, bf.Name))
		}

		seen[bf.Name] = true
	}

	switch total {
	case 8, 16, 32, 64:
	default:
		panic(fmt.Errorf("%w: bitwise_structure: total width %d bits is not 8/16/32/64", field.ErrInvalidFieldParameter, total))
	}

	return &bitwiseField{name: name, fields: fields, width: total, order: order}
}

func (f *bitwiseField) Name() string     { return f.name }
func (f *bitwiseField) IsEmbedded() bool { return false }
func (f *bitwiseField) IsNested() bool   { return true }

func (f *bitwiseField) Sizeof(scope.Context) (int64, error) {
	return int64(f.width / 8), nil
}

// BitFieldNames returns the non-empty subfield names, in declaration order,
// used by schema.Describe to build an object schema with one integer
// property per named bit run.
func (f *bitwiseField) BitFieldNames() []string {
	names := make([]string, 0, len(f.fields))

	for _, bf := range f.fields {
		if bf.Name != "" {
			names = append(names, bf.Name)
		}
	}

	return names
}

func (f *bitwiseField) Parse(s stream.Stream, parent scope.Context) (any, error) {
	offset, _ := s.Tell()

	word, err := f.readWord(s)
	if err != nil {
		return nil, field.NewParseError(offset, f.name, field.ErrStreamExhausted, err.Error())
	}

	ctx := scope.NewStructContext(f.name, parent)

	bitOffset := 0

	for _, bf := range f.fields {
		mask := uint64(1)<<uint(bf.Width) - 1
		v := (word >> uint(bitOffset)) & mask
		bitOffset += bf.Width

		if bf.Name != "" {
			ctx.Set(bf.Name, v)
		}
	}

	return ctx, nil
}

func (f *bitwiseField) readWord(s stream.Stream) (uint64, error) {
	buf := make([]byte, f.width/8)
	if err := stream.ReadFull(s, buf); err != nil {
		return 0, err
	}

	order := f.order.Binary()

	switch len(buf) {
	case 1:
		return uint64(buf[0]), nil
	case 2:
		return uint64(order.Uint16(buf)), nil
	case 4:
		return uint64(order.Uint32(buf)), nil
	default:
		return order.Uint64(buf), nil
	}
}
