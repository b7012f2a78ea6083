package combinator

import (
	"fmt"

	"go.binlayout.dev/binlayout/field"
	"go.binlayout.dev/binlayout/scope"
	"go.binlayout.dev/binlayout/stream"
)

// formatCode describes one decoded component of a pack-format string.
type formatCode struct {
	width  int
	signed bool
}

var formatCodeTable = map[byte]formatCode{
	'b': {1, true}, 'B': {1, false},
	'h': {2, true}, 'H': {2, false},
	'i': {4, true}, 'I': {4, false},
	'l': {4, true}, 'L': {4, false},
	'q': {8, true}, 'Q': {8, false},
}

// parseFormat decodes a pack-format string (an optional leading byte-order
// prefix followed by one code per component) into a byte order and a list
// of formatCode components.
func parseFormat(format string) (field.ByteOrder, []formatCode, error) {
	if format == "" {
		return field.NativeOrder, nil, fmt.Errorf("%w: empty format string", field.ErrInvalidFieldParameter)
	}

	order := field.NativeOrder

	i := 0

	switch format[0] {
	case '>', '!':
		order = field.BigEndianOrder
		i = 1
	case '<':
		order = field.LittleEndianOrder
		i = 1
	case '=', '@':
		order = field.NativeOrder
		i = 1
	}

	var codes []formatCode

	for ; i < len(format); i++ {
		c, ok := formatCodeTable[format[i]]
		if !ok {
			return order, nil, fmt.Errorf("%w: unknown format code %q", field.ErrInvalidFieldParameter, format[i])
		}

		codes = append(codes, c)
	}

	return order, codes, nil
}

// formatStructureField parses a packed fixed-layout tuple in one shot and
// distributes its components into the current scope under the paired
// names, skipping empty names.
type formatStructureField struct {
	name  string
	order field.ByteOrder
	codes []formatCode
	names []string
}

// FormatStructure constructs a field parsing the pack-format layout in one
// read, then zipping the decoded values with names (skipping empty names).
// The field reports itself as embedded, so an enclosing Structure or Union
// stores the components directly in its own scope rather than under name.
// A mismatch between the number of format codes and the number of names
// panics with a *field.ParseError wrapping field.ErrInvalidFieldParameter,
// matching the source's convention of reporting this as a parse-family
// error even though it is detected at construction.
func FormatStructure(name, format string, names []string) field.Field {
	order, codes, err := parseFormat(format)
	if err != nil {
		panic(field.NewParseError(0, name, field.ErrInvalidFieldParameter, err.Error()))
	}

	if len(codes) != len(names) {
		panic(field.NewParseError(0, name, field.ErrInvalidFieldParameter,
			fmt.Sprintf("format %q declares %d components but %d names given", format, len(codes), len(names))))
	}

	return &formatStructureField{name: name, order: order, codes: codes, names: names}
}

func (f *formatStructureField) Name() string     { return f.name }
func (f *formatStructureField) IsEmbedded() bool { return true }
func (f *formatStructureField) IsNested() bool   { return true }

// FieldNames returns the non-empty component names, in format order, used
// by schema.Describe to build an object schema with one integer property
// per named component.
func (f *formatStructureField) FieldNames() []string {
	names := make([]string, 0, len(f.names))

	for _, n := range f.names {
		if n != "" {
			names = append(names, n)
		}
	}

	return names
}

func (f *formatStructureField) Sizeof(scope.Context) (int64, error) {
	var total int64
	for _, c := range f.codes {
		total += int64(c.width)
	}

	return total, nil
}

func (f *formatStructureField) Parse(s stream.Stream, parent scope.Context) (any, error) {
	offset, _ := s.Tell()
	ctx := scope.NewStructContext(f.name, parent)
	bo := f.order.Binary()

	total, _ := f.Sizeof(parent)

	block := make([]byte, total)
	if err := stream.ReadFull(s, block); err != nil {
		return nil, field.NewParseError(offset, f.name, field.ErrStreamExhausted, err.Error())
	}

	pos := 0

	for i, c := range f.codes {
		buf := block[pos : pos+c.width]
		pos += c.width

		var u uint64

		switch c.width {
		case 1:
			u = uint64(buf[0])
		case 2:
			u = uint64(bo.Uint16(buf))
		case 4:
			u = uint64(bo.Uint32(buf))
		case 8:
			u = bo.Uint64(buf)
		}

		var v any = u

		if c.signed {
			switch c.width {
			case 1:
				v = int64(int8(u))
			case 2:
				v = int64(int16(u))
			case 4:
				v = int64(int32(u))
			default:
				v = int64(u)
			}
		}

		if f.names[i] != "" {
			ctx.Set(f.names[i], v)
		}
	}

	return ctx, nil
}
