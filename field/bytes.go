package field

import (
	"fmt"

	"go.binlayout.dev/binlayout/scope"
	"go.binlayout.dev/binlayout/stream"
)

// bytesField reads a fixed or context-dependent number of raw bytes.
type bytesField struct {
	name   string
	fixed  int64
	sized  SizePredicate
	hasLen bool // true when fixed is authoritative (no predicate given)
}

// Bytes constructs a byte-blob field of a construct-time fixed length.
func Bytes(name string, length int64) Field {
	if length < 0 {
		panic(fmt.Errorf("%w: %s: negative length %d", ErrInvalidFieldSize, name, length))
	}

	return &bytesField{name: name, fixed: length, hasLen: true}
}

// BytesFunc constructs a byte-blob field whose length is computed from the
// parent context at parse time.
func BytesFunc(name string, length SizePredicate) Field {
	if length == nil {
		panic(fmt.Errorf("%w: %s: nil length predicate", ErrInvalidFunctor, name))
	}

	return &bytesField{name: name, sized: length}
}

func (f *bytesField) Name() string     { return f.name }
func (f *bytesField) IsEmbedded() bool { return false }
func (f *bytesField) IsNested() bool   { return false }

func (f *bytesField) length(ctx scope.Context) (int64, error) {
	if f.hasLen {
		return f.fixed, nil
	}

	n, err := scope.Invoke(func(c scope.Context) int64 { return f.sized(c) }, ctx)
	if err != nil {
		return 0, NewParseError(0, f.name, ErrStreamError, err.Error())
	}

	return n, nil
}

func (f *bytesField) Sizeof(ctx scope.Context) (int64, error) {
	if f.hasLen {
		return f.fixed, nil
	}

	if ctx == nil {
		return 0, NewSizeofError(f.name, "dynamic length requires a context")
	}

	return f.length(ctx)
}

// SchemaShape reports a string schema (byte blobs surface as strings in the
// decoded tree), with MinLength/MaxLength set when the length is a
// construct-time constant rather than a predicate.
func (f *bytesField) SchemaShape() SchemaShape {
	shape := SchemaShape{Type: "string"}
	if f.hasLen {
		shape.MinLength = &f.fixed
		shape.MaxLength = &f.fixed
	}

	return shape
}

func (f *bytesField) Parse(s stream.Stream, parent scope.Context) (any, error) {
	offset, _ := s.Tell()

	n, err := f.length(parent)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	if err := stream.ReadFull(s, buf); err != nil {
		return nil, NewParseError(offset, f.name, ErrStreamExhausted, err.Error())
	}

	return buf, nil
}
