package field

import (
	"fmt"

	"go.binlayout.dev/binlayout/scope"
	"go.binlayout.dev/binlayout/stream"
)

// PaddingOption configures a Padding field.
type PaddingOption func(*paddingField)

// WithPadByte overrides the byte a strict Padding field checks every
// consumed byte against. The default is 0x00.
func WithPadByte(b byte) PaddingOption {
	return func(f *paddingField) { f.padByte = b }
}

// Strict makes Padding read and verify every byte equals the pad byte
// instead of skipping via seek.
func Strict() PaddingOption {
	return func(f *paddingField) { f.strict = true }
}

type paddingField struct {
	fixed   int64
	sized   SizePredicate
	hasLen  bool
	padByte byte
	strict  bool
}

// Padding constructs a field that consumes a fixed number of bytes and
// yields no value. In lax mode (the default) it skips via Seek when the
// stream is seekable and falls back to reading-and-discarding otherwise; in
// Strict mode it always reads and verifies every byte equals the pad byte.
func Padding(n int64, opts ...PaddingOption) Field {
	if n < 0 {
		panic(fmt.Errorf("%w: padding: negative length %d", ErrInvalidFieldSize, n))
	}

	f := &paddingField{fixed: n, hasLen: true}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// PaddingFunc constructs a Padding field whose length is computed from the
// parent context at parse time.
func PaddingFunc(n SizePredicate, opts ...PaddingOption) Field {
	if n == nil {
		panic(fmt.Errorf("%w: padding: nil length predicate", ErrInvalidFunctor))
	}

	f := &paddingField{sized: n}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *paddingField) Name() string     { return "" }
func (f *paddingField) IsEmbedded() bool { return false }
func (f *paddingField) IsNested() bool   { return false }

func (f *paddingField) length(ctx scope.Context) (int64, error) {
	if f.hasLen {
		return f.fixed, nil
	}

	n, err := scope.Invoke(func(c scope.Context) int64 { return f.sized(c) }, ctx)
	if err != nil {
		return 0, NewParseError(0, "", ErrStreamError, err.Error())
	}

	return n, nil
}

func (f *paddingField) Sizeof(ctx scope.Context) (int64, error) {
	if f.hasLen {
		return f.fixed, nil
	}

	if ctx == nil {
		return 0, NewSizeofError("padding", "dynamic length requires a context")
	}

	return f.length(ctx)
}

func (f *paddingField) Parse(s stream.Stream, parent scope.Context) (any, error) {
	offset, _ := s.Tell()

	n, err := f.length(parent)
	if err != nil {
		return nil, err
	}

	if !f.strict && s.Seekable() {
		if _, err := s.Seek(n, stream.SeekCurrent); err != nil {
			return nil, NewParseError(offset, "", ErrStreamError, err.Error())
		}

		return nil, nil
	}

	buf := make([]byte, n)
	if err := stream.ReadFull(s, buf); err != nil {
		return nil, NewParseError(offset, "", ErrStreamExhausted, err.Error())
	}

	if f.strict {
		for i, b := range buf {
			if b != f.padByte {
				return nil, NewParseError(offset, "",
					ErrValidationError, fmt.Sprintf("byte %d is 0x%02x, want pad byte 0x%02x", i, b, f.padByte))
			}
		}
	}

	return nil, nil
}

// nullField consumes nothing and yields no value.
type nullField struct{}

// NullField constructs a field that consumes nothing and yields no value.
func NullField() Field { return nullField{} }

func (nullField) Name() string     { return "" }
func (nullField) IsEmbedded() bool { return false }
func (nullField) IsNested() bool   { return false }

func (nullField) Sizeof(scope.Context) (int64, error) { return 0, nil }

func (nullField) Parse(stream.Stream, scope.Context) (any, error) { return nil, nil }

// anchorField consumes nothing and yields the current stream offset.
type anchorField struct {
	name string
}

// Anchor constructs a field that consumes nothing and yields the current
// stream offset, for later arithmetic (e.g. via Calculate).
func Anchor(name string) Field { return anchorField{name: name} }

func (f anchorField) Name() string     { return f.name }
func (f anchorField) IsEmbedded() bool { return false }
func (f anchorField) IsNested() bool   { return false }

func (anchorField) Sizeof(scope.Context) (int64, error) { return 0, nil }

// SchemaShape reports an integer schema: Anchor yields a stream offset.
func (anchorField) SchemaShape() SchemaShape { return SchemaShape{Type: "integer"} }

func (f anchorField) Parse(s stream.Stream, _ scope.Context) (any, error) {
	off, err := s.Tell()
	if err != nil {
		return nil, NewParseError(0, f.name, ErrStreamError, err.Error())
	}

	return off, nil
}

// calculateField consumes nothing and yields a user predicate's result over
// the current context.
type calculateField struct {
	name string
	fn   ValuePredicate
}

// Calculate constructs a field that consumes nothing and yields
// fn(parentContext), used to memoize derived values into the context tree.
func Calculate(name string, fn ValuePredicate) Field {
	if fn == nil {
		panic(fmt.Errorf("%w: %s: nil value predicate", ErrInvalidFunctor, name))
	}

	return calculateField{name: name, fn: fn}
}

func (f calculateField) Name() string     { return f.name }
func (f calculateField) IsEmbedded() bool { return false }
func (f calculateField) IsNested() bool   { return false }

func (calculateField) Sizeof(scope.Context) (int64, error) { return 0, nil }

func (f calculateField) Parse(_ stream.Stream, parent scope.Context) (any, error) {
	v, err := scope.Invoke(func(c scope.Context) any { return f.fn(c) }, parent)
	if err != nil {
		return nil, NewParseError(0, f.name, ErrStreamError, err.Error())
	}

	return v, nil
}
