package field

import (
	"fmt"

	"go.binlayout.dev/binlayout/scope"
	"go.binlayout.dev/binlayout/stream"
)

type stringMode int

const (
	stringFixed stringMode = iota
	stringDynamic
	stringNullTerminated
)

// StringOption configures a String/StringFunc/StringC field.
type StringOption func(*stringField)

// WithEncoding fixes the field's encoding at construction time. The name
// must be one of the recognized encodings or construction panics with
// ErrInvalidFieldParameter.
func WithEncoding(name string) StringOption {
	return func(f *stringField) {
		if !ValidEncoding(name) {
			panic(fmt.Errorf("%w: unknown encoding %q", ErrInvalidFieldParameter, name))
		}

		f.encoding = name
	}
}

// WithEncodingFunc selects the encoding dynamically from the parent
// context at parse time.
func WithEncodingFunc(pred StringPredicate) StringOption {
	return func(f *stringField) { f.encodingPred = pred }
}

// WithPadChar overrides the pad byte stripped from the right of a decoded
// fixed/dynamic-length string. The default is 0x00.
func WithPadChar(b byte) StringOption {
	return func(f *stringField) { f.padChar = &b }
}

// NoPadStrip disables trailing pad-character stripping.
func NoPadStrip() StringOption {
	return func(f *stringField) { f.padChar = nil }
}

// stringField implements all three String modes described in spec.md
// §4.2: fixed length, dynamic (predicate) length, and null-terminated.
type stringField struct {
	name         string
	mode         stringMode
	fixedLen     int64
	lenPred      SizePredicate
	encoding     string
	encodingPred StringPredicate
	padChar      *byte
}

func newStringField(name string, mode stringMode, opts []StringOption) *stringField {
	def := byte(0)
	f := &stringField{name: name, mode: mode, encoding: "ascii", padChar: &def}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// String constructs a fixed-length string field. By default the decoded
// string has trailing NUL bytes stripped; use NoPadStrip to disable that or
// WithPadChar to choose a different pad byte.
func String(name string, length int64, opts ...StringOption) Field {
	if length < 0 {
		panic(fmt.Errorf("%w: %s: negative length %d", ErrInvalidFieldSize, name, length))
	}

	f := newStringField(name, stringFixed, opts)
	f.fixedLen = length

	return f
}

// StringFunc constructs a string field whose length is computed from the
// parent context at parse time.
func StringFunc(name string, length SizePredicate, opts ...StringOption) Field {
	if length == nil {
		panic(fmt.Errorf("%w: %s: nil length predicate", ErrInvalidFunctor, name))
	}

	f := newStringField(name, stringDynamic, opts)
	f.lenPred = length

	return f
}

// StringC constructs a null-terminated ("C style") string field: the
// declared length is unknown ahead of time, so Sizeof always fails with
// ErrSizeofError, matching the mode's genuinely data-dependent width.
func StringC(name string, opts ...StringOption) Field {
	return newStringField(name, stringNullTerminated, opts)
}

func (f *stringField) Name() string     { return f.name }
func (f *stringField) IsEmbedded() bool { return false }
func (f *stringField) IsNested() bool   { return false }

func (f *stringField) resolveEncoding(ctx scope.Context) (string, error) {
	if f.encodingPred == nil {
		return f.encoding, nil
	}

	enc, err := scope.Invoke(func(c scope.Context) string { return f.encodingPred(c) }, ctx)
	if err != nil {
		return "", NewParseError(0, f.name, ErrStreamError, err.Error())
	}

	return enc, nil
}

func (f *stringField) Sizeof(ctx scope.Context) (int64, error) {
	switch f.mode {
	case stringFixed:
		return f.fixedLen, nil

	case stringDynamic:
		if ctx == nil {
			return 0, NewSizeofError(f.name, "dynamic length requires a context")
		}

		n, err := scope.Invoke(func(c scope.Context) int64 { return f.lenPred(c) }, ctx)
		if err != nil {
			return 0, NewSizeofError(f.name, err.Error())
		}

		return n, nil

	default: // stringNullTerminated
		return 0, NewSizeofError(f.name, "null-terminated string has no declared length")
	}
}

// SchemaShape reports a string schema. MinLength/MaxLength are set only for
// fixed-mode strings, where the declared length is a construct-time
// constant; dynamic and null-terminated lengths are data-dependent and
// left unconstrained (matching the "fail open" principle for lengths the
// schema cannot know ahead of time).
func (f *stringField) SchemaShape() SchemaShape {
	shape := SchemaShape{Type: "string"}
	if f.mode == stringFixed {
		shape.MinLength = &f.fixedLen
		shape.MaxLength = &f.fixedLen
	}

	return shape
}

func (f *stringField) Parse(s stream.Stream, parent scope.Context) (any, error) {
	offset, _ := s.Tell()

	encoding, err := f.resolveEncoding(parent)
	if err != nil {
		return nil, err
	}

	var raw []byte

	switch f.mode {
	case stringFixed:
		raw = make([]byte, f.fixedLen)
		if err := stream.ReadFull(s, raw); err != nil {
			return nil, NewParseError(offset, f.name, ErrStreamExhausted, err.Error())
		}

	case stringDynamic:
		n, err := scope.Invoke(func(c scope.Context) int64 { return f.lenPred(c) }, parent)
		if err != nil {
			return nil, NewParseError(offset, f.name, ErrStreamError, err.Error())
		}

		raw = make([]byte, n)
		if err := stream.ReadFull(s, raw); err != nil {
			return nil, NewParseError(offset, f.name, ErrStreamExhausted, err.Error())
		}

	default: // stringNullTerminated
		unit := codeUnitSize(encoding)
		terminator := make([]byte, unit)
		buf := make([]byte, 0, 16*unit)
		chunk := make([]byte, unit)

		for {
			if err := stream.ReadFull(s, chunk); err != nil {
				return nil, NewParseError(offset, f.name, ErrStreamExhausted, err.Error())
			}

			if string(chunk) == string(terminator) {
				break
			}

			buf = append(buf, chunk...)
		}

		raw = buf
	}

	decoded, err := decodeString(raw, encoding)
	if err != nil {
		return nil, NewParseError(offset, f.name, ErrValidationError, err.Error())
	}

	if f.mode != stringNullTerminated && f.padChar != nil {
		decoded = stripTrailing(decoded, *f.padChar)
	}

	return decoded, nil
}

// stripTrailing removes trailing occurrences of the byte pad interpreted
// as a rune.
func stripTrailing(s string, pad byte) string {
	r := rune(pad)

	end := len(s)
	for end > 0 {
		prev := end - 1
		if rune(s[prev]) != r {
			break
		}

		end = prev
	}

	return s[:end]
}
