package field

import (
	"errors"
	"fmt"
)

// Construction-time error family (FieldError): raised synchronously from
// field constructors when the arguments describing a layout are malformed.
// These never surface during Parse.
var (
	// ErrInvalidFieldName indicates a field name is empty, not a valid
	// identifier, or duplicated within a Structure.
	ErrInvalidFieldName = errors.New("field: invalid field name")
	// ErrInvalidChildField indicates a combinator was given something
	// that does not satisfy the Field contract, or a nil child.
	ErrInvalidChildField = errors.New("field: invalid child field")
	// ErrInvalidFunctor indicates a predicate/callback argument is
	// missing where one is required.
	ErrInvalidFunctor = errors.New("field: invalid functor")
	// ErrInvalidFieldParameter indicates a construct-time parameter is
	// out of its valid domain (unknown encoding, duplicate enum
	// key/value, non-8/16/32/64 bitwise width, mismatched format/name
	// counts).
	ErrInvalidFieldParameter = errors.New("field: invalid field parameter")
	// ErrInvalidFieldSize indicates a construct-time size is negative or
	// otherwise nonsensical.
	ErrInvalidFieldSize = errors.New("field: invalid field size")
)

// Parse-time error family (ParseError): returned from Parse/Sizeof once a
// field graph is already constructed. Every parse-time sentinel below is
// wrapped in a *ParseError carrying the stream offset at which it was
// raised, except SizeofError which carries no stream position.
var (
	// ErrStreamExhausted indicates the stream returned fewer bytes than
	// requested, or EOF was reached before a null terminator.
	ErrStreamExhausted = errors.New("field: stream exhausted")
	// ErrStreamError indicates a combinator required a seekable stream
	// but the supplied stream is not seekable, a Tell/Seek call failed, or
	// a size, encoding, or value predicate failed during parse.
	ErrStreamError = errors.New("field: stream error")
	// ErrValidationError indicates a Constant/AssertEqual/Assertion/
	// Contains check, or a strict Padding byte check, failed.
	ErrValidationError = errors.New("field: validation error")
	// ErrInvalidEnumValue indicates an Enum lookup missed and no default
	// was configured.
	ErrInvalidEnumValue = errors.New("field: invalid enum value")
	// ErrNoDefaultField indicates Switch/Select could not resolve a
	// branch and no default was configured.
	ErrNoDefaultField = errors.New("field: no default field")
	// ErrSizeofError indicates Sizeof was called on a field whose width
	// is data-dependent and cannot be computed without parsing.
	ErrSizeofError = errors.New("field: sizeof undetermined")
	// ErrFieldNameError is reserved for future use, mirroring the
	// taxonomy this package is modeled on.
	ErrFieldNameError = errors.New("field: field name error")
)

// ParseError wraps a parse-time sentinel with the field name and stream
// offset at which it occurred.
type ParseError struct {
	Offset int64
	Name   string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("parse at offset %d: %v", e.Offset, e.Err)
	}

	return fmt.Sprintf("parse %q at offset %d: %v", e.Name, e.Offset, e.Err)
}

// Unwrap returns the wrapped sentinel so errors.Is/As see through
// ParseError.
func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError builds a *ParseError, optionally wrapping detail
// information onto the sentinel via %w-style composition.
func NewParseError(offset int64, name string, sentinel error, detail string) error {
	err := sentinel
	if detail != "" {
		err = fmt.Errorf("%w: %s", sentinel, detail)
	}

	return &ParseError{Offset: offset, Name: name, Err: err}
}

// SizeofError wraps [ErrSizeofError] with a field name. It carries no
// stream offset since Sizeof can be queried without a stream.
type SizeofError struct {
	Name string
	Err  error
}

func (e *SizeofError) Error() string {
	return fmt.Sprintf("sizeof %q: %v", e.Name, e.Err)
}

func (e *SizeofError) Unwrap() error { return e.Err }

// NewSizeofError builds a *SizeofError wrapping [ErrSizeofError].
func NewSizeofError(name, detail string) error {
	err := error(ErrSizeofError)
	if detail != "" {
		err = fmt.Errorf("%w: %s", ErrSizeofError, detail)
	}

	return &SizeofError{Name: name, Err: err}
}
