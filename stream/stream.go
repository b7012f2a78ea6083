// Package stream defines the byte-source contract consumed by the field and
// combinator packages: sequential reads with explicit short-read signalling,
// optional seek/tell, and a seekable predicate that gates the combinators
// requiring look-ahead.
package stream

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrShortRead indicates the underlying reader returned fewer bytes
	// than requested before reaching EOF.
	ErrShortRead = errors.New("stream: short read")
	// ErrNotSeekable indicates a seek/tell operation was attempted on a
	// stream that does not support it.
	ErrNotSeekable = errors.New("stream: not seekable")
)

// Whence selects the reference point for Seek, mirroring [io.Seeker].
type Whence int

const (
	// SeekStart seeks relative to the start of the stream.
	SeekStart Whence = iota
	// SeekCurrent seeks relative to the current offset.
	SeekCurrent
	// SeekEnd seeks relative to the end of the stream.
	SeekEnd
)

// Stream is the byte source contract consumed throughout the library. Read
// returning fewer than len(p) bytes paired with a non-nil error signals
// exhaustion; callers that need exactly n bytes should treat a short read as
// [ErrShortRead].
type Stream interface {
	// Read reads up to len(p) bytes into p, returning the number of bytes
	// read and any error encountered.
	Read(p []byte) (n int, err error)
	// Tell returns the current offset from the start of the stream.
	Tell() (int64, error)
	// Seek repositions the stream and returns the new absolute offset.
	Seek(offset int64, whence Whence) (int64, error)
	// Seekable reports whether Seek and Tell are supported.
	Seekable() bool
}

// ReadFull reads exactly len(p) bytes from s, returning [ErrShortRead]
// wrapping the underlying error if fewer were available.
func ReadFull(s Stream, p []byte) error {
	n, err := io.ReadFull(readerFunc(s.Read), p)
	if n == len(p) {
		return nil
	}

	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrShortRead, err)
	}

	return fmt.Errorf("%w: read %d of %d bytes", ErrShortRead, n, len(p))
}

type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }

// fromReader adapts an [io.Reader] to [Stream] without seek support.
type fromReader struct {
	r   io.Reader
	pos int64
}

// FromReader wraps an [io.Reader] as an unseekable [Stream]. Tell reports
// the number of bytes read so far through this adapter; Seek always fails
// with [ErrNotSeekable].
func FromReader(r io.Reader) Stream {
	return &fromReader{r: r}
}

func (s *fromReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.pos += int64(n)

	return n, err
}

func (s *fromReader) Tell() (int64, error) { return s.pos, nil }

func (s *fromReader) Seek(int64, Whence) (int64, error) {
	return 0, ErrNotSeekable
}

func (s *fromReader) Seekable() bool { return false }

// fromReadSeeker adapts an [io.ReadSeeker] to [Stream] with full seek
// support.
type fromReadSeeker struct {
	rs io.ReadSeeker
}

// FromReadSeeker wraps an [io.ReadSeeker] as a seekable [Stream].
func FromReadSeeker(rs io.ReadSeeker) Stream {
	return &fromReadSeeker{rs: rs}
}

func (s *fromReadSeeker) Read(p []byte) (int, error) {
	return s.rs.Read(p)
}

func (s *fromReadSeeker) Tell() (int64, error) {
	return s.rs.Seek(0, io.SeekCurrent)
}

func (s *fromReadSeeker) Seek(offset int64, whence Whence) (int64, error) {
	var ioWhence int

	switch whence {
	case SeekStart:
		ioWhence = io.SeekStart
	case SeekCurrent:
		ioWhence = io.SeekCurrent
	case SeekEnd:
		ioWhence = io.SeekEnd
	default:
		return 0, fmt.Errorf("%w: unknown whence %d", ErrNotSeekable, whence)
	}

	return s.rs.Seek(offset, ioWhence)
}

func (s *fromReadSeeker) Seekable() bool { return true }
