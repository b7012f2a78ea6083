package stream

import "fmt"

// Bookmark is a scoped stream-position guard: on acquisition it records the
// stream's current offset, and on Release it seeks the stream back to that
// offset regardless of what happened in between. Used internally by the
// combinator package's Union (look-ahead parsing) and available to user
// debug wrappers.
type Bookmark struct {
	s      Stream
	offset int64
}

// NewBookmark records the stream's current offset. The stream must be
// seekable; otherwise [ErrNotSeekable] is returned.
func NewBookmark(s Stream) (*Bookmark, error) {
	if !s.Seekable() {
		return nil, ErrNotSeekable
	}

	off, err := s.Tell()
	if err != nil {
		return nil, fmt.Errorf("bookmark: %w", err)
	}

	return &Bookmark{s: s, offset: off}, nil
}

// Release seeks the stream back to the offset recorded at acquisition.
func (b *Bookmark) Release() error {
	_, err := b.s.Seek(b.offset, SeekStart)
	if err != nil {
		return fmt.Errorf("bookmark: release: %w", err)
	}

	return nil
}

// Offset returns the offset recorded at acquisition.
func (b *Bookmark) Offset() int64 {
	return b.offset
}
