// Package bintest provides byte-slice fixture builders for field and
// combinator tests: small, explicit builders instead of ad hoc literal byte
// slices sprinkled through test files.
package bintest

import "encoding/binary"

// Bytes concatenates any number of byte slices (or byte-convertible
// literals passed through []byte(...) at the call site) into one slice.
//
// Example:
//
//	data := bintest.Bytes(
//		bintest.BE16(0x0102),
//		[]byte("MGCK"),
//	)
func Bytes(chunks ...[]byte) []byte {
	var out []byte

	for _, c := range chunks {
		out = append(out, c...)
	}

	return out
}

// BE16 encodes v as 2 big-endian bytes.
func BE16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)

	return b
}

// LE16 encodes v as 2 little-endian bytes.
func LE16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)

	return b
}

// BE32 encodes v as 4 big-endian bytes.
func BE32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)

	return b
}

// LE32 encodes v as 4 little-endian bytes.
func LE32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)

	return b
}

// BE64 encodes v as 8 big-endian bytes.
func BE64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)

	return b
}

// LE64 encodes v as 8 little-endian bytes.
func LE64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)

	return b
}

// Pad returns n bytes of the given pad value.
func Pad(n int, value byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = value
	}

	return b
}

// CStr returns s as bytes followed by a single NUL terminator.
func CStr(s string) []byte {
	return append([]byte(s), 0)
}
