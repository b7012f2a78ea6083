package field

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// knownEncodings lists the string encodings validated at construction time.
// Names are normalized (lowercased, hyphens treated as underscores) before
// lookup, mirroring the source's acceptance of both "utf-8" and "utf_8"
// spellings.
var knownEncodings = map[string]bool{
	"ascii":      true,
	"utf_8":      true,
	"utf_16_be":  true,
	"utf_16_le":  true,
	"utf_32_be":  true,
	"utf_32_le":  true,
}

func normalizeEncoding(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "-", "_")
}

// ValidEncoding reports whether name is a recognized string encoding.
func ValidEncoding(name string) bool {
	return knownEncodings[normalizeEncoding(name)]
}

// decodeString decodes data per the named encoding.
func decodeString(data []byte, encoding string) (string, error) {
	switch normalizeEncoding(encoding) {
	case "ascii", "utf_8":
		return string(data), nil

	case "utf_16_be", "utf_16_le":
		if len(data)%2 != 0 {
			return "", fmt.Errorf("utf-16 data length %d is not a multiple of 2", len(data))
		}

		units := make([]uint16, len(data)/2)

		for i := range units {
			if normalizeEncoding(encoding) == "utf_16_be" {
				units[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
			} else {
				units[i] = uint16(data[2*i]) | uint16(data[2*i+1])<<8
			}
		}

		return string(utf16.Decode(units)), nil

	case "utf_32_be", "utf_32_le":
		if len(data)%4 != 0 {
			return "", fmt.Errorf("utf-32 data length %d is not a multiple of 4", len(data))
		}

		runes := make([]rune, len(data)/4)

		for i := range runes {
			b := data[4*i : 4*i+4]

			var v uint32
			if normalizeEncoding(encoding) == "utf_32_be" {
				v = uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
			} else {
				v = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
			}

			runes[i] = rune(v)
		}

		return string(runes), nil

	default:
		return "", fmt.Errorf("%w: unknown encoding %q", ErrInvalidFieldParameter, encoding)
	}
}

// codeUnitSize returns the byte width of one code unit for encoding, used
// to find a null-terminator boundary that lands on a valid code-unit
// boundary.
func codeUnitSize(encoding string) int {
	switch normalizeEncoding(encoding) {
	case "utf_16_be", "utf_16_le":
		return 2
	case "utf_32_be", "utf_32_le":
		return 4
	default:
		return 1
	}
}
