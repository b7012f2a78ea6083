// Package layout holds the two built-in demo layouts cmd/binlayout exposes
// through its describe/parse/bench subcommands: a BMP bitmap header and an
// iTunesDB-style metadata tag. Neither is part of the library's public
// combinator surface; they exist to give the CLI something concrete to
// parse and to exercise the field/combinator tree end to end.
package layout

import (
	"fmt"

	"go.binlayout.dev/binlayout/field"
)

// Registry maps a demo layout name to its constructor, used by
// cmd/binlayout to resolve the `<layout>` argument on describe/parse/bench.
var Registry = map[string]func() field.Field{
	"bmp":          BMP,
	"itunesdb-tag": ItunesTag,
}

// Names returns the registered layout names in a fixed, stable order.
func Names() []string {
	return []string{"bmp", "itunesdb-tag"}
}

// Lookup resolves name to its demo layout, or reports an error naming the
// known layouts.
func Lookup(name string) (field.Field, error) {
	ctor, ok := Registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown layout %q (known: %v)", name, Names())
	}

	return ctor(), nil
}
