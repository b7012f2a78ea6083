package layout

import (
	"log/slog"

	"go.binlayout.dev/binlayout/combinator"
	"go.binlayout.dev/binlayout/field"
	"go.binlayout.dev/binlayout/scope"
)

// itunesType maps an "mhod" tag's numeric Type to the name iPodLinux's
// ITunesDB wiki page gives it; values absent from the table are genuinely
// unassigned in that format, not a parsing error, so the enum falls back to
// "UNKNOWN" instead of failing.
var itunesType = map[any]any{
	uint64(1):  "TITLE",
	uint64(2):  "LOCATION",
	uint64(3):  "ALBUM",
	uint64(4):  "ARTIST",
	uint64(5):  "GENRE",
	uint64(6):  "FILETYPE",
	uint64(7):  "EQ_SETTING",
	uint64(8):  "COMMENT",
	uint64(9):  "PODCAST_CATEGORY",
	uint64(12): "COMPOSER",
	uint64(13): "GROUPING",
	uint64(14): "DESCRIPTION_TEXT",
	uint64(17): "TITLE_FOR_SORTING",
	uint64(28): "ALBUM_FOR_SORTING",
	uint64(29): "ALBUM_ARTIST_FOR_SORTING",
	uint64(30): "COMPOSER_FOR_SORTING",
}

func structOf(ctx scope.Context) *scope.StructContext {
	return ctx.(*scope.StructContext)
}

// ItunesTag describes an "mhod" data object tag from an iTunesDB, as
// documented at http://www.ipodlinux.org/wiki/ITunesDB: a TLV-style record
// whose body is either a length-prefixed UTF-16LE string (for the known
// Type values) or an opaque byte blob sized from the header's own length
// bookkeeping (for anything the enum doesn't recognize).
func ItunesTag() field.Field {
	return combinator.Structure("DatabaseObject",
		field.Anchor("__StartOfData"),

		combinator.Dump(combinator.Constant(field.String("HeaderIdentifier", 4), "mhod"), slog.Default()),
		field.ULInt32("HeaderLength"),
		field.ULInt32("TotalLength"),

		combinator.Embed(combinator.Union("TypeUnion",
			combinator.Enum(field.ULInt32("Type"), itunesType, combinator.WithEnumDefault("UNKNOWN")),
			field.ULInt32("IntType"),
		)),

		field.Padding(4),
		field.Padding(4),
		field.Anchor("__StartOfPadding"),

		combinator.IfElse(
			func(ctx scope.Context) bool { return structOf(ctx).Value("Type") != "UNKNOWN" },
			combinator.Embed(combinator.Structure("StringObject",
				field.ULInt32("Position"),
				field.ULInt32("Length"),
				field.Padding(4),
				field.Padding(4),
				field.StringFunc("String",
					func(ctx scope.Context) int64 { return int64(structOf(ctx).Uint64("Length")) },
					field.WithEncoding("utf-16-le"),
				),
			)),
			field.BytesFunc("Data", func(ctx scope.Context) int64 {
				sc := structOf(ctx.Parent())

				return int64(sc.Uint64("TotalLength")) - (sc.Int64("__StartOfPadding") - sc.Int64("__StartOfData"))
			}),
		),

		field.Anchor("__EndOfData"),
		combinator.Assertion(func(ctx scope.Context) bool {
			sc := structOf(ctx)

			return sc.Int64("__EndOfData")-sc.Int64("__StartOfData") == int64(sc.Uint64("TotalLength"))
		}),
	)
}
