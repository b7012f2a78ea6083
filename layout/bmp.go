package layout

import (
	"go.binlayout.dev/binlayout/combinator"
	"go.binlayout.dev/binlayout/field"
)

// BMP describes a Windows BITMAPFILEHEADER followed by a 40-byte
// BITMAPINFOHEADER (the "BITMAPINFOHEADER" / BMP version 3 variant that
// golang.org/x/image/bmp decodes), laid out the way
// https://en.wikipedia.org/wiki/BMP_file_format documents it. cmd/binlayout's
// `parse` subcommand cross-checks the Width/Height this yields against
// bmp.DecodeConfig from the same file.
func BMP() field.Field {
	fileHeader := combinator.Structure("FileHeader",
		combinator.Constant(field.String("Magic", 2), "BM"),
		field.ULInt32("FileSize"),
		field.ULInt16("Reserved1"),
		field.ULInt16("Reserved2"),
		field.ULInt32("DataOffset"),
	)

	infoHeader := combinator.Structure("InfoHeader",
		combinator.Constant(field.ULInt32("HeaderSize"), uint64(40)),
		field.LInt32("Width"),
		field.LInt32("Height"),
		field.ULInt16("Planes"),
		field.ULInt16("BitsPerPixel"),
		field.ULInt32("Compression"),
		field.ULInt32("ImageSize"),
		field.LInt32("XPixelsPerMeter"),
		field.LInt32("YPixelsPerMeter"),
		field.ULInt32("ColorsUsed"),
		field.ULInt32("ColorsImportant"),
	)

	return combinator.Structure("BMP",
		combinator.Embed(fileHeader),
		combinator.Embed(infoHeader),
	)
}
