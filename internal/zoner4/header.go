// Package zoner4 implements the Zoner-4 object-graph parser: a chained,
// tagged, cross-referenced binary object stream with dependency edges
// between styling objects (fills, pens, shadows, fonts, ...) and drawing
// objects (rectangles, ellipses, curves, text frames, tables, images).
package zoner4

import "github.com/zoner-draw/zmf/internal/streamio"

// Signature is the fixed u32 tag at offset 8 of a Zoner-4 stream.
const Signature = 0x12345678

// Header is the Zoner-4 file header: the object count and the
// content/preview-bitmap start offsets. The format signature is checked
// by Load and not stored.
type Header struct {
	ObjectCount        uint32
	StartContentOffset uint32
	StartBitmapOffset  uint32
}

// Load reads a Header, seeking internally as the format requires: the
// signature lives at offset 8, the remaining fields at offset 28.
func Load(r *streamio.Reader) (Header, error) {
	var h Header
	if err := r.Seek(8); err != nil {
		return h, err
	}
	sig, err := r.ReadU32()
	if err != nil {
		return h, err
	}
	if sig != Signature {
		return h, streamio.NewGeneric("zoner4: signature mismatch")
	}

	if err := r.Seek(28); err != nil {
		return h, err
	}
	if h.ObjectCount, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.StartContentOffset, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.StartBitmapOffset, err = r.ReadU32(); err != nil {
		return h, err
	}
	return h, nil
}
