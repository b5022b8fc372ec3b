// Package bmi implements the BMI bitmap format: a chunked, zlib-compressed,
// palette-or-direct-color bitmap with an optional companion transparency
// mask, decoded and re-encoded as PNG.
package bmi

import (
	"sort"

	"github.com/zoner-draw/zmf/internal/streamio"
)

// Signature is the fixed 9-byte ASCII tag at offset 0 of a BMI stream.
const Signature = "ZonerBMIa"

// StreamType classifies one offset-table record.
type StreamType int

const (
	StreamUnknown StreamType = iota
	StreamBitmap
	StreamEndOfFile
)

// Offset is one {type, start, end} record from the header's offset table,
// relative to the header's own start position.
type Offset struct {
	Type  StreamType
	Start uint32
	End   uint32
}

// Header is the parsed BMI header: declared dimensions, color depth,
// palette-mode flag, and the sorted, deduplicated offset table.
type Header struct {
	StartOffset   int64
	Signature     []byte
	Width, Height uint16
	IsPaletteMode bool
	ColorDepth    uint16
	Offsets       []Offset
	Size          int64 // total header+body size, from the END_OF_FILE offset
}

// IsSupported reports whether the header's signature matches the BMI tag.
// Depth and offset-count validity are already enforced as hard errors by
// Load, so a successfully loaded header only needs this final check.
func (h Header) IsSupported() bool {
	return string(h.Signature) == Signature
}

// paletteColorCount returns the number of palette entries for depths < 24.
func (h Header) paletteColorCount() int {
	return 1 << h.ColorDepth
}

// Load reads a Header at the reader's current position, which becomes the
// header's StartOffset for all subsequent relative offsets.
func Load(r *streamio.Reader) (Header, error) {
	var h Header
	h.StartOffset = r.Tell()

	sig, err := r.ReadN(len(Signature))
	if err != nil {
		return h, err
	}

	width, err := r.ReadU16()
	if err != nil {
		return h, err
	}
	height, err := r.ReadU16()
	if err != nil {
		return h, err
	}
	paletteMode, err := r.ReadU16()
	if err != nil {
		return h, err
	}
	depth, err := r.ReadU16()
	if err != nil {
		return h, err
	}
	if depth != 1 && depth != 4 && depth != 8 && depth != 24 {
		return h, streamio.NewGeneric("bmi: unsupported color depth")
	}
	if err := r.Skip(2); err != nil {
		return h, err
	}
	offsetCount, err := r.ReadU16()
	if err != nil {
		return h, err
	}
	if offsetCount < 1 || offsetCount > 6 {
		return h, streamio.NewGeneric("bmi: offset count out of range")
	}

	h.Width, h.Height = width, height
	h.IsPaletteMode = paletteMode != 0
	h.ColorDepth = depth

	if h.IsPaletteMode && h.ColorDepth < 24 {
		if err := r.Skip(int64(4 * h.paletteColorCount())); err != nil {
			return h, err
		}
	}

	if err := h.readOffsets(r, int(offsetCount)); err != nil {
		return h, err
	}
	h.Signature = sig
	return h, nil
}

func (h *Header) readOffsets(r *streamio.Reader, count int) error {
	offsets := make([]Offset, 0, count)
	for i := 0; i < count; i++ {
		t, err := r.ReadU16()
		if err != nil {
			return err
		}
		start, err := r.ReadU32()
		if err != nil {
			return err
		}
		var typ StreamType
		switch t {
		case 0x01:
			typ = StreamBitmap
		case 0xff:
			typ = StreamEndOfFile
			h.Size = int64(start)
		default:
			typ = StreamUnknown
		}
		offsets = append(offsets, Offset{Type: typ, Start: start})
	}

	sort.Slice(offsets, func(i, j int) bool { return offsets[i].Start < offsets[j].Start })

	deduped := offsets[:0]
	for i, o := range offsets {
		if i > 0 && o.Type == deduped[len(deduped)-1].Type && o.Start == deduped[len(deduped)-1].Start {
			continue
		}
		deduped = append(deduped, o)
	}
	for i := range deduped {
		if i+1 < len(deduped) {
			deduped[i].End = deduped[i+1].Start
		}
	}
	h.Offsets = deduped
	return nil
}

// BitmapOffsets returns up to two BITMAP-type offsets in ascending order:
// the first is the color bitmap, the second (if present) the transparency
// mask.
func (h Header) BitmapOffsets() []Offset {
	var out []Offset
	for _, o := range h.Offsets {
		if o.Type == StreamBitmap {
			out = append(out, o)
			if len(out) == 2 {
				break
			}
		}
	}
	return out
}

// reconcileValue performs 2-of-3 majority voting across a global header
// value and two region-local values, propagating the majority to the
// odd one out. It reports false when all three disagree.
func reconcileValue(v1, v2, v3 *uint16) bool {
	switch {
	case *v1 == *v2:
		*v3 = *v1
	case *v1 == *v3:
		*v2 = *v1
	case *v2 == *v3:
		*v1 = *v2
	default:
		return false
	}
	return true
}
