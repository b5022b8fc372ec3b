package bmi

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/klauspost/compress/zlib"
	"github.com/sirupsen/logrus"

	"github.com/zoner-draw/zmf/internal/model"
	"github.com/zoner-draw/zmf/internal/streamio"
)

func colorToNRGBA(c model.Color, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// Collector is the subset of the drawing-sink adaptor the BMI parser
// needs when driven as a standalone top-level format (as opposed to being
// invoked from within a Zoner-4 BITMAP object, which only wants the image).
type Collector interface {
	StartDocument()
	EndDocument()
	StartPage(settings model.PageSettings)
	EndPage()
	StartLayer()
	EndLayer()
	CollectImage(img model.Image, topLeft model.Point, width, height, rotation float64, mirrorHorizontal, mirrorVertical bool)
}

// px2in converts a pixel dimension to inches at the given DPI.
func px2in(px uint16, dpi float64) float64 {
	return float64(px) / dpi
}

// Parser decodes BMI streams: both as a standalone top-level format and,
// via ReadImage, as the payload of a Zoner-4 BITMAP object.
type Parser struct {
	r   *streamio.Reader
	log logrus.FieldLogger
}

// NewParser builds a Parser over r.
func NewParser(r *streamio.Reader, log logrus.FieldLogger) *Parser {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Parser{r: r, log: log}
}

// Parse decodes a standalone BMI stream and emits a minimal one-image
// document: a letter-sized page containing one image at the origin.
func (p *Parser) Parse(collector Collector) (bool, error) {
	img, _, err := p.ReadImage()
	if err != nil {
		return false, err
	}
	if img == nil {
		return false, nil
	}

	collector.StartDocument()
	collector.StartPage(model.PageSettings{Width: 8.5, Height: 11})
	collector.StartLayer()
	collector.CollectImage(*img, model.Point{}, img.Width, img.Height, 0, false, false)
	collector.EndLayer()
	collector.EndPage()
	collector.EndDocument()
	return true, nil
}

// ReadImage reads the header and decodes the reconciled color+transparency
// bitmap into a model.Image (PNG-encoded). It returns (nil, header, nil)
// when the stream is structurally well-formed but carries no bitmap.
func (p *Parser) ReadImage() (*model.Image, Header, error) {
	header, err := Load(p.r)
	if err != nil {
		return nil, header, err
	}
	if !header.IsSupported() {
		return nil, header, streamio.NewGeneric("bmi: signature mismatch")
	}

	bitmapOffsets := header.BitmapOffsets()
	if len(bitmapOffsets) == 0 {
		return nil, header, nil
	}

	colorHeader, colorPixels, err := p.readColorBitmap(header, bitmapOffsets[0])
	if err != nil {
		return nil, header, err
	}

	var alpha []bool
	width, height := colorHeader.width, colorHeader.height
	if len(bitmapOffsets) > 1 {
		transHeader, transPixels, err := p.readColorBitmap(header, bitmapOffsets[1])
		if err != nil {
			return nil, header, err
		}
		if !reconcileDimensions(&header.Width, &header.Height, &colorHeader, &transHeader) {
			return nil, header, streamio.NewGeneric("bmi: color/transparency dimensions disagree")
		}
		alpha = transparencyAlpha(transPixels)
	}

	data, err := encodePNG(int(width), int(height), colorPixels, alpha)
	if err != nil {
		return nil, header, err
	}

	return &model.Image{
		Width:  px2in(width, 72),
		Height: px2in(height, 72),
		Data:   data,
	}, header, nil
}

type colorBitmapHeader struct {
	width, height uint16
	depth         uint16
	startOffset   int64
}

// parseColorBitmapHeader reads the per-region header at headerStart +
// offset.Start: width, height, a raw depth saturated to the nearest
// supported value, then 10 bytes this reader never interprets before the
// region's data begins.
func (p *Parser) parseColorBitmapHeader(headerStart int64, offset Offset) (colorBitmapHeader, error) {
	var ch colorBitmapHeader
	if err := p.r.Seek(headerStart + int64(offset.Start)); err != nil {
		return ch, err
	}
	w, err := p.r.ReadU16()
	if err != nil {
		return ch, err
	}
	h, err := p.r.ReadU16()
	if err != nil {
		return ch, err
	}
	rawDepth, err := p.r.ReadU16()
	if err != nil {
		return ch, err
	}
	ch.width, ch.height = w, h
	switch {
	case rawDepth <= 1:
		ch.depth = 1
	case rawDepth <= 4:
		ch.depth = 4
	case rawDepth <= 8:
		ch.depth = 8
	default:
		ch.depth = 24
	}
	ch.startOffset = p.r.Tell() + 10
	return ch, nil
}

func reconcileDimensions(globalWidth, globalHeight *uint16, color, trans *colorBitmapHeader) bool {
	if !reconcileValue(globalWidth, &color.width, &trans.width) {
		return false
	}
	if !reconcileValue(globalHeight, &color.height, &trans.height) {
		return false
	}
	return true
}

func (p *Parser) readColorBitmap(header Header, offset Offset) (colorBitmapHeader, []model.Color, error) {
	ch, err := p.parseColorBitmapHeader(header.StartOffset, offset)
	if err != nil {
		return ch, nil, err
	}

	var palette []model.Color
	if ch.depth < 24 {
		if err := p.r.Seek(header.StartOffset + int64(offset.Start)); err != nil {
			return ch, nil, err
		}
		palette, err = p.readColorPalette(1 << ch.depth)
		if err != nil {
			return ch, nil, err
		}
	}

	if err := p.r.Seek(ch.startOffset); err != nil {
		return ch, nil, err
	}
	raw, err := p.readData(header.StartOffset + int64(offset.End))
	if err != nil {
		return ch, nil, err
	}

	pixels := decodePixels(raw, int(ch.width), int(ch.height), int(ch.depth), palette)
	return ch, pixels, nil
}

// transparencyAlpha derives the per-pixel opacity flag from a companion
// transparency bitmap: a pixel is transparent (alpha=0) exactly when its
// red channel is nonzero, matching the source's own reconciliation rule.
func transparencyAlpha(pixels []model.Color) []bool {
	alpha := make([]bool, len(pixels))
	for i, c := range pixels {
		alpha[i] = c.R != 0
	}
	return alpha
}

func (p *Parser) readColorPalette(count int) ([]model.Color, error) {
	palette := make([]model.Color, count)
	for i := range palette {
		b, err := p.r.ReadN(4) // B, G, R, pad
		if err != nil {
			return nil, err
		}
		palette[i] = model.Color{R: b[2], G: b[1], B: b[0]}
	}
	return palette, nil
}

// readData reads the chunked, zlib-compressed payload up to endOffset:
// each block is {u16 size, u8 unknown, size bytes of compressed data},
// inflated and appended into a growing buffer. Only a zlib inflate
// failure is locally recoverable (the bitmap is discarded, the block
// loop stops, no error is returned); a stream read failure (truncated
// or corrupt input) is fatal to the whole parse and propagates.
func (p *Parser) readData(endOffset int64) ([]byte, error) {
	var out bytes.Buffer
	for p.r.Tell() < endOffset {
		blockSize, err := p.r.ReadU16()
		if err != nil {
			return nil, err
		}
		if err := p.r.Skip(1); err != nil {
			return nil, err
		}
		compressed, err := p.r.ReadN(int(blockSize))
		if err != nil {
			return nil, err
		}
		if err := inflateAppend(&out, compressed); err != nil {
			out.Reset()
			break
		}
	}
	return out.Bytes(), nil
}

func inflateAppend(out *bytes.Buffer, compressed []byte) error {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return err
	}
	defer zr.Close()
	_, err = out.ReadFrom(zr)
	return err
}

// decodePixels unpacks the raw row-major bitmap bytes into width*height
// colors. Row stride is ceil(width*depth/8) rounded up to a 4-byte
// boundary. depth 24 rows are BGR triples; lower depths pack 8/depth
// palette indices per byte, most-significant first.
func decodePixels(raw []byte, width, height, depth int, palette []model.Color) []model.Color {
	stride := ((width*depth + 7) / 8)
	stride = (stride + 3) &^ 3

	pixels := make([]model.Color, width*height)
	for y := 0; y < height; y++ {
		rowStart := y * stride
		if rowStart+stride > len(raw) {
			break
		}
		row := raw[rowStart : rowStart+stride]
		if depth == 24 {
			for x := 0; x < width; x++ {
				o := x * 3
				if o+3 > len(row) {
					break
				}
				pixels[y*width+x] = model.Color{R: row[o+2], G: row[o+1], B: row[o]}
			}
			continue
		}
		perByte := 8 / depth
		mask := uint8((0xff >> (8 - depth)) << (8 - depth))
		for x := 0; x < width; x++ {
			byteIdx := x / perByte
			if byteIdx >= len(row) {
				break
			}
			shiftCount := (x % perByte) * depth
			shift := 8 - depth - shiftCount
			idx := (row[byteIdx] & (mask >> shiftCount)) >> shift
			if int(idx) < len(palette) {
				pixels[y*width+x] = palette[idx]
			}
		}
	}
	return pixels
}

func encodePNG(width, height int, pixels []model.Color, alpha []bool) ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, c := range pixels {
		a := uint8(255)
		if alpha != nil && i < len(alpha) {
			if alpha[i] {
				a = 0
			} else {
				a = 255
			}
		}
		img.SetNRGBA(i%width, i/width, colorToNRGBA(c, a))
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
