package streamio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Reader is a checked, position-tracking cursor over a Stream. All read
// operations advance the position and fail with ErrEndOfStream when fewer
// bytes are available than requested, matching the teacher reader's
// io.ReaderAt-based style generalized to a seekable cursor.
type Reader struct {
	s   Stream
	pos int64
}

// NewReader wraps s with a cursor starting at position 0.
func NewReader(s Stream) *Reader {
	return &Reader{s: s}
}

// Stream returns the underlying Stream.
func (r *Reader) Stream() Stream { return r.s }

// Tell returns the current absolute position.
func (r *Reader) Tell() int64 { return r.pos }

// IsEnd reports whether the cursor has reached the end of the stream.
func (r *Reader) IsEnd() bool { return r.pos >= r.Length() }

// Length returns the stream's total length. When the underlying Stream
// cannot report its size directly (Size() <= 0), it falls back to reading
// the stream in 4096-byte blocks until EOF; the cursor position is left
// unchanged, mirroring the source's seek-to-end-unavailable fallback.
func (r *Reader) Length() int64 {
	if n := r.s.Size(); n > 0 {
		return n
	}
	save := r.pos
	defer func() { r.pos = save }()

	var pos int64
	buf := make([]byte, 4096)
	for {
		n, err := r.s.ReadAt(buf, pos)
		pos += int64(n)
		if err != nil {
			break
		}
	}
	return pos
}

func (r *Reader) readN(n int) ([]byte, error) {
	if n < 0 {
		return nil, NewGeneric("negative read length")
	}
	buf := make([]byte, n)
	read, err := r.s.ReadAt(buf, r.pos)
	if read < n {
		if err == io.EOF || err == nil {
			return nil, ErrEndOfStream
		}
		return nil, fmt.Errorf("streamio: read %d bytes at %d: %w", n, r.pos, err)
	}
	r.pos += int64(n)
	return buf, nil
}

// ReadN returns exactly n bytes starting at the current position.
func (r *Reader) ReadN(n int) ([]byte, error) {
	return r.readN(n)
}

// ReadU8 reads one byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a 16-bit unsigned integer. bigEndian selects byte order;
// the zero value (false) is little-endian, the format's default.
func (r *Reader) ReadU16(bigEndian ...bool) (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	if order(bigEndian) {
		return binary.BigEndian.Uint16(b), nil
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a 32-bit unsigned integer.
func (r *Reader) ReadU32(bigEndian ...bool) (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	if order(bigEndian) {
		return binary.BigEndian.Uint32(b), nil
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64 reads a 64-bit unsigned integer.
func (r *Reader) ReadU64(bigEndian ...bool) (uint64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	if order(bigEndian) {
		return binary.BigEndian.Uint64(b), nil
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadS32 reads a signed 32-bit integer.
func (r *Reader) ReadS32(bigEndian ...bool) (int32, error) {
	v, err := r.ReadU32(bigEndian...)
	return int32(v), err
}

// ReadF32 reads a 32-bit IEEE-754 float: the raw bit pattern of a read u32.
func (r *Reader) ReadF32(bigEndian ...bool) (float32, error) {
	v, err := r.ReadU32(bigEndian...)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func order(bigEndian []bool) bool {
	return len(bigEndian) > 0 && bigEndian[0]
}

// Skip advances the cursor by n bytes without reading them.
func (r *Reader) Skip(n int64) error {
	return r.Seek(r.pos + n)
}

// Seek moves the cursor to an absolute position.
func (r *Reader) Seek(abs int64) error {
	if abs < 0 || abs > r.Length() {
		return ErrSeekFailed
	}
	r.pos = abs
	return nil
}

// SeekRel moves the cursor by a relative delta.
func (r *Reader) SeekRel(delta int64) error {
	return r.Seek(r.pos + delta)
}
