package bmi

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/zoner-draw/zmf/internal/streamio"
)

// minimalHeader builds a valid 1-bit-depth, palette-mode, single-offset
// BMI header buffer: signature, width, height, palette flag, depth, pad,
// offset count, the 2-entry palette (4 bytes each), then one BITMAP
// offset record.
func minimalHeader(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString(Signature)
	binary.Write(&buf, binary.LittleEndian, uint16(4))  // width
	binary.Write(&buf, binary.LittleEndian, uint16(4))  // height
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // palette mode
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // depth
	binary.Write(&buf, binary.LittleEndian, uint16(0))  // pad
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // offset count
	buf.Write(make([]byte, 4*2))                        // 2-entry palette
	binary.Write(&buf, binary.LittleEndian, uint16(0x01)) // offset type: BITMAP
	binary.Write(&buf, binary.LittleEndian, uint32(0))    // offset start
	return buf.Bytes()
}

func TestLoadValidHeader(t *testing.T) {
	buf := minimalHeader(t)
	r := streamio.NewReader(streamio.NewFlatStream(bytes.NewReader(buf), int64(len(buf))))

	h, err := Load(r)
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if !h.IsSupported() {
		t.Error("IsSupported() = false, want true")
	}
	if h.Width != 4 || h.Height != 4 {
		t.Errorf("Width/Height = %d/%d, want 4/4", h.Width, h.Height)
	}
	if !h.IsPaletteMode || h.ColorDepth != 1 {
		t.Errorf("IsPaletteMode/ColorDepth = %v/%d, want true/1", h.IsPaletteMode, h.ColorDepth)
	}
	if len(h.BitmapOffsets()) != 1 {
		t.Fatalf("BitmapOffsets() len = %d, want 1", len(h.BitmapOffsets()))
	}
}

func TestLoadRejectsBadSignature(t *testing.T) {
	buf := minimalHeader(t)
	buf[0] = 'x'
	r := streamio.NewReader(streamio.NewFlatStream(bytes.NewReader(buf), int64(len(buf))))

	h, err := Load(r)
	if err != nil {
		t.Fatalf("Load() = %v, want nil (signature mismatch is only caught by IsSupported)", err)
	}
	if h.IsSupported() {
		t.Error("IsSupported() = true, want false for a corrupted signature")
	}
}

func TestLoadRejectsBadDepth(t *testing.T) {
	buf := minimalHeader(t)
	binary.LittleEndian.PutUint16(buf[len(Signature)+6:], 3) // depth = 3, unsupported
	r := streamio.NewReader(streamio.NewFlatStream(bytes.NewReader(buf), int64(len(buf))))

	if _, err := Load(r); err == nil {
		t.Error("Load() with depth=3 succeeded, want error")
	}
}

func TestLoadRejectsOffsetCountOutOfRange(t *testing.T) {
	buf := minimalHeader(t)
	binary.LittleEndian.PutUint16(buf[len(Signature)+10:], 0) // offset count = 0
	r := streamio.NewReader(streamio.NewFlatStream(bytes.NewReader(buf), int64(len(buf))))

	if _, err := Load(r); err == nil {
		t.Error("Load() with offsetCount=0 succeeded, want error")
	}
}

func TestReconcileValueMajority(t *testing.T) {
	a, b, c := uint16(4), uint16(4), uint16(0)
	if !reconcileValue(&a, &b, &c) {
		t.Fatal("reconcileValue() = false, want true")
	}
	if c != 4 {
		t.Errorf("c = %d, want 4", c)
	}
}

func TestReconcileValueAllDisagree(t *testing.T) {
	a, b, c := uint16(1), uint16(2), uint16(3)
	if reconcileValue(&a, &b, &c) {
		t.Error("reconcileValue() = true, want false when all three disagree")
	}
}
