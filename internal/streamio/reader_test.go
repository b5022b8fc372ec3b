package streamio

import (
	"bytes"
	"testing"
)

func TestReaderPrimitives(t *testing.T) {
	buf := make([]byte, 0, 32)
	buf = append(buf, 0x2a)             // u8
	buf = append(buf, 0x34, 0x12)       // u16 LE = 0x1234
	buf = append(buf, 0x78, 0x56, 0x34, 0x12) // u32 LE = 0x12345678
	buf = append(buf, 0x00, 0x00, 0x80, 0xbf) // f32 LE = -1.0

	r := NewReader(NewFlatStream(bytes.NewReader(buf), int64(len(buf))))

	u8, err := r.ReadU8()
	if err != nil || u8 != 0x2a {
		t.Fatalf("ReadU8() = %v, %v, want 0x2a, nil", u8, err)
	}
	u16, err := r.ReadU16()
	if err != nil || u16 != 0x1234 {
		t.Fatalf("ReadU16() = %v, %v, want 0x1234, nil", u16, err)
	}
	u32, err := r.ReadU32()
	if err != nil || u32 != 0x12345678 {
		t.Fatalf("ReadU32() = %v, %v, want 0x12345678, nil", u32, err)
	}
	f32, err := r.ReadF32()
	if err != nil || f32 != -1.0 {
		t.Fatalf("ReadF32() = %v, %v, want -1.0, nil", f32, err)
	}

	if r.Tell() != int64(len(buf)) {
		t.Errorf("Tell() = %d, want %d", r.Tell(), len(buf))
	}
	if !r.IsEnd() {
		t.Error("IsEnd() = false, want true")
	}
}

func TestReaderReadPastEndFails(t *testing.T) {
	buf := []byte{0x01, 0x02}
	r := NewReader(NewFlatStream(bytes.NewReader(buf), int64(len(buf))))
	if _, err := r.ReadU32(); err == nil {
		t.Error("ReadU32() on a 2-byte stream succeeded, want error")
	}
}

func TestReaderSeekBounds(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	r := NewReader(NewFlatStream(bytes.NewReader(buf), int64(len(buf))))

	if err := r.Seek(2); err != nil {
		t.Fatalf("Seek(2) = %v, want nil", err)
	}
	if r.Tell() != 2 {
		t.Errorf("Tell() = %d, want 2", r.Tell())
	}
	if err := r.Seek(5); err != ErrSeekFailed {
		t.Errorf("Seek(5) = %v, want ErrSeekFailed", err)
	}
	if err := r.Seek(-1); err != ErrSeekFailed {
		t.Errorf("Seek(-1) = %v, want ErrSeekFailed", err)
	}
}

func TestReaderSkipAndSeekRel(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	r := NewReader(NewFlatStream(bytes.NewReader(buf), int64(len(buf))))

	if err := r.Skip(3); err != nil {
		t.Fatalf("Skip(3) = %v, want nil", err)
	}
	if r.Tell() != 3 {
		t.Errorf("Tell() = %d, want 3", r.Tell())
	}
	if err := r.SeekRel(-3); err != nil {
		t.Fatalf("SeekRel(-3) = %v, want nil", err)
	}
	if r.Tell() != 0 {
		t.Errorf("Tell() = %d, want 0", r.Tell())
	}
}

func TestReaderBigEndian(t *testing.T) {
	buf := []byte{0x12, 0x34}
	r := NewReader(NewFlatStream(bytes.NewReader(buf), int64(len(buf))))
	v, err := r.ReadU16(true)
	if err != nil || v != 0x1234 {
		t.Fatalf("ReadU16(true) = %v, %v, want 0x1234, nil", v, err)
	}
}
