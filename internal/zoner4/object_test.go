package zoner4

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/zoner-draw/zmf/internal/streamio"
)

// objectHeaderBuf builds the fixed 28-byte object header layout:
// size(u32) type(u8) pad(7) refObjCount(u32) refListStartOffset(u32)
// pad(4) id(u32).
func objectHeaderBuf(size uint32, typeCode uint8, refObjCount, refListStartOffset, id uint32) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, size)
	buf.WriteByte(typeCode)
	buf.Write(make([]byte, 7))
	binary.Write(&buf, binary.LittleEndian, refObjCount)
	binary.Write(&buf, binary.LittleEndian, refListStartOffset)
	buf.Write(make([]byte, 4))
	binary.Write(&buf, binary.LittleEndian, id)
	return buf.Bytes()
}

func reader(buf []byte) *streamio.Reader {
	return streamio.NewReader(streamio.NewFlatStream(bytes.NewReader(buf), int64(len(buf))))
}

func TestReadObjectHeaderValid(t *testing.T) {
	buf := objectHeaderBuf(28, 0x0a, 0, 0, 5)
	h, err := readObjectHeader(reader(buf), int64(len(buf)))
	if err != nil {
		t.Fatalf("readObjectHeader() = %v, want nil", err)
	}
	if h.Type != ObjectFill {
		t.Errorf("Type = %v, want ObjectFill", h.Type)
	}
	if !h.HasID || h.ID != 5 {
		t.Errorf("HasID/ID = %v/%d, want true/5", h.HasID, h.ID)
	}
	if h.NextObjectOffset != 28 {
		t.Errorf("NextObjectOffset = %d, want 28", h.NextObjectOffset)
	}
}

func TestReadObjectHeaderNoID(t *testing.T) {
	buf := objectHeaderBuf(28, 0x32, 0, 0, NoID)
	h, err := readObjectHeader(reader(buf), int64(len(buf)))
	if err != nil {
		t.Fatalf("readObjectHeader() = %v, want nil", err)
	}
	if h.HasID {
		t.Error("HasID = true, want false for a NoID sentinel")
	}
	if h.Type != ObjectRectangle {
		t.Errorf("Type = %v, want ObjectRectangle", h.Type)
	}
}

func TestReadObjectHeaderRejectsOversizedObject(t *testing.T) {
	buf := objectHeaderBuf(1000, 0x0a, 0, 0, 1)
	if _, err := readObjectHeader(reader(buf), int64(len(buf))); err == nil {
		t.Error("readObjectHeader() with size beyond stream end succeeded, want error")
	}
}

func TestReadObjectHeaderRejectsZeroSize(t *testing.T) {
	buf := objectHeaderBuf(0, 0x0a, 0, 0, 1)
	if _, err := readObjectHeader(reader(buf), int64(len(buf))); err == nil {
		t.Error("readObjectHeader() with size=0 succeeded, want error")
	}
}

func TestReadObjectHeaderRejectsBogusRefCountWithNoRefListOffset(t *testing.T) {
	// refListStartOffset == 0 ("no ref table") must not exempt refObjCount
	// from its bound check - the original applies it unconditionally.
	buf := objectHeaderBuf(28, 0x0a, 100, 0, 1)
	if _, err := readObjectHeader(reader(buf), int64(len(buf))); err == nil {
		t.Error("readObjectHeader() with refListStartOffset=0 and a bogus refObjCount succeeded, want error")
	}
}

func TestReadObjectHeaderRejectsRefListOutOfRange(t *testing.T) {
	buf := objectHeaderBuf(28, 0x0a, 1, 40, 1) // refListStartOffset >= size
	if _, err := readObjectHeader(reader(buf), int64(len(buf))); err == nil {
		t.Error("readObjectHeader() with refListStartOffset >= size succeeded, want error")
	}
}

func TestParseObjectTypeUnknownDefaultsToUnknown(t *testing.T) {
	if got := parseObjectType(0xee); got != ObjectUnknown {
		t.Errorf("parseObjectType(0xee) = %v, want ObjectUnknown", got)
	}
}

// TestReadObjectRefs builds an object whose last 16 bytes are a two-entry
// ref table: ids then tags, trailing the declared object size.
func TestReadObjectRefs(t *testing.T) {
	const headerSize = 28
	const refBytes = 16 // 2 refs * (4 id + 4 tag), but ids and tags are
	// each written as a contiguous block of 2 u32s per readObjectRefs.
	size := uint32(headerSize + refBytes)

	var buf bytes.Buffer
	buf.Write(objectHeaderBuf(size, 0x0c, 2, headerSize, 1))
	binary.Write(&buf, binary.LittleEndian, uint32(10)) // id 0
	binary.Write(&buf, binary.LittleEndian, uint32(NoID)) // id 1 (filtered out)
	binary.Write(&buf, binary.LittleEndian, uint32(1))  // tag 0
	binary.Write(&buf, binary.LittleEndian, uint32(2))  // tag 1

	data := buf.Bytes()
	r := reader(data)
	h, err := readObjectHeader(r, int64(len(data)))
	if err != nil {
		t.Fatalf("readObjectHeader() = %v, want nil", err)
	}

	refs, err := readObjectRefs(r, h)
	if err != nil {
		t.Fatalf("readObjectRefs() = %v, want nil", err)
	}
	if len(refs) != 1 {
		t.Fatalf("len(refs) = %d, want 1 (the NoID entry must be filtered)", len(refs))
	}
	if refs[0].ID != 10 || refs[0].Tag != 1 {
		t.Errorf("refs[0] = %+v, want {10 1}", refs[0])
	}
}
