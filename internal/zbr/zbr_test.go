package zbr

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/zoner-draw/zmf/internal/streamio"
)

func headerBuf(sig, version uint16) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, sig)
	binary.Write(&buf, binary.LittleEndian, version)
	buf.Write(make([]byte, 100))
	return buf.Bytes()
}

func TestLoadSupported(t *testing.T) {
	buf := headerBuf(Signature, 1)
	r := streamio.NewReader(streamio.NewFlatStream(bytes.NewReader(buf), int64(len(buf))))

	h, err := Load(r)
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if !h.IsSupported() {
		t.Error("IsSupported() = false, want true")
	}
}

func TestLoadUnsupportedVersion(t *testing.T) {
	buf := headerBuf(Signature, MaxSupportedVersion)
	r := streamio.NewReader(streamio.NewFlatStream(bytes.NewReader(buf), int64(len(buf))))

	h, err := Load(r)
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if h.IsSupported() {
		t.Error("IsSupported() = true, want false at the version ceiling")
	}
}

func TestLoadBadSignature(t *testing.T) {
	buf := headerBuf(0xffff, 1)
	r := streamio.NewReader(streamio.NewFlatStream(bytes.NewReader(buf), int64(len(buf))))

	h, err := Load(r)
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if h.IsSupported() {
		t.Error("IsSupported() = true, want false for a mismatched signature")
	}
}

type countingCollector struct {
	started, ended bool
}

func (c *countingCollector) StartDocument() { c.started = true }
func (c *countingCollector) EndDocument()   { c.ended = true }

func TestParseEmptyDocument(t *testing.T) {
	buf := headerBuf(Signature, 1)
	r := streamio.NewReader(streamio.NewFlatStream(bytes.NewReader(buf), int64(len(buf))))

	c := &countingCollector{}
	ok, err := NewParser(r, nil).Parse(c)
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	if !ok {
		t.Error("Parse() ok = false, want true")
	}
	if !c.started || !c.ended {
		t.Errorf("started/ended = %v/%v, want true/true", c.started, c.ended)
	}
}

func TestParseUnsupportedReturnsFalse(t *testing.T) {
	buf := headerBuf(0xffff, 1)
	r := streamio.NewReader(streamio.NewFlatStream(bytes.NewReader(buf), int64(len(buf))))

	c := &countingCollector{}
	ok, err := NewParser(r, nil).Parse(c)
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	if ok {
		t.Error("Parse() ok = true, want false for an unsupported signature")
	}
}
