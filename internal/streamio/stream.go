package streamio

import "io"

// Stream is the input contract the core operates against: a random-access
// byte source that may optionally be a structured container exposing named
// substreams (see container.New for the diskfs-backed implementation).
type Stream interface {
	io.ReaderAt

	// Size returns the total stream length in bytes.
	Size() int64

	// IsStructured reports whether GetSubStreamByName/ExistsSubStream are
	// meaningful for this stream. A flat byte stream always answers false.
	IsStructured() bool

	// ExistsSubStream reports whether a substream of the given name exists.
	// Only meaningful when IsStructured() is true.
	ExistsSubStream(name string) bool

	// GetSubStreamByName opens a named substream. Only meaningful when
	// IsStructured() is true.
	GetSubStreamByName(name string) (Stream, error)
}

// flatStream adapts a plain io.ReaderAt into an unstructured Stream.
type flatStream struct {
	io.ReaderAt
	size int64
}

// NewFlatStream wraps r as an unstructured Stream of the given size.
func NewFlatStream(r io.ReaderAt, size int64) Stream {
	return &flatStream{ReaderAt: r, size: size}
}

func (f *flatStream) Size() int64                 { return f.size }
func (f *flatStream) IsStructured() bool           { return false }
func (f *flatStream) ExistsSubStream(string) bool  { return false }
func (f *flatStream) GetSubStreamByName(name string) (Stream, error) {
	return nil, NewGeneric("stream is not structured: no substream " + name)
}
