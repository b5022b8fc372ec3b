// Package container adapts a github.com/diskfs/go-diskfs filesystem into
// the streamio.Stream contract's structured-input clause: a single fixed
// substream name, "content.zmf", is all this format family ever looks for.
package container

import (
	"fmt"
	"io"
	"os"

	"github.com/diskfs/go-diskfs/filesystem"

	"github.com/zoner-draw/zmf/internal/streamio"
)

// ContentStreamName is the only substream name the core ever probes for in
// a structured input, per the spec's external-interface contract.
const ContentStreamName = "content.zmf"

// diskfsStream adapts a filesystem.FileSystem rooted at a single mounted
// container into a structured streamio.Stream.
type diskfsStream struct {
	fs filesystem.FileSystem
}

// New wraps an already-mounted go-diskfs filesystem as a structured
// streamio.Stream. Callers obtain fs themselves (e.g. via diskfs.Open then
// Disk.GetFilesystem) - this package only adapts it, it never mounts
// images itself.
func New(fs filesystem.FileSystem) streamio.Stream {
	return &diskfsStream{fs: fs}
}

func (d *diskfsStream) ReadAt(p []byte, off int64) (int, error) {
	return 0, fmt.Errorf("container: root stream has no bytes of its own, only named substreams")
}

func (d *diskfsStream) Size() int64 { return 0 }

func (d *diskfsStream) IsStructured() bool { return true }

func (d *diskfsStream) ExistsSubStream(name string) bool {
	f, err := d.fs.OpenFile("/"+name, os.O_RDONLY)
	if err != nil {
		return false
	}
	if closer, ok := f.(io.Closer); ok {
		closer.Close()
	}
	return true
}

func (d *diskfsStream) GetSubStreamByName(name string) (streamio.Stream, error) {
	f, err := d.fs.OpenFile("/"+name, os.O_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("container: open substream %q: %w", name, err)
	}
	defer func() {
		if closer, ok := f.(io.Closer); ok {
			closer.Close()
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("container: read substream %q: %w", name, err)
	}
	return streamio.NewFlatStream(bytesReaderAt(data), int64(len(data))), nil
}

// bytesReaderAt is a minimal io.ReaderAt over an in-memory byte slice,
// used because substreams are read fully into memory once opened (they
// are small per-document content streams, not multi-gigabyte volumes).
type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b)) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
