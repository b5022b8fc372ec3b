// Package zbr implements detection for the Zoner Zebra format. Only the
// header is specified here - Zebra's body record format is deliberately
// out of scope, the same way the source this was distilled from leaves it
// unimplemented, so Parse only ever emits an empty document.
package zbr

import (
	"github.com/sirupsen/logrus"

	"github.com/zoner-draw/zmf/internal/streamio"
)

// Signature is the fixed u16 tag at offset 0 of a Zebra stream.
const Signature = 0x029A

// MaxSupportedVersion is the exclusive upper bound on the version field;
// a Zebra stream with version >= 5 is not supported.
const MaxSupportedVersion = 5

// Header is the 104-byte Zebra header: a 2-byte signature, a 2-byte
// version, and 100 bytes this reader never interprets.
type Header struct {
	Signature uint16
	Version   uint16
}

// Load reads a Header at the stream's current position.
func Load(r *streamio.Reader) (Header, error) {
	var h Header
	sig, err := r.ReadU16()
	if err != nil {
		return h, err
	}
	ver, err := r.ReadU16()
	if err != nil {
		return h, err
	}
	if err := r.Skip(100); err != nil {
		return h, err
	}
	h.Signature = sig
	h.Version = ver
	return h, nil
}

// IsSupported reports whether h describes a Zebra stream this reader
// recognizes.
func (h Header) IsSupported() bool {
	return h.Signature == Signature && h.Version < MaxSupportedVersion
}

// Collector is the subset of the drawing-sink adaptor the Zebra parser
// needs: a bare document lifecycle, since the body is never decoded.
type Collector interface {
	StartDocument()
	EndDocument()
}

// Parser drives an empty Zebra document: detection succeeds, but since the
// record format is unspecified the parser only opens and closes the
// document.
type Parser struct {
	r    *streamio.Reader
	log  logrus.FieldLogger
}

// NewParser builds a Parser over r, logging through log (or the package
// default logger when log is nil).
func NewParser(r *streamio.Reader, log logrus.FieldLogger) *Parser {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Parser{r: r, log: log}
}

// Parse validates the header and, if supported, emits an empty document.
func (p *Parser) Parse(collector Collector) (bool, error) {
	if err := p.r.Seek(0); err != nil {
		return false, err
	}
	h, err := Load(p.r)
	if err != nil {
		return false, err
	}
	if !h.IsSupported() {
		return false, nil
	}
	p.log.WithField("version", h.Version).Debug("zbr: body parser unimplemented, emitting empty document")
	collector.StartDocument()
	collector.EndDocument()
	return true, nil
}
