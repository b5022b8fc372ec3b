// Package zmf is the public façade for reading legacy Zoner Draw/Callisto
// (Zoner-4), Zoner Zebra and Zoner Bitmap (BMI) documents. It detects which
// of the three formats a stream carries and drives a caller-supplied sink
// through the document it describes.
package zmf

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/zoner-draw/zmf/internal/bmi"
	"github.com/zoner-draw/zmf/internal/collector"
	"github.com/zoner-draw/zmf/internal/streamio"
	"github.com/zoner-draw/zmf/internal/zbr"
	"github.com/zoner-draw/zmf/internal/zoner4"
)

// Kind identifies which of the three supported formats a stream carries.
type Kind int

const (
	KindUnknown Kind = iota
	KindZoner4
	KindBMI
	KindZebra
)

func (k Kind) String() string {
	switch k {
	case KindZoner4:
		return "zoner4"
	case KindBMI:
		return "bmi"
	case KindZebra:
		return "zebra"
	default:
		return "unknown"
	}
}

// Detection is the result of probing a stream: whether it is supported,
// and if so which format it carries.
type Detection struct {
	Supported bool
	Kind      Kind
}

// Stream is the caller-supplied input: a random-access byte source,
// optionally a structured container exposing named substreams (see
// internal/container for the diskfs-backed adaptor).
type Stream = streamio.Stream

// Sink is the caller-supplied drawing target every recognized document is
// translated into.
type Sink = collector.Sink

// Options configures detection and parsing.
type Options struct {
	Logger logrus.FieldLogger
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	return logrus.StandardLogger()
}

// contentStreamName is the fixed substream name probed inside a
// structured container, matching the original format family's own
// container convention.
const contentStreamName = "content.zmf"

// resolveContentStream returns the flat stream content should actually be
// probed against: s itself when unstructured, or its single named
// substream when structured. A structured container lacking that
// substream is never supported.
func resolveContentStream(s Stream) (Stream, bool, error) {
	if !s.IsStructured() {
		return s, true, nil
	}
	if !s.ExistsSubStream(contentStreamName) {
		return nil, false, nil
	}
	sub, err := s.GetSubStreamByName(contentStreamName)
	if err != nil {
		return nil, false, err
	}
	return sub, true, nil
}

// IsSupported probes s and reports whether it is a recognized document,
// and if so which format it carries. A flat stream is probed as Zoner-4,
// then BMI, then Zebra; a structured container's content substream is
// probed as Zoner-4 only. Detection failure is reported through
// Detection.Supported, mirroring the "swallow every parse exception and
// answer false" contract of the format this was distilled from; a non-nil
// error accompanies it only when the content substream cannot be opened,
// when a ctx carrying a deadline is already done, or when a panic was
// recovered.
func IsSupported(ctx context.Context, s Stream, opts Options) (det Detection, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("zmf: panic during detection: %v", r)
		}
	}()

	content, ok, err := resolveContentStream(s)
	if err != nil || !ok {
		return Detection{}, err
	}

	log := opts.logger()
	r := streamio.NewReader(content)

	if _, ok := ctx.Deadline(); ok && ctx.Err() != nil {
		return Detection{}, ctx.Err()
	}

	if err := r.Seek(0); err == nil {
		if _, loadErr := zoner4.Load(r); loadErr == nil {
			return Detection{Supported: true, Kind: KindZoner4}, nil
		}
	}

	if !s.IsStructured() {
		if err := r.Seek(0); err == nil {
			if h, loadErr := bmi.Load(r); loadErr == nil && h.IsSupported() {
				return Detection{Supported: true, Kind: KindBMI}, nil
			}
		}

		if err := r.Seek(0); err == nil {
			if h, loadErr := zbr.Load(r); loadErr == nil && h.IsSupported() {
				return Detection{Supported: true, Kind: KindZebra}, nil
			}
		}
	}

	log.Debug("zmf: stream did not match zoner4, bmi or zebra")
	return Detection{}, nil
}

// Parse detects s's format and drives sink through the document it
// describes. It reports (false, nil) for a structurally well-formed but
// unrecognized stream, and recovers from parser panics into a returned
// error rather than propagating them.
func Parse(ctx context.Context, s Stream, sink Sink, opts Options) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("zmf: panic during parse: %v", r)
		}
	}()

	content, exists, err := resolveContentStream(s)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	det, err := IsSupported(ctx, s, opts)
	if err != nil || !det.Supported {
		return false, err
	}

	log := opts.logger()
	r := streamio.NewReader(content)
	if err := r.Seek(0); err != nil {
		return false, err
	}

	c := collector.New(sink)
	defer c.Close()

	switch det.Kind {
	case KindZoner4:
		return zoner4.NewParser(r, c, zoner4.Options{Logger: log}).Parse()
	case KindBMI:
		return bmi.NewParser(r, log).Parse(c)
	case KindZebra:
		return zbr.NewParser(r, log).Parse(c)
	default:
		return false, nil
	}
}
