package streamio

import "errors"

// ErrEndOfStream is returned whenever a read asks for more bytes than the
// stream has remaining. It is always fatal to the current parse.
var ErrEndOfStream = errors.New("streamio: end of stream")

// ErrSeekFailed is returned when a seek lands outside the stream's bounds.
var ErrSeekFailed = errors.New("streamio: seek failed")

// Generic wraps a structural or semantic validation failure (bad
// signature, bad object size, an out-of-range count, a missing required
// object, a malformed bounding box) with a short message. It is always
// fatal to the current parse, same as ErrEndOfStream, but carries context
// for debug logging.
type Generic struct {
	Msg string
}

func (e *Generic) Error() string { return "zmf: " + e.Msg }

// NewGeneric builds a *Generic error with the given message.
func NewGeneric(msg string) error { return &Generic{Msg: msg} }
