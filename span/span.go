// Package span defines the zero-copy view type used throughout the parser.
//
// A Span never owns bytes. It names a byte range of whatever buffer the
// caller most recently handed to the parser. Resolving one requires the
// base slice the offsets were computed against — exactly the buffer that
// was live at the moment the span was produced.
package span

import "github.com/flrdv/uf"

// Span is an (offset, length) pair into a caller-owned buffer.
//
// The 32-bit fields intentionally mirror the packed representation used by
// the parsers this package was modeled after: eight bytes total, cheap to
// copy, cheap to store in a flat slice of headers.
type Span struct {
	Off uint32
	Len uint32
}

// Zero is the empty span. It is a valid, resolvable span of length 0 — not
// a sentinel for "absent".
var Zero = Span{}

// New builds a Span from a half-open [start, end) range.
func New(start, end int) Span {
	return Span{Off: uint32(start), Len: uint32(end - start)}
}

// Bytes resolves the span against base, returning a sub-slice. The caller
// must supply the same buffer (or one sharing the same backing bytes over
// this range) that was passed to the parser call which produced the span.
func (s Span) Bytes(base []byte) []byte {
	return base[s.Off : s.Off+s.Len]
}

// Str resolves the span as a string without copying, via an unsafe cast
// over the returned sub-slice. It must not outlive base, and base must
// not be mutated afterward.
func (s Span) Str(base []byte) string {
	return uf.B2S(s.Bytes(base))
}

// Empty reports whether the span names zero bytes.
func (s Span) Empty() bool {
	return s.Len == 0
}

// End returns the offset one past the span's last byte.
func (s Span) End() uint32 {
	return s.Off + s.Len
}
