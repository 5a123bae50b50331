package httpparse

import (
	"github.com/stephendliang/http11opt/internal/strutil"
	"github.com/stephendliang/http11opt/span"
)

func newRequest() *Request {
	r := &Request{}
	r.resetFields()
	return r
}

func (r *Request) resetFields() {
	r.Method = span.Zero
	r.Target = span.Zero
	r.ContentLength = 0
	r.HeaderCount = 0
	r.TrailerCount = 0
	r.Version = 0
	r.TargetForm = FormUnknown
	r.BodyType = BodyNone
	r.Flags = 0
	for i := range r.KnownIdx {
		r.KnownIdx[i] = SentinelIdx
	}
	r.Headers = r.Headers[:0]
	r.Trailers = r.Trailers[:0]
}

// HasFlag reports whether every bit in f is set on the request's flags.
func (r *Request) HasFlag(f ReqFlag) bool {
	return r.Flags&f == f
}

func (r *Request) setFlag(f ReqFlag) {
	r.Flags |= f
}

func (r *Request) clearFlag(f ReqFlag) {
	r.Flags &^= f
}

// FindHeader returns the index into r.Headers of the first header whose
// name case-insensitively equals name (resolved against base), or -1.
func FindHeader(r *Request, base []byte, name string) int {
	for i := range r.Headers {
		if strutil.EqualFold(r.Headers[i].Name.Str(base), name) {
			return i
		}
	}
	return -1
}

// HeaderNameEq reports whether the header name at h.Name (resolved
// against base) case-insensitively equals name.
func HeaderNameEq(h Header, base []byte, name string) bool {
	return strutil.EqualFold(h.Name.Str(base), name)
}

// Header looks up a known header by NameID using KnownIdx, returning its
// record and whether it was present.
func (r *Request) Header(id NameID) (Header, bool) {
	if id == NameOther || int(id) > len(r.KnownIdx) {
		return Header{}, false
	}
	idx := r.KnownIdx[id-1]
	if idx == SentinelIdx {
		return Header{}, false
	}
	return r.Headers[idx], true
}

// ConnectionTokens resolves the comma-separated token list of the first
// Connection header, if any, as Spans into base. This is a supplemental
// accessor surfacing the hop-by-hop tokens the header parser already
// scans while updating KEEP_ALIVE bookkeeping.
func (r *Request) ConnectionTokens(base []byte) []span.Span {
	h, ok := r.Header(NameConnection)
	if !ok {
		return nil
	}
	return splitTokens(h.Value.Bytes(base), h.Value.Off)
}

// splitTokens splits a comma-separated header value into OWS-trimmed
// token Spans, offset relative to valueOff within the shared input buffer.
func splitTokens(value []byte, valueOff uint32) []span.Span {
	var tokens []span.Span
	start := 0
	for i := 0; i <= len(value); i++ {
		if i == len(value) || value[i] == ',' {
			segStart, segEnd := start, i
			for segStart < segEnd && isOWSByte(value[segStart]) {
				segStart++
			}
			for segEnd > segStart && isOWSByte(value[segEnd-1]) {
				segEnd--
			}
			if segEnd > segStart {
				off := valueOff + uint32(segStart)
				tokens = append(tokens, span.New(int(off), int(off)+(segEnd-segStart)))
			}
			start = i + 1
		}
	}
	return tokens
}

func isOWSByte(c byte) bool {
	return c == ' ' || c == '\t'
}
