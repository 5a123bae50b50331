package httpparse

import "github.com/stephendliang/http11opt/span"

// NameID identifies one of the six headers whose semantics this parser
// itself interprets, or NameOther for everything else.
type NameID uint16

const (
	NameOther NameID = iota
	NameHost
	NameContentLength
	NameTransferEncoding
	NameConnection
	NameExpect
	NameUpgrade

	knownNameCount = NameUpgrade
)

// HeaderFlag is a bitfield carried per Header record.
type HeaderFlag uint16

const (
	FlagKnownName HeaderFlag = 1 << iota
)

// Header is one name/value pair as it appeared on the wire: both name and
// value are Spans into the caller's input buffer, never copied.
type Header struct {
	Name   span.Span
	Value  span.Span
	NameID NameID
	Flags  HeaderFlag
}

// SentinelIdx marks "no header of this kind has been stored" in
// Request.KnownIdx.
const SentinelIdx = -1

// TargetForm classifies the request-target per RFC 9112 §3.2.
type TargetForm uint8

const (
	FormUnknown TargetForm = iota
	FormOrigin
	FormAbsolute
	FormAuthority
	FormAsterisk
)

func (f TargetForm) String() string {
	switch f {
	case FormOrigin:
		return "origin"
	case FormAbsolute:
		return "absolute"
	case FormAuthority:
		return "authority"
	case FormAsterisk:
		return "asterisk"
	default:
		return "unknown"
	}
}

// BodyType is the framing decision made at finalize time.
type BodyType uint8

const (
	BodyNone BodyType = iota
	BodyContentLength
	BodyChunked
)

// ReqFlag is a bitfield carried on Request.
type ReqFlag uint32

const (
	FlagKeepAlive ReqFlag = 1 << iota
	FlagExpectContinue
	FlagHasUpgrade
	FlagHasHost
	FlagHasContentLength
	FlagHasTransferEncoding
	FlagIsChunked
)

// Request is one fully- or partially-parsed HTTP/1.1 request message.
// Every text field is a Span; resolving it to bytes requires the input
// buffer the parser was last handed.
type Request struct {
	Method span.Span
	Target span.Span

	ContentLength uint64
	HeaderCount   int
	TrailerCount  int

	// Version packs major in the high byte, minor in the low byte, e.g.
	// 0x0101 for HTTP/1.1.
	Version uint16

	TargetForm TargetForm
	BodyType   BodyType
	Flags      ReqFlag

	// KnownIdx[k] is the index into Headers of the first occurrence of
	// known header k, or SentinelIdx if absent. Indexed by NameID-1.
	KnownIdx [knownNameCount]int

	Headers  []Header
	Trailers []Header
}
