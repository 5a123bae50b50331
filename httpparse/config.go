// Package httpparse is the top-level entry point: it holds Config, the
// Request/Header data model, and the Parser state machine driving
// request-line, header, body and trailer parsing.
package httpparse

// Config holds every limit and behavioural switch the parser consults.
// Follow the same discipline as the pack's own config package: never
// build a Config by hand, always start from Default() and override
// individual fields.
type Config struct {
	Limits Limits
	Strict Strictness
}

// Limits bounds every growable section of a request, mirroring the pack's
// Headers.Number / Headers.Space split between count-based and byte-based
// ceilings.
type Limits struct {
	// MaxRequestLineLen bounds the method + target + version line, in bytes.
	MaxRequestLineLen int
	// MaxHeaderLineLen bounds a single header field line, in bytes.
	MaxHeaderLineLen int
	// MaxHeadersSize bounds the accumulated size of the header section.
	MaxHeadersSize int
	// MaxHeaderCount bounds the number of header fields in one section.
	MaxHeaderCount int
	// MaxBodySize bounds the total body length. Zero means unbounded.
	MaxBodySize uint64
	// MaxChunkExtLen bounds the chunk-extensions portion of a chunk-size line.
	MaxChunkExtLen int
	// MaxTrailerCount bounds the number of trailer fields after chunked data.
	MaxTrailerCount int
}

// Strictness toggles RFC-conformance behaviours that real-world traffic
// occasionally violates.
type Strictness struct {
	// StrictCRLF rejects bare LF where CRLF is required.
	StrictCRLF bool
	// RejectObsFold rejects the obsolete line-folding syntax outright.
	// When off, a folded continuation line is skipped (counted toward the
	// header size but not merged into the previous value).
	RejectObsFold bool
	// AllowObsText permits obs-text (0x80-0xFF) inside header field values.
	AllowObsText bool
	// AllowLeadingCRLF tolerates a leading CRLF before the request-line, per
	// RFC 9112 §2.2's robustness recommendation.
	AllowLeadingCRLF bool
	// TolerateSpaces relaxes the single-SP requirement between request-line
	// components to accept runs of OWS. Off by default: RFC 9112 requires a
	// single SP and recommends rejecting more.
	TolerateSpaces bool
	// RejectTEAndCL rejects a message carrying both Transfer-Encoding and
	// Content-Length, per RFC 9112 §6.3's smuggling-hardening guidance.
	RejectTEAndCL bool
}

// Default returns a well-balanced configuration. Defaults are chosen
// conservatively per RFC 9112 recommendations rather than permissively.
func Default() *Config {
	return &Config{
		Limits: Limits{
			MaxRequestLineLen: 8 * 1024,
			MaxHeaderLineLen:  8 * 1024,
			MaxHeadersSize:    64 * 1024,
			MaxHeaderCount:    100,
			MaxBodySize:       0, // unbounded
			MaxChunkExtLen:    1024,
			MaxTrailerCount:   32,
		},
		Strict: Strictness{
			StrictCRLF:       true,
			RejectObsFold:    true,
			AllowObsText:     true,
			AllowLeadingCRLF: true,
			TolerateSpaces:   false,
			RejectTEAndCL:    true,
		},
	}
}
