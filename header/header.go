// Package header scans and validates individual HTTP header field lines:
// name/value split, OWS trimming, obs-fold detection, and byte-class
// validation, per RFC 9110 §5.6.2 and RFC 9112 §5. Grounded on the pack's
// header-line handling in internal/protocol/http1, generalized to the
// zero-copy Span model.
package header

import (
	"github.com/stephendliang/http11opt/httperr"
	"github.com/stephendliang/http11opt/internal/ascii"
	"github.com/stephendliang/http11opt/internal/scan"
	"github.com/stephendliang/http11opt/span"
)

// Line is one parsed header (or trailer) field.
type Line struct {
	Name  span.Span
	Value span.Span
}

// IsObsFold reports whether line begins with SP or HTAB, marking an
// obsolete folded continuation line per RFC 9112 §5.2.
func IsObsFold(line []byte) bool {
	return len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
}

// Parse splits line (without trailing CRLF) into name and value Spans,
// validating both against RFC 9110's tchar/VCHAR/obs-text rules. lineOff
// is line's offset within the shared input buffer.
func Parse(line []byte, lineOff int, allowObsText bool) (Line, error) {
	colon := scan.FindByte(line, ':')
	if colon <= 0 {
		return Line{}, httperr.ErrInvalidHeaderName
	}
	name := line[:colon]
	for _, c := range name {
		if !ascii.IsTchar(c) {
			return Line{}, httperr.ErrInvalidHeaderName
		}
	}

	rawValue := line[colon+1:]
	start := 0
	for start < len(rawValue) && isOWS(rawValue[start]) {
		start++
	}
	end := len(rawValue)
	for end > start && isOWS(rawValue[end-1]) {
		end--
	}
	value := rawValue[start:end]
	for _, c := range value {
		if isOWS(c) || ascii.IsVchar(c) {
			continue
		}
		if allowObsText && c >= 0x80 {
			continue
		}
		return Line{}, httperr.ErrInvalidHeaderValue
	}

	return Line{
		Name:  span.New(lineOff, lineOff+colon),
		Value: span.New(lineOff+colon+1+start, lineOff+colon+1+end),
	}, nil
}

func isOWS(c byte) bool {
	return c == ' ' || c == '\t'
}
