// Package reqline parses and validates the HTTP/1.1 request-line: method,
// request-target (with form classification), and version, per RFC 9112
// §3. It is grounded on the pack's own protocol/http1 parser's method and
// protocol scanning, generalized to the zero-copy Span model: nothing here
// ever copies request-line bytes, it only ever records offsets into the
// caller's buffer.
package reqline

import (
	"github.com/stephendliang/http11opt/httperr"
	"github.com/stephendliang/http11opt/internal/ascii"
	"github.com/stephendliang/http11opt/internal/scan"
	"github.com/stephendliang/http11opt/span"
)

// Result carries everything parsing one request-line produces.
type Result struct {
	Method     span.Span
	Target     span.Span
	TargetForm TargetForm
	Version    uint16
}

// TargetForm mirrors httpparse.TargetForm without importing the root
// package (which itself will import reqline), following the pack's own
// leaf-package layering: leaf packages define the vocabulary, the root
// package re-exports it.
type TargetForm uint8

const (
	FormUnknown TargetForm = iota
	FormOrigin
	FormAbsolute
	FormAuthority
	FormAsterisk
)

// Scan locates the request-line's terminator within data — CRLF always,
// and in tolerant mode (strictCRLF false) a bare LF too. It returns the
// line length (excluding the terminator) and the terminator's length, or,
// if no terminator is present yet, whether the caller should wait for more
// data or fail with RequestLineTooLong.
func Scan(data []byte, maxLen int, strictCRLF bool) (lineLen int, termLen int, err error) {
	pos, tlen := scan.FindLineEnd(data, strictCRLF)
	if pos == scan.NotFound {
		if len(data) >= maxLen {
			return 0, 0, httperr.ErrRequestLineTooLong
		}
		return 0, 0, httperr.ErrNeedMoreData
	}
	if pos > maxLen {
		return 0, 0, httperr.ErrRequestLineTooLong
	}
	return pos, tlen, nil
}

// Parse validates and extracts method/target/version from line, which must
// be the request-line bytes without the trailing terminator. lineOff is
// line's offset within the shared input buffer, so returned Spans are
// absolute. On failure, the returned offset is the absolute byte offset of
// the offending byte within the shared buffer.
func Parse(line []byte, lineOff int, tolerateSpaces bool) (Result, int, error) {
	var res Result

	methodEnd := indexSP(line)
	if methodEnd <= 0 {
		return res, lineOff, httperr.ErrInvalidMethod
	}
	for i := 0; i < methodEnd; i++ {
		if !ascii.IsTchar(line[i]) {
			return res, lineOff + i, httperr.ErrInvalidMethod
		}
	}
	res.Method = span.New(lineOff, lineOff+methodEnd)

	rest := line[methodEnd:]
	skip := skipSP(rest, tolerateSpaces)
	if skip == 0 {
		return res, lineOff + methodEnd, httperr.ErrInvalidMethod
	}
	rest = rest[skip:]
	targetOff := lineOff + methodEnd + skip

	targetEnd := indexSP(rest)
	if targetEnd <= 0 {
		return res, targetOff, httperr.ErrInvalidTarget
	}
	target := rest[:targetEnd]
	for i, c := range target {
		if c <= 0x20 || c == 0x7f {
			return res, targetOff + i, httperr.ErrInvalidTarget
		}
	}
	form, badOff, err := classifyTarget(target, targetOff)
	if err != nil {
		return res, badOff, err
	}
	res.Target = span.New(targetOff, targetOff+targetEnd)
	res.TargetForm = form

	afterTargetOff := targetOff + targetEnd
	rest = rest[targetEnd:]
	skip = skipSP(rest, tolerateSpaces)
	if skip == 0 {
		return res, afterTargetOff, httperr.ErrInvalidVersion
	}
	rest = rest[skip:]
	verOff := afterTargetOff + skip

	version, verLen, badOff, err := parseVersion(rest, verOff)
	if err != nil {
		return res, badOff, err
	}
	res.Version = version

	trailing := rest[verLen:]
	trailingOff := verOff + verLen
	if tolerateSpaces {
		n := skipSP(trailing, true)
		trailing = trailing[n:]
		trailingOff += n
	}
	if len(trailing) != 0 {
		return res, trailingOff, httperr.ErrInvalidVersion
	}

	return res, 0, nil
}

func indexSP(b []byte) int {
	return scan.FindByte(b, ' ')
}

// skipSP consumes one SP, or in tolerant mode a run of SP/HTAB.
func skipSP(b []byte, tolerate bool) int {
	if len(b) == 0 || b[0] != ' ' {
		return 0
	}
	if !tolerate {
		return 1
	}
	n := 0
	for n < len(b) && (b[n] == ' ' || b[n] == '\t') {
		n++
	}
	return n
}

// parseVersion expects the exact 8-byte "HTTP/1.x" sequence at the start
// of b (case-sensitive prefix), returning the packed version and the
// number of bytes consumed (always 8 on success). base is the absolute
// offset of b[0], used to report a byte-accurate offset on failure.
func parseVersion(b []byte, base int) (uint16, int, int, error) {
	const prefix = "HTTP/"
	if len(b) < 8 {
		return 0, 0, base, httperr.ErrInvalidVersion
	}
	if string(b[:5]) != prefix {
		return 0, 0, base, httperr.ErrInvalidVersion
	}
	major, minor := b[5], b[7]
	if b[6] != '.' {
		return 0, 0, base + 6, httperr.ErrInvalidVersion
	}
	if !ascii.IsDigit(major) {
		return 0, 0, base + 5, httperr.ErrInvalidVersion
	}
	if !ascii.IsDigit(minor) {
		return 0, 0, base + 7, httperr.ErrInvalidVersion
	}
	if major != '1' {
		return 0, 0, base + 5, httperr.ErrInvalidVersion
	}
	return uint16(major-'0')<<8 | uint16(minor-'0'), 8, 0, nil
}

// classifyTarget determines the request-target form of t and validates it.
// base is the absolute offset of t[0], threaded through to report a
// byte-accurate offset on failure.
func classifyTarget(t []byte, base int) (TargetForm, int, error) {
	switch {
	case len(t) == 1 && t[0] == '*':
		return FormAsterisk, 0, nil
	case t[0] == '/':
		if off, err := validateOriginForm(t, base); err != nil {
			return FormUnknown, off, err
		}
		return FormOrigin, 0, nil
	case looksAbsolute(t):
		if off, err := validateAbsoluteForm(t, base); err != nil {
			return FormUnknown, off, err
		}
		return FormAbsolute, 0, nil
	default:
		if off, err := validateAuthorityForm(t, base); err != nil {
			return FormUnknown, off, err
		}
		return FormAuthority, 0, nil
	}
}

// looksAbsolute reports whether t begins with a URI scheme followed by
// "://": ALPHA then ALPHA/DIGIT/'+'/'-'/'.', per RFC 3986 §3.1.
func looksAbsolute(t []byte) bool {
	i := 0
	if i >= len(t) || !isAlpha(t[i]) {
		return false
	}
	i++
	for i < len(t) && (isAlpha(t[i]) || ascii.IsDigit(t[i]) || t[i] == '+' || t[i] == '-' || t[i] == '.') {
		i++
	}
	return i+2 < len(t) && t[i] == ':' && t[i+1] == '/' && t[i+2] == '/'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// validateOriginForm checks an absolute-path [ "?" query ] target: reject
// '#' anywhere, reject CTL/SP (already excluded by the caller), require
// well-formed percent-encoding, and restrict bytes to the URI character
// set (plus '/' and '?' in the query section). base is the absolute offset
// of t[0].
func validateOriginForm(t []byte, base int) (int, error) {
	inQuery := false
	for i := 0; i < len(t); i++ {
		c := t[i]
		switch {
		case c == '#':
			return base + i, httperr.ErrInvalidTarget
		case c == '?':
			inQuery = true
		case c == '%':
			if i+2 >= len(t) || !ascii.IsHexdig(t[i+1]) || !ascii.IsHexdig(t[i+2]) {
				return base + i, httperr.ErrInvalidTarget
			}
			i += 2
		case ascii.IsURIChar(c):
			// ok
		case inQuery && ascii.IsQueryExtra(c):
			// ok
		default:
			return base + i, httperr.ErrInvalidTarget
		}
	}
	return 0, nil
}

// validateAbsoluteForm requires a non-empty authority following the
// "scheme://" prefix, rejects '#' and malformed percent-encoding anywhere
// in the target, validates the authority as host[:port], and applies the
// origin-form rules to the path and query. base is the absolute offset of
// t[0].
func validateAbsoluteForm(t []byte, base int) (int, error) {
	schemeEnd := indexOfTriple(t, ':', '/', '/')
	authority := t[schemeEnd+3:]
	authorityBase := base + schemeEnd + 3
	var pathAndQuery []byte
	pathBase := 0
	if end := indexByte(authority, '/'); end != -1 {
		pathAndQuery = authority[end:]
		pathBase = authorityBase + end
		authority = authority[:end]
	}
	if len(authority) == 0 {
		return authorityBase, httperr.ErrInvalidTarget
	}
	for i := 0; i < len(authority); i++ {
		switch authority[i] {
		case '#':
			return authorityBase + i, httperr.ErrInvalidTarget
		case '%':
			if i+2 >= len(authority) || !ascii.IsHexdig(authority[i+1]) || !ascii.IsHexdig(authority[i+2]) {
				return authorityBase + i, httperr.ErrInvalidTarget
			}
		}
	}
	if off, err := validateHostPort(authority, authorityBase); err != nil {
		return off, httperr.ErrInvalidTarget
	}
	if pathAndQuery != nil {
		if off, err := validateOriginForm(pathAndQuery, pathBase); err != nil {
			return off, err
		}
	}
	return 0, nil
}

// validateAuthorityForm validates a CONNECT-style "host:port" target.
func validateAuthorityForm(t []byte, base int) (int, error) {
	return validateHostPort(t, base)
}

// validateHostPort validates host[:port], accepting a bracketed IPv6
// literal for host. base is the absolute offset of hp[0].
func validateHostPort(hp []byte, base int) (int, error) {
	if len(hp) == 0 {
		return base, httperr.ErrInvalidTarget
	}
	if hp[0] == '[' {
		end := indexByte(hp, ']')
		if end == -1 {
			return base, httperr.ErrInvalidTarget
		}
		for i, c := range hp[1:end] {
			if !ascii.IsHexdig(c) && c != ':' && c != '.' {
				return base + 1 + i, httperr.ErrInvalidTarget
			}
		}
		rest := hp[end+1:]
		if len(rest) == 0 {
			return 0, nil
		}
		if rest[0] != ':' {
			return base + end + 1, httperr.ErrInvalidTarget
		}
		return validatePort(rest[1:], base+end+2)
	}

	colon := indexByte(hp, ':')
	host := hp
	var port []byte
	portBase := 0
	if colon != -1 {
		host = hp[:colon]
		port = hp[colon+1:]
		portBase = base + colon + 1
	}
	for i, c := range host {
		if c <= 0x20 || c == 0x7f {
			return base + i, httperr.ErrInvalidTarget
		}
	}
	if port != nil {
		return validatePort(port, portBase)
	}
	return 0, nil
}

func validatePort(p []byte, base int) (int, error) {
	if len(p) == 0 {
		return base, httperr.ErrInvalidTarget
	}
	value := 0
	for i, c := range p {
		if !ascii.IsDigit(c) {
			return base + i, httperr.ErrInvalidTarget
		}
		value = value*10 + int(c-'0')
		if value > 65535 {
			return base + i, httperr.ErrInvalidTarget
		}
	}
	return 0, nil
}

func indexByte(b []byte, c byte) int {
	return scan.FindByte(b, c)
}

func indexOfTriple(b []byte, a, c, d byte) int {
	for i := 0; i+2 < len(b); i++ {
		if b[i] == a && b[i+1] == c && b[i+2] == d {
			return i
		}
	}
	return -1
}
