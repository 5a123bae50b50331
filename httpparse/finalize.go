package httpparse

import (
	"github.com/stephendliang/http11opt/httperr"
	"github.com/stephendliang/http11opt/internal/ascii"
	"github.com/stephendliang/http11opt/internal/strutil"
)

// finalize runs exactly once, when the blank line terminating the header
// section is consumed. It validates Host, Content-Length and
// Transfer-Encoding, resolves the TE/CL conflict, makes the framing
// decision, and checks method/target-form compatibility.
func (p *Parser) finalize(base []byte) error {
	if err := p.finalizeHost(base); err != nil {
		return err
	}
	if err := p.finalizeContentLength(base); err != nil {
		return err
	}
	if err := p.finalizeTransferEncoding(base); err != nil {
		return err
	}

	hasTE := p.req.HasFlag(FlagHasTransferEncoding)
	hasCL := p.req.HasFlag(FlagHasContentLength)
	switch {
	case hasTE && hasCL:
		if p.cfg.Strict.RejectTEAndCL {
			return httperr.ErrTECLConflict
		}
		p.req.BodyType = BodyChunked
		p.req.clearFlag(FlagKeepAlive)
	case hasTE:
		p.req.BodyType = BodyChunked
	case hasCL:
		p.req.BodyType = BodyContentLength
	default:
		p.req.BodyType = BodyNone
	}

	return p.checkMethodFormCompat(base)
}

func (p *Parser) finalizeHost(base []byte) error {
	count := 0
	var hostVal []byte
	for i := range p.req.Headers {
		if p.req.Headers[i].NameID == NameHost {
			count++
			if count == 1 {
				hostVal = p.req.Headers[i].Value.Bytes(base)
			}
		}
	}
	if count > 1 {
		return httperr.ErrMultipleHost
	}
	if count == 0 {
		if p.req.Version >= 0x0101 {
			return httperr.ErrMissingHost
		}
		return nil
	}
	return validateHostValue(hostVal, p.req.TargetForm)
}

func validateHostValue(host []byte, form TargetForm) error {
	if len(host) == 0 {
		// Preserves the source's weaker-than-RFC behavior for absolute-form
		// targets: an empty Host is accepted regardless of whether the
		// target carries an authority. See DESIGN.md open question #1.
		return nil
	}
	if host[0] == '[' {
		end := -1
		for i := 1; i < len(host); i++ {
			if host[i] == ']' {
				end = i
				break
			}
		}
		if end == -1 {
			return httperr.ErrInvalidHost
		}
		for _, c := range host[1:end] {
			if !ascii.IsHexdig(c) && c != ':' && c != '.' {
				return httperr.ErrInvalidHost
			}
		}
		rest := host[end+1:]
		if len(rest) == 0 {
			return nil
		}
		if rest[0] != ':' {
			return httperr.ErrInvalidHost
		}
		return validateHostPort(rest[1:])
	}

	colon := -1
	for i, c := range host {
		if c == ':' {
			colon = i
			break
		}
	}
	hostname := host
	var port []byte
	if colon != -1 {
		hostname = host[:colon]
		port = host[colon+1:]
	}
	for _, c := range hostname {
		if c <= 0x20 || c == 0x7f {
			return httperr.ErrInvalidHost
		}
	}
	if port != nil {
		return validateHostPort(port)
	}
	return nil
}

func validateHostPort(p []byte) error {
	if len(p) == 0 {
		return httperr.ErrInvalidHost
	}
	value := 0
	for _, c := range p {
		if !ascii.IsDigit(c) {
			return httperr.ErrInvalidHost
		}
		value = value*10 + int(c-'0')
		if value > 65535 {
			return httperr.ErrInvalidHost
		}
	}
	return nil
}

func (p *Parser) finalizeContentLength(base []byte) error {
	var value uint64
	set := false
	for i := range p.req.Headers {
		if p.req.Headers[i].NameID != NameContentLength {
			continue
		}
		v, err := parseContentLengthValue(p.req.Headers[i].Value.Bytes(base))
		if err != nil {
			return err
		}
		if !set {
			value = v
			set = true
		} else if v != value {
			return httperr.ErrMultipleContentLength
		}
	}
	if !set {
		return nil
	}
	if p.cfg.Limits.MaxBodySize != 0 && value > p.cfg.Limits.MaxBodySize {
		return httperr.ErrBodyTooLarge
	}
	p.req.ContentLength = value
	return nil
}

// parseContentLengthValue parses a single Content-Length field value,
// which may itself be a comma-separated list of equal values per RFC
// 9112 §6.3, tolerating surrounding OWS around each element.
func parseContentLengthValue(raw []byte) (uint64, error) {
	var first uint64
	haveFirst := false
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == ',' {
			seg := trimOWSBytes(raw[start:i])
			if len(seg) == 0 {
				return 0, httperr.ErrInvalidContentLength
			}
			v, err := parseUint64Digits(seg)
			if err != nil {
				return 0, err
			}
			if !haveFirst {
				first = v
				haveFirst = true
			} else if v != first {
				return 0, httperr.ErrMultipleContentLength
			}
			start = i + 1
		}
	}
	return first, nil
}

func parseUint64Digits(b []byte) (uint64, error) {
	const maxU64 = ^uint64(0)
	var r uint64
	if len(b) == 0 {
		return 0, httperr.ErrInvalidContentLength
	}
	for _, c := range b {
		if !ascii.IsDigit(c) {
			return 0, httperr.ErrInvalidContentLength
		}
		d := uint64(c - '0')
		if r > (maxU64-d)/10 {
			return 0, httperr.ErrContentLengthOverflow
		}
		r = r*10 + d
	}
	return r, nil
}

func trimOWSBytes(b []byte) []byte {
	start := 0
	for start < len(b) && (b[start] == ' ' || b[start] == '\t') {
		start++
	}
	end := len(b)
	for end > start && (b[end-1] == ' ' || b[end-1] == '\t') {
		end--
	}
	return b[start:end]
}

var (
	codingChunked = []byte("chunked")
	codingNames   = [][]byte{codingChunked, []byte("gzip"), []byte("deflate"), []byte("compress"), []byte("identity")}
)

func isKnownCoding(tok []byte) bool {
	for _, name := range codingNames {
		if strutil.EqualFoldBytes(tok, name) {
			return true
		}
	}
	return false
}

func (p *Parser) finalizeTransferEncoding(base []byte) error {
	if !p.req.HasFlag(FlagHasTransferEncoding) {
		return nil
	}

	var lastToken []byte
	sawAny := false
	for i := range p.req.Headers {
		if p.req.Headers[i].NameID != NameTransferEncoding {
			continue
		}
		value := p.req.Headers[i].Value.Bytes(base)
		start := 0
		for j := 0; j <= len(value); j++ {
			if j == len(value) || value[j] == ',' {
				tok := trimOWSBytes(value[start:j])
				start = j + 1
				if len(tok) == 0 {
					continue
				}
				name, param, hasParam := splitCodingParam(tok)
				for _, c := range name {
					if !ascii.IsTchar(c) {
						return httperr.ErrInvalidTransferEncoding
					}
				}
				if strutil.EqualFoldBytes(name, codingChunked) && hasParam {
					return httperr.ErrInvalidTransferEncoding
				}
				_ = param
				if !isKnownCoding(name) {
					return httperr.ErrUnknownTransferCoding
				}
				lastToken = name
				sawAny = true
			}
		}
	}
	if !sawAny {
		return httperr.ErrInvalidTransferEncoding
	}
	if !strutil.EqualFoldBytes(lastToken, codingChunked) {
		return httperr.ErrTENotChunkedFinal
	}
	p.req.setFlag(FlagIsChunked)
	return nil
}

// splitCodingParam splits a transfer-coding token at its first ';', which
// introduces a coding parameter (only meaningful for compression codings;
// "chunked" must never carry one, checked by the caller).
func splitCodingParam(tok []byte) (name, param []byte, hasParam bool) {
	for i, c := range tok {
		if c == ';' {
			return trimOWSBytes(tok[:i]), tok[i+1:], true
		}
	}
	return tok, nil, false
}

var (
	methodConnect = []byte("CONNECT")
	methodOptions = []byte("OPTIONS")
)

func (p *Parser) checkMethodFormCompat(base []byte) error {
	method := p.req.Method.Bytes(base)
	isConnect := strutil.EqualFoldBytes(method, methodConnect)
	isOptions := strutil.EqualFoldBytes(method, methodOptions)

	switch p.req.TargetForm {
	case FormAuthority:
		if !isConnect {
			return httperr.ErrInvalidTarget
		}
	case FormAsterisk:
		if !isOptions {
			return httperr.ErrInvalidTarget
		}
	default:
		if isConnect {
			return httperr.ErrInvalidTarget
		}
	}
	return nil
}
