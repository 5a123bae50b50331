package httpparse

import (
	"github.com/stephendliang/http11opt/header"
	"github.com/stephendliang/http11opt/httperr"
	"github.com/stephendliang/http11opt/internal/headerlist"
	"github.com/stephendliang/http11opt/internal/scan"
	"github.com/stephendliang/http11opt/internal/strutil"
	"github.com/stephendliang/http11opt/reqline"
)

// Parser drives the request state machine. It is single-threaded and
// cooperative: it never blocks and never spawns goroutines, matching the
// scheduling model of the pack's own coroutine-style protocol handlers.
//
// Buffer contract: while state is REQUEST_LINE or HEADERS, every call to
// Parse must be given the full cumulative bytes of the message starting
// at the request-line's first byte — the same growing buffer, never a
// fresh one, because Method/Target/Header spans are (offset, length)
// pairs with no buffer identity of their own and must all resolve against
// one base. The same rule applies independently to TRAILERS: once
// BODY_CHUNKED_SIZE/BODY_CHUNKED_CRLF hand off into TRAILERS, that phase
// gets its own cumulative buffer (trailer spans resolve against whichever
// buffer was current when TRAILERS finished, not against the header
// buffer). Chunk-size and chunk-CRLF sub-states never store spans, so
// they impose no such requirement.
type Parser struct {
	cfg *Config
	req *Request

	state State

	lastErr   *httperr.Error
	errOffset int

	// cursor is how far into the CURRENT call's buffer processing has
	// safely advanced without yet being reported as consumed. It survives
	// a NEED_MORE_DATA return within the same buffer-contract phase and is
	// reset to 0 whenever real consumed progress is reported (signalling
	// the caller may start the next call's buffer at a new offset 0).
	cursor int

	headersSize  int
	trailersSize int

	bodyRemaining uint64
	totalBodyRead uint64

	headers  *headerlist.List[Header]
	trailers *headerlist.List[Header]
}

// New allocates a parser. A nil cfg applies Default().
func New(cfg *Config) *Parser {
	scan.CurrentLevel() // dispatch level is already selected by scan's package init
	if cfg == nil {
		cfg = Default()
	}
	p := &Parser{
		cfg:      cfg,
		req:      newRequest(),
		headers:  headerlist.New[Header](16, cfg.Limits.MaxHeaderCount),
		trailers: headerlist.New[Header](8, cfg.Limits.MaxTrailerCount),
	}
	return p
}

// Reset returns the parser to IDLE, preserving header/trailer buffer
// capacity, per the pack's request-object pooling idiom (ctx.Reset-style
// field zeroing without reallocating backing arrays).
func (p *Parser) Reset() {
	p.state = StateIdle
	p.lastErr = nil
	p.errOffset = 0
	p.cursor = 0
	p.headersSize = 0
	p.trailersSize = 0
	p.bodyRemaining = 0
	p.totalBodyRead = 0
	p.headers.Reset()
	p.trailers.Reset()
	p.req.resetFields()
}

// State returns the current driver state.
func (p *Parser) State() State { return p.state }

// GetRequest returns the parser's request object. Its fields are valid
// (and its Spans resolvable) according to the buffer contract documented
// on Parser.
func (p *Parser) GetRequest() *Request { return p.req }

// ErrorOffset returns the byte offset, within the buffer most recently
// supplied to Parse when the failure was detected, of the error latched
// in the ERROR state. Meaningless outside the ERROR state.
func (p *Parser) ErrorOffset() int { return p.errOffset }

// LastError returns the latched error, or nil if the parser is not in the
// ERROR state.
func (p *Parser) LastError() *httperr.Error { return p.lastErr }

func (p *Parser) fail(e *httperr.Error, at int) (int, error) {
	p.state = StateError
	p.lastErr = e
	p.errOffset = at
	p.cursor = 0
	return at, e
}

// Parse drives the state machine over data, per the buffer contract
// documented on Parser. It returns the number of bytes consumed and
// either nil, httperr.ErrNeedMoreData, or a latched *httperr.Error.
func (p *Parser) Parse(data []byte) (int, error) {
	if p.state == StateError {
		return 0, p.lastErr
	}
	if p.state == StateBodyIdentity || p.state == StateBodyChunkedData {
		return 0, nil
	}

	pos := p.cursor

	for {
		switch p.state {
		case StateIdle:
			p.state = StateRequestLine

		case StateRequestLine:
			if p.cfg.Strict.AllowLeadingCRLF {
				for pos+1 < len(data) && data[pos] == '\r' && data[pos+1] == '\n' {
					pos += 2
				}
			}
			lineLen, termLen, err := reqline.Scan(data[pos:], p.cfg.Limits.MaxRequestLineLen, p.cfg.Strict.StrictCRLF)
			if err != nil {
				if httperr.IsNeedMoreData(err) {
					p.cursor = pos
					return 0, err
				}
				return p.fail(err.(*httperr.Error), pos)
			}
			res, badOff, err := reqline.Parse(data[pos:pos+lineLen], pos, p.cfg.Strict.TolerateSpaces)
			if err != nil {
				return p.fail(err.(*httperr.Error), badOff)
			}
			p.req.Method = res.Method
			p.req.Target = res.Target
			p.req.TargetForm = TargetForm(res.TargetForm)
			p.req.Version = res.Version
			if p.req.Version&0xff >= 1 {
				p.req.setFlag(FlagKeepAlive)
			}
			pos += lineLen + termLen
			p.state = StateHeaders

		case StateHeaders:
			done, err := p.stepHeaders(data, &pos)
			if err != nil {
				if httperr.IsNeedMoreData(err) {
					p.cursor = pos
					return 0, err
				}
				return p.fail(err.(*httperr.Error), pos)
			}
			if !done {
				continue
			}
			if err := p.finalize(data); err != nil {
				return p.fail(err.(*httperr.Error), pos)
			}
			p.cursor = 0
			switch p.req.BodyType {
			case BodyNone:
				p.state = StateComplete
				return pos, nil
			case BodyContentLength:
				if p.req.ContentLength == 0 {
					p.state = StateComplete
					return pos, nil
				}
				p.bodyRemaining = p.req.ContentLength
				p.state = StateBodyIdentity
				return pos, nil
			case BodyChunked:
				p.state = StateBodyChunkedSize
			}

		case StateBodyChunkedSize:
			if pos > 0 && pos == len(data) {
				// Input ends exactly on a chunk boundary: yield what was consumed.
				p.cursor = 0
				return pos, nil
			}
			n, size, err := parseChunkSizeLine(data[pos:], p.cfg.Limits.MaxChunkExtLen)
			if err != nil {
				if httperr.IsNeedMoreData(err) {
					p.cursor = 0
					return pos, err
				}
				return p.fail(err.(*httperr.Error), pos)
			}
			if p.cfg.Limits.MaxBodySize != 0 && p.totalBodyRead+size > p.cfg.Limits.MaxBodySize {
				return p.fail(httperr.ErrBodyTooLarge, pos)
			}
			pos += n
			if size == 0 {
				p.state = StateTrailers
			} else {
				p.bodyRemaining = size
				p.req.setFlag(FlagIsChunked)
				p.state = StateBodyChunkedData
				p.cursor = 0
				return pos, nil
			}

		case StateBodyChunkedData:
			p.cursor = 0
			return pos, nil

		case StateBodyChunkedCRLF:
			if len(data)-pos < 2 {
				p.cursor = 0
				return pos, httperr.ErrNeedMoreData
			}
			if data[pos] != '\r' || data[pos+1] != '\n' {
				return p.fail(httperr.ErrInvalidChunkData, pos)
			}
			pos += 2
			p.state = StateBodyChunkedSize

		case StateTrailers:
			done, err := p.stepTrailers(data, &pos)
			if err != nil {
				if httperr.IsNeedMoreData(err) {
					p.cursor = pos
					return 0, err
				}
				return p.fail(err.(*httperr.Error), pos)
			}
			if !done {
				continue
			}
			p.cursor = 0
			p.state = StateComplete
			return pos, nil

		case StateComplete:
			return pos, nil
		}
	}
}

// stepHeaders consumes as many complete header lines as are available in
// data[*pos:], appending each to p.req.Headers, until either the blank
// line terminating the section is found (returns true, nil) or the next
// line's boundary is not yet available (returns false, NEED_MORE_DATA).
func (p *Parser) stepHeaders(data []byte, pos *int) (bool, error) {
	for {
		remaining := data[*pos:]
		lineLen, termLen := scan.FindLineEnd(remaining, p.cfg.Strict.StrictCRLF)
		if lineLen == scan.NotFound {
			if len(remaining) >= p.cfg.Limits.MaxHeaderLineLen {
				return false, httperr.ErrHeaderLineTooLong
			}
			if p.headersSize+len(remaining) > p.cfg.Limits.MaxHeadersSize {
				return false, httperr.ErrHeadersTooLarge
			}
			return false, httperr.ErrNeedMoreData
		}
		if lineLen >= p.cfg.Limits.MaxHeaderLineLen {
			return false, httperr.ErrHeaderLineTooLong
		}

		if lineLen == 0 {
			*pos += termLen
			return true, nil
		}

		line := remaining[:lineLen]
		if header.IsObsFold(line) {
			if p.headers.Len() == 0 {
				return false, httperr.ErrLeadingWhitespace
			}
			if p.cfg.Strict.RejectObsFold {
				return false, httperr.ErrObsFoldRejected
			}
			p.headersSize += lineLen + termLen
			*pos += lineLen + termLen
			continue
		}

		hl, err := header.Parse(line, *pos, p.cfg.Strict.AllowObsText)
		if err != nil {
			return false, err
		}

		h := Header{Name: hl.Name, Value: hl.Value}
		classifyKnownHeader(&h, data)
		idx := p.headers.Len()
		if !p.headers.Append(h) {
			return false, httperr.ErrTooManyHeaders
		}
		p.req.Headers = p.headers.Slice()
		p.req.HeaderCount = p.headers.Len()

		if h.Flags&FlagKnownName != 0 && p.req.KnownIdx[h.NameID-1] == SentinelIdx {
			p.req.KnownIdx[h.NameID-1] = idx
		}
		if err := p.bookkeepKnownHeader(h, data); err != nil {
			return false, err
		}

		p.headersSize += lineLen + termLen
		if p.headersSize > p.cfg.Limits.MaxHeadersSize {
			return false, httperr.ErrHeadersTooLarge
		}
		*pos += lineLen + termLen
	}
}

// stepTrailers mirrors stepHeaders for the post-chunk trailer section,
// storing into p.req.Trailers instead and never consulting the six
// known-header bookkeeping rules (trailers are opaque per RFC 9112 §7.1.2
// unless the application explicitly requests otherwise, which this
// parser leaves to the caller).
func (p *Parser) stepTrailers(data []byte, pos *int) (bool, error) {
	for {
		remaining := data[*pos:]
		lineLen, termLen := scan.FindLineEnd(remaining, p.cfg.Strict.StrictCRLF)
		if lineLen == scan.NotFound {
			if len(remaining) >= p.cfg.Limits.MaxHeaderLineLen {
				return false, httperr.ErrHeaderLineTooLong
			}
			return false, httperr.ErrNeedMoreData
		}
		if lineLen >= p.cfg.Limits.MaxHeaderLineLen {
			return false, httperr.ErrHeaderLineTooLong
		}
		if lineLen == 0 {
			*pos += termLen
			return true, nil
		}

		line := remaining[:lineLen]
		hl, err := header.Parse(line, *pos, p.cfg.Strict.AllowObsText)
		if err != nil {
			return false, err
		}
		h := Header{Name: hl.Name, Value: hl.Value}
		if !p.trailers.Append(h) {
			return false, httperr.ErrTooManyHeaders
		}
		p.req.Trailers = p.trailers.Slice()
		p.req.TrailerCount = p.trailers.Len()

		p.trailersSize += lineLen + termLen
		*pos += lineLen + termLen
	}
}

var knownNames = [...]struct {
	id   NameID
	name []byte
}{
	{NameHost, []byte("Host")},
	{NameContentLength, []byte("Content-Length")},
	{NameTransferEncoding, []byte("Transfer-Encoding")},
	{NameConnection, []byte("Connection")},
	{NameExpect, []byte("Expect")},
	{NameUpgrade, []byte("Upgrade")},
}

func classifyKnownHeader(h *Header, base []byte) {
	nameBytes := h.Name.Bytes(base)
	for _, kn := range knownNames {
		if strutil.EqualFoldBytes(nameBytes, kn.name) {
			h.NameID = kn.id
			h.Flags |= FlagKnownName
			return
		}
	}
	h.NameID = NameOther
}

var (
	tokenClose       = []byte("close")
	tokenKeepAlive   = []byte("keep-alive")
	token100Continue = []byte("100-continue")
)

// bookkeepKnownHeader updates request-level flags implied by a handful of
// known headers as they're accumulated, per the per-line bookkeeping
// table in the header parser design.
func (p *Parser) bookkeepKnownHeader(h Header, base []byte) error {
	switch h.NameID {
	case NameHost:
		p.req.setFlag(FlagHasHost)
	case NameContentLength:
		p.req.setFlag(FlagHasContentLength)
	case NameTransferEncoding:
		p.req.setFlag(FlagHasTransferEncoding)
	case NameConnection:
		for _, tok := range splitTokens(h.Value.Bytes(base), h.Value.Off) {
			t := tok.Bytes(base)
			switch {
			case strutil.EqualFoldBytes(t, tokenClose):
				p.req.clearFlag(FlagKeepAlive)
			case strutil.EqualFoldBytes(t, tokenKeepAlive):
				p.req.setFlag(FlagKeepAlive)
			}
		}
	case NameExpect:
		if p.req.Version >= 0x0101 {
			for _, tok := range splitTokens(h.Value.Bytes(base), h.Value.Off) {
				if strutil.EqualFoldBytes(tok.Bytes(base), token100Continue) {
					p.req.setFlag(FlagExpectContinue)
				}
			}
		}
	case NameUpgrade:
		p.req.setFlag(FlagHasUpgrade)
	}
	return nil
}
