package httpparse

import "github.com/stephendliang/http11opt/httperr"

// ReadBody delivers up to the next byte boundary of body data as a
// zero-copy view directly into data (not a Span — body bytes are never
// retained past this call, so there is no later-resolution requirement).
// Valid only while State is BODY_IDENTITY or BODY_CHUNKED_DATA.
func (p *Parser) ReadBody(data []byte) (consumed int, body []byte, err error) {
	if p.state == StateError {
		return 0, nil, p.lastErr
	}
	if p.state != StateBodyIdentity && p.state != StateBodyChunkedData {
		return 0, nil, httperr.ErrInternal
	}

	toRead := uint64(len(data))
	if toRead > p.bodyRemaining {
		toRead = p.bodyRemaining
	}

	if p.cfg.Limits.MaxBodySize != 0 && p.totalBodyRead+toRead > p.cfg.Limits.MaxBodySize {
		p.state = StateError
		p.lastErr = httperr.ErrBodyTooLarge
		return 0, nil, p.lastErr
	}

	body = data[:toRead]
	p.bodyRemaining -= toRead
	p.totalBodyRead += toRead

	if p.bodyRemaining == 0 {
		if p.state == StateBodyIdentity {
			p.state = StateComplete
		} else {
			p.state = StateBodyChunkedCRLF
		}
	}

	return int(toRead), body, nil
}

// TotalBodyRead returns the cumulative body bytes delivered via ReadBody
// so far for the current request.
func (p *Parser) TotalBodyRead() uint64 { return p.totalBodyRead }

// BodyRemaining returns the number of body bytes still owed before the
// current body-reading state completes.
func (p *Parser) BodyRemaining() uint64 { return p.bodyRemaining }
