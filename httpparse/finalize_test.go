package httpparse

import (
	"testing"

	"github.com/stephendliang/http11opt/httperr"
	"github.com/stretchr/testify/require"
)

func parseErr(t *testing.T, data []byte) *httperr.Error {
	t.Helper()
	p := New(nil)
	_, err := p.Parse(data)
	require.Error(t, err)
	perr, ok := err.(*httperr.Error)
	require.True(t, ok)
	return perr
}

func TestMultipleContentLengthMatchingAccepted(t *testing.T) {
	p := New(nil)
	data := []byte("POST /x HTTP/1.1\r\nHost: h\r\nContent-Length: 5\r\nContent-Length: 5\r\n\r\nhello")
	_, err := p.Parse(data)
	require.NoError(t, err)
	require.EqualValues(t, 5, p.GetRequest().ContentLength)
}

func TestContentLengthCommaListMatchingAccepted(t *testing.T) {
	p := New(nil)
	data := []byte("POST /x HTTP/1.1\r\nHost: h\r\nContent-Length: 5, 5\r\n\r\nhello")
	_, err := p.Parse(data)
	require.NoError(t, err)
	require.EqualValues(t, 5, p.GetRequest().ContentLength)
}

func TestMultipleContentLengthMismatchRejected(t *testing.T) {
	perr := parseErr(t, []byte("POST /x HTTP/1.1\r\nHost: h\r\nContent-Length: 5\r\nContent-Length: 6\r\n\r\nhello"))
	require.Equal(t, httperr.MultipleContentLength, perr.Code)
}

func TestContentLengthOverflowRejected(t *testing.T) {
	perr := parseErr(t, []byte("POST /x HTTP/1.1\r\nHost: h\r\nContent-Length: 99999999999999999999\r\n\r\n"))
	require.Equal(t, httperr.ContentLengthOverflow, perr.Code)
}

func TestInvalidContentLengthNonDigit(t *testing.T) {
	perr := parseErr(t, []byte("POST /x HTTP/1.1\r\nHost: h\r\nContent-Length: 5a\r\n\r\n"))
	require.Equal(t, httperr.InvalidContentLength, perr.Code)
}

func TestTransferEncodingUnknownCoding(t *testing.T) {
	perr := parseErr(t, []byte("POST /x HTTP/1.1\r\nHost: h\r\nTransfer-Encoding: bogus\r\n\r\n"))
	require.Equal(t, httperr.UnknownTransferCoding, perr.Code)
}

func TestTransferEncodingNotChunkedFinal(t *testing.T) {
	perr := parseErr(t, []byte("POST /x HTTP/1.1\r\nHost: h\r\nTransfer-Encoding: chunked, gzip\r\n\r\n"))
	require.Equal(t, httperr.TENotChunkedFinal, perr.Code)
}

func TestTransferEncodingChunkedWithParamRejected(t *testing.T) {
	perr := parseErr(t, []byte("POST /x HTTP/1.1\r\nHost: h\r\nTransfer-Encoding: chunked;x=1\r\n\r\n"))
	require.Equal(t, httperr.InvalidTransferEncoding, perr.Code)
}

func TestTransferEncodingMultipleHeadersCombine(t *testing.T) {
	p := New(nil)
	data := []byte("POST /x HTTP/1.1\r\nHost: h\r\nTransfer-Encoding: gzip\r\nTransfer-Encoding: chunked\r\n\r\n")
	_, err := p.Parse(data)
	require.NoError(t, err)
	require.Equal(t, StateBodyChunkedSize, p.State())
}

func TestChunkExtensionWithQuotedString(t *testing.T) {
	p := New(nil)
	head := []byte("POST /x HTTP/1.1\r\nHost: h\r\nTransfer-Encoding: chunked\r\n\r\n")
	_, err := p.Parse(head)
	require.NoError(t, err)

	rest := []byte("5;name=\"a\\\"b\"\r\nhello\r\n0\r\n\r\n")
	n1, err := p.Parse(rest)
	require.NoError(t, err)
	require.Equal(t, StateBodyChunkedData, p.State())

	n2, body, err := p.ReadBody(rest[n1:])
	require.NoError(t, err)
	require.Equal(t, "hello", string(body))

	_, err = p.Parse(rest[n1+n2:])
	require.NoError(t, err)
	require.Equal(t, StateComplete, p.State())
}

func TestChunkExtensionTooLong(t *testing.T) {
	p := New(nil)
	head := []byte("POST /x HTTP/1.1\r\nHost: h\r\nTransfer-Encoding: chunked\r\n\r\n")
	_, err := p.Parse(head)
	require.NoError(t, err)

	ext := make([]byte, 1100)
	for i := range ext {
		ext[i] = 'a'
	}
	rest := append([]byte("5;n="), ext...)
	rest = append(rest, "\r\nhello\r\n0\r\n\r\n"...)

	_, err = p.Parse(rest)
	require.Error(t, err)
	perr, ok := err.(*httperr.Error)
	require.True(t, ok)
	require.Equal(t, httperr.ChunkExtTooLong, perr.Code)
}

func TestChunkSizeOverflow(t *testing.T) {
	p := New(nil)
	head := []byte("POST /x HTTP/1.1\r\nHost: h\r\nTransfer-Encoding: chunked\r\n\r\n")
	_, err := p.Parse(head)
	require.NoError(t, err)

	rest := []byte("ffffffffffffffffff\r\n")
	_, err = p.Parse(rest)
	require.Error(t, err)
	perr, ok := err.(*httperr.Error)
	require.True(t, ok)
	require.Equal(t, httperr.ChunkSizeOverflow, perr.Code)
}

func TestChunkedTrailers(t *testing.T) {
	p := New(nil)
	head := []byte("POST /x HTTP/1.1\r\nHost: h\r\nTransfer-Encoding: chunked\r\n\r\n")
	_, err := p.Parse(head)
	require.NoError(t, err)

	rest := []byte("5\r\nhello\r\n0\r\nX-Trailer: done\r\n\r\n")
	n1, err := p.Parse(rest)
	require.NoError(t, err)
	require.Equal(t, StateBodyChunkedData, p.State())

	n2, body, err := p.ReadBody(rest[n1:])
	require.NoError(t, err)
	require.Equal(t, "hello", string(body))

	_, err = p.Parse(rest[n1+n2:])
	require.NoError(t, err)
	require.Equal(t, StateComplete, p.State())
	require.Equal(t, 1, p.GetRequest().TrailerCount)
}

func TestContentLengthZeroCompletesImmediately(t *testing.T) {
	p := New(nil)
	data := []byte("GET / HTTP/1.1\r\nHost: h\r\nContent-Length: 0\r\n\r\n")
	_, err := p.Parse(data)
	require.NoError(t, err)
	require.Equal(t, StateComplete, p.State())
}

func TestEmptyBufferNeedsMoreData(t *testing.T) {
	p := New(nil)
	consumed, err := p.Parse(nil)
	require.True(t, httperr.IsNeedMoreData(err))
	require.Equal(t, 0, consumed)
	require.Equal(t, StateRequestLine, p.State())
}

func TestLeadingCRLFTolerated(t *testing.T) {
	p := New(nil)
	data := []byte("\r\nGET / HTTP/1.1\r\nHost: h\r\n\r\n")
	_, err := p.Parse(data)
	require.NoError(t, err)
	require.Equal(t, StateComplete, p.State())
}

func TestLeadingCRLFSplitAcrossCalls(t *testing.T) {
	p := New(nil)
	first := []byte("\r")
	_, err := p.Parse(first)
	require.True(t, httperr.IsNeedMoreData(err))

	full := []byte("\r\nGET / HTTP/1.1\r\nHost: h\r\n\r\n")
	_, err = p.Parse(full)
	require.NoError(t, err)
	require.Equal(t, StateComplete, p.State())
}

func TestHeaderLineTooLongDeliveredWhole(t *testing.T) {
	p := New(nil)
	value := make([]byte, 9000)
	for i := range value {
		value[i] = 'a'
	}
	data := append([]byte("GET / HTTP/1.1\r\nHost: h\r\nX-Big: "), value...)
	data = append(data, "\r\n\r\n"...)

	_, err := p.Parse(data)
	require.Error(t, err)
	perr, ok := err.(*httperr.Error)
	require.True(t, ok)
	require.Equal(t, httperr.HeaderLineTooLong, perr.Code)
}

func TestTrailerLineTooLongDeliveredWhole(t *testing.T) {
	p := New(nil)
	head := []byte("POST /x HTTP/1.1\r\nHost: h\r\nTransfer-Encoding: chunked\r\n\r\n")
	_, err := p.Parse(head)
	require.NoError(t, err)

	sizeLine := []byte("0\r\n")
	_, err = p.Parse(sizeLine)
	require.True(t, httperr.IsNeedMoreData(err))
	require.Equal(t, StateTrailers, p.State())

	value := make([]byte, 9000)
	for i := range value {
		value[i] = 'a'
	}
	// TRAILERS holds its own cumulative buffer: the follow-up call must
	// include the "0\r\n" prefix that produced the earlier NEED_MORE_DATA.
	full := append(append([]byte{}, sizeLine...), "X-Big: "...)
	full = append(full, value...)
	full = append(full, "\r\n\r\n"...)

	_, err = p.Parse(full)
	require.Error(t, err)
	perr, ok := err.(*httperr.Error)
	require.True(t, ok)
	require.Equal(t, httperr.HeaderLineTooLong, perr.Code)
}

func TestBareLFAcceptedWhenNotStrict(t *testing.T) {
	cfg := Default()
	cfg.Strict.StrictCRLF = false
	p := New(cfg)
	data := []byte("GET / HTTP/1.1\nHost: h\n\n")
	_, err := p.Parse(data)
	require.NoError(t, err)
	require.Equal(t, StateComplete, p.State())
}

func TestBareLFRejectedWhenStrict(t *testing.T) {
	p := New(nil)
	data := []byte("GET / HTTP/1.1\nHost: h\n\n")
	_, err := p.Parse(data)
	require.True(t, httperr.IsNeedMoreData(err))
}

func TestInvalidVersionErrorOffsetAtBadByte(t *testing.T) {
	p := New(nil)
	data := []byte("GET /p HTTP/2.0\r\nHost: h\r\n\r\n")
	_, err := p.Parse(data)
	require.Error(t, err)
	perr, ok := err.(*httperr.Error)
	require.True(t, ok)
	require.Equal(t, httperr.InvalidVersion, perr.Code)
	require.Equal(t, byte('2'), data[p.ErrorOffset()])
}

func TestConnectionTokensExposed(t *testing.T) {
	p := New(nil)
	data := []byte("GET / HTTP/1.1\r\nHost: h\r\nConnection: keep-alive, Upgrade\r\n\r\n")
	_, err := p.Parse(data)
	require.NoError(t, err)

	req := p.GetRequest()
	tokens := req.ConnectionTokens(data)
	require.Len(t, tokens, 2)
	require.Equal(t, "keep-alive", tokens[0].Str(data))
	require.Equal(t, "Upgrade", tokens[1].Str(data))
}
