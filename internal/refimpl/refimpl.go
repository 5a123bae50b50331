// Package refimpl wraps a second, independent chunked-body decoder
// (github.com/indigo-web/chunkedbody) used only to cross-check the
// httpparse chunked decoder's output in differential tests — never on the
// request-serving path.
package refimpl

import (
	"errors"
	"io"

	"github.com/indigo-web/chunkedbody"
)

// DecodeChunked fully decodes a complete chunked-encoded body (chunk data
// plus terminating zero-chunk, no trailers), returning the reassembled
// body bytes. wire must contain the entire encoded body; partial input is
// reported as an error, since this helper only supports whole-buffer
// differential comparisons, not streaming.
func DecodeChunked(wire []byte, maxChunkSize int64) ([]byte, error) {
	parser := chunkedbody.NewParser(chunkedbody.Settings{MaxChunkSize: maxChunkSize})

	var body []byte
	rest := wire
	for {
		chunk, extra, err := parser.Parse(rest, false)
		body = append(body, chunk...)
		if errors.Is(err, io.EOF) {
			return body, nil
		}
		if err != nil {
			return nil, err
		}
		if extra == nil && chunk == nil {
			return nil, errors.New("refimpl: incomplete chunked body")
		}
		rest = extra
	}
}
