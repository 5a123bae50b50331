package httpparse

import (
	"github.com/stephendliang/http11opt/httperr"
	"github.com/stephendliang/http11opt/internal/ascii"
	"github.com/stephendliang/http11opt/internal/scan"
)

// unreasonableChunkSizeLine bounds how much unterminated input the parser
// will hold onto before giving up on ever finding the chunk-size line's
// CRLF, per §4.6: "if the line would be unreasonable (no CRLF after 100
// bytes of input), INVALID_CHUNK_SIZE is raised immediately."
const unreasonableChunkSizeLine = 100

// parseChunkSizeLine parses a chunk-size line (hex size, optional
// extensions) at the start of data. It returns the number of bytes
// consumed (line length including its terminating CRLF) and the decoded
// chunk size.
func parseChunkSizeLine(data []byte, maxExtLen int) (int, uint64, error) {
	lineLen := scan.FindCRLF(data)
	if lineLen == scan.NotFound {
		if len(data) >= unreasonableChunkSizeLine {
			return 0, 0, httperr.ErrInvalidChunkSize
		}
		return 0, 0, httperr.ErrNeedMoreData
	}

	line := data[:lineLen]
	i := 0
	var size uint64
	digits := 0
	for i < len(line) && ascii.IsHexdig(line[i]) {
		d := uint64(ascii.HalfbyteTable[line[i]])
		if size > (^uint64(0)-d)/16 {
			return 0, 0, httperr.ErrChunkSizeOverflow
		}
		size = size*16 + d
		i++
		digits++
	}
	if digits == 0 {
		return 0, 0, httperr.ErrInvalidChunkSize
	}

	if i < len(line) {
		if err := validateChunkExtensions(line[i:], maxExtLen); err != nil {
			return 0, 0, err
		}
	}

	return lineLen + 2, size, nil
}

// validateChunkExtensions consumes the `*( BWS ';' BWS chunk-ext-name
// [ '=' chunk-ext-val ] )` grammar following the chunk size, discarding
// its content but enforcing the extension-length bound and quoted-string
// escaping rules.
func validateChunkExtensions(ext []byte, maxExtLen int) error {
	if len(ext) > maxExtLen {
		return httperr.ErrChunkExtTooLong
	}

	i := skipBWS(ext, 0)
	for i < len(ext) {
		if ext[i] != ';' {
			return httperr.ErrInvalidChunkExt
		}
		i++
		i = skipBWS(ext, i)

		nameStart := i
		for i < len(ext) && ascii.IsTchar(ext[i]) {
			i++
		}
		if i == nameStart {
			return httperr.ErrInvalidChunkExt
		}

		i = skipBWS(ext, i)
		if i < len(ext) && ext[i] == '=' {
			i++
			i = skipBWS(ext, i)
			if i < len(ext) && ext[i] == '"' {
				var err error
				i, err = skipQuotedString(ext, i)
				if err != nil {
					return err
				}
			} else {
				valStart := i
				for i < len(ext) && ascii.IsTchar(ext[i]) {
					i++
				}
				if i == valStart {
					return httperr.ErrInvalidChunkExt
				}
			}
		}
		i = skipBWS(ext, i)
	}
	return nil
}

func skipBWS(b []byte, i int) int {
	for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	return i
}

// skipQuotedString consumes a double-quoted string starting at b[i] (which
// must be '"'), honoring backslash-escaped bytes, and returns the index
// just past the closing quote.
func skipQuotedString(b []byte, i int) (int, error) {
	i++ // opening quote
	for i < len(b) {
		switch b[i] {
		case '"':
			return i + 1, nil
		case '\\':
			if i+1 >= len(b) {
				return 0, httperr.ErrInvalidChunkExt
			}
			i += 2
		default:
			i++
		}
	}
	return 0, httperr.ErrInvalidChunkExt
}
