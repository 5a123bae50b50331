package httpparse

// State names a position in the request state machine. Transitions are
// exactly those described per-component; there are no backwards
// transitions and COMPLETE only returns to IDLE via Reset.
type State uint8

const (
	StateIdle State = iota
	StateRequestLine
	StateHeaders
	StateBodyIdentity
	StateBodyChunkedSize
	StateBodyChunkedData
	StateBodyChunkedCRLF
	StateTrailers
	StateComplete
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRequestLine:
		return "REQUEST_LINE"
	case StateHeaders:
		return "HEADERS"
	case StateBodyIdentity:
		return "BODY_IDENTITY"
	case StateBodyChunkedSize:
		return "BODY_CHUNKED_SIZE"
	case StateBodyChunkedData:
		return "BODY_CHUNKED_DATA"
	case StateBodyChunkedCRLF:
		return "BODY_CHUNKED_CRLF"
	case StateTrailers:
		return "TRAILERS"
	case StateComplete:
		return "COMPLETE"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
