// Package strutil provides case-insensitive byte comparisons for header
// names and tokens, adapted from the pack's internal/strcomp EqualFold: an
// ASCII fold via the c|0x20 trick, avoiding bytes.EqualFold's allocation-
// free but still per-rune-decoding path since everything here is known
// pure ASCII (RFC 9110 tokens never contain non-ASCII bytes).
package strutil

// EqualFold reports whether a and b are equal under ASCII case folding.
// Only ASCII letters are folded with 0x20; every other byte must match
// exactly, since the same fold would map e.g. '^' onto '~'.
func EqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if a[i] == b[i] {
			continue
		}
		if c := a[i] | 0x20; c != b[i]|0x20 || c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

// EqualFoldBytes is the []byte counterpart of EqualFold, used where the
// caller already holds a resolved Span rather than a string.
func EqualFoldBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if a[i] == b[i] {
			continue
		}
		if c := a[i] | 0x20; c != b[i]|0x20 || c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

// TrimOWS trims RFC 9110 optional whitespace (space and horizontal tab)
// from both ends of b, returning the sub-slice without copying.
func TrimOWS(b []byte) []byte {
	start := 0
	for start < len(b) && isOWS(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isOWS(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isOWS(c byte) bool {
	return c == ' ' || c == '\t'
}
