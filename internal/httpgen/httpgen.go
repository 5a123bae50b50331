// Package httpgen builds randomized request byte streams for the
// differential tests: chunk sizes are deterministic per seed name, while
// HeaderValue tokens are freshly random on every call. Grounded on the
// pack's own genHeader helper (internal/protocol/http1/parser_test.go),
// which reaches for uniuri.NewLen rather than the standard library for
// random test tokens.
package httpgen

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dchest/uniuri"
	"golang.org/x/crypto/blake2b"
)

// Seed derives a deterministic 64-bit value from name via BLAKE2b, so a
// fuzz corpus keyed by test name is stable across runs without reaching
// for math/rand's process-global generator.
func Seed(name string) uint64 {
	sum := blake2b.Sum256([]byte(name))
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(sum[i])
	}
	return v
}

// splitmix64 advances a seed deterministically, giving each draw in
// ChunkSizes a distinct but reproducible value from the same
// BLAKE2b-derived seed.
func splitmix64(state *uint64) uint64 {
	*state += 0x9E3779B97F4A7C15
	z := *state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// ChunkSizes returns n deterministic chunk sizes in [1, maxSize], derived
// from seed.
func ChunkSizes(seed uint64, n, maxSize int) []int {
	state := seed
	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = 1 + int(splitmix64(&state)%uint64(maxSize))
	}
	return sizes
}

// HeaderValue returns a random opaque token suitable for a header value,
// via uniuri, matching the pack's own genHeader idiom.
func HeaderValue() string {
	return uniuri.NewLen(16)
}

// ChunkedRequest assembles a complete chunked-encoded POST request for
// target/host whose body is chunkCount deterministically sized chunks
// keyed by seedName. Each chunk's payload is a repeated hex digit so the
// receiving side can verify byte-exact reassembly without storing the
// full plaintext separately.
func ChunkedRequest(seedName, target, host string, chunkCount, maxChunkSize int) []byte {
	seed := Seed(seedName)
	sizes := ChunkSizes(seed, chunkCount, maxChunkSize)

	var wire strings.Builder
	fmt.Fprintf(&wire, "POST %s HTTP/1.1\r\nHost: %s\r\nX-Trace: %s\r\nTransfer-Encoding: chunked\r\n\r\n",
		target, host, HeaderValue())

	for i, size := range sizes {
		digit := hex.EncodeToString([]byte{byte(i)})[1:]
		chunk := strings.Repeat(digit, size)
		fmt.Fprintf(&wire, "%x\r\n%s\r\n", size, chunk)
	}
	wire.WriteString("0\r\n\r\n")

	return []byte(wire.String())
}
