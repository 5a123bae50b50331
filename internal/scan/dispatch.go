package scan

import (
	"sync"

	"golang.org/x/sys/cpu"
)

// currentLevel is the process-wide scanner dispatch level: write-once at
// init, monotonic, never lowered. Concurrent first use is safe because
// every racing goroutine computes the same value from the same CPU feature
// bits (per spec.md §5 "Process-wide state").
var currentLevel Level

var dispatchOnce sync.Once

func init() {
	initDispatch()
}

// initDispatch is idempotent: it runs from the package's init function and
// detects the level only once.
func initDispatch() {
	dispatchOnce.Do(func() {
		currentLevel = detectLevel()
	})
}

// detectLevel picks the widest step advertised by the CPU's feature bits.
// AMD64 with AVX2 gets the 32-byte step; AMD64 with plain SSE2 (universal
// on amd64) gets 16 bytes; ARM64 always carries NEON and also gets the
// 16-byte step. Everything else runs the scalar path. A 64-byte step is
// reserved for AVX-512, selected when golang.org/x/sys/cpu reports both the
// AVX512F and AVX512BW feature flags.
func detectLevel() Level {
	switch {
	case cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW:
		return Level64
	case cpu.X86.HasAVX2:
		return Level32
	case cpu.X86.HasSSE2:
		return Level16
	case cpu.ARM64.HasASIMD:
		return Level16
	default:
		return LevelScalar
	}
}

// CurrentLevel exposes the selected dispatch level, primarily for tests
// asserting scanner consistency across levels.
func CurrentLevel() Level {
	return currentLevel
}

// ForceLevel overrides the dispatch level. It exists so tests can exercise
// every scanning implementation on a single machine regardless of what the
// host CPU actually advertises; production code never calls it.
func ForceLevel(l Level) (restore func()) {
	prev := currentLevel
	currentLevel = l
	return func() { currentLevel = prev }
}
