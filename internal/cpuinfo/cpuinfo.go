// Package cpuinfo detects the SIMD dispatch level and cache geometry used to
// select kernel paths and blocking parameters.
package cpuinfo

import (
	"log/slog"
	"os"
	"strconv"
	"sync/atomic"
)

// Level represents the SIMD instruction set the kernels are tuned for.
type Level int

const (
	// LevelScalar disables the vector kernel paths.
	LevelScalar Level = iota

	// LevelSSE2 is the x86-64 baseline (128-bit).
	LevelSSE2

	// LevelAVX2 is 256-bit x86 SIMD.
	LevelAVX2

	// LevelAVX512 is 512-bit x86 SIMD.
	LevelAVX512

	// LevelNEON is 128-bit ARM SIMD.
	LevelNEON
)

// String returns a human-readable name for the level.
func (l Level) String() string {
	switch l {
	case LevelScalar:
		return "scalar"
	case LevelSSE2:
		return "sse2"
	case LevelAVX2:
		return "avx2"
	case LevelAVX512:
		return "avx512"
	case LevelNEON:
		return "neon"
	default:
		return "unknown"
	}
}

const (
	// EnvNoSIMD forces the scalar kernels when set to a true value.
	EnvNoSIMD = "STRIDED_NO_SIMD"

	// EnvL2Cache overrides the detected L2 cache size (bytes).
	EnvL2Cache = "STRIDED_L2_CACHE"

	// MaxLanes bounds the lane count of any vector kernel.
	MaxLanes = 64
)

// Set by init() in dispatch_*.go files.
var (
	detectedLevel Level
	detectedL2    int
)

// override holds a forced level installed by Force; -1 means none.
var override atomic.Int64

func init() {
	override.Store(-1)
	detect()
	if NoSIMDEnv() {
		detectedLevel = LevelScalar
	}
	if v, ok := envInt(EnvL2Cache); ok {
		detectedL2 = v
	}
	slog.Debug("cpuinfo: dispatch detected",
		"level", detectedLevel.String(), "width", detectedLevel.Width(), "l2", detectedL2)
}

// CurrentLevel returns the SIMD level kernels dispatch on.
func CurrentLevel() Level {
	if v := override.Load(); v >= 0 {
		return Level(v)
	}
	return detectedLevel
}

// DetectedLevel returns the level found at startup, ignoring Force.
func DetectedLevel() Level {
	return detectedLevel
}

// Width returns the vector register width of l in bytes, 0 for LevelScalar.
func (l Level) Width() int {
	switch l {
	case LevelSSE2, LevelNEON:
		return 16
	case LevelAVX2:
		return 32
	case LevelAVX512:
		return 64
	default:
		return 0
	}
}

// CurrentWidth returns the SIMD register width in bytes of the level kernels
// dispatch on, so it follows Force.
func CurrentWidth() int {
	return CurrentLevel().Width()
}

// L2CacheSize returns the per-core L2 cache size assumed for blocking, in bytes.
func L2CacheSize() int {
	return detectedL2
}

// Lanes returns the number of lanes of elemSize bytes in one vector register
// of the current level, clamped to [1, MaxLanes]. The scalar level has one.
func Lanes(elemSize int) int {
	if elemSize <= 0 {
		return 1
	}
	return min(max(CurrentWidth()/elemSize, 1), MaxLanes)
}

// Force overrides the dispatch level until the returned restore function is
// called. It is meant for tests that pin a kernel path.
func Force(l Level) (restore func()) {
	prev := override.Swap(int64(l))
	return func() {
		override.Store(prev)
	}
}

// NoSIMDEnv reports whether STRIDED_NO_SIMD asks for scalar kernels.
func NoSIMDEnv() bool {
	val := os.Getenv(EnvNoSIMD)
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

func envInt(name string) (int, bool) {
	val := os.Getenv(name)
	if val == "" {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		slog.Warn("cpuinfo: ignoring invalid value", "env", name, "value", val)
		return 0, false
	}
	return n, true
}
