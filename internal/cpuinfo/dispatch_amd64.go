//go:build amd64

package cpuinfo

import "golang.org/x/sys/cpu"

// L2 sizes follow the blocking assumptions of the respective CPU families:
// Skylake-X and later ship 1MB per core, Haswell-era parts 256KB.
func detect() {
	switch {
	case cpu.X86.HasAVX512F:
		detectedLevel = LevelAVX512
		detectedL2 = 1 << 20
	case cpu.X86.HasAVX2:
		detectedLevel = LevelAVX2
		detectedL2 = 256 << 10
	default:
		detectedLevel = LevelSSE2
		detectedL2 = 256 << 10
	}
}
