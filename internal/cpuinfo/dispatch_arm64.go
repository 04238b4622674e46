//go:build arm64

package cpuinfo

import "golang.org/x/sys/cpu"

func detect() {
	// ASIMD is part of the ARMv8-A base, the check is kept for consistency.
	if cpu.ARM64.HasASIMD {
		detectedLevel = LevelNEON
	} else {
		detectedLevel = LevelScalar
	}
	detectedL2 = 512 << 10
}
