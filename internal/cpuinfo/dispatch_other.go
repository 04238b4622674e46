//go:build !amd64 && !arm64

package cpuinfo

func detect() {
	detectedLevel = LevelScalar
	detectedL2 = 256 << 10
}
