//go:build !linux

package capability

// deviceMemoryGB is not reported on this platform; the memory check is skipped.
func deviceMemoryGB() (float64, bool) {
	return 0, false
}
