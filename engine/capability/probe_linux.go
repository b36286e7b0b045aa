//go:build linux

package capability

import "golang.org/x/sys/unix"

// deviceMemoryGB reads total RAM through sysinfo(2).
func deviceMemoryGB() (float64, bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, false
	}
	total := float64(info.Totalram) * float64(info.Unit)
	if total <= 0 {
		return 0, false
	}
	return total / (1 << 30), true
}
