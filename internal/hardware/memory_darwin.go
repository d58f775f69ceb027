//go:build darwin

package hardware

import "golang.org/x/sys/unix"

func totalMemory() uint64 {
	total, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0
	}
	return total
}
