//go:build !linux && !darwin

package hardware

func totalMemory() uint64 {
	return 0
}
