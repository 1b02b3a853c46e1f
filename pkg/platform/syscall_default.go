//go:build !linux

package platform

import "runtime"

// Mount and unmount need real syscalls; cross-compiled non-Linux builds get
// stubs so the rest of the tree still compiles.
func (lp *LinuxPlatform) Mount(source string, target string, fstype string, flags uintptr, data string) error {
	return NewUnsupportedOperationError(runtime.GOOS, "mount")
}

func (lp *LinuxPlatform) Unmount(target string, flags int) error {
	return NewUnsupportedOperationError(runtime.GOOS, "unmount")
}
