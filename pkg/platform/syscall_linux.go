//go:build linux

package platform

import "syscall"

// Mount Linux-specific mount operation (override default)
func (lp *LinuxPlatform) Mount(source string, target string, fstype string, flags uintptr, data string) error {
	if err := syscall.Mount(source, target, fstype, flags, data); err != nil {
		return NewPlatformError("mount", target, err)
	}
	return nil
}

func (lp *LinuxPlatform) Unmount(target string, flags int) error {
	if err := syscall.Unmount(target, flags); err != nil {
		return NewPlatformError("unmount", target, err)
	}
	return nil
}
