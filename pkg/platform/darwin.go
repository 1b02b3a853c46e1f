package platform

// Loopback mounts are a Linux feature; on macOS the mount operations always
// report unsupported so callers fail before touching the kernel.
func (dp *DarwinPlatform) Mount(source string, target string, fstype string, flags uintptr, data string) error {
	return NewUnsupportedOperationError("darwin", "mount")
}

func (dp *DarwinPlatform) Unmount(target string, flags int) error {
	return NewUnsupportedOperationError("darwin", "unmount")
}
