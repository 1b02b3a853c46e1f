package platform

import (
	"io"
	"os"
)

// Platform abstracts the OS operations the provisioner performs so the
// privileged paths (mount syscalls, subprocesses) can be swapped for fakes
// in tests.
type Platform interface {
	Stat(name string) (os.FileInfo, error)
	MkdirAll(dir string, perm os.FileMode) error
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	IsNotExist(err error) bool
	LookPath(file string) (string, error)
	CreateCommand(name string, args ...string) Command
	Mount(source string, target string, fstype string, flags uintptr, data string) error
	Unmount(target string, flags int) error
}

// File is the subset of *os.File the allocator and transfer rely on.
type File interface {
	io.Reader
	io.Writer
	io.Closer
	io.WriterAt
	Truncate(size int64) error
	Sync() error
}

// Command is a blocking subprocess invocation.
type Command interface {
	Run() error
	Output() ([]byte, error)
	CombinedOutput() ([]byte, error)
}

// LinuxPlatform provides Linux-specific implementations
type LinuxPlatform struct {
	*BasePlatform
}

// DarwinPlatform provides macOS implementations (mount operations are
// unsupported there and return errors)
type DarwinPlatform struct {
	*BasePlatform
}

// Ensure both platforms implement Platform interface
var _ Platform = (*LinuxPlatform)(nil)
var _ Platform = (*DarwinPlatform)(nil)
