package platform

import (
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// MockPlatform provides a mock implementation for tests that cannot assume
// elevated privileges. File operations are real (point them at a temp dir);
// mounts and subprocesses are recorded and answered from canned results.
type MockPlatform struct {
	*BasePlatform

	// Mock behavior flags
	ShouldFailMount   bool
	ShouldFailUnmount bool

	// Canned subprocess results keyed by the joined command line.
	// Commands without an entry succeed with empty output.
	CommandResults map[string]CommandResult

	// Executables LookPath reports as absent; everything else resolves
	MissingTools map[string]bool

	// Call tracking
	MountCalls   []MountCall
	UnmountCalls []UnmountCall
	CommandLines []string
}

type CommandResult struct {
	Output []byte
	Err    error
}

type MountCall struct {
	Source string
	Target string
	FSType string
	Flags  uintptr
	Data   string
}

type UnmountCall struct {
	Target string
	Flags  int
}

// NewMockPlatform creates a new mock platform for testing
func NewMockPlatform() *MockPlatform {
	return &MockPlatform{
		BasePlatform:   NewBasePlatform(),
		CommandResults: make(map[string]CommandResult),
		MissingTools:   make(map[string]bool),
	}
}

func (mp *MockPlatform) LookPath(file string) (string, error) {
	if mp.MissingTools[file] {
		return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
	}
	return "/usr/sbin/" + file, nil
}

func (mp *MockPlatform) Mount(source string, target string, fstype string, flags uintptr, data string) error {
	mp.MountCalls = append(mp.MountCalls, MountCall{
		Source: source,
		Target: target,
		FSType: fstype,
		Flags:  flags,
		Data:   data,
	})

	if mp.ShouldFailMount {
		return NewPlatformError("mount", target, os.ErrPermission)
	}

	return nil
}

func (mp *MockPlatform) Unmount(target string, flags int) error {
	mp.UnmountCalls = append(mp.UnmountCalls, UnmountCall{
		Target: target,
		Flags:  flags,
	})

	if mp.ShouldFailUnmount {
		return NewPlatformError("unmount", target, syscall.EBUSY)
	}

	return nil
}

func (mp *MockPlatform) CreateCommand(name string, args ...string) Command {
	line := strings.Join(append([]string{name}, args...), " ")
	mp.CommandLines = append(mp.CommandLines, line)

	result := mp.CommandResults[line]
	return &mockCommand{result: result}
}

// Reset clears all call tracking
func (mp *MockPlatform) Reset() {
	mp.MountCalls = mp.MountCalls[:0]
	mp.UnmountCalls = mp.UnmountCalls[:0]
	mp.CommandLines = mp.CommandLines[:0]
	mp.ShouldFailMount = false
	mp.ShouldFailUnmount = false
}

type mockCommand struct {
	result CommandResult
}

func (c *mockCommand) Run() error {
	return c.result.Err
}

func (c *mockCommand) Output() ([]byte, error) {
	return c.result.Output, c.result.Err
}

func (c *mockCommand) CombinedOutput() ([]byte, error) {
	return c.result.Output, c.result.Err
}

var _ Platform = (*MockPlatform)(nil)
