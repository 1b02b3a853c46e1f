package provision

import (
	"fmt"

	"imgprov/pkg/logger"
	"imgprov/pkg/platform"
)

// Formatter writes filesystem structures into a backing file. It is a
// capability interface so tests and alternate filesystem tooling can replace
// the real subprocess call.
type Formatter interface {
	Format(imagePath string) error
	Type() string
}

// MkfsFormatter shells out to mkfs.<type> and blocks until it exits.
// Success is exit code 0; output is only kept for the error message.
type MkfsFormatter struct {
	platform platform.Platform
	fsType   string
	logger   *logger.Logger
}

// NewMkfsFormatter creates a formatter for the given filesystem type
func NewMkfsFormatter(p platform.Platform, fsType string) *MkfsFormatter {
	return &MkfsFormatter{
		platform: p,
		fsType:   fsType,
		logger:   logger.New().WithField("component", "formatter"),
	}
}

func (f *MkfsFormatter) Type() string {
	return f.fsType
}

// mkfsForceFlags maps filesystem types to the flag that suppresses the
// "really format a regular file?" prompt. The spelling differs per tool,
// and mkfs.vfat reads -F as the FAT size option, so types without an entry
// get no flag at all.
var mkfsForceFlags = map[string]string{
	"ext2":  "-F",
	"ext3":  "-F",
	"ext4":  "-F",
	"xfs":   "-f",
	"btrfs": "-f",
}

func (f *MkfsFormatter) Format(imagePath string) error {
	tool := "mkfs." + f.fsType
	if _, err := f.platform.LookPath(tool); err != nil {
		return fmt.Errorf("filesystem tool %s not available: %w", tool, err)
	}

	f.logger.Debug("formatting image", "tool", tool, "path", imagePath)

	var args []string
	if flag, ok := mkfsForceFlags[f.fsType]; ok {
		args = append(args, flag)
	}
	args = append(args, imagePath)

	cmd := f.platform.CreateCommand(tool, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s %s failed: %w (output: %s)", tool, imagePath, err, string(output))
	}

	return nil
}
