package provision

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"imgprov/pkg/logger"
	"imgprov/pkg/platform"
)

const copyChunkSize = 64 * 1024

// Transfer copies an external file into the mounted namespace.
type Transfer struct {
	platform platform.Platform
	logger   *logger.Logger
}

// NewTransfer creates a new content transfer
func NewTransfer(p platform.Platform) *Transfer {
	return &Transfer{
		platform: p,
		logger:   logger.New().WithField("component", "transfer"),
	}
}

// CopyInto streams sourcePath into mountDir/destRelativePath in fixed-size
// chunks. An existing destination is truncated; parent directories inside
// the mount are created as needed.
func (t *Transfer) CopyInto(sourcePath, mountDir, destRelativePath string) error {
	if _, err := t.platform.Stat(sourcePath); err != nil {
		if t.platform.IsNotExist(err) {
			return fmt.Errorf("source %s: %w", sourcePath, ErrSourceNotFound)
		}
		return fmt.Errorf("source %s: %w: %v", sourcePath, ErrSourceUnreadable, err)
	}

	src, err := t.platform.OpenFile(sourcePath, os.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("source %s: %w: %v", sourcePath, ErrSourceUnreadable, err)
	}
	defer src.Close()

	destPath := filepath.Join(mountDir, destRelativePath)
	if dir := filepath.Dir(destPath); dir != filepath.Clean(mountDir) {
		if err := t.platform.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("destination %s: %w: %v", destPath, ErrDestinationUnwritable, err)
		}
	}

	dst, err := t.platform.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		if errors.Is(err, syscall.ENOSPC) {
			return fmt.Errorf("destination %s: %w", destPath, ErrDiskFull)
		}
		return fmt.Errorf("destination %s: %w: %v", destPath, ErrDestinationUnwritable, err)
	}
	defer dst.Close()

	buf := make([]byte, copyChunkSize)
	var copied int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			// os.File.Write reports an error for any short write, so a nil
			// return means the whole chunk reached the image.
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				if errors.Is(writeErr, syscall.ENOSPC) {
					return fmt.Errorf("write %s after %d bytes: %w", destPath, copied, ErrDiskFull)
				}
				return fmt.Errorf("write %s after %d bytes: %w", destPath, copied, writeErr)
			}
			copied += int64(n)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("read %s after %d bytes: %w", sourcePath, copied, readErr)
		}
	}

	if err := dst.Sync(); err != nil {
		if errors.Is(err, syscall.ENOSPC) {
			return fmt.Errorf("sync %s: %w", destPath, ErrDiskFull)
		}
		return fmt.Errorf("sync %s: %w", destPath, err)
	}

	t.logger.Debug("file copied into image",
		"source", sourcePath, "destination", destPath, "bytes", copied)
	return nil
}
