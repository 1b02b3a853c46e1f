package provision

import (
	"fmt"
	"os"

	"imgprov/pkg/logger"
	"imgprov/pkg/platform"
)

// Allocator reserves backing storage for a disk image.
type Allocator struct {
	platform platform.Platform
	logger   *logger.Logger
}

// NewAllocator creates a new backing-store allocator
func NewAllocator(p platform.Platform) *Allocator {
	return &Allocator{
		platform: p,
		logger:   logger.New().WithField("component", "allocator"),
	}
}

// Allocate extends the file at path to exactly sizeBytes. An existing file
// is opened and resized, not truncated away. The length set is O(1); the
// zero byte written at the last offset forces the filesystem to reserve the
// final extent rather than leave a sparse hole.
func (a *Allocator) Allocate(path string, sizeBytes uint64) error {
	if sizeBytes == 0 {
		return fmt.Errorf("allocate %s: %w", path, ErrInvalidSize)
	}

	file, err := a.platform.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open backing file %s: %w", path, err)
	}
	defer file.Close()

	if err := file.Truncate(int64(sizeBytes)); err != nil {
		return fmt.Errorf("failed to resize backing file %s to %d bytes: %w", path, sizeBytes, err)
	}

	if _, err := file.WriteAt([]byte{0}, int64(sizeBytes-1)); err != nil {
		return fmt.Errorf("failed to write final byte of backing file %s: %w", path, err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync backing file %s: %w", path, err)
	}

	a.logger.Debug("backing file allocated", "path", path, "sizeBytes", sizeBytes)
	return nil
}
