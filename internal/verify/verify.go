package verify

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	diskfs "github.com/diskfs/go-diskfs"
)

// ReadFile opens the unmounted image read-only and returns the contents of
// innerPath from the filesystem inside it. No mount privileges are needed;
// the filesystem is parsed straight out of the backing file.
func ReadFile(imagePath, innerPath string) ([]byte, error) {
	disk, err := diskfs.Open(imagePath, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", imagePath, err)
	}

	fs, err := disk.GetFilesystem(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read filesystem in %s: %w", imagePath, err)
	}

	file, err := fs.OpenFile(normalizePath(innerPath), os.O_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s inside %s: %w", innerPath, imagePath, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s inside %s: %w", innerPath, imagePath, err)
	}

	return data, nil
}

// RoundTrip compares the file stored at innerPath inside the image against
// sourcePath on the host, byte for byte.
func RoundTrip(imagePath, innerPath, sourcePath string) error {
	got, err := ReadFile(imagePath, innerPath)
	if err != nil {
		return err
	}

	want, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read source %s: %w", sourcePath, err)
	}

	if !bytes.Equal(got, want) {
		return fmt.Errorf("image copy at %s differs from %s (%d bytes vs %d)",
			innerPath, sourcePath, len(got), len(want))
	}

	return nil
}

// normalizePath makes a path absolute within the image filesystem
func normalizePath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
