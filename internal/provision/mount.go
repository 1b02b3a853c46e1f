package provision

import (
	"fmt"
	"strings"

	"imgprov/pkg/logger"
	"imgprov/pkg/platform"
)

// MountController attaches a formatted image to a directory in the file
// namespace and detaches it again. Implementations are swappable so tests
// without privileges can run the lifecycle against a fake.
type MountController interface {
	Mount(imagePath, mountDir, fsType string) error
	Unmount(mountDir string) error
}

// LoopMountController mounts the image through a loop device. It tracks the
// single mount it may hold so the Unmounted -> Mounted -> Unmounted
// transitions are enforced for this session; anything beyond its own
// bookkeeping is left to the kernel to report.
type LoopMountController struct {
	platform   platform.Platform
	logger     *logger.Logger
	loopDevice string
	mountDir   string
	mounted    bool
}

// NewLoopMountController creates a new loop-device mount controller
func NewLoopMountController(p platform.Platform) *LoopMountController {
	return &LoopMountController{
		platform: p,
		logger:   logger.New().WithField("component", "mount-controller"),
	}
}

// Mount ensures mountDir exists, attaches imagePath to a free loop device
// and mounts it with default flags.
func (c *LoopMountController) Mount(imagePath, mountDir, fsType string) error {
	if c.mounted {
		return fmt.Errorf("mount %s: %w", mountDir, ErrAlreadyMounted)
	}

	// Creating the directory is idempotent; an existing one is fine
	if err := c.platform.MkdirAll(mountDir, 0755); err != nil {
		return fmt.Errorf("failed to create mount directory %s: %w", mountDir, err)
	}

	loopDevice, err := c.attachLoopDevice(imagePath)
	if err != nil {
		return err
	}

	if err := c.platform.Mount(loopDevice, mountDir, fsType, 0, ""); err != nil {
		// The attach succeeded, so detach before surfacing the mount error.
		// The image file itself is left as-is.
		if detachErr := c.detachLoopDevice(loopDevice); detachErr != nil {
			c.logger.Warn("failed to detach loop device after mount failure",
				"device", loopDevice, "error", detachErr)
		}
		return fmt.Errorf("failed to mount %s at %s: %w", loopDevice, mountDir, err)
	}

	c.loopDevice = loopDevice
	c.mountDir = mountDir
	c.mounted = true

	c.logger.Debug("image mounted", "device", loopDevice, "mountDir", mountDir, "fsType", fsType)
	return nil
}

// Unmount detaches the filesystem at mountDir and releases the loop device.
// Flags 0 means non-forced and non-lazy: an in-use mount fails loudly and
// the retry decision stays with the operator.
func (c *LoopMountController) Unmount(mountDir string) error {
	if !c.mounted || c.mountDir != mountDir {
		return fmt.Errorf("unmount %s: %w", mountDir, ErrNotMounted)
	}

	if err := c.platform.Unmount(mountDir, 0); err != nil {
		return fmt.Errorf("failed to unmount %s: %w", mountDir, err)
	}

	c.mounted = false
	c.mountDir = ""

	device := c.loopDevice
	c.loopDevice = ""
	if err := c.detachLoopDevice(device); err != nil {
		return fmt.Errorf("unmounted %s but failed to detach %s: %w", mountDir, device, err)
	}

	c.logger.Debug("image unmounted", "mountDir", mountDir, "device", device)
	return nil
}

// attachLoopDevice finds a free loop device and attaches the backing file
func (c *LoopMountController) attachLoopDevice(imagePath string) (string, error) {
	output, err := c.platform.CreateCommand("losetup", "-f").Output()
	if err != nil {
		return "", fmt.Errorf("failed to find free loop device: %w", err)
	}

	loopDevice := strings.TrimSpace(string(output))

	if err := c.platform.CreateCommand("losetup", loopDevice, imagePath).Run(); err != nil {
		return "", fmt.Errorf("failed to attach %s to %s: %w", imagePath, loopDevice, err)
	}

	return loopDevice, nil
}

func (c *LoopMountController) detachLoopDevice(device string) error {
	return c.platform.CreateCommand("losetup", "-d", device).Run()
}
