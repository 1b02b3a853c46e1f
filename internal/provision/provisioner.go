package provision

import (
	"fmt"

	"imgprov/pkg/logger"
	"imgprov/pkg/platform"
)

// Config carries the paths and sizes for one provisioning run. It is passed
// in explicitly so distinct configurations are safe in one process.
type Config struct {
	ImagePath     string
	SizeBytes     uint64
	Filesystem    string
	MountDir      string
	SourcePath    string
	Destination   string
	StrictUnmount bool
}

// Report records the outcome of the degraded (non-fatal) steps of a run.
type Report struct {
	ImagePath   string
	SizeBytes   uint64
	MountDir    string
	TransferErr error
	UnmountErr  error
}

// Degraded returns true when the run completed but a non-fatal step failed
func (r *Report) Degraded() bool {
	return r.TransferErr != nil || r.UnmountErr != nil
}

// Provisioner sequences one image lifecycle:
// allocate -> format -> mount -> transfer -> unmount.
type Provisioner struct {
	config    Config
	allocator *Allocator
	formatter Formatter
	mounter   MountController
	transfer  *Transfer
	logger    *logger.Logger
}

// New wires a provisioner from injected capabilities so the formatter and
// mount behavior can be replaced without touching the lifecycle.
func New(config Config, formatter Formatter, mounter MountController, p platform.Platform) *Provisioner {
	return &Provisioner{
		config:    config,
		allocator: NewAllocator(p),
		formatter: formatter,
		mounter:   mounter,
		transfer:  NewTransfer(p),
		logger:    logger.New().WithField("component", "provisioner"),
	}
}

// NewDefault builds a provisioner with the real mkfs formatter and the loop
// mount controller.
func NewDefault(config Config, p platform.Platform) *Provisioner {
	return New(config, NewMkfsFormatter(p, config.Filesystem), NewLoopMountController(p), p)
}

// Run executes the lifecycle once, synchronously. The returned error is a
// fatal allocate, format or mount failure (or an unmount failure under
// StrictUnmount); transfer and unmount problems are otherwise reported
// through the Report only. No step is retried and nothing created is ever
// deleted.
func (p *Provisioner) Run() (*Report, error) {
	log := p.logger.WithField("image", p.config.ImagePath)
	report := &Report{
		ImagePath: p.config.ImagePath,
		SizeBytes: p.config.SizeBytes,
		MountDir:  p.config.MountDir,
	}

	if err := p.allocator.Allocate(p.config.ImagePath, p.config.SizeBytes); err != nil {
		return report, fmt.Errorf("allocation failed: %w", err)
	}
	log.Info("backing file allocated", "sizeBytes", p.config.SizeBytes)

	if err := p.formatter.Format(p.config.ImagePath); err != nil {
		return report, fmt.Errorf("format failed: %w", err)
	}
	log.Info("image formatted", "filesystem", p.formatter.Type())

	if err := p.mounter.Mount(p.config.ImagePath, p.config.MountDir, p.formatter.Type()); err != nil {
		// Nothing is mounted at this point, so there is nothing to tear down
		return report, fmt.Errorf("mount failed: %w", err)
	}
	log.Info("image mounted", "mountDir", p.config.MountDir)

	if err := p.transfer.CopyInto(p.config.SourcePath, p.config.MountDir, p.config.Destination); err != nil {
		// A failed copy must not leak the mount; record it and continue to
		// the unmount
		log.Warn("transfer failed", "source", p.config.SourcePath, "error", err)
		report.TransferErr = err
	} else {
		log.Info("file copied", "source", p.config.SourcePath, "destination", p.config.Destination)
	}

	if err := p.mounter.Unmount(p.config.MountDir); err != nil {
		log.Warn("unmount failed, mount left in place", "mountDir", p.config.MountDir, "error", err)
		report.UnmountErr = err
		if p.config.StrictUnmount {
			return report, fmt.Errorf("unmount failed: %w", err)
		}
	} else {
		log.Info("image unmounted", "mountDir", p.config.MountDir)
	}

	return report, nil
}
