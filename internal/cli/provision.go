package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"imgprov/internal/provision"
	"imgprov/pkg/config"
	"imgprov/pkg/platform"
)

func newProvisionCmd() *cobra.Command {
	var (
		imagePath     string
		size          string
		fsType        string
		mountDir      string
		source        string
		destination   string
		strictUnmount bool
	)

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Run one disk image lifecycle",
		Long: `Allocate the backing file, format it, mount it, copy the source file
into it and unmount it. Flags override the configuration file.

Examples:
  imgprov provision --source /etc/hostname
  imgprov provision --image /tmp/disk.img --size 1GiB --source notes.txt --dest docs/notes.txt
  imgprov provision --source data.bin --strict-unmount`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flag values win over the loaded configuration
			if imagePath == "" {
				imagePath = cfg.Image.Path
			}
			if size == "" {
				size = cfg.Image.Size
			}
			if fsType == "" {
				fsType = cfg.Image.Filesystem
			}
			if mountDir == "" {
				mountDir = cfg.Mount.Dir
			}
			if source == "" {
				source = cfg.Transfer.Source
			}
			if destination == "" {
				destination = cfg.Transfer.Destination
			}
			if !cmd.Flags().Changed("strict-unmount") {
				strictUnmount = cfg.Mount.StrictUnmount
			}

			if source == "" {
				return fmt.Errorf("no transfer source: set --source or transfer.source in the config")
			}

			sizeBytes, err := config.ParseSize(size)
			if err != nil {
				return fmt.Errorf("invalid size %q: %w", size, err)
			}

			return runProvision(provision.Config{
				ImagePath:     imagePath,
				SizeBytes:     sizeBytes,
				Filesystem:    fsType,
				MountDir:      mountDir,
				SourcePath:    source,
				Destination:   destination,
				StrictUnmount: strictUnmount,
			})
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "Backing image path")
	cmd.Flags().StringVar(&size, "size", "", "Image size, e.g. 1GiB or 512MB")
	cmd.Flags().StringVar(&fsType, "fs-type", "", "Filesystem type (mkfs.<type> must exist)")
	cmd.Flags().StringVar(&mountDir, "mount-dir", "", "Mount point directory")
	cmd.Flags().StringVar(&source, "source", "", "File to copy into the image")
	cmd.Flags().StringVar(&destination, "dest", "", "Destination path relative to the mount point")
	cmd.Flags().BoolVar(&strictUnmount, "strict-unmount", false, "Treat an unmount failure as fatal")

	return cmd
}

func runProvision(pc provision.Config) error {
	provisioner := provision.NewDefault(pc, platform.NewPlatform())

	report, err := provisioner.Run()
	if err != nil {
		return err
	}

	fmt.Printf("Provisioned %s (%d bytes, %s)\n", report.ImagePath, report.SizeBytes, pc.Filesystem)
	if report.TransferErr != nil {
		fmt.Printf("Transfer failed: %v\n", report.TransferErr)
	} else {
		fmt.Printf("Copied %s to %s\n", pc.SourcePath, pc.Destination)
	}
	if report.UnmountErr != nil {
		fmt.Printf("Unmount failed, mount left at %s: %v\n", report.MountDir, report.UnmountErr)
	}

	return nil
}
