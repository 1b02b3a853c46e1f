package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"imgprov/internal/verify"
)

func newVerifyCmd() *cobra.Command {
	var (
		imagePath string
		innerPath string
		source    string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Read a file back out of an unmounted image",
		Long: `Open the unmounted image, parse the filesystem inside it and read the
file at --path. With --source the contents are compared byte for byte
against the source file instead of printed.

Examples:
  imgprov verify --path file.txt
  imgprov verify --image /tmp/disk.img --path docs/notes.txt --source notes.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if imagePath == "" {
				imagePath = cfg.Image.Path
			}
			if innerPath == "" {
				innerPath = cfg.Transfer.Destination
			}

			if source != "" {
				if err := verify.RoundTrip(imagePath, innerPath, source); err != nil {
					return err
				}
				fmt.Printf("Verified: %s inside %s matches %s\n", innerPath, imagePath, source)
				return nil
			}

			data, err := verify.ReadFile(imagePath, innerPath)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "Backing image path")
	cmd.Flags().StringVar(&innerPath, "path", "", "Path inside the image")
	cmd.Flags().StringVar(&source, "source", "", "Host file to compare against")

	return cmd
}
