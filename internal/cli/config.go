package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"imgprov/pkg/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}

	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "./imgprov.yaml"
			if len(args) == 1 {
				path = args[0]
			}

			if err := config.GenerateDefaultConfig(path); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			fmt.Printf("Wrote default configuration to %s\n", path)
			return nil
		},
	}
}
