package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"imgprov/pkg/config"
	"imgprov/pkg/logger"
)

var (
	cfg        *config.Config
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "imgprov",
	Short: "Loopback disk image provisioner",
	Long: "imgprov allocates a fixed-size backing file, formats it with a " +
		"filesystem, mounts it, copies a file into it and unmounts it.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, _, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		level, err := logger.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return err
		}
		logger.SetDefaultLevel(level)

		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level (DEBUG, INFO, WARN, ERROR)")

	rootCmd.AddCommand(newProvisionCmd())
	rootCmd.AddCommand(newVerifyCmd())
	rootCmd.AddCommand(newConfigCmd())
}
