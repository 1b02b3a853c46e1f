package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/c2h5oh/datasize"
	"gopkg.in/yaml.v3"
)

// Config holds the complete provisioner configuration
type Config struct {
	Image    ImageConfig    `yaml:"image" json:"image"`
	Mount    MountConfig    `yaml:"mount" json:"mount"`
	Transfer TransferConfig `yaml:"transfer" json:"transfer"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
}

// ImageConfig describes the backing file and the filesystem written into it
type ImageConfig struct {
	Path       string `yaml:"path" json:"path"`
	Size       string `yaml:"size" json:"size"`
	Filesystem string `yaml:"filesystem" json:"filesystem"`
}

// MountConfig describes where and how the image is mounted
type MountConfig struct {
	Dir           string `yaml:"dir" json:"dir"`
	StrictUnmount bool   `yaml:"strictUnmount" json:"strictUnmount"`
}

// TransferConfig describes the file copied into the mounted image
type TransferConfig struct {
	Source      string `yaml:"source" json:"source"`
	Destination string `yaml:"destination" json:"destination"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// DefaultConfig Default configuration values. The image, mount and
// destination defaults are the paths the tool historically hard-coded.
var DefaultConfig = Config{
	Image: ImageConfig{
		Path:       "/tmp/virtual_disk.img",
		Size:       "10GB",
		Filesystem: "ext4",
	},
	Mount: MountConfig{
		Dir:           "/tmp/virtual_disk",
		StrictUnmount: false,
	},
	Transfer: TransferConfig{
		Destination: "file.txt",
	},
	Logging: LoggingConfig{
		Level: "INFO",
	},
}

// SizeBytes parses the human-readable size ("10GB", "512MiB") into bytes
func (c *ImageConfig) SizeBytes() (uint64, error) {
	return ParseSize(c.Size)
}

// ParseSize parses a human-readable byte size. datasize treats "KB"/"MB"/...
// as binary units but does not know the IEC spellings, so "KiB"/"MiB"/...
// are folded onto the same units before parsing; both forms mean the same
// number of bytes.
func ParseSize(s string) (uint64, error) {
	normalized := strings.TrimSpace(s)
	if n := len(normalized); n >= 3 {
		last, prev := normalized[n-1], normalized[n-2]
		if (last == 'b' || last == 'B') && (prev == 'i' || prev == 'I') {
			normalized = normalized[:n-2] + string(last)
		}
	}

	size, err := datasize.ParseString(normalized)
	if err != nil {
		return 0, err
	}
	return size.Bytes(), nil
}

// Load loads configuration from multiple sources in order of precedence:
// 1. Environment variables (highest precedence)
// 2. Configuration file (explicit path wins over discovery)
// 3. Default values (lowest precedence)
func Load(explicitPath string) (*Config, string, error) {
	config := DefaultConfig

	path, err := loadFromFile(&config, explicitPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config file: %w", err)
	}

	loadFromEnv(&config)

	if e := config.Validate(); e != nil {
		return nil, "", fmt.Errorf("configuration validation failed: %w", e)
	}

	return &config, path, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(config *Config, explicitPath string) (string, error) {
	if explicitPath != "" {
		// A path the caller named must exist
		data, err := os.ReadFile(explicitPath)
		if err != nil {
			return "", fmt.Errorf("failed to read config file %s: %w", explicitPath, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return "", fmt.Errorf("failed to parse config file %s: %w", explicitPath, err)
		}
		return explicitPath, nil
	}

	configPaths := []string{
		os.Getenv("IMGPROV_CONFIG_PATH"), // Custom path from environment
		"./imgprov.yaml",                 // Current directory
		"/etc/imgprov/config.yaml",       // System-wide
	}

	for _, path := range configPaths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return "", fmt.Errorf("failed to parse config file %s: %w", path, err)
		}

		return path, nil
	}

	return "built-in defaults (no config file found)", nil
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(config *Config) {
	if val := os.Getenv("IMGPROV_IMAGE_PATH"); val != "" {
		config.Image.Path = val
	}
	if val := os.Getenv("IMGPROV_IMAGE_SIZE"); val != "" {
		config.Image.Size = val
	}
	if val := os.Getenv("IMGPROV_IMAGE_FILESYSTEM"); val != "" {
		config.Image.Filesystem = val
	}
	if val := os.Getenv("IMGPROV_MOUNT_DIR"); val != "" {
		config.Mount.Dir = val
	}
	if val := os.Getenv("IMGPROV_STRICT_UNMOUNT"); val != "" {
		config.Mount.StrictUnmount = val == "true" || val == "1"
	}
	if val := os.Getenv("IMGPROV_SOURCE"); val != "" {
		config.Transfer.Source = val
	}
	if val := os.Getenv("IMGPROV_DESTINATION"); val != "" {
		config.Transfer.Destination = val
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		config.Logging.Level = val
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Image.Path == "" {
		return fmt.Errorf("image path is required")
	}

	size, err := c.Image.SizeBytes()
	if err != nil {
		return fmt.Errorf("invalid image size %q: %w", c.Image.Size, err)
	}
	if size == 0 {
		return fmt.Errorf("image size must be greater than zero")
	}

	if c.Image.Filesystem == "" {
		return fmt.Errorf("filesystem type is required")
	}
	if filepath.Base(c.Image.Filesystem) != c.Image.Filesystem {
		return fmt.Errorf("invalid filesystem type: %s", c.Image.Filesystem)
	}

	if c.Mount.Dir == "" {
		return fmt.Errorf("mount directory is required")
	}

	if c.Transfer.Destination == "" {
		return fmt.Errorf("transfer destination is required")
	}
	if filepath.IsAbs(c.Transfer.Destination) {
		return fmt.Errorf("transfer destination must be relative to the mount directory: %s", c.Transfer.Destination)
	}

	validLevels := map[string]bool{
		"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true,
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) SaveToFile(path string) error {
	data, err := c.ToYAML()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GenerateDefaultConfig creates a default configuration file
func GenerateDefaultConfig(path string) error {
	config := DefaultConfig
	return config.SaveToFile(path)
}
