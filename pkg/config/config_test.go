package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"imgprov/pkg/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := config.DefaultConfig
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default configuration failed validation: %v", err)
	}

	size, err := cfg.Image.SizeBytes()
	if err != nil {
		t.Fatalf("Default size failed to parse: %v", err)
	}
	if size != 10*1024*1024*1024 {
		t.Errorf("Expected default size of 10GB, got %d", size)
	}
}

func TestSizeBytesParsing(t *testing.T) {
	tests := []struct {
		size string
		want uint64
	}{
		{"1024", 1024},
		{"4KB", 4 * 1024},
		{"512MB", 512 * 1024 * 1024},
		{"10GB", 10 * 1024 * 1024 * 1024},
		{"4KiB", 4 * 1024},
		{"512MiB", 512 * 1024 * 1024},
		{"1GiB", 1024 * 1024 * 1024},
		{"2TiB", 2 * 1024 * 1024 * 1024 * 1024},
		{" 1gib ", 1024 * 1024 * 1024},
	}

	for _, tt := range tests {
		ic := config.ImageConfig{Size: tt.size}
		got, err := ic.SizeBytes()
		if err != nil {
			t.Errorf("SizeBytes(%q) returned error: %v", tt.size, err)
			continue
		}
		if got != tt.want {
			t.Errorf("SizeBytes(%q) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestParseSizeIECAndSIAgree(t *testing.T) {
	// Both suffix families denote binary units here
	for _, pair := range [][2]string{
		{"4KiB", "4KB"},
		{"512MiB", "512MB"},
		{"10GiB", "10GB"},
	} {
		iec, err := config.ParseSize(pair[0])
		if err != nil {
			t.Fatalf("ParseSize(%q) returned error: %v", pair[0], err)
		}
		si, err := config.ParseSize(pair[1])
		if err != nil {
			t.Fatalf("ParseSize(%q) returned error: %v", pair[1], err)
		}
		if iec != si {
			t.Errorf("ParseSize(%q) = %d, ParseSize(%q) = %d; want equal", pair[0], iec, pair[1], si)
		}
	}
}

func TestParseSizeRejectsGarbage(t *testing.T) {
	for _, size := range []string{"lots", "GiB", "-1GB", "10XiB"} {
		if _, err := config.ParseSize(size); err == nil {
			t.Errorf("ParseSize(%q) expected error", size)
		}
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty image path", func(c *config.Config) { c.Image.Path = "" }},
		{"unparseable size", func(c *config.Config) { c.Image.Size = "lots" }},
		{"zero size", func(c *config.Config) { c.Image.Size = "0B" }},
		{"empty filesystem", func(c *config.Config) { c.Image.Filesystem = "" }},
		{"filesystem with path separator", func(c *config.Config) { c.Image.Filesystem = "ext4/../../bin/sh" }},
		{"empty mount dir", func(c *config.Config) { c.Mount.Dir = "" }},
		{"empty destination", func(c *config.Config) { c.Transfer.Destination = "" }},
		{"absolute destination", func(c *config.Config) { c.Transfer.Destination = "/etc/passwd" }},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "LOUD" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imgprov.yaml")
	content := `image:
  path: /var/lib/images/data.img
  size: 2GiB
  filesystem: ext4
mount:
  dir: /mnt/data
  strictUnmount: true
transfer:
  source: /srv/payload.bin
  destination: payload.bin
logging:
  level: DEBUG
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, loadedFrom, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loadedFrom != path {
		t.Errorf("Expected config loaded from %s, got %s", path, loadedFrom)
	}
	if cfg.Image.Path != "/var/lib/images/data.img" {
		t.Errorf("Unexpected image path: %s", cfg.Image.Path)
	}
	if !cfg.Mount.StrictUnmount {
		t.Error("Expected strictUnmount to be set")
	}
	if cfg.Transfer.Destination != "payload.bin" {
		t.Errorf("Unexpected destination: %s", cfg.Transfer.Destination)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Unexpected log level: %s", cfg.Logging.Level)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imgprov.yaml")
	if err := os.WriteFile(path, []byte("image:\n  size: 512MiB\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Image.Size != "512MiB" {
		t.Errorf("Expected overridden size, got %s", cfg.Image.Size)
	}
	if cfg.Image.Path != config.DefaultConfig.Image.Path {
		t.Errorf("Expected default image path, got %s", cfg.Image.Path)
	}
	if cfg.Image.Filesystem != "ext4" {
		t.Errorf("Expected default filesystem, got %s", cfg.Image.Filesystem)
	}
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	_, _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing explicit config path")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imgprov.yaml")
	if err := os.WriteFile(path, []byte("image:\n  size: 1GiB\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("IMGPROV_IMAGE_SIZE", "64MiB")
	t.Setenv("IMGPROV_STRICT_UNMOUNT", "true")

	cfg, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Image.Size != "64MiB" {
		t.Errorf("Expected env to win over file, got %s", cfg.Image.Size)
	}
	if !cfg.Mount.StrictUnmount {
		t.Error("Expected IMGPROV_STRICT_UNMOUNT to enable strict unmount")
	}
}

func TestLoadInvalidFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imgprov.yaml")
	if err := os.WriteFile(path, []byte("transfer:\n  destination: /abs/path\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, _, err := config.Load(path); err == nil {
		t.Fatal("Expected validation failure for absolute destination")
	}
}

func TestGenerateDefaultConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imgprov.yaml")
	if err := config.GenerateDefaultConfig(path); err != nil {
		t.Fatalf("GenerateDefaultConfig failed: %v", err)
	}

	cfg, loadedFrom, err := config.Load(path)
	if err != nil {
		t.Fatalf("Reloading generated config failed: %v", err)
	}
	if loadedFrom != path {
		t.Errorf("Expected config loaded from %s, got %s", path, loadedFrom)
	}
	if *cfg != config.DefaultConfig {
		t.Errorf("Generated config does not round-trip: %+v", cfg)
	}
}
