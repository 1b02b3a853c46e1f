package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"DEBUG", DEBUG, false},
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{"WARN", WARN, false},
		{"WARNING", WARN, false},
		{"error", ERROR, false},
		{"LOUD", INFO, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLevel(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLevel(%q) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithConfig(Config{Level: WARN, Output: &buf})

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")
	log.Error("shown too")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("Expected levels below WARN to be filtered, got %q", output)
	}
	if !strings.Contains(output, "[WARN] shown") || !strings.Contains(output, "[ERROR] shown too") {
		t.Errorf("Expected WARN and ERROR lines, got %q", output)
	}
}

func TestWithFieldCarriesContext(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithConfig(Config{Level: DEBUG, Output: &buf}).
		WithField("component", "allocator").
		WithField("image", "/tmp/disk.img")

	log.Info("backing file allocated", "sizeBytes", 1024)

	output := buf.String()
	for _, want := range []string{"component=allocator", "image=/tmp/disk.img", "sizeBytes=1024"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in log line %q", want, output)
		}
	}
}

func TestFormatValueQuoting(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithConfig(Config{Level: DEBUG, Output: &buf})

	log.Info("message", "detail", "has spaces here")

	if !strings.Contains(buf.String(), `detail="has spaces here"`) {
		t.Errorf("Expected quoted value, got %q", buf.String())
	}
}
