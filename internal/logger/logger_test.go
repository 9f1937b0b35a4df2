package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_DefaultConfig(t *testing.T) {
	logger, err := New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	if logger.config.Level != "info" {
		t.Errorf("expected default level = info, got %s", logger.config.Level)
	}
	if logger.config.Format != "console" {
		t.Errorf("expected default format = console, got %s", logger.config.Format)
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	logger, err := New(&Config{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Test that we can log without errors
	logger.Debug("test debug message")
	logger.Info("test info message")
	logger.Warn("test warn message")
	logger.Error("test error message")
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(&Config{Level: "loud", Format: "console"}); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestNew_FileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	logger, err := New(&Config{Level: "info", Format: "json", OutputPath: logFile})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.WithFile("report.pdf").WithLanguage("japanese").Info("processing document")

	if err := logger.Sync(); err != nil {
		t.Logf("Sync() returned error (expected on stdout): %v", err)
	}

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "processing document") {
		t.Errorf("log file missing message: %s", content)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.SplitN(strings.TrimSpace(string(content)), "\n", 2)[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["file"] != "report.pdf" {
		t.Errorf("file field = %v, want report.pdf", entry["file"])
	}
	if entry["language"] != "japanese" {
		t.Errorf("language field = %v, want japanese", entry["language"])
	}
}

func TestWithFields(t *testing.T) {
	logger, err := New(&Config{Level: "info", Format: "console"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	child := logger.WithFields("workers", 4)
	if child == nil || child == logger {
		t.Error("WithFields should return a derived logger")
	}
	child.Info("derived logger works")
}

func TestInitAndGet(t *testing.T) {
	if err := Init(&Config{Level: "warn", Format: "console"}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logger := Get()
	if logger == nil {
		t.Fatal("Get() returned nil after Init")
	}
	if logger.config.Level != "warn" {
		t.Errorf("global level = %s, want warn", logger.config.Level)
	}
}

func TestGet_WithoutInit(t *testing.T) {
	defaultLogger = nil
	logger := Get()
	if logger == nil {
		t.Fatal("Get() should lazily create a default logger")
	}
}
