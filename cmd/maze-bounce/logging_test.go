package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/maze-bounce/config"
)

func TestSetupLogging_InteractiveDiscards(t *testing.T) {
	log, closer, err := setupLogging(config.LogConfig{Level: "debug", Format: "text"}, true)
	if err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}
	if closer != nil {
		t.Error("Expected no closer without a log file")
	}
	if log.Handler().Enabled(t.Context(), 0) {
		t.Error("Expected interactive logs to be discarded")
	}
}

func TestSetupLogging_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "maze-bounce.log")
	log, closer, err := setupLogging(config.LogConfig{Level: "info", Format: "json", File: path}, true)
	if err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}
	log.Info("test message", "n", 1)
	closer.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected log file to be created: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected log file to contain content")
	}
}

func TestSetupLogging_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "maze-bounce.log")

	data := make([]byte, maxLogSize+1)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write large log file: %v", err)
	}

	_, closer, err := setupLogging(config.LogConfig{Level: "info", Format: "text", File: path}, false)
	if err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}
	defer closer.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected rotated and fresh log files, got %d entries", len(entries))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > maxLogSize {
		t.Errorf("Expected new log file to be smaller than %d bytes, got %d", maxLogSize, info.Size())
	}
}

func TestSetupLogging_BadLevel(t *testing.T) {
	if _, _, err := setupLogging(config.LogConfig{Level: "chatty"}, false); err == nil {
		t.Error("Expected error for unknown level")
	}
}
