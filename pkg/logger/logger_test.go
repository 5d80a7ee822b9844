package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

// resetLog clears the package logger for the duration of a test.
func resetLog(t *testing.T) {
	t.Helper()
	Log = nil
	t.Cleanup(func() { Log = nil })
}

func TestInit_LevelGate(t *testing.T) {
	tests := []struct {
		level   string
		enabled zapcore.Level
		dropped zapcore.Level
	}{
		{level: "debug", enabled: zapcore.DebugLevel},
		{level: "info", enabled: zapcore.InfoLevel, dropped: zapcore.DebugLevel},
		{level: "warn", enabled: zapcore.WarnLevel, dropped: zapcore.InfoLevel},
		{level: "error", enabled: zapcore.ErrorLevel, dropped: zapcore.WarnLevel},
		{level: "verbose", enabled: zapcore.InfoLevel, dropped: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			resetLog(t)

			if err := Init(tt.level, ""); err != nil {
				t.Fatalf("Init(%q) failed: %v", tt.level, err)
			}
			core := Named("catalog").Core()
			if !core.Enabled(tt.enabled) {
				t.Errorf("level %q should enable %v", tt.level, tt.enabled)
			}
			if tt.level != "debug" && core.Enabled(tt.dropped) {
				t.Errorf("level %q should drop %v", tt.level, tt.dropped)
			}
		})
	}
}

func TestNamed_BeforeInitIsNoop(t *testing.T) {
	resetLog(t)

	log := Named("resolver")
	if log == nil {
		t.Fatal("Named() before Init returned nil")
	}
	for _, lvl := range []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.ErrorLevel} {
		if log.Core().Enabled(lvl) {
			t.Errorf("no-op logger should not enable %v", lvl)
		}
	}
	log.Error("dropped")

	if Log != nil {
		t.Error("Named() must not initialize the package logger")
	}
	if err := Sync(); err != nil {
		t.Errorf("Sync() before Init = %v, want nil", err)
	}
}

func TestNamed_WritesComponentToFile(t *testing.T) {
	resetLog(t)
	logFile := filepath.Join(t.TempDir(), "corvid.log")

	if err := Init("info", logFile); err != nil {
		t.Fatalf("Init() with log file failed: %v", err)
	}
	Named("message-service").Info("bot exchange stored")
	Named("track-cache").Debug("below level")
	// Sync may fail on stdout depending on the platform.
	_ = Sync()

	f, err := os.Open(logFile)
	if err != nil {
		t.Fatalf("log file was not created: %v", err)
	}
	defer f.Close()

	var entries []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("log line is not JSON: %q", scanner.Text())
		}
		entries = append(entries, entry)
	}

	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if got := entries[0]["logger"]; got != "message-service" {
		t.Errorf("logger = %v, want message-service", got)
	}
	if got := entries[0]["msg"]; got != "bot exchange stored" {
		t.Errorf("msg = %v, want %q", got, "bot exchange stored")
	}
}
