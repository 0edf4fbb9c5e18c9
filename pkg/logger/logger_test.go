package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel("release") })

	tests := []struct {
		mode string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"release", zapcore.InfoLevel},
		{"test", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
	}
	for _, tt := range tests {
		SetLevel(tt.mode)
		if got := Level(); got != tt.want {
			t.Fatalf("SetLevel(%q): level = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestDefaultLoggerIsUsable(t *testing.T) {
	Log.Info("no-op before InitLogger")
}

func TestNewWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log := New(path)
	log.Info("quiz submitted", zap.Int("score", 8))
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log line is not JSON: %s", data)
	}
	if entry["msg"] != "quiz submitted" || entry["score"] != float64(8) {
		t.Fatalf("unexpected entry: %v", entry)
	}
}
