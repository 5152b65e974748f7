package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be a no-op when no level is configured")
	}
}

func TestInitialize_FromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	core := GetLogger().Core()
	if !core.Enabled(zapcore.WarnLevel) || core.Enabled(zapcore.InfoLevel) {
		t.Error("logger level should be warn")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestLogMessage_HexDumpAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	LogMessage("sent", []uint32{32}, "Dictionary{RequestCurrentWeather=1}", []byte{0x01, 0x20})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["hex_dump"] != "0120" {
		t.Errorf("hex_dump = %v, want 0120", fields["hex_dump"])
	}
	if fields["direction"] != "sent" {
		t.Errorf("direction = %v", fields["direction"])
	}
}

func TestDumps(t *testing.T) {
	if got := asciiDump([]byte("ab\x00c")); got != "ab.c" {
		t.Errorf("asciiDump() = %q", got)
	}
	long := make([]byte, maxDumpBytes+10)
	if got := hexDump(long); !strings.HasSuffix(got, "...") || len(got) != 2*maxDumpBytes+3 {
		t.Errorf("hexDump() did not truncate, len = %d", len(got))
	}
	if hexDump(nil) != "" || asciiDump(nil) != "" {
		t.Error("empty input should give empty dumps")
	}
}

func TestInitializeTo_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weathersync.jsonl")
	if err := InitializeTo("LOUD", path); err != nil {
		t.Fatalf("InitializeTo() error = %v", err)
	}
	t.Cleanup(func() { SetLogger(nil) })

	LogConnection("ws://10.0.0.5:8080/ws", "connected")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want unknown-level warning plus event:\n%s", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if entry["level"] != "info" || entry["msg"] != "Link connected" || entry["url"] != "ws://10.0.0.5:8080/ws" {
		t.Errorf("entry = %v", entry)
	}
}

func TestLogMessage_SkippedAboveDebug(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	LogMessage("received", []uint32{33}, "Dictionary{}", []byte{0x01})
	if logs.Len() != 0 {
		t.Errorf("got %d entries at info level, want 0", logs.Len())
	}
}
