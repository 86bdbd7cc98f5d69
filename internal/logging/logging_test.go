package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"default", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, tt.verbose)
			logger.Debug("debug record")
			logger.Info("info record", "port", "/dev/ttyUSB0")

			out := buf.String()
			if got := strings.Contains(out, "debug record"); got != tt.wantDebug {
				t.Errorf("debug record present = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "info record") || !strings.Contains(out, "/dev/ttyUSB0") {
				t.Errorf("info record missing:\n%s", out)
			}
			if strings.Contains(out, "\x1b[") {
				t.Errorf("colors written to a non-terminal:\n%q", out)
			}
		})
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serialport.log")

	logger, closeFn, err := OpenFile(path, false)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	logger.Info("port opened")
	if err := closeFn(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "port opened") {
		t.Errorf("log file content = %q", data)
	}
}

func TestIsTerminal(t *testing.T) {
	var buf bytes.Buffer
	if isTerminal(&buf) {
		t.Error("bytes.Buffer reported as a terminal")
	}

	f, err := os.Create(filepath.Join(t.TempDir(), "out.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if isTerminal(f) {
		t.Error("regular file reported as a terminal")
	}

	null, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Skip("no null device")
	}
	defer null.Close()
	if isTerminal(null) {
		t.Error("null device reported as a terminal")
	}
}
