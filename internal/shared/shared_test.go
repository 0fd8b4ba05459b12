package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsBooleanString(t *testing.T) {
	tc := []struct {
		name string
		val  string
		want bool
	}{
		{name: "lowercase true", val: "true", want: true},
		{name: "lowercase false", val: "false", want: true},
		{name: "mixed case", val: "TrUe", want: true},
		{name: "not a boolean", val: "playing", want: false},
		{name: "empty string", val: "", want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := IsBooleanString(tt.val)
			if got != tt.want {
				t.Errorf("IsBooleanString(%q) = %v, want %v", tt.val, got, tt.want)
			}
		})
	}
}

func TestPlatformPredicates(t *testing.T) {
	original := getRuntime
	defer func() { getRuntime = original }()

	tc := []struct {
		name    string
		runtime string
		windows bool
		mac     bool
		linux   bool
	}{
		{name: "windows", runtime: "windows", windows: true},
		{name: "darwin", runtime: "darwin", mac: true},
		{name: "linux", runtime: "linux", linux: true},
		{name: "freebsd counts as linux", runtime: "freebsd", linux: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			getRuntime = func() string { return tt.runtime }

			if got := IsWindows(); got != tt.windows {
				t.Errorf("IsWindows() = %v, want %v", got, tt.windows)
			}
			if got := IsMac(); got != tt.mac {
				t.Errorf("IsMac() = %v, want %v", got, tt.mac)
			}
			if got := IsLinux(); got != tt.linux {
				t.Errorf("IsLinux() = %v, want %v", got, tt.linux)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		ms   int
		want string
	}{
		{ms: 0, want: "0:00"},
		{ms: 59000, want: "0:59"},
		{ms: 60000, want: "1:00"},
		{ms: 266000, want: "4:26"},
		{ms: 3725000, want: "62:05"},
	}

	for _, tt := range tc {
		if got := FormatDuration(tt.ms); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestGenerateState(t *testing.T) {
	first, err := GenerateState()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := GenerateState()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != 32 {
		t.Errorf("expected 32 hex chars, got %d", len(first))
	}
	if first == second {
		t.Error("expected distinct state tokens")
	}
}

func TestMarshalJSON(t *testing.T) {
	payload := map[string]string{"key": "value"}

	compact, err := MarshalJSON(payload, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(compact) != `{"key":"value"}` {
		t.Errorf("unexpected compact output %s", compact)
	}

	pretty, err := MarshalJSON(payload, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(pretty), "\n") {
		t.Errorf("expected indented output, got %s", pretty)
	}

	if _, err := MarshalJSON(make(chan int), false); err == nil {
		t.Error("expected error for non-serializable value")
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pbx.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("hello")

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("log file should exist: %v", err)
	}
}

func TestGenerateID(t *testing.T) {
	first := GenerateID()
	second := GenerateID()

	if first == "" || second == "" {
		t.Fatal("expected non-empty ids")
	}
	if first == second {
		t.Error("expected distinct ids")
	}
}
