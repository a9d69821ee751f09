package clog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_Unit(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		logger, err := New(nil)
		if err != nil {
			t.Fatalf("New(nil) error: %v", err)
		}
		if logger == nil {
			t.Fatal("Expected logger but got nil")
		}
	})

	t.Run("invalid level returns error", func(t *testing.T) {
		_, err := New(&Config{Level: "verbose"})
		if err == nil {
			t.Error("Expected error for invalid level")
		}
	})

	t.Run("invalid format returns error", func(t *testing.T) {
		_, err := New(&Config{Format: "xml"})
		if err == nil {
			t.Error("Expected error for invalid format")
		}
	})
}

func TestParseLevel_Unit(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"warn", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"fatal", FatalLevel, false},
		{"trace", InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v，期望 %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFileOutput_Unit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	logger, err := New(&Config{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	logger.Info("hello", String("key", "value"))
	logger.Debug("should be filtered")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "hello") {
		t.Errorf("日志输出缺少消息: %q", out)
	}
	if !strings.Contains(out, `"key":"value"`) {
		t.Errorf("日志输出缺少字段: %q", out)
	}
	if strings.Contains(out, "should be filtered") {
		t.Errorf("debug 日志未被级别过滤: %q", out)
	}
}

func TestWith_Unit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	logger, err := New(&Config{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	child := logger.With(String("component", "flake"))
	child.Info("derived")

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"component":"flake"`) {
		t.Errorf("子 Logger 输出缺少预设字段: %q", string(data))
	}
}

func TestDiscard_Unit(t *testing.T) {
	logger := Discard()
	// 所有调用都不应 panic
	logger.Debug("msg")
	logger.Info("msg", String("k", "v"))
	logger.Warn("msg")
	logger.Error("msg")
	if logger.With(String("k", "v")) == nil {
		t.Error("Discard().With() should return a logger")
	}
}
