package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"", zapcore.WarnLevel},
		{"warn", zapcore.WarnLevel},
		{"debug", zapcore.DebugLevel},
	}

	for _, tt := range tests {
		log, err := NewLogger(tt.level)
		if err != nil {
			t.Fatalf("NewLogger(%q) error = %v", tt.level, err)
		}
		if got := log.Level(); got != tt.want {
			t.Errorf("level %q: got %v, want %v", tt.level, got, tt.want)
		}
	}

	if _, err := NewLogger("trace"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNopDoesNotPanic(t *testing.T) {
	log := NewNop()
	log.Debugw("debug message", "key", "value")
	log.Infow("info message")
	log.Warnw("warn message", "count", 3)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.WarnLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{" warning ", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"trace", zapcore.WarnLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
