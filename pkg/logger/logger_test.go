package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q): want %s, got %s", in, want, got)
		}
	}
}

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		env     string
		level   string
		debugOn bool
		warnOn  bool
	}{
		{env: "production", level: "info", debugOn: false, warnOn: true},
		{env: "development", level: "debug", debugOn: true, warnOn: true},
		{env: "production", level: "error", debugOn: false, warnOn: false},
	}

	for _, tt := range tests {
		l, err := NewLogger(Options{Environment: tt.env, Level: tt.level, Service: "agenda", Version: "test"})
		if err != nil {
			t.Fatalf("%s/%s: new logger: %v", tt.env, tt.level, err)
		}
		if got := l.Core().Enabled(zapcore.DebugLevel); got != tt.debugOn {
			t.Errorf("%s/%s: debug enabled = %v", tt.env, tt.level, got)
		}
		if got := l.Core().Enabled(zapcore.WarnLevel); got != tt.warnOn {
			t.Errorf("%s/%s: warn enabled = %v", tt.env, tt.level, got)
		}
	}
}
