package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLoggerPrefixAndLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer Setup(Options{})

	if err := Setup(Options{Level: "warning"}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	SetOutput(&buf)

	l := New("CACHE")
	l.Info("не должно попасть в лог")
	l.Warning("диск почти заполнен: %d%%", 95)

	out := buf.String()
	if strings.Contains(out, "не должно попасть") {
		t.Errorf("info message written at warning level: %q", out)
	}
	if !strings.Contains(out, "[CACHE] диск почти заполнен: 95%") {
		t.Errorf("expected prefixed warning, got %q", out)
	}
	if !strings.Contains(out, "component=CACHE") {
		t.Errorf("expected component field, got %q", out)
	}
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	defer Setup(Options{})
	if err := Setup(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLogErrorWithContext(t *testing.T) {
	var buf bytes.Buffer
	defer Setup(Options{})
	SetOutput(&buf)

	New("ERROR").LogErrorWithContext("Ошибка отправки", errors.New("timeout"), "chat 42")

	if !strings.Contains(buf.String(), "Ошибка отправки [chat 42]: timeout") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	defer Setup(Options{})
	if err := Setup(Options{Output: &buf}); err != nil {
		t.Fatal(err)
	}

	base := New("MESSAGE")
	base.WithField("request_id", "abc123").Info("скачано")
	base.Info("без поля")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.Contains(lines[0], "request_id=abc123") || !strings.Contains(lines[0], "component=MESSAGE") {
		t.Errorf("field missing: %q", lines[0])
	}
	if strings.Contains(lines[1], "request_id") {
		t.Errorf("field leaked into parent logger: %q", lines[1])
	}
}
