package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// captureOutput redirects stdout to a buffer during f()
func captureOutput(t *testing.T, f func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	_ = r.Close()

	return buf.String()
}

func TestLoggerTextFormat(t *testing.T) {
	out := captureOutput(t, func() {
		Init(&Config{Level: "debug", Format: "text", Component: "test"})
		Info("hello", "key", "value")
	})

	if !strings.Contains(out, "hello") {
		t.Errorf("expected message, got: %s", out)
	}
	if !strings.Contains(out, "component=test") {
		t.Errorf("expected component field, got: %s", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("expected structured field, got: %s", out)
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	out := captureOutput(t, func() {
		Init(&Config{Level: "info", Format: "json", Component: "test"})
		Warn("json warning")
	})

	if !strings.Contains(out, `"msg":"json warning"`) {
		t.Errorf("expected json message, got: %s", out)
	}
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("expected component attr, got: %s", out)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	out := captureOutput(t, func() {
		Init(&Config{Level: "warn", Format: "text"})
		Debug("should be dropped")
		Warn("should appear")
	})

	if strings.Contains(out, "should be dropped") {
		t.Errorf("debug line should be filtered, got: %s", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn line missing, got: %s", out)
	}
}
