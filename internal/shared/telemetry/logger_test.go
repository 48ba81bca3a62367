package telemetry

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"
)

func TestWriteIncludesLevelAndFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	Warn("session.persist_failed", map[string]any{"path": "/tmp/session.json"})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["level"] != "warn" || entry["msg"] != "session.persist_failed" {
		t.Fatalf("entry = %v", entry)
	}
	if entry["path"] != "/tmp/session.json" {
		t.Fatalf("field missing: %v", entry)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Fatal("log line not newline terminated")
	}
}

func TestSetOutputSilencesLogging(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	SetOutput(io.Discard)
	Info("poll.completed", nil)
	Error("http.error", map[string]any{"status": 500})

	if buf.Len() != 0 {
		t.Fatalf("output written after redirect: %q", buf.String())
	}
}

func TestSetOutputNilDiscards(t *testing.T) {
	defer SetOutput(os.Stdout)

	SetOutput(nil)
	Info("noop", nil)
}
