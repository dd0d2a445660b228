package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewLoggerDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != LevelInfo {
		t.Errorf("expected default level to be info, got %s", cfg.Level)
	}
	if cfg.JSONFormat {
		t.Error("expected default JSONFormat to be false")
	}
}

func TestNewLoggerNilConfig(t *testing.T) {
	log := NewLogger(nil)
	if log == nil {
		t.Error("expected non-nil logger with nil config")
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := &Config{Level: LevelDebug, JSONFormat: true, Output: buf}

	log := NewLogger(cfg)
	log.Info("test message", F("key", "value"))

	var output map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	if output["message"] != "test message" {
		t.Errorf("expected message 'test message', got %v", output["message"])
	}
	if output["key"] != "value" {
		t.Errorf("expected key field 'value', got %v", output["key"])
	}
}

func TestLoggerErrField(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{Level: LevelDebug, JSONFormat: true, Output: buf})
	log.Error("boom", Err(errors.New("disk full")))

	if !strings.Contains(buf.String(), "disk full") {
		t.Errorf("expected error field in output, got %s", buf.String())
	}
}

func TestLoggerWithAttachesFieldsToSubsequentLogs(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{Level: LevelDebug, JSONFormat: true, Output: buf})
	scoped := log.With(F("doc_id", "d1"))
	scoped.Info("processing")

	var output map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	if output["doc_id"] != "d1" {
		t.Errorf("expected doc_id field from With(), got %v", output["doc_id"])
	}
}

func TestNopLoggerDiscardsOutput(t *testing.T) {
	log := NewNopLogger()
	log.Info("should not panic or write anywhere")
	log.With(F("a", 1)).Error("still silent")
}
