package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// captureOutput swaps the global logger for a buffer-backed one for the
// duration of the test and returns the buffer.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestGetLogger(t *testing.T) {
	buf := captureOutput(t)

	logger := GetLogger("registry")
	logger.Info().Msg("test message")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}

	if entry["component"] != "registry" {
		t.Errorf("component = %v, want registry", entry["component"])
	}
	if entry["message"] != "test message" {
		t.Errorf("message = %v, want %q", entry["message"], "test message")
	}
}

func TestWithFields(t *testing.T) {
	buf := captureOutput(t)

	fields := map[string]interface{}{
		"key1": "value1",
		"key2": true,
	}

	logger := WithFields(fields)
	logger.Info().Msg("test message with fields")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}

	if entry["key1"] != "value1" {
		t.Errorf("key1 = %v, want value1", entry["key1"])
	}
	if entry["key2"] != true {
		t.Errorf("key2 = %v, want true", entry["key2"])
	}
}

func TestNop(t *testing.T) {
	buf := captureOutput(t)

	logger := Nop()
	logger.Error().Msg("should not appear")

	if buf.Len() != 0 {
		t.Errorf("Nop logger wrote output: %s", buf.String())
	}
}
