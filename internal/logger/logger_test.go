package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVs(t *testing.T) {
	t.Parallel()

	out := sanitizeKVs([]interface{}{"farm_id", 7, "password", "hunter2", "Email", "Farmer@Example.com", "dangling"})
	if len(out) != 7 {
		t.Fatalf("unexpected length %d: %v", len(out), out)
	}
	if out[1] != 7 {
		t.Fatalf("farm_id altered: %v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("password not redacted: %v", out[3])
	}
	email, _ := out[5].(string)
	if !strings.HasPrefix(email, "hash:") || email != hashValue("farmer@example.com") {
		t.Fatalf("email not hashed consistently: %v", out[5])
	}
	if out[6] != "dangling" {
		t.Fatalf("odd trailing key dropped: %v", out)
	}
}

func TestNopLoggerDoesNotPanic(t *testing.T) {
	t.Parallel()
	l := NewNop().With("component", "test")
	l.Info("hello", "session_token", "abc")
	l.Sync()
}
