package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_DevelopmentWritesText(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter("development", &buf)

	log.Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, want := range []string{"level=INFO", "msg=hello", "k=v"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter("production", &buf)

	log.Warn(context.Background(), "careful", "user_id", "u1")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("invalid json line %q: %v", buf.String(), err)
	}
	if line["level"] != "WARN" || line["msg"] != "careful" || line["user_id"] != "u1" {
		t.Fatalf("unexpected record: %v", line)
	}
}

func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter("development", &buf)

	log.With("component", "accounts").Error(context.Background(), "boom", "err", "db down")

	out := buf.String()
	for _, want := range []string{"level=ERROR", "component=accounts", `err="db down"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}
