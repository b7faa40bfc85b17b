package observability

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFields(t *testing.T) {
	err := errors.New("boom")
	cases := []struct {
		field Field
		key   string
		value interface{}
	}{
		{String("name", "scan.png"), "name", "scan.png"},
		{Int("index", 3), "index", 3},
		{Duration("elapsed", 2 * time.Second), "elapsed", 2 * time.Second},
		{Error("err", err), "err", err},
	}
	for _, tc := range cases {
		if tc.field.Key() != tc.key {
			t.Fatalf("key = %q, want %q", tc.field.Key(), tc.key)
		}
		if tc.field.Value() != tc.value {
			t.Fatalf("value = %v, want %v", tc.field.Value(), tc.value)
		}
	}
}

func TestTextLoggerWritesLine(t *testing.T) {
	var sb strings.Builder
	l := NewTextLogger(&sb)
	l.Info("item done", String("name", "a.png"), Int("index", 0))
	got := sb.String()
	if !strings.HasPrefix(got, "INFO item done") {
		t.Fatalf("unexpected prefix: %q", got)
	}
	if !strings.Contains(got, "name=a.png") || !strings.Contains(got, "index=0") {
		t.Fatalf("missing fields: %q", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Fatalf("missing newline: %q", got)
	}
}

func TestTextLoggerWithBindsFields(t *testing.T) {
	var sb strings.Builder
	l := NewTextLogger(&sb).With(String("run", "r1"))
	l.Warn("slow item", Int("index", 2))
	got := sb.String()
	if !strings.Contains(got, "run=r1") || !strings.Contains(got, "index=2") {
		t.Fatalf("bound fields not emitted: %q", got)
	}
}

func TestNopLoggerDoesNothing(t *testing.T) {
	var l Logger = NopLogger{}
	l = l.With(String("k", "v"))
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
}
