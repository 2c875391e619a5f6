package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithRequestIDEnrichesLogs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx := ContextWithRequestID(context.Background(), "req-123")
	WithRequestID(ctx, base).Info("handled")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-123" {
		t.Fatalf("request_id = %v, want req-123", got)
	}
}

func TestWithRequestIDWithoutIDLeavesLoggerUntouched(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	WithRequestID(context.Background(), base).Info("handled")

	if _, ok := logs.All()[0].ContextMap()["request_id"]; ok {
		t.Fatal("request_id attached without one in the context")
	}
}
