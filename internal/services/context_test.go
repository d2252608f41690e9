package services_test

import (
	"context"
	"testing"

	"pipely/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "req-123")
	ctx = services.WithShow(ctx, "DMO")
	ctx = services.WithOperation(ctx, "workfile add")

	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
	if show, ok := services.ShowFromContext(ctx); !ok || show != "DMO" {
		t.Fatalf("unexpected show: %v %v", show, ok)
	}
	if op, ok := services.OperationFromContext(ctx); !ok || op != "workfile add" {
		t.Fatalf("unexpected operation: %v %v", op, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithShow(ctx, "")
	ctx = services.WithRequestID(ctx, "")
	if _, ok := services.ShowFromContext(ctx); ok {
		t.Fatal("expected no show value")
	}
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id")
	}
}
