package httpapi

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"
)

func waitDone(t *testing.T, ctx context.Context) {
	t.Helper()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatalf("context never canceled")
	}
}

func TestRequestContext_CanceledOnShutdown(t *testing.T) {
	base, shutdown := context.WithCancel(context.Background())
	SetBaseContext(base)
	defer SetBaseContext(nil)

	r := httptest.NewRequest("POST", "/infer", nil)
	ctx, cancel := requestContext(r)
	defer cancel()

	shutdown()
	waitDone(t, ctx)
}

func TestRequestContext_FollowsClientDisconnect(t *testing.T) {
	reqCtx, disconnect := context.WithCancel(context.Background())
	r := httptest.NewRequest("POST", "/infer", nil).WithContext(reqCtx)

	ctx, cancel := requestContext(r)
	defer cancel()

	disconnect()
	waitDone(t, ctx)
}

func TestRequestContext_KeepsRequestValues(t *testing.T) {
	type key struct{}
	reqCtx := context.WithValue(context.Background(), key{}, "rid-42")
	r := httptest.NewRequest("POST", "/infer", nil).WithContext(reqCtx)

	ctx, cancel := requestContext(r)
	defer cancel()
	if got := ctx.Value(key{}); got != "rid-42" {
		t.Fatalf("request-scoped value lost, got %v", got)
	}
	if ctx.Err() != nil {
		t.Fatalf("context canceled prematurely: %v", ctx.Err())
	}
}
