package bootstrap

import (
	"context"
	"testing"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_bootstrap_test")
	t.Setenv("JWT_SECRET", "jwt_bootstrap_test")
	t.Setenv("DB_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("KAFKA_BROKERS", "")

	rt, err := NewRuntime(context.Background(), "testdata/absent.yaml")
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	t.Cleanup(func() { rt.cleanupFn(context.Background()) })
	return rt
}

func TestNewRuntimeBindsNoListeners(t *testing.T) {
	// Two runtimes on the same config must coexist; ports are only bound once
	// RunAPI is invoked, so a worker process never contends with the API.
	a := newTestRuntime(t)
	b := newTestRuntime(t)
	if a.router == nil || b.router == nil {
		t.Fatal("runtime built without a router")
	}
	if a.outbox == nil || b.outbox == nil {
		t.Fatal("runtime built without an outbox worker")
	}
}

func TestGRPCServerRegistersHealthOnce(t *testing.T) {
	rt := newTestRuntime(t)

	// grpc-go aborts the process on a duplicate service registration, so
	// building the server is itself the assertion that health is wired once.
	srv := newGRPCServer(rt.service)
	defer srv.Stop()

	info := srv.GetServiceInfo()
	if _, ok := info["grpc.health.v1.Health"]; !ok {
		t.Fatalf("health service not registered, got %v", info)
	}
	if len(info) != 1 {
		t.Fatalf("expected exactly one registered service, got %v", info)
	}
}
