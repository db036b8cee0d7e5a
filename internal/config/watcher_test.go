package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whitefamily/vale-gateway/internal/ipc/ipcpb"
)

func writeConfig(t *testing.T, path, gatewayName string) {
	t.Helper()
	body := "gatewayName: " + gatewayName + "\ngatewayNamespace: team-a\nipc:\n  ip: 10.0.0.1\n  port: 1\nclientAddresses:\n  kind: None\nerrorResponses:\n  kind: Empty\nfilterDefinitions: {}\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestWatcher_EmitsInitialLoadOnStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway-config.yaml")
	writeConfig(t, path, "public")

	w, err := NewWatcher(logr.Discard(), path, "public", "team-a")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, nil) }()

	select {
	case cfg := <-w.Updates():
		assert.Equal(t, "public", cfg.GatewayName)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial config reload observed")
	}

	cancel()
	<-done
}

func TestWatcher_ReloadsOnFileWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway-config.yaml")
	writeConfig(t, path, "public")

	w, err := NewWatcher(logr.Discard(), path, "public", "team-a")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, nil) }()

	<-w.Updates() // initial load

	writeConfig(t, path, "public-renamed")

	select {
	case cfg := <-w.Updates():
		assert.Equal(t, "public-renamed", cfg.GatewayName)
	case <-time.After(2 * time.Second):
		t.Fatal("no reload observed after file write")
	}

	cancel()
	<-done
}

func TestWatcher_InvalidationForOtherGatewayIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway-config.yaml")
	writeConfig(t, path, "public")

	w, err := NewWatcher(logr.Discard(), path, "public", "team-a")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	invalidations := make(chan *ipcpb.Invalidation, 1)
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, invalidations) }()

	<-w.Updates() // initial load

	invalidations <- &ipcpb.Invalidation{GatewayName: "other", GatewayNamespace: "team-b"}

	select {
	case <-w.Updates():
		t.Fatal("unexpected reload for an invalidation naming a different gateway")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	<-done
}

func TestWatcher_MatchingInvalidationTriggersReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway-config.yaml")
	writeConfig(t, path, "public")

	w, err := NewWatcher(logr.Discard(), path, "public", "team-a")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	invalidations := make(chan *ipcpb.Invalidation, 1)
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, invalidations) }()

	<-w.Updates() // initial load

	invalidations <- &ipcpb.Invalidation{GatewayName: "public", GatewayNamespace: "team-a"}

	select {
	case cfg := <-w.Updates():
		assert.Equal(t, "public", cfg.GatewayName)
	case <-time.After(2 * time.Second):
		t.Fatal("matching invalidation did not trigger a reload")
	}

	cancel()
	<-done
}
