package ipc

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"

	"github.com/whitefamily/vale-gateway/internal/ipc/ipcpb"
)

// fakeServerStream implements grpc.ServerStream over an in-process
// queue of inbound messages and a slice of outbound ones, so Hub's
// StreamInvalidations can be exercised without a real network
// connection.
type fakeServerStream struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	recv []any
	sent []*ipcpb.Invalidation
}

func newFakeServerStream(recv ...any) *fakeServerStream {
	ctx, cancel := context.WithCancel(context.Background())
	return &fakeServerStream{ctx: ctx, cancel: cancel, recv: recv}
}

func (f *fakeServerStream) SetHeader(metadata.MD) error  { return nil }
func (f *fakeServerStream) SendHeader(metadata.MD) error { return nil }
func (f *fakeServerStream) SetTrailer(metadata.MD)       {}
func (f *fakeServerStream) Context() context.Context     { return f.ctx }

func (f *fakeServerStream) SendMsg(m any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := m.(*ipcpb.Invalidation)
	if !ok {
		return fmt.Errorf("unexpected message type %T", m)
	}
	f.sent = append(f.sent, inv)
	return nil
}

func (f *fakeServerStream) RecvMsg(m any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.recv) == 0 {
		return fmt.Errorf("no more messages queued")
	}
	next := f.recv[0]
	f.recv = f.recv[1:]

	switch dst := m.(type) {
	case *ipcpb.NodeInfo:
		src, ok := next.(*ipcpb.NodeInfo)
		if !ok {
			return fmt.Errorf("queued message is %T, want *NodeInfo", next)
		}
		*dst = *src
	default:
		return fmt.Errorf("unsupported RecvMsg target %T", m)
	}
	return nil
}

func (f *fakeServerStream) sentMessages() []*ipcpb.Invalidation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*ipcpb.Invalidation, len(f.sent))
	copy(out, f.sent)
	return out
}

func TestHub_PublishDeliversToConnectedClient(t *testing.T) {
	h := NewHub(logr.Discard())
	stream := newFakeServerStream(&ipcpb.NodeInfo{NodeID: "node-1"})

	done := make(chan error, 1)
	go func() { done <- h.StreamInvalidations(nil, stream) }()

	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.clients) == 1
	}, time.Second, time.Millisecond)

	h.Publish(&ipcpb.Invalidation{GatewayName: "public", GatewayNamespace: "team-a"})

	require.Eventually(t, func() bool {
		return len(stream.sentMessages()) == 1
	}, time.Second, time.Millisecond)

	sent := stream.sentMessages()
	assert.Equal(t, "public", sent[0].GatewayName)
	assert.Equal(t, "team-a", sent[0].GatewayNamespace)

	stream.cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("StreamInvalidations did not return after context cancellation")
	}
}

func TestHub_UnregistersOnStreamEnd(t *testing.T) {
	h := NewHub(logr.Discard())
	stream := newFakeServerStream(&ipcpb.NodeInfo{NodeID: "node-2"})

	done := make(chan error, 1)
	go func() { done <- h.StreamInvalidations(nil, stream) }()

	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.clients) == 1
	}, time.Second, time.Millisecond)

	stream.cancel()
	<-done

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Empty(t, h.clients)
}

func TestHub_PublishSkipsFullMailboxWithoutBlocking(t *testing.T) {
	h := NewHub(logr.Discard())
	id, ch := h.register()
	defer h.unregister(id)

	// Mailbox has capacity 1; fill it, then publish again and confirm
	// the call returns promptly instead of blocking.
	ch <- &ipcpb.Invalidation{GatewayName: "first"}

	finished := make(chan struct{})
	go func() {
		h.Publish(&ipcpb.Invalidation{GatewayName: "second"})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full mailbox")
	}

	assert.Equal(t, "first", (<-ch).GatewayName)
}
