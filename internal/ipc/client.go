package ipc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/whitefamily/vale-gateway/internal/ipc/ipcpb"
)

// Subscribe opens the StreamInvalidations RPC against cc, identifying
// this node as nodeID, and returns a channel of Invalidation events.
// The channel is closed when the stream ends, either because ctx was
// canceled or because the server closed the connection; the caller
// should treat closure as a signal to retry with backoff rather than a
// fatal condition, since the IPC channel is a best-effort hint layered
// over the authoritative ConfigMap-mounted file.
func Subscribe(ctx context.Context, cc *grpc.ClientConn, nodeID string) (<-chan *ipcpb.Invalidation, error) {
	stream, err := cc.NewStream(ctx, clientStreamDesc, fullMethod(), grpc.CallContentSubtype(CodecName))
	if err != nil {
		return nil, fmt.Errorf("ipc: opening invalidation stream: %w", err)
	}

	if err := stream.SendMsg(&ipcpb.NodeInfo{NodeID: nodeID}); err != nil {
		return nil, fmt.Errorf("ipc: sending node info: %w", err)
	}
	if err := stream.CloseSend(); err != nil {
		return nil, fmt.Errorf("ipc: closing send side: %w", err)
	}

	out := make(chan *ipcpb.Invalidation)
	go func() {
		defer close(out)
		for {
			inv := &ipcpb.Invalidation{}
			if err := stream.RecvMsg(inv); err != nil {
				return
			}
			select {
			case out <- inv:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
