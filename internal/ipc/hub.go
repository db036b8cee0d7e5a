package ipc

import (
	"sync"

	"github.com/go-logr/logr"
	"google.golang.org/grpc"

	"github.com/whitefamily/vale-gateway/internal/ipc/ipcpb"
)

// Hub is the primary replica's IPC push server: every connected
// data-plane node gets its own mailbox channel, and Publish fans an
// Invalidation out to all of them without blocking on a slow or
// disconnected reader. Grounded directly on
// ChrisforCrystal-mas-apigateway/internal/server/grpc.go's AgwServer
// register/unregister/broadcast shape, narrowed from a full config
// snapshot push to this module's single-event invalidation hint.
type Hub struct {
	log logr.Logger

	mu      sync.Mutex
	clients map[int64]chan *ipcpb.Invalidation
	nextID  int64
}

// NewHub returns an empty Hub ready to accept stream registrations.
func NewHub(log logr.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[int64]chan *ipcpb.Invalidation),
	}
}

// Publish fans inv out to every registered client. A client whose
// mailbox is full (it is not keeping up) is skipped rather than
// blocking every other client's delivery.
func (h *Hub) Publish(inv *ipcpb.Invalidation) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.clients {
		select {
		case ch <- inv:
		default:
			h.log.Info("IPC client mailbox full, skipping push", "client", id)
		}
	}
}

func (h *Hub) register() (int64, chan *ipcpb.Invalidation) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan *ipcpb.Invalidation, 1)
	h.clients[id] = ch
	return id, ch
}

func (h *Hub) unregister(id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, id)
}

// StreamInvalidations implements Streamer: read the opening NodeInfo,
// register a mailbox, and push every Invalidation received until the
// stream's context is done.
func (h *Hub) StreamInvalidations(_ []byte, stream grpc.ServerStream) error {
	var nodeInfo ipcpb.NodeInfo
	if err := stream.RecvMsg(&nodeInfo); err != nil {
		return err
	}
	h.log.Info("data-plane node connected over IPC", "node", nodeInfo.NodeID)

	id, mailbox := h.register()
	defer h.unregister(id)

	for {
		select {
		case inv := <-mailbox:
			if err := stream.SendMsg(inv); err != nil {
				return err
			}
		case <-stream.Context().Done():
			return nil
		}
	}
}

// RegisterServer attaches the Hub's service to s using the hand-written
// ServiceDesc in place of generated registration code.
func RegisterServer(s *grpc.Server, h *Hub) {
	s.RegisterService(&serviceDesc, h)
}
