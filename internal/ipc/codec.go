package ipc

import (
	"fmt"

	"google.golang.org/grpc/encoding"

	"github.com/whitefamily/vale-gateway/internal/ipc/ipcpb"
)

// CodecName is registered with grpc's encoding package and selected via
// grpc.CallContentSubtype/grpc.ForceServerCodec on both ends of the IPC
// channel, in place of the protobuf codec grpc defaults to (which
// expects generated proto.Message types this module can't generate).
const CodecName = "vale-ipc"

func init() {
	encoding.RegisterCodec(wireMessageCodec{})
}

type wireMessage interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

// wireMessageCodec adapts ipcpb's hand-written Marshal/Unmarshal
// methods to grpc's encoding.Codec interface, the same shape the
// generated protobuf codec fills for conventional proto.Message types.
type wireMessageCodec struct{}

func (wireMessageCodec) Name() string { return CodecName }

func (wireMessageCodec) Marshal(v any) ([]byte, error) {
	m, ok := v.(wireMessage)
	if !ok {
		return nil, fmt.Errorf("ipc: %T does not implement wireMessage", v)
	}
	return m.Marshal()
}

func (wireMessageCodec) Unmarshal(data []byte, v any) error {
	m, ok := v.(wireMessage)
	if !ok {
		return fmt.Errorf("ipc: %T does not implement wireMessage", v)
	}
	return m.Unmarshal(data)
}

var _ wireMessage = (*ipcpb.Invalidation)(nil)
var _ wireMessage = (*ipcpb.NodeInfo)(nil)
