package ipc

import (
	"google.golang.org/grpc"
)

// ServiceName is the fully-qualified gRPC service name a generated
// `.proto` would have produced.
const ServiceName = "vale.gateway.ipc.InvalidationService"

// streamMethodName is the one server-streaming RPC this service
// exposes: the data plane opens it once at startup and keeps reading.
const streamMethodName = "StreamInvalidations"

// Streamer is implemented by the server-side hub; grpc's generic
// stream-handler shim below adapts it to grpc.ServiceDesc without any
// generated stub.
type Streamer interface {
	StreamInvalidations(nodeInfoBytes []byte, stream grpc.ServerStream) error
}

// serviceDesc is the hand-authored equivalent of the ServiceDesc a
// protoc-gen-go-grpc run over the `.proto` in ipcpb's doc comment would
// emit. grpc's wire protocol doesn't require generated code -- a
// ServiceDesc is just a plain value describing method names and
// handlers, which this module can construct directly.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Streamer)(nil),
	Methods:     nil,
	Streams: []grpc.StreamDesc{
		{
			StreamName:    streamMethodName,
			Handler:       streamInvalidationsHandler,
			ServerStreams: true,
			ClientStreams: false,
		},
	},
	Metadata: "internal/ipc/service.go",
}

func streamInvalidationsHandler(srv any, stream grpc.ServerStream) error {
	nodeInfo := make([]byte, 0)
	// The NodeInfo opening message is read by the hub itself via
	// stream.RecvMsg so it can log the connecting node before
	// entering its push loop; this thin handler only dispatches.
	return srv.(Streamer).StreamInvalidations(nodeInfo, stream)
}

// fullMethod is the "/service/method" string grpc.ClientConn.NewStream
// expects, matching what a generated client stub would hardcode.
func fullMethod() string {
	return "/" + ServiceName + "/" + streamMethodName
}

// clientStreamDesc is what a generated client stub would pass to
// ClientConn.NewStream for this RPC.
var clientStreamDesc = &grpc.StreamDesc{
	StreamName:    streamMethodName,
	ServerStreams: true,
	ClientStreams: false,
}
