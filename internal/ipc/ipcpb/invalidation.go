// Package ipcpb defines the wire messages of the control-plane-to-
// data-plane IPC push channel, per spec.md §6: a single
// {gatewayName, gatewayNamespace} invalidation event. Protobuf code
// generation cannot run in this environment, so these two messages are
// hand-marshaled in the plain protobuf wire format (varint tag/wiretype
// header, length-delimited UTF-8 bytes) a `.proto` file of:
//
//	message NodeInfo      { string node_id = 1; }
//	message Invalidation  { string gateway_name = 1; string gateway_namespace = 2; }
//
// would have generated, so a real protoc-built client or server would
// decode these bytes identically.
package ipcpb

import (
	"encoding/binary"
	"fmt"
)

const (
	wireTypeLengthDelimited = 2
)

func tagByte(fieldNumber int) byte {
	return byte(fieldNumber<<3 | wireTypeLengthDelimited)
}

func appendString(buf []byte, fieldNumber int, s string) []byte {
	if s == "" {
		return buf
	}
	buf = append(buf, tagByte(fieldNumber))
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(s)))
	buf = append(buf, lenBuf[:n]...)
	return append(buf, s...)
}

// readField reads one length-delimited field from data starting at
// offset, returning the field number, its payload, and the offset of
// the next field.
func readField(data []byte, offset int) (fieldNumber int, payload []byte, next int, err error) {
	if offset >= len(data) {
		return 0, nil, 0, fmt.Errorf("ipcpb: truncated message at offset %d", offset)
	}
	tag := data[offset]
	wireType := int(tag & 0x7)
	fieldNumber = int(tag >> 3)
	offset++
	if wireType != wireTypeLengthDelimited {
		return 0, nil, 0, fmt.Errorf("ipcpb: unsupported wire type %d for field %d", wireType, fieldNumber)
	}

	length, n := binary.Uvarint(data[offset:])
	if n <= 0 {
		return 0, nil, 0, fmt.Errorf("ipcpb: invalid varint length at offset %d", offset)
	}
	offset += n

	end := offset + int(length)
	if end > len(data) {
		return 0, nil, 0, fmt.Errorf("ipcpb: field %d length %d exceeds message bounds", fieldNumber, length)
	}
	return fieldNumber, data[offset:end], end, nil
}

// Invalidation is the configuration-update hint pushed to every
// connected data-plane replica, per spec.md §6. The data plane treats
// it only as a hint to re-stat the ConfigMap-mounted file early; the
// file itself remains authoritative.
type Invalidation struct {
	GatewayName      string
	GatewayNamespace string
}

// Marshal encodes m in protobuf wire format.
func (m *Invalidation) Marshal() ([]byte, error) {
	var buf []byte
	buf = appendString(buf, 1, m.GatewayName)
	buf = appendString(buf, 2, m.GatewayNamespace)
	return buf, nil
}

// Unmarshal decodes data into m, replacing its current contents.
func (m *Invalidation) Unmarshal(data []byte) error {
	*m = Invalidation{}
	offset := 0
	for offset < len(data) {
		field, payload, next, err := readField(data, offset)
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.GatewayName = string(payload)
		case 2:
			m.GatewayNamespace = string(payload)
		}
		offset = next
	}
	return nil
}

// NodeInfo is the data plane's opening message on a new IPC stream,
// identifying itself to the control plane for logging purposes.
type NodeInfo struct {
	NodeID string
}

// Marshal encodes m in protobuf wire format.
func (m *NodeInfo) Marshal() ([]byte, error) {
	var buf []byte
	buf = appendString(buf, 1, m.NodeID)
	return buf, nil
}

// Unmarshal decodes data into m, replacing its current contents.
func (m *NodeInfo) Unmarshal(data []byte) error {
	*m = NodeInfo{}
	offset := 0
	for offset < len(data) {
		field, payload, next, err := readField(data, offset)
		if err != nil {
			return err
		}
		if field == 1 {
			m.NodeID = string(payload)
		}
		offset = next
	}
	return nil
}
