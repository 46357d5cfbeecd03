package deploy

import (
	"github.com/gogo/protobuf/proto"
)

// PendingInstantiation is an instantiation that was dispatched and is waiting
// for its reply. See codec.proto for the schema.
type PendingInstantiation struct {
	ID     uint64 `protobuf:"varint,1,opt,name=id,proto3" json:"id"`
	CodeID uint64 `protobuf:"varint,2,opt,name=code_id,json=codeId,proto3" json:"code_id"`
	Label  string `protobuf:"bytes,3,opt,name=label,proto3" json:"label,omitempty"`
}

func (m *PendingInstantiation) Reset()         { *m = PendingInstantiation{} }
func (m *PendingInstantiation) String() string { return proto.CompactTextString(m) }
func (*PendingInstantiation) ProtoMessage()    {}

func (m *PendingInstantiation) GetID() uint64 {
	if m != nil {
		return m.ID
	}
	return 0
}

func (m *PendingInstantiation) GetCodeID() uint64 {
	if m != nil {
		return m.CodeID
	}
	return 0
}
