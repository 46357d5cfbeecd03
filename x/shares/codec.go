package shares

import (
	"github.com/gogo/protobuf/proto"
)

// ShareRecord is the stored representation of a single share. See
// codec.proto for the schema.
type ShareRecord struct {
	Recipient  string `protobuf:"bytes,1,opt,name=recipient,proto3" json:"recipient,omitempty"`
	Percentage string `protobuf:"bytes,2,opt,name=percentage,proto3" json:"percentage,omitempty"`
}

func (m *ShareRecord) Reset()         { *m = ShareRecord{} }
func (m *ShareRecord) String() string { return proto.CompactTextString(m) }
func (*ShareRecord) ProtoMessage()    {}

func (m *ShareRecord) GetRecipient() string {
	if m != nil {
		return m.Recipient
	}
	return ""
}

func (m *ShareRecord) GetPercentage() string {
	if m != nil {
		return m.Percentage
	}
	return ""
}
