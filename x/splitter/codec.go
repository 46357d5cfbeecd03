package splitter

import (
	"github.com/gogo/protobuf/proto"
)

// Profile declares the capabilities of a splitter instance. See codec.proto
// for the schema.
type Profile struct {
	Deployment     string `protobuf:"bytes,1,opt,name=deployment,proto3" json:"deployment"`
	ChecksumSource string `protobuf:"bytes,2,opt,name=checksum_source,json=checksumSource,proto3" json:"checksum_source,omitempty"`
	Distribution   bool   `protobuf:"varint,3,opt,name=distribution,proto3" json:"distribution"`
	NativeDenom    string `protobuf:"bytes,4,opt,name=native_denom,json=nativeDenom,proto3" json:"native_denom"`
}

func (m *Profile) Reset()         { *m = Profile{} }
func (m *Profile) String() string { return proto.CompactTextString(m) }
func (*Profile) ProtoMessage()    {}

// ContractVersion identifies the code that created the contract state. See
// codec.proto for the schema.
type ContractVersion struct {
	Contract string `protobuf:"bytes,1,opt,name=contract,proto3" json:"contract"`
	Version  string `protobuf:"bytes,2,opt,name=version,proto3" json:"version"`
}

func (m *ContractVersion) Reset()         { *m = ContractVersion{} }
func (m *ContractVersion) String() string { return proto.CompactTextString(m) }
func (*ContractVersion) ProtoMessage()    {}
