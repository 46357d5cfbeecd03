package admin

import (
	"github.com/gogo/protobuf/proto"
)

// Config is the access configuration of a contract. See codec.proto for the
// schema.
type Config struct {
	Admin   string `protobuf:"bytes,1,opt,name=admin,proto3" json:"admin"`
	Mutable bool   `protobuf:"varint,2,opt,name=mutable,proto3" json:"mutable"`
}

func (m *Config) Reset()         { *m = Config{} }
func (m *Config) String() string { return proto.CompactTextString(m) }
func (*Config) ProtoMessage()    {}

func (m *Config) GetAdmin() string {
	if m != nil {
		return m.Admin
	}
	return ""
}

func (m *Config) GetMutable() bool {
	if m != nil {
		return m.Mutable
	}
	return false
}
