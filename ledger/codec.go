package ledger

import (
	"github.com/gogo/protobuf/proto"
)

// ChainState is the progress of the ledger. See codec.proto for the schema.
type ChainState struct {
	ChainID string `protobuf:"bytes,1,opt,name=chain_id,json=chainId,proto3" json:"chain_id,omitempty"`
	Height  int64  `protobuf:"varint,2,opt,name=height,proto3" json:"height,omitempty"`
	// BlockTime is the unix time in nanoseconds of the last processed
	// request.
	BlockTime int64 `protobuf:"varint,3,opt,name=block_time,json=blockTime,proto3" json:"block_time,omitempty"`
}

func (m *ChainState) Reset()         { *m = ChainState{} }
func (m *ChainState) String() string { return proto.CompactTextString(m) }
func (*ChainState) ProtoMessage()    {}

func (m *ChainState) GetChainID() string {
	if m != nil {
		return m.ChainID
	}
	return ""
}

func (m *ChainState) GetHeight() int64 {
	if m != nil {
		return m.Height
	}
	return 0
}

func (m *ChainState) GetBlockTime() int64 {
	if m != nil {
		return m.BlockTime
	}
	return 0
}
