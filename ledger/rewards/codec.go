package rewards

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/pantheon/ledger/bank"
)

// Record is a reward credited to a rewards address and not withdrawn yet.
// See codec.proto for the schema.
type Record struct {
	ID             uint64             `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	RewardsAddress string             `protobuf:"bytes,2,opt,name=rewards_address,json=rewardsAddress,proto3" json:"rewards_address,omitempty"`
	Contract       string             `protobuf:"bytes,3,opt,name=contract,proto3" json:"contract,omitempty"`
	Coins          []*bank.CoinRecord `protobuf:"bytes,4,rep,name=coins,proto3" json:"coins,omitempty"`
	Height         int64              `protobuf:"varint,5,opt,name=height,proto3" json:"height,omitempty"`
}

func (m *Record) Reset()         { *m = Record{} }
func (m *Record) String() string { return proto.CompactTextString(m) }
func (*Record) ProtoMessage()    {}

func (m *Record) GetID() uint64 {
	if m != nil {
		return m.ID
	}
	return 0
}

func (m *Record) GetRewardsAddress() string {
	if m != nil {
		return m.RewardsAddress
	}
	return ""
}

func (m *Record) GetContract() string {
	if m != nil {
		return m.Contract
	}
	return ""
}

func (m *Record) GetCoins() []*bank.CoinRecord {
	if m != nil {
		return m.Coins
	}
	return nil
}

func (m *Record) GetHeight() int64 {
	if m != nil {
		return m.Height
	}
	return 0
}
