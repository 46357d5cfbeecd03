package bank

import (
	"github.com/gogo/protobuf/proto"
)

// Wallet is the stored set of coins held by an address. See codec.proto
// for the schema.
type Wallet struct {
	Coins []*CoinRecord `protobuf:"bytes,1,rep,name=coins,proto3" json:"coins,omitempty"`
}

func (m *Wallet) Reset()         { *m = Wallet{} }
func (m *Wallet) String() string { return proto.CompactTextString(m) }
func (*Wallet) ProtoMessage()    {}

func (m *Wallet) GetCoins() []*CoinRecord {
	if m != nil {
		return m.Coins
	}
	return nil
}

// CoinRecord is an amount of a single denomination. The amount is kept in
// its decimal string form.
type CoinRecord struct {
	Denom  string `protobuf:"bytes,1,opt,name=denom,proto3" json:"denom,omitempty"`
	Amount string `protobuf:"bytes,2,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *CoinRecord) Reset()         { *m = CoinRecord{} }
func (m *CoinRecord) String() string { return proto.CompactTextString(m) }
func (*CoinRecord) ProtoMessage()    {}

func (m *CoinRecord) GetDenom() string {
	if m != nil {
		return m.Denom
	}
	return ""
}

func (m *CoinRecord) GetAmount() string {
	if m != nil {
		return m.Amount
	}
	return ""
}
