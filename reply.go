package pantheon

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/pantheon/errors"
)

// Reply is delivered to a contract after a sub message it dispatched was
// executed, when the sub message asked for it.
type Reply struct {
	ID     uint64       `json:"id"`
	Result SubMsgResult `json:"result"`
}

// SubMsgResult is the outcome of a sub message. Exactly one of the fields is
// set.
type SubMsgResult struct {
	Ok  *SubMsgResponse `json:"ok,omitempty"`
	Err string          `json:"error,omitempty"`
}

// IsOk returns true if the sub message succeeded.
func (r SubMsgResult) IsOk() bool {
	return r.Ok != nil
}

// SubMsgResponse carries the events and the data of a successful sub
// message.
type SubMsgResponse struct {
	Events []Event `json:"events"`
	Data   []byte  `json:"data,omitempty"`
}

// MsgInstantiateContractResponse is the protobuf encoded data returned by a
// successful contract instantiation.
type MsgInstantiateContractResponse struct {
	// Address is the bech32 address of the new contract.
	Address string `protobuf:"bytes,1,opt,name=address,proto3" json:"address,omitempty"`
	// Data is the data returned by the instantiation entry point.
	Data []byte `protobuf:"bytes,2,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *MsgInstantiateContractResponse) Reset()         { *m = MsgInstantiateContractResponse{} }
func (m *MsgInstantiateContractResponse) String() string { return proto.CompactTextString(m) }
func (*MsgInstantiateContractResponse) ProtoMessage()    {}

// EncodeInstantiateResponse serializes the instantiation result.
func EncodeInstantiateResponse(address Addr, data []byte) ([]byte, error) {
	raw, err := proto.Marshal(&MsgInstantiateContractResponse{
		Address: string(address),
		Data:    data,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return raw, nil
}

// DecodeInstantiateResponse parses the data of a successful instantiation.
func DecodeInstantiateResponse(raw []byte) (*MsgInstantiateContractResponse, error) {
	var res MsgInstantiateContractResponse
	if err := proto.Unmarshal(raw, &res); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "instantiate response: %s", err)
	}
	if res.Address == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "instantiate response address")
	}
	return &res, nil
}
