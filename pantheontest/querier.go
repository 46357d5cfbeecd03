package pantheontest

import (
	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
)

// Querier is a mock implementing pantheon.Querier interface.
//
// All answers are taken from the declared state. If Err is set, every call
// fails with it.
type Querier struct {
	// Balances maps an address to the coins it holds.
	Balances map[pantheon.Addr]pantheon.Coins
	// Codes maps a code id to the code details.
	Codes map[uint64]*pantheon.CodeInfoResponse
	// Contracts maps a contract address to the contract details.
	Contracts map[pantheon.Addr]*pantheon.ContractInfoResponse

	Err error
}

var _ pantheon.Querier = (*Querier)(nil)

// NewQuerier returns a querier with no state.
func NewQuerier() *Querier {
	return &Querier{
		Balances:  make(map[pantheon.Addr]pantheon.Coins),
		Codes:     make(map[uint64]*pantheon.CodeInfoResponse),
		Contracts: make(map[pantheon.Addr]*pantheon.ContractInfoResponse),
	}
}

// WithContract declares a contract instance of given code, together with
// the code itself. The code checksum is computed from the code id.
func (q *Querier) WithContract(addr pantheon.Addr, codeID uint64) *Querier {
	q.Contracts[addr] = &pantheon.ContractInfoResponse{CodeID: codeID, Label: "test"}
	q.WithCode(codeID)
	return q
}

// WithCode declares a stored code. The checksum is computed from the code id.
func (q *Querier) WithCode(codeID uint64) *Querier {
	q.Codes[codeID] = &pantheon.CodeInfoResponse{
		CodeID:   codeID,
		Checksum: CodeChecksum(codeID),
	}
	return q
}

// WithBalance sets the balance of given address.
func (q *Querier) WithBalance(addr pantheon.Addr, coins ...pantheon.Coin) *Querier {
	q.Balances[addr] = coins
	return q
}

func (q *Querier) Balance(ctx pantheon.Context, addr pantheon.Addr, denom string) (pantheon.Coin, error) {
	if q.Err != nil {
		return pantheon.Coin{}, q.Err
	}
	return pantheon.Coin{Denom: denom, Amount: q.Balances[addr].AmountOf(denom)}, nil
}

func (q *Querier) CodeInfo(ctx pantheon.Context, codeID uint64) (*pantheon.CodeInfoResponse, error) {
	if q.Err != nil {
		return nil, q.Err
	}
	c, ok := q.Codes[codeID]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "code %d", codeID)
	}
	return c, nil
}

func (q *Querier) ContractInfo(ctx pantheon.Context, addr pantheon.Addr) (*pantheon.ContractInfoResponse, error) {
	if q.Err != nil {
		return nil, q.Err
	}
	c, ok := q.Contracts[addr]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "contract %q", addr)
	}
	return c, nil
}

// CodeChecksum returns a checksum that is unique for given code id.
func CodeChecksum(codeID uint64) pantheon.Checksum {
	return pantheon.NewChecksum([]byte{byte(codeID >> 8), byte(codeID)})
}
