package pantheon

import (
	"time"
)

// Querier gives a contract read access to the ledger state.
type Querier interface {
	// Balance returns the amount of given denomination held by the
	// address. An unknown address holds nothing.
	Balance(ctx Context, addr Addr, denom string) (Coin, error)

	// CodeInfo returns the details of the stored code.
	CodeInfo(ctx Context, codeID uint64) (*CodeInfoResponse, error)

	// ContractInfo returns the details of an instantiated contract.
	ContractInfo(ctx Context, addr Addr) (*ContractInfoResponse, error)
}

// CodeInfoResponse describes stored code.
type CodeInfoResponse struct {
	CodeID   uint64   `json:"code_id"`
	Creator  Addr     `json:"creator"`
	Checksum Checksum `json:"checksum"`
}

// ContractInfoResponse describes a contract instance.
type ContractInfoResponse struct {
	CodeID  uint64 `json:"code_id"`
	Creator Addr   `json:"creator"`
	Admin   Addr   `json:"admin,omitempty"`
	Label   string `json:"label"`
}

// Deps bundles the services available to a contract during a call.
type Deps struct {
	Storage KVStore
	API     API
	Querier Querier
}

// Env describes the environment of a call.
type Env struct {
	Block    BlockInfo    `json:"block"`
	Contract ContractInfo `json:"contract"`
}

// BlockInfo describes the block that is being processed.
type BlockInfo struct {
	Height  int64     `json:"height"`
	Time    time.Time `json:"time"`
	ChainID string    `json:"chain_id"`
}

// ContractInfo describes the called contract.
type ContractInfo struct {
	Address Addr `json:"address"`
}

// MessageInfo describes who called the contract and the funds transferred to
// the contract with the call.
type MessageInfo struct {
	Sender Addr  `json:"sender"`
	Funds  Coins `json:"funds"`
}

// Contract is implemented by the code that the ledger can instantiate and
// call. Messages are JSON encoded.
type Contract interface {
	Instantiate(ctx Context, deps Deps, env Env, info MessageInfo, msg []byte) (*Response, error)
	Execute(ctx Context, deps Deps, env Env, info MessageInfo, msg []byte) (*Response, error)
	Query(ctx Context, deps Deps, env Env, msg []byte) ([]byte, error)
	Reply(ctx Context, deps Deps, env Env, reply Reply) (*Response, error)
}
