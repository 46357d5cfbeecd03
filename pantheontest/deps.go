package pantheontest

import (
	"time"

	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/store"
)

// ChainID is the chain id of the environment returned by Env.
const ChainID = "test-chain"

// NewDeps returns dependencies backed by an in-memory store and the test
// address API. A nil querier is replaced by an empty one.
func NewDeps(q pantheon.Querier) pantheon.Deps {
	if q == nil {
		q = NewQuerier()
	}
	return pantheon.Deps{
		Storage: store.MemStore(),
		API:     API,
		Querier: q,
	}
}

// Env returns the environment of a call to the contract of given address.
func Env(contract pantheon.Addr) pantheon.Env {
	return pantheon.Env{
		Block: pantheon.BlockInfo{
			Height:  1,
			Time:    time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
			ChainID: ChainID,
		},
		Contract: pantheon.ContractInfo{Address: contract},
	}
}

// Info returns the message info of a call made by sender.
func Info(sender pantheon.Addr, funds ...pantheon.Coin) pantheon.MessageInfo {
	return pantheon.MessageInfo{Sender: sender, Funds: funds}
}
