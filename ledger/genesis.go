package ledger

import (
	"encoding/json"
	"os"

	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
)

// Genesis is the initial state of the ledger.
type Genesis struct {
	Balances []GenesisBalance `json:"balances"`
	Codes    []GenesisCode    `json:"codes"`
}

// GenesisBalance declares coins held by an address from the start.
type GenesisBalance struct {
	Address string         `json:"address"`
	Coins   pantheon.Coins `json:"coins"`
}

// GenesisCode declares code stored from the start. Codes get their ids in
// the declaration order, starting with 1.
type GenesisCode struct {
	Creator string `json:"creator"`
	Name    string `json:"name"`
}

// LoadGenesis reads the JSON encoded genesis file.
func LoadGenesis(path string) (*Genesis, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read genesis: %s", err)
	}
	var g Genesis
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "parse genesis: %s", err)
	}
	return &g, nil
}
