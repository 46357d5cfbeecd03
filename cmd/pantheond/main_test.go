package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/ledger"
	"github.com/iov-one/pantheon/pantheontest/assert"
)

func testAddr(t testing.TB, n byte) pantheon.Addr {
	t.Helper()
	a, err := pantheon.NewBech32API(pantheon.DefaultBech32Prefix).AddrHumanize(bytes.Repeat([]byte{n}, 20))
	assert.Nil(t, err)
	return a
}

func initHome(t *testing.T, alice pantheon.Addr) string {
	t.Helper()
	home := t.TempDir()
	genesis := filepath.Join(home, "genesis.json")
	raw, err := json.Marshal(ledger.Genesis{
		Balances: []ledger.GenesisBalance{
			{Address: alice.String(), Coins: pantheon.Coins{pantheon.NewCoin(1000, "aconst")}},
		},
		Codes: []ledger.GenesisCode{{Creator: alice.String(), Name: "splitter"}},
	})
	assert.Nil(t, err)
	assert.Nil(t, os.WriteFile(genesis, raw, 0600))

	var out bytes.Buffer
	err = cmdInit(nil, &out, []string{"--home", home, "--genesis", genesis, "--chain-id", "pantheon-test"})
	assert.Nil(t, err)
	var res struct {
		ChainID string `json:"chain_id"`
		Height  int64  `json:"height"`
	}
	assert.Nil(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "pantheon-test", res.ChainID)
	assert.Equal(t, int64(1), res.Height)
	return home
}

func TestCmdInit(t *testing.T) {
	alice := testAddr(t, 1)
	home := initHome(t, alice)

	conf, err := ledger.LoadConfig(filepath.Join(home, configFile))
	assert.Nil(t, err)
	assert.Equal(t, "pantheon-test", conf.ChainID)

	var out bytes.Buffer
	err = cmdInit(nil, &out, []string{"--home", home})
	assert.IsErr(t, errors.ErrDuplicate, err)

	err = cmdBalance(nil, &out, []string{"--home", t.TempDir(), "--address", alice.String()})
	assert.IsErr(t, errors.ErrInput, err)
}

func TestCmdSplitterLifecycle(t *testing.T) {
	alice := testAddr(t, 1)
	bob := testAddr(t, 2)
	home := initHome(t, alice)

	var out bytes.Buffer
	msg := `{"mutable":true,"shares":[{"recipient":"` + bob.String() + `","percentage":"1"}]}`
	err := cmdInstantiate(strings.NewReader(msg), &out, []string{
		"--home", home,
		"--sender", alice.String(),
		"--admin", alice.String(),
		"--code-id", "1",
		"--label", "splitter",
		"--msg", "-",
	})
	assert.Nil(t, err)
	var created struct {
		Address pantheon.Addr `json:"address"`
	}
	assert.Nil(t, json.Unmarshal(out.Bytes(), &created))
	contract := created.Address.String()

	out.Reset()
	err = cmdQuery(nil, &out, []string{"--home", home, "--contract", contract, "--msg", `{"shares":{}}`})
	assert.Nil(t, err)
	assert.Equal(t, `[{"recipient":"`+bob.String()+`","percentage":"1"}]`+"\n", out.String())

	out.Reset()
	err = cmdContract(nil, &out, []string{"--home", home, "--address", contract})
	assert.Nil(t, err)
	var details struct {
		Metadata struct {
			OwnerAddress string `json:"owner_address"`
		} `json:"metadata"`
	}
	assert.Nil(t, json.Unmarshal(out.Bytes(), &details))
	assert.Equal(t, alice.String(), details.Metadata.OwnerAddress)

	out.Reset()
	err = cmdSend(nil, &out, []string{"--home", home, "--from", alice.String(), "--to", contract, "--amount", "300aconst"})
	assert.Nil(t, err)

	out.Reset()
	err = cmdExecute(nil, &out, []string{"--home", home, "--sender", bob.String(), "--contract", contract, "--msg", `{"distribute_native_tokens":{}}`})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	err = cmdExecute(nil, &out, []string{"--home", home, "--sender", alice.String(), "--contract", contract, "--msg", `{"distribute_native_tokens":{}}`})
	assert.Nil(t, err)

	cases := map[string]struct {
		Addr string
		Want pantheon.Coins
	}{
		"sender":    {Addr: alice.String(), Want: pantheon.Coins{pantheon.NewCoin(700, "aconst")}},
		"recipient": {Addr: bob.String(), Want: pantheon.Coins{pantheon.NewCoin(300, "aconst")}},
		"contract":  {Addr: contract, Want: pantheon.Coins{}},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var out bytes.Buffer
			assert.Nil(t, cmdBalance(nil, &out, []string{"--home", home, "--address", tc.Addr}))
			var got pantheon.Coins
			assert.Nil(t, json.Unmarshal(out.Bytes(), &got))
			assert.JSONEqual(t, tc.Want, got)
		})
	}

	out.Reset()
	err = cmdAccrue(nil, &out, []string{"--home", home, "--contract", contract, "--amount", "25aconst"})
	assert.Nil(t, err)
	out.Reset()
	err = cmdRewards(nil, &out, []string{"--home", home, "--address", alice.String()})
	assert.Nil(t, err)
	var recs []json.RawMessage
	assert.Nil(t, json.Unmarshal(out.Bytes(), &recs))
	assert.Equal(t, 1, len(recs))
}

func TestCmdStoreCode(t *testing.T) {
	alice := testAddr(t, 1)
	home := initHome(t, alice)

	var out bytes.Buffer
	err := cmdStoreCode(nil, &out, []string{"--home", home, "--creator", alice.String()})
	assert.Nil(t, err)
	var code pantheon.CodeInfoResponse
	assert.Nil(t, json.Unmarshal(out.Bytes(), &code))
	assert.Equal(t, uint64(2), code.CodeID)
	assert.Equal(t, alice, code.Creator)

	err = cmdStoreCode(nil, &out, []string{"--home", home, "--creator", alice.String(), "--name", "unknown"})
	assert.IsErr(t, errors.ErrNotFound, err)

	err = cmdStoreCode(nil, &out, []string{"--home", home})
	assert.IsErr(t, errors.ErrEmpty, err)

	err = cmdStoreCode(nil, &out, []string{"--home", home, "--creator", "cosmos1invalid"})
	assert.IsErr(t, errors.ErrInput, err)
}

func TestCoinsFlag(t *testing.T) {
	cases := map[string]struct {
		Raw     string
		Want    pantheon.Coins
		WantErr *errors.Error
	}{
		"single coin": {
			Raw:  "10aconst",
			Want: pantheon.Coins{pantheon.NewCoin(10, "aconst")},
		},
		"many coins": {
			Raw:  "10aconst,3uother",
			Want: pantheon.Coins{pantheon.NewCoin(10, "aconst"), pantheon.NewCoin(3, "uother")},
		},
		"repeated denomination": {
			Raw:     "10aconst,3aconst",
			WantErr: errors.ErrDuplicate,
		},
		"missing denomination": {
			Raw:     "10",
			WantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var coins pantheon.Coins
			err := coinsValue{coins: &coins}.Set(tc.Raw)
			assert.IsErr(t, tc.WantErr, err)
			if tc.WantErr == nil {
				assert.JSONEqual(t, tc.Want, coins)
			}
		})
	}
}
