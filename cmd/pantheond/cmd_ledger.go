package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/ledger"
	"github.com/iov-one/pantheon/ledger/wasm"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl, home := newFlagSet("init", `
Create the configuration file in the home directory and initialize the
ledger state with the genesis file. Without a genesis file the ledger starts
with no balances and no code.
	`)
	var (
		chainIDFl = fl.String("chain-id", ledger.DefaultChainID, "Identifier of the chain.")
		prefixFl  = fl.String("bech32-prefix", pantheon.DefaultBech32Prefix, "Human readable part of all addresses.")
		denomFl   = fl.String("native-denom", ledger.DefaultNativeDenom, "Denomination of the native token.")
		genesisFl = fl.String("genesis", "", "Path to a JSON genesis file.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}

	confPath := filepath.Join(*home, configFile)
	if _, err := os.Stat(confPath); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "%s already exists", confPath)
	}
	conf := ledger.DefaultConfig()
	conf.ChainID = *chainIDFl
	conf.Bech32Prefix = *prefixFl
	conf.NativeDenom = *denomFl

	var g ledger.Genesis
	if *genesisFl != "" {
		loaded, err := ledger.LoadGenesis(*genesisFl)
		if err != nil {
			return err
		}
		g = *loaded
	}

	if err := os.MkdirAll(*home, 0700); err != nil {
		return errors.Wrapf(errors.ErrInput, "create home: %s", err)
	}
	if err := ledger.WriteConfig(confPath, conf); err != nil {
		return err
	}
	n, err := openNode(*home)
	if err != nil {
		return err
	}
	defer n.Close()

	if err := n.InitGenesis(context.Background(), g); err != nil {
		return errors.Wrap(err, "genesis")
	}
	height, err := n.Height()
	if err != nil {
		return err
	}
	return writeJSON(output, map[string]interface{}{
		"chain_id": conf.ChainID,
		"height":   height,
	})
}

func cmdStoreCode(input io.Reader, output io.Writer, args []string) error {
	fl, home := newFlagSet("store-code", `
Store code of a contract implementation. The new code id is printed.
	`)
	var (
		creatorFl = flAddr(fl, "creator", "Address of the account storing the code.")
		nameFl    = fl.String("name", "splitter", "Name of the contract implementation.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	n, err := openNode(*home)
	if err != nil {
		return err
	}
	defer n.Close()
	if err := n.addrs(map[string]*pantheon.Addr{"creator": creatorFl}, nil); err != nil {
		return err
	}

	code, err := n.StoreCode(context.Background(), *creatorFl, *nameFl)
	if err != nil {
		return err
	}
	return writeJSON(output, code.Response())
}

func cmdInstantiate(input io.Reader, output io.Writer, args []string) error {
	fl, home := newFlagSet("instantiate", `
Create a contract from stored code. Use "-" as the message to read it from
the standard input. When a salt is given, the contract address is derived
from the code checksum, the sender and the salt.
	`)
	var (
		senderFl = flAddr(fl, "sender", "Address of the account creating the contract.")
		adminFl  = flAddr(fl, "admin", "Optional address allowed to migrate the contract.")
		codeFl   = fl.Uint64("code-id", 1, "Identifier of the code.")
		msgFl    = fl.String("msg", "{}", "JSON encoded instantiate message.")
		labelFl  = fl.String("label", "", "Human readable contract name.")
		saltFl   = fl.String("salt", "", "Optional salt of the contract address.")
		fundsFl  = flCoins(fl, "funds", "Coins sent to the contract, for example 100aconst.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	msg, err := readMsg(input, *msgFl)
	if err != nil {
		return err
	}
	n, err := openNode(*home)
	if err != nil {
		return err
	}
	defer n.Close()
	if err := n.addrs(map[string]*pantheon.Addr{"sender": senderFl}, map[string]*pantheon.Addr{"admin": adminFl}); err != nil {
		return err
	}

	req := ledger.InstantiateRequest{
		Sender: *senderFl,
		CodeID: *codeFl,
		Msg:    msg,
		Funds:  *fundsFl,
		Admin:  *adminFl,
		Label:  *labelFl,
	}
	if *saltFl != "" {
		req.Salt = []byte(*saltFl)
	}
	addr, res, err := n.Instantiate(context.Background(), req)
	if err != nil {
		return err
	}
	return writeJSON(output, map[string]interface{}{
		"address": addr,
		"events":  res.Events,
	})
}

func cmdExecute(input io.Reader, output io.Writer, args []string) error {
	fl, home := newFlagSet("execute", `
Execute a contract on behalf of the sender. Use "-" as the message to read it
from the standard input.
	`)
	var (
		senderFl   = flAddr(fl, "sender", "Address of the account executing the contract.")
		contractFl = flAddr(fl, "contract", "Address of the contract.")
		msgFl      = fl.String("msg", "-", "JSON encoded execute message.")
		fundsFl    = flCoins(fl, "funds", "Coins sent to the contract, for example 100aconst.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	msg, err := readMsg(input, *msgFl)
	if err != nil {
		return err
	}
	n, err := openNode(*home)
	if err != nil {
		return err
	}
	defer n.Close()
	if err := n.addrs(map[string]*pantheon.Addr{"sender": senderFl, "contract": contractFl}, nil); err != nil {
		return err
	}

	res, err := n.Execute(context.Background(), *senderFl, *contractFl, msg, *fundsFl...)
	if err != nil {
		return err
	}
	return writeJSON(output, res)
}

func cmdQuery(input io.Reader, output io.Writer, args []string) error {
	fl, home := newFlagSet("query", `
Query a contract. The contract answer is printed as it is.
	`)
	var (
		contractFl = flAddr(fl, "contract", "Address of the contract.")
		msgFl      = fl.String("msg", `{"contract_version":{}}`, "JSON encoded query message.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	msg, err := readMsg(input, *msgFl)
	if err != nil {
		return err
	}
	n, err := openNode(*home)
	if err != nil {
		return err
	}
	defer n.Close()
	if err := n.addrs(map[string]*pantheon.Addr{"contract": contractFl}, nil); err != nil {
		return err
	}

	res, err := n.Query(context.Background(), *contractFl, msg)
	if err != nil {
		return err
	}
	_, err = output.Write(append(res, '\n'))
	return err
}

func cmdSend(input io.Reader, output io.Writer, args []string) error {
	fl, home := newFlagSet("send", `
Transfer coins between two accounts.
	`)
	var (
		fromFl   = flAddr(fl, "from", "Address of the source account.")
		toFl     = flAddr(fl, "to", "Address of the destination account.")
		amountFl = flCoins(fl, "amount", "Coins to transfer, for example 100aconst.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	n, err := openNode(*home)
	if err != nil {
		return err
	}
	defer n.Close()
	if err := n.addrs(map[string]*pantheon.Addr{"from": fromFl, "to": toFl}, nil); err != nil {
		return err
	}
	if err := n.Send(context.Background(), *fromFl, *toFl, *amountFl...); err != nil {
		return err
	}
	coins, err := n.Balance(context.Background(), *toFl)
	if err != nil {
		return err
	}
	return writeJSON(output, coins)
}

func cmdAccrue(input io.Reader, output io.Writer, args []string) error {
	fl, home := newFlagSet("accrue", `
Credit rewards earned by a contract. The rewards are recorded for the
rewards address declared in the contract metadata.
	`)
	var (
		contractFl = flAddr(fl, "contract", "Address of the contract that earned the rewards.")
		amountFl   = flCoins(fl, "amount", "Earned coins, for example 100aconst.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	n, err := openNode(*home)
	if err != nil {
		return err
	}
	defer n.Close()
	if err := n.addrs(map[string]*pantheon.Addr{"contract": contractFl}, nil); err != nil {
		return err
	}

	rec, err := n.Accrue(context.Background(), *contractFl, *amountFl...)
	if err != nil {
		return err
	}
	return writeJSON(output, rec)
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl, home := newFlagSet("balance", `
Print all coins held by an address.
	`)
	addrFl := flAddr(fl, "address", "Address of the account or contract.")
	if err := fl.Parse(args); err != nil {
		return err
	}
	n, err := openNode(*home)
	if err != nil {
		return err
	}
	defer n.Close()
	if err := n.addrs(map[string]*pantheon.Addr{"address": addrFl}, nil); err != nil {
		return err
	}

	coins, err := n.Balance(context.Background(), *addrFl)
	if err != nil {
		return err
	}
	return writeJSON(output, coins)
}

func cmdRewards(input io.Reader, output io.Writer, args []string) error {
	fl, home := newFlagSet("rewards", `
Print reward records that can be withdrawn by an address.
	`)
	addrFl := flAddr(fl, "address", "Rewards address.")
	if err := fl.Parse(args); err != nil {
		return err
	}
	n, err := openNode(*home)
	if err != nil {
		return err
	}
	defer n.Close()
	if err := n.addrs(map[string]*pantheon.Addr{"address": addrFl}, nil); err != nil {
		return err
	}

	recs, err := n.Rewards(context.Background(), *addrFl)
	if err != nil {
		return err
	}
	return writeJSON(output, recs)
}

func cmdContract(input io.Reader, output io.Writer, args []string) error {
	fl, home := newFlagSet("contract", `
Print details of a contract instance together with its rewards metadata.
	`)
	addrFl := flAddr(fl, "address", "Address of the contract.")
	if err := fl.Parse(args); err != nil {
		return err
	}
	n, err := openNode(*home)
	if err != nil {
		return err
	}
	defer n.Close()
	if err := n.addrs(map[string]*pantheon.Addr{"address": addrFl}, nil); err != nil {
		return err
	}

	ctx := context.Background()
	info, err := n.Contract(ctx, *addrFl)
	if err != nil {
		return err
	}
	md, err := n.Metadata(ctx, *addrFl)
	switch {
	case errors.ErrNotFound.Is(err):
		md = nil
	case err != nil:
		return err
	}
	return writeJSON(output, struct {
		Contract *wasm.ContractInfo `json:"contract"`
		Metadata *wasm.Metadata     `json:"metadata,omitempty"`
	}{info, md})
}
