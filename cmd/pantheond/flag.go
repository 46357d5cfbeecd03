package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/pantheon"
	"github.com/spf13/pflag"
)

// newFlagSet returns a flag set of a command, with the home directory
// flag registered.
func newFlagSet(name, description string) (*pflag.FlagSet, *string) {
	fl := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprintln(os.Stderr, description)
		fl.PrintDefaults()
	}
	home := fl.String("home", defaultHome(), "Directory holding the configuration and the state of the ledger.")
	return fl, home
}

func defaultHome() string {
	if h := os.Getenv("PANTHEON_HOME"); h != "" {
		return h
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return ".pantheond"
	}
	return filepath.Join(dir, ".pantheond")
}

// coinsValue is a pflag.Value of a comma separated list of coins, for
// example "100aconst,5uother".
type coinsValue struct {
	coins *pantheon.Coins
}

var _ pflag.Value = coinsValue{}

func flCoins(fl *pflag.FlagSet, name, usage string) *pantheon.Coins {
	var coins pantheon.Coins
	fl.Var(coinsValue{coins: &coins}, name, usage)
	return &coins
}

func (v coinsValue) String() string {
	if v.coins == nil {
		return ""
	}
	return v.coins.String()
}

func (v coinsValue) Set(raw string) error {
	coins, err := pantheon.ParseCoins(raw)
	if err != nil {
		return err
	}
	*v.coins = coins
	return nil
}

func (coinsValue) Type() string {
	return "coins"
}

// addrValue is a pflag.Value of a bech32 address. It is validated when the
// ledger is opened, because only then the address prefix is known.
type addrValue struct {
	addr *pantheon.Addr
}

var _ pflag.Value = addrValue{}

func flAddr(fl *pflag.FlagSet, name, usage string) *pantheon.Addr {
	var a pantheon.Addr
	fl.Var(addrValue{addr: &a}, name, usage)
	return &a
}

func (v addrValue) String() string {
	if v.addr == nil {
		return ""
	}
	return v.addr.String()
}

func (v addrValue) Set(raw string) error {
	*v.addr = pantheon.Addr(raw)
	return nil
}

func (addrValue) Type() string {
	return "address"
}
