package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/ledger"
	"github.com/iov-one/pantheon/store/boltstore"
	"github.com/iov-one/pantheon/x/splitter"
)

const (
	configFile = "config.yaml"
	stateFile  = "data/state.db"
)

// implementations returns all contracts that code can be stored for.
func implementations() map[string]pantheon.Contract {
	return map[string]pantheon.Contract{
		"splitter": splitter.NewContract(),
	}
}

// node is a ledger opened from a home directory.
type node struct {
	*ledger.Ledger
	db *boltstore.DB
}

// openNode loads the configuration from the home directory and opens the
// ledger state.
func openNode(home string) (*node, error) {
	conf, err := ledger.LoadConfig(filepath.Join(home, configFile))
	if err != nil {
		return nil, errors.Wrap(err, "run init first")
	}
	logger, err := ledger.NewLogger(os.Stderr, conf.LogLevel)
	if err != nil {
		return nil, err
	}
	db, err := boltstore.Open(filepath.Join(home, stateFile))
	if err != nil {
		return nil, err
	}
	l, err := ledger.New(ledger.Options{
		Config:    conf,
		Store:     db,
		Contracts: implementations(),
		Logger:    logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &node{Ledger: l, db: db}, nil
}

func (n *node) Close() error {
	return n.db.Close()
}

// addrs validates all given addresses. Empty optional addresses are
// allowed.
func (n *node) addrs(required map[string]*pantheon.Addr, optional map[string]*pantheon.Addr) error {
	api := n.API()
	for name, a := range required {
		if a.Empty() {
			return errors.Wrapf(errors.ErrEmpty, "--%s is required", name)
		}
	}
	for _, set := range []map[string]*pantheon.Addr{required, optional} {
		for name, a := range set {
			if a.Empty() {
				continue
			}
			valid, err := api.AddrValidate(a.String())
			if err != nil {
				return errors.Wrapf(err, "--%s", name)
			}
			*a = valid
		}
	}
	return nil
}

// readMsg returns the message given as a flag value. A dash means the
// message is read from the input.
func readMsg(input io.Reader, raw string) ([]byte, error) {
	if raw == "-" {
		b, err := io.ReadAll(input)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "read message: %s", err)
		}
		raw = string(b)
	}
	if !json.Valid([]byte(raw)) {
		return nil, errors.Wrap(errors.ErrMsg, "message must be a JSON document")
	}
	return []byte(raw), nil
}

func writeJSON(output io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return errors.Wrapf(errors.ErrHuman, "cannot serialize %T: %s", v, err)
	}
	_, err = output.Write(append(raw, '\n'))
	return err
}
