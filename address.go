package pantheon

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/iov-one/pantheon/crypto/bech32"
	"github.com/iov-one/pantheon/errors"
)

// Addr is a human readable address that was validated by the API. Use
// API.AddrValidate to create an instance from untrusted input.
type Addr string

func (a Addr) String() string {
	return string(a)
}

// Empty returns true if no address is set.
func (a Addr) Empty() bool {
	return len(a) == 0
}

// CanonicalAddr is the binary representation of an address. This is the
// representation used for the address derivation.
type CanonicalAddr []byte

// Equals checks if two addresses are the same
func (a CanonicalAddr) Equals(b CanonicalAddr) bool {
	return bytes.Equal(a, b)
}

// String returns an upper case hex representation.
func (a CanonicalAddr) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// API is the address service provided by the host.
type API interface {
	// AddrValidate returns the normalized address if the given string is a
	// well formed address for this chain.
	AddrValidate(human string) (Addr, error)

	// AddrCanonicalize converts a human readable address into its binary
	// representation.
	AddrCanonicalize(human string) (CanonicalAddr, error)

	// AddrHumanize converts a binary address into its human readable
	// representation.
	AddrHumanize(canonical CanonicalAddr) (Addr, error)
}

const (
	// DefaultBech32Prefix is used when no prefix is configured.
	DefaultBech32Prefix = "archway"

	// Account addresses are 20 bytes long, contract addresses are 32.
	minAddrLen = 1
	maxAddrLen = 255
)

// Bech32API implements the API using bech32 encoded human readable
// addresses with a fixed prefix.
type Bech32API struct {
	Prefix string
}

var _ API = Bech32API{}

// NewBech32API returns an API for the given human readable prefix.
func NewBech32API(prefix string) Bech32API {
	if prefix == "" {
		prefix = DefaultBech32Prefix
	}
	return Bech32API{Prefix: prefix}
}

func (b Bech32API) AddrValidate(human string) (Addr, error) {
	canonical, err := b.AddrCanonicalize(human)
	if err != nil {
		return "", err
	}
	normalized, err := b.AddrHumanize(canonical)
	if err != nil {
		return "", err
	}
	if string(normalized) != human {
		return "", errors.Wrapf(errors.ErrInput, "address %q is not normalized", human)
	}
	return normalized, nil
}

func (b Bech32API) AddrCanonicalize(human string) (CanonicalAddr, error) {
	if human == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "address")
	}
	if !bech32.IsNormalized(human) {
		return nil, errors.Wrapf(errors.ErrInput, "address %q is not normalized", human)
	}
	hrp, payload, err := bech32.Decode(human)
	if err != nil {
		return nil, errors.Wrapf(err, "address %q", human)
	}
	if hrp != b.Prefix {
		return nil, errors.Wrapf(errors.ErrInput, "wrong address prefix %q, want %q", hrp, b.Prefix)
	}
	if err := validateCanonical(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (b Bech32API) AddrHumanize(canonical CanonicalAddr) (Addr, error) {
	if err := validateCanonical(canonical); err != nil {
		return "", err
	}
	raw, err := bech32.Encode(b.Prefix, canonical)
	if err != nil {
		return "", err
	}
	return Addr(raw), nil
}

func validateCanonical(a CanonicalAddr) error {
	if n := len(a); n < minAddrLen || n > maxAddrLen {
		return errors.Wrapf(errors.ErrInput, "invalid address length %d", n)
	}
	return nil
}
