package pantheontest

import (
	"encoding/binary"
	"testing"

	"github.com/google/uuid"
	"github.com/iov-one/pantheon"
)

// API is the address service used by tests. It uses the default bech32
// prefix.
var API = pantheon.NewBech32API(pantheon.DefaultBech32Prefix)

// NewAddr returns a new random account address.
func NewAddr() pantheon.Addr {
	id := uuid.New()
	raw := make([]byte, 20)
	copy(raw, id[:])
	addr, err := API.AddrHumanize(raw)
	if err != nil {
		panic(err)
	}
	return addr
}

// SequenceAddr returns an account address that is unique for given number.
// Use it when a test needs stable addresses.
func SequenceAddr(n uint32) pantheon.Addr {
	raw := make([]byte, 20)
	binary.BigEndian.PutUint32(raw[16:], n)
	addr, err := API.AddrHumanize(raw)
	if err != nil {
		panic(err)
	}
	return addr
}

// ParseAddr validates given human readable address and returns it. This
// function is a test helper that fails the test if the address is not
// valid.
func ParseAddr(t testing.TB, human string) pantheon.Addr {
	t.Helper()

	addr, err := API.AddrValidate(human)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", human, err)
	}
	return addr
}

// Canonical returns the binary representation of given address and fails
// the test if the address is not valid.
func Canonical(t testing.TB, addr pantheon.Addr) pantheon.CanonicalAddr {
	t.Helper()

	raw, err := API.AddrCanonicalize(addr.String())
	if err != nil {
		t.Fatalf("cannot canonicalize %q address: %s", addr, err)
	}
	return raw
}
