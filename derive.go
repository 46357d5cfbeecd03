package pantheon

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/iov-one/pantheon/errors"
)

const (
	// ChecksumLength is the size of a code checksum (sha256 of the byte code).
	ChecksumLength = 32

	// MaxSaltLength is the upper limit for the salt used by the
	// deterministic address derivation.
	MaxSaltLength = 64

	moduleName = "wasm"
)

// Checksum is the sha256 hash of the stored byte code.
type Checksum []byte

// Validate returns an error if the checksum is not of the expected size.
func (c Checksum) Validate() error {
	if len(c) != ChecksumLength {
		return errors.Wrapf(errors.ErrInput, "checksum must be %d bytes, got %d", ChecksumLength, len(c))
	}
	return nil
}

// NewChecksum returns the checksum of the given byte code.
func NewChecksum(code []byte) Checksum {
	h := sha256.Sum256(code)
	return h[:]
}

// Instantiate2Address returns the address of a contract instantiated with the
// given code checksum, by the given creator and using the given salt. The
// address does not depend on the instantiation message or any chain state, so
// it is known before the contract exists.
func Instantiate2Address(checksum Checksum, creator CanonicalAddr, salt []byte) (CanonicalAddr, error) {
	if err := checksum.Validate(); err != nil {
		return nil, err
	}
	if len(creator) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "creator")
	}
	if n := len(salt); n < 1 || n > MaxSaltLength {
		return nil, errors.Wrapf(errors.ErrInput, "salt must be between 1 and %d bytes, got %d", MaxSaltLength, n)
	}

	key := make([]byte, 0, len(moduleName)+1+4*8+len(checksum)+len(creator)+len(salt))
	key = append(key, moduleName...)
	key = append(key, 0)
	key = appendLengthPrefixed(key, checksum)
	key = appendLengthPrefixed(key, creator)
	key = appendLengthPrefixed(key, salt)
	// The instantiation message is not part of the address.
	key = appendLengthPrefixed(key, nil)
	return moduleHash(key), nil
}

// ClassicContractAddress returns the address assigned to the instanceID-th
// contract created by the ledger, when created from the given code.
func ClassicContractAddress(codeID, instanceID uint64) CanonicalAddr {
	key := make([]byte, 0, len(moduleName)+1+16)
	key = append(key, moduleName...)
	key = append(key, 0)
	key = appendUint64(key, codeID)
	key = appendUint64(key, instanceID)
	return moduleHash(key)
}

func moduleHash(key []byte) CanonicalAddr {
	typ := sha256.Sum256([]byte("module"))
	h := sha256.New()
	_, _ = h.Write(typ[:])
	_, _ = h.Write(key)
	return h.Sum(nil)
}

func appendLengthPrefixed(dst, data []byte) []byte {
	dst = appendUint64(dst, uint64(len(data)))
	return append(dst, data...)
}

func appendUint64(dst []byte, v uint64) []byte {
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], v)
	return append(dst, raw[:]...)
}
