/*
Package bech32 wraps the btcutil bech32 implementation to work on 8 bit
payloads, as used by human readable account addresses.
*/
package bech32

import (
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/pantheon/errors"
)

// Decode converts given bech32 encoded representation into raw payload and a
// human readable part.
func Decode(raw string) (string, []byte, error) {
	hrp, payload, err := bech32.Decode(raw)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	payload, err = bech32.ConvertBits(payload, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return hrp, payload, nil
}

// Encode converts given bytes into bech32 encoded representation.
func Encode(hrp string, payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", errors.Wrap(errors.ErrEmpty, "payload")
	}
	conv, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	raw, err := bech32.Encode(hrp, conv)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// IsNormalized returns true if the address is in its canonical lower case
// form. Mixed case representations are rejected by Decode, but an all upper
// case address decodes successfully.
func IsNormalized(raw string) bool {
	return raw == strings.ToLower(raw)
}
