package pantheon

import (
	"bytes"
	"testing"

	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/pantheontest/assert"
)

func TestBech32API(t *testing.T) {
	api := NewBech32API("")
	assert.Equal(t, DefaultBech32Prefix, api.Prefix)

	account := CanonicalAddr(bytes.Repeat([]byte{1}, 20))
	contract := CanonicalAddr(bytes.Repeat([]byte{2}, 32))

	for _, canonical := range []CanonicalAddr{account, contract} {
		human, err := api.AddrHumanize(canonical)
		assert.Nil(t, err)
		got, err := api.AddrCanonicalize(human.String())
		assert.Nil(t, err)
		if !got.Equals(canonical) {
			t.Fatalf("want %s, got %s", canonical, got)
		}
		valid, err := api.AddrValidate(human.String())
		assert.Nil(t, err)
		assert.Equal(t, human, valid)
	}
}

func TestBech32APIErrors(t *testing.T) {
	api := NewBech32API("archway")
	human, err := api.AddrHumanize(bytes.Repeat([]byte{1}, 20))
	assert.Nil(t, err)
	other, err := NewBech32API("cosmos").AddrHumanize(bytes.Repeat([]byte{1}, 20))
	assert.Nil(t, err)

	cases := map[string]struct {
		Human   string
		WantErr *errors.Error
	}{
		"empty": {
			Human:   "",
			WantErr: errors.ErrEmpty,
		},
		"wrong prefix": {
			Human:   other.String(),
			WantErr: errors.ErrInput,
		},
		"upper case": {
			Human:   "ARCHWAY" + human.String()[len("archway"):],
			WantErr: errors.ErrInput,
		},
		"mixed case": {
			Human:   "Archway" + human.String()[len("archway"):],
			WantErr: errors.ErrInput,
		},
		"bad checksum": {
			Human:   human.String()[:len(human)-1] + flip(human.String()[len(human)-1:]),
			WantErr: errors.ErrInput,
		},
		"garbage": {
			Human:   "not an address",
			WantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := api.AddrValidate(tc.Human)
			assert.IsErr(t, tc.WantErr, err)
		})
	}

	_, err = api.AddrHumanize(nil)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestCanonicalAddrString(t *testing.T) {
	assert.Equal(t, "(nil)", CanonicalAddr(nil).String())
	assert.Equal(t, "0AFF", CanonicalAddr{0x0a, 0xff}.String())
}

// flip returns a bech32 character different from c.
func flip(c string) string {
	if c == "q" {
		return "p"
	}
	return "q"
}
