package bank

import (
	"testing"

	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/pantheontest"
	"github.com/iov-one/pantheon/pantheontest/assert"
	"github.com/iov-one/pantheon/store"
)

func TestIssueCoins(t *testing.T) {
	db := store.MemStore()
	c := NewController()
	addr := pantheontest.NewAddr()

	coins, err := c.Balance(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(coins))

	assert.Nil(t, c.IssueCoins(db, addr, pantheon.NewCoin(10, "ustake")))
	assert.Nil(t, c.IssueCoins(db, addr, pantheon.NewCoin(5, "aconst")))
	assert.Nil(t, c.IssueCoins(db, addr, pantheon.NewCoin(7, "ustake")))
	// Zero amount does not create an entry.
	assert.Nil(t, c.IssueCoins(db, addr, pantheon.NewCoin(0, "uzero")))

	coins, err = c.Balance(db, addr)
	assert.Nil(t, err)
	assert.JSONEqual(t, pantheon.Coins{
		pantheon.NewCoin(5, "aconst"),
		pantheon.NewCoin(17, "ustake"),
	}, coins)

	coin, err := c.AmountOf(db, addr, "ustake")
	assert.Nil(t, err)
	assert.Equal(t, "17ustake", coin.String())

	coin, err = c.AmountOf(db, addr, "unknown")
	assert.Nil(t, err)
	assert.Equal(t, "0unknown", coin.String())

	err = c.IssueCoins(db, addr, pantheon.NewCoin(1, "x"))
	assert.IsErr(t, errors.ErrInput, err)

	err = c.IssueCoins(db, addr, pantheon.Coin{Denom: "ustake", Amount: pantheon.MustParseUint128("340282366920938463463374607431768211455")})
	assert.IsErr(t, errors.ErrOverflow, err)
}

func TestMoveCoins(t *testing.T) {
	alice := pantheontest.SequenceAddr(1)
	bob := pantheontest.SequenceAddr(2)

	cases := map[string]struct {
		Amount    pantheon.Coin
		WantErr   *errors.Error
		WantAlice string
		WantBob   string
	}{
		"partial": {
			Amount:    pantheon.NewCoin(40, "aconst"),
			WantAlice: "60aconst",
			WantBob:   "40aconst",
		},
		"everything": {
			Amount:    pantheon.NewCoin(100, "aconst"),
			WantAlice: "0aconst",
			WantBob:   "100aconst",
		},
		"zero is a no-op": {
			Amount:    pantheon.NewCoin(0, "aconst"),
			WantAlice: "100aconst",
			WantBob:   "0aconst",
		},
		"zero of an unknown denomination": {
			Amount:    pantheon.NewCoin(0, "unknown"),
			WantAlice: "100aconst",
			WantBob:   "0aconst",
		},
		"insufficient funds": {
			Amount:    pantheon.NewCoin(101, "aconst"),
			WantErr:   errors.ErrInsufficientFunds,
			WantAlice: "100aconst",
			WantBob:   "0aconst",
		},
		"unknown denomination": {
			Amount:    pantheon.NewCoin(1, "unknown"),
			WantErr:   errors.ErrInsufficientFunds,
			WantAlice: "100aconst",
			WantBob:   "0aconst",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			c := NewController()
			assert.Nil(t, c.IssueCoins(db, alice, pantheon.NewCoin(100, "aconst")))

			err := c.MoveCoins(db, alice, bob, tc.Amount)
			assert.IsErr(t, tc.WantErr, err)

			a, err := c.AmountOf(db, alice, "aconst")
			assert.Nil(t, err)
			assert.Equal(t, tc.WantAlice, a.String())
			b, err := c.AmountOf(db, bob, "aconst")
			assert.Nil(t, err)
			assert.Equal(t, tc.WantBob, b.String())
		})
	}
}

func TestEmptyWalletIsRemoved(t *testing.T) {
	db := store.MemStore()
	c := NewController()
	alice := pantheontest.NewAddr()
	bob := pantheontest.NewAddr()

	assert.Nil(t, c.IssueCoins(db, alice, pantheon.NewCoin(3, "aconst")))
	assert.Nil(t, c.MoveCoins(db, alice, bob, pantheon.NewCoin(3, "aconst")))

	ok, err := NewWalletBucket().Has(db, []byte(alice))
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
}

func TestSend(t *testing.T) {
	db := store.MemStore()
	c := NewController()
	alice := pantheontest.NewAddr()
	bob := pantheontest.NewAddr()
	assert.Nil(t, c.IssueCoins(db, alice, pantheon.NewCoin(3, "aconst")))
	assert.Nil(t, c.IssueCoins(db, alice, pantheon.NewCoin(9, "ustake")))

	err := c.Send(db, alice, bob, pantheon.Coins{pantheon.NewCoin(2, "aconst"), pantheon.NewCoin(9, "ustake")})
	assert.Nil(t, err)

	coins, err := c.Balance(db, bob)
	assert.Nil(t, err)
	assert.JSONEqual(t, pantheon.Coins{pantheon.NewCoin(2, "aconst"), pantheon.NewCoin(9, "ustake")}, coins)

	err = c.Send(db, alice, bob, pantheon.Coins{pantheon.NewCoin(1, "aconst"), pantheon.NewCoin(1, "aconst")})
	assert.IsErr(t, errors.ErrDuplicate, err)
}

func TestWalletValidate(t *testing.T) {
	cases := map[string]struct {
		Wallet  *Wallet
		WantErr *errors.Error
	}{
		"empty": {
			Wallet: &Wallet{},
		},
		"sorted": {
			Wallet: &Wallet{Coins: []*CoinRecord{
				{Denom: "aconst", Amount: "1"},
				{Denom: "ustake", Amount: "2"},
			}},
		},
		"unsorted": {
			Wallet: &Wallet{Coins: []*CoinRecord{
				{Denom: "ustake", Amount: "2"},
				{Denom: "aconst", Amount: "1"},
			}},
			WantErr: errors.ErrModel,
		},
		"zero amount": {
			Wallet:  &Wallet{Coins: []*CoinRecord{{Denom: "aconst", Amount: "0"}}},
			WantErr: errors.ErrAmount,
		},
		"bad amount": {
			Wallet:  &Wallet{Coins: []*CoinRecord{{Denom: "aconst", Amount: "-4"}}},
			WantErr: errors.ErrOverflow,
		},
		"bad denom": {
			Wallet:  &Wallet{Coins: []*CoinRecord{{Denom: "1a", Amount: "4"}}},
			WantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.WantErr, tc.Wallet.Validate())
		})
	}
}
