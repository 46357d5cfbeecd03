package bank

import (
	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/orm"
)

// Controller is the only way to modify balances.
type Controller struct {
	bucket orm.ModelBucket
}

// NewController returns a controller using the default wallet bucket.
func NewController() *Controller {
	return &Controller{bucket: NewWalletBucket()}
}

// Balance returns all coins held by the address. An unknown address holds
// nothing.
func (c *Controller) Balance(db pantheon.ReadOnlyKVStore, addr pantheon.Addr) (pantheon.Coins, error) {
	var w Wallet
	switch err := c.bucket.One(db, []byte(addr), &w); {
	case errors.ErrNotFound.Is(err):
		return pantheon.Coins{}, nil
	case err != nil:
		return nil, errors.Wrap(err, "wallet")
	}
	return RecordCoins(w.GetCoins())
}

// AmountOf returns the amount of a single denomination held by the address.
func (c *Controller) AmountOf(db pantheon.ReadOnlyKVStore, addr pantheon.Addr, denom string) (pantheon.Coin, error) {
	coins, err := c.Balance(db, addr)
	if err != nil {
		return pantheon.Coin{}, err
	}
	return pantheon.Coin{Denom: denom, Amount: coins.AmountOf(denom)}, nil
}

// MoveCoins moves the given amount from src to dest. It fails if src does
// not hold enough coins. Moving zero coins is a no-op.
func (c *Controller) MoveCoins(db pantheon.KVStore, src, dest pantheon.Addr, amount pantheon.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if amount.Amount.IsZero() {
		return nil
	}
	if err := c.update(db, src, amount, false); err != nil {
		return err
	}
	return c.update(db, dest, amount, true)
}

// Send moves all given coins from src to dest.
func (c *Controller) Send(db pantheon.KVStore, src, dest pantheon.Addr, coins pantheon.Coins) error {
	if err := coins.Validate(); err != nil {
		return errors.Wrap(err, "coins")
	}
	for _, coin := range coins {
		if err := c.MoveCoins(db, src, dest, coin); err != nil {
			return err
		}
	}
	return nil
}

// IssueCoins adds the given amount of coins to the destination address.
// Fails if it overflows the wallet.
func (c *Controller) IssueCoins(db pantheon.KVStore, dest pantheon.Addr, amount pantheon.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if amount.Amount.IsZero() {
		return nil
	}
	return c.update(db, dest, amount, true)
}

func (c *Controller) update(db pantheon.KVStore, addr pantheon.Addr, amount pantheon.Coin, add bool) error {
	if addr.Empty() {
		return errors.Wrap(errors.ErrEmpty, "address")
	}
	coins, err := c.Balance(db, addr)
	if err != nil {
		return err
	}

	held := coins.AmountOf(amount.Denom)
	var next pantheon.Uint128
	if add {
		if next, err = held.Add(amount.Amount); err != nil {
			return errors.Wrapf(err, "wallet %s", addr)
		}
	} else {
		if held.Cmp(amount.Amount) < 0 {
			return errors.Wrapf(errors.ErrInsufficientFunds, "%s holds %s, needs %s", addr, pantheon.Coin{Denom: amount.Denom, Amount: held}, amount)
		}
		if next, err = held.Sub(amount.Amount); err != nil {
			return err
		}
	}

	updated := make(pantheon.Coins, 0, len(coins)+1)
	for _, coin := range coins {
		if coin.Denom != amount.Denom {
			updated = append(updated, coin)
		}
	}
	updated = append(updated, pantheon.Coin{Denom: amount.Denom, Amount: next})

	w := &Wallet{Coins: CoinRecords(updated)}
	if len(w.Coins) == 0 {
		if err := c.bucket.Delete(db, []byte(addr)); err != nil && !errors.ErrNotFound.Is(err) {
			return err
		}
		return nil
	}
	return c.bucket.Put(db, []byte(addr), w)
}
