package bank

import (
	"fmt"
	"sort"

	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/orm"
)

var _ orm.Model = (*Wallet)(nil)

// Validate requires coins to be sorted by denomination, unique and
// positive.
func (m *Wallet) Validate() error {
	return ValidateCoinRecords(m.GetCoins())
}

// ValidateCoinRecords requires coin records to be sorted by denomination,
// unique and positive.
func ValidateCoinRecords(recs []*CoinRecord) error {
	var prev string
	for i, c := range recs {
		field := fmt.Sprintf("Coins.%d", i)
		if err := pantheon.ValidateDenom(c.GetDenom()); err != nil {
			return errors.Field(field, err, "")
		}
		if c.GetDenom() <= prev {
			return errors.Field(field, errors.ErrModel, "coins must be sorted and unique")
		}
		prev = c.GetDenom()
		amount, err := pantheon.ParseUint128(c.GetAmount())
		if err != nil {
			return errors.Field(field, err, "")
		}
		if amount.IsZero() {
			return errors.Field(field, errors.ErrAmount, "zero coins must not be stored")
		}
	}
	return nil
}

// NewWalletBucket returns a bucket of wallets keyed by the address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket("wallet", &Wallet{})
}

// RecordCoins converts stored coin records into coins.
func RecordCoins(recs []*CoinRecord) (pantheon.Coins, error) {
	coins := make(pantheon.Coins, 0, len(recs))
	for _, c := range recs {
		amount, err := pantheon.ParseUint128(c.GetAmount())
		if err != nil {
			return nil, errors.Wrapf(errors.ErrModel, "amount of %s: %s", c.GetDenom(), err)
		}
		coins = append(coins, pantheon.Coin{Denom: c.GetDenom(), Amount: amount})
	}
	return coins, nil
}

// CoinRecords converts coins into their stored form. Records are sorted by
// denomination and zero coins are dropped.
func CoinRecords(coins pantheon.Coins) []*CoinRecord {
	sorted := make(pantheon.Coins, 0, len(coins))
	for _, c := range coins {
		if !c.Amount.IsZero() {
			sorted = append(sorted, c)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Denom < sorted[j].Denom })

	recs := make([]*CoinRecord, len(sorted))
	for i, c := range sorted {
		recs[i] = &CoinRecord{Denom: c.Denom, Amount: c.Amount.String()}
	}
	return recs
}
