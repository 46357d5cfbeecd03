package distribute

import (
	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/x/shares"
)

// WithdrawFromPool returns the message that withdraws all reward records
// credited to the contract. The ledger moves the rewards into the contract
// balance.
func WithdrawFromPool() pantheon.SubMsg {
	// Zero means no limit.
	var limit uint64
	return pantheon.NewSubMsg(pantheon.CosmosMsg{Custom: &pantheon.CustomMsg{
		WithdrawRewards: &pantheon.WithdrawRewardsMsg{
			RecordsLimit: &limit,
			RecordIDs:    []uint64{},
		},
	}})
}

// Distributor splits the contract balance between the shares.
type Distributor struct {
	shares *shares.Ledger
}

// NewDistributor returns a distributor paying to the shares of given ledger.
func NewDistributor(l *shares.Ledger) *Distributor {
	return &Distributor{shares: l}
}

// DistributeNativeBalance returns one bank transfer per share, in the order
// of the share recipients. Every payee gets floor(balance * percentage) of
// the contract balance in given denomination. Transfers of zero are
// included.
func (d *Distributor) DistributeNativeBalance(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, denom string) ([]pantheon.SubMsg, error) {
	if err := pantheon.ValidateDenom(denom); err != nil {
		return nil, err
	}
	balance, err := deps.Querier.Balance(ctx, env.Contract.Address, denom)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire contract balance")
	}
	payees, err := d.shares.All(deps.Storage)
	if err != nil {
		return nil, err
	}
	amounts, err := Split(balance.Amount, payees)
	if err != nil {
		return nil, errors.Wrap(err, "cannot split balance")
	}

	msgs := make([]pantheon.SubMsg, 0, len(payees))
	for i, p := range payees {
		msgs = append(msgs, pantheon.NewSubMsg(pantheon.BankSend(p.Recipient, pantheon.Coin{
			Denom:  denom,
			Amount: amounts[i],
		})))
	}

	pantheon.GetLogger(ctx).Info("native balance distributed",
		"balance", balance.Amount, "denom", denom, "payees", len(payees))
	return msgs, nil
}

// Split returns the amount due to every payee, in the same order. The sum
// of the amounts is never greater than the total.
func Split(total pantheon.Uint128, payees []shares.Share) ([]pantheon.Uint128, error) {
	amounts := make([]pantheon.Uint128, len(payees))
	sum := pantheon.NewUint128(0)
	for i, p := range payees {
		amount, err := total.MulFloor(p.Percentage)
		if err != nil {
			return nil, errors.Wrapf(err, "share of %q", p.Recipient)
		}
		if sum, err = sum.Add(amount); err != nil {
			return nil, err
		}
		amounts[i] = amount
	}
	if sum.Cmp(total) > 0 {
		return nil, errors.Wrapf(errors.ErrAmount, "payments of %s exceed the balance of %s", sum, total)
	}
	return amounts, nil
}
