package ledger

import (
	"github.com/iov-one/pantheon"
)

// querier gives contracts read access to the state of the ledger as seen by
// the request that is being processed.
type querier struct {
	l  *Ledger
	db pantheon.ReadOnlyKVStore
}

var _ pantheon.Querier = (*querier)(nil)

func (q *querier) Balance(ctx pantheon.Context, addr pantheon.Addr, denom string) (pantheon.Coin, error) {
	if err := pantheon.ValidateDenom(denom); err != nil {
		return pantheon.Coin{}, err
	}
	return q.l.bank.AmountOf(q.db, addr, denom)
}

func (q *querier) CodeInfo(ctx pantheon.Context, codeID uint64) (*pantheon.CodeInfoResponse, error) {
	code, err := q.l.registry.Code(q.db, codeID)
	if err != nil {
		return nil, err
	}
	return code.Response(), nil
}

func (q *querier) ContractInfo(ctx pantheon.Context, addr pantheon.Addr) (*pantheon.ContractInfoResponse, error) {
	c, err := q.l.registry.Contract(q.db, addr)
	if err != nil {
		return nil, err
	}
	return c.Response(), nil
}
