package rewards

import (
	"sort"

	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/ledger/bank"
	"github.com/iov-one/pantheon/ledger/wasm"
	"github.com/iov-one/pantheon/orm"
)

var _ orm.Model = (*Record)(nil)

func (m *Record) Validate() error {
	var errs error
	if m.GetID() == 0 {
		errs = errors.AppendField(errs, "ID", errors.ErrEmpty)
	}
	if m.GetRewardsAddress() == "" {
		errs = errors.AppendField(errs, "RewardsAddress", errors.ErrEmpty)
	}
	if m.GetContract() == "" {
		errs = errors.AppendField(errs, "Contract", errors.ErrEmpty)
	}
	if len(m.GetCoins()) == 0 {
		errs = errors.AppendField(errs, "Coins", errors.ErrEmpty)
	} else {
		errs = errors.Append(errs, bank.ValidateCoinRecords(m.GetCoins()))
	}
	return errs
}

// NewRecordBucket returns a bucket of reward records keyed by the encoded
// record id.
func NewRecordBucket() orm.ModelBucket {
	return orm.NewModelBucket("reward", &Record{})
}

var recordSeq = orm.NewSequence("reward", "id")

// Tracker credits rewards to contracts and pays them out on withdrawal.
type Tracker struct {
	records  orm.ModelBucket
	registry *wasm.Registry
	bank     *bank.Controller
}

// NewTracker returns a tracker reading the rewards addresses from the
// registry and paying out through the bank.
func NewTracker(registry *wasm.Registry, b *bank.Controller) *Tracker {
	return &Tracker{
		records:  NewRecordBucket(),
		registry: registry,
		bank:     b,
	}
}

// Accrue credits the coins to the rewards address of the contract.
func (t *Tracker) Accrue(db pantheon.KVStore, contract pantheon.Addr, coins pantheon.Coins, height int64) (*Record, error) {
	if err := coins.Validate(); err != nil {
		return nil, errors.Wrap(err, "coins")
	}
	recs := bank.CoinRecords(coins)
	if len(recs) == 0 {
		return nil, errors.Wrap(errors.ErrAmount, "no rewards to credit")
	}
	md, err := t.registry.Metadata(db, contract)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(errors.ErrState, "contract %s has no rewards address", contract)
	case err != nil:
		return nil, err
	}

	id, err := recordSeq.NextInt(db)
	if err != nil {
		return nil, errors.Wrap(err, "record id")
	}
	r := &Record{
		ID:             id,
		RewardsAddress: md.GetRewardsAddress(),
		Contract:       contract.String(),
		Coins:          recs,
		Height:         height,
	}
	if err := t.records.Put(db, orm.EncodeSequence(id), r); err != nil {
		return nil, errors.Wrap(err, "save record")
	}
	return r, nil
}

// Records returns all records that can be withdrawn by the rewards
// address, ordered by id.
func (t *Tracker) Records(db pantheon.ReadOnlyKVStore, rewardsAddr pantheon.Addr) ([]Record, error) {
	var all []Record
	if _, err := t.records.Range(db, nil, 0, &all); err != nil {
		return nil, err
	}
	res := make([]Record, 0, len(all))
	for _, r := range all {
		if r.GetRewardsAddress() == rewardsAddr.String() {
			res = append(res, r)
		}
	}
	return res, nil
}

// Withdraw pays out records of the rewards address. Records are selected
// either by their ids or, in the ascending id order, up to the limit. A
// limit of zero means no limit. Providing both is not allowed.
//
// Withdrawn records are removed. The total amount and the ids of the
// withdrawn records are returned.
func (t *Tracker) Withdraw(db pantheon.KVStore, rewardsAddr pantheon.Addr, limit *uint64, ids []uint64) (pantheon.Coins, []uint64, error) {
	if limit != nil && len(ids) != 0 {
		return nil, nil, errors.Wrap(errors.ErrInput, "records limit and record ids are mutually exclusive")
	}

	var selected []Record
	if len(ids) != 0 {
		seen := make(map[uint64]struct{}, len(ids))
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				return nil, nil, errors.Wrapf(errors.ErrDuplicate, "record %d", id)
			}
			seen[id] = struct{}{}

			var r Record
			if err := t.records.One(db, orm.EncodeSequence(id), &r); err != nil {
				return nil, nil, errors.Wrapf(err, "record %d", id)
			}
			if r.GetRewardsAddress() != rewardsAddr.String() {
				return nil, nil, errors.Wrapf(errors.ErrUnauthorized, "record %d does not belong to %s", id, rewardsAddr)
			}
			selected = append(selected, r)
		}
	} else {
		all, err := t.Records(db, rewardsAddr)
		if err != nil {
			return nil, nil, err
		}
		if limit != nil && *limit != 0 && uint64(len(all)) > *limit {
			all = all[:*limit]
		}
		selected = all
	}

	total := make(map[string]pantheon.Uint128)
	withdrawn := make([]uint64, 0, len(selected))
	for _, r := range selected {
		coins, err := bank.RecordCoins(r.GetCoins())
		if err != nil {
			return nil, nil, err
		}
		for _, c := range coins {
			sum, err := c.Amount.Add(total[c.Denom])
			if err != nil {
				return nil, nil, err
			}
			total[c.Denom] = sum
		}
		if err := t.records.Delete(db, orm.EncodeSequence(r.GetID())); err != nil {
			return nil, nil, errors.Wrapf(err, "delete record %d", r.GetID())
		}
		withdrawn = append(withdrawn, r.GetID())
	}

	paid := make(pantheon.Coins, 0, len(total))
	for denom, amount := range total {
		paid = append(paid, pantheon.Coin{Denom: denom, Amount: amount})
	}
	sort.Slice(paid, func(i, j int) bool { return paid[i].Denom < paid[j].Denom })
	for _, c := range paid {
		if err := t.bank.IssueCoins(db, rewardsAddr, c); err != nil {
			return nil, nil, errors.Wrap(err, "pay out rewards")
		}
	}
	return paid, withdrawn, nil
}
