package distribute

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/pantheontest"
	"github.com/iov-one/pantheon/pantheontest/assert"
	"github.com/iov-one/pantheon/x/shares"
)

func TestWithdrawFromPool(t *testing.T) {
	msg := WithdrawFromPool()
	assert.Equal(t, pantheon.ReplyNever, msg.ReplyOn)
	w := msg.Msg.Custom.WithdrawRewards
	if w == nil {
		t.Fatal("withdraw rewards message expected")
	}
	assert.Equal(t, uint64(0), *w.RecordsLimit)
	assert.Equal(t, 0, len(w.RecordIDs))
	raw, err := json.Marshal(w)
	assert.Nil(t, err)
	assert.Equal(t, `{"records_limit":0,"record_ids":[]}`, string(raw))
}

func TestSplit(t *testing.T) {
	a := pantheontest.SequenceAddr(1)
	c := pantheontest.SequenceAddr(3)

	cases := map[string]struct {
		Total   string
		Payees  []shares.Share
		Want    []string
		WantErr *errors.Error
	}{
		"exact split": {
			Total:  "1000",
			Payees: []shares.Share{shares.NewShare(a, "0.6"), shares.NewShare(c, "0.4")},
			Want:   []string{"600", "400"},
		},
		"remainder stays": {
			Total:  "1001",
			Payees: []shares.Share{shares.NewShare(a, "0.6"), shares.NewShare(c, "0.4")},
			Want:   []string{"600", "400"},
		},
		"thirds": {
			Total: "100",
			Payees: []shares.Share{
				shares.NewShare(a, "0.333333333333333333"),
				shares.NewShare(c, "0.666666666666666667"),
			},
			Want: []string{"33", "66"},
		},
		"nothing to split": {
			Total:  "0",
			Payees: []shares.Share{shares.NewShare(a, "0.6"), shares.NewShare(c, "0.4")},
			Want:   []string{"0", "0"},
		},
		"zero percentage": {
			Total:  "7",
			Payees: []shares.Share{shares.NewShare(a, "1"), shares.NewShare(c, "0")},
			Want:   []string{"7", "0"},
		},
		"huge balance": {
			Total:  "340282366920938463463374607431768211455",
			Payees: []shares.Share{shares.NewShare(a, "0.5"), shares.NewShare(c, "0.5")},
			Want:   []string{"170141183460469231731687303715884105727", "170141183460469231731687303715884105727"},
		},
		"no payees": {
			Total: "10",
			Want:  []string{},
		},
		"payments above the balance": {
			Total:   "10",
			Payees:  []shares.Share{shares.NewShare(a, "0.6"), shares.NewShare(c, "0.6")},
			WantErr: errors.ErrAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			amounts, err := Split(pantheon.MustParseUint128(tc.Total), tc.Payees)
			assert.IsErr(t, tc.WantErr, err)
			if tc.WantErr != nil {
				return
			}
			got := make([]string, len(amounts))
			for i, a := range amounts {
				got[i] = a.String()
			}
			assert.Equal(t, tc.Want, got)
		})
	}
}

func TestDistributeNativeBalance(t *testing.T) {
	ctx := context.Background()
	self := pantheontest.NewAddr()
	a := pantheontest.SequenceAddr(1)
	c := pantheontest.SequenceAddr(3)

	q := pantheontest.NewQuerier().WithBalance(self,
		pantheon.NewCoin(12345, "aconst"),
		pantheon.NewCoin(999, "uother"),
	)
	deps := pantheontest.NewDeps(q)
	l := shares.NewLedger()
	assert.Nil(t, l.Set(deps.Storage, deps.API, []shares.Share{
		shares.NewShare(c, "0.4"),
		shares.NewShare(a, "0.6"),
	}))

	d := NewDistributor(l)
	msgs, err := d.DistributeNativeBalance(ctx, deps, pantheontest.Env(self), "aconst")
	assert.Nil(t, err)

	// floor(12345 * 0.6) == 7407, floor(12345 * 0.4) == 4938
	assert.JSONEqual(t, []pantheon.SubMsg{
		pantheon.NewSubMsg(pantheon.BankSend(a, pantheon.NewCoin(7407, "aconst"))),
		pantheon.NewSubMsg(pantheon.BankSend(c, pantheon.NewCoin(4938, "aconst"))),
	}, msgs)

	// An empty balance is distributed as zero transfers.
	msgs, err = d.DistributeNativeBalance(ctx, deps, pantheontest.Env(pantheontest.NewAddr()), "aconst")
	assert.Nil(t, err)
	assert.JSONEqual(t, []pantheon.SubMsg{
		pantheon.NewSubMsg(pantheon.BankSend(a, pantheon.NewCoin(0, "aconst"))),
		pantheon.NewSubMsg(pantheon.BankSend(c, pantheon.NewCoin(0, "aconst"))),
	}, msgs)

	_, err = d.DistributeNativeBalance(ctx, deps, pantheontest.Env(self), "1x")
	assert.IsErr(t, errors.ErrInput, err)

	q.Err = errors.ErrDatabase
	_, err = d.DistributeNativeBalance(ctx, deps, pantheontest.Env(self), "aconst")
	assert.IsErr(t, errors.ErrDatabase, err)
}
