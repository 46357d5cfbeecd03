package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/pantheontest/assert"
	"github.com/iov-one/pantheon/store"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var genesisTime = time.Date(2021, 4, 1, 12, 0, 0, 0, time.UTC)

type testLedger struct {
	*Ledger
	t     *testing.T
	clock *clockwork.FakeClock
	reg   *prometheus.Registry
	alice pantheon.Addr
	bob   pantheon.Addr
}

func newTestLedger(t *testing.T, conf Config) *testLedger {
	t.Helper()
	clock := clockwork.NewFakeClockAt(genesisTime)
	reg := prometheus.NewRegistry()
	l, err := New(Options{
		Config:     conf,
		Contracts:  map[string]pantheon.Contract{"scripted": scripted{}},
		Clock:      clock,
		Registerer: reg,
	})
	assert.Nil(t, err)

	tl := &testLedger{Ledger: l, t: t, clock: clock, reg: reg}
	tl.alice = tl.addr(1)
	tl.bob = tl.addr(2)
	err = l.InitGenesis(context.Background(), Genesis{
		Balances: []GenesisBalance{
			{Address: tl.alice.String(), Coins: pantheon.Coins{pantheon.NewCoin(1000, "aconst")}},
		},
		Codes: []GenesisCode{
			{Creator: tl.alice.String(), Name: "scripted"},
		},
	})
	assert.Nil(t, err)
	return tl
}

func (tl *testLedger) addr(n byte) pantheon.Addr {
	tl.t.Helper()
	raw := bytes.Repeat([]byte{n}, 20)
	a, err := tl.API().AddrHumanize(raw)
	assert.Nil(tl.t, err)
	return a
}

func (tl *testLedger) instantiateScripted(msg scriptedMsg) pantheon.Addr {
	tl.t.Helper()
	addr, _, err := tl.Instantiate(context.Background(), InstantiateRequest{
		Sender: tl.alice,
		CodeID: 1,
		Msg:    mustJSON(msg),
		Admin:  tl.alice,
		Label:  "scripted",
	})
	assert.Nil(tl.t, err)
	return addr
}

func (tl *testLedger) value(contract pantheon.Addr) string {
	tl.t.Helper()
	raw, err := tl.Query(context.Background(), contract, []byte(`{}`))
	assert.Nil(tl.t, err)
	return string(raw)
}

func (tl *testLedger) contractStore(contract pantheon.Addr) pantheon.KVStore {
	return store.NewPrefixStore(tl.db, contractPrefix(contract))
}

func (tl *testLedger) reply(contract pantheon.Addr, id uint64) *pantheon.Reply {
	tl.t.Helper()
	raw, err := tl.contractStore(contract).Get(replyKey(id))
	assert.Nil(tl.t, err)
	if raw == nil {
		return nil
	}
	var r pantheon.Reply
	assert.Nil(tl.t, json.Unmarshal(raw, &r))
	return &r
}

func TestNew(t *testing.T) {
	cases := map[string]struct {
		Conf    func(*Config)
		WantErr *errors.Error
	}{
		"default": {},
		"invalid chain id": {
			Conf:    func(c *Config) { c.ChainID = "x" },
			WantErr: errors.ErrInput,
		},
		"invalid denomination": {
			Conf:    func(c *Config) { c.NativeDenom = "1" },
			WantErr: errors.ErrInput,
		},
		"invalid log level": {
			Conf:    func(c *Config) { c.LogLevel = "loud" },
			WantErr: errors.ErrInput,
		},
		"no prefix": {
			Conf:    func(c *Config) { c.Bech32Prefix = "" },
			WantErr: errors.ErrEmpty,
		},
		"no call depth": {
			Conf:    func(c *Config) { c.MaxCallDepth = 0 },
			WantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			conf := DefaultConfig()
			if tc.Conf != nil {
				tc.Conf(&conf)
			}
			_, err := New(Options{Config: conf})
			assert.IsErr(t, tc.WantErr, err)
		})
	}
}

func TestNewRejectsForeignStore(t *testing.T) {
	db := store.MemStore()
	l, err := New(Options{Config: DefaultConfig(), Store: db})
	assert.Nil(t, err)
	assert.Nil(t, l.InitGenesis(context.Background(), Genesis{}))

	conf := DefaultConfig()
	conf.ChainID = "another-chain"
	_, err = New(Options{Config: conf, Store: db})
	assert.IsErr(t, errors.ErrState, err)

	// The same chain can be reopened.
	l, err = New(Options{Config: DefaultConfig(), Store: db})
	assert.Nil(t, err)
	h, err := l.Height()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), h)
}

func TestInitGenesis(t *testing.T) {
	tl := newTestLedger(t, DefaultConfig())
	ctx := context.Background()

	coins, err := tl.Balance(ctx, tl.alice)
	assert.Nil(t, err)
	assert.JSONEqual(t, pantheon.Coins{pantheon.NewCoin(1000, "aconst")}, coins)

	// Genesis is allowed only once.
	err = tl.InitGenesis(ctx, Genesis{})
	assert.IsErr(t, errors.ErrState, err)

	_, err = tl.StoreCode(ctx, tl.alice, "unknown")
	assert.IsErr(t, errors.ErrNotFound, err)

	code, err := tl.StoreCode(ctx, tl.alice, "scripted")
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), code.CodeID)

	h, err := tl.Height()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), h)
	assert.Equal(t, float64(2), testutil.ToFloat64(tl.metrics.Height))
	assert.Equal(t, float64(1), testutil.ToFloat64(tl.metrics.Requests.WithLabelValues("store_code", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(tl.metrics.Requests.WithLabelValues("store_code", "success")))
}

func TestInstantiateExecuteQuery(t *testing.T) {
	tl := newTestLedger(t, DefaultConfig())
	ctx := context.Background()

	tl.clock.Advance(time.Minute)
	addr, res, err := tl.Instantiate(ctx, InstantiateRequest{
		Sender: tl.alice,
		CodeID: 1,
		Msg:    mustJSON(scriptedMsg{Set: "first"}),
		Funds:  pantheon.Coins{pantheon.NewCoin(100, "aconst")},
		Label:  "scripted",
	})
	assert.Nil(t, err)
	assert.Equal(t, "first", tl.value(addr))

	data, err := pantheon.DecodeInstantiateResponse(res.Data)
	assert.Nil(t, err)
	assert.Equal(t, addr.String(), data.Address)
	assert.Equal(t, EventInstantiate, res.Events[0].Type)
	got, ok := res.Events[0].Attr(AttrContractAddress)
	assert.Equal(t, true, ok)
	assert.Equal(t, addr.String(), got)

	// The contract sees the height of the request.
	height, ok := res.Events[1].Attr("height")
	assert.Equal(t, true, ok)
	assert.Equal(t, "2", height)

	coins, err := tl.Balance(ctx, addr)
	assert.Nil(t, err)
	assert.JSONEqual(t, pantheon.Coins{pantheon.NewCoin(100, "aconst")}, coins)

	res, err = tl.Execute(ctx, tl.bob, addr, mustJSON(scriptedMsg{Set: "second", Data: []byte("out")}))
	assert.Nil(t, err)
	assert.Equal(t, []byte("out"), res.Data)
	assert.Equal(t, "second", tl.value(addr))

	info, err := tl.Contract(ctx, addr)
	assert.Nil(t, err)
	assert.Equal(t, tl.alice.String(), info.Creator)
	assert.Equal(t, "", info.Admin)

	state, err := tl.state(tl.db)
	assert.Nil(t, err)
	assert.Equal(t, int64(3), state.Height)
	assert.Equal(t, genesisTime.Add(time.Minute).UnixNano(), state.BlockTime)

	_, err = tl.Execute(ctx, tl.bob, tl.bob, []byte(`{}`))
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = tl.Query(ctx, tl.bob, []byte(`{}`))
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestFailedRequestIsDiscarded(t *testing.T) {
	tl := newTestLedger(t, DefaultConfig())
	ctx := context.Background()
	addr := tl.instantiateScripted(scriptedMsg{Set: "kept"})
	before, err := tl.Height()
	assert.Nil(t, err)

	cases := map[string]struct {
		Msg     scriptedMsg
		Funds   []pantheon.Coin
		WantErr *errors.Error
	}{
		"contract error": {
			Msg:     scriptedMsg{Set: "lost", Fail: "no"},
			WantErr: errors.ErrContract,
		},
		"contract panic": {
			Msg:     scriptedMsg{Set: "lost", Panic: true},
			WantErr: errors.ErrPanic,
		},
		"not enough funds": {
			Msg:     scriptedMsg{Set: "lost"},
			Funds:   []pantheon.Coin{pantheon.NewCoin(1, "aconst")},
			WantErr: errors.ErrInsufficientFunds,
		},
		"failing message": {
			Msg: scriptedMsg{Set: "lost", Messages: []pantheon.SubMsg{
				pantheon.NewSubMsg(pantheon.BankSend(tl.bob, pantheon.NewCoin(5, "aconst"))),
			}},
			WantErr: errors.ErrInsufficientFunds,
		},
		"unsupported message": {
			Msg: scriptedMsg{Set: "lost", Messages: []pantheon.SubMsg{
				pantheon.NewSubMsg(pantheon.CosmosMsg{}),
			}},
			WantErr: errors.ErrMsg,
		},
		"failing reply": {
			Msg: scriptedMsg{Set: "lost", Messages: []pantheon.SubMsg{{
				ID:      13,
				ReplyOn: pantheon.ReplyAlways,
				Msg:     pantheon.BankSend(tl.bob),
			}}},
			WantErr: errors.ErrContract,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := tl.Execute(ctx, tl.bob, addr, mustJSON(tc.Msg), tc.Funds...)
			assert.IsErr(t, tc.WantErr, err)
			assert.Equal(t, "kept", tl.value(addr))

			h, err := tl.Height()
			assert.Nil(t, err)
			assert.Equal(t, before, h)
		})
	}

	assert.Equal(t, float64(len(cases)), testutil.ToFloat64(tl.metrics.Requests.WithLabelValues("execute", "error")))
}

func TestSubMessages(t *testing.T) {
	tl := newTestLedger(t, DefaultConfig())
	ctx := context.Background()
	addr := tl.instantiateScripted(scriptedMsg{})
	assert.Nil(t, tl.Send(ctx, tl.alice, addr, pantheon.NewCoin(10, "aconst")))

	failing := pantheon.BankSend(tl.bob, pantheon.NewCoin(500, "aconst"))
	passing := pantheon.BankSend(tl.bob, pantheon.NewCoin(3, "aconst"))

	_, err := tl.Execute(ctx, tl.alice, addr, mustJSON(scriptedMsg{Messages: []pantheon.SubMsg{
		{ID: 1, ReplyOn: pantheon.ReplyError, Msg: failing},
		{ID: 2, ReplyOn: pantheon.ReplySuccess, Msg: passing},
		{ID: 3, ReplyOn: pantheon.ReplySuccess, Msg: failing},
	}}))
	assert.IsErr(t, errors.ErrInsufficientFunds, err)

	res, err := tl.Execute(ctx, tl.alice, addr, mustJSON(scriptedMsg{Messages: []pantheon.SubMsg{
		{ID: 1, ReplyOn: pantheon.ReplyError, Msg: failing},
		{ID: 2, ReplyOn: pantheon.ReplySuccess, Msg: passing},
		{ID: 4, ReplyOn: pantheon.ReplyError, Msg: passing},
		pantheon.NewSubMsg(passing),
	}}))
	assert.Nil(t, err)
	// The last reply overwrites the response data.
	assert.Equal(t, []byte("reply 2"), res.Data)

	coins, err := tl.Balance(ctx, tl.bob)
	assert.Nil(t, err)
	assert.JSONEqual(t, pantheon.Coins{pantheon.NewCoin(9, "aconst")}, coins)

	reply := tl.reply(addr, 1)
	assert.Equal(t, false, reply.Result.IsOk())
	if !strings.Contains(reply.Result.Err, "insufficient funds") {
		t.Fatalf("unexpected reply error: %q", reply.Result.Err)
	}

	reply = tl.reply(addr, 2)
	assert.Equal(t, true, reply.Result.IsOk())
	assert.Equal(t, EventTransfer, reply.Result.Ok.Events[0].Type)

	// Only a failure of the fourth message is replied.
	if r := tl.reply(addr, 4); r != nil {
		t.Fatalf("unexpected reply: %+v", r)
	}

	// Failed messages are counted even if their request was discarded.
	assert.Equal(t, float64(3), testutil.ToFloat64(tl.metrics.Messages.WithLabelValues("bank_send", "error")))
}

func TestNestedInstantiation(t *testing.T) {
	tl := newTestLedger(t, DefaultConfig())
	ctx := context.Background()
	parent := tl.instantiateScripted(scriptedMsg{})

	child := mustJSON(scriptedMsg{Set: "child"})
	res, err := tl.Execute(ctx, tl.alice, parent, mustJSON(scriptedMsg{Messages: []pantheon.SubMsg{
		{ID: 7, ReplyOn: pantheon.ReplySuccess, Msg: pantheon.CosmosMsg{Wasm: &pantheon.WasmMsg{
			Instantiate: &pantheon.InstantiateMsg{Admin: parent.String(), CodeID: 1, Msg: child, Label: "child"},
		}}},
		{ID: 8, ReplyOn: pantheon.ReplySuccess, Msg: pantheon.CosmosMsg{Wasm: &pantheon.WasmMsg{
			Instantiate2: &pantheon.Instantiate2Msg{CodeID: 1, Msg: child, Label: "child", Salt: []byte("salt")},
		}}},
	}}))
	assert.Nil(t, err)

	var classic, derived pantheon.Addr
	for _, ev := range res.Events {
		if ev.Type != EventInstantiate {
			continue
		}
		a, _ := ev.Attr(AttrContractAddress)
		if classic == "" {
			classic = pantheon.Addr(a)
		} else {
			derived = pantheon.Addr(a)
		}
	}
	assert.Equal(t, "child", tl.value(classic))
	assert.Equal(t, "child", tl.value(derived))

	// The reply carries the address in the response data.
	reply := tl.reply(parent, 7)
	data, err := pantheon.DecodeInstantiateResponse(reply.Result.Ok.Data)
	assert.Nil(t, err)
	assert.Equal(t, classic.String(), data.Address)

	info, err := tl.Contract(ctx, classic)
	assert.Nil(t, err)
	assert.Equal(t, parent.String(), info.Admin)
	assert.Equal(t, parent.String(), info.Creator)

	// The derived address can be predicted.
	var predicted pantheon.Addr
	err = tl.view(ctx, func(ctx pantheon.Context, db pantheon.CacheableKVStore) error {
		var err error
		predicted, err = tl.registry.PredictAddress(db, 1, parent, []byte("salt"))
		return err
	})
	assert.Nil(t, err)
	assert.Equal(t, predicted, derived)

	// Using the same salt again collides.
	_, err = tl.Execute(ctx, tl.alice, parent, mustJSON(scriptedMsg{Messages: []pantheon.SubMsg{
		pantheon.NewSubMsg(pantheon.CosmosMsg{Wasm: &pantheon.WasmMsg{
			Instantiate2: &pantheon.Instantiate2Msg{CodeID: 1, Msg: child, Label: "child", Salt: []byte("salt")},
		}}),
	}}))
	assert.IsErr(t, errors.ErrDuplicate, err)
}

func TestCallDepth(t *testing.T) {
	conf := DefaultConfig()
	conf.MaxCallDepth = 2
	tl := newTestLedger(t, conf)
	ctx := context.Background()
	addr := tl.instantiateScripted(scriptedMsg{})

	nested := func(depth int) []byte {
		msg := scriptedMsg{Set: "deepest"}
		for i := 0; i < depth; i++ {
			msg = scriptedMsg{Messages: []pantheon.SubMsg{
				pantheon.NewSubMsg(pantheon.CosmosMsg{Wasm: &pantheon.WasmMsg{
					Execute: &pantheon.ExecuteMsg{ContractAddr: addr.String(), Msg: mustJSON(msg)},
				}}),
			}}
		}
		return mustJSON(msg)
	}

	_, err := tl.Execute(ctx, tl.alice, addr, nested(2))
	assert.Nil(t, err)
	assert.Equal(t, "deepest", tl.value(addr))

	_, err = tl.Execute(ctx, tl.alice, addr, nested(3))
	assert.IsErr(t, errors.ErrState, err)
}

func TestContractAdminAndMetadata(t *testing.T) {
	tl := newTestLedger(t, DefaultConfig())
	ctx := context.Background()
	owner := tl.instantiateScripted(scriptedMsg{})

	child := mustJSON(scriptedMsg{})
	res, err := tl.Execute(ctx, tl.alice, owner, mustJSON(scriptedMsg{Messages: []pantheon.SubMsg{
		pantheon.NewSubMsg(pantheon.CosmosMsg{Wasm: &pantheon.WasmMsg{
			Instantiate2: &pantheon.Instantiate2Msg{Admin: owner.String(), CodeID: 1, Msg: child, Label: "child", Salt: []byte("c")},
		}}),
	}}))
	assert.Nil(t, err)
	a, _ := res.Events[len(res.Events)-2].Attr(AttrContractAddress)
	contract := pantheon.Addr(a)

	_, err = tl.Execute(ctx, tl.alice, owner, mustJSON(scriptedMsg{Messages: []pantheon.SubMsg{
		pantheon.NewSubMsg(pantheon.UpdateContractMetadata(contract, owner, owner)),
		pantheon.NewSubMsg(pantheon.UpdateAdmin(contract, tl.bob)),
	}}))
	assert.Nil(t, err)

	info, err := tl.Contract(ctx, contract)
	assert.Nil(t, err)
	assert.Equal(t, tl.bob.String(), info.Admin)
	md, err := tl.Metadata(ctx, contract)
	assert.Nil(t, err)
	assert.Equal(t, owner.String(), md.OwnerAddress)

	// The owner is no longer the admin.
	_, err = tl.Execute(ctx, tl.alice, owner, mustJSON(scriptedMsg{Messages: []pantheon.SubMsg{
		pantheon.NewSubMsg(pantheon.UpdateAdmin(contract, owner)),
	}}))
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// Rewards go to the owner and are withdrawn by it.
	rec, err := tl.Accrue(ctx, contract, pantheon.NewCoin(40, "aconst"))
	assert.Nil(t, err)
	assert.Equal(t, owner.String(), rec.RewardsAddress)
	recs, err := tl.Rewards(ctx, owner)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(recs))

	limit := uint64(0)
	res, err = tl.Execute(ctx, tl.alice, owner, mustJSON(scriptedMsg{Messages: []pantheon.SubMsg{
		pantheon.NewSubMsg(pantheon.CosmosMsg{Custom: &pantheon.CustomMsg{
			WithdrawRewards: &pantheon.WithdrawRewardsMsg{RecordsLimit: &limit, RecordIDs: []uint64{}},
		}}),
	}}))
	assert.Nil(t, err)
	last := res.Events[len(res.Events)-1]
	assert.Equal(t, EventWithdrawReward, last.Type)
	amount, _ := last.Attr("amount")
	assert.Equal(t, "40aconst", amount)

	coins, err := tl.Balance(ctx, owner)
	assert.Nil(t, err)
	assert.JSONEqual(t, pantheon.Coins{pantheon.NewCoin(40, "aconst")}, coins)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "info")
	assert.Nil(t, err)

	l, err := New(Options{
		Config:    DefaultConfig(),
		Contracts: map[string]pantheon.Contract{"scripted": scripted{}},
		Logger:    logger,
	})
	assert.Nil(t, err)
	assert.Nil(t, l.InitGenesis(context.Background(), Genesis{}))
	_, err = l.StoreCode(context.Background(), "", "scripted")
	assert.IsErr(t, errors.ErrEmpty, err)

	if !bytes.Contains(buf.Bytes(), []byte("request failed")) {
		t.Fatalf("failure not logged: %s", buf.String())
	}

	_, err = NewLogger(&buf, "loud")
	assert.IsErr(t, errors.ErrInput, err)
}
