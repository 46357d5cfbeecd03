package ledger

import (
	"strconv"
	"strings"

	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/ledger/wasm"
)

// Event types emitted by the ledger.
const (
	EventInstantiate    = "instantiate"
	EventExecute        = "execute"
	EventWasm           = "wasm"
	EventTransfer       = "transfer"
	EventUpdateAdmin    = "update_contract_admin"
	EventSetMetadata    = "set_contract_metadata"
	EventWithdrawReward = "withdraw_rewards"

	AttrContractAddress = "_contract_address"
)

// Result is the outcome of a successful request.
type Result struct {
	Events []pantheon.Event `json:"events"`
	Data   []byte           `json:"data,omitempty"`
}

func newEvent(typ string, kv ...string) pantheon.Event {
	ev := pantheon.Event{Type: typ}
	for i := 0; i+1 < len(kv); i += 2 {
		ev.Attributes = append(ev.Attributes, pantheon.Attribute{Key: kv[i], Value: kv[i+1]})
	}
	return ev
}

func (l *Ledger) instantiate(ctx pantheon.Context, db pantheon.CacheableKVStore, depth int, req InstantiateRequest) (pantheon.Addr, *Result, error) {
	code, err := l.registry.Code(db, req.CodeID)
	if err != nil {
		return "", nil, err
	}
	impl, ok := l.contracts[code.GetName()]
	if !ok {
		return "", nil, errors.Wrapf(errors.ErrNotFound, "contract implementation %q", code.GetName())
	}

	height, _ := pantheon.GetHeight(ctx)
	in := wasm.Instantiation{
		Creator: req.Sender,
		CodeID:  req.CodeID,
		Admin:   req.Admin,
		Label:   req.Label,
		Height:  height,
	}
	var info *wasm.ContractInfo
	if req.Salt != nil {
		info, err = l.registry.Instantiate2(db, in, req.Salt)
	} else {
		info, err = l.registry.Instantiate(db, in)
	}
	if err != nil {
		return "", nil, err
	}
	addr := pantheon.Addr(info.GetAddress())

	if _, err := l.send(db, req.Sender, addr.String(), req.Funds); err != nil {
		return "", nil, err
	}

	pantheon.GetLogger(ctx).Debug("instantiating contract",
		"contract", addr, "code_id", req.CodeID, "sender", req.Sender, "depth", depth)

	res, err := l.call(func() (*pantheon.Response, error) {
		return impl.Instantiate(ctx, l.deps(db, addr), l.env(ctx, addr), pantheon.MessageInfo{Sender: req.Sender, Funds: req.Funds}, req.Msg)
	})
	if err != nil {
		return "", nil, errors.Wrapf(err, "instantiate %s", addr)
	}

	events := []pantheon.Event{newEvent(EventInstantiate,
		AttrContractAddress, addr.String(),
		"code_id", strconv.FormatUint(req.CodeID, 10),
	)}
	more, data, err := l.handleResponse(ctx, db, depth, addr, res)
	if err != nil {
		return "", nil, err
	}
	raw, err := pantheon.EncodeInstantiateResponse(addr, data)
	if err != nil {
		return "", nil, err
	}
	return addr, &Result{Events: append(events, more...), Data: raw}, nil
}

func (l *Ledger) execute(ctx pantheon.Context, db pantheon.CacheableKVStore, depth int, sender, contract pantheon.Addr, msg []byte, funds pantheon.Coins) (*Result, error) {
	impl, _, err := l.implementation(db, contract)
	if err != nil {
		return nil, err
	}
	if _, err := l.send(db, sender, contract.String(), funds); err != nil {
		return nil, err
	}

	pantheon.GetLogger(ctx).Debug("executing contract",
		"contract", contract, "sender", sender, "depth", depth)

	res, err := l.call(func() (*pantheon.Response, error) {
		return impl.Execute(ctx, l.deps(db, contract), l.env(ctx, contract), pantheon.MessageInfo{Sender: sender, Funds: funds}, msg)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "execute %s", contract)
	}

	events := []pantheon.Event{newEvent(EventExecute, AttrContractAddress, contract.String())}
	more, data, err := l.handleResponse(ctx, db, depth, contract, res)
	if err != nil {
		return nil, err
	}
	return &Result{Events: append(events, more...), Data: data}, nil
}

// call invokes a contract entry point. A panic in the contract is returned
// as an error.
func (l *Ledger) call(fn func() (*pantheon.Response, error)) (res *pantheon.Response, err error) {
	defer errors.Recover(&err)
	res, err = fn()
	if err == nil && res == nil {
		res = pantheon.NewResponse()
	}
	return res, err
}

// handleResponse turns the response of a contract into events and
// dispatches all messages it carries. The returned data is the response
// data, unless a reply handler overwrote it.
func (l *Ledger) handleResponse(ctx pantheon.Context, db pantheon.CacheableKVStore, depth int, contract pantheon.Addr, res *pantheon.Response) ([]pantheon.Event, []byte, error) {
	var events []pantheon.Event
	if len(res.Attributes) != 0 {
		ev := newEvent(EventWasm, AttrContractAddress, contract.String())
		ev.Attributes = append(ev.Attributes, res.Attributes...)
		events = append(events, ev)
	}
	for _, e := range res.Events {
		ev := pantheon.Event{Type: EventWasm + "-" + e.Type}
		ev.Attributes = append([]pantheon.Attribute{{Key: AttrContractAddress, Value: contract.String()}}, e.Attributes...)
		events = append(events, ev)
	}

	data := res.Data
	for i, sub := range res.Messages {
		subEvents, replyData, err := l.dispatchSubMsg(ctx, db, depth+1, contract, sub)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "message %d", i)
		}
		events = append(events, subEvents...)
		if replyData != nil {
			data = replyData
		}
	}
	return events, data, nil
}

// dispatchSubMsg executes a message of a contract in a nested cache wrap
// and delivers the outcome to the contract when a reply is expected. A
// failure that is not replied fails the caller.
func (l *Ledger) dispatchSubMsg(ctx pantheon.Context, db pantheon.CacheableKVStore, depth int, contract pantheon.Addr, sub pantheon.SubMsg) ([]pantheon.Event, []byte, error) {
	if depth > l.conf.MaxCallDepth {
		return nil, nil, errors.Wrapf(errors.ErrState, "call depth %d exceeds %d", depth, l.conf.MaxCallDepth)
	}

	kind := msgType(sub.Msg)
	cache := db.CacheWrap()
	res, err := l.dispatch(ctx, cache, depth, contract, sub.Msg)
	if err == nil {
		err = cache.Write()
	} else {
		cache.Discard()
	}
	l.metrics.Messages.WithLabelValues(kind, status(err)).Inc()

	if !sub.ReplyOn.Wants(err == nil) {
		if err != nil {
			return nil, nil, err
		}
		return res.Events, nil, nil
	}

	reply := pantheon.Reply{ID: sub.ID}
	var events []pantheon.Event
	if err != nil {
		pantheon.GetLogger(ctx).Info("message failed, replying",
			"contract", contract, "reply_id", sub.ID, "type", kind, "err", err)
		reply.Result.Err = err.Error()
	} else {
		reply.Result.Ok = &pantheon.SubMsgResponse{Events: res.Events, Data: res.Data}
		events = res.Events
	}

	impl, _, err := l.implementation(db, contract)
	if err != nil {
		return nil, nil, err
	}
	replyRes, err := l.call(func() (*pantheon.Response, error) {
		return impl.Reply(ctx, l.deps(db, contract), l.env(ctx, contract), reply)
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reply %d to %s", sub.ID, contract)
	}
	more, data, err := l.handleResponse(ctx, db, depth, contract, replyRes)
	if err != nil {
		return nil, nil, err
	}
	return append(events, more...), data, nil
}

// dispatch executes a single message on behalf of the contract.
func (l *Ledger) dispatch(ctx pantheon.Context, db pantheon.CacheableKVStore, depth int, contract pantheon.Addr, msg pantheon.CosmosMsg) (*Result, error) {
	switch {
	case msg.Bank != nil && msg.Bank.Send != nil:
		ev, err := l.send(db, contract, msg.Bank.Send.ToAddress, msg.Bank.Send.Amount)
		if err != nil {
			return nil, err
		}
		return &Result{Events: []pantheon.Event{ev}}, nil

	case msg.Wasm != nil && msg.Wasm.Instantiate != nil:
		m := msg.Wasm.Instantiate
		admin, err := l.optionalAddr("Admin", m.Admin)
		if err != nil {
			return nil, err
		}
		_, res, err := l.instantiate(ctx, db, depth, InstantiateRequest{
			Sender: contract,
			CodeID: m.CodeID,
			Msg:    m.Msg,
			Funds:  m.Funds,
			Admin:  admin,
			Label:  m.Label,
		})
		return res, err

	case msg.Wasm != nil && msg.Wasm.Instantiate2 != nil:
		m := msg.Wasm.Instantiate2
		admin, err := l.optionalAddr("Admin", m.Admin)
		if err != nil {
			return nil, err
		}
		if len(m.Salt) == 0 {
			return nil, errors.Field("Salt", errors.ErrEmpty, "required")
		}
		_, res, err := l.instantiate(ctx, db, depth, InstantiateRequest{
			Sender: contract,
			CodeID: m.CodeID,
			Msg:    m.Msg,
			Funds:  m.Funds,
			Admin:  admin,
			Label:  m.Label,
			Salt:   m.Salt,
		})
		return res, err

	case msg.Wasm != nil && msg.Wasm.Execute != nil:
		m := msg.Wasm.Execute
		target, err := l.api.AddrValidate(m.ContractAddr)
		if err != nil {
			return nil, errors.Field("ContractAddr", err, "")
		}
		return l.execute(ctx, db, depth, contract, target, m.Msg, m.Funds)

	case msg.Wasm != nil && msg.Wasm.UpdateAdmin != nil:
		m := msg.Wasm.UpdateAdmin
		target, err := l.api.AddrValidate(m.ContractAddr)
		if err != nil {
			return nil, errors.Field("ContractAddr", err, "")
		}
		if err := l.registry.UpdateAdmin(db, contract, target, pantheon.Addr(m.Admin)); err != nil {
			return nil, err
		}
		return &Result{Events: []pantheon.Event{newEvent(EventUpdateAdmin,
			AttrContractAddress, target.String(),
			"new_admin_address", m.Admin,
		)}}, nil

	case msg.Custom != nil && msg.Custom.UpdateContractMetadata != nil:
		md, err := l.registry.SetMetadata(db, contract, *msg.Custom.UpdateContractMetadata)
		if err != nil {
			return nil, err
		}
		return &Result{Events: []pantheon.Event{newEvent(EventSetMetadata,
			AttrContractAddress, md.GetContractAddress(),
			"owner_address", md.GetOwnerAddress(),
			"rewards_address", md.GetRewardsAddress(),
		)}}, nil

	case msg.Custom != nil && msg.Custom.WithdrawRewards != nil:
		m := msg.Custom.WithdrawRewards
		paid, ids, err := l.rewards.Withdraw(db, contract, m.RecordsLimit, m.RecordIDs)
		if err != nil {
			return nil, err
		}
		return &Result{Events: []pantheon.Event{newEvent(EventWithdrawReward,
			"rewards_address", contract.String(),
			"amount", paid.String(),
			"record_ids", idsString(ids),
		)}}, nil
	}
	return nil, errors.Wrap(errors.ErrMsg, "unsupported message")
}

// send moves coins between addresses. Zero amounts are ignored.
func (l *Ledger) send(db pantheon.KVStore, from pantheon.Addr, to string, coins pantheon.Coins) (pantheon.Event, error) {
	recipient, err := l.api.AddrValidate(to)
	if err != nil {
		return pantheon.Event{}, errors.Field("ToAddress", err, "")
	}
	if err := l.bank.Send(db, from, recipient, coins); err != nil {
		return pantheon.Event{}, err
	}
	return newEvent(EventTransfer,
		"recipient", recipient.String(),
		"sender", from.String(),
		"amount", coins.String(),
	), nil
}

func (l *Ledger) optionalAddr(field, human string) (pantheon.Addr, error) {
	if human == "" {
		return "", nil
	}
	a, err := l.api.AddrValidate(human)
	if err != nil {
		return "", errors.Field(field, err, "")
	}
	return a, nil
}

// msgType returns a short name of the message, used to label metrics.
func msgType(msg pantheon.CosmosMsg) string {
	switch {
	case msg.Bank != nil && msg.Bank.Send != nil:
		return "bank_send"
	case msg.Wasm != nil && msg.Wasm.Instantiate != nil:
		return "instantiate"
	case msg.Wasm != nil && msg.Wasm.Instantiate2 != nil:
		return "instantiate2"
	case msg.Wasm != nil && msg.Wasm.Execute != nil:
		return "execute"
	case msg.Wasm != nil && msg.Wasm.UpdateAdmin != nil:
		return "update_admin"
	case msg.Custom != nil && msg.Custom.UpdateContractMetadata != nil:
		return "update_contract_metadata"
	case msg.Custom != nil && msg.Custom.WithdrawRewards != nil:
		return "withdraw_rewards"
	default:
		return "unknown"
	}
}

func idsString(ids []uint64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(id, 10)
	}
	return strings.Join(parts, ",")
}
