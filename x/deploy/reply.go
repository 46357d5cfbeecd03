package deploy

import (
	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/orm"
	"github.com/iov-one/pantheon/x/admin"
)

const (
	// InstantiateEvent is the type of the event emitted by the ledger when a
	// contract is instantiated.
	InstantiateEvent = "instantiate"

	// ContractAddressAttr is the attribute of the instantiate event holding
	// the address of the new contract.
	ContractAddressAttr = "_contract_address"
)

var _ orm.Model = (*PendingInstantiation)(nil)

// Validate ensures the pending instantiation references its reply and code.
func (m *PendingInstantiation) Validate() error {
	var errs error
	if m.GetID() == 0 {
		errs = errors.AppendField(errs, "ID", errors.ErrEmpty)
	}
	if m.GetCodeID() == 0 {
		errs = errors.AppendField(errs, "CodeID", errors.ErrEmpty)
	}
	return errs
}

// NewPendingBucket returns a bucket of instantiations waiting for a reply,
// keyed by the encoded reply id.
func NewPendingBucket() orm.ModelBucket {
	return orm.NewModelBucket("pending", &PendingInstantiation{})
}

var pendingSeq = orm.NewSequence("pending", "id")

// ReplyTracked deploys children with a classic instantiation and completes
// the deployment when the ledger replies with the child address. Every
// instantiation gets its own reply id.
type ReplyTracked struct {
	pending orm.ModelBucket
}

var _ Deployer = (*ReplyTracked)(nil)

// NewReplyTracked returns a deployer using the default pending bucket.
func NewReplyTracked() *ReplyTracked {
	return &ReplyTracked{pending: NewPendingBucket()}
}

func (r *ReplyTracked) Deploy(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, info pantheon.MessageInfo, req Request) ([]pantheon.SubMsg, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, "request")
	}
	id, err := pendingSeq.NextInt(deps.Storage)
	if err != nil {
		return nil, errors.Wrap(err, "reply id")
	}
	key := orm.EncodeSequence(id)
	if ok, err := r.pending.Has(deps.Storage, key); err != nil {
		return nil, err
	} else if ok {
		return nil, errors.Wrapf(errors.ErrDuplicate, "reply %d is pending", id)
	}
	p := &PendingInstantiation{ID: id, CodeID: req.CodeID, Label: req.Label}
	if err := r.pending.Put(deps.Storage, key, p); err != nil {
		return nil, errors.Wrap(err, "save pending instantiation")
	}

	pantheon.GetLogger(ctx).Debug("child contract instantiation dispatched",
		"reply_id", id, "code_id", req.CodeID)

	msg := pantheon.SubMsg{
		ID:      id,
		ReplyOn: pantheon.ReplyAlways,
		Msg: pantheon.CosmosMsg{Wasm: &pantheon.WasmMsg{Instantiate: &pantheon.InstantiateMsg{
			Admin:  env.Contract.Address.String(),
			CodeID: req.CodeID,
			Msg:    req.Msg,
			Funds:  req.Funds,
			Label:  req.Label,
		}}},
	}
	return []pantheon.SubMsg{msg}, nil
}

// Pending returns the instantiation waiting for given reply id.
func (r *ReplyTracked) Pending(db pantheon.ReadOnlyKVStore, id uint64) (*PendingInstantiation, error) {
	var p PendingInstantiation
	if err := r.pending.One(db, orm.EncodeSequence(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ReplyTracked) HandleReply(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, reply pantheon.Reply) ([]pantheon.SubMsg, error) {
	p, err := r.Pending(deps.Storage, reply.ID)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrInstantiate, "unknown reply %d", reply.ID)
	case err != nil:
		return nil, err
	}
	if err := r.pending.Delete(deps.Storage, orm.EncodeSequence(p.ID)); err != nil {
		return nil, errors.Wrap(err, "delete pending instantiation")
	}

	if !reply.Result.IsOk() {
		return nil, errors.Wrapf(errors.ErrContract, "instantiate code %d: %s", p.CodeID, reply.Result.Err)
	}

	child, err := childAddress(deps.API, reply.Result.Ok)
	if err != nil {
		return nil, err
	}
	conf, err := admin.Load(deps.Storage)
	if err != nil {
		return nil, err
	}

	pantheon.GetLogger(ctx).Debug("child contract instantiated",
		"reply_id", p.ID, "child", child)

	self := env.Contract.Address
	return []pantheon.SubMsg{
		pantheon.NewSubMsg(pantheon.UpdateContractMetadata(child, self, self)),
		pantheon.NewSubMsg(pantheon.UpdateAdmin(child, pantheon.Addr(conf.Admin))),
	}, nil
}

// childAddress extracts the address of the instantiated contract from the
// response data or, when the data is missing, from the instantiate event.
func childAddress(api pantheon.API, res *pantheon.SubMsgResponse) (pantheon.Addr, error) {
	var human string
	if len(res.Data) != 0 {
		data, err := pantheon.DecodeInstantiateResponse(res.Data)
		if err != nil {
			return "", errors.Wrap(ErrInstantiate, err.Error())
		}
		human = data.Address
	} else {
		for _, ev := range res.Events {
			if ev.Type != InstantiateEvent {
				continue
			}
			if v, ok := ev.Attr(ContractAddressAttr); ok {
				human = v
				break
			}
		}
	}
	if human == "" {
		return "", errors.Wrap(ErrInstantiate, "no contract address in the reply")
	}
	addr, err := api.AddrValidate(human)
	if err != nil {
		return "", errors.Wrapf(ErrInstantiate, "contract address %q: %s", human, err)
	}
	return addr, nil
}
