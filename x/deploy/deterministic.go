package deploy

import (
	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
)

// ChecksumSource declares which code checksum is used to compute the address
// of a child contract.
type ChecksumSource string

const (
	// ChecksumSelf uses the code of the deploying contract.
	ChecksumSelf ChecksumSource = "self"
	// ChecksumChild uses the code the child is instantiated from.
	ChecksumChild ChecksumSource = "child"
)

// Validate returns an error if the source is not known.
func (s ChecksumSource) Validate() error {
	switch s {
	case ChecksumSelf, ChecksumChild:
		return nil
	}
	return errors.Wrapf(errors.ErrInput, "unknown checksum source %q", s)
}

// Deterministic deploys children at an address computed before the
// instantiation. The instantiation payload is the salt, so the same payload
// cannot be used twice.
type Deterministic struct {
	source ChecksumSource
}

var _ Deployer = (*Deterministic)(nil)

// NewDeterministic returns a deterministic deployer. An empty source means
// ChecksumSelf.
func NewDeterministic(source ChecksumSource) *Deterministic {
	if source == "" {
		source = ChecksumSelf
	}
	return &Deterministic{source: source}
}

func (d *Deterministic) Deploy(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, info pantheon.MessageInfo, req Request) ([]pantheon.SubMsg, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, "request")
	}
	child, err := d.Address(ctx, deps, env, req.CodeID, req.Msg)
	if err != nil {
		return nil, err
	}
	pantheon.GetLogger(ctx).Debug("child contract address computed",
		"child", child, "code_id", req.CodeID)

	self := env.Contract.Address
	instantiate := pantheon.CosmosMsg{Wasm: &pantheon.WasmMsg{Instantiate2: &pantheon.Instantiate2Msg{
		Admin:  self.String(),
		CodeID: req.CodeID,
		Label:  req.Label,
		Msg:    req.Msg,
		Funds:  req.Funds,
		Salt:   req.Msg,
	}}}
	return []pantheon.SubMsg{
		pantheon.NewSubMsg(instantiate),
		pantheon.NewSubMsg(pantheon.UpdateContractMetadata(child, self, self)),
		pantheon.NewSubMsg(pantheon.UpdateAdmin(child, info.Sender)),
	}, nil
}

// Address returns the address of a child instantiated by the contract from
// given code, using given salt.
func (d *Deterministic) Address(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, codeID uint64, salt []byte) (pantheon.Addr, error) {
	if n := len(salt); n == 0 || n > pantheon.MaxSaltLength {
		return "", errors.Wrapf(ErrInvalidSalt, "salt must be between 1 and %d bytes, got %d", pantheon.MaxSaltLength, n)
	}
	checksum, err := d.checksum(ctx, deps, env, codeID)
	if err != nil {
		return "", err
	}
	creator, err := deps.API.AddrCanonicalize(env.Contract.Address.String())
	if err != nil {
		return "", errors.Wrap(errors.ErrContract, err.Error())
	}
	raw, err := pantheon.Instantiate2Address(checksum, creator, salt)
	if err != nil {
		return "", errors.Wrap(errors.ErrContract, err.Error())
	}
	addr, err := deps.API.AddrHumanize(raw)
	if err != nil {
		return "", errors.Wrap(errors.ErrContract, err.Error())
	}
	return addr, nil
}

func (d *Deterministic) checksum(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, codeID uint64) (pantheon.Checksum, error) {
	if d.source == ChecksumSelf {
		self, err := deps.Querier.ContractInfo(ctx, env.Contract.Address)
		if err != nil {
			return nil, errors.Wrap(errors.ErrContract, err.Error())
		}
		codeID = self.CodeID
	}
	code, err := deps.Querier.CodeInfo(ctx, codeID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrContract, err.Error())
	}
	return code.Checksum, nil
}

// HandleReply always fails because deterministic deployments do not request
// replies.
func (d *Deterministic) HandleReply(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, reply pantheon.Reply) ([]pantheon.SubMsg, error) {
	return nil, errors.Wrapf(ErrInstantiate, "unexpected reply %d", reply.ID)
}
