package deploy

import (
	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
)

// Request describes a child contract to instantiate.
type Request struct {
	CodeID uint64
	// Msg is the instantiation payload of the child. The deterministic
	// strategy also uses it as the salt.
	Msg   []byte
	Funds pantheon.Coins
	Label string
}

// Validate returns an error if the request cannot be dispatched.
func (r Request) Validate() error {
	var errs error
	if r.CodeID == 0 {
		errs = errors.AppendField(errs, "CodeID", errors.ErrEmpty)
	}
	if len(r.Msg) == 0 {
		errs = errors.AppendField(errs, "Msg", errors.ErrEmpty)
	}
	if err := r.Funds.Validate(); err != nil {
		errs = errors.AppendField(errs, "Funds", err)
	}
	return errs
}

// Deployer instantiates child contracts. The caller is expected to be
// authorized before a deployer is used.
type Deployer interface {
	// Deploy returns the messages that instantiate and wire the child
	// contract described by the request.
	Deploy(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, info pantheon.MessageInfo, req Request) ([]pantheon.SubMsg, error)

	// HandleReply processes the reply of a message dispatched by Deploy
	// and returns the messages that complete the deployment.
	HandleReply(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, reply pantheon.Reply) ([]pantheon.SubMsg, error)
}

// Strategy names a deployer implementation.
type Strategy string

const (
	StrategyNone          Strategy = "none"
	StrategyDeterministic Strategy = "deterministic"
	StrategyReply         Strategy = "reply"
)

// Validate returns an error if the strategy is not known.
func (s Strategy) Validate() error {
	switch s {
	case StrategyNone, StrategyDeterministic, StrategyReply:
		return nil
	}
	return errors.Wrapf(errors.ErrInput, "unknown deployment strategy %q", s)
}

// New returns the deployer of given strategy. The checksum source is used
// by the deterministic strategy only.
func New(s Strategy, source ChecksumSource) (Deployer, error) {
	switch s {
	case StrategyNone:
		return None{}, nil
	case StrategyDeterministic:
		if err := source.Validate(); err != nil {
			return nil, err
		}
		return NewDeterministic(source), nil
	case StrategyReply:
		return NewReplyTracked(), nil
	}
	return nil, s.Validate()
}

// None is a deployer of a contract that cannot deploy children.
type None struct{}

var _ Deployer = None{}

func (None) Deploy(pantheon.Context, pantheon.Deps, pantheon.Env, pantheon.MessageInfo, Request) ([]pantheon.SubMsg, error) {
	return nil, errors.Wrap(errors.ErrNotSupported, "child contract deployment is disabled")
}

func (None) HandleReply(pantheon.Context, pantheon.Deps, pantheon.Env, pantheon.Reply) ([]pantheon.SubMsg, error) {
	return nil, errors.Wrap(errors.ErrNotSupported, "child contract deployment is disabled")
}
