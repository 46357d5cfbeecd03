package splitter

import (
	"encoding/json"

	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/x/admin"
	"github.com/iov-one/pantheon/x/deploy"
	"github.com/iov-one/pantheon/x/distribute"
	"github.com/iov-one/pantheon/x/shares"
	"github.com/tendermint/tendermint/libs/log"
)

// Contract is the revenue splitter.
type Contract struct {
	shares      *shares.Ledger
	distributor *distribute.Distributor
}

var _ pantheon.Contract = (*Contract)(nil)

// NewContract returns the splitter contract.
func NewContract() *Contract {
	l := shares.NewLedger()
	return &Contract{
		shares:      l,
		distributor: distribute.NewDistributor(l),
	}
}

func (c *Contract) Instantiate(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, info pantheon.MessageInfo, raw []byte) (*pantheon.Response, error) {
	var msg InstantiateMsg
	if err := decode(raw, &msg); err != nil {
		return nil, err
	}

	adminAddr := info.Sender
	if msg.Admin != nil {
		a, err := deps.API.AddrValidate(*msg.Admin)
		if err != nil {
			return nil, errors.Field("Admin", err, "invalid admin")
		}
		adminAddr = a
	}

	profile := newProfile(&msg)
	if err := saveVersion(deps.Storage); err != nil {
		return nil, errors.Wrap(err, "save contract version")
	}
	if err := saveProfile(deps.Storage, profile); err != nil {
		return nil, err
	}
	if _, err := admin.Init(deps.Storage, adminAddr, msg.Mutable); err != nil {
		return nil, err
	}
	if err := c.shares.Set(deps.Storage, deps.API, msg.Shares); err != nil {
		return nil, err
	}

	logger(ctx, env).Info("splitter instantiated",
		"admin", adminAddr, "mutable", msg.Mutable, "shares", len(msg.Shares),
		"deployment", profile.Deployment)

	return pantheon.NewResponse().
		AddMessage(pantheon.UpdateContractMetadata("", info.Sender, info.Sender)).
		AddAttribute("method", "instantiate").
		AddAttribute("admin", info.Sender.String()), nil
}

func (c *Contract) Execute(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, info pantheon.MessageInfo, raw []byte) (*pantheon.Response, error) {
	var msg ExecuteMsg
	if err := decode(raw, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	switch {
	case msg.UpdateShares != nil:
		return c.updateShares(ctx, deps, env, info, msg.UpdateShares)
	case msg.AddCustomContract != nil:
		return c.addCustomContract(ctx, deps, env, info, msg.AddCustomContract)
	case msg.UpdateCustomContractRewardMetadata != nil:
		return c.updateRewardMetadata(ctx, deps, env, info, msg.UpdateCustomContractRewardMetadata)
	case msg.LockContract != nil:
		return c.lock(ctx, deps, env, info)
	case msg.WithdrawRewards != nil:
		return c.withdrawRewards(ctx, deps, env, info)
	default:
		return c.distributeNativeTokens(ctx, deps, env, info)
	}
}

func (c *Contract) updateShares(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, info pantheon.MessageInfo, msg *UpdateSharesMsg) (*pantheon.Response, error) {
	if _, err := admin.Gate(deps.Storage, info.Sender); err != nil {
		return nil, err
	}
	if err := c.shares.Set(deps.Storage, deps.API, msg.Shares); err != nil {
		return nil, err
	}
	logger(ctx, env).Info("shares updated", "shares", len(msg.Shares))
	return pantheon.NewResponse().AddAttribute("method", "update_shares"), nil
}

func (c *Contract) addCustomContract(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, info pantheon.MessageInfo, msg *AddCustomContractMsg) (*pantheon.Response, error) {
	if _, err := admin.Gate(deps.Storage, info.Sender); err != nil {
		return nil, err
	}
	d, err := c.deployer(deps)
	if err != nil {
		return nil, err
	}
	label := msg.Label
	if label == "" {
		label = DefaultChildLabel
	}
	msgs, err := d.Deploy(ctx, deps, env, info, deploy.Request{
		CodeID: msg.CodeID,
		Msg:    msg.Msg,
		Funds:  info.Funds,
		Label:  label,
	})
	if err != nil {
		return nil, err
	}
	return pantheon.NewResponse().
		AddSubMessages(msgs...).
		AddAttribute("method", "add_custom_contract"), nil
}

func (c *Contract) updateRewardMetadata(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, info pantheon.MessageInfo, msg *UpdateCustomContractRewardMetadataMsg) (*pantheon.Response, error) {
	if _, err := admin.Gate(deps.Storage, info.Sender); err != nil {
		return nil, err
	}
	contract, err := deps.API.AddrValidate(msg.Address)
	if err != nil {
		return nil, errors.Field("Address", err, "invalid contract")
	}
	var owner, rewards pantheon.Addr
	if msg.OwnerAddress != nil {
		if owner, err = deps.API.AddrValidate(*msg.OwnerAddress); err != nil {
			return nil, errors.Field("OwnerAddress", err, "invalid owner")
		}
	}
	if msg.RewardsAddress != nil {
		if rewards, err = deps.API.AddrValidate(*msg.RewardsAddress); err != nil {
			return nil, errors.Field("RewardsAddress", err, "invalid rewards address")
		}
	}
	return pantheon.NewResponse().
		AddMessage(pantheon.UpdateContractMetadata(contract, owner, rewards)).
		AddAttribute("method", "update_custom_contract_reward_metadata"), nil
}

func (c *Contract) lock(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, info pantheon.MessageInfo) (*pantheon.Response, error) {
	if _, err := admin.Lock(ctx, deps.Storage, info.Sender); err != nil {
		return nil, err
	}
	return pantheon.NewResponse().AddAttribute("method", "lock_contract"), nil
}

func (c *Contract) withdrawRewards(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, info pantheon.MessageInfo) (*pantheon.Response, error) {
	if _, err := admin.Authorize(deps.Storage, info.Sender); err != nil {
		return nil, err
	}
	profile, err := loadProfile(deps.Storage)
	if err != nil {
		return nil, err
	}
	if err := profile.RequireDistribution(); err != nil {
		return nil, err
	}
	return pantheon.NewResponse().
		AddSubMessages(distribute.WithdrawFromPool()).
		AddAttribute("method", "withdraw_rewards"), nil
}

func (c *Contract) distributeNativeTokens(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, info pantheon.MessageInfo) (*pantheon.Response, error) {
	if _, err := admin.Authorize(deps.Storage, info.Sender); err != nil {
		return nil, err
	}
	profile, err := loadProfile(deps.Storage)
	if err != nil {
		return nil, err
	}
	if err := profile.RequireDistribution(); err != nil {
		return nil, err
	}
	msgs, err := c.distributor.DistributeNativeBalance(ctx, deps, env, profile.NativeDenom)
	if err != nil {
		return nil, err
	}
	return pantheon.NewResponse().
		AddSubMessages(msgs...).
		AddAttribute("method", "distribute_native_tokens"), nil
}

func (c *Contract) Query(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, raw []byte) ([]byte, error) {
	var msg QueryMsg
	if err := decode(raw, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	var (
		res interface{}
		err error
	)
	switch {
	case msg.Config != nil:
		res, err = admin.Load(deps.Storage)
	case msg.Share != nil:
		res, err = c.shares.Get(deps.Storage, deps.API, msg.Share.Recipient)
	case msg.Shares != nil:
		res, err = c.shares.List(deps.Storage, deps.API, msg.Shares.StartAfter, msg.Shares.Limit)
	case msg.Profile != nil:
		res, err = loadProfile(deps.Storage)
	default:
		res, err = loadVersion(deps.Storage)
	}
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(res)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrHuman, "cannot serialize %T: %s", res, err)
	}
	return out, nil
}

func (c *Contract) Reply(ctx pantheon.Context, deps pantheon.Deps, env pantheon.Env, reply pantheon.Reply) (*pantheon.Response, error) {
	d, err := c.deployer(deps)
	if err != nil {
		return nil, err
	}
	msgs, err := d.HandleReply(ctx, deps, env, reply)
	if err != nil {
		return nil, err
	}
	return pantheon.NewResponse().
		AddSubMessages(msgs...).
		AddAttribute("method", "reply"), nil
}

func (c *Contract) deployer(deps pantheon.Deps) (deploy.Deployer, error) {
	profile, err := loadProfile(deps.Storage)
	if err != nil {
		return nil, err
	}
	return profile.Deployer()
}

func logger(ctx pantheon.Context, env pantheon.Env) log.Logger {
	return pantheon.GetLogger(ctx).With("contract", env.Contract.Address.String())
}
