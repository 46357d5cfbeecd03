package splitter

import (
	"bytes"
	"encoding/json"

	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/x/deploy"
	"github.com/iov-one/pantheon/x/shares"
)

// InstantiateMsg configures a new splitter contract.
type InstantiateMsg struct {
	// Admin defaults to the sender.
	Admin   *string        `json:"admin,omitempty"`
	Mutable bool           `json:"mutable"`
	Shares  []shares.Share `json:"shares"`

	// Deployment selects how child contracts are deployed. Defaults to
	// deterministic.
	Deployment deploy.Strategy `json:"deployment,omitempty"`
	// ChecksumSource selects the code checksum used by deterministic
	// deployments. Defaults to the code of the splitter, which only
	// predicts the right address when the child runs the splitter code.
	// Children of any other code need deploy.ChecksumChild.
	ChecksumSource deploy.ChecksumSource `json:"checksum_source,omitempty"`
	// Distribution enables withdrawing and distributing rewards. Defaults
	// to true.
	Distribution *bool `json:"distribution,omitempty"`
	// NativeDenom is the token that is distributed. Defaults to
	// DefaultNativeDenom.
	NativeDenom string `json:"native_denom,omitempty"`
}

// ExecuteMsg is a call to the contract. Exactly one field must be set.
type ExecuteMsg struct {
	UpdateShares                       *UpdateSharesMsg                       `json:"update_shares,omitempty"`
	AddCustomContract                  *AddCustomContractMsg                  `json:"add_custom_contract,omitempty"`
	UpdateCustomContractRewardMetadata *UpdateCustomContractRewardMetadataMsg `json:"update_custom_contract_reward_metadata,omitempty"`
	LockContract                       *struct{}                              `json:"lock_contract,omitempty"`
	WithdrawRewards                    *struct{}                              `json:"withdraw_rewards,omitempty"`
	DistributeNativeTokens             *struct{}                              `json:"distribute_native_tokens,omitempty"`
}

// UpdateSharesMsg replaces the whole share set.
type UpdateSharesMsg struct {
	Shares []shares.Share `json:"shares"`
}

// DefaultChildLabel labels child contracts added without a label.
const DefaultChildLabel = "instantiate2"

// AddCustomContractMsg instantiates a child contract. Funds sent with the
// call are passed to the child. An empty label means DefaultChildLabel.
type AddCustomContractMsg struct {
	CodeID uint64 `json:"code_id"`
	Msg    []byte `json:"msg"`
	Label  string `json:"label,omitempty"`
}

// UpdateCustomContractRewardMetadataMsg changes the rewards metadata of a
// contract owned by the splitter.
type UpdateCustomContractRewardMetadataMsg struct {
	Address        string  `json:"address"`
	OwnerAddress   *string `json:"owner_address,omitempty"`
	RewardsAddress *string `json:"rewards_address,omitempty"`
}

// QueryMsg is a read only request. Exactly one field must be set.
type QueryMsg struct {
	Config          *struct{}    `json:"config,omitempty"`
	Share           *ShareQuery  `json:"share,omitempty"`
	Shares          *SharesQuery `json:"shares,omitempty"`
	Profile         *struct{}    `json:"profile,omitempty"`
	ContractVersion *struct{}    `json:"contract_version,omitempty"`
}

// ShareQuery returns the share of a single recipient.
type ShareQuery struct {
	Recipient string `json:"recipient"`
}

// SharesQuery returns a page of shares ordered by the recipient.
type SharesQuery struct {
	StartAfter *string `json:"start_after,omitempty"`
	Limit      *uint8  `json:"limit,omitempty"`
}

// decode unmarshals a JSON message, rejecting unknown fields.
func decode(raw []byte, dest interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return errors.Wrapf(errors.ErrMsg, "cannot decode %T: %s", dest, err)
	}
	return nil
}

// set counts the non nil values.
func set(fields ...bool) int {
	var n int
	for _, ok := range fields {
		if ok {
			n++
		}
	}
	return n
}

func (m *ExecuteMsg) Validate() error {
	n := set(
		m.UpdateShares != nil,
		m.AddCustomContract != nil,
		m.UpdateCustomContractRewardMetadata != nil,
		m.LockContract != nil,
		m.WithdrawRewards != nil,
		m.DistributeNativeTokens != nil,
	)
	if n != 1 {
		return errors.Wrapf(errors.ErrMsg, "exactly one execute message required, got %d", n)
	}
	return nil
}

func (m *QueryMsg) Validate() error {
	n := set(
		m.Config != nil,
		m.Share != nil,
		m.Shares != nil,
		m.Profile != nil,
		m.ContractVersion != nil,
	)
	if n != 1 {
		return errors.Wrapf(errors.ErrMsg, "exactly one query required, got %d", n)
	}
	return nil
}
