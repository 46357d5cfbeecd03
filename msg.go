package pantheon

// CosmosMsg is an outbound effect that the ledger executes on behalf of a
// contract. Exactly one of the fields is set.
type CosmosMsg struct {
	Bank   *BankMsg   `json:"bank,omitempty"`
	Wasm   *WasmMsg   `json:"wasm,omitempty"`
	Custom *CustomMsg `json:"custom,omitempty"`
}

// BankMsg moves native tokens.
type BankMsg struct {
	Send *SendMsg `json:"send,omitempty"`
}

// SendMsg transfers the coins from the contract to the recipient.
type SendMsg struct {
	ToAddress string `json:"to_address"`
	Amount    Coins  `json:"amount"`
}

// WasmMsg manages contracts.
type WasmMsg struct {
	Instantiate  *InstantiateMsg  `json:"instantiate,omitempty"`
	Instantiate2 *Instantiate2Msg `json:"instantiate2,omitempty"`
	Execute      *ExecuteMsg      `json:"execute,omitempty"`
	UpdateAdmin  *UpdateAdminMsg  `json:"update_admin,omitempty"`
}

// InstantiateMsg creates a new contract from stored code. The address is
// assigned by the ledger.
type InstantiateMsg struct {
	Admin  string `json:"admin,omitempty"`
	CodeID uint64 `json:"code_id"`
	// Msg is the instantiation payload passed to the new contract.
	Msg   []byte `json:"msg"`
	Funds Coins  `json:"funds"`
	Label string `json:"label"`
}

// Instantiate2Msg creates a new contract from stored code. The address is
// derived from the code checksum, the sender and the salt.
type Instantiate2Msg struct {
	Admin  string `json:"admin,omitempty"`
	CodeID uint64 `json:"code_id"`
	Label  string `json:"label"`
	Msg    []byte `json:"msg"`
	Funds  Coins  `json:"funds"`
	Salt   []byte `json:"salt"`
}

// ExecuteMsg calls another contract.
type ExecuteMsg struct {
	ContractAddr string `json:"contract_addr"`
	Msg          []byte `json:"msg"`
	Funds        Coins  `json:"funds"`
}

// UpdateAdminMsg changes the admin of a contract. Only the current admin is
// allowed to do this.
type UpdateAdminMsg struct {
	ContractAddr string `json:"contract_addr"`
	Admin        string `json:"admin"`
}

// CustomMsg is the chain specific extension for rewards management.
type CustomMsg struct {
	UpdateContractMetadata *ContractMetadata   `json:"update_contract_metadata,omitempty"`
	WithdrawRewards        *WithdrawRewardsMsg `json:"withdraw_rewards,omitempty"`
}

// ContractMetadata declares who owns the rewards metadata of a contract and
// which address receives its rewards. An empty contract address refers to
// the sender.
type ContractMetadata struct {
	ContractAddress string `json:"contract_address,omitempty"`
	OwnerAddress    string `json:"owner_address,omitempty"`
	RewardsAddress  string `json:"rewards_address,omitempty"`
}

// WithdrawRewardsMsg withdraws reward records credited to the sender. A
// records limit of zero means no limit.
type WithdrawRewardsMsg struct {
	RecordsLimit *uint64  `json:"records_limit,omitempty"`
	RecordIDs    []uint64 `json:"record_ids"`
}

// ReplyOn declares when the sender of a sub message expects a reply.
type ReplyOn string

const (
	ReplyAlways  ReplyOn = "always"
	ReplyError   ReplyOn = "error"
	ReplySuccess ReplyOn = "success"
	ReplyNever   ReplyOn = "never"
)

// Wants returns true if an outcome of given success requires a reply.
func (r ReplyOn) Wants(success bool) bool {
	switch r {
	case ReplyAlways:
		return true
	case ReplySuccess:
		return success
	case ReplyError:
		return !success
	default:
		return false
	}
}

// SubMsg wraps a message with the reply configuration.
type SubMsg struct {
	ID      uint64    `json:"id"`
	Msg     CosmosMsg `json:"msg"`
	ReplyOn ReplyOn   `json:"reply_on"`
}

// NewSubMsg returns a sub message that never expects a reply.
func NewSubMsg(msg CosmosMsg) SubMsg {
	return SubMsg{Msg: msg, ReplyOn: ReplyNever}
}

// Attribute is a key value pair attached to a response or an event.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is a typed set of attributes emitted while processing a message.
type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

// Attr returns the value of the first attribute with given key.
func (e Event) Attr(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Response is the result of a successful entry point call.
type Response struct {
	Messages   []SubMsg    `json:"messages"`
	Attributes []Attribute `json:"attributes"`
	Events     []Event     `json:"events"`
	Data       []byte      `json:"data,omitempty"`
}

// NewResponse returns an empty response.
func NewResponse() *Response {
	return &Response{}
}

// AddMessage appends a message that does not expect a reply.
func (r *Response) AddMessage(msg CosmosMsg) *Response {
	r.Messages = append(r.Messages, NewSubMsg(msg))
	return r
}

// AddSubMessages appends given sub messages, keeping their order.
func (r *Response) AddSubMessages(msgs ...SubMsg) *Response {
	r.Messages = append(r.Messages, msgs...)
	return r
}

// AddAttribute appends a key value attribute.
func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// BankSend returns a message sending coins to the recipient.
func BankSend(to Addr, amount ...Coin) CosmosMsg {
	return CosmosMsg{Bank: &BankMsg{Send: &SendMsg{
		ToAddress: string(to),
		Amount:    amount,
	}}}
}

// UpdateAdmin returns a message changing the admin of a contract.
func UpdateAdmin(contract, admin Addr) CosmosMsg {
	return CosmosMsg{Wasm: &WasmMsg{UpdateAdmin: &UpdateAdminMsg{
		ContractAddr: string(contract),
		Admin:        string(admin),
	}}}
}

// UpdateContractMetadata returns a message setting the rewards metadata of a
// contract.
func UpdateContractMetadata(contract, owner, rewards Addr) CosmosMsg {
	return CosmosMsg{Custom: &CustomMsg{UpdateContractMetadata: &ContractMetadata{
		ContractAddress: string(contract),
		OwnerAddress:    string(owner),
		RewardsAddress:  string(rewards),
	}}}
}
