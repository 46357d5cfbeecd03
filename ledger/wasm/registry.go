package wasm

import (
	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/orm"
)

var (
	codeSeq     = orm.NewSequence("code", "id")
	instanceSeq = orm.NewSequence("contract", "instance")
)

// Registry manages code, contract instances and their metadata.
type Registry struct {
	api       pantheon.API
	codes     orm.ModelBucket
	contracts orm.ModelBucket
	metadata  orm.ModelBucket
}

// NewRegistry returns a registry using the default buckets.
func NewRegistry(api pantheon.API) *Registry {
	return &Registry{
		api:       api,
		codes:     NewCodeBucket(),
		contracts: NewContractBucket(),
		metadata:  NewMetadataBucket(),
	}
}

// StoreCode registers code under a new code id. The name references the
// contract implementation and is the source of the code checksum.
func (r *Registry) StoreCode(db pantheon.KVStore, creator pantheon.Addr, name string) (*CodeInfo, error) {
	if creator.Empty() {
		return nil, errors.Field("Creator", errors.ErrEmpty, "required")
	}
	id, err := codeSeq.NextInt(db)
	if err != nil {
		return nil, errors.Wrap(err, "code id")
	}
	code := &CodeInfo{
		CodeID:   id,
		Creator:  creator.String(),
		Checksum: pantheon.NewChecksum([]byte(name)),
		Name:     name,
	}
	if err := r.codes.Put(db, orm.EncodeSequence(id), code); err != nil {
		return nil, errors.Wrap(err, "save code")
	}
	return code, nil
}

// Code returns the code stored under given id.
func (r *Registry) Code(db pantheon.ReadOnlyKVStore, codeID uint64) (*CodeInfo, error) {
	var code CodeInfo
	if err := r.codes.One(db, orm.EncodeSequence(codeID), &code); err != nil {
		return nil, errors.Wrapf(err, "code %d", codeID)
	}
	return &code, nil
}

// Codes returns all stored code ordered by code id.
func (r *Registry) Codes(db pantheon.ReadOnlyKVStore) ([]CodeInfo, error) {
	var codes []CodeInfo
	if _, err := r.codes.Range(db, nil, 0, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// Instantiation holds the details of a new contract instance.
type Instantiation struct {
	Creator pantheon.Addr
	CodeID  uint64
	Admin   pantheon.Addr
	Label   string
	Height  int64
}

func (in Instantiation) validate() error {
	var errs error
	if in.Creator.Empty() {
		errs = errors.AppendField(errs, "Creator", errors.ErrEmpty)
	}
	if in.CodeID == 0 {
		errs = errors.AppendField(errs, "CodeID", errors.ErrEmpty)
	}
	if in.Label == "" {
		errs = errors.AppendField(errs, "Label", errors.ErrEmpty)
	}
	return errs
}

// Instantiate registers a contract instance at an address derived from the
// code id and the number of instances created so far.
func (r *Registry) Instantiate(db pantheon.KVStore, in Instantiation) (*ContractInfo, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := r.Code(db, in.CodeID); err != nil {
		return nil, err
	}
	n, err := instanceSeq.NextInt(db)
	if err != nil {
		return nil, errors.Wrap(err, "instance id")
	}
	addr, err := r.api.AddrHumanize(pantheon.ClassicContractAddress(in.CodeID, n))
	if err != nil {
		return nil, err
	}
	return r.create(db, addr, in)
}

// Instantiate2 registers a contract instance at an address derived from the
// code checksum, the creator and the salt.
func (r *Registry) Instantiate2(db pantheon.KVStore, in Instantiation, salt []byte) (*ContractInfo, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	addr, err := r.PredictAddress(db, in.CodeID, in.Creator, salt)
	if err != nil {
		return nil, err
	}
	return r.create(db, addr, in)
}

// PredictAddress returns the address of a contract created by
// Instantiate2 with given arguments.
func (r *Registry) PredictAddress(db pantheon.ReadOnlyKVStore, codeID uint64, creator pantheon.Addr, salt []byte) (pantheon.Addr, error) {
	code, err := r.Code(db, codeID)
	if err != nil {
		return "", err
	}
	canonical, err := r.api.AddrCanonicalize(creator.String())
	if err != nil {
		return "", errors.Field("Creator", err, "")
	}
	raw, err := pantheon.Instantiate2Address(code.GetChecksum(), canonical, salt)
	if err != nil {
		return "", err
	}
	return r.api.AddrHumanize(raw)
}

func (r *Registry) create(db pantheon.KVStore, addr pantheon.Addr, in Instantiation) (*ContractInfo, error) {
	switch ok, err := r.contracts.Has(db, []byte(addr)); {
	case err != nil:
		return nil, err
	case ok:
		return nil, errors.Wrapf(errors.ErrDuplicate, "contract %s", addr)
	}
	c := &ContractInfo{
		Address: addr.String(),
		CodeID:  in.CodeID,
		Creator: in.Creator.String(),
		Admin:   in.Admin.String(),
		Label:   in.Label,
		Created: in.Height,
	}
	if err := r.contracts.Put(db, []byte(addr), c); err != nil {
		return nil, errors.Wrap(err, "save contract")
	}
	return c, nil
}

// Contract returns the instance registered under given address.
func (r *Registry) Contract(db pantheon.ReadOnlyKVStore, addr pantheon.Addr) (*ContractInfo, error) {
	var c ContractInfo
	if err := r.contracts.One(db, []byte(addr), &c); err != nil {
		return nil, errors.Wrapf(err, "contract %s", addr)
	}
	return &c, nil
}

// UpdateAdmin changes the admin of a contract. Only the current admin is
// allowed to do this.
func (r *Registry) UpdateAdmin(db pantheon.KVStore, sender, contract, admin pantheon.Addr) error {
	c, err := r.Contract(db, contract)
	if err != nil {
		return err
	}
	if c.GetAdmin() == "" || c.GetAdmin() != sender.String() {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not the admin of %s", sender, contract)
	}
	if _, err := r.api.AddrValidate(admin.String()); err != nil {
		return errors.Field("Admin", err, "")
	}
	c.Admin = admin.String()
	return r.contracts.Put(db, []byte(contract), c)
}

// Metadata returns the rewards metadata of a contract.
func (r *Registry) Metadata(db pantheon.ReadOnlyKVStore, contract pantheon.Addr) (*Metadata, error) {
	var m Metadata
	if err := r.metadata.One(db, []byte(contract), &m); err != nil {
		return nil, errors.Wrapf(err, "metadata of %s", contract)
	}
	return &m, nil
}

// SetMetadata updates the rewards metadata of a contract on behalf of the
// sender. An empty contract address refers to the sender itself. Addresses
// that are not provided keep their current value. The owner of new
// metadata defaults to the sender and the rewards address to the owner.
//
// The contract itself may always change its metadata. Otherwise the
// current owner is required or, before any metadata exists, the contract
// admin.
func (r *Registry) SetMetadata(db pantheon.KVStore, sender pantheon.Addr, md pantheon.ContractMetadata) (*Metadata, error) {
	contract := sender
	if md.ContractAddress != "" {
		a, err := r.api.AddrValidate(md.ContractAddress)
		if err != nil {
			return nil, errors.Field("ContractAddress", err, "")
		}
		contract = a
	}
	info, err := r.Contract(db, contract)
	if err != nil {
		return nil, err
	}

	current, err := r.Metadata(db, contract)
	switch {
	case errors.ErrNotFound.Is(err):
		current = nil
	case err != nil:
		return nil, err
	}

	switch {
	case sender == contract:
	case current != nil && current.GetOwnerAddress() == sender.String():
	case current == nil && info.GetAdmin() != "" && info.GetAdmin() == sender.String():
	default:
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s cannot change the metadata of %s", sender, contract)
	}

	next := &Metadata{ContractAddress: contract.String()}
	if current != nil {
		next.OwnerAddress = current.GetOwnerAddress()
		next.RewardsAddress = current.GetRewardsAddress()
	}
	if md.OwnerAddress != "" {
		a, err := r.api.AddrValidate(md.OwnerAddress)
		if err != nil {
			return nil, errors.Field("OwnerAddress", err, "")
		}
		next.OwnerAddress = a.String()
	}
	if md.RewardsAddress != "" {
		a, err := r.api.AddrValidate(md.RewardsAddress)
		if err != nil {
			return nil, errors.Field("RewardsAddress", err, "")
		}
		next.RewardsAddress = a.String()
	}
	if next.OwnerAddress == "" {
		next.OwnerAddress = sender.String()
	}
	if next.RewardsAddress == "" {
		next.RewardsAddress = next.OwnerAddress
	}

	if err := r.metadata.Put(db, []byte(contract), next); err != nil {
		return nil, errors.Wrap(err, "save metadata")
	}
	return next, nil
}
