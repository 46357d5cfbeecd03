package wasm

import (
	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/orm"
)

var _ orm.Model = (*CodeInfo)(nil)

func (m *CodeInfo) Validate() error {
	var errs error
	if m.GetCodeID() == 0 {
		errs = errors.AppendField(errs, "CodeID", errors.ErrEmpty)
	}
	if m.GetCreator() == "" {
		errs = errors.AppendField(errs, "Creator", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Checksum", pantheon.Checksum(m.GetChecksum()).Validate())
	if m.GetName() == "" {
		errs = errors.AppendField(errs, "Name", errors.ErrEmpty)
	}
	return errs
}

// Response returns the code details as exposed to contracts.
func (m *CodeInfo) Response() *pantheon.CodeInfoResponse {
	return &pantheon.CodeInfoResponse{
		CodeID:   m.GetCodeID(),
		Creator:  pantheon.Addr(m.GetCreator()),
		Checksum: m.GetChecksum(),
	}
}

var _ orm.Model = (*ContractInfo)(nil)

func (m *ContractInfo) Validate() error {
	var errs error
	if m.GetAddress() == "" {
		errs = errors.AppendField(errs, "Address", errors.ErrEmpty)
	}
	if m.GetCodeID() == 0 {
		errs = errors.AppendField(errs, "CodeID", errors.ErrEmpty)
	}
	if m.GetCreator() == "" {
		errs = errors.AppendField(errs, "Creator", errors.ErrEmpty)
	}
	if m.GetCreated() < 0 {
		errs = errors.AppendField(errs, "Created", errors.ErrInput)
	}
	return errs
}

// Response returns the contract details as exposed to contracts.
func (m *ContractInfo) Response() *pantheon.ContractInfoResponse {
	return &pantheon.ContractInfoResponse{
		CodeID:  m.GetCodeID(),
		Creator: pantheon.Addr(m.GetCreator()),
		Admin:   pantheon.Addr(m.GetAdmin()),
		Label:   m.GetLabel(),
	}
}

var _ orm.Model = (*Metadata)(nil)

func (m *Metadata) Validate() error {
	var errs error
	if m.GetContractAddress() == "" {
		errs = errors.AppendField(errs, "ContractAddress", errors.ErrEmpty)
	}
	if m.GetOwnerAddress() == "" {
		errs = errors.AppendField(errs, "OwnerAddress", errors.ErrEmpty)
	}
	return errs
}

// NewCodeBucket returns a bucket of code keyed by the encoded code id.
func NewCodeBucket() orm.ModelBucket {
	return orm.NewModelBucket("code", &CodeInfo{})
}

// NewContractBucket returns a bucket of contract instances keyed by the
// contract address.
func NewContractBucket() orm.ModelBucket {
	return orm.NewModelBucket("contract", &ContractInfo{})
}

// NewMetadataBucket returns a bucket of rewards metadata keyed by the
// contract address.
func NewMetadataBucket() orm.ModelBucket {
	return orm.NewModelBucket("metadata", &Metadata{})
}
