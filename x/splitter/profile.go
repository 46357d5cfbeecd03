package splitter

import (
	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/gconf"
	"github.com/iov-one/pantheon/x/deploy"
)

const (
	profilePkg = "splitter"
	versionPkg = "contract_info"

	// ContractName is stored in the contract version record.
	ContractName = "pantheon-splitter"

	// DefaultNativeDenom is the distributed token unless configured
	// otherwise.
	DefaultNativeDenom = "aconst"
)

// Validate ensures all capabilities are known.
func (m *Profile) Validate() error {
	var errs error
	if err := deploy.Strategy(m.Deployment).Validate(); err != nil {
		errs = errors.AppendField(errs, "Deployment", err)
	}
	if m.Deployment == string(deploy.StrategyDeterministic) {
		if err := deploy.ChecksumSource(m.ChecksumSource).Validate(); err != nil {
			errs = errors.AppendField(errs, "ChecksumSource", err)
		}
	}
	if err := pantheon.ValidateDenom(m.NativeDenom); err != nil {
		errs = errors.AppendField(errs, "NativeDenom", err)
	}
	return errs
}

// newProfile returns the profile requested by the instantiation message,
// with defaults applied.
func newProfile(msg *InstantiateMsg) *Profile {
	p := &Profile{
		Deployment:     string(msg.Deployment),
		ChecksumSource: string(msg.ChecksumSource),
		Distribution:   true,
		NativeDenom:    msg.NativeDenom,
	}
	if p.Deployment == "" {
		p.Deployment = string(deploy.StrategyDeterministic)
	}
	if p.Deployment == string(deploy.StrategyDeterministic) && p.ChecksumSource == "" {
		p.ChecksumSource = string(deploy.ChecksumSelf)
	}
	if msg.Distribution != nil {
		p.Distribution = *msg.Distribution
	}
	if p.NativeDenom == "" {
		p.NativeDenom = DefaultNativeDenom
	}
	return p
}

// Deployer returns the child contract deployer selected by the profile.
func (m *Profile) Deployer() (deploy.Deployer, error) {
	return deploy.New(deploy.Strategy(m.Deployment), deploy.ChecksumSource(m.ChecksumSource))
}

// RequireDistribution returns ErrNotSupported if rewards cannot be
// distributed.
func (m *Profile) RequireDistribution() error {
	if !m.Distribution {
		return errors.Wrap(errors.ErrNotSupported, "reward distribution is disabled")
	}
	return nil
}

func saveProfile(db gconf.Store, p *Profile) error {
	if err := gconf.Save(db, profilePkg, p); err != nil {
		return errors.Wrap(err, "save profile")
	}
	return nil
}

func loadProfile(db gconf.ReadStore) (*Profile, error) {
	var p Profile
	if err := gconf.Load(db, profilePkg, &p); err != nil {
		return nil, errors.Wrap(err, "load profile")
	}
	return &p, nil
}

// Validate ensures the record names the contract and its version.
func (m *ContractVersion) Validate() error {
	var errs error
	if m.Contract == "" {
		errs = errors.AppendField(errs, "Contract", errors.ErrEmpty)
	}
	if m.Version == "" {
		errs = errors.AppendField(errs, "Version", errors.ErrEmpty)
	}
	return errs
}

func saveVersion(db gconf.Store) error {
	return gconf.Save(db, versionPkg, &ContractVersion{
		Contract: ContractName,
		Version:  pantheon.Release,
	})
}

func loadVersion(db gconf.ReadStore) (*ContractVersion, error) {
	var v ContractVersion
	if err := gconf.Load(db, versionPkg, &v); err != nil {
		return nil, errors.Wrap(err, "load contract version")
	}
	return &v, nil
}
