package admin

import (
	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/gconf"
)

const configPkg = "admin"

// Validate ensures the configuration names an admin.
func (m *Config) Validate() error {
	if m.GetAdmin() == "" {
		return errors.Field("Admin", errors.ErrEmpty, "required")
	}
	return nil
}

// Init stores the initial configuration. It fails if the contract was
// already configured.
func Init(db gconf.Store, admin pantheon.Addr, mutable bool) (*Config, error) {
	ok, err := gconf.Exists(db, configPkg)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, errors.Wrap(errors.ErrDuplicate, "config already initialized")
	}
	c := &Config{Admin: admin.String(), Mutable: mutable}
	if err := gconf.Save(db, configPkg, c); err != nil {
		return nil, errors.Wrap(err, "save config")
	}
	return c, nil
}

// Load returns the stored configuration.
func Load(db gconf.ReadStore) (*Config, error) {
	var c Config
	if err := gconf.Load(db, configPkg, &c); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return &c, nil
}

// RequireAdmin returns ErrUnauthorized unless the sender is the admin.
func RequireAdmin(c *Config, sender pantheon.Addr) error {
	if sender.Empty() || sender.String() != c.GetAdmin() {
		return errors.Wrapf(errors.ErrUnauthorized, "%q is not the admin", sender)
	}
	return nil
}

// RequireMutable returns ErrContractNotMutable if the contract is locked.
func RequireMutable(c *Config) error {
	if !c.GetMutable() {
		return errors.Wrap(ErrContractNotMutable, "contract is locked")
	}
	return nil
}

// Authorize loads the configuration and ensures the sender is the admin.
func Authorize(db gconf.ReadStore, sender pantheon.Addr) (*Config, error) {
	c, err := Load(db)
	if err != nil {
		return nil, err
	}
	if err := RequireAdmin(c, sender); err != nil {
		return nil, err
	}
	return c, nil
}

// Gate loads the configuration and ensures the sender is the admin and the
// contract can be mutated. The admin is checked first, a sender that is not
// the admin always gets ErrUnauthorized.
func Gate(db gconf.ReadStore, sender pantheon.Addr) (*Config, error) {
	c, err := Authorize(db, sender)
	if err != nil {
		return nil, err
	}
	if err := RequireMutable(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Lock makes the contract immutable. Only the admin can lock a contract.
// Locking an already locked contract succeeds and changes nothing.
func Lock(ctx pantheon.Context, db gconf.Store, sender pantheon.Addr) (*Config, error) {
	c, err := Authorize(db, sender)
	if err != nil {
		return nil, err
	}
	if !c.Mutable {
		return c, nil
	}
	c.Mutable = false
	if err := gconf.Save(db, configPkg, c); err != nil {
		return nil, errors.Wrap(err, "save config")
	}
	pantheon.GetLogger(ctx).Info("contract locked", "admin", c.Admin)
	return c, nil
}
