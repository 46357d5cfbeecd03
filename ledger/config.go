package ledger

import (
	"io"
	"os"

	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/tendermint/tendermint/libs/log"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultChainID is used when no chain id is configured.
	DefaultChainID = "pantheon-local"

	// DefaultNativeDenom is the denomination of the native token when none
	// is configured.
	DefaultNativeDenom = "aconst"

	// DefaultMaxCallDepth limits how deep messages emitted by contracts can
	// be nested.
	DefaultMaxCallDepth = 10
)

// Config is the ledger configuration, usually read from a yaml file.
type Config struct {
	ChainID      string `yaml:"chain_id"`
	Bech32Prefix string `yaml:"bech32_prefix"`
	NativeDenom  string `yaml:"native_denom"`
	LogLevel     string `yaml:"log_level"`
	MaxCallDepth int    `yaml:"max_call_depth"`
}

// DefaultConfig returns the configuration used when nothing is declared.
func DefaultConfig() Config {
	return Config{
		ChainID:      DefaultChainID,
		Bech32Prefix: pantheon.DefaultBech32Prefix,
		NativeDenom:  DefaultNativeDenom,
		LogLevel:     "info",
		MaxCallDepth: DefaultMaxCallDepth,
	}
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	var errs error
	if !pantheon.IsValidChainID(c.ChainID) {
		errs = errors.AppendField(errs, "ChainID", errors.Wrapf(errors.ErrInput, "invalid chain id %q", c.ChainID))
	}
	if c.Bech32Prefix == "" {
		errs = errors.AppendField(errs, "Bech32Prefix", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "NativeDenom", pantheon.ValidateDenom(c.NativeDenom))
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		errs = errors.AppendField(errs, "LogLevel", errors.Wrap(errors.ErrInput, err.Error()))
	}
	if c.MaxCallDepth < 1 {
		errs = errors.AppendField(errs, "MaxCallDepth", errors.Wrap(errors.ErrInput, "must be positive"))
	}
	return errs
}

// LoadConfig reads the yaml configuration file. Values that are not
// declared in the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "read config: %s", err)
	}
	if err := yaml.Unmarshal(raw, &conf); err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "parse config: %s", err)
	}
	if err := conf.Validate(); err != nil {
		return conf, errors.Wrap(err, "config")
	}
	return conf, nil
}

// WriteConfig writes the configuration as yaml into the file at path.
func WriteConfig(path string, conf Config) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrap(err, "config")
	}
	raw, err := yaml.Marshal(conf)
	if err != nil {
		return errors.Wrapf(errors.ErrHuman, "serialize config: %s", err)
	}
	if err := os.WriteFile(path, raw, 0600); err != nil {
		return errors.Wrapf(errors.ErrInput, "write config: %s", err)
	}
	return nil
}

// NewLogger returns a logger writing to w all entries of given level and
// above.
func NewLogger(w io.Writer, level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(w)), opt), nil
}
