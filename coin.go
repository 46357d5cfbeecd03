package pantheon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/iov-one/pantheon/errors"
)

var (
	isDenom         = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9/:._-]{2,127}$`).MatchString
	humanCoinFormat = regexp.MustCompile(`^([0-9]+)([a-zA-Z][a-zA-Z0-9/:._-]{2,127})$`)
)

// Coin is an amount of a single native token.
type Coin struct {
	Denom  string  `json:"denom"`
	Amount Uint128 `json:"amount"`
}

// NewCoin returns a coin of given denomination.
func NewCoin(amount uint64, denom string) Coin {
	return Coin{Denom: denom, Amount: NewUint128(amount)}
}

// ValidateDenom returns an error if the denomination is not well formed.
func ValidateDenom(denom string) error {
	if !isDenom(denom) {
		return errors.Wrapf(errors.ErrInput, "invalid denomination %q", denom)
	}
	return nil
}

// Validate returns an error if the coin cannot be used.
func (c Coin) Validate() error {
	return ValidateDenom(c.Denom)
}

// Equals returns true if both coins are of the same denomination and
// amount.
func (c Coin) Equals(o Coin) bool {
	return c.Denom == o.Denom && c.Amount.Cmp(o.Amount) == 0
}

// ParseCoin parses a coin in its string representation, for example
// "100aconst".
func ParseCoin(human string) (Coin, error) {
	m := humanCoinFormat.FindStringSubmatch(strings.TrimSpace(human))
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin %q", human)
	}
	amount, err := ParseUint128(m[1])
	if err != nil {
		return Coin{}, errors.Wrapf(err, "coin %q", human)
	}
	return Coin{Denom: m[2], Amount: amount}, nil
}

func (c Coin) String() string {
	return fmt.Sprintf("%s%s", c.Amount, c.Denom)
}

// Coins is a set of coins, at most one per denomination.
type Coins []Coin

// Validate returns an error if any coin is invalid or a denomination is
// repeated.
func (cs Coins) Validate() error {
	seen := make(map[string]struct{}, len(cs))
	for i, c := range cs {
		if err := c.Validate(); err != nil {
			return errors.Field(fmt.Sprintf("Coins.%d", i), err, "")
		}
		if _, ok := seen[c.Denom]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "denomination %q", c.Denom)
		}
		seen[c.Denom] = struct{}{}
	}
	return nil
}

// AmountOf returns the amount of given denomination.
func (cs Coins) AmountOf(denom string) Uint128 {
	for _, c := range cs {
		if c.Denom == denom {
			return c.Amount
		}
	}
	return NewUint128(0)
}

// ParseCoins parses a comma separated list of coins. An empty string is an
// empty set.
func ParseCoins(human string) (Coins, error) {
	if strings.TrimSpace(human) == "" {
		return Coins{}, nil
	}
	parts := strings.Split(human, ",")
	coins := make(Coins, 0, len(parts))
	for _, p := range parts {
		c, err := ParseCoin(p)
		if err != nil {
			return nil, err
		}
		coins = append(coins, c)
	}
	if err := coins.Validate(); err != nil {
		return nil, err
	}
	return coins, nil
}

func (cs Coins) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}
