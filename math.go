package pantheon

import (
	"encoding/json"
	"math/big"

	"github.com/iov-one/pantheon/errors"
	"github.com/shopspring/decimal"
)

// DecimalPlaces is the maximum number of fractional digits of a Decimal.
const DecimalPlaces = 18

var (
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// Decimal is a non negative fixed point number with up to 18 fractional
// digits. It is serialized as a string.
type Decimal struct {
	d decimal.Decimal
}

// ParseDecimal parses the string representation of a decimal.
func ParseDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, errors.Wrapf(errors.ErrInput, "decimal %q", s)
	}
	if d.Sign() < 0 {
		return Decimal{}, errors.Wrapf(errors.ErrInput, "decimal %q is negative", s)
	}
	if d.Exponent() < -DecimalPlaces {
		return Decimal{}, errors.Wrapf(errors.ErrInput, "decimal %q has more than %d fractional digits", s, DecimalPlaces)
	}
	return Decimal{d: d}, nil
}

// MustParseDecimal is ParseDecimal that panics on error. Use it only for
// constants and in tests.
func MustParseDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DecimalZero returns 0.
func DecimalZero() Decimal {
	return Decimal{d: decimal.Zero}
}

// DecimalOne returns 1.
func DecimalOne() Decimal {
	return Decimal{d: decimal.NewFromInt(1)}
}

// DecimalPercent returns n / 100.
func DecimalPercent(n int64) Decimal {
	return Decimal{d: decimal.New(n, -2)}
}

// Add returns the sum of two decimals. Decimals are exact, so no precision
// is lost.
func (a Decimal) Add(b Decimal) Decimal {
	return Decimal{d: a.d.Add(b.d)}
}

// Cmp returns -1, 0 or 1 if a is less than, equal to or greater than b.
func (a Decimal) Cmp(b Decimal) int {
	return a.d.Cmp(b.d)
}

// IsZero returns true if the value is 0.
func (a Decimal) IsZero() bool {
	return a.d.IsZero()
}

func (a Decimal) String() string {
	return a.d.String()
}

func (a Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Decimal) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "decimal must be a string")
	}
	d, err := ParseDecimal(s)
	if err != nil {
		return err
	}
	*a = d
	return nil
}

// Uint128 is an unsigned 128 bit integer. It is serialized as a string.
type Uint128 struct {
	d decimal.Decimal
}

// NewUint128 returns a Uint128 holding given value.
func NewUint128(v uint64) Uint128 {
	return Uint128{d: decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)}
}

// ParseUint128 parses the decimal string representation of an integer.
func ParseUint128(s string) (Uint128, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Uint128{}, errors.Wrapf(errors.ErrInput, "integer %q", s)
	}
	if n.Sign() < 0 || n.Cmp(maxUint128) > 0 {
		return Uint128{}, errors.Wrapf(errors.ErrOverflow, "integer %q", s)
	}
	return Uint128{d: decimal.NewFromBigInt(n, 0)}, nil
}

// MustParseUint128 is ParseUint128 that panics on error.
func MustParseUint128(s string) Uint128 {
	u, err := ParseUint128(s)
	if err != nil {
		panic(err)
	}
	return u
}

func fromDecimal(d decimal.Decimal) (Uint128, error) {
	n := d.BigInt()
	if n.Sign() < 0 {
		return Uint128{}, errors.Wrap(errors.ErrOverflow, "negative result")
	}
	if n.Cmp(maxUint128) > 0 {
		return Uint128{}, errors.Wrap(errors.ErrOverflow, "result exceeds 128 bits")
	}
	return Uint128{d: decimal.NewFromBigInt(n, 0)}, nil
}

// Add returns a + b or an error on overflow.
func (a Uint128) Add(b Uint128) (Uint128, error) {
	return fromDecimal(a.d.Add(b.d))
}

// Sub returns a - b or an error if b is greater than a.
func (a Uint128) Sub(b Uint128) (Uint128, error) {
	if a.d.Cmp(b.d) < 0 {
		return Uint128{}, errors.Wrapf(errors.ErrOverflow, "cannot subtract %s from %s", b, a)
	}
	return fromDecimal(a.d.Sub(b.d))
}

// MulFloor returns floor(a * ratio). The multiplication is exact, so the
// result is the largest integer not greater than the real product.
func (a Uint128) MulFloor(ratio Decimal) (Uint128, error) {
	return fromDecimal(a.d.Mul(ratio.d).Floor())
}

// Cmp returns -1, 0 or 1 if a is less than, equal to or greater than b.
func (a Uint128) Cmp(b Uint128) int {
	return a.d.Cmp(b.d)
}

// IsZero returns true if the value is 0.
func (a Uint128) IsZero() bool {
	return a.d.IsZero()
}

func (a Uint128) String() string {
	return a.d.String()
}

func (a Uint128) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Uint128) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "integer must be a string")
	}
	u, err := ParseUint128(s)
	if err != nil {
		return err
	}
	*a = u
	return nil
}
