package admin

import (
	"github.com/iov-one/pantheon/errors"
)

// Error codes
// x/admin reserves 110 ~ 119.

var (
	ErrContractNotMutable = errors.Register(110, "contract is not mutable")
)
