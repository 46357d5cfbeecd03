package deploy

import (
	"github.com/iov-one/pantheon/errors"
)

// Error codes
// x/deploy reserves 120 ~ 129.

var (
	ErrInstantiate = errors.Register(120, "instantiate error")
	ErrInvalidSalt = errors.Register(121, "invalid salt")
)
