package shares

import (
	"github.com/iov-one/pantheon/errors"
)

// Error codes
// x/shares reserves 100 ~ 109.

var (
	ErrPercentageLimitExceeded = errors.Register(100, "percentage limit exceeded")
	ErrPercentageLimitNotMet   = errors.Register(101, "percentage limit not met")
	ErrInvalidRecipient        = errors.Register(102, "invalid recipient")
	ErrDuplicateRecipient      = errors.Register(103, "duplicate recipient")
)
