package shares

import (
	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/orm"
)

var _ orm.Model = (*ShareRecord)(nil)

// Validate ensures the record can be turned back into a Share.
func (m *ShareRecord) Validate() error {
	var errs error
	if m.GetRecipient() == "" {
		errs = errors.AppendField(errs, "Recipient", errors.ErrEmpty)
	}
	if p, err := pantheon.ParseDecimal(m.GetPercentage()); err != nil {
		errs = errors.AppendField(errs, "Percentage", err)
	} else if p.Cmp(pantheon.DecimalOne()) > 0 {
		errs = errors.AppendField(errs, "Percentage",
			errors.Wrapf(ErrPercentageLimitExceeded, "%s", p))
	}
	return errs
}

// Share is a payee together with its fraction of distributed funds.
type Share struct {
	Recipient  pantheon.Addr    `json:"recipient"`
	Percentage pantheon.Decimal `json:"percentage"`
}

// NewShare returns a share of given percentage, for example "0.25". It
// panics if the percentage is not a valid decimal, so use it only with
// constant values.
func NewShare(recipient pantheon.Addr, percentage string) Share {
	return Share{Recipient: recipient, Percentage: pantheon.MustParseDecimal(percentage)}
}

func (s Share) record() *ShareRecord {
	return &ShareRecord{
		Recipient:  s.Recipient.String(),
		Percentage: s.Percentage.String(),
	}
}

func fromRecord(r *ShareRecord) (Share, error) {
	p, err := pantheon.ParseDecimal(r.GetPercentage())
	if err != nil {
		return Share{}, errors.Wrapf(errors.ErrModel, "share of %q: %s", r.GetRecipient(), err)
	}
	return Share{Recipient: pantheon.Addr(r.GetRecipient()), Percentage: p}, nil
}

// NewShareBucket returns a bucket of shares, keyed by the recipient address.
func NewShareBucket() orm.ModelBucket {
	return orm.NewModelBucket("share", &ShareRecord{})
}
