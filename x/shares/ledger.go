package shares

import (
	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/orm"
)

// DefaultLimit is the page size used when listing shares without an
// explicit limit.
const DefaultLimit = 10

// Ledger manages the share set of a contract.
type Ledger struct {
	bucket orm.ModelBucket
}

// NewLedger returns a ledger using the default share bucket.
func NewLedger() *Ledger {
	return &Ledger{bucket: NewShareBucket()}
}

// Set replaces the whole share set with the given payees. Nothing is written
// unless all recipients are valid and unique and the percentages sum to
// exactly one.
func (l *Ledger) Set(db pantheon.KVStore, api pantheon.API, payees []Share) error {
	valid, err := Validate(api, payees)
	if err != nil {
		return err
	}
	if _, err := l.bucket.Clear(db); err != nil {
		return errors.Wrap(err, "clear shares")
	}
	for _, s := range valid {
		if err := l.bucket.Put(db, []byte(s.Recipient), s.record()); err != nil {
			return errors.Wrapf(err, "save share of %q", s.Recipient)
		}
	}
	return nil
}

// Get returns the share of given recipient. ErrNotFound is returned when the
// recipient has no share.
func (l *Ledger) Get(db pantheon.ReadOnlyKVStore, api pantheon.API, recipient string) (*Share, error) {
	addr, err := api.AddrValidate(recipient)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidRecipient, "%q: %s", recipient, err)
	}
	var rec ShareRecord
	if err := l.bucket.One(db, []byte(addr), &rec); err != nil {
		return nil, errors.Wrapf(err, "share of %q", addr)
	}
	s, err := fromRecord(&rec)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns a page of shares ordered by the recipient address, starting
// right after the given recipient. A nil limit means DefaultLimit.
func (l *Ledger) List(db pantheon.ReadOnlyKVStore, api pantheon.API, startAfter *string, limit *uint8) ([]Share, error) {
	n := DefaultLimit
	if limit != nil {
		n = int(*limit)
	}
	if n == 0 {
		return []Share{}, nil
	}

	var start []byte
	if startAfter != nil {
		addr, err := api.AddrValidate(*startAfter)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidRecipient, "start after %q: %s", *startAfter, err)
		}
		start = []byte(addr)
	}
	return l.load(db, start, n)
}

// All returns the complete share set ordered by the recipient address.
func (l *Ledger) All(db pantheon.ReadOnlyKVStore) ([]Share, error) {
	return l.load(db, nil, 0)
}

func (l *Ledger) load(db pantheon.ReadOnlyKVStore, startAfter []byte, limit int) ([]Share, error) {
	var recs []ShareRecord
	if _, err := l.bucket.Range(db, startAfter, limit, &recs); err != nil {
		return nil, errors.Wrap(err, "load shares")
	}
	res := make([]Share, 0, len(recs))
	for i := range recs {
		s, err := fromRecord(&recs[i])
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, nil
}

// Validate checks the recipients and the percentages of given payees and
// returns them with normalized addresses. Recipients must be valid and must
// not repeat.
func Validate(api pantheon.API, payees []Share) ([]Share, error) {
	valid := make([]Share, 0, len(payees))
	seen := make(map[pantheon.Addr]struct{}, len(payees))
	for i, s := range payees {
		addr, err := api.AddrValidate(s.Recipient.String())
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidRecipient, "share %d %q: %s", i, s.Recipient, err)
		}
		if _, ok := seen[addr]; ok {
			return nil, errors.Wrapf(ErrDuplicateRecipient, "share %d %q", i, addr)
		}
		seen[addr] = struct{}{}
		valid = append(valid, Share{Recipient: addr, Percentage: s.Percentage})
	}
	if err := CheckPercentages(valid); err != nil {
		return nil, err
	}
	return valid, nil
}

// CheckPercentages returns an error unless the percentages of all payees sum
// to exactly one.
func CheckPercentages(payees []Share) error {
	total := pantheon.DecimalZero()
	for _, s := range payees {
		total = total.Add(s.Percentage)
	}
	switch total.Cmp(pantheon.DecimalOne()) {
	case 1:
		return errors.Wrapf(ErrPercentageLimitExceeded, "total %s", total)
	case -1:
		return errors.Wrapf(ErrPercentageLimitNotMet, "total %s", total)
	}
	return nil
}
