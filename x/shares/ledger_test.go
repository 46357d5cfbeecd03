package shares

import (
	"fmt"
	"sort"
	"testing"

	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/pantheontest"
	"github.com/iov-one/pantheon/pantheontest/assert"
	"github.com/iov-one/pantheon/store"
)

func TestLedgerSet(t *testing.T) {
	alice := pantheontest.SequenceAddr(1)
	bob := pantheontest.SequenceAddr(2)
	carol := pantheontest.SequenceAddr(3)

	initial := []Share{
		NewShare(alice, "0.5"),
		NewShare(bob, "0.5"),
	}

	cases := map[string]struct {
		Payees  []Share
		WantErr *errors.Error
		// Want is the expected share set after the operation.
		Want []Share
	}{
		"replace the whole set": {
			Payees: []Share{
				NewShare(carol, "0.7"),
				NewShare(alice, "0.3"),
			},
			Want: []Share{
				NewShare(alice, "0.3"),
				NewShare(carol, "0.7"),
			},
		},
		"single recipient": {
			Payees: []Share{NewShare(alice, "1")},
			Want:   []Share{NewShare(alice, "1.0")},
		},
		"zero percentage is allowed": {
			Payees: []Share{
				NewShare(alice, "1"),
				NewShare(bob, "0"),
			},
			Want: []Share{
				NewShare(alice, "1"),
				NewShare(bob, "0"),
			},
		},
		"full precision": {
			Payees: []Share{
				NewShare(alice, "0.333333333333333333"),
				NewShare(bob, "0.333333333333333333"),
				NewShare(carol, "0.333333333333333334"),
			},
			Want: []Share{
				NewShare(alice, "0.333333333333333333"),
				NewShare(bob, "0.333333333333333333"),
				NewShare(carol, "0.333333333333333334"),
			},
		},
		"sum exceeds one": {
			Payees: []Share{
				NewShare(alice, "0.5"),
				NewShare(bob, "0.500000000000000001"),
			},
			WantErr: ErrPercentageLimitExceeded,
			Want:    initial,
		},
		"sum below one": {
			Payees: []Share{
				NewShare(alice, "0.5"),
				NewShare(bob, "0.4"),
			},
			WantErr: ErrPercentageLimitNotMet,
			Want:    initial,
		},
		"empty set": {
			Payees:  nil,
			WantErr: ErrPercentageLimitNotMet,
			Want:    initial,
		},
		"invalid recipient": {
			Payees: []Share{
				NewShare(alice, "0.5"),
				NewShare("not-an-address", "0.5"),
			},
			WantErr: ErrInvalidRecipient,
			Want:    initial,
		},
		"recipient with a wrong prefix": {
			Payees: []Share{
				NewShare("cosmos1qyqszqgpqyqszqgpqyqszqgpqyqszqgpjnp7du", "1"),
			},
			WantErr: ErrInvalidRecipient,
			Want:    initial,
		},
		"duplicated recipient": {
			Payees: []Share{
				NewShare(alice, "0.5"),
				NewShare(alice, "0.5"),
			},
			WantErr: ErrDuplicateRecipient,
			Want:    initial,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			l := NewLedger()
			if err := l.Set(db, pantheontest.API, initial); err != nil {
				t.Fatalf("cannot set initial shares: %s", err)
			}

			err := l.Set(db, pantheontest.API, tc.Payees)
			assert.IsErr(t, tc.WantErr, err)

			got, err := l.All(db)
			assert.Nil(t, err)
			assert.JSONEqual(t, normalize(tc.Want), got)
		})
	}
}

// normalize returns shares as they are represented after being loaded from
// the store, ordered by the recipient.
func normalize(shares []Share) []Share {
	res := make([]Share, len(shares))
	for i, s := range shares {
		p, err := pantheon.ParseDecimal(s.Percentage.String())
		if err != nil {
			panic(err)
		}
		res[i] = Share{Recipient: s.Recipient, Percentage: p}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Recipient < res[j].Recipient })
	return res
}

func TestLedgerGet(t *testing.T) {
	alice := pantheontest.SequenceAddr(1)
	bob := pantheontest.SequenceAddr(2)

	db := store.MemStore()
	l := NewLedger()
	assert.Nil(t, l.Set(db, pantheontest.API, []Share{NewShare(alice, "1")}))

	s, err := l.Get(db, pantheontest.API, alice.String())
	assert.Nil(t, err)
	assert.Equal(t, alice, s.Recipient)
	assert.Equal(t, "1", s.Percentage.String())

	_, err = l.Get(db, pantheontest.API, bob.String())
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = l.Get(db, pantheontest.API, "xyz")
	assert.IsErr(t, ErrInvalidRecipient, err)
}

func TestLedgerListPagination(t *testing.T) {
	db := store.MemStore()
	l := NewLedger()

	var payees []Share
	for i := uint32(1); i <= 5; i++ {
		payees = append(payees, NewShare(pantheontest.SequenceAddr(i), "0.2"))
	}
	assert.Nil(t, l.Set(db, pantheontest.API, payees))

	all, err := l.All(db)
	assert.Nil(t, err)
	if len(all) != 5 {
		t.Fatalf("want 5 shares, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Recipient >= all[i].Recipient {
			t.Fatalf("shares not in ascending order: %q before %q", all[i-1].Recipient, all[i].Recipient)
		}
	}

	two := uint8(2)
	var (
		got    []Share
		cursor *string
	)
	for {
		page, err := l.List(db, pantheontest.API, cursor, &two)
		assert.Nil(t, err)
		if len(page) == 0 {
			break
		}
		if len(page) > 2 {
			t.Fatalf("page too big: %d", len(page))
		}
		got = append(got, page...)
		last := page[len(page)-1].Recipient.String()
		cursor = &last
	}
	assert.JSONEqual(t, all, got)

	// The first page with the default limit returns all of them.
	page, err := l.List(db, pantheontest.API, nil, nil)
	assert.Nil(t, err)
	assert.JSONEqual(t, all, page)

	zero := uint8(0)
	page, err = l.List(db, pantheontest.API, nil, &zero)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(page))

	// Cursor does not have to reference an existing share.
	after := pantheontest.SequenceAddr(99).String()
	page, err = l.List(db, pantheontest.API, &after, nil)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(page))

	bad := "invalid"
	_, err = l.List(db, pantheontest.API, &bad, nil)
	assert.IsErr(t, ErrInvalidRecipient, err)
}

func TestLedgerListLimits(t *testing.T) {
	db := store.MemStore()
	l := NewLedger()

	// 39 * 0.02 + 0.22 == 1
	var payees []Share
	for i := uint32(1); i <= 39; i++ {
		payees = append(payees, NewShare(pantheontest.SequenceAddr(i), "0.02"))
	}
	payees = append(payees, NewShare(pantheontest.SequenceAddr(100), "0.22"))
	assert.Nil(t, l.Set(db, pantheontest.API, payees))

	cases := map[string]struct {
		Limit *uint8
		Want  int
	}{
		"default limit": {Limit: nil, Want: DefaultLimit},
		"custom limit":  {Limit: u8(3), Want: 3},
		"zero limit":    {Limit: u8(0), Want: 0},
		"above 30":      {Limit: u8(35), Want: 35},
		"above the set": {Limit: u8(50), Want: 40},
		"biggest limit": {Limit: u8(255), Want: 40},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			page, err := l.List(db, pantheontest.API, nil, tc.Limit)
			assert.Nil(t, err)
			assert.Equal(t, tc.Want, len(page))
		})
	}
}

func u8(n uint8) *uint8 { return &n }

func TestCheckPercentages(t *testing.T) {
	addr := pantheontest.SequenceAddr(1)
	cases := map[string]struct {
		Percentages []string
		WantErr     *errors.Error
	}{
		"exactly one":         {Percentages: []string{"0.25", "0.25", "0.5"}},
		"trailing zeros":      {Percentages: []string{"0.500", "0.5000000"}},
		"above one":           {Percentages: []string{"0.6", "0.6"}, WantErr: ErrPercentageLimitExceeded},
		"single above one":    {Percentages: []string{"1.000000000000000001"}, WantErr: ErrPercentageLimitExceeded},
		"below one":           {Percentages: []string{"0.999999999999999999"}, WantErr: ErrPercentageLimitNotMet},
		"nothing is not one":  {Percentages: nil, WantErr: ErrPercentageLimitNotMet},
		"many small payments": {Percentages: repeat("0.01", 100)},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var payees []Share
			for _, p := range tc.Percentages {
				payees = append(payees, NewShare(addr, p))
			}
			assert.IsErr(t, tc.WantErr, CheckPercentages(payees))
		})
	}
}

func repeat(s string, n int) []string {
	res := make([]string, n)
	for i := range res {
		res[i] = s
	}
	return res
}

func TestShareRecordValidate(t *testing.T) {
	cases := map[string]struct {
		Record    *ShareRecord
		WantField map[string]*errors.Error
	}{
		"valid": {
			Record: &ShareRecord{Recipient: "archway1x", Percentage: "0.1"},
			WantField: map[string]*errors.Error{
				"Recipient":  nil,
				"Percentage": nil,
			},
		},
		"missing recipient": {
			Record: &ShareRecord{Percentage: "0.1"},
			WantField: map[string]*errors.Error{
				"Recipient":  errors.ErrEmpty,
				"Percentage": nil,
			},
		},
		"invalid percentage": {
			Record: &ShareRecord{Recipient: "archway1x", Percentage: "-1"},
			WantField: map[string]*errors.Error{
				"Recipient":  nil,
				"Percentage": errors.ErrInput,
			},
		},
		"percentage above one": {
			Record: &ShareRecord{Recipient: "archway1x", Percentage: "1.5"},
			WantField: map[string]*errors.Error{
				"Percentage": ErrPercentageLimitExceeded,
			},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.Record.Validate()
			for field, want := range tc.WantField {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func ExampleCheckPercentages() {
	payees := []Share{
		NewShare(pantheontest.SequenceAddr(1), "0.6"),
		NewShare(pantheontest.SequenceAddr(2), "0.3"),
	}
	fmt.Println(ErrPercentageLimitNotMet.Is(CheckPercentages(payees)))
	// Output: true
}
