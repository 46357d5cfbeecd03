package assert

import (
	"fmt"
	"testing"

	"github.com/iov-one/pantheon/errors"
)

func TestIsErr(t *testing.T) {
	cases := map[string]struct {
		ErrWant  error
		ErrGot   error
		WantFail bool
	}{
		"same error": {
			ErrWant:  errors.ErrEmpty,
			ErrGot:   errors.ErrEmpty,
			WantFail: false,
		},
		"compared to nil": {
			ErrWant:  nil,
			ErrGot:   errors.ErrEmpty,
			WantFail: true,
		},
		"both nil": {
			ErrWant:  nil,
			ErrGot:   nil,
			WantFail: false,
		},
		"wrapped": {
			ErrWant:  errors.ErrEmpty,
			ErrGot:   errors.Wrap(errors.ErrEmpty, "test"),
			WantFail: false,
		},
		"different": {
			ErrWant:  errors.ErrEmpty,
			ErrGot:   errors.ErrNotFound,
			WantFail: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{}
			IsErr(mock, tc.ErrWant, tc.ErrGot)
			if failed := mock.failcalls > 0; tc.WantFail != failed {
				t.Fatalf("unexpected failed call state: %d failures", mock.failcalls)
			}
		})
	}
}

func TestJSONEqual(t *testing.T) {
	type pair struct {
		A string `json:"a"`
	}

	mock := &tmock{}
	JSONEqual(mock, pair{A: "x"}, map[string]string{"a": "x"})
	if mock.failcalls != 0 {
		t.Fatal("values serialize to the same JSON")
	}

	JSONEqual(mock, pair{A: "x"}, pair{A: "y"})
	if mock.failcalls != 1 {
		t.Fatal("values serialize to a different JSON")
	}
}

func TestNil(t *testing.T) {
	mock := &tmock{}
	Nil(mock, nil)
	Nil(mock, (*int)(nil))
	if mock.failcalls != 0 {
		t.Fatal("nil values must pass")
	}
	Nil(mock, 0)
	if mock.failcalls != 1 {
		t.Fatal("a non nil value must fail")
	}
}

// tmock records failures instead of stopping the test.
type tmock struct {
	failcalls int
}

func (*tmock) Helper() {}

func (m *tmock) Fatal(args ...interface{}) {
	m.failcalls++
}

func (m *tmock) Fatalf(s string, args ...interface{}) {
	m.Fatal(fmt.Sprintf(s, args...))
}
