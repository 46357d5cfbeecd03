package pantheon_test

import (
	"testing"

	"github.com/iov-one/pantheon"
	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	defer func(c string) { pantheon.GitCommit = c }(pantheon.GitCommit)

	cases := map[string]struct {
		commit string
		want   string
	}{
		"release build": {commit: "", want: pantheon.Release},
		"commit build":  {commit: "12345678", want: pantheon.Release + " 12345678"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			pantheon.GitCommit = tc.commit
			assert.Equal(t, tc.want, pantheon.Version())
		})
	}
}
