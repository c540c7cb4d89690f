package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"cloralex", "cloralex"},
		{"100% cacao", `100\% cacao`},
		{"sal_gruesa", `sal\_gruesa`},
		{`a\b`, `a\\b`},
		{"%_", `\%\_`},
		{"", ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, escapeLike(c.in), "input %q", c.in)
	}
}
