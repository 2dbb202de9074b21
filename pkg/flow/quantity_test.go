package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in        string
		qty       int
		defaulted bool
	}{
		{"3", 3, false},
		{"12", 12, false},
		{"one", 1, false},
		{"two", 2, false},
		{"seventeen", 17, false},
		{"ninety", 90, false},
		{"twenty-five", 25, false},
		{"forty-two", 42, false},
		{"a", 1, false},
		{"an", 1, false},
		{"A", 1, false},
		{"2x", 2, false},
		{"about 3 of them", 3, false},
		{"", 1, true},
		{"a couple", 1, true},
		{"some", 1, true},
	}
	for _, tc := range cases {
		qty, defaulted := ParseQuantity(tc.in)
		assert.Equal(t, tc.qty, qty, "input %q", tc.in)
		assert.Equal(t, tc.defaulted, defaulted, "input %q", tc.in)
	}
}
