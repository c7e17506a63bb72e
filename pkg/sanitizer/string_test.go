package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fundscope/authd/pkg/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Bob@Example.COM", "bob@example.com"},
		{"trims", "  bob@example.com  ", "bob@example.com"},
		{"empty stays empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, sanitizer.NormalizeEmail(tc.input))
		})
	}
}

func TestNormalizeUsername(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Alice", sanitizer.NormalizeUsername("  Alice "))
}
