package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/authkit/pkg/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "User@Example.COM", "user@example.com"},
		{"trims whitespace", "  a@x.com \t", "a@x.com"},
		{"collapses consecutive dots", "a..b@x.com", "a.b@x.com"},
		{"strips edge dots in local part", ".a.b.@x.com", "a.b@x.com"},
		{"leaves domain dots alone", "a@sub.x.com", "a@sub.x.com"},
		{"missing at sign returned lowercased", "NotAnEmail", "notanemail"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.NormalizeEmail(tt.input))
		})
	}
}
