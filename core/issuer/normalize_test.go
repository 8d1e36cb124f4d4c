package issuer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/certkit/core/issuer"
)

func TestNormalizeDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		norm  issuer.Normalization
		want  string
	}{
		{"scheme and port", "https://foo.example.com:3001", issuer.DefaultNormalization, "foo.example.com"},
		{"plain", "example.com", issuer.DefaultNormalization, "example.com"},
		{"scheme only", "https://example.com", issuer.DefaultNormalization, "example.com"},
		{"port only", "example.com:3001", issuer.DefaultNormalization, "example.com"},
		{"other port kept", "example.com:8080", issuer.DefaultNormalization, "example.com:8080"},
		{"http scheme kept", "http://example.com", issuer.DefaultNormalization, "http://example.com"},
		{"whitespace", "  example.com \n", issuer.DefaultNormalization, "example.com"},
		{
			"custom rules",
			"http://example.com:8080",
			issuer.Normalization{Schemes: []string{"https://", "http://"}, PortSuffixes: []string{":8080"}},
			"example.com",
		},
		{"no rules", "https://example.com:3001", issuer.Normalization{}, "https://example.com:3001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, issuer.NormalizeDomain(tt.input, tt.norm))
		})
	}
}
