package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEndpointValidator(t *testing.T) {
	v := NewEndpointValidator()

	assert.False(t, v.AllowLocalhost)
	assert.False(t, v.AllowPrivateIPs)
	assert.Equal(t, 2048, v.MaxLength)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  string
		expectErr string
	}{
		{
			name:     "price endpoint",
			input:    "https://api.whatsonchain.com/v1/bsv/main/exchangerate",
			expected: "https://api.whatsonchain.com/v1/bsv/main/exchangerate",
		},
		{
			name:     "sentiment endpoint with query",
			input:    "  https://api.alternative.me/fng/?limit=1 ",
			expected: "https://api.alternative.me/fng/?limit=1",
		},
		{name: "empty", input: "", expectErr: "cannot be empty"},
		{name: "bad scheme", input: "ftp://example.org/rate", expectErr: "http or https"},
		{name: "no scheme", input: "api.example.org/rate", expectErr: "http or https"},
		{name: "no host", input: "https:///rate", expectErr: "valid hostname"},
		{name: "quotes", input: "https://api.example.org/\"rate", expectErr: "invalid characters"},
		{name: "localhost", input: "http://localhost:8080/rate", expectErr: "localhost"},
		{name: "loopback ip", input: "http://127.0.0.1/rate", expectErr: "private IP"},
		{name: "private ip", input: "http://192.168.1.10/rate", expectErr: "private IP"},
		{name: "unspecified", input: "http://0.0.0.0/rate", expectErr: "unroutable"},
		{name: "traversal", input: "https://api.example.org/../etc/passwd", expectErr: "traversal"},
		{name: "too long", input: "https://api.example.org/" + strings.Repeat("a", 2048), expectErr: "too long"},
	}

	v := NewEndpointValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(tt.input)
			if tt.expectErr != "" {
				if assert.Error(t, err) {
					assert.Contains(t, err.Error(), tt.expectErr)
				}
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValidatePermissive(t *testing.T) {
	v := NewPermissiveEndpointValidator()

	for _, input := range []string{
		"http://localhost:8080/rate",
		"http://127.0.0.1:9000/fng",
		"http://10.0.0.5/rate",
		"http://[::1]:8080/rate",
	} {
		_, err := v.Validate(input)
		assert.NoError(t, err, input)
	}

	_, err := v.Validate("http://0.0.0.0/rate")
	assert.Error(t, err, "unspecified addresses stay blocked")
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.org/tooltip-message.txt"))
	assert.True(t, IsRemote("HTTP://example.org/x"))
	assert.False(t, IsRemote("tooltip-message.txt"))
	assert.False(t, IsRemote("/srv/www/tooltip-message.txt"))
	assert.False(t, IsRemote(""))
}
