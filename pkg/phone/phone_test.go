package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer("us")
	assert.Equal(t, "US", n.Region())

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty stays empty", "", ""},
		{"national US", "(202) 456-1111", "+12024561111"},
		{"already E164", "+12024561111", "+12024561111"},
		{"international UK", "+44 20 7031 3000", "+442070313000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	n := NewNormalizer("")
	assert.Equal(t, DefaultRegion, n.Region())

	_, err := n.Normalize("not a number")
	assert.Error(t, err)

	_, err = n.Normalize("123")
	assert.Error(t, err)
}
