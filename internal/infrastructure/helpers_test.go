package infrastructure

import (
	"testing"

	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExtensionFromMIME(t *testing.T) {
	cases := []struct {
		mime string
		ext  string
	}{
		{"image/jpeg", "jpg"},
		{"image/jpg", "jpg"},
		{"image/png", "png"},
		{"image/webp", "webp"},
	}
	for _, tc := range cases {
		t.Run(tc.mime, func(t *testing.T) {
			ext, err := GetExtensionFromMIME(tc.mime)
			require.NoError(t, err)
			assert.Equal(t, tc.ext, ext)
		})
	}

	t.Run("unsupported type", func(t *testing.T) {
		_, err := GetExtensionFromMIME("application/pdf")
		assert.ErrorIs(t, err, e.ErrUnsupportedMediaType)
	})
}
