package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Endpoint:  "https://s3.example.test/",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "biocms-images",
	}
}

func TestNewUnconfigured(t *testing.T) {
	c, err := New(Config{Endpoint: "https://s3.example.test"})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewRejectsEndpointWithoutScheme(t *testing.T) {
	cfg := testConfig()
	cfg.Endpoint = "s3.example.test"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestFileURL(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.test/biocms-images/uploads/a.jpg", c.FileURL("uploads/a.jpg"))

	cfg := testConfig()
	cfg.PublicURL = "https://cdn.example.test/"
	c, err = New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.test/uploads/a.jpg", c.FileURL("uploads/a.jpg"))
}

func TestKeyFromURL(t *testing.T) {
	cfg := testConfig()
	cfg.PublicURL = "https://cdn.example.test"
	c, err := New(cfg)
	require.NoError(t, err)

	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{name: "public url", url: "https://cdn.example.test/uploads/a.jpg", want: "uploads/a.jpg", wantOK: true},
		{name: "path style", url: "https://s3.example.test/biocms-images/uploads/b.png", want: "uploads/b.png", wantOK: true},
		{name: "other bucket", url: "https://s3.example.test/other/uploads/b.png"},
		{name: "foreign host", url: "https://elsewhere.test/uploads/a.jpg"},
		{name: "bare prefix", url: "https://cdn.example.test/"},
		{name: "traversal", url: "https://cdn.example.test/../secrets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.KeyFromURL(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("round trip", func(t *testing.T) {
		key, ok := c.KeyFromURL(c.FileURL("uploads/2026/10/x_thumb.jpg"))
		assert.True(t, ok)
		assert.Equal(t, "uploads/2026/10/x_thumb.jpg", key)
	})
}
