package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()

	assert.Equal(t, DefaultBootstrapReplicates, c.BootstrapReplicates)
	assert.Equal(t, uint64(DefaultRandomSeed), c.RandomSeed)
	assert.Equal(t, DefaultHistogramBins, c.HistogramBins)
	assert.Equal(t, "png", c.ImageFormat)
	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults pass", mutate: func(*Config) {}, wantErr: false},
		{name: "zero replicates", mutate: func(c *Config) { c.BootstrapReplicates = 0 }, wantErr: true},
		{name: "negative bins", mutate: func(c *Config) { c.HistogramBins = -1 }, wantErr: true},
		{name: "bad format", mutate: func(c *Config) { c.ImageFormat = "bmp" }, wantErr: true},
		{name: "zero width", mutate: func(c *Config) { c.PlotWidthInches = 0 }, wantErr: true},
		{name: "pdf format", mutate: func(c *Config) { c.ImageFormat = "pdf" }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orion.yaml")
	body := "bootstrap_replicates: 500\nhistogram_bins: 20\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	c, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 500, c.BootstrapReplicates)
	assert.Equal(t, 20, c.HistogramBins)
	// Unset fields fall back to defaults.
	assert.Equal(t, uint64(DefaultRandomSeed), c.RandomSeed)
	assert.Equal(t, "png", c.ImageFormat)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ORION_BOOTSTRAP_REPLICATES", "250")
	t.Setenv("ORION_IMAGE_FORMAT", "svg")

	c := LoadFromEnv()

	assert.Equal(t, 250, c.BootstrapReplicates)
	assert.Equal(t, "svg", c.ImageFormat)
	assert.Equal(t, DefaultHistogramBins, c.HistogramBins)
}
