package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Len(t, cfg.Matchers, 1)
	assert.Equal(t, "source_image_name", cfg.Matchers[0].Field)
	assert.True(t, cfg.Matchers[0].Enabled)
	assert.Len(t, cfg.Metrics, 2)
}

func TestLoad_ParsesComparison(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codecsum.yaml")
	data := `
matchers:
  - field: source_image_name
    tolerance: 0
    enabled: true
  - field: psnr
    tolerance: 0.001
    enabled: true
metrics:
  - field: encoded_size
    enabled: true
filters:
  - batch: libavif
    field: quality
    min: 75
    max: 95
    enabled: true
display:
  relative_ratios: true
  geometric_mean: true
  reference_batch: libjxl
  likely_lossless: false
  hide_batches: [scratch]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Matchers, 2)
	assert.Equal(t, 0.001, cfg.Matchers[1].Tolerance)
	require.Len(t, cfg.Filters, 1)
	require.NotNil(t, cfg.Filters[0].Min)
	assert.Equal(t, 75.0, *cfg.Filters[0].Min)
	assert.True(t, cfg.Display.RelativeRatios)
	assert.True(t, cfg.Display.GeometricMean)
	assert.Equal(t, "libjxl", cfg.Display.ReferenceBatch)
	require.NotNil(t, cfg.Display.LikelyLossless)
	assert.False(t, *cfg.Display.LikelyLossless)
	assert.Equal(t, []string{"scratch"}, cfg.Display.HideBatches)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matchers: {not: [a, list"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := DefaultConfig()
	cfg.Display.RDMode = true

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

// Unset filter and hide lists must stay unset across a save/load cycle
// instead of coming back as empty lists.
func TestSaveRoundTrip_NilSlices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nil.yaml")
	cfg := DefaultConfig()
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, loaded.Filters)
	assert.Nil(t, loaded.Display.HideBatches)
}

func TestSaveRoundTrip_PopulatedSlices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "populated.yaml")
	minQ := 75.0
	cfg := DefaultConfig()
	cfg.Filters = []FilterConfig{{Field: "quality", Min: &minQ, Enabled: true}}
	cfg.Display.HideBatches = []string{"scratch"}

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
