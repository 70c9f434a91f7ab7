package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/ct-bulletproofs/pkg/generators"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 128, c.Size())
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		modify func(*Config)
		err    error
	}{
		"curve":   {func(c *Config) { c.Curve = "p256" }, curve.ErrUnknownCurve},
		"bits":    {func(c *Config) { c.Bits = 0 }, ErrBits},
		"values":  {func(c *Config) { c.Values = -1 }, ErrValues},
		"size":    {func(c *Config) { c.Bits = 24 }, ErrSize},
		"workers": {func(c *Config) { c.Workers = -2 }, ErrWorkers},
		"level":   {func(c *Config) { c.LogLevel = "loud" }, ErrLogLevel},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			tc.modify(&c)
			assert.ErrorIs(t, c.Validate(), tc.err)
		})
	}

	c := Default()
	c.Curve, c.Bits, c.Values, c.LogLevel = "secp256k1", 8, 1, ""
	assert.NoError(t, c.Validate())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	c := Default()
	c.JSONLog = true
	c.LogLevel = "warn"
	log := c.Logger(&buf)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)

	buf.Reset()
	c.JSONLog = false
	c.LogLevel = "debug"
	log = c.Logger(&buf)
	log.Debug().Msg("console")
	assert.Contains(t, buf.String(), "console")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestLoadParams(t *testing.T) {
	c := Default()
	c.Bits, c.Values = 4, 2
	pl := c.Pool()
	defer pl.TearDown()

	generated, err := c.LoadParams(pl, zerolog.Nop())
	require.NoError(t, err)
	expected := generators.Generate(curve.BN254{}, 8)
	assert.Equal(t, expected.Fingerprint(), generated.Fingerprint())

	dir := t.TempDir()
	data, err := expected.MarshalJSON()
	require.NoError(t, err)
	c.ParamsPath = filepath.Join(dir, "params.json")
	require.NoError(t, os.WriteFile(c.ParamsPath, data, 0o600))
	loaded, err := c.LoadParams(pl, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, expected.Fingerprint(), loaded.Fingerprint())

	data, err = expected.MarshalBinary()
	require.NoError(t, err)
	c.ParamsPath = filepath.Join(dir, "params.cbor")
	require.NoError(t, os.WriteFile(c.ParamsPath, data, 0o600))
	loaded, err = c.LoadParams(pl, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, expected.Fingerprint(), loaded.Fingerprint())

	// size mismatch
	c.Bits = 8
	_, err = c.LoadParams(pl, zerolog.Nop())
	assert.Error(t, err)

	c.ParamsPath = filepath.Join(dir, "missing.json")
	_, err = c.LoadParams(pl, zerolog.Nop())
	assert.Error(t, err)
}
