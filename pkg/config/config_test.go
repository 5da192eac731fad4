package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load([]string{"-l", "60.2:24.9"})
	require.NoError(t, err)

	assert.Equal(t, DefaultDayTemp, cfg.DayTemp)
	assert.Equal(t, DefaultNightTemp, cfg.NightTemp)
	assert.Equal(t, [3]float64{1.0, 1.0, 1.0}, cfg.Gamma)
	assert.True(t, cfg.Transitions)
	assert.False(t, cfg.OneShot)
	assert.Equal(t, -1, cfg.Screen)
	assert.Equal(t, -1, cfg.CRTC)
	assert.InDelta(t, 60.2, cfg.Latitude, 1e-9)
	assert.InDelta(t, 24.9, cfg.Longitude, 1e-9)
	require.NoError(t, cfg.Validate())
}

func TestLoadFlags(t *testing.T) {
	cfg, err := Load([]string{
		"-l", "-33.9:151.2",
		"-t", "6500:3000",
		"-g", "0.9:1.0:1.1",
		"-m", "dummy",
		"-r",
		"-o",
		"-v",
	})
	require.NoError(t, err)

	assert.InDelta(t, -33.9, cfg.Latitude, 1e-9)
	assert.InDelta(t, 151.2, cfg.Longitude, 1e-9)
	assert.Equal(t, 6500, cfg.DayTemp)
	assert.Equal(t, 3000, cfg.NightTemp)
	assert.Equal(t, [3]float64{0.9, 1.0, 1.1}, cfg.Gamma)
	assert.Equal(t, "dummy", cfg.Method)
	assert.False(t, cfg.Transitions)
	assert.True(t, cfg.OneShot)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duskshift.yaml")
	data := []byte("latitude: 51.5\nlongitude: -0.1\nday_temp: 6000\ntransitions: false\nmethod: dummy\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load([]string{"--config", path})
	require.NoError(t, err)

	assert.InDelta(t, 51.5, cfg.Latitude, 1e-9)
	assert.InDelta(t, -0.1, cfg.Longitude, 1e-9)
	assert.Equal(t, 6000, cfg.DayTemp)
	assert.Equal(t, DefaultNightTemp, cfg.NightTemp)
	assert.False(t, cfg.Transitions)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duskshift.yaml")
	data := []byte("latitude: 51.5\nlongitude: -0.1\nday_temp: 6000\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load([]string{"--config", path, "-t", "5000:3500"})
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.DayTemp)
	assert.Equal(t, 3500, cfg.NightTemp)
	assert.InDelta(t, 51.5, cfg.Latitude, 1e-9)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DUSKSHIFT_LATITUDE", "35.7")
	t.Setenv("DUSKSHIFT_LONGITUDE", "139.7")
	t.Setenv("DUSKSHIFT_NIGHT_TEMP", "3200")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.InDelta(t, 35.7, cfg.Latitude, 1e-9)
	assert.InDelta(t, 139.7, cfg.Longitude, 1e-9)
	assert.Equal(t, 3200, cfg.NightTemp)
}

func TestParseGammaSingleValue(t *testing.T) {
	g, err := ParseGamma("0.8")
	require.NoError(t, err)
	assert.Equal(t, [3]float64{0.8, 0.8, 0.8}, g)
}

func TestParseGammaMalformed(t *testing.T) {
	_, err := ParseGamma("1.0:0.9")
	assert.Error(t, err)

	_, err = ParseGamma("a:b:c")
	assert.Error(t, err)
}

func TestParseLocationMalformed(t *testing.T) {
	_, _, err := ParseLocation("60.2")
	assert.Error(t, err)
}

func TestValidateRejectsMissingLocation(t *testing.T) {
	cfg := NewConfig()
	assert.True(t, math.IsNaN(cfg.Latitude))
	assert.Error(t, cfg.Validate())
}

func TestValidateBounds(t *testing.T) {
	base := func() *Config {
		cfg := NewConfig()
		cfg.Latitude, cfg.Longitude = 60.2, 24.9
		return cfg
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.Latitude = 91
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Longitude = -181
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.DayTemp = 10000 // upper bound is exclusive
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.NightTemp = 999
	assert.Error(t, cfg.Validate())

	// Gamma below minimum is a config error before the engine starts.
	cfg = base()
	cfg.Gamma[1] = 0.05
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Gamma[2] = 10.5
	assert.Error(t, cfg.Validate())
}

func TestValidateCRTCRequiresExecMethod(t *testing.T) {
	cfg := NewConfig()
	cfg.Latitude, cfg.Longitude = 60.2, 24.9
	cfg.CRTC = 0
	assert.Error(t, cfg.Validate())

	cfg.Method = "exec"
	assert.NoError(t, cfg.Validate())
}
