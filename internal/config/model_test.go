package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galsed/sedfit/internal/fiterr"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.True(t, c.Data.UsePhotometry)
	assert.True(t, c.Data.UseSpectroscopy)
	assert.True(t, c.Data.FilterPhoto)
	assert.True(t, c.Data.FilterSpec)
	assert.True(t, c.Data.UseMask)
	assert.False(t, c.Data.FitOutliersSpec)
	assert.False(t, c.Data.FitOutliersPhoto)

	assert.Equal(t, 8, c.Model.NBins)
	assert.Nil(t, c.Model.Redshift)
	assert.True(t, c.Model.AddNebular)
	assert.True(t, c.Model.AddSigmaV)
	assert.False(t, c.Model.MarginElines)
	assert.Equal(t, 1, c.Model.ZContinuous)

	assert.Equal(t, "dryrun", c.Run.Backend)
	assert.GreaterOrEqual(t, c.Run.Workers, 1)
	assert.Equal(t, 0, c.Run.HealthcheckPort)

	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"nbins too small", func(c *Config) { c.Model.NBins = 1 }},
		{"no workers", func(c *Config) { c.Run.Workers = 0 }},
		{"port out of range", func(c *Config) { c.Run.HealthcheckPort = 70000 }},
		{"negative port", func(c *Config) { c.Run.HealthcheckPort = -1 }},
		{"empty backend", func(c *Config) { c.Run.Backend = "" }},
		{"negative zcontinuous", func(c *Config) { c.Model.ZContinuous = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.True(t, fiterr.IsConfiguration(err))
		})
	}
}

func TestTargets(t *testing.T) {
	t.Run("file list wins", func(t *testing.T) {
		list := filepath.Join(t.TempDir(), "targets.txt")
		require.NoError(t, os.WriteFile(list, []byte("# batch\n\na.json\nb.json\n"), 0o644))

		c := Default()
		c.Input.FileList = list
		c.Input.File = "ignored.json"

		got, err := c.Targets()
		require.NoError(t, err)
		assert.Equal(t, []string{"a.json", "b.json"}, got)
	})

	t.Run("single file", func(t *testing.T) {
		c := Default()
		c.Input.File = "one.json"

		got, err := c.Targets()
		require.NoError(t, err)
		assert.Equal(t, []string{"one.json"}, got)
	})

	t.Run("nothing configured", func(t *testing.T) {
		got, err := Default().Targets()
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("missing list file", func(t *testing.T) {
		c := Default()
		c.Input.FileList = filepath.Join(t.TempDir(), "gone.txt")

		_, err := c.Targets()
		require.Error(t, err)
		assert.True(t, fiterr.IsMissingResource(err))
	})
}

func TestForTarget(t *testing.T) {
	z := 0.7
	c := Default()
	c.Model.Redshift = &z
	c.Model.Lines = map[string]float64{"Ha_6563": 6562.80}
	c.Run.Options = map[string]string{"seed": "42"}

	got := c.ForTarget("/data/obs/cosmos-99.json")
	assert.Equal(t, "cosmos-99", got.Name)
	assert.Equal(t, "/data/obs/cosmos-99.json", got.Input.File)

	// Deep copy: mutating the target copy leaves the parent alone.
	got.Model.Lines["OIII_5007"] = 5006.84
	*got.Model.Redshift = 1.5
	got.Run.Options["seed"] = "7"

	assert.Len(t, c.Model.Lines, 1)
	assert.Equal(t, 0.7, *c.Model.Redshift)
	assert.Equal(t, "42", c.Run.Options["seed"])
}

func TestModelSettings(t *testing.T) {
	z := 0.33
	c := Default()
	c.Model.NBins = 6
	c.Model.Redshift = &z
	c.Model.MarginElines = true
	c.Data.UseSpectroscopy = false
	c.Data.FitOutliersPhoto = true

	s := c.ModelSettings()
	assert.Equal(t, 6, s.NBins)
	assert.Equal(t, &z, s.Redshift)
	assert.True(t, s.MarginElines)
	assert.False(t, s.UseSpectroscopy)
	assert.True(t, s.UsePhotometry)
	assert.True(t, s.FitOutliersPhoto)
	assert.False(t, s.FitOutliersSpec)
}
