package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galsed/sedfit/internal/config"
	"github.com/galsed/sedfit/internal/fiterr"
	"github.com/galsed/sedfit/internal/hclconf"
)

// writeObservation writes a small but fully valid observation document
// with both channels and a redshift of 0.03.
func writeObservation(t *testing.T, dir, name string) string {
	t.Helper()
	doc := `{
		"name": "mock_galaxy",
		"redshift": 0.03,
		"spectroscopy": {
			"wavelength": [4000.0, 4750.0, 5500.0, 6250.0, 7000.0],
			"flux": [1.2, 1.3, 1.1, 0.9, 0.8],
			"uncertainty": [0.1, 0.1, 0.1, 0.1, 0.1]
		},
		"photometry": {
			"filters": ["sdss_g0", "sdss_r0", "sdss_i0"],
			"maggies": [2.0e-8, 3.1e-8, 3.5e-8],
			"maggies_unc": [1.0e-9, 1.0e-9, 2.0e-9]
		}
	}`
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))
	return path
}

// writeDispersion writes a flat resolving power curve covering the
// observation wavelengths.
func writeDispersion(t *testing.T, dir string) string {
	t.Helper()
	curve := "# wave_um R\n0.30 2000\n1.00 2000\n"
	path := filepath.Join(dir, "dispersion.dat")
	require.NoError(t, os.WriteFile(path, []byte(curve), 0600))
	return path
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "run.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestNewAppliesOverrides(t *testing.T) {
	t.Parallel()

	opts := &Options{
		Overrides: []func(*config.Config){
			func(c *config.Config) { c.Model.NBins = 4 },
			func(c *config.Config) { c.Run.Workers = 3 },
		},
	}
	testApp, _ := SetupAppTest(t, opts, nil)

	require.Equal(t, 4, testApp.Config().Model.NBins)
	require.Equal(t, 3, testApp.Config().Run.Workers)
}

func TestNewUnknownBackend(t *testing.T) {
	t.Parallel()

	opts := &Options{
		LogLevel: "debug",
		Overrides: []func(*config.Config){
			func(c *config.Config) { c.Run.Backend = "emcee" },
		},
	}
	_, err := New(&SafeBuffer{}, opts, nil)

	require.Error(t, err)
	require.True(t, fiterr.IsConfiguration(err))
	require.Contains(t, err.Error(), "unknown fitting backend")
	require.Contains(t, err.Error(), "dryrun")
}

func TestNewRejectsInvalidOverride(t *testing.T) {
	t.Parallel()

	opts := &Options{
		Overrides: []func(*config.Config){
			func(c *config.Config) { c.Model.NBins = 1 },
		},
	}
	_, err := New(&SafeBuffer{}, opts, nil)

	require.Error(t, err)
	require.True(t, fiterr.IsConfiguration(err))
	require.Contains(t, err.Error(), "nbins")
}

func TestNewLoadsConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, `
		model {
			nbins    = 12
			redshift = 0.62
		}
		run {
			workers = 2
		}
	`)

	testApp, _ := SetupAppTest(t, &Options{ConfigPath: cfgPath}, hclconf.NewLoader())

	cfg := testApp.Config()
	require.Equal(t, 12, cfg.Model.NBins)
	require.NotNil(t, cfg.Model.Redshift)
	require.InDelta(t, 0.62, *cfg.Model.Redshift, 1e-12)
	require.Equal(t, 2, cfg.Run.Workers)
	require.Equal(t, "dryrun", cfg.Run.Backend)
}

func TestNewMissingConfigFile(t *testing.T) {
	t.Parallel()

	opts := &Options{
		LogLevel:   "debug",
		ConfigPath: filepath.Join(t.TempDir(), "nope.hcl"),
	}
	_, err := New(&SafeBuffer{}, opts, hclconf.NewLoader())

	require.Error(t, err)
	require.True(t, fiterr.IsMissingResource(err))
	require.Contains(t, err.Error(), "failed to load configuration")
}

func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	obsPath := writeObservation(t, dir, "mock_galaxy.json")
	dispPath := writeDispersion(t, dir)
	cfgPath := writeConfig(t, dir, fmt.Sprintf(`
		input {
			file            = %q
			dispersion_file = %q
		}
		run {
			workers = 2
		}
	`, obsPath, dispPath))

	testApp, logBuffer := SetupAppTest(t, &Options{ConfigPath: cfgPath}, hclconf.NewLoader())
	err := testApp.Run(context.Background())

	require.NoError(t, err)
	logs := logBuffer.String()
	require.Contains(t, logs, "🚀 Starting fitting run")
	require.Contains(t, logs, "Parameter graph constructed.")
	require.Contains(t, logs, "basis=FastStepBasis")
	require.Contains(t, logs, "Resolution kernel attached.")
	require.Contains(t, logs, "Target fitted.")
	require.Contains(t, logs, "target=mock_galaxy")
	require.Contains(t, logs, "🏁 Fitting run finished.")
	require.NotContains(t, logs, "Target failed.")
}

func TestRunVerbosePrintsSummary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	obsPath := writeObservation(t, dir, "mock_galaxy.json")
	cfgPath := writeConfig(t, dir, fmt.Sprintf(`
		input {
			file = %q
		}
		model {
			add_sigmav = false
		}
		run {
			workers = 1
			verbose = true
		}
	`, obsPath))

	testApp, logBuffer := SetupAppTest(t, &Options{ConfigPath: cfgPath}, hclconf.NewLoader())
	err := testApp.Run(context.Background())

	require.NoError(t, err)
	out := logBuffer.String()
	require.Contains(t, out, "NAME")
	require.Contains(t, out, "logmass")
	require.Contains(t, out, "logsfr_ratios")
}

func TestRunWithoutDispersionFileSkipsKernel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	obsPath := writeObservation(t, dir, "mock_galaxy.json")
	cfgPath := writeConfig(t, dir, fmt.Sprintf(`
		input {
			file = %q
		}
		run {
			workers = 1
		}
	`, obsPath))

	testApp, logBuffer := SetupAppTest(t, &Options{ConfigPath: cfgPath}, hclconf.NewLoader())
	err := testApp.Run(context.Background())

	require.NoError(t, err)
	logs := logBuffer.String()
	require.Contains(t, logs, "Resolution matching requested but no dispersion file configured")
	require.NotContains(t, logs, "Resolution kernel attached.")
}

func TestRunNoTargets(t *testing.T) {
	t.Parallel()

	testApp, _ := SetupAppTest(t, &Options{}, nil)
	err := testApp.Run(context.Background())

	require.Error(t, err)
	require.True(t, fiterr.IsConfiguration(err))
	require.Contains(t, err.Error(), "no targets configured")
}

func TestRunFileListAndFailureSummary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	obsPath := writeObservation(t, dir, "mock_galaxy.json")
	missing := filepath.Join(dir, "missing_galaxy.json")
	listPath := filepath.Join(dir, "targets.txt")
	require.NoError(t, os.WriteFile(listPath, []byte(obsPath+"\n"+missing+"\n"), 0600))

	cfgPath := writeConfig(t, dir, fmt.Sprintf(`
		input {
			file_list = %q
		}
		model {
			add_sigmav = false
		}
		run {
			workers = 2
		}
	`, listPath))

	testApp, logBuffer := SetupAppTest(t, &Options{ConfigPath: cfgPath}, hclconf.NewLoader())
	err := testApp.Run(context.Background())

	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 2 targets failed")
	logs := logBuffer.String()
	require.Contains(t, logs, "Target failed.")
	require.Equal(t, 1, strings.Count(logs, "Target fitted."))
}

func TestRunAllChannelsDisabled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	obsPath := writeObservation(t, dir, "mock_galaxy.json")
	cfgPath := writeConfig(t, dir, fmt.Sprintf(`
		input {
			file = %q
		}
		data {
			use_photometry   = false
			use_spectroscopy = false
		}
	`, obsPath))

	testApp, logBuffer := SetupAppTest(t, &Options{ConfigPath: cfgPath}, hclconf.NewLoader())
	err := testApp.Run(context.Background())

	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 1 targets failed")
	require.Contains(t, logBuffer.String(), "no data channels enabled")
}

func TestRunCanceledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	obsPath := writeObservation(t, dir, "mock_galaxy.json")
	cfgPath := writeConfig(t, dir, fmt.Sprintf(`
		input {
			file = %q
		}
	`, obsPath))

	testApp, _ := SetupAppTest(t, &Options{ConfigPath: cfgPath}, hclconf.NewLoader())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := testApp.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	testApp, _ := SetupAppTest(t, &Options{}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	testApp.healthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK\n", rec.Body.String())
}
