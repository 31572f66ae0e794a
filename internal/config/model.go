package config

import (
	"runtime"

	"github.com/galsed/sedfit/internal/fiterr"
	"github.com/galsed/sedfit/internal/fsutil"
	"github.com/galsed/sedfit/internal/params"
)

// Input names the files a run reads and the directories it writes.
type Input struct {
	// File is a single observation document; FileList points at a text
	// file naming one observation per line. FileList wins when both are
	// set.
	File     string
	FileList string

	OutDir string
	// DispersionFile tabulates the instrument resolving power, used for
	// resolution matching when the model requests it.
	DispersionFile string
	LogDir         string
}

// Data selects and filters the observation channels.
type Data struct {
	UsePhotometry   bool
	UseSpectroscopy bool

	// FilterPhoto and FilterSpec enable per-channel cleaning of
	// unusable entries; UseMask additionally honors the mask arrays.
	FilterPhoto bool
	FilterSpec  bool
	UseMask     bool

	FitOutliersPhoto bool
	FitOutliersSpec  bool
}

// Model configures the parameter graph and synthesis engine.
type Model struct {
	// NBins is the number of star formation history time bins, at
	// least 2.
	NBins int

	// Redshift is the externally known redshift; nil means "take it
	// from the observation, else zero".
	Redshift *float64
	FixedZ   bool

	AddNebular bool
	AddDuste   bool
	AddDust1   bool
	// AddSigmaV requests instrument resolution matching for
	// spectroscopic fits.
	AddSigmaV bool

	MarginElines     bool
	FitElineRedshift bool

	ZContinuous int

	// Lines maps emission line labels to rest wavelengths in Angstroms
	// for marginalization.
	Lines map[string]float64
}

// Run controls execution: which backend fits, with how many workers.
type Run struct {
	Backend string
	Workers int
	Verbose bool

	// HealthcheckPort exposes /healthz, /readyz and /metrics when
	// positive; zero disables the server.
	HealthcheckPort int

	// Options passes through to the backend uninterpreted.
	Options map[string]string
}

// Config is the unified run configuration. The core packages treat it
// as read-only; per-target copies come from ForTarget.
type Config struct {
	// Name identifies the target in logs and metrics; ForTarget fills
	// it from the observation filename.
	Name string

	Input Input
	Data  Data
	Model Model
	Run   Run
}

// Default returns the configuration used when a file or flag says
// nothing else.
func Default() *Config {
	return &Config{
		Data: Data{
			UsePhotometry:   true,
			UseSpectroscopy: true,
			FilterPhoto:     true,
			FilterSpec:      true,
			UseMask:         true,
		},
		Model: Model{
			NBins:       8,
			AddNebular:  true,
			AddDuste:    true,
			AddDust1:    true,
			AddSigmaV:   true,
			ZContinuous: 1,
		},
		Run: Run{
			Backend: "dryrun",
			Workers: runtime.NumCPU(),
		},
	}
}

// Validate checks the cross-field constraints a loader cannot.
func (c *Config) Validate() error {
	if c.Model.NBins < 2 {
		return fiterr.Configuration("nbins must be >= 2, got %d", c.Model.NBins)
	}
	if c.Run.Workers < 1 {
		return fiterr.Configuration("workers must be >= 1, got %d", c.Run.Workers)
	}
	if p := c.Run.HealthcheckPort; p < 0 || p > 65535 {
		return fiterr.Configuration("healthcheck port %d out of range [0, 65535]", p)
	}
	if c.Run.Backend == "" {
		return fiterr.Configuration("run backend must not be empty")
	}
	if c.Model.ZContinuous < 0 {
		return fiterr.Configuration("zcontinuous must be >= 0, got %d", c.Model.ZContinuous)
	}
	return nil
}

// Targets resolves the observation paths for this run: the file list
// when set, else the single file, else nothing. An empty result is the
// caller's error to report.
func (c *Config) Targets() ([]string, error) {
	if c.Input.FileList != "" {
		paths, err := fsutil.ReadList(c.Input.FileList)
		if err != nil {
			return nil, fiterr.MissingResource(c.Input.FileList, err)
		}
		return paths, nil
	}
	if c.Input.File != "" {
		return []string{c.Input.File}, nil
	}
	return nil, nil
}

// ForTarget returns a deep copy bound to one observation file, named
// after its basename.
func (c *Config) ForTarget(path string) *Config {
	out := c.Clone()
	out.Name = fsutil.StemName(path)
	out.Input.File = path
	return out
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Model.Redshift != nil {
		z := *c.Model.Redshift
		out.Model.Redshift = &z
	}
	if c.Model.Lines != nil {
		out.Model.Lines = make(map[string]float64, len(c.Model.Lines))
		for k, v := range c.Model.Lines {
			out.Model.Lines[k] = v
		}
	}
	if c.Run.Options != nil {
		out.Run.Options = make(map[string]string, len(c.Run.Options))
		for k, v := range c.Run.Options {
			out.Run.Options[k] = v
		}
	}
	return &out
}

// ModelSettings projects the configuration onto the parameter graph
// builder's settings.
func (c *Config) ModelSettings() params.Settings {
	return params.Settings{
		NBins:            c.Model.NBins,
		Redshift:         c.Model.Redshift,
		FixedZ:           c.Model.FixedZ,
		AddNebular:       c.Model.AddNebular,
		AddDuste:         c.Model.AddDuste,
		AddDust1:         c.Model.AddDust1,
		UseSpectroscopy:  c.Data.UseSpectroscopy,
		UsePhotometry:    c.Data.UsePhotometry,
		FitOutliersSpec:  c.Data.FitOutliersSpec,
		FitOutliersPhoto: c.Data.FitOutliersPhoto,
		MarginElines:     c.Model.MarginElines,
		FitElineRedshift: c.Model.FitElineRedshift,
		Lines:            c.Model.Lines,
	}
}
