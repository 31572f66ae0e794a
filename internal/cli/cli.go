package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/galsed/sedfit/internal/app"
	"github.com/galsed/sedfit/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns populated app options,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Flags the user did not set explicitly leave the file configuration alone.
func Parse(args []string, output io.Writer) (*app.Options, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("sedfit", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
sedfit - Stellar population model configuration and fitting for galaxy SEDs.

Usage:
  sedfit [options] [CONFIG_PATH]

Arguments:
  CONFIG_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the configuration file or directory.")
	cFlag := flagSet.String("c", "", "Path to the configuration file or directory (shorthand).")
	fileFlag := flagSet.String("file", "", "Path to a single observation file to fit.")
	fileListFlag := flagSet.String("file-list", "", "Path to a text file listing observation files, one per line.")
	outDirFlag := flagSet.String("out-dir", "", "Directory for fit products.")
	dispersionFlag := flagSet.String("dispersion-file", "", "Path to the instrument dispersion curve.")
	redshiftFlag := flagSet.Float64("redshift", 0, "Externally known redshift, overriding observation metadata.")
	nbinsFlag := flagSet.Int("nbins", 8, "Number of star formation history time bins.")
	workersFlag := flagSet.Int("workers", 0, "Number of concurrent workers. 0 uses one per CPU.")
	backendFlag := flagSet.String("backend", "dryrun", "Fitting backend to run targets through.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	photometryFlag := flagSet.Bool("photometry", true, "Fit the photometry channel.")
	spectroscopyFlag := flagSet.Bool("spectroscopy", true, "Fit the spectroscopy channel.")
	nebularFlag := flagSet.Bool("nebular", true, "Include nebular emission in the model.")
	dusteFlag := flagSet.Bool("duste", true, "Include dust emission parameters.")
	dust1Flag := flagSet.Bool("dust1", true, "Include birth cloud dust attenuation.")
	sigmavFlag := flagSet.Bool("sigmav", true, "Match the model resolution to the instrument.")
	fixedZFlag := flagSet.Bool("fixed-z", false, "Fix the redshift instead of fitting it.")
	marginElinesFlag := flagSet.Bool("margin-elines", false, "Marginalize over emission line amplitudes.")
	outliersSpecFlag := flagSet.Bool("outliers-spec", false, "Model outliers in the spectroscopy channel.")
	outliersPhotFlag := flagSet.Bool("outliers-phot", false, "Model outliers in the photometry channel.")
	verboseFlag := flagSet.Bool("verbose", false, "Print the parameter graph summary for each target.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *configFlag != "" {
		path = *configFlag
	} else if *cFlag != "" {
		path = *cFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Configuration path determined.", "path", path)

	if path == "" && *fileFlag == "" && *fileListFlag == "" {
		slog.Debug("No configuration or observation given, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	// Only flags the user actually set become overrides, so file settings
	// survive unless contradicted explicitly.
	setFlags := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	var overrides []func(*config.Config)
	override := func(name string, apply func(*config.Config)) {
		if setFlags[name] {
			overrides = append(overrides, apply)
		}
	}

	override("file", func(c *config.Config) { c.Input.File = *fileFlag })
	override("file-list", func(c *config.Config) { c.Input.FileList = *fileListFlag })
	override("out-dir", func(c *config.Config) { c.Input.OutDir = *outDirFlag })
	override("dispersion-file", func(c *config.Config) { c.Input.DispersionFile = *dispersionFlag })
	override("redshift", func(c *config.Config) {
		z := *redshiftFlag
		c.Model.Redshift = &z
	})
	override("nbins", func(c *config.Config) { c.Model.NBins = *nbinsFlag })
	override("workers", func(c *config.Config) {
		// 0 keeps the one-per-CPU default.
		if *workersFlag > 0 {
			c.Run.Workers = *workersFlag
		}
	})
	override("backend", func(c *config.Config) { c.Run.Backend = *backendFlag })
	override("healthcheck-port", func(c *config.Config) { c.Run.HealthcheckPort = *healthPortFlag })
	override("photometry", func(c *config.Config) { c.Data.UsePhotometry = *photometryFlag })
	override("spectroscopy", func(c *config.Config) { c.Data.UseSpectroscopy = *spectroscopyFlag })
	override("nebular", func(c *config.Config) { c.Model.AddNebular = *nebularFlag })
	override("duste", func(c *config.Config) { c.Model.AddDuste = *dusteFlag })
	override("dust1", func(c *config.Config) { c.Model.AddDust1 = *dust1Flag })
	override("sigmav", func(c *config.Config) { c.Model.AddSigmaV = *sigmavFlag })
	override("fixed-z", func(c *config.Config) { c.Model.FixedZ = *fixedZFlag })
	override("margin-elines", func(c *config.Config) { c.Model.MarginElines = *marginElinesFlag })
	override("outliers-spec", func(c *config.Config) { c.Data.FitOutliersSpec = *outliersSpecFlag })
	override("outliers-phot", func(c *config.Config) { c.Data.FitOutliersPhoto = *outliersPhotFlag })
	override("verbose", func(c *config.Config) { c.Run.Verbose = *verboseFlag })

	opts := &app.Options{
		ConfigPath: path,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
		Overrides:  overrides,
	}

	slog.Debug("CLI parser finished successfully.", "config_path", path, "overrides", len(overrides))
	return opts, false, nil
}
