// Package hclconf is the HCL implementation of config.Loader. It accepts
// a single file or a directory of *.hcl files applied in sorted order.
package hclconf

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/galsed/sedfit/internal/config"
	"github.com/galsed/sedfit/internal/ctxlog"
	"github.com/galsed/sedfit/internal/fiterr"
	"github.com/galsed/sedfit/internal/fsutil"
)

// Loader reads run configuration from HCL files.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the file (or every *.hcl file under the directory) at path
// and applies it over the defaults. Unknown blocks or attributes are
// errors.
func (l *Loader) Load(ctx context.Context, path string) (*config.Config, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := l.findFiles(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered configuration files", "path", path, "count", len(files))

	cfg := config.Default()
	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		applyRoot(cfg, &root)
	}

	logger.Debug("Configuration loading complete", "files", len(files))
	return cfg, nil
}

func (l *Loader) findFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fiterr.MissingResource(path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fiterr.Configuration("no .hcl files in directory %s", path)
	}
	return files, nil
}

func applyRoot(cfg *config.Config, root *fileRoot) {
	if b := root.Input; b != nil {
		setString(&cfg.Input.File, b.File)
		setString(&cfg.Input.FileList, b.FileList)
		setString(&cfg.Input.OutDir, b.OutDir)
		setString(&cfg.Input.DispersionFile, b.DispersionFile)
		setString(&cfg.Input.LogDir, b.LogDir)
	}
	if b := root.Data; b != nil {
		setBool(&cfg.Data.UsePhotometry, b.UsePhotometry)
		setBool(&cfg.Data.UseSpectroscopy, b.UseSpectroscopy)
		setBool(&cfg.Data.FilterPhoto, b.FilterPhoto)
		setBool(&cfg.Data.FilterSpec, b.FilterSpec)
		setBool(&cfg.Data.UseMask, b.UseMask)
		setBool(&cfg.Data.FitOutliersPhoto, b.FitOutliersPhoto)
		setBool(&cfg.Data.FitOutliersSpec, b.FitOutliersSpec)
	}
	if b := root.Model; b != nil {
		setInt(&cfg.Model.NBins, b.NBins)
		if b.Redshift != nil {
			z := *b.Redshift
			cfg.Model.Redshift = &z
		}
		setBool(&cfg.Model.FixedZ, b.FixedZ)
		setBool(&cfg.Model.AddNebular, b.AddNebular)
		setBool(&cfg.Model.AddDuste, b.AddDuste)
		setBool(&cfg.Model.AddDust1, b.AddDust1)
		setBool(&cfg.Model.AddSigmaV, b.AddSigmaV)
		setBool(&cfg.Model.MarginElines, b.MarginElines)
		setBool(&cfg.Model.FitElineRedshift, b.FitElineRedshift)
		setInt(&cfg.Model.ZContinuous, b.ZContinuous)
		// A lines table replaces any earlier one wholesale.
		if b.Lines != nil {
			cfg.Model.Lines = b.Lines
		}
	}
	if b := root.Run; b != nil {
		setString(&cfg.Run.Backend, b.Backend)
		setInt(&cfg.Run.Workers, b.Workers)
		setBool(&cfg.Run.Verbose, b.Verbose)
		setInt(&cfg.Run.HealthcheckPort, b.HealthcheckPort)
		if b.Options != nil {
			cfg.Run.Options = b.Options
		}
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
