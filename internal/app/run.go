package app

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/galsed/sedfit/internal/ctxlog"
	"github.com/galsed/sedfit/internal/fiterr"
	"github.com/galsed/sedfit/internal/fitting"
	"github.com/galsed/sedfit/internal/observability"
	"github.com/galsed/sedfit/internal/observation"
	"github.com/galsed/sedfit/internal/params"
	"github.com/galsed/sedfit/internal/summary"
	"github.com/galsed/sedfit/internal/synthesis"
)

// Run executes the fitting pipeline for every configured target.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	targets, err := a.cfg.Targets()
	if err != nil {
		return fmt.Errorf("failed to resolve targets: %w", err)
	}
	if len(targets) == 0 {
		return fiterr.Configuration("no targets configured: set input.file or input.file_list")
	}

	if a.cfg.Run.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.cfg.Run.HealthcheckPort)
		defer a.closeHealthcheckServer()
	}

	workers := a.cfg.Run.Workers
	if workers > len(targets) {
		workers = len(targets)
	}

	a.logger.Info("🚀 Starting fitting run",
		"targets", len(targets), "workers", workers, "backend", a.backend.Name())

	jobs := make(chan string)
	var wg sync.WaitGroup
	var failed atomic.Int64

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			a.logger.Debug("Worker started.", "workerID", workerID)
			for path := range jobs {
				if err := a.runTargetSafe(ctx, path); err != nil {
					failed.Add(1)
				}
			}
			a.logger.Debug("Worker finished.", "workerID", workerID)
		}(i)
	}

dispatch:
	for _, path := range targets {
		select {
		case jobs <- path:
		case <-ctx.Done():
			a.logger.Warn("Run canceled, stopping dispatch.", "error", ctx.Err())
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		a.logger.Error("🏁 Fitting run finished with failures.", "failed", n, "total", len(targets))
		return fmt.Errorf("%d of %d targets failed", n, len(targets))
	}
	a.logger.Info("🏁 Fitting run finished.", "targets", len(targets))
	return nil
}

// runTargetSafe isolates one target so a panic in a worker cannot take
// down the rest of the run.
func (a *App) runTargetSafe(ctx context.Context, path string) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("target %s panicked: %v", path, r)
		}
		status := "ok"
		if err != nil {
			status = "error"
			a.logger.Error("Target failed.", "target", path, "error", err)
		}
		observability.RecordTarget(status, time.Since(start))
	}()
	return a.runTarget(ctx, path)
}

// runTarget runs the full pipeline for a single observation file: load,
// clean, build the parameter graph, select the synthesis basis, attach
// the resolution kernel when applicable, and hand off to the backend.
func (a *App) runTarget(ctx context.Context, path string) error {
	cfg := a.cfg.ForTarget(path)
	logger := a.logger.With("target", cfg.Name)
	ctx = ctxlog.WithLogger(ctx, logger)

	obs, err := observation.Load(ctx, cfg.Input.File)
	if err != nil {
		return err
	}

	if !cfg.Data.UseSpectroscopy {
		obs.Spectrum = nil
	}
	if !cfg.Data.UsePhotometry {
		obs.Photometry = nil
	}
	if obs.Spectrum == nil && obs.Photometry == nil {
		return fiterr.Configuration("no data channels enabled for target %q", cfg.Name)
	}

	cleaned := obs.Clean(cfg.Data.UseMask)
	if !cfg.Data.FilterSpec {
		cleaned.Spectrum = obs.Spectrum
	}
	if !cfg.Data.FilterPhoto {
		cleaned.Photometry = obs.Photometry
	}
	if cleaned.Spectrum != nil && cleaned.Pixels() == 0 {
		logger.Warn("Spectrum empty after cleaning, dropping channel.")
		cleaned.Spectrum = nil
	}
	if cleaned.Photometry != nil && cleaned.Bands() == 0 {
		logger.Warn("Photometry empty after cleaning, dropping channel.")
		cleaned.Photometry = nil
	}
	if cleaned.Spectrum == nil && cleaned.Photometry == nil {
		return fiterr.Configuration("all data rejected during cleaning for target %q", cfg.Name)
	}
	logger.Debug("Observation prepared.",
		"spec_pixels", cleaned.Pixels(), "phot_bands", cleaned.Bands(),
		"spec_dropped", obs.Pixels()-cleaned.Pixels(), "phot_dropped", obs.Bands()-cleaned.Bands())
	obs = cleaned

	redshift := obs.RedshiftOr(cfg.Model.Redshift)
	settings := cfg.ModelSettings()
	settings.Redshift = redshift

	graph, err := params.Construct(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to build parameter graph: %w", err)
	}
	observability.RecordGraphBuild(graph.Len())
	logger.Info("Parameter graph constructed.", "nodes", graph.Len())

	if cfg.Run.Verbose {
		var buf bytes.Buffer
		if err := summary.Render(&buf, graph); err != nil {
			logger.Warn("Failed to render parameter summary.", "error", err)
		} else {
			fmt.Fprint(a.outW, buf.String())
		}
	}

	basis, err := synthesis.Select(ctx, graph, cfg.Model.ZContinuous)
	if err != nil {
		return err
	}
	logger.Info("Synthesis basis selected.", "basis", basis.Kind.String())

	if cfg.Model.AddSigmaV && basis.Kind == synthesis.BasisFastStep &&
		cfg.Data.UseSpectroscopy && obs.Spectrum != nil {
		if cfg.Input.DispersionFile == "" {
			logger.Info("Resolution matching requested but no dispersion file configured, skipping.")
		} else {
			if err := obs.Validate(); err != nil {
				return fmt.Errorf("spectrum rejected before resolution matching: %w", err)
			}
			kernel, err := synthesis.BuildKernel(ctx, cfg.Input.DispersionFile, obs.Spectrum.Wavelength, redshift)
			if err != nil {
				return fmt.Errorf("failed to build resolution kernel: %w", err)
			}
			basis.SetLSF(kernel)
			observability.RecordKernel(kernel.Len())
			logger.Info("Resolution kernel attached.", "pixels", kernel.Len())
		}
	}

	result, err := a.backend.Run(ctx, fitting.Input{
		Graph:   graph,
		Basis:   basis,
		Obs:     obs,
		Options: cfg.Run.Options,
	})
	if err != nil {
		return fmt.Errorf("backend %s: %w", a.backend.Name(), err)
	}
	logger.Info("Target fitted.",
		"free_dimensions", result.FreeParams, "evaluations", result.Evaluations,
		"elapsed", result.Elapsed, "note", result.Note)
	return nil
}
