package params

import (
	"context"
	"fmt"
	"sort"

	"github.com/galsed/sedfit/internal/ctxlog"
	"github.com/galsed/sedfit/internal/fiterr"
)

// Settings is the model-relevant slice of the run configuration. Equal
// settings always construct identical graphs.
type Settings struct {
	NBins    int
	Redshift *float64
	FixedZ   bool

	AddNebular bool
	AddDuste   bool
	AddDust1   bool

	UseSpectroscopy bool
	UsePhotometry   bool

	FitOutliersSpec  bool
	FitOutliersPhoto bool

	MarginElines     bool
	FitElineRedshift bool
	// Lines maps an emission-line label to its rest wavelength in
	// Angstrom. Only consulted when MarginElines is set.
	Lines map[string]float64
}

// redshiftOrZero resolves the optional redshift estimate, defaulting to 0.
func (s Settings) redshiftOrZero() float64 {
	if s.Redshift == nil {
		return 0.0
	}
	return *s.Redshift
}

// Patch is one step of graph construction: a named, optionally gated
// mutation of the graph. Patches run in slice order; a later patch
// overwriting an earlier node's name is the documented precedence
// mechanism, not a conflict.
type Patch struct {
	Name  string
	When  func(Settings) bool
	Apply func(ctx context.Context, s Settings, g *Graph) error
}

// DefaultPatches returns the standard construction sequence.
func DefaultPatches() []Patch {
	return []Patch{
		{Name: "sfh_continuity", Apply: applySFHContinuity},
		{Name: "redshift", Apply: applyRedshift},
		{Name: "physical", Apply: applyPhysical},
		{Name: "dust", Apply: applyDust},
		{Name: "nebular", When: func(s Settings) bool { return s.AddNebular }, Apply: applyNebular},
		{Name: "speccal", When: func(s Settings) bool { return s.UseSpectroscopy }, Apply: applySpecCal},
		{Name: "outliers", Apply: applyOutliers},
		{Name: "line_marginalization", When: func(s Settings) bool { return s.MarginElines }, Apply: applyLineMarginalization},
	}
}

// Construct builds and validates the parameter graph for the given
// settings. The result is deterministic: node set, order, statuses,
// priors, and dependency references depend only on s.
func Construct(ctx context.Context, s Settings) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)

	g := NewGraph()
	for _, patch := range DefaultPatches() {
		if patch.When != nil && !patch.When(s) {
			logger.Debug("Skipping patch, gate not satisfied.", "patch", patch.Name)
			continue
		}
		if err := patch.Apply(ctx, s, g); err != nil {
			return nil, fmt.Errorf("applying patch %q: %w", patch.Name, err)
		}
		logger.Debug("Applied patch.", "patch", patch.Name, "nodes", g.Len())
	}

	if err := Validate(g); err != nil {
		return nil, err
	}
	logger.Debug("Parameter graph constructed.", "nodes", g.Len())
	return g, nil
}

// applySFHContinuity merges the continuity template, re-spaces its bins
// for the configured count, and overwrites the mass nodes with the
// survey-tuned versions.
func applySFHContinuity(ctx context.Context, s Settings, g *Graph) error {
	g.SetAll(ContinuitySFHTemplate())
	AdjustAgeBins(g, s.NBins)

	g.Set(Node{
		Name:   "logmass",
		Arity:  1,
		Status: Free,
		Init:   Num(10.5),
		Prior:  TopHat(6.0, 13.0),
		Units:  "Solar masses formed",
	})
	g.Set(Node{
		Name:   "mass",
		Arity:  s.NBins,
		Status: Derived,
		Init:   Num(1e6),
		Dependency: &Dependency{
			Transform: "logsfr_ratios_to_masses",
			Sources:   []string{"logmass", "logsfr_ratios", "agebins"},
		},
		Units: "Solar masses formed",
	})
	return nil
}

// applyRedshift writes the redshift node in one of two variants. Free
// fitting gets a narrow clipped normal around the estimate; otherwise the
// node is pinned to it.
func applyRedshift(ctx context.Context, s Settings, g *Graph) error {
	z := s.redshiftOrZero()
	if !s.FixedZ {
		g.Set(Node{
			Name:   "zred",
			Arity:  1,
			Status: Free,
			Init:   Num(z),
			Prior:  ClippedNormal(z, 0.05, z-0.5, z+0.5),
			Units:  "redshift",
		})
		return nil
	}
	g.Set(Node{Name: "zred", Arity: 1, Status: Fixed, Init: Num(z), Units: "redshift"})
	return nil
}

// applyPhysical sets stellar metallicity and the IMF code.
func applyPhysical(ctx context.Context, s Settings, g *Graph) error {
	g.Set(Node{
		Name:   "logzsol",
		Arity:  1,
		Status: Free,
		Init:   Num(-0.3),
		Prior:  TopHat(-2.0, 0.5),
		Units:  "log(Z/Z_sun)",
	})
	g.Set(Node{Name: "imf_type", Arity: 1, Status: Fixed, Init: NumInt(1), Units: "FSPS index"})
	return nil
}

// applyDust sets the Calzetti attenuation base and the optional
// birth-cloud and infrared-emission extensions.
func applyDust(ctx context.Context, s Settings, g *Graph) error {
	g.Set(Node{Name: "dust_type", Arity: 1, Status: Fixed, Init: NumInt(4), Units: "FSPS index"})
	g.Set(Node{
		Name:   "dust2",
		Arity:  1,
		Status: Free,
		Init:   Num(0.5),
		Prior:  TopHat(0.0, 4.0),
		Units:  "optical depth at 5500AA",
	})
	g.Set(Node{
		Name:   "dust_index",
		Arity:  1,
		Status: Free,
		Init:   Num(0.0),
		Prior:  ClippedNormal(0.0, 0.3, -1.5, 0.4),
	})

	if s.AddDust1 {
		g.Set(Node{
			Name:   "dust1",
			Arity:  1,
			Status: Derived,
			Init:   Num(0.0),
			Dependency: &Dependency{
				Transform: "dustratio_to_dust1",
				Sources:   []string{"dust2", "dust1_fraction"},
			},
		})
		g.Set(Node{
			Name:   "dust1_fraction",
			Arity:  1,
			Status: Free,
			Init:   Num(1.0),
			Prior:  ClippedNormal(1.0, 0.3, 0.0, 2.0),
		})
	}

	if s.AddDuste {
		g.SetAll(DustEmissionTemplate())
		// Free the emission shape parameters with widened flat priors,
		// keeping the template inits.
		freeWithPrior(g, "duste_gamma", TopHat(0.0, 1.0))
		freeWithPrior(g, "duste_qpah", TopHat(0.5, 10.0))
		freeWithPrior(g, "duste_umin", TopHat(0.1, 25.0))
	}
	return nil
}

// applyNebular merges the nebular template and frees the gas physics.
// Lines are kept out of the synthesized spectrum; they are either unused
// or handled by the marginalization patch.
func applyNebular(ctx context.Context, s Settings, g *Graph) error {
	g.SetAll(NebularTemplate())
	g.Set(Node{Name: "nebemlineinspec", Arity: 1, Status: Fixed, Init: Bool(false)})
	g.Set(Node{
		Name:   "gas_logz",
		Arity:  1,
		Status: Free,
		Init:   Num(0.0),
		Prior:  TopHat(-2.0, 0.5),
		Units:  "log(Z/Z_sun)",
	})
	g.Set(Node{
		Name:   "gas_logu",
		Arity:  1,
		Status: Free,
		Init:   Num(-2.0),
		Prior:  TopHat(-4.0, -1.0),
		Units:  "Q_H/N_H",
	})
	g.Set(Node{
		Name:   "eline_sigma",
		Arity:  1,
		Status: Free,
		Init:   Num(150.0),
		Prior:  TopHat(50.0, 500.0),
		Units:  "km/s",
	})
	return nil
}

// applySpecCal merges the smoothing and continuum-calibration templates,
// then retunes them for fitting real spectra.
func applySpecCal(ctx context.Context, s Settings, g *Graph) error {
	g.SetAll(SpectralSmoothingTemplate())
	g.SetAll(OptimizeSpecCalTemplate())

	g.Set(Node{
		Name:   "sigma_smooth",
		Arity:  1,
		Status: Free,
		Init:   Num(1000.0),
		Prior:  TopHat(200.0, 2000.0),
		Units:  "km/s",
	})
	g.Set(Node{
		Name:   "spec_norm",
		Arity:  1,
		Status: Free,
		Init:   Num(1.0),
		Prior:  Normal(1.0, 0.2),
		Units:  "f_true/f_obs",
	})
	g.Set(Node{
		Name:   "spec_jitter",
		Arity:  1,
		Status: Free,
		Init:   Num(1.0),
		Prior:  TopHat(0.0, 5.0),
	})
	g.Set(Node{Name: "polyorder", Arity: 1, Status: Fixed, Init: NumInt(10)})
	return nil
}

// applyOutliers attaches the mixture-model nodes, independently per data
// kind, only when both the outlier flag and the data kind are enabled.
func applyOutliers(ctx context.Context, s Settings, g *Graph) error {
	if s.FitOutliersSpec && s.UseSpectroscopy {
		g.Set(Node{
			Name:   "f_outlier_spec",
			Arity:  1,
			Status: Free,
			Init:   Num(0.01),
			Prior:  TopHat(1e-5, 0.2),
		})
		g.Set(Node{Name: "nsigma_outlier_spec", Arity: 1, Status: Fixed, Init: Num(50.0)})
	}
	if s.FitOutliersPhoto && s.UsePhotometry {
		g.Set(Node{
			Name:   "f_outlier_phot",
			Arity:  1,
			Status: Free,
			Init:   Num(0.0),
			Prior:  TopHat(0.0, 0.1),
		})
		g.Set(Node{Name: "nsigma_outlier_phot", Arity: 1, Status: Fixed, Init: Num(50.0)})
	}
	return nil
}

// applyLineMarginalization attaches analytic line marginalization. It
// requires the nebular patch to have run; an empty line table degrades to
// a logged no-op. Its eline_sigma overwrite wins over the nebular
// patch's version.
func applyLineMarginalization(ctx context.Context, s Settings, g *Graph) error {
	if !s.AddNebular {
		return fiterr.Configuration("margin_elines requires add_nebular")
	}
	if len(s.Lines) == 0 {
		ctxlog.FromContext(ctx).Warn("Line marginalization requested but the line table is empty, skipping.")
		return nil
	}

	labels := make([]string, 0, len(s.Lines))
	for label := range s.Lines {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	g.SetAll(NebularMarginalizationTemplate())
	g.Set(Node{Name: "elines_to_fit", Arity: 1, Status: Fixed, Init: Strings(labels...)})
	g.Set(Node{
		Name:   "eline_sigma",
		Arity:  1,
		Status: Free,
		Init:   Num(300.0),
		Prior:  TopHat(50.0, 1000.0),
		Units:  "km/s",
	})

	if s.FitElineRedshift {
		g.Set(Node{Name: "fit_eline_redshift", Arity: 1, Status: Fixed, Init: Bool(true)})
		g.Set(Node{
			Name:   "eline_delta_zred",
			Arity:  len(labels),
			Status: Free,
			Init:   Zeros(len(labels)),
			Prior:  TopHat(-0.01, 0.01),
			Units:  "redshift offset",
		})
	}
	return nil
}

// freeWithPrior flips an existing node to Free with the given prior,
// keeping its init and units.
func freeWithPrior(g *Graph, name string, p *Prior) {
	n, ok := g.Get(name)
	if !ok {
		panic(fmt.Sprintf("params: freeWithPrior on missing node %q", name))
	}
	n.Status = Free
	n.Prior = p
	n.Dependency = nil
	g.Set(n)
}
