package params

// Base template node sets merged by the builder's patches. Each function
// returns fresh nodes on every call, so no graph ever shares state with
// another. Several template nodes are later overwritten by the patch that
// merged them.

// ContinuitySFHTemplate is the non-parametric star-formation-history base:
// per-bin masses tied together by ratio nodes under a Student's t
// smoothness prior. Bin edges carry a 3-bin placeholder until
// AdjustAgeBins re-spaces them.
func ContinuitySFHTemplate() []Node {
	return []Node{
		{Name: "sfh", Arity: 1, Status: Fixed, Init: NumInt(3), Units: "FSPS index"},
		{Name: "logzsol", Arity: 1, Status: Free, Init: Num(-0.5), Prior: TopHat(-2.0, 0.19), Units: "log(Z/Z_sun)"},
		{Name: "dust2", Arity: 1, Status: Free, Init: Num(0.6), Prior: TopHat(0.0, 2.0), Units: "optical depth at 5500AA"},
		{Name: "logmass", Arity: 1, Status: Free, Init: Num(10.0), Prior: TopHat(7.0, 12.0), Units: "Solar masses formed"},
		{
			Name:   "mass",
			Arity:  3,
			Status: Derived,
			Init:   Num(1e6),
			Dependency: &Dependency{
				Transform: "logsfr_ratios_to_masses",
				Sources:   []string{"logmass", "logsfr_ratios", "agebins"},
			},
			Units: "Solar masses formed",
		},
		{Name: "agebins", Arity: 3, Status: Fixed, Init: Pairs([][2]float64{{0, 8}, {8, 9}, {9, 10}}), Units: "log(yr)"},
		{Name: "logsfr_ratios", Arity: 2, Status: Free, Init: Zeros(2), Prior: StudentT(0.0, 0.3, 2.0)},
		{Name: "zred", Arity: 1, Status: Fixed, Init: Num(0.1), Units: "redshift"},
	}
}

// DustEmissionTemplate adds Draine & Li infrared dust emission with all
// shape parameters held fixed; the dust patch frees three of them.
func DustEmissionTemplate() []Node {
	return []Node{
		{Name: "add_dust_emission", Arity: 1, Status: Fixed, Init: Bool(true)},
		{Name: "duste_umin", Arity: 1, Status: Fixed, Init: Num(1.0), Units: "MMP83 local MW intensity"},
		{Name: "duste_qpah", Arity: 1, Status: Fixed, Init: Num(4.0), Units: "percent PAH mass fraction"},
		{Name: "duste_gamma", Arity: 1, Status: Fixed, Init: Num(0.001), Units: "mass fraction in high radiation intensity"},
	}
}

// NebularTemplate switches on nebular line and continuum emission. Gas
// metallicity mirrors the stellar value until the nebular patch frees it.
func NebularTemplate() []Node {
	return []Node{
		{Name: "add_neb_emission", Arity: 1, Status: Fixed, Init: Bool(true)},
		{Name: "add_neb_continuum", Arity: 1, Status: Fixed, Init: Bool(true)},
		{Name: "nebemlineinspec", Arity: 1, Status: Fixed, Init: Bool(true)},
		{
			Name:   "gas_logz",
			Arity:  1,
			Status: Derived,
			Init:   Num(0.0),
			Dependency: &Dependency{
				Transform: "stellar_logzsol",
				Sources:   []string{"logzsol"},
			},
			Units: "log(Z/Z_sun)",
		},
		{Name: "gas_logu", Arity: 1, Status: Fixed, Init: Num(-2.0), Units: "Q_H/N_H"},
	}
}

// SpectralSmoothingTemplate enables velocity-space smoothing of the model
// spectrum.
func SpectralSmoothingTemplate() []Node {
	return []Node{
		{Name: "smoothtype", Arity: 1, Status: Fixed, Init: Str("vel")},
		{Name: "fftsmooth", Arity: 1, Status: Fixed, Init: Bool(true)},
		{Name: "sigma_smooth", Arity: 1, Status: Free, Init: Num(200.0), Prior: TopHat(10.0, 300.0), Units: "km/s"},
	}
}

// OptimizeSpecCalTemplate sets up polynomial continuum calibration with a
// fixed normalization; the speccal patch frees and retunes both.
func OptimizeSpecCalTemplate() []Node {
	return []Node{
		{Name: "polyorder", Arity: 1, Status: Fixed, Init: NumInt(12)},
		{Name: "spec_norm", Arity: 1, Status: Fixed, Init: Num(1.0), Units: "f_true/f_obs"},
	}
}

// NebularMarginalizationTemplate marks emission lines for analytic
// marginalization instead of direct synthesis.
func NebularMarginalizationTemplate() []Node {
	return []Node{
		{Name: "marginalize_elines", Arity: 1, Status: Fixed, Init: Bool(true)},
		{Name: "use_eline_prior", Arity: 1, Status: Fixed, Init: Bool(false)},
		{Name: "eline_prior_width", Arity: 1, Status: Fixed, Init: Num(0.2), Units: "width of logarithmic prior on line luminosity"},
	}
}
