package params

import (
	"fmt"
	"math"
	"sort"
)

// TransformFunc computes a Derived node's value from its source nodes.
// Arguments arrive keyed by source node name, flattened to float slices
// (scalars have length 1; bin-edge pairs are row-major). Transforms run
// only inside fitting backends and tests, never during graph construction.
type TransformFunc func(args map[string][]float64) ([]float64, error)

// transforms is the registry of named transforms a Dependency may
// reference. A map literal keeps registration deterministic.
var transforms = map[string]TransformFunc{
	"logsfr_ratios_to_masses": logSFRRatiosToMasses,
	"dustratio_to_dust1":      dustRatioToDust1,
	"stellar_logzsol":         stellarLogZSol,
}

// Transform returns the named transform implementation.
func Transform(name string) (TransformFunc, bool) {
	fn, ok := transforms[name]
	return fn, ok
}

// TransformNames returns all registered transform names, sorted.
func TransformNames() []string {
	names := make([]string, 0, len(transforms))
	for name := range transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// logSFRRatiosToMasses converts a total log mass and per-bin SFR ratios
// into per-bin formed masses. Takes "logmass" (scalar), "logsfr_ratios"
// (nbins-1 values of log10(SFR_i/SFR_{i+1})), and "agebins" (nbins rows
// of [lo, hi] log-year edges, flattened). The returned masses sum to
// 10^logmass.
func logSFRRatiosToMasses(args map[string][]float64) ([]float64, error) {
	logmass, err := scalarArg(args, "logmass")
	if err != nil {
		return nil, err
	}
	ratios := args["logsfr_ratios"]
	edges := args["agebins"]
	if len(edges) == 0 || len(edges)%2 != 0 {
		return nil, fmt.Errorf("agebins must hold [lo, hi] pairs, got %d values", len(edges))
	}
	nbins := len(edges) / 2
	if len(ratios) != nbins-1 {
		return nil, fmt.Errorf("expected %d logsfr_ratios for %d bins, got %d", nbins-1, nbins, len(ratios))
	}

	// Linear time span of each bin.
	dt := make([]float64, nbins)
	for i := 0; i < nbins; i++ {
		lo, hi := edges[2*i], edges[2*i+1]
		dt[i] = math.Pow(10, hi) - math.Pow(10, lo)
	}

	// Relative mass weights: SFR declines by 10^ratio across consecutive
	// bins, mass weight is SFR times span. Ratios are clamped to keep
	// 10^x finite for extreme samples.
	weights := make([]float64, nbins)
	sfr := 1.0
	total := 0.0
	for i := 0; i < nbins; i++ {
		if i > 0 {
			sfr /= math.Pow(10, clamp(ratios[i-1], -100, 100))
		}
		weights[i] = sfr * dt[i]
		total += weights[i]
	}
	if total <= 0 {
		return nil, fmt.Errorf("non-positive total mass weight %g", total)
	}

	mass := math.Pow(10, logmass)
	out := make([]float64, nbins)
	for i := range weights {
		out[i] = mass * weights[i] / total
	}
	return out, nil
}

// dustRatioToDust1 computes the birth-cloud attenuation as the diffuse
// optical depth times the free dust1 fraction.
func dustRatioToDust1(args map[string][]float64) ([]float64, error) {
	dust2, err := scalarArg(args, "dust2")
	if err != nil {
		return nil, err
	}
	frac, err := scalarArg(args, "dust1_fraction")
	if err != nil {
		return nil, err
	}
	return []float64{dust2 * frac}, nil
}

// stellarLogZSol mirrors the stellar metallicity into the gas phase.
func stellarLogZSol(args map[string][]float64) ([]float64, error) {
	v, err := scalarArg(args, "logzsol")
	if err != nil {
		return nil, err
	}
	return []float64{v}, nil
}

func scalarArg(args map[string][]float64, name string) (float64, error) {
	vs, ok := args[name]
	if !ok || len(vs) != 1 {
		return 0, fmt.Errorf("transform needs scalar argument %q, got %d values", name, len(vs))
	}
	return vs[0], nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
