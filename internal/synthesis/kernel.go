package synthesis

import (
	"context"
	"math"

	"github.com/galsed/sedfit/internal/ctxlog"
)

const (
	// lightspeedKms is c in km/s.
	lightspeedKms = 2.998e5
	// fwhmToSigma converts a Gaussian FWHM to its sigma.
	fwhmToSigma = 2.3548
	// milesFWHMAngstrom is the instrumental FWHM of the MILES stellar
	// library in Angstroms.
	milesFWHMAngstrom = 2.54
	// milesBlueEdge and milesRedEdge bound the wavelength range, in
	// Angstroms, over which the MILES resolution is calibrated.
	milesBlueEdge = 3525.0
	milesRedEdge  = 7500.0

	angstromPerMicron = 1e4
)

// Kernel holds the extra velocity broadening, per rest-frame wavelength
// in Angstroms, that matches the library resolution to the instrument.
type Kernel struct {
	Wave       []float64
	DeltaSigma []float64 // km/s
}

// Len reports the number of kernel pixels.
func (k *Kernel) Len() int { return len(k.Wave) }

// BuildKernel loads the dispersion curve at path and computes the
// smoothing kernel for an observed wavelength grid in Angstroms. A nil
// redshift is treated as zero.
func BuildKernel(ctx context.Context, path string, waveObs []float64, redshift *float64) (*Kernel, error) {
	curve, err := LoadDispersion(ctx, path)
	if err != nil {
		return nil, err
	}
	k := curve.Broadening(waveObs, redshift)
	ctxlog.FromContext(ctx).Debug("Built resolution kernel",
		"pixels", k.Len(), "dropped", len(waveObs)-k.Len())
	return k, nil
}

// Broadening computes, per observed pixel, the quadrature difference
// between the instrument velocity resolution and the library resolution
// at the corresponding rest-frame wavelength. The interpolant runs over
// the curve's velocity dispersions, not over R, since sigma is what the
// correction combines in quadrature. Pixels with no reported instrument
// resolution, and pixels falling outside the library's calibrated range,
// are dropped; the result may be empty. Differences that would be
// negative clamp to zero rather than dropping the pixel.
func (c *DispersionCurve) Broadening(waveObs []float64, redshift *float64) *Kernel {
	z := 0.0
	if redshift != nil {
		z = *redshift
	}
	sig := c.sigmaInst()

	k := &Kernel{}
	for _, wo := range waveObs {
		sigmaIns := interpLinear(c.Wave, sig, wo/angstromPerMicron)
		if !(sigmaIns > 0) || math.IsInf(sigmaIns, 0) {
			continue
		}

		waveRest := wo / (1 + z)
		if waveRest < milesBlueEdge || waveRest > milesRedEdge {
			continue
		}

		sigmaLib := lightspeedKms * milesFWHMAngstrom / (fwhmToSigma * waveRest)
		d2 := sigmaIns*sigmaIns - sigmaLib*sigmaLib
		if d2 < 0 {
			d2 = 0
		}
		k.Wave = append(k.Wave, waveRest)
		k.DeltaSigma = append(k.DeltaSigma, math.Sqrt(d2))
	}
	return k
}
