// Package observation holds the data being fit: an optional 1-D
// spectrum, optional broadband photometry, and target metadata. Loaders
// accept JSON documents and FITS spectra; Clean tightens the arrays to
// usable pixels before they reach a fitting backend.
package observation

import (
	"math"

	"github.com/galsed/sedfit/internal/fiterr"
)

// Spectrum is a 1-D spectrum. Wavelength is in Angstroms, observed
// frame. Mask, when present, marks usable pixels with true.
type Spectrum struct {
	Wavelength  []float64
	Flux        []float64
	Uncertainty []float64
	Mask        []bool
}

// Photometry is a set of broadband fluxes in maggies, parallel to
// Filters. Mask, when present, marks usable bands with true.
type Photometry struct {
	Filters    []string
	Maggies    []float64
	MaggiesUnc []float64
	Mask       []bool
}

// Observation is one target's data and metadata.
type Observation struct {
	Name     string
	Redshift *float64

	Spectrum   *Spectrum
	Photometry *Photometry
}

// RedshiftOr returns override when set, else the observation's own
// redshift (which may be nil).
func (o *Observation) RedshiftOr(override *float64) *float64 {
	if override != nil {
		return override
	}
	return o.Redshift
}

// Validate checks that every present channel has parallel arrays and at
// least one channel carries data.
func (o *Observation) Validate() error {
	if o.Spectrum == nil && o.Photometry == nil {
		return fiterr.Configuration("observation %q has no data channels", o.Name)
	}
	if s := o.Spectrum; s != nil {
		n := len(s.Wavelength)
		if n == 0 {
			return fiterr.DataShape("spectrum wavelength", 1, 0)
		}
		if len(s.Flux) != n {
			return fiterr.DataShape("spectrum flux", n, len(s.Flux))
		}
		if len(s.Uncertainty) != n {
			return fiterr.DataShape("spectrum uncertainty", n, len(s.Uncertainty))
		}
		if s.Mask != nil && len(s.Mask) != n {
			return fiterr.DataShape("spectrum mask", n, len(s.Mask))
		}
	}
	if p := o.Photometry; p != nil {
		n := len(p.Filters)
		if n == 0 {
			return fiterr.DataShape("photometry filters", 1, 0)
		}
		if len(p.Maggies) != n {
			return fiterr.DataShape("photometry maggies", n, len(p.Maggies))
		}
		if len(p.MaggiesUnc) != n {
			return fiterr.DataShape("photometry maggies_unc", n, len(p.MaggiesUnc))
		}
		if p.Mask != nil && len(p.Mask) != n {
			return fiterr.DataShape("photometry mask", n, len(p.Mask))
		}
	}
	return nil
}

// Clean returns a copy with unusable entries dropped: masked-out
// entries (when useMask is set), non-finite values, non-positive
// uncertainties, and non-positive wavelengths. The receiver is not
// modified. Channels may come out empty.
func (o *Observation) Clean(useMask bool) *Observation {
	out := &Observation{Name: o.Name, Redshift: o.Redshift}
	if o.Spectrum != nil {
		out.Spectrum = o.Spectrum.cleaned(useMask)
	}
	if o.Photometry != nil {
		out.Photometry = o.Photometry.cleaned(useMask)
	}
	return out
}

// Pixels reports the spectrum length, zero when absent.
func (o *Observation) Pixels() int {
	if o.Spectrum == nil {
		return 0
	}
	return len(o.Spectrum.Wavelength)
}

// Bands reports the photometry length, zero when absent.
func (o *Observation) Bands() int {
	if o.Photometry == nil {
		return 0
	}
	return len(o.Photometry.Filters)
}

func (s *Spectrum) cleaned(useMask bool) *Spectrum {
	out := &Spectrum{}
	for i := range s.Wavelength {
		if useMask && s.Mask != nil && !s.Mask[i] {
			continue
		}
		if !finite(s.Wavelength[i]) || s.Wavelength[i] <= 0 {
			continue
		}
		if !finite(s.Flux[i]) {
			continue
		}
		if !finite(s.Uncertainty[i]) || s.Uncertainty[i] <= 0 {
			continue
		}
		out.Wavelength = append(out.Wavelength, s.Wavelength[i])
		out.Flux = append(out.Flux, s.Flux[i])
		out.Uncertainty = append(out.Uncertainty, s.Uncertainty[i])
		if s.Mask != nil {
			out.Mask = append(out.Mask, s.Mask[i])
		}
	}
	return out
}

func (p *Photometry) cleaned(useMask bool) *Photometry {
	out := &Photometry{}
	for i := range p.Filters {
		if useMask && p.Mask != nil && !p.Mask[i] {
			continue
		}
		// Negative maggies are legitimate noisy fluxes; only the
		// uncertainty must be positive.
		if !finite(p.Maggies[i]) {
			continue
		}
		if !finite(p.MaggiesUnc[i]) || p.MaggiesUnc[i] <= 0 {
			continue
		}
		out.Filters = append(out.Filters, p.Filters[i])
		out.Maggies = append(out.Maggies, p.Maggies[i])
		out.MaggiesUnc = append(out.MaggiesUnc, p.MaggiesUnc[i])
		if p.Mask != nil {
			out.Mask = append(out.Mask, p.Mask[i])
		}
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
