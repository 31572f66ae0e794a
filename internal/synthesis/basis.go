package synthesis

import (
	"context"

	"github.com/galsed/sedfit/internal/ctxlog"
	"github.com/galsed/sedfit/internal/fiterr"
	"github.com/galsed/sedfit/internal/params"
)

// Kind identifies a stellar population engine.
type Kind int

const (
	KindUnknown Kind = iota
	// BasisFastStep synthesizes piecewise-constant star formation
	// histories over fixed time bins.
	BasisFastStep
	// BasisCSP synthesizes parametric composite stellar populations.
	BasisCSP
)

func (k Kind) String() string {
	switch k {
	case BasisFastStep:
		return "FastStepBasis"
	case BasisCSP:
		return "CSPSpecBasis"
	default:
		return "unknown"
	}
}

// Handle describes a configured synthesis engine: which basis to run and
// the line-spread-function kernel to apply at synthesis time.
type Handle struct {
	Kind        Kind
	ZContinuous int

	// SmoothLSF enables wavelength-dependent smoothing of the library
	// spectra by (LSFWave, LSFSigma) before comparison with data.
	SmoothLSF bool
	LSFWave   []float64
	LSFSigma  []float64
}

// Select picks the synthesis engine for a parameter graph. A graph with
// an agebins node runs on the piecewise-constant basis even when tau is
// also present; a graph with tau runs on the parametric basis. A graph
// with neither cannot be synthesized.
func Select(ctx context.Context, g *params.Graph, zContinuous int) (*Handle, error) {
	log := ctxlog.FromContext(ctx)

	var kind Kind
	switch {
	case g.Has("agebins"):
		kind = BasisFastStep
	case g.Has("tau"):
		kind = BasisCSP
	default:
		return nil, fiterr.Configuration(
			"cannot choose a synthesis engine: graph has neither agebins nor tau")
	}

	log.Debug("Selected synthesis engine", "kind", kind.String(), "zcontinuous", zContinuous)
	return &Handle{Kind: kind, ZContinuous: zContinuous}, nil
}

// SetLSF installs a resolution kernel on the handle. A nil or empty
// kernel disables smoothing.
func (h *Handle) SetLSF(k *Kernel) {
	if k == nil || k.Len() == 0 {
		h.SmoothLSF = false
		h.LSFWave = nil
		h.LSFSigma = nil
		return
	}
	h.SmoothLSF = true
	h.LSFWave = k.Wave
	h.LSFSigma = k.DeltaSigma
}
