package params

import (
	"fmt"
	"math"
)

// PriorKind names a prior distribution family.
type PriorKind string

const (
	// PriorTopHat is flat between Min and Max.
	PriorTopHat PriorKind = "TopHat"
	// PriorNormal is Gaussian with Mean and Sigma, unbounded.
	PriorNormal PriorKind = "Normal"
	// PriorClippedNormal is Gaussian restricted to [Min, Max].
	PriorClippedNormal PriorKind = "ClippedNormal"
	// PriorStudentT is Student's t with Mean, scale Sigma, and DF degrees
	// of freedom, unbounded.
	PriorStudentT PriorKind = "StudentT"
)

// Prior is a distribution specification. Only the fields relevant to Kind
// are populated; the rest stay zero.
type Prior struct {
	Kind  PriorKind
	Min   float64
	Max   float64
	Mean  float64
	Sigma float64
	DF    float64
}

// TopHat returns a flat prior on [min, max].
func TopHat(min, max float64) *Prior {
	return &Prior{Kind: PriorTopHat, Min: min, Max: max}
}

// Normal returns an unbounded Gaussian prior.
func Normal(mean, sigma float64) *Prior {
	return &Prior{Kind: PriorNormal, Mean: mean, Sigma: sigma}
}

// ClippedNormal returns a Gaussian prior restricted to [min, max].
func ClippedNormal(mean, sigma, min, max float64) *Prior {
	return &Prior{Kind: PriorClippedNormal, Mean: mean, Sigma: sigma, Min: min, Max: max}
}

// StudentT returns a Student's t prior with the given location, scale,
// and degrees of freedom.
func StudentT(mean, scale, df float64) *Prior {
	return &Prior{Kind: PriorStudentT, Mean: mean, Sigma: scale, DF: df}
}

// Bounds returns the prior's support interval. ok is false for unbounded
// families, in which case the interval is (-Inf, +Inf).
func (p *Prior) Bounds() (lo, hi float64, ok bool) {
	switch p.Kind {
	case PriorTopHat, PriorClippedNormal:
		return p.Min, p.Max, true
	default:
		return math.Inf(-1), math.Inf(1), false
	}
}

// String renders the prior for logs and the model summary table.
func (p *Prior) String() string {
	switch p.Kind {
	case PriorTopHat:
		return fmt.Sprintf("TopHat(min=%g, max=%g)", p.Min, p.Max)
	case PriorNormal:
		return fmt.Sprintf("Normal(mean=%g, sigma=%g)", p.Mean, p.Sigma)
	case PriorClippedNormal:
		return fmt.Sprintf("ClippedNormal(mean=%g, sigma=%g, min=%g, max=%g)", p.Mean, p.Sigma, p.Min, p.Max)
	case PriorStudentT:
		return fmt.Sprintf("StudentT(mean=%g, scale=%g, df=%g)", p.Mean, p.Sigma, p.DF)
	default:
		return string(p.Kind)
	}
}

// check reports whether the prior's numeric fields are internally
// consistent for its kind.
func (p *Prior) check() error {
	switch p.Kind {
	case PriorTopHat:
		if p.Min >= p.Max {
			return fmt.Errorf("TopHat requires min < max, got [%g, %g]", p.Min, p.Max)
		}
	case PriorNormal:
		if p.Sigma <= 0 {
			return fmt.Errorf("Normal requires sigma > 0, got %g", p.Sigma)
		}
	case PriorClippedNormal:
		if p.Min >= p.Max {
			return fmt.Errorf("ClippedNormal requires min < max, got [%g, %g]", p.Min, p.Max)
		}
		if p.Sigma <= 0 {
			return fmt.Errorf("ClippedNormal requires sigma > 0, got %g", p.Sigma)
		}
	case PriorStudentT:
		if p.Sigma <= 0 || p.DF <= 0 {
			return fmt.Errorf("StudentT requires scale > 0 and df > 0, got scale=%g df=%g", p.Sigma, p.DF)
		}
	default:
		return fmt.Errorf("unknown prior kind %q", p.Kind)
	}
	return nil
}
