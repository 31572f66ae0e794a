package params

import "github.com/zclconf/go-cty/cty"

// Status classifies how a node participates in the fit.
type Status int

const (
	// StatusUnknown is the zero value; valid nodes never carry it.
	StatusUnknown Status = iota
	// Free nodes are sampled by the fitting backend and require a prior.
	Free
	// Fixed nodes hold a constant and require an initial value.
	Fixed
	// Derived nodes are computed from other nodes via a named transform
	// and must not carry a prior.
	Derived
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Free:
		return "free"
	case Fixed:
		return "fixed"
	case Derived:
		return "derived"
	default:
		return "unknown"
	}
}

// Dependency names the transform producing a Derived node's value and the
// nodes it reads. Sources are node names in the same graph.
type Dependency struct {
	Transform string
	Sources   []string
}

// Node is one named entry in the parameter graph.
//
// Arity is the value's dimensionality: 1 for scalars, k for vector nodes
// such as per-bin masses. Init seeds Free and Fixed nodes and may hold a
// placeholder for Derived ones. Prior is set iff the node is Free;
// Dependency iff it is Derived. Units is informational only.
type Node struct {
	Name       string
	Arity      int
	Status     Status
	Init       cty.Value
	Prior      *Prior
	Dependency *Dependency
	Units      string
}

// clone returns a deep copy of the node. cty values are immutable and
// shared as-is.
func (n Node) clone() Node {
	out := n
	if n.Prior != nil {
		p := *n.Prior
		out.Prior = &p
	}
	if n.Dependency != nil {
		d := Dependency{Transform: n.Dependency.Transform}
		d.Sources = append([]string(nil), n.Dependency.Sources...)
		out.Dependency = &d
	}
	return out
}
