package params

import (
	"github.com/galsed/sedfit/internal/fiterr"
	"github.com/zclconf/go-cty/cty"
)

// Validate enforces the graph invariants: each status populates exactly
// the fields it requires, every Derived source references an existing
// node and a registered transform, and dependency edges are acyclic.
// Violations indicate a broken patch sequence and surface as
// ConfigurationError.
func Validate(g *Graph) error {
	for _, n := range g.Nodes() {
		if n.Arity < 1 {
			return fiterr.Configuration("node %q has arity %d, must be >= 1", n.Name, n.Arity)
		}

		switch n.Status {
		case Free:
			if n.Init == cty.NilVal {
				return fiterr.Configuration("free node %q has no initial value", n.Name)
			}
			if n.Prior == nil {
				return fiterr.Configuration("free node %q has no prior", n.Name)
			}
			if err := n.Prior.check(); err != nil {
				return fiterr.Configuration("free node %q: %v", n.Name, err)
			}
			if n.Dependency != nil {
				return fiterr.Configuration("free node %q must not carry a dependency", n.Name)
			}
		case Fixed:
			if n.Init == cty.NilVal {
				return fiterr.Configuration("fixed node %q has no initial value", n.Name)
			}
			if n.Prior != nil {
				return fiterr.Configuration("fixed node %q must not carry a prior", n.Name)
			}
			if n.Dependency != nil {
				return fiterr.Configuration("fixed node %q must not carry a dependency", n.Name)
			}
		case Derived:
			if n.Prior != nil {
				return fiterr.Configuration("derived node %q must not carry a prior", n.Name)
			}
			if n.Dependency == nil || n.Dependency.Transform == "" {
				return fiterr.Configuration("derived node %q has no transform", n.Name)
			}
			if _, ok := Transform(n.Dependency.Transform); !ok {
				return fiterr.Configuration("derived node %q references unknown transform %q (registered: %v)",
					n.Name, n.Dependency.Transform, TransformNames())
			}
			if len(n.Dependency.Sources) == 0 {
				return fiterr.Configuration("derived node %q has no sources", n.Name)
			}
			for _, src := range n.Dependency.Sources {
				if src == n.Name {
					return fiterr.Configuration("derived node %q depends on itself", n.Name)
				}
				if !g.Has(src) {
					return fiterr.Configuration("derived node %q references missing node %q", n.Name, src)
				}
			}
		default:
			return fiterr.Configuration("node %q has unknown status", n.Name)
		}
	}

	return detectCycles(g)
}

// DerivedOrder returns the Derived node names in an order where every
// node appears after all Derived nodes it (transitively) reads, so a
// single pass can evaluate them. Requires a validated, acyclic graph.
func DerivedOrder(g *Graph) []string {
	var order []string
	done := make(map[string]bool)

	var visit func(name string)
	visit = func(name string) {
		if done[name] {
			return
		}
		done[name] = true

		n, ok := g.Get(name)
		if !ok || n.Dependency == nil {
			return
		}
		for _, src := range n.Dependency.Sources {
			visit(src)
		}
		order = append(order, name)
	}

	for _, name := range g.Names() {
		visit(name)
	}
	return order
}

// detectCycles runs a depth-first search over the Derived dependency
// edges with the classic permanent/temporary marking scheme.
func detectCycles(g *Graph) error {
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(name string) error
	visit = func(name string) error {
		if permanent[name] {
			return nil
		}
		if temporary[name] {
			return fiterr.Configuration("dependency cycle involving node %q", name)
		}
		temporary[name] = true

		if n, ok := g.Get(name); ok && n.Dependency != nil {
			for _, src := range n.Dependency.Sources {
				if err := visit(src); err != nil {
					return err
				}
			}
		}

		delete(temporary, name)
		permanent[name] = true
		return nil
	}

	for _, name := range g.Names() {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}
