package fitting

import (
	"context"
	"fmt"
	"time"

	"github.com/galsed/sedfit/internal/ctxlog"
	"github.com/galsed/sedfit/internal/params"
)

func init() {
	Register(DryRun{})
}

// DryRun walks a model without sampling: it counts the free dimensions,
// snapshots their initial values, and executes every derived node's
// transform once over the graph's initial values. A configuration that
// survives a dry run is runnable end to end.
type DryRun struct{}

// Name implements Backend.
func (DryRun) Name() string { return "dryrun" }

// Run implements Backend.
func (DryRun) Run(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	g := in.Graph

	res := &Result{
		Best: make(map[string]float64),
		Note: "dry run, no sampling performed",
	}

	// Seed the value table with every numeric initial value. Boolean and
	// string nodes are never transform inputs.
	values := make(map[string][]float64)
	for _, n := range g.Nodes() {
		fs, err := params.Floats(n.Init)
		if err != nil {
			continue
		}
		values[n.Name] = fs

		if n.Status == params.Free {
			res.FreeParams += len(fs)
			if len(fs) == 1 {
				res.Best[n.Name] = fs[0]
				continue
			}
			for i, v := range fs {
				res.Best[fmt.Sprintf("%s[%d]", n.Name, i)] = v
			}
		}
	}

	for _, name := range params.DerivedOrder(g) {
		n, _ := g.Get(name)
		fn, ok := params.Transform(n.Dependency.Transform)
		if !ok {
			return nil, fmt.Errorf("derived node %q references unknown transform %q",
				name, n.Dependency.Transform)
		}

		args := make(map[string][]float64, len(n.Dependency.Sources))
		for _, src := range n.Dependency.Sources {
			vs, ok := values[src]
			if !ok {
				return nil, fmt.Errorf("evaluating %q: source %q has no numeric value", name, src)
			}
			args[src] = vs
		}

		out, err := fn(args)
		if err != nil {
			return nil, fmt.Errorf("evaluating %q via %s: %w", name, n.Dependency.Transform, err)
		}
		values[name] = out
		res.Evaluations++
	}

	res.Elapsed = time.Since(start)
	ctxlog.FromContext(ctx).Debug("Dry run complete",
		"free_dims", res.FreeParams, "evaluations", res.Evaluations)
	return res, nil
}
