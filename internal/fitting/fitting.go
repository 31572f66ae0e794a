// Package fitting defines the seam between the configuration engine and
// concrete fitting algorithms. Backends self-register by name; the
// built-in dryrun backend exercises a model end to end without sampling.
package fitting

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/galsed/sedfit/internal/observation"
	"github.com/galsed/sedfit/internal/params"
	"github.com/galsed/sedfit/internal/synthesis"
)

// Input carries everything a backend needs for one target.
type Input struct {
	Graph *params.Graph
	Basis *synthesis.Handle
	Obs   *observation.Observation

	// Options passes backend-specific settings through uninterpreted.
	Options map[string]string
}

// Result summarizes one backend run.
type Result struct {
	// Best maps free parameter names to point estimates; vector nodes
	// use indexed names ("logsfr_ratios[0]").
	Best map[string]float64

	// FreeParams counts sampled dimensions: vector nodes contribute
	// their arity.
	FreeParams  int
	Evaluations int
	Elapsed     time.Duration
	Note        string
}

// Backend fits one observation against one model graph.
type Backend interface {
	Name() string
	Run(ctx context.Context, in Input) (*Result, error)
}

var (
	mu       sync.RWMutex
	backends = make(map[string]Backend)
)

// Register makes a backend available by name. It panics when the name is
// taken, since that is a wiring bug.
func Register(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	name := b.Name()
	if _, exists := backends[name]; exists {
		panic(fmt.Sprintf("fitting backend with name '%s' already registered", name))
	}
	slog.Debug("Registering fitting backend.", "name", name)
	backends[name] = b
}

// Lookup returns the named backend.
func Lookup(name string) (Backend, bool) {
	mu.RLock()
	defer mu.RUnlock()
	b, ok := backends[name]
	return b, ok
}

// Names returns the registered backend names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
