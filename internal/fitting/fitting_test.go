package fitting

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct{ name string }

func (f fakeBackend) Name() string { return f.name }
func (f fakeBackend) Run(ctx context.Context, in Input) (*Result, error) {
	return &Result{Note: "fake"}, nil
}

func TestLookupDryRun(t *testing.T) {
	b, ok := Lookup("dryrun")
	require.True(t, ok)
	assert.Equal(t, "dryrun", b.Name())
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("emcee")
	assert.False(t, ok)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() { Register(DryRun{}) })
}

func TestNamesSorted(t *testing.T) {
	Register(fakeBackend{name: "zz-test-backend"})

	names := Names()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "dryrun")
	assert.Contains(t, names, "zz-test-backend")
}
