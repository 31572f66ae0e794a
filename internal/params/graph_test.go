package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphSetAndGet(t *testing.T) {
	g := NewGraph()
	g.Set(Node{Name: "a", Arity: 1, Status: Fixed, Init: Num(1)})
	g.Set(Node{Name: "b", Arity: 1, Status: Fixed, Init: Num(2)})

	require.Equal(t, 2, g.Len())
	assert.True(t, g.Has("a"))
	assert.False(t, g.Has("c"))

	n, ok := g.Get("b")
	require.True(t, ok)
	assert.Equal(t, "b", n.Name)
}

func TestGraphSetPanicsOnEmptyName(t *testing.T) {
	g := NewGraph()
	assert.Panics(t, func() {
		g.Set(Node{Arity: 1, Status: Fixed, Init: Num(1)})
	})
}

func TestGraphOverwriteKeepsPosition(t *testing.T) {
	g := NewGraph()
	g.Set(Node{Name: "first", Arity: 1, Status: Fixed, Init: Num(1)})
	g.Set(Node{Name: "second", Arity: 1, Status: Fixed, Init: Num(2)})
	g.Set(Node{Name: "third", Arity: 1, Status: Fixed, Init: Num(3)})

	// Overwrite the middle node; it must not move to the end.
	g.Set(Node{Name: "second", Arity: 1, Status: Free, Init: Num(20), Prior: TopHat(0, 100)})

	assert.Equal(t, []string{"first", "second", "third"}, g.Names())

	n, ok := g.Get("second")
	require.True(t, ok)
	assert.Equal(t, Free, n.Status)

	v, err := Float(n.Init)
	require.NoError(t, err)
	assert.Equal(t, 20.0, v)
}

func TestGraphNodesInInsertionOrder(t *testing.T) {
	g := NewGraph()
	for _, name := range []string{"z", "a", "m"} {
		g.Set(Node{Name: name, Arity: 1, Status: Fixed, Init: Num(0)})
	}

	var got []string
	for _, n := range g.Nodes() {
		got = append(got, n.Name)
	}
	assert.Equal(t, []string{"z", "a", "m"}, got)
}

func TestGraphClone(t *testing.T) {
	g := NewGraph()
	g.Set(Node{Name: "logzsol", Arity: 1, Status: Free, Init: Num(-0.3), Prior: TopHat(-2, 0.5)})
	g.Set(Node{
		Name:       "gas_logz",
		Arity:      1,
		Status:     Derived,
		Init:       Num(0),
		Dependency: &Dependency{Transform: "stellar_logzsol", Sources: []string{"logzsol"}},
	})

	c := g.Clone()
	require.Equal(t, g.Names(), c.Names())

	// Mutating the clone must not leak into the original.
	n, _ := c.Get("logzsol")
	n.Prior.Max = 99
	c.Set(n)
	c.Set(Node{Name: "extra", Arity: 1, Status: Fixed, Init: Num(1)})

	orig, _ := g.Get("logzsol")
	assert.Equal(t, 0.5, orig.Prior.Max)
	assert.False(t, g.Has("extra"))

	cd, _ := c.Get("gas_logz")
	cd.Dependency.Sources[0] = "mutated"
	od, _ := g.Get("gas_logz")
	assert.Equal(t, "logzsol", od.Dependency.Sources[0])
}
