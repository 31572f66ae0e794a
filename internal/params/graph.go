package params

// Graph is an insertion-ordered mapping of node name to node.
//
// Overwriting an existing name replaces the node but keeps its original
// position, so patch precedence never reshuffles iteration order. Graphs
// are built once per target and must not be mutated after handoff to the
// fitting backend.
type Graph struct {
	order []string
	nodes map[string]Node
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]Node)}
}

// Set inserts or overwrites a node, keyed by its name.
func (g *Graph) Set(n Node) {
	if n.Name == "" {
		panic("params: node name must not be empty")
	}
	if _, exists := g.nodes[n.Name]; !exists {
		g.order = append(g.order, n.Name)
	}
	g.nodes[n.Name] = n
}

// SetAll applies Set for each node in order.
func (g *Graph) SetAll(nodes []Node) {
	for _, n := range nodes {
		g.Set(n)
	}
}

// Get returns the named node and whether it exists.
func (g *Graph) Get(name string) (Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Has reports whether the named node exists.
func (g *Graph) Has(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Names returns node names in insertion order.
func (g *Graph) Names() []string {
	return append([]string(nil), g.order...)
}

// Nodes returns all nodes in insertion order. The slice is a snapshot;
// mutating it does not affect the graph.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.nodes[name])
	}
	return out
}

// Clone returns an independent deep copy of the graph.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		order: append([]string(nil), g.order...),
		nodes: make(map[string]Node, len(g.nodes)),
	}
	for name, n := range g.nodes {
		out.nodes[name] = n.clone()
	}
	return out
}
