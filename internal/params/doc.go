// Package params builds the model parameter graph for a fitting target.
//
// A graph is an insertion-ordered set of named nodes, each Free (sampled,
// with a prior), Fixed (a constant), or Derived (computed from other nodes
// through a named transform). Construction applies an explicit ordered
// sequence of patches to the graph, most gated on configuration flags;
// later patches may overwrite nodes set by earlier ones, and that
// last-writer-wins precedence is intentional and relied upon.
//
// Transforms are referenced by name only. Nothing in this package executes
// them, so a constructed graph can be compared, rendered, and handed off
// without evaluating any physics.
package params
