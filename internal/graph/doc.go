// Package graph holds the live graph model that the coloring pipeline reads
// from and writes back to.
//
// # Identity
//
// Every Graph owns its own identity allocator. AddNode hands out 1, 2, 3, ...
// and an identity is never reused after RemoveNode; only Clear resets the
// allocator. Identities may therefore have gaps, and MaxID (not NodeCount) is
// what sizes the variable range of an encoded formula.
//
// # Edges
//
// Edges are unordered pairs. AddEdge normalizes {u, v} to U < V and silently
// refuses self-loops, duplicates and dangling endpoints; refusing is reported
// through the returned bool, not as an error. RemoveNode cascades to all
// incident edges.
//
// # Ordering
//
// Nodes() and Edges() are sorted (by identity, then by endpoint pair). The
// encoder depends on this to emit byte-identical formulas for identical
// graphs.
//
// # Snapshots
//
// A coloring attempt works on Snapshot(), an immutable copy, so the editor
// side may keep a reference to the live Graph while a solver is running.
// Both Graph and Snapshot satisfy View.
package graph
