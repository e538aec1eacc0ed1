// Package coloring runs one coloring attempt end to end: it encodes a
// snapshot of the graph, asks a solver gateway for a verdict, decodes it and
// writes the colors back onto the graph. The graph is only modified after
// every step has succeeded.
package coloring
