// Package cnf encodes "color this graph with at most K colors" as a CNF
// formula and writes it in DIMACS form.
//
// Clause families are emitted in a fixed order so identical inputs give
// byte-identical output:
//
//  1. edge exclusion: (¬x(u,c) ∨ ¬x(v,c)) for every edge and color
//  2. at least one color per node: (x(n,1) ∨ … ∨ x(n,K))
//  3. at most one color per node: (¬x(n,c1) ∨ ¬x(n,c2)) for c1 < c2
//  4. pre-assignment units: (x(n,c)), ascending by node
//
// The declared variable count is MaxID*K, so identity gaps consume variable
// slots but no clauses.
package cnf
