// Package solver hands a CNF formula to a SAT decision procedure and returns
// the text it printed.
//
// Three gateways are provided: External runs a solver binary the way minisat
// is run (input path, output path), Gophersat and Gini solve in process. The
// in-process gateways render their answer in the same "SAT"/"UNSAT" text an
// external solver writes, so package decoder is the only place where output is
// interpreted. Breaker wraps any gateway in a circuit breaker.
package solver
