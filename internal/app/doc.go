// Package app wires the coloring core to the outside world. It loads graph
// documents or generates random graphs, runs coloring attempts, writes the
// results back, and optionally serves an HTTP API, watches documents for
// changes and pushes outcomes to a socket.io endpoint. It is decoupled from
// any specific entrypoint like a CLI.
package app
