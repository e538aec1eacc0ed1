// Package cli turns command-line arguments into an app.Config and maps run
// results onto process exit codes. It owns no coloring logic.
package cli
