// Package config defines the format-agnostic graph document: the nodes,
// edges, color budget and solver settings a user writes down, together with
// the Loader and Writer interfaces implemented by the HCL and YAML packages.
//
// A Document is bound to a live graph.Graph with Bind and refreshed from one
// with Refresh, so documents can round-trip solved colors.
package config
