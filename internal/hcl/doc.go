// Package hcl reads and writes graph documents in HCL:
//
//	budget = 3
//
//	solver "external" {
//	  path    = "minisat"
//	  timeout = "30s"
//	}
//
//	node "a" {
//	  color    = "red"
//	  position = [10, 20]
//	  meta     = { shape = "circle" }
//	}
//	node "b" {}
//
//	edge "a" "b" {}
//
// It implements config.Format.
package hcl
