// Package harness runs conformance scenarios against the tabulation engine.
//
// A scenario is a YAML document that declares named tabulations and an
// ordered list of steps. Each step applies one engine operation and may
// check its outcome against an expected value, array, or error code.
// Derived tabulations can be stored under a new name for later steps.
//
// Example:
//
//	name: triangle
//	description: evaluate and integrate a triangle
//	tabulations:
//	  tri:
//	    x: [1, 2, 3]
//	    y: [0, 10, 0]
//	steps:
//	  - op: evaluate
//	    target: tri
//	    at: 1.5
//	    expect: {value: 5}
//	  - op: integrate
//	    target: tri
//	    lo: 1
//	    hi: 3
//	    expect: {value: 10}
//
// A tabulation may use `source: colina` instead of x/y to load the built-in
// solar flux table.
//
// Every executed step is appended to the Result trace with a monotonically
// increasing seq. RunWithGolden compares that trace against a golden file
// under testdata/golden.
package harness
