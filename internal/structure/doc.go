// Package structure decodes and validates structure descriptors.
//
// A [Descriptor] mirrors the JSON document consumed by the viewer:
//
//	{
//	  "cell": [[5.64, 0, 0], [0, 5.64, 0], [0, 0, 5.64]],
//	  "pbc": [true, true, true],
//	  "scaledPositions": [[0, 0, 0], [0.5, 0.5, 0.5]],
//	  "chemicalSymbols": ["Na", "Cl"],
//	  "bonds": "auto"
//	}
//
// [Descriptor.Prepare] validates it and resolves species and coordinates
// into a [Structure]. Every failure wraps one of the package sentinels in a
// [ValidationError], so callers can test with errors.Is.
//
// # Loading
//
// [Decode] accepts JSON or YAML. [Fetch] reads from a file or http(s) URL
// and honours the context for cancellation.
package structure
