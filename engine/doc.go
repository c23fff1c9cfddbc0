// Package engine defines the accelerator abstraction used by the vector
// addition demo.
//
// An Engine owns an accelerator context (an OCCA device, a WebGPU device, or
// a pool of host workers) and allocates Vectors in accelerator-resident
// memory. Host memory and accelerator memory are separate address spaces with
// no automatic coherence: data moves only through explicit Upload and
// Download calls on a Vector.
//
// Kernels execute across parallel lanes. A lane is one unit of parallel
// execution identified by an index in [0, lanes). The number of lanes
// launched is independent of the logical vector length n, and may exceed it;
// every kernel guards both its reads and its writes with the bound n, so
// lanes at or past the bound do nothing.
//
// Engines are not safe for concurrent use. The demo drives one engine from
// one goroutine; backends parallelize internally across lanes.
package engine
