package engine

// Vector is an accelerator-resident buffer of float32 values paired by name
// with a host-side region. The two sides are kept in sync only by explicit
// Upload and Download calls.
type Vector interface {
	// Name identifies the buffer in diagnostics ("A", "B", "C").
	Name() string

	// Len is the logical element count n.
	Len() int

	// Upload copies len(src) elements from host memory into the
	// accelerator-resident region. Errors are TransferError.
	Upload(src []float32) error

	// Download copies len(dst) elements from the accelerator-resident
	// region into host memory. Callers synchronize the engine first.
	// Errors are TransferError.
	Download(dst []float32) error

	// Free releases the accelerator-resident region. Safe to call more
	// than once.
	Free()
}

// Engine builds and launches kernels on one accelerator backend.
type Engine interface {
	// Mode names the backend ("Serial", "OpenMP", "CUDA", "WebGPU", "Host").
	Mode() string

	// Alloc reserves an accelerator-resident region of n float32 elements.
	// Errors are AllocationError.
	Alloc(name string, n int) (Vector, error)

	// AddVectors launches the elementwise add kernel across the given
	// number of lanes: each lane id with id < n computes
	// c[id] = a[id] + b[id]; lanes at or past n neither read nor write.
	// Errors are LaunchError.
	AddVectors(a, b, c Vector, lanes, n int) error

	// WriteLaneIDs launches the lane identity kernel: each lane id with
	// id < n stores float32(id) into v[id]. Errors are LaunchError.
	WriteLaneIDs(v Vector, lanes, n int) error

	// Finish blocks until all launched work has completed. Download
	// results only after Finish returns.
	Finish()

	// Free releases kernels and the accelerator context. Vectors are
	// released individually.
	Free()
}
