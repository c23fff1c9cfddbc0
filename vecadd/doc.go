// Package vecadd orchestrates the parallel vector addition demo: allocate
// paired host/accelerator buffers, upload inputs, launch the elementwise add
// kernel across more lanes than elements, synchronize, download the result
// and validate every element against a tolerance.
//
// The orchestration is a strict sequence with no branching and no retries.
// Allocation, transfer and launch failures abort with a diagnostic naming
// the failing step and buffer. Validation mismatches are not failures: they
// are reported per element and the run still counts as successful.
package vecadd
