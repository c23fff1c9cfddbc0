// Command vecadd runs the parallel vector addition demo: one kernel launch
// over two fixed five-element input vectors, with a deliberate extra lane
// past the bound and per-element validation against a 1e-4 tolerance.
//
// It takes no arguments and reads no configuration. Output goes to stdout;
// validation mismatches are reported but still exit 0. Allocation, transfer
// and launch failures abort with a diagnostic.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Trickshotblaster/cuda-kernels/utils"
	"github.com/Trickshotblaster/cuda-kernels/vecadd"
)

// Demo parameters
const (
	VectorLength = 5                // The bound n
	LaneCount    = VectorLength + 1 // One lane past the bound
)

func main() {
	// Create computational engine
	eng := utils.OpenEngine()
	defer eng.Free()

	fmt.Printf("=== Parallel Vector Addition ===\n")
	fmt.Printf("Elements: %d\n", VectorLength)
	fmt.Printf("Lanes: %d\n\n", LaneCount)

	// Every lane inside the bound announces itself
	if err := vecadd.Greet(os.Stdout, eng, LaneCount, VectorLength); err != nil {
		log.Fatalf("Lane greeting failed: %v", err)
	}
	fmt.Println()

	// Allocate, upload, launch, download, validate
	sample := []float32{0.1, 0.2, 0.3, 0.4, 0.5}
	res, err := vecadd.Run(eng, vecadd.Config{
		A:     sample,
		B:     sample,
		Lanes: LaneCount,
	})
	if err != nil {
		log.Fatalf("Vector addition failed: %v", err)
	}

	// Mismatches were reported above; they do not fail the demo
	fmt.Printf("\n%d of %d elements correct\n", len(res.Verdicts)-res.Mismatches, len(res.Verdicts))
}
