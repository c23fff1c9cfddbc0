package vecadd

import (
	"fmt"
	"io"
	"os"

	"github.com/Trickshotblaster/cuda-kernels/engine"
)

// Config holds the inputs for one run. The zero value of every optional
// field selects the demo default.
type Config struct {
	// A and B are the input vectors. They must share a length; that length
	// is the bound n.
	A, B []float32

	// Lanes is the parallel lane count for the launch. Zero or negative
	// selects n+1, one lane past the bound, which exercises the kernel's
	// bounds check.
	Lanes int

	// Tolerance is the absolute validation tolerance. Zero or negative
	// selects the package default.
	Tolerance float64

	// Out receives the diagnostic output. Nil selects os.Stdout.
	Out io.Writer
}

// Result of a completed run.
type Result struct {
	// C is the downloaded output vector.
	C []float32

	// Verdicts holds one validation outcome per element.
	Verdicts []Verdict

	// Mismatches counts verdicts outside tolerance. Mismatches do not make
	// the run an error.
	Mismatches int
}

// Run drives the full sequence: allocate, initialize, upload, launch,
// synchronize, download, validate, release. Fatal failures come back as
// AllocationError, TransferError or LaunchError values naming the failing
// step; the caller aborts on them. A Result with mismatches is still a
// successful run.
func Run(eng engine.Engine, cfg Config) (*Result, error) {
	if len(cfg.A) != len(cfg.B) {
		return nil, fmt.Errorf("input length mismatch: A has %d elements, B has %d", len(cfg.A), len(cfg.B))
	}
	n := len(cfg.A)
	lanes := cfg.Lanes
	if lanes <= 0 {
		lanes = n + 1
	}
	tol := cfg.Tolerance
	if tol <= 0 {
		tol = Tolerance
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	// Allocate both regions of each buffer.
	a, err := NewPair(eng, "A", n)
	if err != nil {
		return nil, err
	}
	defer a.Free()
	b, err := NewPair(eng, "B", n)
	if err != nil {
		return nil, err
	}
	defer b.Free()
	c, err := NewPair(eng, "C", n)
	if err != nil {
		return nil, err
	}
	defer c.Free()

	// Initialize host regions. C stays zeroed.
	copy(a.Host, cfg.A)
	copy(b.Host, cfg.B)

	// Upload.
	if err := a.Upload(); err != nil {
		return nil, err
	}
	if err := b.Upload(); err != nil {
		return nil, err
	}
	if err := c.Upload(); err != nil {
		return nil, err
	}

	// Launch across lanes, which may exceed n.
	if err := eng.AddVectors(a.Device(), b.Device(), c.Device(), lanes, n); err != nil {
		return nil, err
	}

	// Synchronize, then download the result.
	eng.Finish()
	if err := c.Download(); err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "A = %v\n", a.Host)
	fmt.Fprintf(out, "B = %v\n", b.Host)
	fmt.Fprintf(out, "C = %v\n", c.Host)

	// Validate element by element.
	verdicts := Validate(a.Host, b.Host, c.Host, tol)
	mismatches := Report(out, verdicts)

	return &Result{
		C:          append([]float32(nil), c.Host...),
		Verdicts:   verdicts,
		Mismatches: mismatches,
	}, nil
}
