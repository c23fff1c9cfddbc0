// Package occa implements the engine interface on top of OCCA via gocca,
// covering the Serial, OpenMP, CUDA and OpenCL backends with one OKL kernel
// source.
package occa

import (
	"errors"
	"fmt"

	"github.com/notargets/gocca"

	"github.com/Trickshotblaster/cuda-kernels/engine"
)

// Lane loops tile into outer blocks of 128, one thread block per tile on GPU
// backends.
const kernelVecAdd = `
@kernel void vecAdd(const int lanes,
                    const float *A,
                    const float *B,
                    float *C,
                    const int n) {
  for (int id = 0; id < lanes; ++id; @tile(128, @outer, @inner)) {
    if (id < n) {
      C[id] = A[id] + B[id];
    }
  }
}
`

const kernelLaneIDs = `
@kernel void laneIDs(const int lanes,
                     float *ids,
                     const int n) {
  for (int id = 0; id < lanes; ++id; @tile(128, @outer, @inner)) {
    if (id < n) {
      ids[id] = (float) id;
    }
  }
}
`

// Engine owns an OCCA device and a cache of kernels built from OKL source.
type Engine struct {
	device  *gocca.OCCADevice
	kernels map[string]*gocca.OCCAKernel
}

// NewEngine opens an OCCA device from a JSON properties string such as
// `{"mode": "Serial"}` or `{"mode": "CUDA", "device_id": 0}`. The engine owns
// the device and releases it in Free.
func NewEngine(props string) (*Engine, error) {
	device, err := gocca.NewDevice(props)
	if err != nil {
		return nil, fmt.Errorf("failed to open OCCA device %s: %w", props, err)
	}
	return &Engine{
		device:  device,
		kernels: make(map[string]*gocca.OCCAKernel),
	}, nil
}

func (e *Engine) Mode() string { return e.device.Mode() }

// Alloc reserves n float32 elements of device memory. Zero-length vectors
// carry no device region at all.
func (e *Engine) Alloc(name string, n int) (engine.Vector, error) {
	if n < 0 {
		return nil, &engine.AllocationError{Buffer: name, Err: errors.New("negative length")}
	}
	if n == 0 {
		return &Vector{name: name}, nil
	}
	mem := e.device.Malloc(int64(n*4), nil, nil)
	if mem == nil {
		return nil, &engine.AllocationError{Buffer: name, Err: errors.New("device returned no memory")}
	}
	return &Vector{name: name, n: n, mem: mem}, nil
}

// AddVectors launches vecAdd across the given lane count. Lanes with
// id >= n neither read nor write.
func (e *Engine) AddVectors(a, b, c engine.Vector, lanes, n int) error {
	av, err := e.vector(a, "vecAdd")
	if err != nil {
		return err
	}
	bv, err := e.vector(b, "vecAdd")
	if err != nil {
		return err
	}
	cv, err := e.vector(c, "vecAdd")
	if err != nil {
		return err
	}
	if n > av.n || n > bv.n || n > cv.n {
		return &engine.LaunchError{Kernel: "vecAdd", Err: errors.New("bound exceeds buffer length")}
	}
	// No lane can pass the guard; skip so empty regions never reach the
	// runtime.
	if lanes <= 0 || n <= 0 {
		return nil
	}

	kernel, err := e.buildKernel("vecAdd", kernelVecAdd)
	if err != nil {
		return &engine.LaunchError{Kernel: "vecAdd", Err: err}
	}
	if err := kernel.RunWithArgs(int32(lanes), av.mem, bv.mem, cv.mem, int32(n)); err != nil {
		return &engine.LaunchError{Kernel: "vecAdd", Err: err}
	}
	return nil
}

// WriteLaneIDs launches laneIDs, storing each in-bound lane's index.
func (e *Engine) WriteLaneIDs(v engine.Vector, lanes, n int) error {
	vv, err := e.vector(v, "laneIDs")
	if err != nil {
		return err
	}
	if n > vv.n {
		return &engine.LaunchError{Kernel: "laneIDs", Err: errors.New("bound exceeds buffer length")}
	}
	if lanes <= 0 || n <= 0 {
		return nil
	}

	kernel, err := e.buildKernel("laneIDs", kernelLaneIDs)
	if err != nil {
		return &engine.LaunchError{Kernel: "laneIDs", Err: err}
	}
	if err := kernel.RunWithArgs(int32(lanes), vv.mem, int32(n)); err != nil {
		return &engine.LaunchError{Kernel: "laneIDs", Err: err}
	}
	return nil
}

// Finish blocks until all queued device work has completed.
func (e *Engine) Finish() {
	e.device.Finish()
}

// Free releases kernels, then the device.
func (e *Engine) Free() {
	for _, kernel := range e.kernels {
		kernel.Free()
	}
	e.kernels = make(map[string]*gocca.OCCAKernel)

	if e.device != nil {
		e.device.Free()
		e.device = nil
	}
}

// buildKernel compiles OKL source on first use and caches the result.
func (e *Engine) buildKernel(name, source string) (*gocca.OCCAKernel, error) {
	if kernel, ok := e.kernels[name]; ok {
		return kernel, nil
	}

	var kernel *gocca.OCCAKernel
	var err error

	if e.device.Mode() == "OpenMP" {
		// Workaround for OCCA bug: OpenMP doesn't get default -O3 flag
		props := gocca.JsonParse(`{"compiler_flags": "-O3"}`)
		defer props.Free()
		kernel, err = e.device.BuildKernelFromString(source, name, props)
	} else {
		kernel, err = e.device.BuildKernelFromString(source, name, nil)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to build kernel %s: %w", name, err)
	}
	if kernel == nil {
		return nil, fmt.Errorf("kernel build returned nil for %s", name)
	}

	e.kernels[name] = kernel
	return kernel, nil
}

func (e *Engine) vector(v engine.Vector, kernel string) (*Vector, error) {
	ov, ok := v.(*Vector)
	if !ok {
		return nil, &engine.LaunchError{
			Kernel: kernel,
			Err:    fmt.Errorf("vector %s was not allocated by the OCCA engine", v.Name()),
		}
	}
	return ov, nil
}
