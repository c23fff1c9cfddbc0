// Package host implements the engine interface on the CPU. Lanes are
// goroutines and the accelerator-resident region is a private slice. The
// explicit upload/download model is preserved so the demo behaves the same
// with or without accelerator hardware.
package host

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Trickshotblaster/cuda-kernels/engine"
)

// Engine runs kernels as goroutine fan-outs capped at GOMAXPROCS workers.
type Engine struct {
	workers int
}

// NewEngine returns a host engine. It always succeeds, which makes it the
// fallback of last resort for engine selection.
func NewEngine() *Engine {
	return &Engine{workers: runtime.GOMAXPROCS(0)}
}

func (e *Engine) Mode() string { return "Host" }

// Alloc reserves a private slice standing in for accelerator memory.
func (e *Engine) Alloc(name string, n int) (engine.Vector, error) {
	if n < 0 {
		return nil, &engine.AllocationError{Buffer: name, Err: errors.New("negative length")}
	}
	return &Vector{name: name, data: make([]float32, n)}, nil
}

// AddVectors computes c[id] = a[id] + b[id] for every lane id below the
// bound n. Lanes at or past the bound neither read nor write.
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
	if n > av.Len() || n > bv.Len() || n > cv.Len() {
		return &engine.LaunchError{Kernel: "vecAdd", Err: errors.New("bound exceeds buffer length")}
	}

	g := new(errgroup.Group)
	g.SetLimit(e.workers)
	for id := 0; id < lanes; id++ {
		g.Go(func() error {
			if id < n {
				cv.data[id] = av.data[id] + bv.data[id]
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return &engine.LaunchError{Kernel: "vecAdd", Err: err}
	}
	return nil
}

// WriteLaneIDs stores float32(id) into v[id] for every lane id below n.
func (e *Engine) WriteLaneIDs(v engine.Vector, lanes, n int) error {
	vv, err := e.vector(v, "laneIDs")
	if err != nil {
		return err
	}
	if n > vv.Len() {
		return &engine.LaunchError{Kernel: "laneIDs", Err: errors.New("bound exceeds buffer length")}
	}

	g := new(errgroup.Group)
	g.SetLimit(e.workers)
	for id := 0; id < lanes; id++ {
		g.Go(func() error {
			if id < n {
				vv.data[id] = float32(id)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return &engine.LaunchError{Kernel: "laneIDs", Err: err}
	}
	return nil
}

// Finish is a no-op: launches join their lanes before returning.
func (e *Engine) Finish() {}

func (e *Engine) Free() {}

func (e *Engine) vector(v engine.Vector, kernel string) (*Vector, error) {
	hv, ok := v.(*Vector)
	if !ok {
		return nil, &engine.LaunchError{
			Kernel: kernel,
			Err:    fmt.Errorf("vector %s was not allocated by the host engine", v.Name()),
		}
	}
	return hv, nil
}

// Vector is a host-engine buffer. The data slice plays the role of
// accelerator memory: it is never handed out, so the only way contents move
// between it and caller-owned slices is Upload and Download.
type Vector struct {
	name string
	data []float32
}

func (v *Vector) Name() string { return v.name }
func (v *Vector) Len() int     { return len(v.data) }

func (v *Vector) Upload(src []float32) error {
	if len(src) > len(v.data) {
		return &engine.TransferError{
			Buffer:    v.name,
			Direction: engine.HostToDevice,
			Err:       errors.New("source longer than buffer"),
		}
	}
	copy(v.data, src)
	return nil
}

func (v *Vector) Download(dst []float32) error {
	if len(dst) > len(v.data) {
		return &engine.TransferError{
			Buffer:    v.name,
			Direction: engine.DeviceToHost,
			Err:       errors.New("destination longer than buffer"),
		}
	}
	copy(dst, v.data)
	return nil
}

func (v *Vector) Free() { v.data = nil }
