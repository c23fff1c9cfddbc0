package occa

import (
	"errors"
	"unsafe"

	"github.com/notargets/gocca"

	"github.com/Trickshotblaster/cuda-kernels/engine"
)

// Vector is a device-resident float32 buffer. A zero-length vector holds no
// device memory.
type Vector struct {
	name string
	n    int
	mem  *gocca.OCCAMemory
}

func (v *Vector) Name() string { return v.name }
func (v *Vector) Len() int     { return v.n }

// Upload copies src into device memory.
func (v *Vector) Upload(src []float32) error {
	if len(src) == 0 {
		return nil
	}
	if len(src) > v.n {
		return &engine.TransferError{
			Buffer:    v.name,
			Direction: engine.HostToDevice,
			Err:       errors.New("source longer than buffer"),
		}
	}
	v.mem.CopyFrom(unsafe.Pointer(&src[0]), int64(len(src)*4))
	return nil
}

// Download copies device memory into dst. Callers call Engine.Finish first
// so queued kernel writes are visible.
func (v *Vector) Download(dst []float32) error {
	if len(dst) == 0 {
		return nil
	}
	if len(dst) > v.n {
		return &engine.TransferError{
			Buffer:    v.name,
			Direction: engine.DeviceToHost,
			Err:       errors.New("destination longer than buffer"),
		}
	}
	v.mem.CopyTo(unsafe.Pointer(&dst[0]), int64(len(dst)*4))
	return nil
}

// Free releases the device region. Safe to call more than once.
func (v *Vector) Free() {
	if v.mem != nil {
		v.mem.Free()
		v.mem = nil
	}
	v.n = 0
}
