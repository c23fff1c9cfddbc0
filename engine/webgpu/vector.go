package webgpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/Trickshotblaster/cuda-kernels/engine"
)

// Vector is a storage buffer of float32 values. A zero-length vector holds
// no buffer.
type Vector struct {
	name string
	n    int
	eng  *Engine
	buf  *wgpu.Buffer
}

func (v *Vector) Name() string { return v.name }
func (v *Vector) Len() int     { return v.n }

// Upload writes src into the storage buffer through the queue.
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
	v.eng.queue.WriteBuffer(v.buf, 0, wgpu.ToBytes(src))
	return nil
}

// Download copies the storage buffer into dst via a MapRead staging buffer.
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
	if err := v.readInto(dst); err != nil {
		return &engine.TransferError{Buffer: v.name, Direction: engine.DeviceToHost, Err: err}
	}
	return nil
}

func (v *Vector) readInto(dst []float32) error {
	sizeBytes := uint64(len(dst) * 4)
	staging, err := v.eng.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: v.name + "_Staging",
		Size:  sizeBytes,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create staging buffer: %w", err)
	}
	defer staging.Destroy()

	encoder, err := v.eng.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}
	encoder.CopyBufferToBuffer(v.buf, 0, staging, 0, sizeBytes)
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	v.eng.queue.Submit(cmd)

	done := make(chan struct{})
	var mapErr error
	err = staging.MapAsync(wgpu.MapModeRead, 0, sizeBytes, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("map failed: %v", status)
		}
		close(done)
	})
	if err != nil {
		return fmt.Errorf("failed to map staging buffer: %w", err)
	}

	timeout := time.After(2 * time.Second)
Loop:
	for {
		v.eng.device.Poll(false, nil)
		select {
		case <-done:
			break Loop
		case <-timeout:
			return errors.New("timed out waiting for staging buffer map")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	if mapErr != nil {
		return mapErr
	}

	data := staging.GetMappedRange(0, uint(sizeBytes))
	if data == nil {
		staging.Unmap()
		return errors.New("failed to get mapped range")
	}
	copy(dst, wgpu.FromBytes[float32](data))
	staging.Unmap()
	return nil
}

// Free destroys the storage buffer. Safe to call more than once.
func (v *Vector) Free() {
	if v.buf != nil {
		v.buf.Destroy()
		v.buf = nil
	}
	v.n = 0
}
