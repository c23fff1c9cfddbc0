// Package webgpu implements the engine interface on WebGPU. Vectors live in
// storage buffers and kernels are WGSL compute shaders dispatched in
// workgroups of 256 invocations. Results come back through a mapped staging
// buffer.
package webgpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/Trickshotblaster/cuda-kernels/engine"
)

// Dispatch is workgroup granular, so real invocation counts round up to a
// multiple of 256. Both the lane count and the bound are baked into the
// shader and guard every invocation.
const shaderVecAdd = `
@group(0) @binding(0) var<storage, read> a : array<f32>;
@group(0) @binding(1) var<storage, read> b : array<f32>;
@group(0) @binding(2) var<storage, read_write> c : array<f32>;

const LANES: u32 = %du;
const N: u32 = %du;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
	let id = gid.x;
	if (id >= LANES || id >= N) { return; }
	c[id] = a[id] + b[id];
}
`

const shaderLaneIDs = `
@group(0) @binding(0) var<storage, read_write> ids : array<f32>;

const LANES: u32 = %du;
const N: u32 = %du;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
	let id = gid.x;
	if (id >= LANES || id >= N) { return; }
	ids[id] = f32(id);
}
`

// Engine owns a WebGPU device and a cache of compute pipelines keyed by
// kernel name and baked constants.
type Engine struct {
	instance  *wgpu.Instance
	adapter   *wgpu.Adapter
	device    *wgpu.Device
	queue     *wgpu.Queue
	pipelines map[string]*wgpu.ComputePipeline
}

// NewEngine creates instance, adapter, device and queue. Adapter selection
// prefers a discrete NVIDIA device when one is enumerable, then falls back
// through high-performance, low-power and default requests.
func NewEngine() (*Engine, error) {
	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return nil, errors.New("failed to create WebGPU instance")
	}

	var adapter *wgpu.Adapter
	for _, a := range instance.EnumerateAdapters(nil) {
		info := a.GetInfo()
		if strings.Contains(strings.ToLower(info.Name), "nvidia") ||
			strings.Contains(strings.ToLower(info.VendorName), "nvidia") {
			adapter = a
			break
		}
	}

	if adapter == nil {
		requests := []*wgpu.RequestAdapterOptions{
			{PowerPreference: wgpu.PowerPreferenceHighPerformance},
			{PowerPreference: wgpu.PowerPreferenceLowPower},
			nil,
		}
		var err error
		for _, opts := range requests {
			adapter, err = instance.RequestAdapter(opts)
			if adapter != nil {
				break
			}
		}
		if adapter == nil {
			return nil, fmt.Errorf("all adapter requests failed: %v", err)
		}
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}

	info := adapter.GetInfo()
	fmt.Printf("Using WebGPU adapter: %s (%s)\n", info.Name, info.VendorName)

	return &Engine{
		instance:  instance,
		adapter:   adapter,
		device:    device,
		queue:     device.GetQueue(),
		pipelines: make(map[string]*wgpu.ComputePipeline),
	}, nil
}

func (e *Engine) Mode() string { return "WebGPU" }

// Alloc reserves a storage buffer of n float32 elements. Zero-length vectors
// carry no buffer, since WebGPU rejects empty bindings.
func (e *Engine) Alloc(name string, n int) (engine.Vector, error) {
	if n < 0 {
		return nil, &engine.AllocationError{Buffer: name, Err: errors.New("negative length")}
	}
	if n == 0 {
		return &Vector{name: name, eng: e}, nil
	}
	buf, err := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: name,
		Size:  uint64(n * 4),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, &engine.AllocationError{Buffer: name, Err: err}
	}
	return &Vector{name: name, n: n, eng: e, buf: buf}, nil
}

// AddVectors dispatches the vecAdd shader across ceil(lanes/256) workgroups.
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
	// No invocation can pass the guard; skip so empty buffers never bind.
	if lanes <= 0 || n <= 0 {
		return nil
	}

	source := fmt.Sprintf(shaderVecAdd, lanes, n)
	pipeline, err := e.pipeline(fmt.Sprintf("vecAdd_%d_%d", lanes, n), "vecAdd", source)
	if err != nil {
		return &engine.LaunchError{Kernel: "vecAdd", Err: err}
	}
	entries := []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: av.buf, Size: av.buf.GetSize()},
		{Binding: 1, Buffer: bv.buf, Size: bv.buf.GetSize()},
		{Binding: 2, Buffer: cv.buf, Size: cv.buf.GetSize()},
	}
	if err := e.dispatch(pipeline, entries, lanes); err != nil {
		return &engine.LaunchError{Kernel: "vecAdd", Err: err}
	}
	return nil
}

// WriteLaneIDs dispatches the laneIDs shader.
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

	source := fmt.Sprintf(shaderLaneIDs, lanes, n)
	pipeline, err := e.pipeline(fmt.Sprintf("laneIDs_%d_%d", lanes, n), "laneIDs", source)
	if err != nil {
		return &engine.LaunchError{Kernel: "laneIDs", Err: err}
	}
	entries := []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: vv.buf, Size: vv.buf.GetSize()},
	}
	if err := e.dispatch(pipeline, entries, lanes); err != nil {
		return &engine.LaunchError{Kernel: "laneIDs", Err: err}
	}
	return nil
}

// Finish blocks until submitted work has drained.
func (e *Engine) Finish() {
	e.device.Poll(true, nil)
}

// Free releases the pipeline cache. The binding ties device and instance
// lifetime to the process, so only pipeline objects are reference counted
// here.
func (e *Engine) Free() {
	for _, p := range e.pipelines {
		p.Release()
	}
	e.pipelines = make(map[string]*wgpu.ComputePipeline)
}

// pipeline compiles a shader into a compute pipeline on first use.
func (e *Engine) pipeline(key, label, source string) (*wgpu.ComputePipeline, error) {
	if p, ok := e.pipelines[key]; ok {
		return p, nil
	}

	module, err := e.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label + "_Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader %s: %w", label, err)
	}
	p, err := e.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:   label + "_Pipe",
		Compute: wgpu.ProgrammableStageDescriptor{Module: module, EntryPoint: "main"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline %s: %w", label, err)
	}

	e.pipelines[key] = p
	return p, nil
}

// dispatch records one compute pass and submits it.
func (e *Engine) dispatch(pipeline *wgpu.ComputePipeline, entries []wgpu.BindGroupEntry, lanes int) error {
	bindGroup, err := e.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "launch_Bind",
		Layout:  pipeline.GetBindGroupLayout(0),
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group: %w", err)
	}
	defer bindGroup.Release()

	encoder, err := e.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(uint32((lanes+255)/256), 1, 1)
	pass.End()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	e.queue.Submit(cmd)
	return nil
}

func (e *Engine) vector(v engine.Vector, kernel string) (*Vector, error) {
	wv, ok := v.(*Vector)
	if !ok {
		return nil, &engine.LaunchError{
			Kernel: kernel,
			Err:    fmt.Errorf("vector %s was not allocated by the WebGPU engine", v.Name()),
		}
	}
	return wv, nil
}
