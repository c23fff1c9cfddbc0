package utils

import (
	"fmt"

	"github.com/Trickshotblaster/cuda-kernels/engine"
	"github.com/Trickshotblaster/cuda-kernels/engine/host"
	"github.com/Trickshotblaster/cuda-kernels/engine/occa"
	"github.com/Trickshotblaster/cuda-kernels/engine/webgpu"
)

// OpenEngine creates an engine, preferring parallel accelerator backends.
// OCCA modes are tried first, then WebGPU, then the host engine, which
// always works.
func OpenEngine() engine.Engine {
	// Try OpenMP, then CUDA, then fall back to Serial
	backends := []string{
		`{"mode": "OpenMP"}`,
		`{"mode": "CUDA", "device_id": 0}`,
		`{"mode": "Serial"}`,
	}

	for _, props := range backends {
		eng, err := occa.NewEngine(props)
		if err == nil {
			fmt.Printf("Created %s engine\n", eng.Mode())
			return eng
		}
	}

	if eng, err := webgpu.NewEngine(); err == nil {
		fmt.Printf("Created %s engine\n", eng.Mode())
		return eng
	}

	eng := host.NewEngine()
	fmt.Printf("Created %s engine\n", eng.Mode())
	return eng
}

// CreateTestEngine creates an engine for testing, same preference order as
// OpenEngine.
func CreateTestEngine() engine.Engine {
	return OpenEngine()
}

// OpenNamedEngine creates one specific backend by mode name: "OpenMP",
// "CUDA", "OpenCL", "Serial", "WebGPU" or "Host".
func OpenNamedEngine(name string) (engine.Engine, error) {
	switch name {
	case "Host":
		return host.NewEngine(), nil
	case "WebGPU":
		return webgpu.NewEngine()
	case "OpenMP", "Serial":
		return occa.NewEngine(fmt.Sprintf(`{"mode": %q}`, name))
	case "CUDA":
		return occa.NewEngine(`{"mode": "CUDA", "device_id": 0}`)
	case "OpenCL":
		return occa.NewEngine(`{"mode": "OpenCL", "platform_id": 0, "device_id": 0}`)
	}
	return nil, fmt.Errorf("unknown engine %q", name)
}
