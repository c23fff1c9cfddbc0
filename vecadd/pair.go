package vecadd

import (
	"github.com/Trickshotblaster/cuda-kernels/engine"
)

// Pair couples one host-resident region with its accelerator-resident
// counterpart. The two regions share a length and a name but no memory:
// contents move only through Upload and Download, so there is never a stale
// copy in use by accident and never a second owner of either region.
type Pair struct {
	Name string
	Host []float32

	device engine.Vector
}

// NewPair allocates both regions of a named buffer, n elements each. The
// host region starts zeroed and is populated in place.
func NewPair(eng engine.Engine, name string, n int) (*Pair, error) {
	device, err := eng.Alloc(name, n)
	if err != nil {
		return nil, err
	}
	return &Pair{Name: name, Host: make([]float32, n), device: device}, nil
}

// Len is the element count shared by both regions.
func (p *Pair) Len() int { return len(p.Host) }

// Device exposes the accelerator-resident region for kernel launches.
func (p *Pair) Device() engine.Vector { return p.device }

// Upload copies the host region into the accelerator region.
func (p *Pair) Upload() error { return p.device.Upload(p.Host) }

// Download copies the accelerator region into the host region. Synchronize
// the engine first.
func (p *Pair) Download() error { return p.device.Download(p.Host) }

// Free releases the accelerator region. The host region is garbage
// collected.
func (p *Pair) Free() { p.device.Free() }
