package webgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Trickshotblaster/cuda-kernels/engine"
)

func createTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := NewEngine()
	if err != nil {
		t.Skipf("No WebGPU adapter available: %v", err)
	}
	return eng
}

func uploadVector(t *testing.T, eng *Engine, name string, values []float32) engine.Vector {
	t.Helper()
	v, err := eng.Alloc(name, len(values))
	if err != nil {
		t.Fatalf("Failed to allocate %s: %v", name, err)
	}
	if err := v.Upload(values); err != nil {
		t.Fatalf("Failed to upload %s: %v", name, err)
	}
	return v
}

func TestAddVectorsSampleScenario(t *testing.T) {
	eng := createTestEngine(t)
	defer eng.Free()

	values := []float32{0.1, 0.2, 0.3, 0.4, 0.5}
	n := len(values)

	a := uploadVector(t, eng, "A", values)
	defer a.Free()
	b := uploadVector(t, eng, "B", values)
	defer b.Free()
	c := uploadVector(t, eng, "C", make([]float32, n))
	defer c.Free()

	if err := eng.AddVectors(a, b, c, n+1, n); err != nil {
		t.Fatalf("Kernel launch failed: %v", err)
	}
	eng.Finish()

	got := make([]float32, n)
	if err := c.Download(got); err != nil {
		t.Fatalf("Failed to download C: %v", err)
	}

	want := []float32{0.2, 0.4, 0.6, 0.8, 1.0}
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "C[%d]", i)
	}
}

func TestExtraLaneDoesNotWrite(t *testing.T) {
	eng := createTestEngine(t)
	defer eng.Free()

	n := 5
	const sentinel = float32(-999)
	padded := func(name string) engine.Vector {
		vals := make([]float32, n+1)
		for i := 0; i < n; i++ {
			vals[i] = float32(i)
		}
		vals[n] = sentinel
		return uploadVector(t, eng, name, vals)
	}

	a := padded("A")
	defer a.Free()
	b := padded("B")
	defer b.Free()
	c := padded("C")
	defer c.Free()

	if err := eng.AddVectors(a, b, c, n+1, n); err != nil {
		t.Fatalf("Kernel launch failed: %v", err)
	}
	eng.Finish()

	got := make([]float32, n+1)
	if err := c.Download(got); err != nil {
		t.Fatalf("Failed to download C: %v", err)
	}
	assert.Equal(t, sentinel, got[n], "lane %d wrote past the bound", n)
	for i := 0; i < n; i++ {
		assert.InDelta(t, float64(2*i), float64(got[i]), 1e-4, "C[%d]", i)
	}
}

func TestLaneCountEquivalence(t *testing.T) {
	eng := createTestEngine(t)
	defer eng.Free()

	values := []float32{0.5, 1.5, 2.5, 3.5}
	n := len(values)

	run := func(lanes int) []float32 {
		a := uploadVector(t, eng, "A", values)
		defer a.Free()
		b := uploadVector(t, eng, "B", values)
		defer b.Free()
		c := uploadVector(t, eng, "C", make([]float32, n))
		defer c.Free()

		if err := eng.AddVectors(a, b, c, lanes, n); err != nil {
			t.Fatalf("Kernel launch failed with %d lanes: %v", lanes, err)
		}
		eng.Finish()

		out := make([]float32, n)
		if err := c.Download(out); err != nil {
			t.Fatalf("Failed to download C: %v", err)
		}
		return out
	}

	assert.Equal(t, run(n), run(n+1))
}

func TestWriteLaneIDs(t *testing.T) {
	eng := createTestEngine(t)
	defer eng.Free()

	n := 5
	vals := make([]float32, n+1)
	for i := range vals {
		vals[i] = -1
	}
	v := uploadVector(t, eng, "ids", vals)
	defer v.Free()

	if err := eng.WriteLaneIDs(v, n+1, n); err != nil {
		t.Fatalf("Kernel launch failed: %v", err)
	}
	eng.Finish()

	got := make([]float32, n+1)
	if err := v.Download(got); err != nil {
		t.Fatalf("Failed to download: %v", err)
	}
	for i := 0; i < n; i++ {
		assert.Equal(t, float32(i), got[i], "lane %d", i)
	}
	assert.Equal(t, float32(-1), got[n], "lane %d wrote past the bound", n)
}

func TestZeroLengthVectors(t *testing.T) {
	eng := createTestEngine(t)
	defer eng.Free()

	a, err := eng.Alloc("A", 0)
	if err != nil {
		t.Fatalf("Failed to allocate A: %v", err)
	}
	defer a.Free()
	b, err := eng.Alloc("B", 0)
	if err != nil {
		t.Fatalf("Failed to allocate B: %v", err)
	}
	defer b.Free()
	c, err := eng.Alloc("C", 0)
	if err != nil {
		t.Fatalf("Failed to allocate C: %v", err)
	}
	defer c.Free()

	if err := a.Upload(nil); err != nil {
		t.Fatalf("Empty upload failed: %v", err)
	}
	if err := eng.AddVectors(a, b, c, 1, 0); err != nil {
		t.Fatalf("Kernel launch failed: %v", err)
	}
	eng.Finish()
	if err := c.Download(nil); err != nil {
		t.Fatalf("Empty download failed: %v", err)
	}
}
