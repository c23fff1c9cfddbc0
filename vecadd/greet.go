package vecadd

import (
	"fmt"
	"io"

	"github.com/Trickshotblaster/cuda-kernels/engine"
)

// Greet launches the lane identity kernel and prints one greeting per lane
// that stored its index. Lanes at or past the bound never touch the buffer,
// so they stay silent; with the demo's n+1 lanes that is exactly the extra
// lane.
func Greet(w io.Writer, eng engine.Engine, lanes, n int) error {
	ids, err := NewPair(eng, "lane", n)
	if err != nil {
		return err
	}
	defer ids.Free()

	// Sentinel marks slots no lane wrote.
	for i := range ids.Host {
		ids.Host[i] = -1
	}
	if err := ids.Upload(); err != nil {
		return err
	}
	if err := eng.WriteLaneIDs(ids.Device(), lanes, n); err != nil {
		return err
	}
	eng.Finish()
	if err := ids.Download(); err != nil {
		return err
	}

	for _, id := range ids.Host {
		if id >= 0 {
			fmt.Fprintf(w, "Hello from lane %d\n", int(id))
		}
	}
	return nil
}
