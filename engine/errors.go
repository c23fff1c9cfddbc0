package engine

import "fmt"

// Direction of a host/accelerator copy.
type Direction int

const (
	HostToDevice Direction = iota
	DeviceToHost
)

func (d Direction) String() string {
	switch d {
	case HostToDevice:
		return "host to device"
	case DeviceToHost:
		return "device to host"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// AllocationError reports a failed memory request. Fatal: the orchestrator
// aborts with a diagnostic naming the buffer.
type AllocationError struct {
	Buffer string
	Err    error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("failed to allocate buffer %s: %v", e.Buffer, e.Err)
}

func (e *AllocationError) Unwrap() error { return e.Err }

// TransferError reports a failed upload or download. Fatal: the orchestrator
// aborts with a diagnostic naming the direction and buffer.
type TransferError struct {
	Buffer    string
	Direction Direction
	Err       error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("failed to copy buffer %s %s: %v", e.Buffer, e.Direction, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// LaunchError reports a kernel invocation rejected by the backend. Fatal.
type LaunchError struct {
	Kernel string
	Err    error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch kernel %s: %v", e.Kernel, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }
