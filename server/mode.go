package server

// ExecutionMode selects the safety policy applied to a kernel execution
type ExecutionMode uint32

const (
	// ExecutionModeChecked requires the backend to validate that every access a kernel makes into a
	// binding stays within the binding's bounds. Violations are reported as recoverable errors and never
	// write outside the binding.
	ExecutionModeChecked ExecutionMode = iota
	// ExecutionModeUnchecked skips bounds validation. Out-of-bounds reads and writes can happen, and it
	// is the caller's responsibility to have ruled them out.
	ExecutionModeUnchecked
)

var executionModeMapping = make(map[ExecutionMode]string)

func (m ExecutionMode) String() string {
	return executionModeMapping[m]
}

func init() {
	executionModeMapping[ExecutionModeChecked] = "ExecutionModeChecked"
	executionModeMapping[ExecutionModeUnchecked] = "ExecutionModeUnchecked"
}
