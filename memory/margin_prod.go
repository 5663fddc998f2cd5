//go:build !debug_mem_utils

package memory

const (
	// DebugMargin is the number of bytes of debug data placed after every slice reserved by a
	// Management. It is 0 unless the debug_mem_utils build tag is present.
	DebugMargin int = 0
)

// writeMagicValue no-ops unless the debug_mem_utils build tag is present
func writeMagicValue(data []byte, offset int) {}

// validateMagicValue always succeeds unless the debug_mem_utils build tag is present
func validateMagicValue(data []byte, offset int) bool {
	return true
}

// debugValidate no-ops unless the debug_mem_utils build tag is present
func debugValidate(validatable interface{ Validate() error }) {}
