//go:build debug_mem_utils

package memory

import "encoding/binary"

const (
	// DebugMargin is the number of bytes of debug data placed after every slice reserved by a
	// Management. It is 0 unless the debug_mem_utils build tag is present.
	DebugMargin int = 16
	// corruptionDetectionMagicValue is the 4-byte pattern repeated across every debug margin
	corruptionDetectionMagicValue uint32 = 0x7F84E666
)

// writeMagicValue fills DebugMargin bytes at offset with corruptionDetectionMagicValue
func writeMagicValue(data []byte, offset int) {
	margin := data[offset : offset+DebugMargin]
	for i := 0; i < DebugMargin; i += 4 {
		binary.LittleEndian.PutUint32(margin[i:], corruptionDetectionMagicValue)
	}
}

// validateMagicValue returns false if the margin written by writeMagicValue at offset has been overwritten
func validateMagicValue(data []byte, offset int) bool {
	margin := data[offset : offset+DebugMargin]
	for i := 0; i < DebugMargin; i += 4 {
		if binary.LittleEndian.Uint32(margin[i:]) != corruptionDetectionMagicValue {
			return false
		}
	}
	return true
}

// debugValidate panics if the provided object fails validation
func debugValidate(validatable interface{ Validate() error }) {
	err := validatable.Validate()
	if err != nil {
		panic(err)
	}
}
