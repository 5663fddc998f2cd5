package memory

import (
	"fmt"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Usage describes the memory held by a Management at a point in time
type Usage struct {
	// NumberAllocs is the number of live slices
	NumberAllocs int
	// BytesInUse is the number of bytes requested by the live slices
	BytesInUse int
	// BytesPadding is the number of bytes added to live slices to satisfy alignment and debug margins
	BytesPadding int
	// BytesReserved is the number of bytes allocated from the storage, whether used or not
	BytesReserved int
}

// Combine returns the sum of two Usage values
func (u Usage) Combine(other Usage) Usage {
	return Usage{
		NumberAllocs:  u.NumberAllocs + other.NumberAllocs,
		BytesInUse:    u.BytesInUse + other.BytesInUse,
		BytesPadding:  u.BytesPadding + other.BytesPadding,
		BytesReserved: u.BytesReserved + other.BytesReserved,
	}
}

// BytesFree is the number of reserved bytes not occupied by a live slice or its padding
func (u Usage) BytesFree() int {
	return u.BytesReserved - u.BytesInUse - u.BytesPadding
}

func (u Usage) String() string {
	usedPercentage := 0.0
	if u.BytesReserved > 0 {
		usedPercentage = float64(u.BytesInUse) / float64(u.BytesReserved) * 100
	}

	return fmt.Sprintf("Memory Usage Report:\n  Number of allocations: %d\n  Bytes in use: %s\n  Bytes used for padding: %s\n  Total bytes reserved: %s\n  Usage: %.2f%%",
		u.NumberAllocs,
		byteString(u.BytesInUse),
		byteString(u.BytesPadding),
		byteString(u.BytesReserved),
		usedPercentage,
	)
}

// WriteJSON writes the usage as a json object
func (u Usage) WriteJSON(writer *jwriter.Writer) {
	obj := writer.Object()
	defer obj.End()

	u.writeFields(&obj)
}

func (u Usage) writeFields(obj *jwriter.ObjectState) {
	obj.Name("Allocations").Int(u.NumberAllocs)
	obj.Name("BytesInUse").Int(u.BytesInUse)
	obj.Name("BytesPadding").Int(u.BytesPadding)
	obj.Name("BytesReserved").Int(u.BytesReserved)
}

func byteString(bytes int) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := unit, 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
