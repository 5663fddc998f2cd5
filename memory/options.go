package memory

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ManagementFlags indicate specific Management behaviors to activate or deactivate
type ManagementFlags int32

var managementFlagsMapping = make(map[ManagementFlags]string)

func (f ManagementFlags) String() string {
	if f == 0 {
		return "None"
	}

	var str string
	for flag := ManagementFlags(1); flag != 0 && flag <= f; flag <<= 1 {
		if f&flag == 0 {
			continue
		}
		name, ok := managementFlagsMapping[flag]
		if !ok {
			name = fmt.Sprintf("ManagementFlags(%d)", int32(flag))
		}
		if str != "" {
			str += "|"
		}
		str += name
	}
	return str
}

const (
	// ManagementExternallySynchronized ensures that the Management will not be synchronized internally. The
	// consumer must guarantee it is used from only one goroutine at a time. SliceHandle.Release remains
	// safe to call from any goroutine.
	ManagementExternallySynchronized ManagementFlags = 1 << iota
)

func init() {
	managementFlagsMapping[ManagementExternallySynchronized] = "ManagementExternallySynchronized"
}

const (
	// DefaultChunkSize is the size of chunks allocated from storage when none is provided via Options.
	// It is equal to 16Mb.
	DefaultChunkSize int = 16 * 1024 * 1024
	// DefaultAlignment is the slice alignment used when none is provided via Options
	DefaultAlignment int = 32
)

// Options contains optional settings when creating a Management
type Options struct {
	// Flags indicates specific behaviors to activate or deactivate
	Flags ManagementFlags
	// ChunkSize is the size in bytes of each allocation made from storage. Reservations larger than
	// ChunkSize receive a dedicated chunk of their own.
	ChunkSize int
	// Alignment is the alignment in bytes of every slice offset. It must be a power of two.
	Alignment int
}

func (o Options) withDefaults() (Options, error) {
	if o.Alignment == 0 {
		o.Alignment = DefaultAlignment
	}
	err := CheckPow2(o.Alignment, "memory.Options.Alignment")
	if err != nil {
		return o, err
	}

	if o.ChunkSize == 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.ChunkSize < 0 {
		return o, errors.Newf("memory.Options.ChunkSize must be 0 or positive, but was %d", o.ChunkSize)
	}
	o.ChunkSize = AlignUp(o.ChunkSize, o.Alignment)

	return o, nil
}
