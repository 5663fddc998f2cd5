package storage

import (
	"fmt"
)

// StorageID identifies a single physical allocation made by a ComputeStorage. It is an arena-style
// index/generation pair: indices are reused once an allocation is released, but the generation is bumped
// every time, so a StorageID held past Dealloc never compares equal to a newer allocation's StorageID.
//
// The zero value is not a valid StorageID.
type StorageID struct {
	index      uint32
	generation uint32
}

// Index returns the arena slot this id occupies
func (id StorageID) Index() uint32 { return id.index }

// Generation returns how many times the arena slot had been reused when this id was minted
func (id StorageID) Generation() uint32 { return id.generation }

// IsValid returns false for the zero StorageID
func (id StorageID) IsValid() bool { return id.generation != 0 }

func (id StorageID) String() string {
	return fmt.Sprintf("storage(%d:%d)", id.index, id.generation)
}

// IDPool mints StorageID values for a ComputeStorage implementation. It is not safe for concurrent use,
// consumers are expected to hold their own lock while calling into it.
type IDPool struct {
	generations []uint32
	inUse       []bool
	free        []uint32
	live        int
}

// Next returns a fresh StorageID that does not alias any live id minted by this pool
func (p *IDPool) Next() StorageID {
	var index uint32
	if len(p.free) > 0 {
		index = p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
	} else {
		index = uint32(len(p.generations))
		p.generations = append(p.generations, 0)
		p.inUse = append(p.inUse, false)
	}

	p.generations[index]++
	p.inUse[index] = true
	p.live++

	return StorageID{index: index, generation: p.generations[index]}
}

// IsLive returns true if the provided id was minted by this pool and has not been retired
func (p *IDPool) IsLive(id StorageID) bool {
	if !id.IsValid() || int(id.index) >= len(p.generations) {
		return false
	}

	return p.inUse[id.index] && p.generations[id.index] == id.generation
}

// Retire releases an id's arena slot for reuse. It panics if the id is not live.
func (p *IDPool) Retire(id StorageID) {
	if !p.IsLive(id) {
		panic(fmt.Sprintf("attempting to retire %s, which is not a live storage id", id))
	}

	p.inUse[id.index] = false
	p.free = append(p.free, id.index)
	p.live--
}

// Live returns the number of ids minted and not yet retired
func (p *IDPool) Live() int {
	return p.live
}
