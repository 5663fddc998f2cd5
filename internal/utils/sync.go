package utils

import (
	"sync"
)

// RWLocker is the subset of sync.RWMutex used by the memory layers
type RWLocker interface {
	sync.Locker
	RLock()
	RUnlock()
}

type noopLocker struct{}

func (noopLocker) Lock()    {}
func (noopLocker) Unlock()  {}
func (noopLocker) RLock()   {}
func (noopLocker) RUnlock() {}

// NewLocker returns a real mutex, or a locker that does nothing when the owner has promised that
// it is externally synchronized
func NewLocker(externallySynchronized bool) sync.Locker {
	if externallySynchronized {
		return noopLocker{}
	}
	return &sync.Mutex{}
}

// NewRWLocker is the read/write counterpart of NewLocker
func NewRWLocker(externallySynchronized bool) RWLocker {
	if externallySynchronized {
		return noopLocker{}
	}
	return &sync.RWMutex{}
}
