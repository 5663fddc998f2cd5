package storage

//go:generate mockgen -destination=./mocks/storage.go -package=mocks . ComputeStorage

// ComputeStorage is the capability set a physical memory backend must provide. R is the backend's native
// addressable resource type, for instance a view of device memory.
//
// ComputeStorage does not track how many Handles reference an identity. Whatever sits above it is
// responsible for calling Dealloc only once no live Handle can reach the StorageID.
type ComputeStorage[R any] interface {
	// Alloc reserves size bytes and returns a Handle with full utilization bound to a newly-minted StorageID.
	// The StorageID must not alias any live identity. Running out of memory is reported as an error
	// matching ErrOutOfMemory, which the caller may recover from by freeing memory and retrying.
	Alloc(size int) (Handle, error)
	// Get resolves a Handle to the resource it addresses, honoring its offset and size. Calling Get
	// repeatedly with the same Handle yields resources over the same bytes. Calling Get with a Handle whose
	// StorageID has been deallocated panics.
	Get(handle Handle) R
	// Dealloc releases all memory associated with id. Any later use of a Handle bound to id panics.
	Dealloc(id StorageID)
}
