package cpu

import "github.com/vkngwrapper/arsenal/compute/server"

// CubePos is the position of a single cube within a launch
type CubePos = server.Shape

// CubeCount3 is the resolved launch shape of an execution
type CubeCount3 = server.Shape

// Kernel is a unit of work the cpu backend can execute. Compute is called once for every cube in the
// launch, from several goroutines at once.
type Kernel interface {
	Name() string
	Compute(pos CubePos, count CubeCount3, buffers []*Buffer)
}

type kernelFunc struct {
	name string
	fn   func(pos CubePos, count CubeCount3, buffers []*Buffer)
}

func (k kernelFunc) Name() string { return k.name }

func (k kernelFunc) Compute(pos CubePos, count CubeCount3, buffers []*Buffer) {
	k.fn(pos, count, buffers)
}

// KernelFunc creates a Kernel from a function
func KernelFunc(name string, fn func(pos CubePos, count CubeCount3, buffers []*Buffer)) Kernel {
	return kernelFunc{name: name, fn: fn}
}
