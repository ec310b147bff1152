// Package heapfit exposes a process-wide default heap with the four
// canonical memory-management operations, shaped like a drop-in replacement
// for a process's dynamic-memory service. Library users who want isolated
// heaps should use package heapfit/heap directly.
//
// Like the underlying heap, the default instance assumes a single logical
// thread of control. There is no locking.
package heapfit

import (
	"unsafe"

	"heapfit/heap"
	"heapfit/stats"
)

var defaultHeap *heap.Heap

// Configure replaces the process-wide heap. Blocks handed out by the
// previous heap stay valid but can no longer be freed through this package.
func Configure(opts ...heap.Option) {
	defaultHeap = heap.New(opts...)
}

func std() *heap.Heap {
	if defaultHeap == nil {
		defaultHeap = heap.New()
	}
	return defaultHeap
}

// Malloc allocates size bytes from the default heap.
func Malloc(size uint32) unsafe.Pointer {
	return std().Malloc(size)
}

// Free releases a block allocated from the default heap.
func Free(ptr unsafe.Pointer) {
	std().Free(ptr)
}

// Calloc allocates count*size zeroed bytes from the default heap.
func Calloc(count uint32, size uint32) unsafe.Pointer {
	return std().Calloc(count, size)
}

// Realloc resizes a block from the default heap by moving it.
func Realloc(ptr unsafe.Pointer, size uint32) unsafe.Pointer {
	return std().Realloc(ptr, size)
}

// Stats returns the default heap's counters.
func Stats() *stats.Recorder {
	return std().Stats()
}
