//go:build unix

package heap

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// MmapSource is a Source backed by an anonymous private mapping. The whole
// capacity is mapped once at construction; Extend bumps a break within the
// mapping, mirroring the contiguity of sbrk without competing with the Go
// runtime for the program break.
type MmapSource struct {
	data []byte
	brk  uint32
}

// NewMmapSource maps capacity bytes of anonymous memory.
func NewMmapSource(capacity uint32) (*MmapSource, error) {
	data, err := unix.Mmap(-1, 0, int(capacity),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	return &MmapSource{data: data}, nil
}

// Base ...
func (s *MmapSource) Base() unsafe.Pointer {
	return unsafe.Pointer(&s.data[0])
}

// Extend ...
func (s *MmapSource) Extend(boundary uint32, size uint32) (uint32, error) {
	if boundary != s.brk {
		return 0, ErrBoundaryMismatch
	}
	if size > uint32(len(s.data))-s.brk {
		return 0, ErrOutOfMemory
	}
	addr := s.brk
	s.brk += size
	return addr, nil
}

// Close unmaps the region. Every pointer previously returned by the heap
// becomes invalid.
func (s *MmapSource) Close() error {
	data := s.data
	s.data = nil
	return unix.Munmap(data)
}
