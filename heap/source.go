package heap

import (
	"errors"
	"unsafe"
)

// ErrOutOfMemory is returned by a Source when the operating system, or the
// source's reservation, cannot supply the requested extension.
var ErrOutOfMemory = errors.New("heap: out of memory")

// ErrBoundaryMismatch is returned by a Source when the caller's expected
// boundary disagrees with the source's actual break. With a single thread of
// control this indicates a corrupted heap, not a transient condition.
var ErrBoundaryMismatch = errors.New("heap: source boundary mismatch")

// Source is the capability that extends the managed region. All offsets
// handed out by Extend are relative to Base, and successive extensions are
// address-contiguous, so blocks from consecutive extensions are adjacent.
type Source interface {
	// Base returns the start of the managed region. It never changes over
	// the source's lifetime.
	Base() unsafe.Pointer

	// Extend grows the region by size bytes and returns the offset of the
	// new space. boundary is the break the caller expects; a mismatch
	// fails the extension without side effects.
	Extend(boundary uint32, size uint32) (uint32, error)
}

// BumpSource is a deterministic Source backed by a single fixed reservation.
// It stands in for true OS growth in tests and is the default source.
type BumpSource struct {
	data []byte
	brk  uint32
}

// NewBumpSource reserves capacity bytes up front.
func NewBumpSource(capacity uint32) *BumpSource {
	return &BumpSource{
		data: make([]byte, capacity),
		brk:  0,
	}
}

// Base ...
func (s *BumpSource) Base() unsafe.Pointer {
	return unsafe.Pointer(&s.data[0])
}

// Extend ...
func (s *BumpSource) Extend(boundary uint32, size uint32) (uint32, error) {
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
