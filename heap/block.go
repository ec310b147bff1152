package heap

import (
	"math"
	"unsafe"
)

const (
	// nullPtr marks the absence of a block offset.
	nullPtr uint32 = math.MaxUint32

	// alignUnit is the payload alignment unit. Every payload size is
	// rounded up to a multiple of it, and headerSize must itself be a
	// multiple of it so payload addresses stay aligned.
	alignUnit = 4
)

// blockHeader is the fixed-size record placed immediately before every
// payload region, allocated or free. It is never constructed as a Go value;
// it exists only as an overlay on raw source memory.
type blockHeader struct {
	size uint32 // usable payload bytes, excludes header overhead
	next uint32 // offset of the next header in address order
	free bool
}

const headerSize = uint32(unsafe.Sizeof(blockHeader{}))

func init() {
	if headerSize%alignUnit != 0 {
		panic("heap: header size must be a multiple of the alignment unit")
	}
}

// align4 rounds size up to the next multiple of 4. align4(0) wraps around
// to 0, which callers treat as the zero-size no-op path.
func align4(size uint32) uint32 {
	return ((size - 1) >> 2 << 2) + 4
}

func (h *Heap) toRealAddr(addr uint32) unsafe.Pointer {
	return unsafe.Pointer(uintptr(h.base) + uintptr(addr))
}

// header overlays a blockHeader on the source memory at addr.
func (h *Heap) header(addr uint32) *blockHeader {
	return (*blockHeader)(h.toRealAddr(addr))
}

// payload returns the user-visible address of the block at addr.
func (h *Heap) payload(addr uint32) unsafe.Pointer {
	return h.toRealAddr(addr + headerSize)
}

// blockAddr recovers the header offset from a payload pointer. A pointer
// outside the managed region was never returned by this allocator, which is
// a contract violation.
func (h *Heap) blockAddr(ptr unsafe.Pointer) uint32 {
	off := uintptr(ptr) - uintptr(h.base)
	if off < uintptr(headerSize) || off >= uintptr(h.brk) {
		panic("heap: pointer does not belong to this heap")
	}
	return uint32(off) - headerSize
}

type blockInfo struct {
	addr uint32
	size uint32
	free bool
}

func (h *Heap) blockList() []blockInfo {
	var result []blockInfo
	for addr := h.root; addr != nullPtr; {
		hdr := h.header(addr)
		result = append(result, blockInfo{addr: addr, size: hdr.size, free: hdr.free})
		addr = hdr.next
	}
	return result
}

// span is the total address span covered by the directory: every payload
// size plus its header overhead. It must always equal the number of bytes
// obtained from the source.
func (h *Heap) span() uint32 {
	var total uint32
	for addr := h.root; addr != nullPtr; {
		hdr := h.header(addr)
		total += hdr.size + headerSize
		addr = hdr.next
	}
	return total
}
