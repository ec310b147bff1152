// Package heap implements a free-list heap allocator over a single growable
// region of raw memory. Blocks carry a header immediately before their
// payload and form an address-ordered directory rooted at the first grown
// block. A configurable fit strategy selects free blocks for reuse;
// oversized selections are split and adjacent free blocks are coalesced
// after every release.
//
// The allocator is NOT goroutine-safe. All state is assumed to be touched by
// exactly one logical thread of control at a time; concurrent or reentrant
// use is undefined behavior.
package heap

import (
	"unsafe"

	"heapfit/stats"
)

const defaultCapacity = 1 << 20

// Heap is the allocator facade. The zero value is not usable; construct
// with New.
type Heap struct {
	source   Source
	strategy Strategy
	recorder *stats.Recorder

	base unsafe.Pointer

	root   uint32 // directory root, nullPtr until the first growth
	cursor uint32 // next-fit scan position, never reset
	brk    uint32 // expected source boundary

	reportRegistered bool
}

// Option ...
type Option func(*config)

type config struct {
	source   Source
	strategy Strategy
	recorder *stats.Recorder
	capacity uint32
}

// WithStrategy selects the fit strategy. The default is None: every
// allocation grows the heap.
func WithStrategy(s Strategy) Option {
	return func(c *config) {
		c.strategy = s
	}
}

// WithSource supplies the region the heap grows into. The default is a
// BumpSource of the configured capacity.
func WithSource(s Source) Option {
	return func(c *config) {
		c.source = s
	}
}

// WithCapacity sets the reservation size of the default BumpSource. It is
// ignored when WithSource is given.
func WithCapacity(capacity uint32) Option {
	return func(c *config) {
		c.capacity = capacity
	}
}

// WithRecorder supplies the counter recorder, letting several heaps share
// one set of process-wide counters.
func WithRecorder(r *stats.Recorder) Option {
	return func(c *config) {
		c.recorder = r
	}
}

// New ...
func New(opts ...Option) *Heap {
	conf := config{
		strategy: None,
		capacity: defaultCapacity,
	}
	for _, o := range opts {
		o(&conf)
	}
	if conf.capacity == 0 {
		panic("heap: capacity must be > 0")
	}
	if conf.source == nil {
		conf.source = NewBumpSource(conf.capacity)
	}
	if conf.recorder == nil {
		conf.recorder = &stats.Recorder{}
	}

	return &Heap{
		source:   conf.source,
		strategy: conf.strategy,
		recorder: conf.recorder,
		base:     conf.source.Base(),
		root:     nullPtr,
		cursor:   nullPtr,
		brk:      0,
	}
}

// Stats returns the heap's counter recorder.
func (h *Heap) Stats() *stats.Recorder {
	return h.recorder
}

// Strategy returns the active fit strategy.
func (h *Heap) Strategy() Strategy {
	return h.strategy
}

// grow obtains header-plus-payload bytes from the source and appends a new
// block at the directory tail. The block comes back marked used; the caller
// finalizes its state.
func (h *Heap) grow(last uint32, size uint32) (uint32, error) {
	addr, err := h.source.Extend(h.brk, headerSize+size)
	if err != nil {
		return nullPtr, err
	}
	h.brk = addr + headerSize + size

	if h.root == nullPtr {
		h.root = addr
	}
	if last != nullPtr {
		h.header(last).next = addr
	}

	hdr := h.header(addr)
	hdr.size = size
	hdr.next = nullPtr
	hdr.free = false

	h.recorder.Grow(size)
	return addr, nil
}

// split divides the block at addr into an exact-fit portion of size bytes
// and a free remainder carrying the leftover. The remainder header is
// placed inside the original block's storage, right after the new payload.
func (h *Heap) split(addr uint32, size uint32) {
	hdr := h.header(addr)
	remainder := addr + headerSize + size

	rem := h.header(remainder)
	rem.size = hdr.size - size - headerSize
	rem.free = true
	rem.next = hdr.next

	hdr.size = size
	hdr.next = remainder
}

// coalesce merges adjacent free pairs in one root-to-tail pass. The scan
// advances past a merged pair without re-examining the merged block against
// its new successor, so a run of three or more free blocks is not fully
// flattened in a single pass.
func (h *Heap) coalesce() {
	for curr := h.root; curr != nullPtr; {
		hdr := h.header(curr)
		if hdr.free && hdr.next != nullPtr {
			succ := h.header(hdr.next)
			if succ.free {
				hdr.size += succ.size + headerSize
				hdr.next = succ.next
				h.recorder.Coalesce()
			}
		}
		curr = hdr.next
	}
}

// Malloc allocates size bytes and returns the payload address, or nil when
// size is zero or the heap cannot grow.
func (h *Heap) Malloc(size uint32) unsafe.Pointer {
	if !h.reportRegistered {
		h.recorder.ReportOnExit()
		h.reportRegistered = true
	}

	size = align4(size)
	if size == 0 {
		return nil
	}

	found, last := h.findFree(size)

	if found != nullPtr && h.header(found).size > size+headerSize {
		h.split(found, size)
		h.recorder.Split()
	}

	if found == nullPtr {
		var err error
		found, err = h.grow(last, size)
		if err != nil {
			return nil
		}
	} else {
		h.recorder.Reuse()
	}

	h.header(found).free = false
	h.recorder.Malloc(size)
	return h.payload(found)
}

// Free releases the block behind ptr and coalesces adjacent free pairs.
// A nil ptr is a no-op. Releasing a free block, or a pointer this heap never
// returned, is a contract violation and panics rather than corrupting the
// directory.
func (h *Heap) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}

	addr := h.blockAddr(ptr)
	hdr := h.header(addr)
	if hdr.free {
		panic("heap: free of block that is not in use")
	}
	hdr.free = true

	h.coalesce()
	h.recorder.Free()
}

// Calloc allocates count*size bytes and zero-fills them. The product is
// deliberately unguarded: a huge count and size can wrap and under-allocate.
func (h *Heap) Calloc(count uint32, size uint32) unsafe.Pointer {
	total := count * size
	ptr := h.Malloc(total)
	if ptr == nil {
		return nil
	}

	b := unsafe.Slice((*byte)(ptr), total)
	for i := range b {
		b[i] = 0
	}
	return ptr
}

// Realloc moves the allocation behind ptr to a fresh block of size bytes.
// A nil ptr behaves like Malloc; size zero behaves like Free and returns
// nil. The block is never resized in place. When the new allocation fails
// the original block is left untouched and nil is returned.
func (h *Heap) Realloc(ptr unsafe.Pointer, size uint32) unsafe.Pointer {
	if ptr == nil {
		return h.Malloc(size)
	}
	if size == 0 {
		h.Free(ptr)
		return nil
	}

	newPtr := h.Malloc(size)
	if newPtr == nil {
		return nil
	}

	old := h.header(h.blockAddr(ptr))
	n := old.size
	if n > size {
		n = size
	}
	copy(unsafe.Slice((*byte)(newPtr), n), unsafe.Slice((*byte)(ptr), n))

	h.Free(ptr)
	return newPtr
}
