package heap

import "math"

// Strategy selects the policy used to search the directory for a reusable
// free block. Exactly one strategy is active per Heap.
type Strategy int

const (
	// None disables reuse: the search always reports not-found, so every
	// allocation grows the heap. Freed blocks can still be coalesced.
	None Strategy = iota
	// FirstFit returns the first free block large enough, scanning from
	// the root.
	FirstFit
	// BestFit scans the whole directory and returns the smallest
	// qualifying block; ties favor the earliest.
	BestFit
	// WorstFit scans the whole directory and returns the largest
	// qualifying block; ties favor the earliest.
	WorstFit
	// NextFit resumes scanning from where the previous search stopped,
	// wrapping to the root once. The cursor is never reset.
	NextFit
)

func (s Strategy) String() string {
	switch s {
	case None:
		return "none"
	case FirstFit:
		return "first"
	case BestFit:
		return "best"
	case WorstFit:
		return "worst"
	case NextFit:
		return "next"
	}
	return "unknown"
}

// findFree searches the directory for a free block of at least size bytes
// under the configured strategy. It returns the offset of the selected block
// (nullPtr on miss) together with the last header visited, which growth uses
// to link a new block at the tail.
func (h *Heap) findFree(size uint32) (found uint32, last uint32) {
	last = h.root

	switch h.strategy {
	case FirstFit:
		curr := h.root
		for curr != nullPtr {
			hdr := h.header(curr)
			if hdr.free && hdr.size >= size {
				return curr, last
			}
			last = curr
			curr = hdr.next
		}
		return nullPtr, last

	case BestFit:
		best := nullPtr
		smallest := uint32(math.MaxUint32)
		for curr := h.root; curr != nullPtr; {
			hdr := h.header(curr)
			if hdr.free && hdr.size >= size && hdr.size < smallest {
				smallest = hdr.size
				best = curr
			}
			last = curr
			curr = hdr.next
		}
		return best, last

	case WorstFit:
		worst := nullPtr
		largest := uint32(0)
		for curr := h.root; curr != nullPtr; {
			hdr := h.header(curr)
			if hdr.free && hdr.size >= size && hdr.size > largest {
				largest = hdr.size
				worst = curr
			}
			last = curr
			curr = hdr.next
		}
		return worst, last

	case NextFit:
		// Forward scan from the cursor. The cursor trails the scan over
		// every rejected block and stays wherever it stops; the wrap
		// scan below does not move it.
		curr := h.cursor
		if curr == nullPtr {
			curr = h.root
		}
		for curr != nullPtr {
			hdr := h.header(curr)
			if hdr.free && hdr.size >= size {
				return curr, last
			}
			last = curr
			h.cursor = curr
			curr = hdr.next
		}
		for curr = h.root; curr != nullPtr; {
			hdr := h.header(curr)
			if hdr.free && hdr.size >= size {
				return curr, last
			}
			last = curr
			curr = hdr.next
		}
		return nullPtr, last

	default: // None
		for curr := h.root; curr != nullPtr; {
			last = curr
			curr = h.header(curr).next
		}
		return nullPtr, last
	}
}
