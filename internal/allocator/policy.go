package allocator

import "unsafe"

// This file is the allocation policy front: the decision layer for
// Allocate, Release, ZeroedAllocate, and Resize, which routes each call to
// the heap-break manager or the mapping manager and orchestrates
// split/coalesce/relocation. It plays the role SystemAllocatorImpl.Alloc/
// Free/Realloc played in the allocator this package generalizes from, each
// branch rewritten against this package's own registries instead of a
// tracked-slice design.

// Allocate returns a pointer to size freshly allocated, uninitialised
// bytes, or nil if size is 0. Requests where size+H < 131072 bytes come
// from the program-break heap; larger requests are mapped directly.
func (a *Allocator) Allocate(size uintptr) unsafe.Pointer {
	return a.allocate(size, mmapThreshold)
}

// allocate is shared by Allocate (threshold 128 KiB) and ZeroedAllocate
// (threshold: the OS page size). The threshold is the only difference in
// how the two public entry points allocate; ZeroedAllocate additionally
// zeroes the payload afterwards.
func (a *Allocator) allocate(n, threshold uintptr) unsafe.Pointer {
	if n == 0 {
		return nil
	}

	var h *blockHeader

	if n+headerSize < threshold {
		h = a.allocateFromHeap(alignedSize(n))
		if h == nil {
			return nil
		}

		a.stats.ActiveHeapBytes += h.size
	} else {
		h = a.mapAlloc(n)
		if h == nil {
			return nil
		}

		a.stats.ActiveMapBytes += h.size
	}

	a.used.insert(h)
	a.stats.AllocationCount++

	return payloadOf(h)
}

// allocateFromHeap runs the heap-break manager's reuse/extend chain:
// best-fit and split, then tail expansion, then fresh extension.
func (a *Allocator) allocateFromHeap(padded uintptr) *blockHeader {
	a.ensurePreallocated()

	if b := a.findFit(padded); b != nil {
		return a.splitOrGrant(b, padded)
	}

	if b, ok := a.extendTailFree(padded); ok {
		return b
	}

	return a.extendFresh(padded)
}

// Release returns a block previously obtained from Allocate, ZeroedAllocate,
// or Resize. p == nil is a no-op.
func (a *Allocator) Release(p unsafe.Pointer) {
	if p == nil {
		return
	}

	h := headerAt(p)

	switch h.status {
	case statusAllocated:
		a.stats.ActiveHeapBytes -= h.size
		a.used.remove(h)
		h.status = statusFree
		a.free.insert(h)
		a.coalesce()
		a.stats.FreeCount++
	case statusMapped:
		a.stats.ActiveMapBytes -= h.size
		a.used.remove(h)
		a.mapFree(h)
		a.stats.FreeCount++
	default:
		a.assertInvariant(false, "release of a block that is already free (double free)")
	}
}

// ZeroedAllocate allocates count*elementSize bytes and zeroes them. Either
// a zero count or a zero element size returns nil. This is the only public
// entry point that uses the OS page size, rather than 128 KiB, as its
// mapping threshold.
func (a *Allocator) ZeroedAllocate(count, elementSize uintptr) unsafe.Pointer {
	if count == 0 || elementSize == 0 {
		return nil
	}

	total := count * elementSize
	if total/elementSize != count {
		return nil // overflow
	}

	p := a.allocate(total, a.pageSize())
	if p == nil {
		return nil
	}

	zeroPayload(headerAt(p), total)

	return p
}

// Resize implements a ten-branch decision tree, evaluated in order; the
// first matching branch executes and returns.
func (a *Allocator) Resize(p unsafe.Pointer, n uintptr) unsafe.Pointer {
	// 1. p == nil: equivalent to allocate(n, 128 KiB).
	if p == nil {
		return a.allocate(n, mmapThreshold)
	}

	// 2. n == 0: equivalent to release(p); return nil.
	if n == 0 {
		a.Release(p)

		return nil
	}

	h := headerAt(p)

	// 3. Header is FREE: fail.
	if h.status == statusFree {
		return nil
	}

	padded := alignedSize(n)

	// 4. Stored payload size equals n+padding(n): no-op.
	if h.size == padded {
		return p
	}

	// 5. Header is MAPPED: allocate fresh, copy, release old.
	if h.status == statusMapped {
		newPtr := a.allocate(n, mmapThreshold)
		if newPtr == nil {
			return nil
		}

		copyPayload(headerAt(newPtr), h, minUintptr(n, h.size))
		a.Release(p)

		return newPtr
	}

	if n < h.size {
		return a.resizeShrink(h, padded)
	}

	return a.resizeGrow(h, n, padded)
}

// resizeShrink handles branch 6: shrink in place, carving the tail off as
// a new free block when it is large enough to be one, otherwise silently
// keeping the block at its current (larger) stored size.
func (a *Allocator) resizeShrink(h *blockHeader, padded uintptr) unsafe.Pointer {
	remainder := h.size - padded

	if remainder > headerSize+1 {
		tail := headerFromAddr(headerAddr(h) + headerSize + padded)
		tail.size = remainder - headerSize
		tail.status = statusFree
		tail.prev, tail.next = nil, nil

		a.stats.ActiveHeapBytes -= h.size - padded
		h.size = padded

		a.free.insert(tail)
		a.coalesce()
	}

	return payloadOf(h)
}

// resizeGrow handles branches 7 through 10: grow into a gap, extend the
// break if this is the last heap allocation, absorb a free neighbour, or
// relocate.
func (a *Allocator) resizeGrow(h *blockHeader, n, padded uintptr) unsafe.Pointer {
	next, hasNext := a.nextNeighbour(h)
	newEnd := headerAddr(h) + headerSize + padded

	// 7. Grow into pure unused space between h and its neighbour.
	if hasNext && newEnd < headerAddr(next) {
		a.stats.ActiveHeapBytes += padded - h.size
		h.size = padded

		return payloadOf(h)
	}

	// 8. No higher-address neighbour: this is the last heap allocation.
	if !hasNext {
		a.growBreak(padded - h.size)
		a.stats.ActiveHeapBytes += padded - h.size
		h.size = padded

		return payloadOf(h)
	}

	// 9. Absorb (part of) a free neighbour.
	if next.status == statusFree && newEnd <= blockEnd(next) {
		capacity := h.size + headerSize + next.size

		a.free.remove(next)

		leftover := capacity - padded
		if leftover > headerSize+1 {
			a.stats.ActiveHeapBytes += padded - h.size
			h.size = padded

			rem := headerFromAddr(headerAddr(h) + headerSize + padded)
			rem.size = leftover - headerSize
			rem.status = statusFree
			rem.prev, rem.next = nil, nil
			a.free.insert(rem)
		} else {
			a.stats.ActiveHeapBytes += capacity - h.size
			h.size = capacity
		}

		return payloadOf(h)
	}

	// 10. Nothing else applies: allocate fresh, copy, release old.
	newPtr := a.allocate(n, mmapThreshold)
	if newPtr == nil {
		return nil
	}

	copyPayload(headerAt(newPtr), h, minUintptr(n, h.size))
	a.Release(payloadOf(h))

	return newPtr
}

func minUintptr(a, b uintptr) uintptr {
	if a < b {
		return a
	}

	return b
}
