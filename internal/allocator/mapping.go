package allocator

// This file is the mapping manager: requests that exceed the relevant
// threshold bypass the heap-break manager entirely and are serviced by a
// dedicated anonymous mapping. Mapped blocks are tracked on the used list
// but never re-enter the free list — there is no split or coalesce for
// them, only a 1:1 map/unmap.

// mapAlloc requests a fresh anonymous mapping sized to hold a header plus
// the padded payload, writes a MAPPED header at its base, and returns it.
// The stored size is the caller's unpadded request — an intentional
// asymmetry with heap blocks, which store the padded size.
func (a *Allocator) mapAlloc(requested uintptr) *blockHeader {
	padded := alignedSize(requested)

	base, err := a.os.mapAnonymous(headerSize + padded)
	if err != nil {
		a.fatal("map anonymous region", err)

		return nil
	}

	h := headerFromAddr(base)
	h.size = requested
	h.status = statusMapped
	h.prev, h.next = nil, nil

	a.stats.MappingCount++
	a.stats.BytesFromMapping += headerSize + padded

	return h
}

// mapFree releases a MAPPED block's backing mapping. Padding is recomputed
// from the stored (unpadded) size.
func (a *Allocator) mapFree(h *blockHeader) {
	padded := alignedSize(h.size)

	if err := a.os.unmap(headerAddr(h), headerSize+padded); err != nil {
		a.fatal("unmap anonymous region", err)

		return
	}

	a.stats.UnmapCount++
	a.stats.BytesFromMapping -= headerSize + padded
}
