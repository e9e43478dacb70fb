package allocator

import "unsafe"

// status distinguishes what a blockHeader currently represents.
type status uint8

const (
	statusFree status = iota
	statusAllocated
	statusMapped
)

func (s status) String() string {
	switch s {
	case statusFree:
		return "free"
	case statusAllocated:
		return "allocated"
	case statusMapped:
		return "mapped"
	default:
		return "invalid"
	}
}

// blockHeader is the fixed-size metadata record prefixed to every region the
// allocator manages, on the heap or mapped. Field order mirrors
// struct block_meta from the implementation this package is modeled on:
// size, status, then the list links.
type blockHeader struct {
	size   uintptr
	status status
	prev   *blockHeader
	next   *blockHeader
}

// headerSize is H: a compile-time constant, and a multiple of 8 so that
// every header address stays 8-aligned by construction given a
// page-aligned program break.
const headerSize = unsafe.Sizeof(blockHeader{})

// This declaration fails to compile if headerSize is not a multiple of the
// allocator's 8-byte alignment.
var _ [0]struct{} = [headerSize % 8]struct{}{}

const (
	alignment = 8

	// mmapThreshold is the mapping threshold for allocate: requests where
	// size+H >= mmapThreshold bypass the heap.
	mmapThreshold = 131072

	// preallocSize is the one-time program-break growth performed on the
	// first request that would otherwise extend the break.
	preallocSize = 131072
)

// padding computes (8 - s mod 8) mod 8: the bytes needed to round s up to
// the next multiple of 8.
func padding(s uintptr) uintptr {
	return (alignment - s%alignment) % alignment
}

// alignedSize returns s rounded up to the next multiple of 8.
func alignedSize(s uintptr) uintptr {
	return s + padding(s)
}

// headerAddr returns the address of a header as a plain uintptr, used for
// the address-ordering comparisons the registries are built on.
func headerAddr(h *blockHeader) uintptr {
	return uintptr(unsafe.Pointer(h))
}

// headerAt recovers the header prefixed to a payload pointer previously
// returned to a caller.
func headerAt(p unsafe.Pointer) *blockHeader {
	return (*blockHeader)(unsafe.Pointer(uintptr(p) - headerSize))
}

// payloadOf returns the payload pointer for a header: the first byte after
// the header's metadata.
func payloadOf(h *blockHeader) unsafe.Pointer {
	return unsafe.Pointer(headerAddr(h) + headerSize)
}

// blockEnd returns the address one past the last payload byte of h — the
// address a contiguous successor header would occupy.
func blockEnd(h *blockHeader) uintptr {
	return headerAddr(h) + headerSize + h.size
}

// headerFromAddr reinterprets a raw address as a header pointer. Used when
// carving a new header out of freshly committed or split memory.
func headerFromAddr(addr uintptr) *blockHeader {
	return (*blockHeader)(unsafe.Pointer(addr))
}

// zeroPayload writes n zero bytes across the payload h owns.
func zeroPayload(h *blockHeader, n uintptr) {
	if n == 0 {
		return
	}

	dst := unsafe.Slice((*byte)(payloadOf(h)), n)
	for i := range dst {
		dst[i] = 0
	}
}

// copyPayload copies exactly n bytes from src's payload to dst's. It does
// not clamp n; callers pass a value no larger than either payload.
func copyPayload(dst, src *blockHeader, n uintptr) {
	if n == 0 {
		return
	}

	dstSlice := unsafe.Slice((*byte)(payloadOf(dst)), n)
	srcSlice := unsafe.Slice((*byte)(payloadOf(src)), n)
	copy(dstSlice, srcSlice)
}
