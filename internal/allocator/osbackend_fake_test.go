package allocator

import (
	"fmt"
	"unsafe"
)

// fakeBackend is an osBackend backed by an ordinary Go slice instead of real
// mmap/mprotect calls, the same trick an arena-style bump-pointer allocator
// uses for its buffer (buffer := make([]byte, size)). Go's garbage
// collector does not move heap objects, so addresses derived from a
// slice's backing array with unsafe.Pointer stay valid for as long as the
// slice itself is reachable — here, for the fakeBackend's own lifetime.
type fakeBackend struct {
	region    []byte
	committed uintptr
	mappings  map[uintptr][]byte

	// breakLimit, if non-zero, makes breakAdjust fail once committed would
	// exceed it — used to simulate program-break exhaustion.
	breakLimit uintptr

	// mapFails, if true, makes mapAnonymous always fail — used to simulate
	// a kernel refusing an anonymous mapping.
	mapFails bool
}

func newFakeBackend(capacity uintptr) *fakeBackend {
	return &fakeBackend{
		region:   make([]byte, capacity),
		mappings: make(map[uintptr][]byte),
	}
}

func (f *fakeBackend) base() uintptr {
	return uintptr(unsafe.Pointer(&f.region[0]))
}

func (f *fakeBackend) breakAdjust(delta int64) (uintptr, error) {
	prev := f.base() + f.committed

	switch {
	case delta > 0:
		grow := uintptr(delta)
		newCommitted := f.committed + grow

		limit := f.breakLimit
		if limit == 0 {
			limit = uintptr(len(f.region))
		}

		if newCommitted > limit {
			return 0, fmt.Errorf("fake: program break exhausted at %d bytes", limit)
		}

		f.committed = newCommitted
	case delta < 0:
		shrink := uintptr(-delta)
		if shrink > f.committed {
			shrink = f.committed
		}

		f.committed -= shrink
	}

	return prev, nil
}

func (f *fakeBackend) mapAnonymous(size uintptr) (uintptr, error) {
	if f.mapFails {
		return 0, fmt.Errorf("fake: anonymous mapping refused")
	}

	buf := make([]byte, size)
	base := uintptr(unsafe.Pointer(&buf[0]))
	f.mappings[base] = buf

	return base, nil
}

func (f *fakeBackend) unmap(base, _ uintptr) error {
	if _, ok := f.mappings[base]; !ok {
		return fmt.Errorf("fake: unmap of untracked mapping at %#x", base)
	}

	delete(f.mappings, base)

	return nil
}

func (f *fakeBackend) pageSize() uintptr {
	return 4096
}
