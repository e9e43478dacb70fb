package allocator

import "unsafe"

// newTestAllocator builds an Allocator around an injected osBackend,
// bypassing New()'s real golang.org/x/sys/unix-backed default so unit
// tests never touch the actual process break or real pages.
func newTestAllocator(backend osBackend) *Allocator {
	return &Allocator{
		config: &Config{backend: backend},
		os:     backend,
	}
}

// asBytes views a payload pointer returned by the allocator as a byte
// slice, purely for assertions in tests.
func asBytes(p unsafe.Pointer, n uintptr) []byte {
	return unsafe.Slice((*byte)(p), n)
}
