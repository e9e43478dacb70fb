//go:build unix

package allocator

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// breakReservation is the span of virtual address space reserved up front
// for program-break emulation. Go has no sbrk(2) binding, so the break is
// modeled the way the Go runtime itself grows the heap on Linux (see
// sysAlloc/mmap_fixed): reserve a large PROT_NONE region once, then commit
// pages into it with mprotect as the break advances. This costs no physical
// memory until committed.
const breakReservation = 1 << 32 // 4 GiB of address space

// unixBackend is the real osBackend, built on golang.org/x/sys/unix.
type unixBackend struct {
	reserved  []byte
	base      uintptr
	committed uintptr
}

func newUnixBackend() *unixBackend {
	return &unixBackend{}
}

func (b *unixBackend) ensureReserved() error {
	if b.reserved != nil {
		return nil
	}

	data, err := unix.Mmap(-1, 0, breakReservation, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return fmt.Errorf("reserve program-break address space: %w", err)
	}

	b.reserved = data
	b.base = uintptr(unsafe.Pointer(&data[0]))

	return nil
}

func (b *unixBackend) breakAdjust(delta int64) (uintptr, error) {
	if err := b.ensureReserved(); err != nil {
		return 0, err
	}

	prev := b.base + b.committed

	switch {
	case delta > 0:
		grow := uintptr(delta)
		newCommitted := b.committed + grow

		if newCommitted > uintptr(len(b.reserved)) {
			return 0, fmt.Errorf("program break exhausted: requested %d bytes beyond %d byte reservation", newCommitted, len(b.reserved))
		}

		// mprotect needs a page-aligned start: begin at the page holding
		// the current break; its committed part keeps the same protection.
		start := b.committed &^ (uintptr(unix.Getpagesize()) - 1)
		if err := unix.Mprotect(b.reserved[start:newCommitted], unix.PROT_READ|unix.PROT_WRITE); err != nil {
			return 0, fmt.Errorf("commit program-break pages: %w", err)
		}

		b.committed = newCommitted
	case delta < 0:
		shrink := uintptr(-delta)
		if shrink > b.committed {
			shrink = b.committed
		}

		newCommitted := b.committed - shrink

		// Decommit only whole pages above the new break: round its start
		// up so the page still holding live bytes stays accessible.
		pageMask := uintptr(unix.Getpagesize()) - 1
		start := (newCommitted + pageMask) &^ pageMask
		if start < b.committed {
			if err := unix.Mprotect(b.reserved[start:b.committed], unix.PROT_NONE); err != nil {
				return 0, fmt.Errorf("decommit program-break pages: %w", err)
			}
		}

		b.committed = newCommitted
	}

	return prev, nil
}

func (b *unixBackend) mapAnonymous(size uintptr) (uintptr, error) {
	data, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return 0, fmt.Errorf("map anonymous region of %d bytes: %w", size, err)
	}

	return uintptr(unsafe.Pointer(&data[0])), nil
}

func (b *unixBackend) unmap(base, size uintptr) error {
	region := unsafe.Slice((*byte)(unsafe.Pointer(base)), size)
	if err := unix.Munmap(region); err != nil {
		return fmt.Errorf("unmap region at %#x of %d bytes: %w", base, size, err)
	}

	return nil
}

func (b *unixBackend) pageSize() uintptr {
	return uintptr(unix.Getpagesize())
}
