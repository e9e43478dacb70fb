// Package allocator implements a user-space general-purpose memory
// allocator on top of program-break and anonymous-mapping primitives. It
// tracks every live allocation with a header, reuses freed regions by best
// fit, coalesces adjacent free regions, splits oversized ones, and routes
// large requests directly to anonymous mappings.
//
// The zero value of Allocator is not ready for use; construct one with New.
// A process-wide instance is available as Default, and the package-level
// Allocate/Release/ZeroedAllocate/Resize functions operate on it.
package allocator

import "unsafe"

// Config configures an Allocator instance — the "allocator context record"
// a host program binds to either a single process-wide instance (a drop-in
// replacement) or many independent instances (library use).
type Config struct {
	// Debug enables the internal-inconsistency assertions: list loops,
	// negative computed sizes, a block turning up on the wrong list. Off
	// by default: those checks are programmer-error detectors, not
	// something a production binary should pay for.
	Debug bool

	// OnFatal, if set, is called instead of panicking when an OS
	// primitive (program-break extension or anonymous mapping) is denied
	// by the kernel. There is no recovery path — the hook is expected to
	// terminate the process or otherwise never return control to the
	// caller.
	OnFatal func(error)

	// backend is overridable only from within this package, for tests;
	// there is deliberately no exported way to plug in an alternate OS
	// backend.
	backend osBackend
}

// Option mutates a Config during construction.
type Option func(*Config)

// WithDebug enables or disables the debug-only invariant assertions.
func WithDebug(enabled bool) Option {
	return func(c *Config) { c.Debug = enabled }
}

// WithFatalHook overrides how the allocator reacts to an OS primitive
// failure. The default behaviour is to panic with an *AllocatorError.
func WithFatalHook(hook func(error)) Option {
	return func(c *Config) { c.OnFatal = hook }
}

func defaultConfig() *Config {
	return &Config{
		backend: newUnixBackend(),
	}
}

// AllocatorStats reports counters accumulated across the allocator's
// lifetime. There are deliberately no fragmentation statistics or
// debugging hooks beyond this — just enough to answer "how much memory is
// this allocator responsible for right now."
type AllocatorStats struct {
	AllocationCount  uint64
	FreeCount        uint64
	MappingCount     uint64
	UnmapCount       uint64
	BreakExtensions  uint64
	BytesFromBreak   uintptr
	BytesFromMapping uintptr
	ActiveHeapBytes  uintptr
	ActiveMapBytes   uintptr
}

// Allocator is a single allocator instance: its own pair of block
// registries and its own program break. By design, no thread safety: a
// single logical owner is expected to call into one instance; concurrent
// use requires external mutual exclusion the allocator itself does not
// provide.
type Allocator struct {
	config *Config
	os     osBackend

	free blockList
	used blockList

	preallocated bool
	breakTop     uintptr // address one past the last byte owned by the break-managed heap, or 0 before preallocation

	pageSizeCache uintptr

	stats AllocatorStats
}

// New constructs an independent Allocator instance.
func New(opts ...Option) *Allocator {
	config := defaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	return &Allocator{
		config: config,
		os:     config.backend,
	}
}

// Stats returns a snapshot of the allocator's lifetime counters.
func (a *Allocator) Stats() AllocatorStats {
	return a.stats
}

// pageSize returns the OS page size, caching it after the first query
// since it cannot change during a process's lifetime.
func (a *Allocator) pageSize() uintptr {
	if a.pageSizeCache == 0 {
		a.pageSizeCache = a.os.pageSize()
	}

	return a.pageSizeCache
}

// Default is the process-wide Allocator instance backing the package-level
// Allocate/Release/ZeroedAllocate/Resize functions — the drop-in
// replacement for malloc/free/calloc/realloc, for callers that want a
// single shared instance rather than one they construct and thread
// through themselves.
var Default = New()

// Allocate allocates size bytes using Default.
func Allocate(size uintptr) unsafe.Pointer { return Default.Allocate(size) }

// Release frees a block previously returned by Allocate/ZeroedAllocate/
// Resize on Default.
func Release(p unsafe.Pointer) { Default.Release(p) }

// ZeroedAllocate allocates count*elementSize zeroed bytes using Default.
func ZeroedAllocate(count, elementSize uintptr) unsafe.Pointer {
	return Default.ZeroedAllocate(count, elementSize)
}

// Resize grows, shrinks, or relocates a block previously returned by
// Allocate/ZeroedAllocate/Resize on Default.
func Resize(p unsafe.Pointer, newSize uintptr) unsafe.Pointer { return Default.Resize(p, newSize) }
