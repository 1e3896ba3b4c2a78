// Package page defines the buffer pool's frame: a fixed PageSize byte
// buffer plus the metadata spec.md §3 requires (resident page id, pin
// count, dirty flag, latch). Adapted from the teacher's storage_engine/page
// package, which paired a byte buffer with a sync.RWMutex directly on the
// page struct; here the RWMutex becomes the frame's latch, acquired only
// through the page guards in package buffer, never by the pool directly.
package page

import (
	"sync"

	"bustubgo/config"
)

// Frame is one fixed-size slot in the buffer pool.
type Frame struct {
	// Data is the frame's raw PageSize-byte content.
	Data [config.PageSize]byte

	// PageID is the id of the page currently resident in this frame, or
	// config.InvalidPageID if the frame holds no page.
	PageID int64

	// PinCount is the number of outstanding pins on this frame. A frame
	// with PinCount > 0 must never be chosen as an eviction victim.
	PinCount int32

	// IsDirty is true if the in-memory content may differ from what is on
	// disk. Cleared only by a successful flush.
	IsDirty bool

	// latch is the frame's reader-writer lock, held only via page guards.
	latch sync.RWMutex
}

// Reset zeroes the frame's data and metadata, used when a frame is
// recycled off the free list or after a delete.
func (f *Frame) Reset() {
	f.Data = [config.PageSize]byte{}
	f.PageID = config.InvalidPageID
	f.PinCount = 0
	f.IsDirty = false
}

// RLatch acquires the frame's latch for shared (read) access.
func (f *Frame) RLatch() { f.latch.RLock() }

// RUnlatch releases the frame's shared latch.
func (f *Frame) RUnlatch() { f.latch.RUnlock() }

// WLatch acquires the frame's latch for exclusive (write) access.
func (f *Frame) WLatch() { f.latch.Lock() }

// WUnlatch releases the frame's exclusive latch.
func (f *Frame) WUnlatch() { f.latch.Unlock() }

// Bytes returns the frame's data as a slice, for disk I/O and on-page
// layout helpers that need to read/write raw bytes.
func (f *Frame) Bytes() []byte { return f.Data[:] }
