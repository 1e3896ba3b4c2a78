// Scoped page guards: spec.md §4.4. Grounded on
// original_source/src/storage/page/page_guard.cpp's move/Drop pattern, but
// Go has no destructors or move constructors, so the "affine ownership /
// small state machine {active(frame,dirty), inert}" spec.md §9 calls for is
// realized with an explicit `released bool` flag checked by every method
// and flipped exactly once by Drop. Callers use `defer guard.Drop()`
// instead of relying on scope exit; dropping an already-released guard
// panics via the same mustBeActive check every other method uses, matching
// the "double Drop is a detected error" contract from spec.md §4.4/§8
// scenario 4.
package buffer

import "bustubgo/storage_engine/page"

// BasicPageGuard owns a pinned frame with no latch held.
type BasicPageGuard struct {
	pool     *Pool
	frame    *page.Frame
	pageID   int64
	isDirty  bool
	released bool
}

func newBasicPageGuard(pool *Pool, frame *page.Frame, pageID int64) BasicPageGuard {
	return BasicPageGuard{pool: pool, frame: frame, pageID: pageID}
}

// IsValid reports whether the guard still owns a frame.
func (g *BasicPageGuard) IsValid() bool { return !g.released && g.frame != nil }

// PageID returns the id of the page this guard owns.
func (g *BasicPageGuard) PageID() int64 { return g.pageID }

// Data returns the frame's contents for reading.
func (g *BasicPageGuard) Data() []byte {
	g.mustBeActive()
	return g.frame.Bytes()
}

// DataMut returns the frame's contents for mutation and marks the page
// dirty for the eventual release.
func (g *BasicPageGuard) DataMut() []byte {
	g.mustBeActive()
	g.isDirty = true
	return g.frame.Bytes()
}

func (g *BasicPageGuard) mustBeActive() {
	if g.released || g.frame == nil {
		panic("buffer: use of released page guard")
	}
}

// Drop releases the guard's pin. Dropping an already-released guard is a
// detected error and panics, matching the "double Drop aborts" contract
// (spec.md §4.4, §8 scenario 4).
func (g *BasicPageGuard) Drop() {
	g.mustBeActive()
	g.pool.UnpinPage(g.pageID, g.isDirty, AccessUnknown)
	g.released = true
	g.pool = nil
	g.frame = nil
}

// move transfers ownership out of g into a fresh guard, leaving g inert.
// Used by the pool's guarded constructors and by Upgrade{Read,Write}.
func (g *BasicPageGuard) move() BasicPageGuard {
	moved := BasicPageGuard{pool: g.pool, frame: g.frame, pageID: g.pageID, isDirty: g.isDirty}
	g.released = true
	g.pool = nil
	g.frame = nil
	return moved
}

// UpgradeRead acquires the frame's shared latch and transfers the pin into
// a ReadPageGuard, leaving the basic guard inert. Never call on an inert
// guard.
func (g *BasicPageGuard) UpgradeRead() ReadPageGuard {
	g.mustBeActive()
	g.frame.RLatch()
	return ReadPageGuard{inner: g.move()}
}

// UpgradeWrite acquires the frame's exclusive latch and transfers the pin
// into a WritePageGuard, leaving the basic guard inert. Never call on an
// inert guard.
func (g *BasicPageGuard) UpgradeWrite() WritePageGuard {
	g.mustBeActive()
	g.frame.WLatch()
	return WritePageGuard{inner: g.move()}
}

// ReadPageGuard composes a BasicPageGuard with the frame's shared latch
// held.
type ReadPageGuard struct {
	inner BasicPageGuard
}

// IsValid reports whether the guard still owns a frame.
func (g *ReadPageGuard) IsValid() bool { return g.inner.IsValid() }

// PageID returns the id of the page this guard owns.
func (g *ReadPageGuard) PageID() int64 { return g.inner.PageID() }

// Data returns the frame's contents for reading.
func (g *ReadPageGuard) Data() []byte { return g.inner.Data() }

// Drop drops the shared latch, then releases the inner pin. Dropping an
// already-released guard is a detected error and panics.
func (g *ReadPageGuard) Drop() {
	g.inner.mustBeActive()
	g.inner.frame.RUnlatch()
	g.inner.Drop()
}

// WritePageGuard composes a BasicPageGuard with the frame's exclusive
// latch held.
type WritePageGuard struct {
	inner BasicPageGuard
}

// IsValid reports whether the guard still owns a frame.
func (g *WritePageGuard) IsValid() bool { return g.inner.IsValid() }

// PageID returns the id of the page this guard owns.
func (g *WritePageGuard) PageID() int64 { return g.inner.PageID() }

// Data returns the frame's contents for reading.
func (g *WritePageGuard) Data() []byte { return g.inner.Data() }

// DataMut returns the frame's contents for mutation; the eventual Drop
// will flush this guard's dirty bit into UnpinPage.
func (g *WritePageGuard) DataMut() []byte { return g.inner.DataMut() }

// Drop drops the exclusive latch, then releases the inner pin. Dropping an
// already-released guard is a detected error and panics.
func (g *WritePageGuard) Drop() {
	g.inner.mustBeActive()
	g.inner.frame.WUnlatch()
	g.inner.Drop()
}
