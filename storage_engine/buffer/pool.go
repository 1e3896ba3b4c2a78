// Package buffer implements spec.md §4.3's buffer pool manager: it owns
// the frame array, page table, free list, and LRU-K replacer, and
// orchestrates NewPage/FetchPage/Unpin/Flush/Delete through the disk
// scheduler. Grounded on the teacher's storage_engine/bufferpool package
// (map-based page table, capacity-bounded pool, LRU eviction against a
// disk manager) but rebuilt around a fixed frame array and free list plus
// the exact pin/evict protocol and mutex-released-across-I/O rule from
// spec.md §5, since the teacher's version kept its single mutex held for
// the full duration of a disk write during eviction.
package buffer

import (
	"fmt"
	"sync"
	"sync/atomic"

	"bustubgo/config"
	"bustubgo/internal/dbgout"
	"bustubgo/storage_engine/diskio"
	"bustubgo/storage_engine/page"
)

// Pool is the buffer pool manager.
type Pool struct {
	mu sync.Mutex

	poolSize   int
	frames     []page.Frame
	pageTable  map[int64]int
	freeList   []int
	replacer   *LRUKReplacer
	scheduler  *diskio.Scheduler
	nextPageID atomic.Int64
	log        *dbgout.Logger
}

// NewPool constructs a buffer pool of poolSize frames backed by scheduler,
// with the given LRU-K lookback constant.
func NewPool(poolSize int, scheduler *diskio.Scheduler, replacerK int) *Pool {
	frames := make([]page.Frame, poolSize)
	freeList := make([]int, poolSize)
	for i := range frames {
		frames[i].PageID = config.InvalidPageID
		freeList[i] = i
	}
	return &Pool{
		poolSize:  poolSize,
		frames:    frames,
		pageTable: make(map[int64]int, poolSize),
		freeList:  freeList,
		replacer:  NewLRUKReplacer(poolSize, replacerK),
		scheduler: scheduler,
		log:       dbgout.New("BufferPool"),
	}
}

// GetPoolSize returns the number of frames in the pool.
func (p *Pool) GetPoolSize() int { return p.poolSize }

// GetFrames returns the pool's underlying frame array, for diagnostics and
// tests that need to inspect resident pages directly.
func (p *Pool) GetFrames() []page.Frame { return p.frames }

// Stats is a snapshot of the pool's occupancy, for diagnostic logging.
type Stats struct {
	PoolSize  int
	Resident  int
	Free      int
	Evictable int
}

// Stats reports the pool's current occupancy.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		PoolSize:  p.poolSize,
		Resident:  len(p.pageTable),
		Free:      len(p.freeList),
		Evictable: p.replacer.Size(),
	}
}

// String renders a human-readable occupancy line, used by internal/dbgout
// callers that log pool-wide stats rather than a single page event.
func (s Stats) String() string {
	residentBytes := uint64(s.Resident) * uint64(config.PageSize)
	return fmt.Sprintf("pool=%s resident=%s (%s) free=%s evictable=%s",
		dbgout.Comma(int64(s.PoolSize)), dbgout.Comma(int64(s.Resident)),
		dbgout.Bytes(residentBytes), dbgout.Comma(int64(s.Free)), dbgout.Comma(int64(s.Evictable)))
}

// AllocatePage returns the next page id, starting at 0.
func (p *Pool) AllocatePage() int64 { return p.nextPageID.Add(1) - 1 }

// findVictimFrame must be called with p.mu held. It returns a frame index
// ready to receive a new page, evicting via the free list first and the
// replacer second, and eagerly detaches the frame's old page-table entry
// (if any) so no concurrent caller can observe or claim the frame while
// its dirty flush is in flight with the pool mutex released.
func (p *Pool) findVictimFrame() (int, bool) {
	if n := len(p.freeList); n > 0 {
		frameID := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		return frameID, true
	}
	frameID, ok := p.replacer.Evict()
	if !ok {
		return 0, false
	}
	if oldPageID := p.frames[frameID].PageID; oldPageID != config.InvalidPageID {
		delete(p.pageTable, oldPageID)
	}
	return frameID, true
}

// flushVictimIfDirty must be called with p.mu held; it releases the mutex
// across the write and reacquires it before returning, per spec.md §5.
func (p *Pool) flushVictimIfDirty(frameID int) {
	frame := &p.frames[frameID]
	if !frame.IsDirty {
		return
	}
	req := &diskio.Request{IsWrite: true, PageID: frame.PageID, Data: frame.Bytes(), Done: diskio.NewCompletion()}
	p.mu.Unlock()
	p.scheduler.Schedule(req)
	<-req.Done
	p.mu.Lock()
	frame.IsDirty = false
}

// readInto must be called with p.mu held; it releases the mutex across the
// read and reacquires it before returning.
func (p *Pool) readInto(frameID int, pageID int64) {
	frame := &p.frames[frameID]
	req := &diskio.Request{IsWrite: false, PageID: pageID, Data: frame.Bytes(), Done: diskio.NewCompletion()}
	p.mu.Unlock()
	p.scheduler.Schedule(req)
	<-req.Done
	p.mu.Lock()
}

// NewPage creates a fresh page in the pool. It returns nil and
// config.InvalidPageID if every frame is pinned and none can be evicted.
func (p *Pool) NewPage() (*page.Frame, int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, ok := p.findVictimFrame()
	if !ok {
		return nil, config.InvalidPageID
	}
	p.flushVictimIfDirty(frameID)

	newPageID := p.AllocatePage()
	frame := &p.frames[frameID]
	frame.Reset()
	frame.PageID = newPageID
	frame.PinCount = 1

	p.pageTable[newPageID] = frameID
	p.replacer.RecordAccess(frameID, AccessUnknown)
	p.replacer.SetEvictable(frameID, false)

	p.log.Printf("NEW pageID=%d frameID=%d", newPageID, frameID)
	return frame, newPageID
}

// FetchPage returns the requested page, pinned, loading it from disk if
// necessary. It returns nil if the page must be loaded but no frame is
// available.
func (p *Pool) FetchPage(pageID int64, accessType AccessType) *page.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()

	if frameID, ok := p.pageTable[pageID]; ok {
		frame := &p.frames[frameID]
		frame.PinCount++
		p.replacer.RecordAccess(frameID, accessType)
		p.replacer.SetEvictable(frameID, false)
		p.log.Printf("HIT pageID=%d frameID=%d pinCount=%d", pageID, frameID, frame.PinCount)
		return frame
	}

	frameID, ok := p.findVictimFrame()
	if !ok {
		return nil
	}
	p.flushVictimIfDirty(frameID)

	frame := &p.frames[frameID]
	frame.Reset()
	p.readInto(frameID, pageID)
	frame.PageID = pageID
	frame.PinCount = 1

	p.pageTable[pageID] = frameID
	p.replacer.RecordAccess(frameID, accessType)
	p.replacer.SetEvictable(frameID, false)

	p.log.Printf("MISS pageID=%d frameID=%d loaded from disk", pageID, frameID)
	return frame
}

// UnpinPage decrements pageID's pin count, ORs in isDirty, and marks the
// frame evictable once its pin count reaches zero. It returns false if
// pageID is not resident or already has a zero pin count.
func (p *Pool) UnpinPage(pageID int64, isDirty bool, accessType AccessType) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, ok := p.pageTable[pageID]
	if !ok {
		return false
	}
	frame := &p.frames[frameID]
	if frame.PinCount == 0 {
		return false
	}
	frame.PinCount--
	if isDirty {
		frame.IsDirty = true
	}
	if frame.PinCount == 0 {
		p.replacer.SetEvictable(frameID, true)
	}
	return true
}

// FlushPage writes pageID to disk regardless of its dirty flag and clears
// the dirty flag afterward. Returns false if pageID is not resident.
func (p *Pool) FlushPage(pageID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, ok := p.pageTable[pageID]
	if !ok {
		return false
	}
	frame := &p.frames[frameID]
	req := &diskio.Request{IsWrite: true, PageID: pageID, Data: frame.Bytes(), Done: diskio.NewCompletion()}
	p.mu.Unlock()
	p.scheduler.Schedule(req)
	<-req.Done
	p.mu.Lock()
	frame.IsDirty = false
	p.log.Printf("FLUSH pageID=%d frameID=%d", pageID, frameID)
	return true
}

// FlushAllPages flushes every resident page.
func (p *Pool) FlushAllPages() {
	p.mu.Lock()
	pageIDs := make([]int64, 0, len(p.pageTable))
	for pageID := range p.pageTable {
		pageIDs = append(pageIDs, pageID)
	}
	p.mu.Unlock()

	for _, pageID := range pageIDs {
		p.FlushPage(pageID)
	}
}

// DeletePage removes pageID from the pool. It returns true if pageID was
// not resident or was successfully deleted, and false if it is pinned.
func (p *Pool) DeletePage(pageID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, ok := p.pageTable[pageID]
	if !ok {
		return true
	}
	frame := &p.frames[frameID]
	if frame.PinCount > 0 {
		return false
	}
	delete(p.pageTable, pageID)
	p.replacer.Remove(frameID)
	frame.Reset()
	p.freeList = append(p.freeList, frameID)
	// DeallocatePage(pageID) is a no-op placeholder: page ids are never
	// recycled by this core (spec.md §3).
	return true
}

// NewPageGuarded is the guarded wrapper for NewPage.
func (p *Pool) NewPageGuarded() (BasicPageGuard, int64) {
	frame, pageID := p.NewPage()
	if frame == nil {
		return BasicPageGuard{}, config.InvalidPageID
	}
	return newBasicPageGuard(p, frame, pageID), pageID
}

// FetchPageBasic is the guarded wrapper for FetchPage returning a
// BasicPageGuard.
func (p *Pool) FetchPageBasic(pageID int64) BasicPageGuard {
	frame := p.FetchPage(pageID, AccessUnknown)
	if frame == nil {
		return BasicPageGuard{}
	}
	return newBasicPageGuard(p, frame, pageID)
}

// FetchPageRead is the guarded wrapper for FetchPage returning a
// ReadPageGuard with the shared latch already held.
func (p *Pool) FetchPageRead(pageID int64) ReadPageGuard {
	guard := p.FetchPageBasic(pageID)
	if !guard.IsValid() {
		return ReadPageGuard{}
	}
	return guard.UpgradeRead()
}

// FetchPageWrite is the guarded wrapper for FetchPage returning a
// WritePageGuard with the exclusive latch already held.
func (p *Pool) FetchPageWrite(pageID int64) WritePageGuard {
	guard := p.FetchPageBasic(pageID)
	if !guard.IsValid() {
		return WritePageGuard{}
	}
	return guard.UpgradeWrite()
}
