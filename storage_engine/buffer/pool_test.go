package buffer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bustubgo/config"
	"bustubgo/storage_engine/diskio"
	"bustubgo/storage_engine/diskmanager"
)

func newTestPool(t *testing.T, poolSize int) *Pool {
	t.Helper()
	dm, err := diskmanager.New(filepath.Join(t.TempDir(), "pages.db"))
	require.NoError(t, err)
	sched := diskio.New(dm)
	t.Cleanup(func() {
		sched.Shutdown()
		dm.ShutDown()
	})
	return NewPool(poolSize, sched, config.LRUKReplacerK)
}

func TestPool_NewPageThenFetchRoundTrips(t *testing.T) {
	p := newTestPool(t, 3)

	frame, pageID := p.NewPage()
	require.NotNil(t, frame)
	copy(frame.Bytes(), []byte("hello, page"))
	assert.True(t, p.UnpinPage(pageID, true, AccessUnknown))

	fetched := p.FetchPage(pageID, AccessUnknown)
	require.NotNil(t, fetched)
	assert.Equal(t, "hello, page", string(fetched.Bytes()[:len("hello, page")]))
	assert.True(t, p.UnpinPage(pageID, false, AccessUnknown))
}

func TestPool_ExhaustionWithAllPagesPinnedReturnsNil(t *testing.T) {
	p := newTestPool(t, 2)

	_, id0 := p.NewPage()
	_, id1 := p.NewPage()
	require.NotEqual(t, config.InvalidPageID, id0)
	require.NotEqual(t, config.InvalidPageID, id1)

	frame, id2 := p.NewPage()
	assert.Nil(t, frame)
	assert.Equal(t, config.InvalidPageID, id2)
}

func TestPool_EvictsWhenUnpinnedFrameNeeded(t *testing.T) {
	p := newTestPool(t, 1)

	frame0, id0 := p.NewPage()
	copy(frame0.Bytes(), []byte("first"))
	require.True(t, p.UnpinPage(id0, true, AccessUnknown))

	frame1, id1 := p.NewPage()
	require.NotNil(t, frame1)
	assert.NotEqual(t, id0, id1)

	require.True(t, p.UnpinPage(id1, false, AccessUnknown))

	refetched := p.FetchPage(id0, AccessUnknown)
	require.NotNil(t, refetched)
	assert.Equal(t, "first", string(refetched.Bytes()[:len("first")]))
}

func TestPool_UnpinUnknownPageReturnsFalse(t *testing.T) {
	p := newTestPool(t, 2)
	assert.False(t, p.UnpinPage(999, false, AccessUnknown))
}

func TestPool_DeletePinnedPageReturnsFalse(t *testing.T) {
	p := newTestPool(t, 2)
	_, pageID := p.NewPage()
	assert.False(t, p.DeletePage(pageID))
}

func TestPool_DeleteUnpinnedPageFreesFrame(t *testing.T) {
	p := newTestPool(t, 1)
	_, pageID := p.NewPage()
	require.True(t, p.UnpinPage(pageID, false, AccessUnknown))
	assert.True(t, p.DeletePage(pageID))

	// Frame is back on the free list, so a fresh NewPage does not need to
	// evict anything.
	frame, newID := p.NewPage()
	assert.NotNil(t, frame)
	assert.NotEqual(t, pageID, newID)
}

func TestPool_FlushPageClearsDirtyWithoutUnpinning(t *testing.T) {
	p := newTestPool(t, 2)
	frame, pageID := p.NewPage()
	copy(frame.Bytes(), []byte("dirty"))
	frame.IsDirty = true

	assert.True(t, p.FlushPage(pageID))
	assert.False(t, frame.IsDirty)
	assert.Equal(t, int32(1), frame.PinCount)
}

func TestPool_StatsReflectsOccupancy(t *testing.T) {
	p := newTestPool(t, 3)
	_, id0 := p.NewPage()

	stats := p.Stats()
	assert.Equal(t, 3, stats.PoolSize)
	assert.Equal(t, 1, stats.Resident)
	assert.Equal(t, 2, stats.Free)
	assert.Equal(t, 0, stats.Evictable)
	assert.NotEmpty(t, stats.String())

	require.True(t, p.UnpinPage(id0, false, AccessUnknown))
	assert.Equal(t, 1, p.Stats().Evictable)
	assert.Len(t, p.GetFrames(), 3)
}
