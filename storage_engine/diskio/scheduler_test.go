package diskio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bustubgo/config"
	"bustubgo/storage_engine/diskmanager"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	dm, err := diskmanager.New(filepath.Join(t.TempDir(), "pages.db"))
	require.NoError(t, err)
	s := New(dm)
	t.Cleanup(func() {
		s.Shutdown()
		dm.ShutDown()
	})
	return s
}

func TestScheduler_WriteThenReadRoundTrips(t *testing.T) {
	s := newTestScheduler(t)

	writeData := make([]byte, config.PageSize)
	writeData[0] = 0xAB
	writeReq := &Request{IsWrite: true, PageID: 1, Data: writeData, Done: NewCompletion()}
	s.Schedule(writeReq)
	<-writeReq.Done

	readData := make([]byte, config.PageSize)
	readReq := &Request{IsWrite: false, PageID: 1, Data: readData, Done: NewCompletion()}
	s.Schedule(readReq)
	<-readReq.Done

	assert.Equal(t, writeData, readData)
}

func TestScheduler_ExecutesInEnqueueOrder(t *testing.T) {
	s := newTestScheduler(t)

	var completions []int64
	var reqs []*Request
	for i := int64(0); i < 20; i++ {
		buf := make([]byte, config.PageSize)
		reqs = append(reqs, &Request{IsWrite: true, PageID: i, Data: buf, Done: NewCompletion()})
	}
	for _, req := range reqs {
		s.Schedule(req)
	}
	// The worker completes requests in enqueue order, so once the last one
	// has completed every earlier request's signal must already be set.
	last := reqs[len(reqs)-1]
	<-last.Done
	for _, req := range reqs[:len(reqs)-1] {
		select {
		case <-req.Done:
			completions = append(completions, req.PageID)
		default:
			t.Fatalf("request for page %d still pending after a later request completed", req.PageID)
		}
	}
	completions = append(completions, last.PageID)

	for i, id := range completions {
		assert.Equal(t, int64(i), id)
	}
}

func TestScheduler_ShutdownDrainsQueuedRequests(t *testing.T) {
	dm, err := diskmanager.New(filepath.Join(t.TempDir(), "pages.db"))
	require.NoError(t, err)
	defer dm.ShutDown()
	s := New(dm)

	req := &Request{IsWrite: true, PageID: 0, Data: make([]byte, config.PageSize), Done: NewCompletion()}
	s.Schedule(req)
	s.Shutdown()

	select {
	case <-req.Done:
	default:
		t.Fatal("expected request to complete before Shutdown returned")
	}
}
