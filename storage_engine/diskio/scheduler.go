// Package diskio implements spec.md §4.2's disk scheduler: a single
// background worker that serializes reads and writes onto the disk manager
// through a promise/future handoff, in strict enqueue order.
//
// Grounded on two teacher idioms: the WAL manager's own single-writer
// background-goroutine-plus-channel shape (wal_manager spawns a goroutine
// that drains a work queue against one *os.File), and the disk manager's
// direct ReadAt/WriteAt calls this scheduler now serializes. Go has no
// std::promise/std::future, so the "single-use completion signal" from
// spec.md §3 is a buffered channel of capacity 1 attached to each request,
// exactly the shape suggested by §9's design notes ("any primitive that
// delivers a value exactly once suffices").
package diskio

import (
	"sync"

	"bustubgo/internal/dbgout"
	"bustubgo/storage_engine/diskmanager"
)

// Completion is the single-use signal a Request's issuer waits on.
type Completion chan bool

// NewCompletion allocates a fresh completion channel for a Request.
func NewCompletion() Completion {
	return make(Completion, 1)
}

// Request represents a single read or write the disk manager must execute.
// The caller owns Data and must keep it alive until Done fires.
type Request struct {
	IsWrite bool
	PageID  int64
	Data    []byte
	Done    Completion
}

// Scheduler serializes page I/O onto a single background worker.
type Scheduler struct {
	dm    *diskmanager.Manager
	queue chan *Request
	stop  chan struct{}
	wg    sync.WaitGroup
	log   *dbgout.Logger
}

// New spawns the scheduler's background worker against dm.
func New(dm *diskmanager.Manager) *Scheduler {
	s := &Scheduler{
		dm:    dm,
		queue: make(chan *Request, 256),
		stop:  make(chan struct{}),
		log:   dbgout.New("DiskScheduler"),
	}
	s.wg.Add(1)
	go s.workerLoop()
	return s
}

// Schedule enqueues req for execution. It never blocks beyond channel
// synchronization and never blocks on the request's own completion.
func (s *Scheduler) Schedule(req *Request) {
	s.queue <- req
}

// workerLoop is the sole consumer: it executes requests strictly in
// enqueue order and fulfills each one's completion signal with true, since
// this core treats disk I/O as infallible (spec.md §7, IOError).
func (s *Scheduler) workerLoop() {
	defer s.wg.Done()
	for {
		select {
		case req := <-s.queue:
			s.execute(req)
		case <-s.stop:
			s.drain()
			return
		}
	}
}

// drain finishes any requests already sitting in the queue before the
// worker exits, so a Schedule() that raced the shutdown signal is not lost
// silently.
func (s *Scheduler) drain() {
	for {
		select {
		case req := <-s.queue:
			s.execute(req)
		default:
			return
		}
	}
}

func (s *Scheduler) execute(req *Request) {
	var err error
	if req.IsWrite {
		err = s.dm.WritePage(req.PageID, req.Data)
	} else {
		err = s.dm.ReadPage(req.PageID, req.Data)
	}
	if err != nil {
		s.log.Printf("I/O error on page %d (write=%v): %v", req.PageID, req.IsWrite, err)
	}
	req.Done <- true
}

// Shutdown signals the worker to stop after draining what is already
// queued, and joins it. Matches spec.md §4.2's "destruction enqueues the
// shutdown sentinel and joins the worker."
func (s *Scheduler) Shutdown() {
	close(s.stop)
	s.wg.Wait()
}
