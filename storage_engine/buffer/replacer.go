// LRU-K eviction policy: spec.md §4.1. Grounded directly on
// original_source/src/buffer/lru_k_replacer.cpp (a per-frame node holding
// its most-recent-first access history, a mutex-guarded node map, and a
// linear scan over evictable nodes at Evict time), rewritten in the
// teacher's idiom of small structs with plain exported methods rather than
// std::shared_ptr nodes.
package buffer

import (
	"fmt"
	"sync"
)

const infiniteKDistance = ^uint64(0)

// AccessType is accepted by RecordAccess but does not influence selection
// in this core (spec.md §4.1).
type AccessType int

const (
	AccessUnknown AccessType = iota
	AccessLookup
	AccessScan
	AccessIndex
)

type lruKNode struct {
	frameID int
	// history holds access timestamps, most-recent-first.
	history   []uint64
	evictable bool
}

// kDistance returns the node's backward k-distance at the given current
// timestamp: now minus the k-th most recent access, or +infinity if the
// node has recorded fewer than k accesses.
func (n *lruKNode) kDistance(now uint64, k int) uint64 {
	if len(n.history) < k {
		return infiniteKDistance
	}
	return now - n.history[k-1]
}

// earliestTimestamp returns the oldest timestamp this node remembers,
// used to break k-distance ties.
func (n *lruKNode) earliestTimestamp() uint64 {
	return n.history[len(n.history)-1]
}

// LRUKReplacer selects the eviction victim among currently-evictable
// frames using the LRU-K policy.
type LRUKReplacer struct {
	mu sync.Mutex

	nodeStore map[int]*lruKNode
	k         int
	// replacerSize is the capacity: valid frame ids are [0, replacerSize).
	replacerSize int
	// currentTimestamp is a monotonically increasing logical clock.
	currentTimestamp uint64
	// evictableSize is the count of currently-evictable nodes.
	evictableSize int
}

// NewLRUKReplacer constructs a replacer tracking up to numFrames frames,
// with lookback constant k.
func NewLRUKReplacer(numFrames, k int) *LRUKReplacer {
	return &LRUKReplacer{
		nodeStore:    make(map[int]*lruKNode),
		k:            k,
		replacerSize: numFrames,
	}
}

// RecordAccess advances the logical clock and records an access to
// frameID, creating its node on first sight.
func (r *LRUKReplacer) RecordAccess(frameID int, accessType AccessType) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if frameID < 0 || frameID >= r.replacerSize {
		panic(fmt.Sprintf("lru-k replacer: frame id %d out of range [0, %d)", frameID, r.replacerSize))
	}

	r.currentTimestamp++
	node, ok := r.nodeStore[frameID]
	if !ok {
		r.nodeStore[frameID] = &lruKNode{
			frameID: frameID,
			history: []uint64{r.currentTimestamp},
		}
		return
	}
	node.history = append([]uint64{r.currentTimestamp}, node.history...)
}

// SetEvictable toggles frameID's evictable flag. Panics if frameID is
// unknown (spec.md §7, ProgrammerError).
func (r *LRUKReplacer) SetEvictable(frameID int, evictable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, ok := r.nodeStore[frameID]
	if !ok {
		panic(fmt.Sprintf("lru-k replacer: frame id %d not found", frameID))
	}
	if node.evictable == evictable {
		return
	}
	node.evictable = evictable
	if evictable {
		r.evictableSize++
	} else {
		r.evictableSize--
	}
}

// Remove deletes frameID's tracked history. A no-op if frameID is unknown;
// panics if frameID is known but not evictable (spec.md §7, Pinned).
func (r *LRUKReplacer) Remove(frameID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, ok := r.nodeStore[frameID]
	if !ok {
		return
	}
	if !node.evictable {
		panic(fmt.Sprintf("lru-k replacer: frame id %d is not evictable", frameID))
	}
	delete(r.nodeStore, frameID)
	r.evictableSize--
}

// Evict picks the evictable frame with the maximum backward k-distance,
// breaking ties by the smallest earliest remembered timestamp, and removes
// its tracked history. ok is false if no frame is evictable.
func (r *LRUKReplacer) Evict() (frameID int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	best := -1
	var bestDist, bestEarliest uint64

	for id, node := range r.nodeStore {
		if !node.evictable {
			continue
		}
		dist := node.kDistance(r.currentTimestamp, r.k)
		earliest := node.earliestTimestamp()

		switch {
		case best == -1:
			best, bestDist, bestEarliest = id, dist, earliest
		case dist > bestDist:
			best, bestDist, bestEarliest = id, dist, earliest
		case dist == bestDist && earliest < bestEarliest:
			best, bestDist, bestEarliest = id, dist, earliest
		}
	}

	if best == -1 {
		return 0, false
	}
	delete(r.nodeStore, best)
	r.evictableSize--
	return best, true
}

// Size returns the number of currently-evictable frames.
func (r *LRUKReplacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictableSize
}
