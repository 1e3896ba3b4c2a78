// DiskExtendibleHashTable: spec.md §4.5. Grounded on
// original_source/src/container/disk/hash/disk_extendible_hash_table.cpp
// for GetValue/Insert/Remove and on spec.md §9's Open Question decision:
// a bucket overflow triggers exactly one split (and, if needed, exactly
// one directory doubling) per Insert call; it does not loop until the new
// key fits, matching the cited implementation's actual behavior rather
// than the fuller "split until it fits" description in some textbook
// treatments. InsertToNewDirectory/InsertToNewBucket/UpdateDirectoryMapping
// from the C++ implementation are folded into Insert/splitBucket directly;
// they are never called standalone there either.
package hash

import (
	"bustubgo/config"
	"bustubgo/storage_engine/buffer"
)

// Table is a disk-resident extendible hash index mapping keys of type K
// to values of type V.
type Table[K comparable, V any] struct {
	pool     *buffer.Pool
	headerID int64
	keyCodec Codec[K]
	valCodec Codec[V]
	cmp      Comparator[K]
	hashFn   HashFunc[K]

	bucketMaxSize   uint32
	directoryMaxDep uint32
	headerMaxDep    uint32
}

// New creates a fresh hash table backed by pool: it allocates and
// initializes a header page and returns a Table ready for GetValue,
// Insert, and Remove. headerMaxDepth, directoryMaxDepth, and bucketMaxSize
// mirror the three sizing parameters original_source's
// DiskExtendibleHashTable constructor takes explicitly, rather than baking
// config defaults into the type: callers that want the module's defaults
// pass config.HeaderMaxDepth, config.DirectoryMaxDepth, and
// config.BucketMaxSize (or a codec-derived BucketMaxEntries) themselves.
func New[K comparable, V any](pool *buffer.Pool, keyCodec Codec[K], valCodec Codec[V], cmp Comparator[K], hashFn HashFunc[K], headerMaxDepth, directoryMaxDepth, bucketMaxSize uint32) *Table[K, V] {
	guard, headerID := pool.NewPageGuarded()
	header := NewHeaderPage(guard.DataMut())
	header.Init(headerMaxDepth)
	guard.Drop()

	return &Table[K, V]{
		pool:            pool,
		headerID:        headerID,
		keyCodec:        keyCodec,
		valCodec:        valCodec,
		cmp:             cmp,
		hashFn:          hashFn,
		bucketMaxSize:   bucketMaxSize,
		directoryMaxDep: directoryMaxDepth,
		headerMaxDep:    headerMaxDepth,
	}
}

func (t *Table[K, V]) bucket(data []byte) BucketPage[K, V] {
	return NewBucketPage(data, t.keyCodec, t.valCodec)
}

// GetValue returns the value associated with key, if present. Per spec.md
// §4.5, the header is fetched with a basic guard, and the directory and
// bucket are both fetched with write guards; the directory guard is held
// until the bucket guard is acquired (mirroring Insert's `defer
// dirGuard.Drop()`) so a concurrent Insert can't split the target bucket
// and repoint the directory slot out from under this lookup between the
// directory read and the bucket fetch.
func (t *Table[K, V]) GetValue(key K) (V, bool) {
	var zero V

	hash := t.hashFn(key)

	headerGuard := t.pool.FetchPageBasic(t.headerID)
	if !headerGuard.IsValid() {
		return zero, false
	}
	header := NewHeaderPage(headerGuard.Data())
	dirIndex := header.HashToDirectoryIndex(hash)
	dirID := header.GetDirectoryPageID(dirIndex)
	headerGuard.Drop()
	if dirID == config.InvalidPageID {
		return zero, false
	}

	dirGuard := t.pool.FetchPageWrite(dirID)
	if !dirGuard.IsValid() {
		return zero, false
	}
	defer dirGuard.Drop()
	dir := NewDirectoryPage(dirGuard.Data())
	bucketIndex := dir.HashToBucketIndex(hash)
	bucketID := dir.GetBucketPageID(bucketIndex)
	if bucketID == config.InvalidPageID {
		return zero, false
	}

	bucketGuard := t.pool.FetchPageWrite(bucketID)
	if !bucketGuard.IsValid() {
		return zero, false
	}
	defer bucketGuard.Drop()
	return t.bucket(bucketGuard.Data()).Lookup(key, t.cmp)
}

// Insert adds key/value to the table. It returns false if key is already
// present. A full target bucket triggers one split (and, if the bucket's
// local depth equals the directory's global depth, one directory
// doubling); if the key still does not fit after that single split,
// Insert returns false, matching the single-split-per-call limitation
// spec.md §9 calls out.
func (t *Table[K, V]) Insert(key K, value V) bool {
	hash := t.hashFn(key)

	headerGuard := t.pool.FetchPageWrite(t.headerID)
	header := NewHeaderPage(headerGuard.DataMut())
	dirIndex := header.HashToDirectoryIndex(hash)
	dirID := header.GetDirectoryPageID(dirIndex)
	if dirID == config.InvalidPageID {
		dirID = t.newDirectory(header, dirIndex, hash, key, value)
		headerGuard.Drop()
		return dirID != config.InvalidPageID
	}
	headerGuard.Drop()

	dirGuard := t.pool.FetchPageWrite(dirID)
	defer dirGuard.Drop()
	dir := NewDirectoryPage(dirGuard.DataMut())

	bucketIndex := dir.HashToBucketIndex(hash)
	bucketID := dir.GetBucketPageID(bucketIndex)
	if bucketID == config.InvalidPageID {
		return t.newBucketAt(dir, bucketIndex, key, value)
	}

	bucketGuard := t.pool.FetchPageWrite(bucketID)
	bucket := t.bucket(bucketGuard.DataMut())

	if bucket.Insert(key, value, t.cmp) {
		bucketGuard.Drop()
		return true
	}
	if _, exists := bucket.Lookup(key, t.cmp); exists {
		bucketGuard.Drop()
		return false
	}

	// Bucket is full: split it once and retry the insert into whichever
	// half key now hashes to.
	ok := t.splitBucket(dir, bucketIndex, bucketID, bucketGuard)
	if !ok {
		return false
	}
	newBucketIndex := dir.HashToBucketIndex(hash)
	newBucketID := dir.GetBucketPageID(newBucketIndex)
	retryGuard := t.pool.FetchPageWrite(newBucketID)
	defer retryGuard.Drop()
	return t.bucket(retryGuard.DataMut()).Insert(key, value, t.cmp)
}

// newDirectory allocates a directory page and its first bucket for a
// header slot that has never been used, then inserts key/value.
func (t *Table[K, V]) newDirectory(header HeaderPage, dirIndex uint32, hash uint32, key K, value V) int64 {
	dirGuard, dirID := t.pool.NewPageGuarded()
	dir := NewDirectoryPage(dirGuard.DataMut())
	dir.Init(t.directoryMaxDep)

	if !t.newBucketAt(dir, dir.HashToBucketIndex(hash), key, value) {
		dirGuard.Drop()
		return config.InvalidPageID
	}
	dirGuard.Drop()

	header.SetDirectoryPageID(dirIndex, dirID)
	return dirID
}

// newBucketAt allocates a fresh, empty bucket for a directory slot that
// has never been used, then inserts key/value into it.
func (t *Table[K, V]) newBucketAt(dir DirectoryPage, index uint32, key K, value V) bool {
	bucketGuard, bucketID := t.pool.NewPageGuarded()
	bucket := t.bucket(bucketGuard.DataMut())
	bucket.Init(t.bucketMaxSize)
	bucket.Insert(key, value, t.cmp)
	bucketGuard.Drop()

	dir.SetBucketPageID(index, bucketID)
	dir.SetLocalDepth(index, 0)
	return true
}

// splitBucket redistributes bucketID's entries between it and a freshly
// allocated split image, growing the directory first if the bucket's
// local depth has caught up to the directory's global depth. bucketGuard
// is consumed (dropped) by this call regardless of outcome.
func (t *Table[K, V]) splitBucket(dir DirectoryPage, bucketIndex uint32, bucketID int64, bucketGuard buffer.WritePageGuard) bool {
	localDepth := dir.GetLocalDepth(bucketIndex)
	if localDepth == dir.MaxDepth() {
		bucketGuard.Drop()
		return false
	}
	if localDepth == dir.GlobalDepth() {
		if dir.GlobalDepth() >= dir.MaxDepth() {
			bucketGuard.Drop()
			return false
		}
		dir.IncrGlobalDepth()
	}

	newLocalDepth := localDepth + 1
	splitIndex := bucketIndex ^ (uint32(1) << localDepth)

	newGuard, newBucketID := t.pool.NewPageGuarded()
	newBucket := t.bucket(newGuard.DataMut())
	newBucket.Init(t.bucketMaxSize)

	oldBucket := t.bucket(bucketGuard.DataMut())
	localMask := uint32(1)<<newLocalDepth - 1
	splitLowBits := splitIndex & localMask

	keep := make([]K, 0, oldBucket.Size())
	keepVals := make([]V, 0, oldBucket.Size())
	move := make([]K, 0, oldBucket.Size())
	moveVals := make([]V, 0, oldBucket.Size())
	for i := uint32(0); i < oldBucket.Size(); i++ {
		key := oldBucket.KeyAt(i)
		val := oldBucket.ValueAt(i)
		if t.hashFn(key)&localMask == splitLowBits {
			move = append(move, key)
			moveVals = append(moveVals, val)
		} else {
			keep = append(keep, key)
			keepVals = append(keepVals, val)
		}
	}

	oldBucket.Init(t.bucketMaxSize)
	for i, k := range keep {
		oldBucket.Insert(k, keepVals[i], t.cmp)
	}
	for i, k := range move {
		newBucket.Insert(k, moveVals[i], t.cmp)
	}

	// Every directory slot that still points at bucketID — not just
	// bucketIndex and its split image — shares the old local depth and
	// must advance to newLocalDepth, per spec.md §3(6): all slots sharing
	// the low local_depth(i) bits with i must agree on which bucket page
	// they refer to. Slots whose low newLocalDepth bits match the split
	// image are additionally repointed to the new bucket.
	for slot := uint32(0); slot < dir.Size(); slot++ {
		if dir.GetBucketPageID(slot) != bucketID {
			continue
		}
		if slot&localMask == splitLowBits {
			dir.SetBucketPageID(slot, newBucketID)
		}
		dir.SetLocalDepth(slot, newLocalDepth)
	}

	newGuard.Drop()
	bucketGuard.Drop()
	return true
}

// Remove deletes key from the table, if present, and reports whether it
// removed anything. It never merges buckets or shrinks the directory:
// spec.md §4.5 defines only growth-side rebalancing. Like GetValue, the
// header is fetched with a basic guard and the directory guard is held
// (via defer) until the bucket guard is acquired, so a concurrent split
// can't repoint the directory slot between the directory read and the
// bucket fetch.
func (t *Table[K, V]) Remove(key K) bool {
	hash := t.hashFn(key)

	headerGuard := t.pool.FetchPageBasic(t.headerID)
	if !headerGuard.IsValid() {
		return false
	}
	header := NewHeaderPage(headerGuard.Data())
	dirIndex := header.HashToDirectoryIndex(hash)
	dirID := header.GetDirectoryPageID(dirIndex)
	headerGuard.Drop()
	if dirID == config.InvalidPageID {
		return false
	}

	dirGuard := t.pool.FetchPageWrite(dirID)
	if !dirGuard.IsValid() {
		return false
	}
	defer dirGuard.Drop()
	dir := NewDirectoryPage(dirGuard.Data())
	bucketID := dir.GetBucketPageID(dir.HashToBucketIndex(hash))
	if bucketID == config.InvalidPageID {
		return false
	}

	bucketGuard := t.pool.FetchPageWrite(bucketID)
	if !bucketGuard.IsValid() {
		return false
	}
	defer bucketGuard.Drop()
	return t.bucket(bucketGuard.DataMut()).Remove(key, t.cmp)
}
