package hash

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const bucketEntriesOffset = 8

// BucketPage is a view over a frame's raw bytes as an extendible hash
// bucket page: a flat, size-prefixed array of fixed-width key/value
// entries. Keys are assumed unique, matching spec.md §4.5's GetValue
// contract of returning at most one value per key.
type BucketPage[K comparable, V any] struct {
	data     []byte
	keyCodec Codec[K]
	valCodec Codec[V]
}

// NewBucketPage wraps data as a bucket page view using the given key and
// value codecs.
func NewBucketPage[K comparable, V any](data []byte, keyCodec Codec[K], valCodec Codec[V]) BucketPage[K, V] {
	return BucketPage[K, V]{data: data, keyCodec: keyCodec, valCodec: valCodec}
}

func (b BucketPage[K, V]) entrySize() int {
	return b.keyCodec.Size() + b.valCodec.Size()
}

// BucketMaxEntries returns how many entries fit in a bucket page of
// pageSize bytes given a key/value codec pair.
func BucketMaxEntries[K comparable, V any](keyCodec Codec[K], valCodec Codec[V], pageSize int) uint32 {
	entrySize := keyCodec.Size() + valCodec.Size()
	return uint32((pageSize - bucketEntriesOffset) / entrySize)
}

// Init sets the bucket's size to 0 and its max size to maxSize.
func (b BucketPage[K, V]) Init(maxSize uint32) {
	binary.LittleEndian.PutUint32(b.data[0:], 0)
	binary.LittleEndian.PutUint32(b.data[4:], maxSize)
}

// Size returns the number of entries currently stored.
func (b BucketPage[K, V]) Size() uint32 {
	return binary.LittleEndian.Uint32(b.data[0:])
}

func (b BucketPage[K, V]) setSize(v uint32) {
	binary.LittleEndian.PutUint32(b.data[0:], v)
}

// MaxSize returns the bucket's configured capacity.
func (b BucketPage[K, V]) MaxSize() uint32 {
	return binary.LittleEndian.Uint32(b.data[4:])
}

// IsFull reports whether the bucket has reached its configured capacity.
func (b BucketPage[K, V]) IsFull() bool {
	return b.Size() >= b.MaxSize()
}

// IsEmpty reports whether the bucket holds no entries.
func (b BucketPage[K, V]) IsEmpty() bool {
	return b.Size() == 0
}

func (b BucketPage[K, V]) entryAt(i uint32) []byte {
	off := bucketEntriesOffset + int(i)*b.entrySize()
	return b.data[off : off+b.entrySize()]
}

// KeyAt returns the key stored at slot i.
func (b BucketPage[K, V]) KeyAt(i uint32) K {
	return b.keyCodec.Decode(b.entryAt(i)[:b.keyCodec.Size()])
}

// ValueAt returns the value stored at slot i.
func (b BucketPage[K, V]) ValueAt(i uint32) V {
	return b.valCodec.Decode(b.entryAt(i)[b.keyCodec.Size():])
}

// Lookup returns the value associated with key, if present.
func (b BucketPage[K, V]) Lookup(key K, cmp Comparator[K]) (V, bool) {
	for i := uint32(0); i < b.Size(); i++ {
		if cmp(b.KeyAt(i), key) == 0 {
			return b.ValueAt(i), true
		}
	}
	var zero V
	return zero, false
}

// Insert appends key/value to the bucket. It returns false if the bucket
// is full or key is already present.
func (b BucketPage[K, V]) Insert(key K, value V, cmp Comparator[K]) bool {
	if _, ok := b.Lookup(key, cmp); ok {
		return false
	}
	if b.IsFull() {
		return false
	}
	i := b.Size()
	entry := b.entryAt(i)
	b.keyCodec.Encode(key, entry[:b.keyCodec.Size()])
	b.valCodec.Encode(value, entry[b.keyCodec.Size():])
	b.setSize(i + 1)
	return true
}

// RemoveAt deletes the entry at slot i, shifting later entries down to
// keep the array dense.
func (b BucketPage[K, V]) RemoveAt(i uint32) {
	last := b.Size() - 1
	for j := i; j < last; j++ {
		copy(b.entryAt(j), b.entryAt(j+1))
	}
	b.setSize(last)
}

// Remove deletes the entry for key, if present, and reports whether it
// removed anything.
func (b BucketPage[K, V]) Remove(key K, cmp Comparator[K]) bool {
	for i := uint32(0); i < b.Size(); i++ {
		if cmp(b.KeyAt(i), key) == 0 {
			b.RemoveAt(i)
			return true
		}
	}
	return false
}

// String dumps the bucket's entries, for diagnostic logging.
func (b BucketPage[K, V]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "bucket(size=%d/%d)", b.Size(), b.MaxSize())
	for i := uint32(0); i < b.Size(); i++ {
		fmt.Fprintf(&sb, " %v=%v", b.KeyAt(i), b.ValueAt(i))
	}
	return sb.String()
}
