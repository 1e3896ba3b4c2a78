package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketPage_InsertLookupRemove(t *testing.T) {
	pageSize := bucketEntriesOffset + 4*(Int64Codec{}.Size()*2)
	buf := make([]byte, pageSize)
	b := NewBucketPage[int64, int64](buf, Int64Codec{}, Int64Codec{})
	b.Init(4)

	assert.True(t, b.Insert(1, 100, Int64Comparator))
	assert.True(t, b.Insert(2, 200, Int64Comparator))
	assert.Equal(t, uint32(2), b.Size())

	v, ok := b.Lookup(1, Int64Comparator)
	assert.True(t, ok)
	assert.Equal(t, int64(100), v)

	_, ok = b.Lookup(99, Int64Comparator)
	assert.False(t, ok)

	assert.False(t, b.Insert(1, 999, Int64Comparator), "duplicate key must be rejected")

	assert.True(t, b.Remove(1, Int64Comparator))
	assert.Equal(t, uint32(1), b.Size())
	_, ok = b.Lookup(1, Int64Comparator)
	assert.False(t, ok)

	v, ok = b.Lookup(2, Int64Comparator)
	assert.True(t, ok)
	assert.Equal(t, int64(200), v)

	assert.Contains(t, b.String(), "2=200")
}

func TestBucketPage_InsertRejectsWhenFull(t *testing.T) {
	pageSize := bucketEntriesOffset + 2*(Int64Codec{}.Size()*2)
	buf := make([]byte, pageSize)
	b := NewBucketPage[int64, int64](buf, Int64Codec{}, Int64Codec{})
	b.Init(2)

	assert.True(t, b.Insert(1, 1, Int64Comparator))
	assert.True(t, b.Insert(2, 2, Int64Comparator))
	assert.True(t, b.IsFull())
	assert.False(t, b.Insert(3, 3, Int64Comparator))
}

func TestBucketPage_RemoveAtKeepsArrayDense(t *testing.T) {
	pageSize := bucketEntriesOffset + 3*(Int64Codec{}.Size()*2)
	buf := make([]byte, pageSize)
	b := NewBucketPage[int64, int64](buf, Int64Codec{}, Int64Codec{})
	b.Init(3)
	b.Insert(1, 10, Int64Comparator)
	b.Insert(2, 20, Int64Comparator)
	b.Insert(3, 30, Int64Comparator)

	assert.True(t, b.Remove(2, Int64Comparator))
	assert.Equal(t, uint32(2), b.Size())
	assert.Equal(t, int64(1), b.KeyAt(0))
	assert.Equal(t, int64(3), b.KeyAt(1))
}

func TestBucketMaxEntries(t *testing.T) {
	n := BucketMaxEntries[int64, int64](Int64Codec{}, Int64Codec{}, 4096)
	assert.Equal(t, uint32((4096-8)/16), n)
}
